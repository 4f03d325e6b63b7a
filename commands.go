package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"threea/canvas"
	"threea/codec"
	"threea/export"
	"threea/validation"

	"github.com/spf13/cobra"
)

func (a *app) convertCmd() *cobra.Command {
	var (
		output        string
		stripComments bool
	)

	cmd := &cobra.Command{
		Use:   "convert [file]",
		Short: "Rewrite a 3a file in the current format",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			art, _, err := a.load(args)
			if err != nil {
				return err
			}
			if stripComments {
				art.StripComments()
			}
			data, err := codec.Encode(art)
			if err != nil {
				return fmt.Errorf("encoding art: %w", err)
			}
			return a.write(output, data)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().BoolVar(&stripComments, "strip-comments", false, "drop header comments")
	return cmd
}

func (a *app) exportCmd() *cobra.Command {
	var (
		format  string
		output  string
		frame   int
		animate bool
	)

	cmd := &cobra.Command{
		Use:   "export [file]",
		Short: "Render a 3a file as SVG, asciicast, ANSI, JSON or text",
		Long: "Render a 3a file in another format.\n\nFormats:\n" + formatHelp() +
			"\nWithout --format the format is taken from the output file's extension.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := a.exportFormat(format, output, cmd.Flags().Changed("format"))
			if err != nil {
				return err
			}

			art, _, err := a.load(args)
			if err != nil {
				return err
			}

			var rendered string
			switch f {
			case export.FormatSVG:
				e, err := a.cfg.SVG.Exporter()
				if err != nil {
					return err
				}
				if cmd.Flags().Changed("animate") {
					e.Animate = animate
				}
				if frame >= 0 {
					rendered, err = e.RenderSVGFrame(art, frame)
				} else {
					rendered, err = e.Export(art)
				}
				if err != nil {
					return fmt.Errorf("exporting svg: %w", err)
				}
			case export.FormatANSI:
				if frame >= 0 {
					rendered, err = export.RenderANSIFrame(art, frame)
					rendered += "\n"
				} else {
					rendered, err = export.NewANSIExporter().Export(art)
				}
				if err != nil {
					return fmt.Errorf("exporting ansi: %w", err)
				}
			default:
				if frame >= 0 {
					return fmt.Errorf("--frame is only supported for svg and ansi, not %s", f)
				}
				exporter, err := export.NewExporter(f)
				if err != nil {
					return err
				}
				if rendered, err = exporter.Export(art); err != nil {
					return fmt.Errorf("exporting %s: %w", f, err)
				}
			}

			return a.write(output, []byte(rendered))
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", string(export.FormatSVG), "export format")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().IntVar(&frame, "frame", -1, "render a single frame (svg and ansi only)")
	cmd.Flags().BoolVar(&animate, "animate", false, "animate the svg frames (overrides the config file)")
	return cmd
}

// exportFormat resolves the requested format. An unset --format falls
// back to the output file's extension, then to the flag default.
func (a *app) exportFormat(name, output string, explicit bool) (export.Format, error) {
	if !explicit && output != "" {
		if f, ok := formatForPath(output); ok {
			return f, nil
		}
	}
	f, err := export.ParseFormat(name)
	if err != nil {
		return "", fmt.Errorf("%w (available: %s)", err, availableFormats())
	}
	return f, nil
}

func formatForPath(path string) (export.Format, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return "", false
	}
	for _, f := range export.GetAvailableFormats() {
		e, err := export.NewExporter(f)
		if err == nil && e.GetFileExtension() == ext {
			return f, true
		}
	}
	return "", false
}

func availableFormats() string {
	var names []string
	for _, f := range export.GetAvailableFormats() {
		names = append(names, string(f))
	}
	return strings.Join(names, ", ")
}

func formatHelp() string {
	var sb strings.Builder
	descriptions := export.GetFormatDescriptions()
	for _, f := range export.GetAvailableFormats() {
		fmt.Fprintf(&sb, "  %-10s %s\n", f, descriptions[f])
	}
	return sb.String()
}

func (a *app) infoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info [file]",
		Short: "Show the header, size and timing of a 3a file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			art, version, err := a.load(args)
			if err != nil {
				return err
			}
			printInfo(a.stdout, art, version)
			return nil
		},
	}
}

func printInfo(w io.Writer, art *canvas.Art, version codec.Version) {
	width, height := art.Size()
	maxWidth, maxHeight := art.MaxSize()

	row := func(label, format string, args ...any) {
		fmt.Fprintf(w, "%-10s "+format+"\n", append([]any{label + ":"}, args...)...)
	}

	row("format", "%s", version)
	if line := art.TitleLine(); line != "" {
		row("title", "%s", line)
	}
	if art.Source != "" {
		row("source", "%s", art.Source)
	}
	if art.License != "" {
		row("license", "%s", art.License)
	}
	if len(art.Tags) > 0 {
		row("tags", "%s", strings.Join(art.Tags, " "))
	}
	if maxWidth != width || maxHeight != height {
		row("size", "%dx%d (largest frame %dx%d)", width, height, maxWidth, maxHeight)
	} else {
		row("size", "%dx%d", width, height)
	}
	row("frames", "%d", art.FrameCount())
	row("delay", "%s", art.GlobalDelay())
	row("duration", "%s", art.Duration())
	row("loop", "%s", canvas.FlagOf(art.Loop.Value(true)))
	if art.Preview != canvas.NoPreview {
		row("preview", "%d", art.Preview)
	}
	if art.Colored() {
		row("colors", "yes, %d palette entries", art.Palette().Len())
	} else {
		row("colors", "no")
	}
	if art.Attach != "" {
		row("attached", "%s", art.Attach)
	}
	for _, b := range art.Extra {
		row("block", "@%s", b.Name)
	}
}

func (a *app) validateCmd() *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "validate [file]",
		Short: "Check a 3a file and report every problem found",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			art, warnings, err := a.decode(args)
			if err != nil {
				return err
			}

			for _, w := range warnings {
				fmt.Fprintf(a.stdout, "warning: %s\n", w)
			}

			v := validation.NewArtValidator()
			v.SetStrictMode(strict)
			problems := v.Validate(art)
			for _, p := range problems {
				fmt.Fprintf(a.stdout, "error: %s\n", p)
			}

			if len(problems) > 0 {
				return fmt.Errorf("%d problems found", len(problems))
			}
			fmt.Fprintf(a.stdout, "ok: %d frames, %d warnings\n", art.FrameCount(), len(warnings))
			return nil
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "also reject wide glyphs and an out of range preview frame")
	return cmd
}

// load reads and decodes the input named by args and returns the art and
// the format generation it was read from.
func (a *app) load(args []string) (*canvas.Art, codec.Version, error) {
	data, name, err := a.readInput(args)
	if err != nil {
		return nil, codec.VersionUnsupported, err
	}

	version, err := codec.DetectVersion(data)
	if err != nil {
		return nil, version, fmt.Errorf("%s: %w", name, err)
	}

	art, warnings, err := codec.Decode(data, a.cfg.CodecOptions(a.logger)...)
	if err != nil {
		return nil, version, fmt.Errorf("%s: %w", name, err)
	}
	if len(warnings) > 0 {
		a.logger.Info("legacy file read with warnings", "input", name, "warnings", len(warnings))
	}
	return art, version, nil
}

// decode is load for callers that report warnings themselves.
func (a *app) decode(args []string) (*canvas.Art, []codec.Warning, error) {
	data, name, err := a.readInput(args)
	if err != nil {
		return nil, nil, err
	}
	art, warnings, err := codec.Decode(data, a.cfg.CodecOptions(a.logger)...)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", name, err)
	}
	return art, warnings, nil
}

func (a *app) readInput(args []string) ([]byte, string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(a.stdin)
		if err != nil {
			return nil, "", fmt.Errorf("reading stdin: %w", err)
		}
		return data, "stdin", nil
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return nil, "", fmt.Errorf("reading file: %w", err)
	}
	return data, args[0], nil
}

func (a *app) write(path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := a.stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing file: %w", err)
	}
	a.logger.Info("wrote output", "path", path, "bytes", len(data))
	return nil
}
