package codec

import (
	"strconv"
	"strings"
	"threea/canvas"
)

// commentBuffer holds header comments until the line they precede is read.
type commentBuffer []string

func (b *commentBuffer) add(text string) {
	*b = append(*b, strings.TrimSpace(canvas.NormalizeText(text)))
}

// attach hands the buffered comments to the header line named key.
func (b *commentBuffer) attach(h *canvas.Header, key string) {
	for _, c := range *b {
		h.AddComment(key, c)
	}
	*b = nil
}

// flush keeps comments that no header line followed.
func (b *commentBuffer) flush(h *canvas.Header) {
	h.TrailingComments = append(h.TrailingComments, *b...)
	*b = nil
}

// readTagLine adds the "#tag" fields of line to h and attaches the
// buffered comments to the first tag it added.
func readTagLine(h *canvas.Header, line string, comments *commentBuffer) {
	before := len(h.Tags)
	for _, field := range strings.Fields(line) {
		if tag, ok := strings.CutPrefix(field, "#"); ok {
			h.AddTag(tag)
		}
	}
	if len(h.Tags) > before {
		comments.attach(h, tagCommentKey(h.Tags[before]))
	}
}

func tagCommentKey(tag string) string {
	return "#" + tag
}

func colorCommentKey(index int) string {
	return "col " + strconv.Itoa(index)
}
