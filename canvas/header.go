package canvas

import "strings"

// Flag is an optional yes/no header value.
type Flag uint8

const (
	FlagUnset Flag = iota
	FlagYes
	FlagNo
)

// FlagOf converts b to a set Flag.
func FlagOf(b bool) Flag {
	if b {
		return FlagYes
	}
	return FlagNo
}

// Value returns the flag, or def when unset.
func (f Flag) Value(def bool) bool {
	switch f {
	case FlagYes:
		return true
	case FlagNo:
		return false
	default:
		return def
	}
}

// IsSet reports whether the flag carries a value.
func (f Flag) IsSet() bool {
	return f != FlagUnset
}

// String returns "yes", "no" or "".
func (f Flag) String() string {
	switch f {
	case FlagYes:
		return "yes"
	case FlagNo:
		return "no"
	default:
		return ""
	}
}

// NoPreview marks an art without a preferred preview frame.
const NoPreview = -1

// Header holds the descriptive metadata of an art.
type Header struct {
	Title       string
	Authors     []string
	OrigAuthors []string
	Source      string
	Editor      string
	License     string

	Loop    Flag
	Colors  Flag
	Preview int

	Tags []string

	// ExtraKeys keeps unrecognized header lines verbatim ("key value").
	ExtraKeys []string

	// Comments holds comment lines keyed by the header line they precede:
	// the key for single-valued keys ("title", "delay"), "author <name>"
	// and "orig-author <name>" for credits, "col <palette index>" for
	// colors, "#<tag>" for the first tag of a tag line and the line itself
	// for ExtraKeys.
	Comments map[string][]string

	// TrailingComments follow the last header line.
	TrailingComments []string
}

// AddComment attaches a comment line to the header line named by key.
func (h *Header) AddComment(key, text string) {
	if h.Comments == nil {
		h.Comments = make(map[string][]string)
	}
	h.Comments[key] = append(h.Comments[key], text)
}

// CommentsFor returns the comment lines attached to key.
func (h *Header) CommentsFor(key string) []string {
	return h.Comments[key]
}

// StripComments drops every header comment.
func (h *Header) StripComments() {
	h.Comments = nil
	h.TrailingComments = nil
}

// AddAuthor appends author unless already listed.
func (h *Header) AddAuthor(author string) {
	h.Authors = appendUnique(h.Authors, strings.TrimSpace(NormalizeText(author)))
}

// AddOrigAuthor appends an original author unless already listed.
func (h *Header) AddOrigAuthor(author string) {
	h.OrigAuthors = appendUnique(h.OrigAuthors, strings.TrimSpace(NormalizeText(author)))
}

// AddTag adds tag unless already present. Tags cannot contain spaces.
func (h *Header) AddTag(tag string) {
	tag = strings.TrimPrefix(strings.TrimSpace(NormalizeText(tag)), "#")
	if strings.ContainsRune(tag, ' ') {
		return
	}
	h.Tags = appendUnique(h.Tags, tag)
}

// RemoveTag removes tag if present.
func (h *Header) RemoveTag(tag string) {
	out := h.Tags[:0]
	for _, t := range h.Tags {
		if t != tag {
			out = append(out, t)
		}
	}
	h.Tags = out
}

// HasTag reports whether tag is present.
func (h *Header) HasTag(tag string) bool {
	for _, t := range h.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// AuthorsLine joins original authors and authors with ", ".
func (h *Header) AuthorsLine() string {
	all := make([]string, 0, len(h.OrigAuthors)+len(h.Authors))
	all = append(all, h.OrigAuthors...)
	all = append(all, h.Authors...)
	return strings.Join(all, ", ")
}

// TitleLine returns "<title> by <authors>", falling back to whichever part exists.
func (h *Header) TitleLine() string {
	authors := h.AuthorsLine()
	switch {
	case h.Title != "" && authors != "":
		return h.Title + " by " + authors
	case h.Title != "":
		return h.Title
	case authors != "":
		return "art by " + authors
	}
	return ""
}

func (h Header) clone() Header {
	c := h
	c.Authors = append([]string(nil), h.Authors...)
	c.OrigAuthors = append([]string(nil), h.OrigAuthors...)
	c.Tags = append([]string(nil), h.Tags...)
	c.ExtraKeys = append([]string(nil), h.ExtraKeys...)
	c.TrailingComments = append([]string(nil), h.TrailingComments...)
	c.Comments = nil
	for key, lines := range h.Comments {
		for _, line := range lines {
			c.AddComment(key, line)
		}
	}
	return c
}

func appendUnique(list []string, s string) []string {
	if s == "" {
		return list
	}
	for _, e := range list {
		if e == s {
			return list
		}
	}
	return append(list, s)
}
