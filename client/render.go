package client

import (
	"html"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
)

const (
	// Visible length of a derived excerpt, in characters.
	excerptLength = 180

	ellipsis = "…"

	wordsPerMinute = 200
)

var stripPolicy = bluemonday.StrictPolicy()

// plainText renders rich-text markup down to collapsed plain text.
func plainText(markup string) string {
	text := stripPolicy.Sanitize(markup)
	// The policy entity-escapes its output; undo that for display text.
	text = html.UnescapeString(text)
	return strings.Join(strings.Fields(text), " ")
}

// Excerpt derives the stored summary from post markup: plain text cut to
// excerptLength characters, with an ellipsis marker when the source
// exceeded that length.
func Excerpt(markup string) string {
	text := plainText(markup)
	runes := []rune(text)
	if len(runes) <= excerptLength {
		return text
	}
	return string(runes[:excerptLength]) + ellipsis
}

// ReadTime estimates reading minutes for post markup at wordsPerMinute,
// rounded up and floored at one minute. View-only; never persisted.
func ReadTime(markup string) int {
	words := len(strings.Fields(plainText(markup)))
	minutes := (words + wordsPerMinute - 1) / wordsPerMinute
	if minutes < 1 {
		minutes = 1
	}
	return minutes
}

const idAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// NewPostID generates an identifier for a new post: the current unix-milli
// timestamp in base36 plus a random base36 suffix. Unique with overwhelming
// probability within one deployment; not cryptographic, and a collision
// silently overwrites via upsert semantics.
func NewPostID() string {
	suffix := make([]byte, 8)
	for i := range suffix {
		suffix[i] = idAlphabet[rand.Intn(len(idAlphabet))]
	}
	return strconv.FormatInt(time.Now().UnixMilli(), 36) + "-" + string(suffix)
}
