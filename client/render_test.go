package client

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExcerptShortTextUnchanged(t *testing.T) {
	tests := []struct {
		name   string
		markup string
		want   string
	}{
		{
			name:   "plain paragraph",
			markup: "<p>Hello there</p>",
			want:   "Hello there",
		},
		{
			name:   "nested markup stripped",
			markup: "<p>Some <strong>bold</strong> and <em>italic</em> text</p>",
			want:   "Some bold and italic text",
		},
		{
			name:   "entities unescaped",
			markup: "<p>Tom &amp; Jerry</p>",
			want:   "Tom & Jerry",
		},
		{
			name:   "whitespace collapsed",
			markup: "<p>  spaced \n  out  </p>",
			want:   "spaced out",
		},
		{
			name:   "empty markup",
			markup: "<br>",
			want:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Excerpt(tt.markup))
		})
	}
}

func TestExcerptLongTextTruncated(t *testing.T) {
	// 60 five-character words joined by spaces: 359 visible characters.
	long := "<p>" + strings.TrimSpace(strings.Repeat("lorem ", 60)) + "</p>"

	excerpt := Excerpt(long)

	require.True(t, strings.HasSuffix(excerpt, ellipsis))
	assert.Equal(t, excerptLength+1, utf8.RuneCountInString(excerpt))

	// The visible prefix is exactly the first 180 characters of the text.
	plain := plainText(long)
	assert.Equal(t, string([]rune(plain)[:excerptLength]), strings.TrimSuffix(excerpt, ellipsis))
}

func TestExcerptBoundaryExactLength(t *testing.T) {
	// Exactly 180 characters of plain text: no marker appended.
	exact := strings.Repeat("a", excerptLength)
	excerpt := Excerpt("<p>" + exact + "</p>")

	assert.Equal(t, exact, excerpt)
	assert.False(t, strings.HasSuffix(excerpt, ellipsis))

	// One character over: truncated with the marker.
	over := Excerpt("<p>" + exact + "b</p>")
	assert.Equal(t, exact+ellipsis, over)
}

func TestReadTime(t *testing.T) {
	tests := []struct {
		name  string
		words int
		want  int
	}{
		{"empty content floors at one minute", 0, 1},
		{"single word", 1, 1},
		{"exactly one minute", 200, 1},
		{"just over one minute rounds up", 201, 2},
		{"five minutes", 1000, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			markup := "<p>" + strings.TrimSpace(strings.Repeat("word ", tt.words)) + "</p>"
			assert.Equal(t, tt.want, ReadTime(markup))
		})
	}
}

func TestNewPostID(t *testing.T) {
	id := NewPostID()

	parts := strings.SplitN(id, "-", 2)
	require.Len(t, parts, 2)
	assert.NotEmpty(t, parts[0])
	assert.Len(t, parts[1], 8)

	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		seen[NewPostID()] = struct{}{}
	}
	assert.Len(t, seen, 100)
}
