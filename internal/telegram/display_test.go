package telegram

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToDisplayHTML(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "breaks become newlines",
			in:   "line one<br />line two",
			want: "line one\nline two",
		},
		{
			name: "list becomes bullet lines",
			in:   "Options:<br /><ul><li>jeans</li><br /><li>chinos</li></ul>",
			want: "Options:\n• jeans\n\n• chinos",
		},
		{
			name: "emphasis passes through",
			in:   "Try <strong>blue</strong> jeans with <em>flair</em>",
			want: "Try <strong>blue</strong> jeans with <em>flair</em>",
		},
		{
			name: "trailing newlines trimmed",
			in:   "done<br /><br />",
			want: "done",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ToDisplayHTML(tt.in))
		})
	}
}

func TestSplitMessageShort(t *testing.T) {
	parts := SplitMessage("hello", 10)
	assert.Equal(t, []string{"hello"}, parts)
}

func TestSplitMessagePrefersNewlines(t *testing.T) {
	text := strings.Repeat("a", 8) + "\n" + strings.Repeat("b", 8)
	parts := SplitMessage(text, 10)
	assert.Equal(t, []string{strings.Repeat("a", 8) + "\n", strings.Repeat("b", 8)}, parts)
}

func TestSplitMessageHardSplit(t *testing.T) {
	text := strings.Repeat("x", 25)
	parts := SplitMessage(text, 10)
	assert.Equal(t, []string{strings.Repeat("x", 10), strings.Repeat("x", 10), strings.Repeat("x", 5)}, parts)

	var rejoined strings.Builder
	for _, p := range parts {
		rejoined.WriteString(p)
	}
	assert.Equal(t, text, rejoined.String())
}
