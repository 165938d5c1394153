package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderMarkdown(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "bold stars",
			in:   "Try **blue** jeans",
			want: "Try <strong>blue</strong> jeans",
		},
		{
			name: "bold underscores",
			in:   "a __warm__ coat",
			want: "a <strong>warm</strong> coat",
		},
		{
			name: "italic star",
			in:   "a *light* scarf",
			want: "a <em>light</em> scarf",
		},
		{
			name: "italic underscore",
			in:   "a _casual_ look",
			want: "a <em>casual</em> look",
		},
		{
			name: "bold wins over italic",
			in:   "**bold** and *italic*",
			want: "<strong>bold</strong> and <em>italic</em>",
		},
		{
			name: "newlines become breaks",
			in:   "line one\nline two",
			want: "line one<br />line two",
		},
		{
			name: "bullet list",
			in:   "Options:\n- jeans\n- chinos",
			want: "Options:<br /><ul><li>jeans</li><br /><li>chinos</li></ul>",
		},
		{
			name: "star bullets",
			in:   "* jeans\n* chinos",
			want: "<ul><li>jeans</li><br /><li>chinos</li></ul>",
		},
		{
			name: "html is escaped",
			in:   `<script>alert("x")</script> & co`,
			want: "&lt;script&gt;alert(\"x\")&lt;/script&gt; &amp; co",
		},
		{
			name: "plain text untouched",
			in:   "just a sentence.",
			want: "just a sentence.",
		},
		{
			name: "empty",
			in:   "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RenderMarkdown(tt.in))
		})
	}
}

func TestRenderMarkdownIdempotent(t *testing.T) {
	inputs := []string{
		"Try **blue** jeans",
		"a _casual_ look with *flair*",
		"Options:\n- jeans\n- chinos\nDone.",
		`<b>raw html</b> & "quotes"`,
		"mixed **bold**\n- item one\n- item two",
	}
	for _, in := range inputs {
		once := RenderMarkdown(in)
		assert.Equal(t, once, RenderMarkdown(once), "re-rendering must be a no-op for %q", in)
	}
}

func TestRenderMarkdownSingleListRun(t *testing.T) {
	// Separate bulleted runs share one container. Narrow but deliberate.
	in := "- a\ntext\n- b"
	out := RenderMarkdown(in)
	assert.Equal(t, "<ul><li>a</li><br />text<br /><li>b</li></ul>", out)
	assert.Equal(t, out, RenderMarkdown(out))
}
