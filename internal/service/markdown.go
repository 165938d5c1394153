package service

import (
	"regexp"
	"strings"
)

// RenderMarkdown converts assistant text to a restricted HTML subset:
// bold, italic, a single bulleted list run and line breaks. Nothing else
// is interpreted. Pass order is fixed (escape, bold, italic, list, breaks)
// and the whole pipeline is idempotent, so re-rendering already-rendered
// output is a no-op.
func RenderMarkdown(text string) string {
	out := escapeHTML(text)
	out = boldStars.ReplaceAllString(out, "<strong>$1</strong>")
	out = boldUnderscores.ReplaceAllString(out, "<strong>$1</strong>")
	out = italicStar.ReplaceAllString(out, "<em>$1</em>")
	out = italicUnderscore.ReplaceAllString(out, "<em>$1</em>")
	out = bulletLine.ReplaceAllString(out, "<li>$1</li>")
	out = wrapListRun(out)
	out = strings.ReplaceAll(out, "\n", "<br />")
	return out
}

var (
	boldStars        = regexp.MustCompile(`\*\*(.*?)\*\*`)
	boldUnderscores  = regexp.MustCompile(`__(.*?)__`)
	italicStar       = regexp.MustCompile(`\*(.*?)\*`)
	italicUnderscore = regexp.MustCompile(`_(.+?)_`)
	bulletLine       = regexp.MustCompile(`(?m)^\s*[-*]\s+(.+)$`)
	listRun          = regexp.MustCompile(`(?s)<li>.*</li>`)
)

// Output alphabet of the renderer. escapeHTML leaves these untouched so a
// second render cannot double-escape.
var (
	allowedTags     = []string{"<strong>", "</strong>", "<em>", "</em>", "<ul>", "</ul>", "<li>", "</li>", "<br />"}
	allowedEntities = []string{"&amp;", "&lt;", "&gt;"}
)

func escapeHTML(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		switch s[i] {
		case '&':
			if ent := matchPrefix(s[i:], allowedEntities); ent != "" {
				b.WriteString(ent)
				i += len(ent)
				continue
			}
			b.WriteString("&amp;")
			i++
		case '<':
			if tag := matchPrefix(s[i:], allowedTags); tag != "" {
				b.WriteString(tag)
				i += len(tag)
				continue
			}
			b.WriteString("&lt;")
			i++
		case '>':
			b.WriteString("&gt;")
			i++
		default:
			b.WriteByte(s[i])
			i++
		}
	}
	return b.String()
}

func matchPrefix(s string, candidates []string) string {
	for _, c := range candidates {
		if strings.HasPrefix(s, c) {
			return c
		}
	}
	return ""
}

// wrapListRun wraps the span from the first <li> to the last </li> in a
// single <ul> container. Only one contiguous run is grouped; multiple
// separate bulleted runs in one message end up in that one container.
// Known limitation, kept deliberately narrow.
func wrapListRun(s string) string {
	if strings.Contains(s, "<ul>") {
		return s
	}
	loc := listRun.FindStringIndex(s)
	if loc == nil {
		return s
	}
	return s[:loc[0]] + "<ul>" + s[loc[0]:loc[1]] + "</ul>" + s[loc[1]:]
}
