package telegram

import "strings"

// ToDisplayHTML converts the renderer's restricted HTML subset into what
// Telegram's HTML parse mode accepts: <strong> and <em> pass through,
// list markup becomes bullet lines, <br /> becomes a newline.
func ToDisplayHTML(rendered string) string {
	r := strings.NewReplacer(
		"<br />", "\n",
		"<ul>", "",
		"</ul>", "",
		"<li>", "• ",
		"</li>", "\n",
	)
	return strings.TrimRight(r.Replace(rendered), "\n")
}
