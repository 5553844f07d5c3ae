package service

import (
	"bytes"
	"html"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

const excerptLimit = 160

var (
	markdownRenderer = goldmark.New(goldmark.WithExtensions(extension.GFM))
	renderPolicy     = bluemonday.UGCPolicy()
)

// RenderMarkdown converts stored blog content to HTML safe for direct embedding.
// Stored content is entity-escaped, so it is unescaped first to restore
// markdown syntax such as blockquotes and autolinks; the UGC policy cleans the output.
func RenderMarkdown(content string) (string, error) {
	var buf bytes.Buffer
	if err := markdownRenderer.Convert([]byte(html.UnescapeString(content)), &buf); err != nil {
		return "", err
	}
	return renderPolicy.Sanitize(buf.String()), nil
}

// summarizeContent 从正文提取纯文本摘要，超过上限时以省略号截断。
func summarizeContent(markdown string) string {
	plain := html.UnescapeString(markdown)
	replacer := strings.NewReplacer(
		"#", " ",
		"*", " ",
		"`", " ",
		"_", " ",
		">", " ",
		"[", " ",
		"]", " ",
		"(", " ",
		")", " ",
	)
	plain = replacer.Replace(plain)
	plain = strings.Join(strings.Fields(plain), " ")
	if plain == "" {
		return ""
	}

	if utf8.RuneCountInString(plain) <= excerptLimit {
		return html.EscapeString(plain)
	}

	runes := []rune(plain)
	return html.EscapeString(strings.TrimSpace(string(runes[:excerptLimit]))) + "…"
}
