package gmail

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	emoji "github.com/yuin/goldmark-emoji"
	meta "github.com/yuin/goldmark-meta"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
)

// notificationMarkdown renders advisor notification bodies. Emoji
// shortcodes and a YAML frontmatter block are supported.
var notificationMarkdown = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		emoji.Emoji,
		meta.Meta,
	),
)

// RenderNotification converts a notification body from markdown to HTML.
// A frontmatter "subject" key, when present, is returned so callers can
// override the subject line.
func RenderNotification(markdown string) (string, string, error) {
	var buf bytes.Buffer
	pctx := parser.NewContext()

	if err := notificationMarkdown.Convert([]byte(markdown), &buf, parser.WithContext(pctx)); err != nil {
		return "", "", fmt.Errorf("failed to render notification: %w", err)
	}

	subject := ""
	if metaData := meta.Get(pctx); metaData != nil {
		subject, _ = metaData["subject"].(string)
	}

	return subject, buf.String(), nil
}
