package widget

import (
	"bytes"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var (
	markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))
	sanitize = bluemonday.UGCPolicy()
)

// RenderMarkdown converts markdown to HTML and strips anything the UGC policy
// does not allow, so stored widget content cannot inject script into the
// dashboard.
func RenderMarkdown(source string) string {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(source), &buf); err != nil {
		return sanitize.Sanitize(source)
	}
	return sanitize.Sanitize(buf.String())
}
