package widget

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderMarkdownProducesHTML(t *testing.T) {
	html := RenderMarkdown("# Runbook\n\n- step **one**\n- step two")
	assert.Contains(t, html, "<h1>Runbook</h1>")
	assert.Contains(t, html, "<strong>one</strong>")
}

func TestRenderMarkdownStripsScript(t *testing.T) {
	html := RenderMarkdown("hello <script>alert(1)</script> world")
	assert.NotContains(t, html, "<script")
	assert.NotContains(t, html, "alert(1)")
	assert.Contains(t, html, "hello")
}

func TestRenderMarkdownStripsEventHandlers(t *testing.T) {
	html := RenderMarkdown(`<img src="x" onerror="alert(1)">`)
	assert.NotContains(t, html, "onerror")
}
