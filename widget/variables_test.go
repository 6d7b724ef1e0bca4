package widget

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/infinitelyweird/OpenClaw-Dashboard/models"
)

type staticSource struct {
	vars []models.WidgetVariable
	err  error
}

func (s staticSource) Variables(context.Context) ([]models.WidgetVariable, error) {
	return s.vars, s.err
}

func testResolver() *Resolver {
	return NewResolver(staticSource{vars: []models.WidgetVariable{
		{Name: "host", Value: "prod-1.internal"},
		{Name: "api_key", Value: "s3cret"},
	}})
}

func TestResolveTextSubstitutesKnownVariables(t *testing.T) {
	r := testResolver()
	got := r.ResolveText(context.Background(), "https://{{host}}/metrics?key={{api_key}}")
	assert.Equal(t, "https://prod-1.internal/metrics?key=s3cret", got)
}

func TestResolveTextLeavesUnknownTokensVerbatim(t *testing.T) {
	r := testResolver()
	got := r.ResolveText(context.Background(), "ping {{host}} and {{nope}}")
	assert.Equal(t, "ping prod-1.internal and {{nope}}", got)
}

func TestResolveTextIsCaseSensitive(t *testing.T) {
	r := testResolver()
	got := r.ResolveText(context.Background(), "{{Host}}")
	assert.Equal(t, "{{Host}}", got)
}

func TestResolveTextSourceFailureReturnsInput(t *testing.T) {
	r := NewResolver(staticSource{err: errors.New("mongo down")})
	got := r.ResolveText(context.Background(), "https://{{host}}/metrics")
	assert.Equal(t, "https://{{host}}/metrics", got)
}

func TestResolveConfigWalksNestedObjectsOnly(t *testing.T) {
	r := testResolver()
	cfg := map[string]interface{}{
		"url":   "https://{{host}}/api",
		"max":   float64(100),
		"inner": map[string]interface{}{"label": "{{host}}"},
		"items": []interface{}{"{{host}}", map[string]interface{}{"u": "{{host}}"}},
	}

	got := r.ResolveConfig(context.Background(), cfg)

	assert.Equal(t, "https://prod-1.internal/api", got["url"])
	assert.Equal(t, float64(100), got["max"])
	assert.Equal(t, map[string]interface{}{"label": "prod-1.internal"}, got["inner"])
	// Arrays pass through untouched, placeholders and all.
	assert.Equal(t, []interface{}{"{{host}}", map[string]interface{}{"u": "{{host}}"}}, got["items"])
}
