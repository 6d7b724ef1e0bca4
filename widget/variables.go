package widget

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/infinitelyweird/OpenClaw-Dashboard/models"
)

// VariableSource supplies the current variable set for a resolution pass.
// Implementations must return the live values: the resolver fetches fresh on
// every call so edits show up within one round trip, and it never caches.
type VariableSource interface {
	Variables(ctx context.Context) ([]models.WidgetVariable, error)
}

// Resolver substitutes {{name}} placeholders in widget configuration strings
// with their stored values
type Resolver struct {
	Source VariableSource
}

// NewResolver returns a resolver backed by the given variable source
func NewResolver(source VariableSource) *Resolver {
	return &Resolver{Source: source}
}

// ResolveText replaces every {{Name}} occurrence with the variable's current
// value. Names match exactly and case-sensitively. Unknown tokens are left
// verbatim, and a source failure returns the input unchanged: resolution
// never blocks rendering.
func (r *Resolver) ResolveText(ctx context.Context, text string) string {
	if !strings.Contains(text, "{{") {
		return text
	}
	vars, err := r.Source.Variables(ctx)
	if err != nil {
		zap.S().Debugw("variable source unavailable, leaving placeholders", "error", err)
		return text
	}
	resolved := text
	for _, v := range vars {
		resolved = strings.ReplaceAll(resolved, "{{"+v.Name+"}}", v.Value)
	}
	return resolved
}

// ResolveConfig walks a configuration object and resolves every string value
// and nested object. Arrays and non-string scalars pass through untouched;
// array members are deliberately not substitution targets.
func (r *Resolver) ResolveConfig(ctx context.Context, cfg map[string]interface{}) map[string]interface{} {
	if cfg == nil {
		return nil
	}
	resolved := make(map[string]interface{}, len(cfg))
	for k, v := range cfg {
		switch val := v.(type) {
		case string:
			resolved[k] = r.ResolveText(ctx, val)
		case map[string]interface{}:
			resolved[k] = r.ResolveConfig(ctx, val)
		default:
			resolved[k] = v
		}
	}
	return resolved
}
