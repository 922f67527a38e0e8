// File: internal/plugins/registry.go
// Brief: Ordered plugin registry and per-variant compose fragment aggregation.

// Package plugins aggregates compose-file fragments contributed by plugins.
// Plugins register in a fixed order and are consulted in reverse registration
// order, so fragments from later-registered plugins appear earlier in the
// final file list and later -f flags (the earlier registrations) take
// precedence when docker-compose merges them.
package plugins

import (
	"fmt"

	"go.uber.org/zap"
)

// Variant names select which base compose fragments apply.
const (
	VariantServices = "services"
	VariantOpenedX  = "openedx"
)

// Provider yields an ordered list of compose-file arguments, e.g.
// ["-f", "/path/to/docker-compose.yml"].
type Provider func() ([]string, error)

// Plugin contributes compose fragments per variant.
type Plugin interface {
	Name() string
	Settings() map[string]Provider
}

// Registry holds plugins in registration order.
type Registry struct {
	log     *zap.Logger
	plugins []Plugin
}

// NewRegistry returns an empty registry.
func NewRegistry(logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{log: logger}
}

// Register appends a plugin. Registration order is significant; see the
// package comment.
func (r *Registry) Register(plugins ...Plugin) {
	r.plugins = append(r.plugins, plugins...)
}

// Plugins returns the registered plugins in registration order.
func (r *Registry) Plugins() []Plugin {
	out := make([]Plugin, len(r.plugins))
	copy(out, r.plugins)
	return out
}

// ComposeArgs collects the compose-file arguments for a variant, iterating
// plugins in reverse registration order. Any provider failure aborts the
// whole aggregation; there is no partial fallback.
func (r *Registry) ComposeArgs(variant string) ([]string, error) {
	var out []string
	for i := len(r.plugins) - 1; i >= 0; i-- {
		p := r.plugins[i]
		provider, ok := p.Settings()[variant]
		if !ok || provider == nil {
			continue
		}
		fragment, err := provider()
		if err != nil {
			return nil, fmt.Errorf("load settings from plugin %s: %w", p.Name(), err)
		}
		if len(fragment) == 0 {
			continue
		}
		r.log.Info("loading plugin settings", zap.String("plugin", p.Name()), zap.String("variant", variant))
		out = append(out, fragment...)
	}
	return out, nil
}
