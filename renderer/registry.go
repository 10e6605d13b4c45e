package renderer

import (
	"context"
	"fmt"
)

// Handle is one registered renderer instance with its lifecycle state.
type Handle struct {
	ID       string
	Renderer Renderer
	Factory  string

	state State
}

// State returns the instance's lifecycle state.
func (h *Handle) State() State { return h.state }

// Registry holds the factory table and the active instances. All methods run
// on the single scheduling thread; no locking (see the package concurrency
// notes on Canvas).
type Registry struct {
	factories []Factory
	active    map[string]*Handle
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{active: make(map[string]*Handle)}
}

// RegisterFactory appends a factory to the selection table. Registration
// order breaks ties within each priority tier.
func (r *Registry) RegisterFactory(f Factory) {
	r.factories = append(r.factories, f)
	logger.Debug("factory registered", "name", f.Name(), "accelerated", f.HardwareAccelerated())
}

// selectFactory picks a factory for cfg by priority: accelerated with the
// requested context, accelerated, requested context, first supporting.
func (r *Registry) selectFactory(cfg Config) Factory {
	var candidates []Factory
	for _, f := range r.factories {
		if f.SupportsViewType(cfg.ViewType) {
			candidates = append(candidates, f)
		}
	}
	if len(candidates) == 0 {
		return nil
	}

	if cfg.PreferAccelerated && cfg.ContextKind != "" {
		for _, f := range candidates {
			if f.HardwareAccelerated() && f.SupportsContext(cfg.ContextKind) {
				return f
			}
		}
	}
	if cfg.PreferAccelerated {
		for _, f := range candidates {
			if f.HardwareAccelerated() {
				return f
			}
		}
	}
	if cfg.ContextKind != "" {
		for _, f := range candidates {
			if f.SupportsContext(cfg.ContextKind) {
				return f
			}
		}
	}
	return candidates[0]
}

// CreateRenderer builds, initializes, and registers a renderer for cfg. An
// existing instance under the same id is disposed first, so at most one
// instance is ever active per id. On any failure the partially-constructed
// instance is torn down and a nil handle is returned with the error; the
// caller decides whether to retry.
func (r *Registry) CreateRenderer(ctx context.Context, cfg Config) (*Handle, error) {
	cfg = cfg.withDefaults()

	if prev, ok := r.active[cfg.InstanceID]; ok {
		r.disposeHandle(prev)
		delete(r.active, cfg.InstanceID)
	}

	f := r.selectFactory(cfg)
	if f == nil {
		logger.Error("renderer creation failed", "id", cfg.InstanceID, "viewType", cfg.ViewType, "err", ErrNoFactory)
		return nil, fmt.Errorf("create renderer %q: %w", cfg.InstanceID, ErrNoFactory)
	}

	h := &Handle{
		ID:       cfg.InstanceID,
		Renderer: f.New(cfg),
		Factory:  f.Name(),
		state:    StateInitializing,
	}
	if err := h.Renderer.Initialize(ctx); err != nil {
		h.Renderer.Dispose()
		h.state = StateDisposed
		logger.Error("renderer initialization failed", "id", cfg.InstanceID, "factory", f.Name(), "err", err)
		return nil, fmt.Errorf("initialize renderer %q: %w", cfg.InstanceID, err)
	}

	h.state = StateRunning
	r.active[cfg.InstanceID] = h
	logger.Info("renderer created", "id", cfg.InstanceID, "factory", f.Name())
	return h, nil
}

// GetRenderer returns the active handle for id, or nil.
func (r *Registry) GetRenderer(id string) *Handle {
	return r.active[id]
}

// DisposeRenderer disposes and unregisters the instance under id. No-op for
// unknown ids.
func (r *Registry) DisposeRenderer(id string) {
	h, ok := r.active[id]
	if !ok {
		return
	}
	r.disposeHandle(h)
	delete(r.active, id)
}

// DisposeAll disposes every active instance.
func (r *Registry) DisposeAll() {
	for id, h := range r.active {
		r.disposeHandle(h)
		delete(r.active, id)
	}
}

func (r *Registry) disposeHandle(h *Handle) {
	if h.state == StateDisposed {
		return
	}
	h.Renderer.Dispose()
	h.state = StateDisposed
	logger.Debug("renderer disposed", "id", h.ID)
}
