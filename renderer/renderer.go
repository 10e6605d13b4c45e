// Package renderer owns renderer-instance lifecycle: a capability-based
// factory registry that picks an accelerated or software backend per logical
// canvas, the shared canvas implementation both backends embed, and the
// interaction state (pan, drag, select, zoom) feeding it.
package renderer

import (
	"context"
	"errors"
	"os"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/phanxgames/banyan"
	"github.com/phanxgames/banyan/reflow"
	"github.com/phanxgames/banyan/view"
)

var logger = log.NewWithOptions(os.Stderr, log.Options{Prefix: "banyan.renderer"})

// SetLogger replaces the package logger.
func SetLogger(l *log.Logger) {
	if l != nil {
		logger = l
	}
}

// Sentinel errors returned by the registry.
var (
	// ErrNoFactory means no registered factory supports the requested view
	// type.
	ErrNoFactory = errors.New("no factory supports the requested view type")
	// ErrDisposed means the operation targeted an already-disposed instance.
	ErrDisposed = errors.New("renderer instance is disposed")
)

// State is the lifecycle state of one renderer instance.
type State uint8

const (
	StateUninitialized State = iota
	StateInitializing
	StateRunning
	StateDisposed
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateInitializing:
		return "initializing"
	case StateRunning:
		return "running"
	case StateDisposed:
		return "disposed"
	}
	return "unknown"
}

// Config describes one logical canvas.
type Config struct {
	// InstanceID identifies the logical canvas. Empty gets a generated id.
	InstanceID string
	// ViewType is the diagram kind the canvas displays (e.g. "graph").
	ViewType string
	// PreferAccelerated asks for a hardware-accelerated backend when one is
	// registered; selection falls back silently when none is.
	PreferAccelerated bool
	// ContextKind names the graphics context capability wanted ("gpu",
	// "raster", ...). Empty means no preference.
	ContextKind string

	Store         *view.Store
	Width, Height float64
	Background    banyan.Color
	// Driver paces the frame loop. Nil gets a 60fps ticker.
	Driver banyan.Driver
	// DebugOverlay draws per-frame stats in screen space.
	DebugOverlay bool
	// CollapseBehavior is forwarded to the reflow engine on fold/unfold.
	CollapseBehavior reflow.Behavior
}

// withDefaults fills in generated and fallback values.
func (c Config) withDefaults() Config {
	if c.InstanceID == "" {
		c.InstanceID = uuid.NewString()
	}
	if c.Store == nil {
		c.Store = view.NewStore()
	}
	if c.Width <= 0 {
		c.Width = 800
	}
	if c.Height <= 0 {
		c.Height = 600
	}
	if c.Driver == nil {
		c.Driver = banyan.NewTickerDriver(60)
	}
	if c.CollapseBehavior == "" {
		c.CollapseBehavior = reflow.BehaviorShrink
	}
	return c
}

// Renderer is the uniform instance contract across backends.
type Renderer interface {
	// Initialize acquires drawing-context resources and starts the frame
	// loop. Called exactly once, before any other method.
	Initialize(ctx context.Context) error
	// Render performs one synchronous draw pass.
	Render() banyan.RenderStats
	// HandleMouseEvent updates pan/drag/selection state.
	HandleMouseEvent(e MouseEvent)
	// HandleWheelEvent updates zoom state.
	HandleWheelEvent(e WheelEvent)
	// Dispose stops the frame loop and releases backend resources.
	// Idempotent.
	Dispose()
}

// Factory constructs renderer instances for the view types and capabilities
// it supports.
type Factory interface {
	Name() string
	SupportsViewType(viewType string) bool
	HardwareAccelerated() bool
	SupportsContext(kind string) bool
	New(cfg Config) Renderer
}
