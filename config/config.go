// Package config loads canvas settings from TOML.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/phanxgames/banyan"
	"github.com/phanxgames/banyan/reflow"
)

// Settings is the on-disk configuration shape.
type Settings struct {
	// CollapseBehavior is "shrink" (reflow siblings to reclaim space) or
	// "hide" (leave the layout untouched).
	CollapseBehavior string `toml:"collapse_behavior"`

	Renderer RendererSettings `toml:"renderer"`
	Canvas   CanvasSettings   `toml:"canvas"`
}

// RendererSettings selects the backend.
type RendererSettings struct {
	ViewType          string `toml:"view_type"`
	PreferAccelerated bool   `toml:"prefer_accelerated"`
	ContextKind       string `toml:"context_kind"`
	DebugOverlay      bool   `toml:"debug_overlay"`
}

// CanvasSettings sizes the canvas and picks its background.
type CanvasSettings struct {
	Width      float64  `toml:"width"`
	Height     float64  `toml:"height"`
	Background HexColor `toml:"background"`
}

// HexColor parses "#rrggbb" or "#rrggbbaa" TOML strings.
type HexColor struct {
	banyan.Color
}

// UnmarshalText implements encoding.TextUnmarshaler for toml decoding.
func (h *HexColor) UnmarshalText(text []byte) error {
	s := string(text)
	if len(s) == 0 {
		return nil
	}
	if s[0] != '#' || (len(s) != 7 && len(s) != 9) {
		return fmt.Errorf("config: invalid color %q, want #rrggbb or #rrggbbaa", s)
	}
	var r, g, b uint8
	a := uint8(255)
	if _, err := fmt.Sscanf(s[1:7], "%02x%02x%02x", &r, &g, &b); err != nil {
		return fmt.Errorf("config: invalid color %q: %w", s, err)
	}
	if len(s) == 9 {
		if _, err := fmt.Sscanf(s[7:9], "%02x", &a); err != nil {
			return fmt.Errorf("config: invalid color %q: %w", s, err)
		}
	}
	h.Color = banyan.Color{
		R: float64(r) / 255,
		G: float64(g) / 255,
		B: float64(b) / 255,
		A: float64(a) / 255,
	}
	return nil
}

// Default returns the settings used when no file is present.
func Default() Settings {
	return Settings{
		CollapseBehavior: string(reflow.BehaviorShrink),
		Renderer: RendererSettings{
			ViewType:          "graph",
			PreferAccelerated: true,
			ContextKind:       "gpu",
		},
		Canvas: CanvasSettings{
			Width:      1280,
			Height:     800,
			Background: HexColor{banyan.ColorWhite},
		},
	}
}

// Parse decodes TOML over the defaults, so partial files work.
func Parse(data []byte) (Settings, error) {
	s := Default()
	if err := toml.Unmarshal(data, &s); err != nil {
		return Settings{}, fmt.Errorf("config: parse: %w", err)
	}
	if err := s.validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Load reads and parses the file at path. A missing file yields the
// defaults.
func Load(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return Settings{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data)
}

func (s Settings) validate() error {
	switch s.CollapseBehavior {
	case string(reflow.BehaviorShrink), string(reflow.BehaviorHide):
	default:
		return fmt.Errorf("config: unknown collapse_behavior %q", s.CollapseBehavior)
	}
	if s.Canvas.Width <= 0 || s.Canvas.Height <= 0 {
		return fmt.Errorf("config: invalid canvas size %gx%g", s.Canvas.Width, s.Canvas.Height)
	}
	return nil
}

// Behavior converts the configured collapse behavior for the reflow engine.
func (s Settings) Behavior() reflow.Behavior {
	return reflow.Behavior(s.CollapseBehavior)
}
