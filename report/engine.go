package report

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Engine names accepted by NewEngine.
const (
	EngineGotenberg = "gotenberg"
	EngineChromium  = "chromium"
)

var (
	// ErrEngineUnavailable is returned when the PDF engine cannot be reached.
	ErrEngineUnavailable = errors.New("report: pdf engine unavailable")
	// ErrRenderFailed is returned when the engine rejected the document.
	ErrRenderFailed = errors.New("report: pdf render failed")
)

// Engine converts HTML into PDF bytes.
type Engine interface {
	Name() string
	Ping(ctx context.Context) error
	RenderHTML(ctx context.Context, html string) ([]byte, error)
}

// EngineConfig selects and configures an Engine.
type EngineConfig struct {
	Kind         string
	GotenbergURL string
	ChromePath   string
	Timeout      time.Duration
}

// NewEngine builds the configured engine.
func NewEngine(cfg EngineConfig) (Engine, error) {
	switch cfg.Kind {
	case EngineGotenberg, "":
		if cfg.GotenbergURL == "" {
			return nil, fmt.Errorf("report: GOTENBERG_URL required for %s engine", EngineGotenberg)
		}
		return NewGotenbergClient(cfg.GotenbergURL, cfg.Timeout), nil
	case EngineChromium:
		return NewChromiumEngine(DetectChromePath(cfg.ChromePath), cfg.Timeout), nil
	default:
		return nil, fmt.Errorf("report: unknown pdf engine %q", cfg.Kind)
	}
}
