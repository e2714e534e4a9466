// Package optimizer is the boundary to the route optimizer. routegraph does
// not solve routes itself; it hands the marker graph to an Optimizer and
// gets back an ordered path of marker indices.
package optimizer

import (
	"context"
	"fmt"
	"time"

	"routegraph/internal/config"
	"routegraph/internal/domain"
)

// Problem is the graph handed to an optimizer
type Problem struct {
	Markers []domain.Coordinate
	Edges   []domain.Edge
}

// Optimizer computes a visiting order over a problem's markers
type Optimizer interface {
	Optimize(ctx context.Context, p Problem) (domain.Path, error)
}

// Sequential visits markers in insertion order. It is the default when no
// remote optimizer is configured.
type Sequential struct{}

// Optimize returns 0..n-1
func (Sequential) Optimize(ctx context.Context, p Problem) (domain.Path, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path := make(domain.Path, len(p.Markers))
	for i := range path {
		path[i] = i
	}
	return path, nil
}

// New builds the optimizer selected by cfg
func New(cfg config.OptimizerConfig) (Optimizer, error) {
	switch cfg.Kind {
	case "", config.OptimizerSequential:
		return Sequential{}, nil
	case config.OptimizerRemote:
		if cfg.URL == "" {
			return nil, fmt.Errorf("remote optimizer requires a url")
		}
		timeout := cfg.Timeout.Duration()
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		return NewRemote(cfg.URL, timeout), nil
	default:
		return nil, fmt.Errorf("unknown optimizer kind %q", cfg.Kind)
	}
}
