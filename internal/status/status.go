// Package status reports the health of the site's dependencies for /healthz.
package status

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// Component states.
const (
	StateOK       = "ok"
	StateDegraded = "degraded"
	StateDown     = "down"
)

// Summary captures the overall state and the state of each component.
type Summary struct {
	State      string      `json:"state"`
	UpdatedAt  time.Time   `json:"updatedAt"`
	Components []Component `json:"components"`
}

// Component represents the status of an individual subsystem.
type Component struct {
	Name   string `json:"name"`
	Status string `json:"status"`
	Detail string `json:"detail,omitempty"`
}

// Check probes one component. A non-nil error marks it down, or degraded when the check
// is optional.
type Check struct {
	Name     string
	Optional bool
	Probe    func(ctx context.Context) (detail string, err error)
}

// Checker runs checks and caches the summary for a short while.
type Checker struct {
	checks  []Check
	timeout time.Duration
	ttl     time.Duration
	now     func() time.Time

	mu      sync.Mutex
	cached  Summary
	expires time.Time
}

// NewChecker builds a checker over checks.
func NewChecker(checks ...Check) *Checker {
	return &Checker{
		checks:  checks,
		timeout: 2 * time.Second,
		ttl:     5 * time.Second,
		now:     time.Now,
	}
}

// SetCacheTTL configures the cache duration (primarily for tests).
func (c *Checker) SetCacheTTL(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ttl = d
	c.expires = time.Time{}
}

// Summary runs every check concurrently, or returns the cached summary.
func (c *Checker) Summary(ctx context.Context) Summary {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	if c.ttl > 0 && now.Before(c.expires) {
		return cloneSummary(c.cached)
	}

	components := make([]Component, len(c.checks))
	g, gctx := errgroup.WithContext(ctx)
	for i, chk := range c.checks {
		g.Go(func() error {
			cctx, cancel := context.WithTimeout(gctx, c.timeout)
			defer cancel()
			detail, err := chk.Probe(cctx)
			comp := Component{Name: chk.Name, Status: StateOK, Detail: detail}
			if err != nil {
				comp.Status = StateDown
				if chk.Optional {
					comp.Status = StateDegraded
				}
				comp.Detail = err.Error()
			}
			components[i] = comp
			return nil
		})
	}
	_ = g.Wait()

	s := Summary{State: StateOK, UpdatedAt: now.UTC(), Components: components}
	for _, comp := range components {
		switch comp.Status {
		case StateDown:
			s.State = StateDown
		case StateDegraded:
			if s.State == StateOK {
				s.State = StateDegraded
			}
		}
	}
	c.cached = s
	c.expires = now.Add(c.ttl)
	return cloneSummary(s)
}

func cloneSummary(src Summary) Summary {
	dst := src
	dst.Components = append([]Component(nil), src.Components...)
	return dst
}
