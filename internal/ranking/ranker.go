// Package ranking orders centers by travel time from an origin address.
package ranking

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/centros-finder/app/models"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DistanceLookup resolves the route between two free-form addresses.
type DistanceLookup interface {
	Lookup(ctx context.Context, origin, destination string) (models.Route, error)
}

// LookupFunc adapts a function to DistanceLookup.
type LookupFunc func(ctx context.Context, origin, destination string) (models.Route, error)

// Lookup calls f.
func (f LookupFunc) Lookup(ctx context.Context, origin, destination string) (models.Route, error) {
	return f(ctx, origin, destination)
}

// Options bound the fan-out of a ranking.
type Options struct {
	Workers       int           // concurrent lookups
	LookupTimeout time.Duration // per lookup
	Timeout       time.Duration // whole ranking
	Progress      func()        // called after every finished lookup, may be nil
}

// DefaultOptions returns the limits used when none are configured.
func DefaultOptions() Options {
	return Options{
		Workers:       8,
		LookupTimeout: 10 * time.Second,
		Timeout:       60 * time.Second,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Workers <= 0 {
		o.Workers = d.Workers
	}
	if o.LookupTimeout <= 0 {
		o.LookupTimeout = d.LookupTimeout
	}
	if o.Timeout <= 0 {
		o.Timeout = d.Timeout
	}
	return o
}

// Ranker annotates centers with route data and sorts them by duration.
type Ranker struct {
	lookup DistanceLookup
	opts   Options
	logger *zap.Logger
}

// NewRanker creates a Ranker.
func NewRanker(lookup DistanceLookup, opts Options, logger *zap.Logger) *Ranker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Ranker{lookup: lookup, opts: opts.withDefaults(), logger: logger}
}

// WithProgress returns a copy of the ranker that reports each finished lookup.
func (r *Ranker) WithProgress(fn func()) *Ranker {
	cp := *r
	cp.opts.Progress = fn
	return &cp
}

type ranked struct {
	center  models.EducationalCenter
	minutes int
}

// Rank looks up every center from origin and returns the reachable ones in
// ascending duration. Ties keep input order. Failed, timed out or cancelled
// lookups drop the center from the result; Rank itself never fails.
func (r *Ranker) Rank(ctx context.Context, centers []models.EducationalCenter, origin string) []models.EducationalCenter {
	if len(centers) == 0 {
		return []models.EducationalCenter{}
	}

	ctx, cancel := context.WithTimeout(ctx, r.opts.Timeout)
	defer cancel()

	var (
		mu      sync.Mutex
		closed  bool
		results = make([]*ranked, len(centers))
	)

	var g errgroup.Group
	g.SetLimit(r.opts.Workers)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := range centers {
			if ctx.Err() != nil {
				break
			}
			i := i
			g.Go(func() error {
				res, ok := r.lookupOne(ctx, &centers[i], origin)
				if r.opts.Progress != nil {
					r.opts.Progress()
				}
				if !ok {
					return nil
				}
				mu.Lock()
				if !closed {
					results[i] = res
				}
				mu.Unlock()
				return nil
			})
		}
		_ = g.Wait()
	}()

	select {
	case <-done:
	case <-ctx.Done():
		r.logger.Warn("Ranking deadline reached, unfinished lookups dropped",
			zap.Error(ctx.Err()),
			zap.Int("centers", len(centers)))
	}

	mu.Lock()
	closed = true
	out := make([]ranked, 0, len(results))
	for _, res := range results {
		if res != nil {
			out = append(out, *res)
		}
	}
	mu.Unlock()

	sort.SliceStable(out, func(a, b int) bool {
		return out[a].minutes < out[b].minutes
	})

	centersOut := make([]models.EducationalCenter, len(out))
	for i := range out {
		centersOut[i] = out[i].center
	}

	if dropped := len(centers) - len(centersOut); dropped > 0 {
		r.logger.Info("Centers excluded from ranking",
			zap.Int("excluded", dropped),
			zap.Int("ranked", len(centersOut)))
	}
	return centersOut
}

func (r *Ranker) lookupOne(ctx context.Context, c *models.EducationalCenter, origin string) (*ranked, bool) {
	if ctx.Err() != nil {
		return nil, false
	}

	lctx, cancel := context.WithTimeout(ctx, r.opts.LookupTimeout)
	defer cancel()

	dest := DestinationAddress(c)
	route, err := r.lookup.Lookup(lctx, origin, dest)
	if err != nil {
		r.logger.Warn("Distance lookup failed",
			zap.String("codigo", c.CenterCode),
			zap.String("destination", dest),
			zap.Error(err))
		return nil, false
	}

	minutes := ParseDurationMinutes(route.DurationText)
	annotated := *c
	annotated.ApplyRoute(route, minutes)
	return &ranked{center: annotated, minutes: minutes}, true
}
