package payment

import (
	"context"

	"github.com/Temutjin2k/carpool-admin/internal/domain/models"
	"github.com/Temutjin2k/carpool-admin/internal/domain/types"
	"github.com/Temutjin2k/carpool-admin/pkg/logger"
	wrap "github.com/Temutjin2k/carpool-admin/pkg/logger/wrapper"
	"github.com/Temutjin2k/carpool-admin/pkg/metrics"
	"golang.org/x/sync/errgroup"
)

// Resolver looks up full driver details for the drivers referenced by payments.
type Resolver struct {
	lookup DriverLookup
	limit  int
	l      logger.Logger
}

// NewResolver creates a resolver running at most limit lookups at once; limit <= 0 means no bound.
func NewResolver(lookup DriverLookup, limit int, l logger.Logger) *Resolver {
	return &Resolver{
		lookup: lookup,
		limit:  limit,
		l:      l,
	}
}

type lookupResult struct {
	id       string
	fallback *models.Driver
	driver   *models.Driver
}

// Resolve fetches every distinct driver once. A failed lookup falls back to the
// first embedded driver object seen for that id, or leaves the id unmapped.
// Failures never abort the batch.
func (r *Resolver) Resolve(ctx context.Context, payments []models.Payment) map[string]*models.Driver {
	results := make([]*lookupResult, 0)
	index := make(map[string]*lookupResult)

	for _, p := range payments {
		if p.DriverRef.IsZero() {
			continue
		}
		id := p.DriverRef.ID
		res, ok := index[id]
		if !ok {
			res = &lookupResult{id: id}
			index[id] = res
			results = append(results, res)
		}
		if res.fallback == nil && p.DriverRef.Embedded != nil {
			res.fallback = p.DriverRef.Embedded
		}
	}

	g := new(errgroup.Group)
	if r.limit > 0 {
		g.SetLimit(r.limit)
	}

	for _, res := range results {
		g.Go(func() error {
			res.driver = r.resolveOne(ctx, res.id, res.fallback)
			return nil
		})
	}
	_ = g.Wait()

	drivers := make(map[string]*models.Driver, len(results))
	for _, res := range results {
		if res.driver != nil {
			drivers[res.id] = res.driver
		}
	}
	return drivers
}

func (r *Resolver) resolveOne(ctx context.Context, id string, fallback *models.Driver) *models.Driver {
	ctx = wrap.WithAction(wrap.WithDriverID(ctx, id), types.ActionDriverLookup)

	d, err := r.lookup.GetDriver(ctx, id)
	if err == nil {
		return d
	}

	metrics.DriverLookupFailures.Inc()
	ctx = wrap.WithAction(wrap.ErrorCtx(ctx, err), types.ActionDriverLookupFailed)
	if fallback != nil {
		r.l.Warn(ctx, "driver lookup failed, using embedded driver", "error", err.Error())
		return fallback
	}
	r.l.Warn(ctx, "driver lookup failed, driver left unresolved", "error", err.Error())
	return nil
}
