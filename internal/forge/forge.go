package forge

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"dangit/internal/model"
)

// Source fetches the current user's open work from a forge.
type Source interface {
	AssignedIssues(ctx context.Context) ([]model.WorkItem, error)
	CreatedIssues(ctx context.Context) ([]model.WorkItem, error)
	AssignedPRs(ctx context.Context) ([]model.WorkItem, error)
	CreatedPRs(ctx context.Context) ([]model.WorkItem, error)
	Notifications(ctx context.Context) ([]model.Notification, error)
}

// FetchError reports a failed fetch. Op names what was being fetched.
type FetchError struct {
	Op  string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.Op, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Load fetches all five collections concurrently and returns once every
// fetch has finished. The first failure cancels the rest and is returned.
func Load(ctx context.Context, src Source, logger *slog.Logger) (model.Snapshot, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var snap model.Snapshot
	g, ctx := errgroup.WithContext(ctx)

	items := func(op string, fetch func(context.Context) ([]model.WorkItem, error), dst *[]model.WorkItem) {
		g.Go(func() error {
			start := time.Now()
			got, err := fetch(ctx)
			if err != nil {
				logger.Error("fetch failed", "collection", op, "error", err)
				return wrap(op, err)
			}
			logger.Info("fetched", "collection", op, "count", len(got), "took", time.Since(start))
			*dst = got
			return nil
		})
	}

	items("assigned issues", src.AssignedIssues, &snap.AssignedIssues)
	items("created issues", src.CreatedIssues, &snap.CreatedIssues)
	items("assigned pull requests", src.AssignedPRs, &snap.AssignedPRs)
	items("created pull requests", src.CreatedPRs, &snap.CreatedPRs)

	g.Go(func() error {
		start := time.Now()
		got, err := src.Notifications(ctx)
		if err != nil {
			logger.Error("fetch failed", "collection", "notifications", "error", err)
			return wrap("notifications", err)
		}
		logger.Info("fetched", "collection", "notifications", "count", len(got), "took", time.Since(start))
		snap.Notifications = got
		return nil
	})

	if err := g.Wait(); err != nil {
		return model.Snapshot{}, err
	}
	return snap, nil
}

func wrap(op string, err error) error {
	if fe, ok := err.(*FetchError); ok {
		return fe
	}
	return &FetchError{Op: op, Err: err}
}
