// Package analytics assembles the dashboard summary from a fixed battery of
// aggregate queries.
package analytics

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/Karthik-beta/data-app/internal/model"
)

const (
	topStatuses   = 10
	topIndustries = 10
	trendYears    = 10
)

// Aggregator is the subset of the store the summary needs.
type Aggregator interface {
	TotalCount(ctx context.Context) (int, error)
	CountByStatus(ctx context.Context, limit int) ([]model.StatusCount, error)
	CountByClass(ctx context.Context) ([]model.ClassCount, error)
	TopIndustries(ctx context.Context, limit int) ([]model.IndustryCount, error)
	CapitalStats(ctx context.Context) (*model.CapitalStats, error)
	RegistrationTrend(ctx context.Context, years int) ([]model.YearCount, error)
	CountByListing(ctx context.Context) ([]model.StatusCount, error)
}

// Service computes analytics summaries over the full dataset. Summaries
// always ignore table-view filters.
type Service struct {
	agg Aggregator
}

// New creates an analytics service backed by the given aggregator.
func New(agg Aggregator) *Service {
	return &Service{agg: agg}
}

// Summarize runs the seven aggregate queries concurrently and merges them
// into the summary. Any sub-query failure fails the whole call; a partially
// populated summary is never returned.
func (s *Service) Summarize(ctx context.Context) (*model.AnalyticsSummary, error) {
	var summary model.AnalyticsSummary
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		summary.Total, err = s.agg.TotalCount(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		summary.ByStatus, err = s.agg.CountByStatus(gctx, topStatuses)
		return err
	})
	g.Go(func() error {
		var err error
		summary.ByClass, err = s.agg.CountByClass(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		summary.TopIndustries, err = s.agg.TopIndustries(gctx, topIndustries)
		return err
	})
	g.Go(func() error {
		var err error
		summary.Capital, err = s.agg.CapitalStats(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		summary.RegistrationTrends, err = s.agg.RegistrationTrend(gctx, trendYears)
		return err
	})
	g.Go(func() error {
		var err error
		summary.ByListing, err = s.agg.CountByListing(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Empty dataset serializes as empty sequences, not nulls.
	if summary.ByStatus == nil {
		summary.ByStatus = []model.StatusCount{}
	}
	if summary.ByClass == nil {
		summary.ByClass = []model.ClassCount{}
	}
	if summary.TopIndustries == nil {
		summary.TopIndustries = []model.IndustryCount{}
	}
	if summary.RegistrationTrends == nil {
		summary.RegistrationTrends = []model.YearCount{}
	}
	if summary.ByListing == nil {
		summary.ByListing = []model.StatusCount{}
	}
	return &summary, nil
}
