// Package repository exposes Claude usage figures gathered from the ccusage
// CLI. Each call locates the executables, runs ccusage, parses its JSON and
// aggregates the result; nothing is persisted between calls.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/penwyp/ClawMeter/calculations"
	apperrors "github.com/penwyp/ClawMeter/errors"
	"github.com/penwyp/ClawMeter/locator"
	"github.com/penwyp/ClawMeter/logging"
	"github.com/penwyp/ClawMeter/models"
	"github.com/penwyp/ClawMeter/parser"
	"github.com/penwyp/ClawMeter/runner"
)

// UsageRepository is the data source the CLI and monitor depend on
type UsageRepository interface {
	GetCurrentUsage(ctx context.Context) (models.UsageStats, error)
	GetUsageSummary(ctx context.Context, period string) (models.UsagePeriodSummary, error)
}

// Options configures a CcusageRepository
type Options struct {
	Resolver locator.Resolver
	Runner   runner.Runner
	// Now defaults to time.Now
	Now func() time.Time
	// Location decides the caller's calendar date; defaults to time.Local
	Location *time.Location
}

// CcusageRepository implements UsageRepository on top of the ccusage CLI
type CcusageRepository struct {
	resolver locator.Resolver
	runner   runner.Runner
	now      func() time.Time
	location *time.Location
}

// New creates a repository. The resolver is wrapped so executable paths are
// resolved at most once.
func New(opts Options) *CcusageRepository {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	resolver := opts.Resolver
	if _, cached := resolver.(*locator.Cached); !cached {
		resolver = locator.NewCached(resolver)
	}

	return &CcusageRepository{
		resolver: resolver,
		runner:   opts.Runner,
		now:      opts.Now,
		location: opts.Location,
	}
}

// Paths returns the resolved executable paths
func (r *CcusageRepository) Paths() models.ResolvedPaths {
	return r.resolver.Resolve()
}

// Today returns the caller's current calendar date
func (r *CcusageRepository) Today() time.Time {
	return models.CalendarDate(r.now(), r.location)
}

// GetCurrentUsage runs `ccusage blocks` then `ccusage daily` and derives the
// current snapshot. Either failure aborts the call.
func (r *CcusageRepository) GetCurrentUsage(ctx context.Context) (models.UsageStats, error) {
	blocks, err := r.Blocks(ctx)
	if err != nil {
		return models.UsageStats{}, err
	}
	daily, err := r.Daily(ctx)
	if err != nil {
		return models.UsageStats{}, err
	}

	stats := calculations.Snapshot(blocks, daily, r.Today())
	logging.LogDebugf("Current usage: active=%v tokens=%d daily=%d model=%s",
		stats.ActiveSession, stats.CurrentTokens, stats.DailyTokens, stats.Model)
	return stats, nil
}

// GetUsageSummary aggregates `ccusage daily` over the window named by period
func (r *CcusageRepository) GetUsageSummary(ctx context.Context, period string) (models.UsagePeriodSummary, error) {
	daily, err := r.Daily(ctx)
	if err != nil {
		return models.UsagePeriodSummary{}, err
	}
	return calculations.Summarize(period, daily, r.Today())
}

// Blocks runs `ccusage blocks --json` and parses its output
func (r *CcusageRepository) Blocks(ctx context.Context) ([]models.UsageBlock, error) {
	out, err := r.execute(ctx, models.CommandBlocks)
	if err != nil {
		return nil, err
	}
	return parser.ParseBlocks(out)
}

// Daily runs `ccusage daily --json` and parses its output
func (r *CcusageRepository) Daily(ctx context.Context) ([]models.DailyEntry, error) {
	out, err := r.execute(ctx, models.CommandDaily)
	if err != nil {
		return nil, err
	}
	return parser.ParseDaily(out)
}

// execute runs one ccusage subcommand and returns its stdout, translating
// every failure into a UsageError
func (r *CcusageRepository) execute(ctx context.Context, command string) ([]byte, error) {
	paths := r.resolver.Resolve()

	res, err := r.runner.Run(ctx, paths, command, models.FlagJSON)
	if err != nil {
		var uerr *apperrors.UsageError
		switch {
		case errors.Is(err, runner.ErrTimeout):
			uerr = apperrors.Timeout(command, err)
		case errors.Is(err, context.Canceled):
			return nil, fmt.Errorf("ccusage %s: %w", command, err)
		default:
			uerr = apperrors.StartFailure(paths, command, err)
		}
		logging.LogErrorf("ccusage %s failed: %s", command, uerr.Summary())
		return nil, uerr
	}

	if !res.Success() {
		uerr := apperrors.ExitFailure(command, string(res.Stderr), res.ExitCode)
		logging.LogErrorf("ccusage %s failed: %s", command, uerr.Summary())
		return nil, uerr
	}
	return res.Stdout, nil
}

// GetCurrentUsage returns the current usage snapshot from repo
func GetCurrentUsage(ctx context.Context, repo UsageRepository) (models.UsageStats, error) {
	return repo.GetCurrentUsage(ctx)
}

// GetUsageSummary returns the usage summary for period from repo
func GetUsageSummary(ctx context.Context, repo UsageRepository, period string) (models.UsagePeriodSummary, error) {
	return repo.GetUsageSummary(ctx, period)
}
