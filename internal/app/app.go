// Package app wires the pipeline together: fetch, enrich, filter,
// score, rank, render, deliver.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/deusflow/aidigest/internal/article"
	"github.com/deusflow/aidigest/internal/cache"
	"github.com/deusflow/aidigest/internal/config"
	"github.com/deusflow/aidigest/internal/digest"
	"github.com/deusflow/aidigest/internal/logger"
	"github.com/deusflow/aidigest/internal/mailer"
	"github.com/deusflow/aidigest/internal/metrics"
	"github.com/deusflow/aidigest/internal/scraper"
	"github.com/deusflow/aidigest/internal/sources"
	"github.com/deusflow/aidigest/internal/storage"
)

// Run executes one digest cycle. Configuration problems abort the run,
// single-source and artifact problems are logged and absorbed. The
// email goes out even on an empty news day, a silent morning looks like
// a broken pipeline.
func Run(ctx context.Context) error {
	start := time.Now()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	srcCfg, err := sources.Load(cfg.SourcesConfigPath)
	if err != nil {
		return fmt.Errorf("loading sources: %w", err)
	}

	fetcher := sources.NewFetcher(srcCfg, sources.Options{
		Timeout:      cfg.RequestTimeout,
		MaxFeedItems: cfg.MaxFeedItems,
		MaxHNStories: cfg.MaxHNStories,
	})
	items := fetcher.FetchAll(ctx)

	scraper.New(cache.New(), cfg.ScrapeConcurrency, cfg.ScrapeMaxArticles).EnrichSummaries(ctx, items)

	now := time.Now().UTC()
	html, text, kept, err := buildDigest(items, now)
	if err != nil {
		metrics.Global.SetError(err.Error())
		return err
	}

	// The local copy is best effort, delivery matters more.
	if path, err := storage.SaveDigest(cfg.OutputDir, html, now); err != nil {
		logger.Error("saving digest copy failed", "error", err)
	} else {
		logger.Info("digest copy saved", "path", path)
	}

	if err := mailer.New(cfg).Send(ctx, digest.Subject(now), html, text); err != nil {
		metrics.Global.SetError(err.Error())
		return err
	}

	metrics.Global.RecordProcessingTime(time.Since(start))
	metrics.Global.SetLastRun()
	logger.Info("digest cycle finished",
		"fetched", len(items),
		"included", len(kept),
		"duration", time.Since(start).Round(time.Millisecond).String())
	return nil
}

// buildDigest runs the in-memory half of the pipeline and renders both
// email bodies.
func buildDigest(items []article.Article, now time.Time) (string, string, []article.Article, error) {
	kept := article.FilterAndDedup(items, now)
	metrics.Global.AddItemsAdmitted(len(kept))

	article.ScoreAll(kept, now)
	sections := article.Rank(kept)

	html, err := digest.Render(sections, now)
	if err != nil {
		return "", "", nil, fmt.Errorf("building digest: %w", err)
	}
	return html, digest.PlainText(sections, now), kept, nil
}
