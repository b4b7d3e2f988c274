package crawlerimpl

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
)

func (c *CrawlerImpl) location() *time.Location {
	loc, err := time.LoadLocation(c.Config.Crawler.Timezone)
	if err != nil {
		c.Logger.Warn("Failed to load timezone, using local timezone", "timezone", c.Config.Crawler.Timezone, "error", err)
		return time.Local
	}
	return loc
}

// ScheduleCrawl runs the crawl on the configured cron schedule until ctx is
// done. Runs never overlap.
func (c *CrawlerImpl) ScheduleCrawl(ctx context.Context) error {
	scheduler, err := gocron.NewScheduler(gocron.WithLocation(c.location()))
	if err != nil {
		return fmt.Errorf("failed to create crawl scheduler: %w", err)
	}

	jobOpts := []gocron.JobOption{
		gocron.WithName("crawl"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	}
	if c.Config.Crawler.RunOnStart {
		jobOpts = append(jobOpts, gocron.WithStartAt(gocron.WithStartImmediately()))
	}

	_, err = scheduler.NewJob(
		gocron.CronJob(c.Config.Crawler.Schedule, false),
		gocron.NewTask(func() {
			if ctx.Err() != nil {
				c.Logger.Info("Context cancelled, skipping crawl")
				return
			}
			c.runJob(ctx)
		}),
		jobOpts...,
	)
	if err != nil {
		_ = scheduler.Shutdown()
		return fmt.Errorf("failed to schedule crawl: %w", err)
	}

	scheduler.Start()
	c.Logger.Info("Crawl scheduled", "schedule", c.Config.Crawler.Schedule, "run_on_start", c.Config.Crawler.RunOnStart)

	go func() {
		<-ctx.Done()
		c.Logger.Info("Stopping crawl scheduler")
		if err := scheduler.Shutdown(); err != nil {
			c.Logger.Error("Failed to shut down crawl scheduler", "error", err)
		}
	}()

	return nil
}

// ScheduleCacheCleanup sets up a daily job that removes old feed captures
func (c *CrawlerImpl) ScheduleCacheCleanup(ctx context.Context) error {
	scheduler, err := gocron.NewScheduler(gocron.WithLocation(c.location()))
	if err != nil {
		return fmt.Errorf("failed to create cleanup scheduler: %w", err)
	}

	// Schedule a job to run at 3:00 AM every day
	_, err = scheduler.NewJob(
		gocron.DailyJob(
			1,
			gocron.NewAtTimes(gocron.NewAtTime(3, 0, 0)),
		),
		gocron.NewTask(func() {
			if ctx.Err() != nil {
				c.Logger.Info("Context cancelled, stopping cache cleanup job")
				return
			}
			c.cleanupCache()
		}),
		gocron.WithName("cache-cleanup"),
	)
	if err != nil {
		_ = scheduler.Shutdown()
		return fmt.Errorf("failed to schedule cache cleanup: %w", err)
	}

	scheduler.Start()

	go func() {
		<-ctx.Done()
		c.Logger.Info("Stopping cache cleanup scheduler")
		if err := scheduler.Shutdown(); err != nil {
			c.Logger.Error("Failed to shut down cleanup scheduler", "error", err)
		}
	}()

	return nil
}

func (c *CrawlerImpl) cleanupCache() {
	removed, err := c.Cache.Cleanup(c.Config.Crawler.CacheRetention, time.Now())
	if err != nil {
		c.Logger.Error("Failed to clean up feed cache", "error", err)
		return
	}
	c.Logger.Info("Feed cache cleanup completed", "files_removed", removed, "dir", c.Cache.Dir())
}
