package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gpv-watch/gpvwatch/internal/config"
	"github.com/gpv-watch/gpvwatch/internal/logger"
	"github.com/gpv-watch/gpvwatch/internal/monitor"
	"github.com/gpv-watch/gpvwatch/internal/render"
	"github.com/gpv-watch/gpvwatch/internal/schedule"
	"github.com/gpv-watch/gpvwatch/internal/storage"
	"github.com/gpv-watch/gpvwatch/internal/telegram"
	"github.com/gpv-watch/gpvwatch/internal/ztoe"
)

var configPath = flag.String("config", "configs/config.yaml", "Path to configuration file")

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger.Init(cfg.Logging.Level, cfg.Logging.File, cfg.Logging.MaxSizeMB, cfg.Logging.MaxAgeDays)
	defer logger.Sync()
	logger.Info("Configuration loaded from %s", *configPath)

	loc, err := time.LoadLocation(cfg.Region.Timezone)
	if err != nil {
		logger.Fatal("Invalid timezone %q: %v", cfg.Region.Timezone, err)
	}

	client := ztoe.NewClient(cfg.Source.URL, cfg.Source.Timeout, cfg.Source.UserAgent)
	store := storage.New(cfg.Storage.OutputPath, cfg.Storage.BaselinePath)
	renderer := render.New(cfg.Storage.ImagesDir, loc)

	var tgClient *telegram.Client
	if cfg.Telegram.Enabled {
		tgClient, err = telegram.NewClient(
			cfg.Telegram.BotToken,
			cfg.Telegram.ChatID,
			cfg.Telegram.ErrorChatID,
			cfg.Telegram.AlertPrefix,
			cfg.Telegram.MaxRetries,
			cfg.Telegram.RetryDelay,
		)
		if err != nil {
			logger.Fatal("Failed to initialize Telegram client: %v", err)
		}
		logger.Info("Telegram client initialized")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Info("Shutdown signal received, cleaning up...")
		cancel()
	}()

	logger.Info("Starting schedule watcher (region: %s, poll: %v)", cfg.Region.ID, cfg.Source.PollInterval)

	ticker := time.NewTicker(cfg.Source.PollInterval)
	defer ticker.Stop()

	runAndReport(ctx, client, store, renderer, tgClient, cfg, loc)

	for {
		select {
		case <-ctx.Done():
			logger.Info("Service stopped")
			return
		case <-ticker.C:
			runAndReport(ctx, client, store, renderer, tgClient, cfg, loc)
		}
	}
}

func runAndReport(
	ctx context.Context,
	client *ztoe.Client,
	store *storage.Store,
	renderer *render.Renderer,
	tgClient *telegram.Client,
	cfg *config.Config,
	loc *time.Location,
) {
	if err := runCycle(ctx, client, store, renderer, tgClient, cfg, loc); err != nil {
		logger.Error("Cycle failed: %v", err)
		if tgClient != nil {
			if alertErr := tgClient.SendError(err.Error()); alertErr != nil {
				logger.Error("Failed to send error alert: %v", alertErr)
			}
		}
	}
}

func runCycle(
	ctx context.Context,
	client *ztoe.Client,
	store *storage.Store,
	renderer *render.Renderer,
	tgClient *telegram.Client,
	cfg *config.Config,
	loc *time.Location,
) error {
	start := time.Now()
	logger.Info("Starting scrape cycle")

	html, err := client.FetchPage(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch schedule page: %w", err)
	}
	logger.Debug("Page loaded (%d bytes)", len(html))

	now := time.Now().In(loc)
	update, ok := ztoe.ExtractUpdateStamp(html)
	if !ok {
		update = now.Format("15:04 02.01.2006")
		logger.Warn("Update stamp not found on page, using current time: %s", update)
	} else {
		logger.Info("Source update stamp: %s", update)
	}

	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)

	data := make(schedule.FactData)
	for _, day := range []time.Time{todayStart, todayStart.AddDate(0, 0, 1)} {
		dateStr := ztoe.PageDate(day)
		samples := ztoe.ExtractDay(html, dateStr)
		if samples == nil {
			logger.Warn("No schedule table for %s", dateStr)
			continue
		}

		daySchedule, malformed := schedule.AssembleDay(samples)
		if malformed > 0 {
			logger.Warn("%s: %d of %d groups had a wrong sample count, defaulted to all-available", dateStr, malformed, len(samples))
		}
		data[strconv.FormatInt(day.Unix(), 10)] = daySchedule
		logger.Info("Parsed %d groups for %s", len(daySchedule), dateStr)
	}

	if len(data) == 0 {
		return fmt.Errorf("no schedules parsed from page")
	}

	existing, err := store.LoadOutput()
	if err != nil {
		logger.Warn("Failed to load existing output, treating as absent: %v", err)
	}
	if existing != nil && existing.Fact.Data.Equal(data) {
		logger.Info("No changes in schedule data, skipping publish")
		return nil
	}
	logger.Info("Schedule data changed, publishing update")

	snap := schedule.NewSnapshot(cfg.Region.ID, data, update, todayStart.Unix(), time.Now())

	baseline, err := store.LoadBaseline()
	if err != nil {
		logger.Warn("Failed to load baseline, diffing against empty: %v", err)
	}
	var prev schedule.FactData
	if baseline != nil {
		prev = baseline.Data
	}

	report := monitor.Diff(prev, data)
	if report.HasChanges() {
		logger.Info("Diff %s: worse=%d better=%d", report.ID, report.Worse, report.Better)
		logger.Info("First change: day=%s group=%s hour=%s %s→%s (%s)",
			report.First.Day, report.First.Group, report.First.Hour,
			report.First.Old, report.First.New, report.First.Kind)
	} else {
		logger.Info("Diff %s: no visible changes against baseline", report.ID)
	}

	generated, err := renderer.RenderFull(snap)
	if err != nil {
		return fmt.Errorf("failed to render full grids: %w", err)
	}
	logger.Info("Rendered full grids: %v", generated)

	if err := renderer.RenderGroups(snap, report.Tags); err != nil {
		return fmt.Errorf("failed to render group grids: %w", err)
	}

	if err := store.SaveOutput(snap); err != nil {
		return fmt.Errorf("failed to persist output: %w", err)
	}
	if err := store.SaveBaseline(snap, time.Now()); err != nil {
		// Without a baseline the next diff would mis-signal; drop the output
		// so the next cycle republishes from scratch.
		if removed, derr := store.DeleteOutput(); derr != nil {
			logger.Error("Failed to drop output after baseline failure: %v", derr)
		} else if removed {
			logger.Warn("Dropped freshly written output after baseline failure")
		}
		return fmt.Errorf("failed to persist baseline: %w", err)
	}

	if tgClient != nil {
		sendSchedulePhoto(renderer, tgClient, cfg.Region.Name, len(snap.Fact.Data))
	}

	logger.Info("Cycle completed in %v", time.Since(start))
	return nil
}

// sendSchedulePhoto posts tomorrow's grid when the source published two
// dates, today's otherwise. Delivery failures are logged, never fatal.
func sendSchedulePhoto(renderer *render.Renderer, tgClient *telegram.Client, regionName string, dayCount int) {
	path := renderer.TodayImage()
	label := "сьогодні"
	if dayCount >= 2 {
		path = renderer.TomorrowImage()
		label = "завтра"
	}

	if _, err := os.Stat(path); err != nil {
		logger.Error("Schedule image missing, nothing to send: %s", path)
		return
	}

	caption := telegram.ScheduleCaption(regionName, label)
	if err := tgClient.SendScheduleImage(path, caption); err != nil {
		logger.Error("Failed to send schedule image: %v", err)
		return
	}
	logger.Info("Sent schedule image for %s: %s", label, path)
}
