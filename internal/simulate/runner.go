package simulate

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/benklinger/kamaole/pkg/logger"
)

// Run executes the complete game simulation.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{
		StartTime: time.Now(),
	}

	logger.Get().Info(ctx, "starting kamaole game simulation",
		logger.String("session", uuid.New().String()),
		logger.String("baseURL", config.BaseURL),
		logger.String("date", config.Date),
		logger.Int("rounds", config.Rounds),
		logger.Int("workers", config.Workers),
		logger.String("timeout", config.Timeout.String()))

	// Step 1: Check service health
	if err := checkServiceHealth(ctx, config); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: Fetch the day's options
	client := newHTTPClient(config.Timeout)
	options, err := fetchOptions(ctx, client, config)
	if err != nil {
		return fmt.Errorf("options fetch failed: %w", err)
	}

	// Step 3: Play rounds concurrently
	if err := playRounds(ctx, client, config, options, stats); err != nil {
		return fmt.Errorf("round playing failed: %w", err)
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	displayFinalStats(stats)

	logger.Get().Info(ctx, "simulation completed successfully")
	return nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, config *Config) error {
	logger.Get().Info(ctx, "checking service health")

	client := newHTTPClient(config.Timeout)
	resp, err := client.Get(ctx, config.BaseURL+"/healthz")
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Get().Error(context.Background(), "failed to close response body", logger.Error(err))
		}
	}()

	// Any 200 counts as healthy (the endpoint serves Prometheus metrics)
	if resp.StatusCode != 200 {
		return fmt.Errorf("service health check failed with status: %d", resp.StatusCode)
	}

	logger.Get().Info(ctx, "service is healthy")
	return nil
}

// fetchOptions retrieves the playable items for the configured day.
func fetchOptions(ctx context.Context, client *HTTPClient, config *Config) ([]navOption, error) {
	optionsURL := config.BaseURL + "/api/options"
	if config.Date != "" {
		optionsURL += "?date=" + url.QueryEscape(config.Date)
	}

	var view optionsView
	if err := client.getJSON(ctx, optionsURL, &view); err != nil {
		return nil, err
	}
	if len(view.Options) == 0 {
		return nil, fmt.Errorf("no playable options for %s", view.Date)
	}

	log.Printf("🎮 Playing %s (%s): %d options", view.Date, view.DayName, len(view.Options))
	return view.Options, nil
}

// playRounds runs the configured number of rounds across a worker pool.
func playRounds(ctx context.Context, client *HTTPClient, config *Config, options []navOption, stats *Stats) error {
	log.Printf("🎯 Playing %d rounds with %d workers...", config.Rounds, config.Workers)

	var (
		played int64
		failed int64
		under  int64
		over   int64
		exact  int64
		drags  int64
		clicks int64
		swipes int64
	)

	roundChan := make(chan int, config.Workers*2)
	var wg sync.WaitGroup

	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(time.Now().UnixNano() + int64(workerID)))

			for round := range roundChan {
				select {
				case <-ctx.Done():
					return
				default:
				}

				opt := options[round%len(options)]
				outcome, err := playRound(ctx, client, config, opt, rng)
				if err != nil {
					atomic.AddInt64(&failed, 1)
					if config.Verbose {
						log.Printf("❌ Round %d (%s %s/%d) failed: %v", round, opt.Date, opt.Type, opt.ID, err)
					}
					continue
				}

				if err := verifyOutcome(outcome.guess, outcome.view); err != nil {
					atomic.AddInt64(&failed, 1)
					log.Printf("⚠️  Round %d verification failed: %v", round, err)
					continue
				}

				atomic.AddInt64(&played, 1)
				atomic.AddInt64(&swipes, int64(outcome.swipes))
				switch outcome.gesture {
				case "drag":
					atomic.AddInt64(&drags, 1)
				case "click":
					atomic.AddInt64(&clicks, 1)
				}
				switch outcome.view.Verdict {
				case "under":
					atomic.AddInt64(&under, 1)
				case "over":
					atomic.AddInt64(&over, 1)
				case "exact":
					atomic.AddInt64(&exact, 1)
				}

				if config.Verbose {
					log.Printf("🎲 Round %d: %s %s/%d guess=%d actual=%d verdict=%s",
						round, opt.Date, opt.Type, opt.ID,
						outcome.guess, outcome.view.ActualMinor, outcome.view.Verdict)
				}
			}
		}(i)
	}

	go func() {
		defer close(roundChan)
		for round := 0; round < config.Rounds; round++ {
			select {
			case <-ctx.Done():
				return
			case roundChan <- round:
			}
		}
	}()

	wg.Wait()

	stats.RoundsPlayed = int(atomic.LoadInt64(&played))
	stats.RoundsFailed = int(atomic.LoadInt64(&failed))
	stats.VerdictsUnder = int(atomic.LoadInt64(&under))
	stats.VerdictsOver = int(atomic.LoadInt64(&over))
	stats.VerdictsExact = int(atomic.LoadInt64(&exact))
	stats.Drags = int(atomic.LoadInt64(&drags))
	stats.Clicks = int(atomic.LoadInt64(&clicks))
	stats.Swipes = int(atomic.LoadInt64(&swipes))

	if stats.RoundsFailed > 0 {
		return fmt.Errorf("%d of %d rounds failed", stats.RoundsFailed, config.Rounds)
	}
	return nil
}
