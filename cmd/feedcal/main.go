package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"

	"feedcal/internal/agenda"
	"feedcal/internal/config"
	"feedcal/internal/feed"
	appLog "feedcal/internal/log"
	"feedcal/internal/web"
)

const version = "0.1.0"

type flagConfig struct {
	configPath string
	listen     string
	once       bool
}

func main() {
	// .env is optional; real environment variables win.
	_ = godotenv.Load()

	flags := parseFlags()
	if err := run(flags); err != nil {
		appLog.Error("feedcal exited with error", err)
		appLog.Sync()
		os.Exit(1)
	}
	appLog.Sync()
}

func run(flags flagConfig) error {
	conf, err := config.Load(flags.configPath)
	if err != nil {
		return fmt.Errorf("load config %s: %w", flags.configPath, err)
	}

	// Precedence: flag > env > file.
	if v := os.Getenv("FEEDCAL_LISTEN"); v != "" {
		conf.Listen = v
	}
	if v := os.Getenv("FEEDCAL_LOG_LEVEL"); v != "" {
		conf.LogLevel = v
	}
	if flags.listen != "" {
		conf.Listen = flags.listen
	}
	if err := conf.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	appLog.SetLevel(appLog.ParseLevel(conf.LogLevel))

	appLog.Info("feedcal starting",
		"version", version,
		"config_path", flags.configPath,
		"listen", conf.Listen,
		"timezone", conf.Timezone,
		"refresh", conf.RefreshCron,
		"horizon_days", conf.HorizonDays,
		"backfill_days", conf.BackfillDays,
		"feeds", len(conf.Feeds),
		"once", flags.once,
	)

	fetcher := feed.NewFetcher(filepath.Join(filepath.Dir(flags.configPath), "feed-cache"), nil)
	refresher := agenda.NewRefresher(agenda.Options{
		Sources:      sourcesFromConfig(conf.Feeds),
		Location:     conf.Location(),
		HorizonDays:  conf.HorizonDays,
		BackfillDays: conf.BackfillDays,
		Spec:         conf.RefreshCron,
	}, fetcher)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if flags.once {
		if err := refresher.Refresh(ctx); err != nil {
			return err
		}
		printAgenda(refresher)
		return nil
	}

	// A failed first refresh is not fatal; the cron retries.
	if err := refresher.Refresh(ctx); err != nil {
		appLog.Error("initial refresh failed", err)
	}
	if err := refresher.Start(ctx); err != nil {
		return err
	}
	defer refresher.Stop()

	srv := web.NewServer(conf, refresher, nil)
	if err := srv.Run(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	appLog.Info("feedcal exiting")
	return nil
}

func parseFlags() flagConfig {
	var cfg flagConfig

	defaultConfig := os.Getenv("FEEDCAL_CONFIG")
	if defaultConfig == "" {
		defaultConfig = "/etc/feedcal/config.yaml"
	}

	flag.StringVar(&cfg.configPath, "config", defaultConfig, "Path to config file (env FEEDCAL_CONFIG)")
	flag.StringVar(&cfg.listen, "listen", "", "HTTP listen address (overrides config and FEEDCAL_LISTEN)")
	flag.BoolVar(&cfg.once, "once", false, "Refresh feeds once, print the agenda and exit")

	flag.Parse()

	return cfg
}

// sourcesFromConfig maps configured feeds to fetch sources. Feeds without
// an id fall back to their name, then their URL.
func sourcesFromConfig(feeds []config.FeedConfig) []feed.Source {
	out := make([]feed.Source, 0, len(feeds))
	for _, f := range feeds {
		id := f.ID
		if id == "" {
			id = f.Name
		}
		if id == "" {
			id = f.URL
		}
		out = append(out, feed.Source{ID: id, Name: f.Name, URL: f.URL})
	}
	return out
}

func printAgenda(r *agenda.Refresher) {
	snap := r.Snapshot()
	labels, groups := agenda.GroupByMonthWeek(r.Entries(snap.RefreshedAt))
	for _, label := range labels {
		fmt.Println(label)
		for _, e := range groups[label] {
			s := e.Schedule
			line := fmt.Sprintf("  %-5s %s(%s) %s-%s %s",
				e.DDay.Label(), s.StartTime.Format("01/02"), e.DayName, e.StartClock, e.EndClock, s.Title)
			if s.TeamName != "" {
				line += " [" + s.TeamName + "]"
			}
			if e.Since != "" {
				line += " · " + e.Since
			}
			fmt.Println(line)
		}
	}
}
