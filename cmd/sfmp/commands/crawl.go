package commands

import (
	"log/slog"
	"os"
	"time"

	"github.com/Lenar23/sfmp-vseprosport-ru/internal/forecastdb"
	"github.com/Lenar23/sfmp-vseprosport-ru/internal/scrapers/vseprosport"
	"github.com/Lenar23/sfmp-vseprosport-ru/lib/configutil"
	"github.com/Lenar23/sfmp-vseprosport-ru/lib/serviceutil"

	"github.com/spf13/cobra"
)

type Config struct {
	BaseUrl         string `json:"base_url"`
	Database        string `json:"database"`
	MinDelaySeconds int    `json:"min_delay_seconds"`
	MaxDelaySeconds int    `json:"max_delay_seconds"`
	ForecastType    string `json:"forecast_type"`
	DedupByEvent    bool   `json:"dedup_by_event"`
}

var crawlDb *string

func init() {
	crawlDb = crawlCmd.Flags().String("db", "", "The database to write forecasts to, overrides the config.")
	rootCmd.AddCommand(crawlCmd)
}

func readCrawlConfig() Config {
	cfg, err := configutil.ReadConfig[Config]("sfmp.json5")
	if err != nil && !os.IsNotExist(err) {
		serviceutil.Fatal("failed to read config", err)
	}
	if cfg.BaseUrl == "" {
		cfg.BaseUrl = "https://www.vseprosport.ru"
	}
	if cfg.Database == "" {
		cfg.Database = "sfmp.db"
	}
	if *crawlDb != "" {
		cfg.Database = *crawlDb
	}
	return cfg
}

var crawlCmd = &cobra.Command{
	Use:   "crawl [start-url]",
	Short: "Crawls a forecast listing and persists every forecast found.",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		cfg := readCrawlConfig()

		// legacy invocation without a start url is a no-op, not an error
		if len(args) == 0 {
			slog.Info("no start url given, nothing to crawl")
			return
		}

		client, err := vseprosport.NewClient(vseprosport.ClientOptions{
			BaseUrl: cfg.BaseUrl,
		})
		if err != nil {
			serviceutil.Fatal("failed to initialize client", err)
		}
		walker := vseprosport.NewWalker(client, vseprosport.WalkerOptions{
			MinDelay: time.Duration(cfg.MinDelaySeconds) * time.Second,
			MaxDelay: time.Duration(cfg.MaxDelaySeconds) * time.Second,
		})

		slog.Info("start processing", "url", args[0])
		forecasts, err := walker.Walk(ctx, args[0])
		if err != nil {
			serviceutil.Fatal("failed to fetch the initial listing page", err)
		}
		slog.Info("finish processing", "received", len(forecasts))

		dedup := forecastdb.DedupByContent
		if cfg.DedupByEvent {
			dedup = forecastdb.DedupByEventBookmaker
		}
		store, err := forecastdb.Open(cfg.Database, forecastdb.Options{
			SourceUrl:    cfg.BaseUrl,
			ForecastType: cfg.ForecastType,
			Dedup:        dedup,
		})
		if err != nil {
			serviceutil.Fatal("failed to open database", err)
		}
		defer store.Close()

		saved := 0
		for _, forecast := range forecasts {
			if err := store.PersistForecast(ctx, forecast); err != nil {
				slog.ErrorContext(ctx, "failed to persist forecast",
					"title", forecast.Title, "err", err)
				continue
			}
			saved++
		}
		slog.Info("saving completed", "received", len(forecasts), "persisted", saved)
	},
}
