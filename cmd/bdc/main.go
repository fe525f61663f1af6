package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/xaenox/bdc-edge/internal/api"
	"github.com/xaenox/bdc-edge/internal/assistant"
	"github.com/xaenox/bdc-edge/internal/classifier"
	"github.com/xaenox/bdc-edge/internal/scraper"
	"github.com/xaenox/bdc-edge/internal/storage"
	"github.com/xaenox/bdc-edge/pkg/config"
)

const version = "0.1.0"

func main() {
	app := &cli.App{
		Name:    "bdc",
		Usage:   "Dealership BDC edge functions: AI lead replies and listing scraper",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Load configuration from `FILE`",
				EnvVars: []string{"BDC_CONFIG"},
			},
		},
		Commands: []*cli.Command{
			serveCommand(),
			classifyCommand(),
			scrapeCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the HTTP server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "address",
				Aliases: []string{"a"},
				Usage:   "Listen address, overrides server.address",
			},
		},
		Action: func(c *cli.Context) error {
			cfg, logger, err := setup(c)
			if err != nil {
				return err
			}
			defer logger.Sync()

			store, err := openStore(cfg, logger)
			if err != nil {
				return err
			}
			defer store.Close()

			if cfg.OpenAI.APIKey == "" {
				logger.Warn("OPENAI_API_KEY is not set; AI responses will fail upstream")
			}
			generator := assistant.NewGenerator(
				assistant.NewOpenAIClient(cfg.OpenAI.APIKey, cfg.OpenAI.BaseURL),
				logger,
				assistant.WithTimeout(cfg.OpenAI.Timeout),
			)
			svc := scraper.NewService(newFetcher(cfg, logger), scraper.NewExtractor(), store, logger)

			address := cfg.Server.Address
			if a := c.String("address"); a != "" {
				address = a
			}

			ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
			defer stop()

			return api.NewServer(address, generator, svc, store, logger).Start(ctx, cfg.Server.ShutdownTimeout)
		},
	}
}

func classifyCommand() *cli.Command {
	return &cli.Command{
		Name:      "classify",
		Usage:     "Print the sentiment and intent of a message",
		ArgsUsage: "<message>",
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return cli.Exit("a message is required", 1)
			}
			result := classifier.Classify(strings.Join(c.Args().Slice(), " "))
			return printJSON(result)
		},
	}
}

func scrapeCommand() *cli.Command {
	return &cli.Command{
		Name:      "scrape",
		Usage:     "Fetch a listing page and print the extracted vehicle",
		ArgsUsage: "<url>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "vin",
				Usage: "Known VIN, used instead of searching the page",
			},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return cli.Exit("exactly one url is required", 1)
			}
			cfg, logger, err := setup(c)
			if err != nil {
				return err
			}
			defer logger.Sync()

			svc := scraper.NewService(newFetcher(cfg, logger), scraper.NewExtractor(), nil, logger)
			vehicle, err := svc.Scrape(c.Context, c.Args().First(), "", c.String("vin"))
			if err != nil {
				return err
			}
			return printJSON(vehicle)
		},
	}
}

func setup(c *cli.Context) (*config.Config, *zap.Logger, error) {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return nil, nil, err
	}

	var logger *zap.Logger
	if cfg.Log.Development {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}

	return cfg, logger, nil
}

func openStore(cfg *config.Config, logger *zap.Logger) (storage.VehicleStore, error) {
	if cfg.Database.UseInMemory {
		logger.Info("Using in-memory storage")
		return storage.NewMemoryStorage(), nil
	}

	logger.Info("Using PostgreSQL storage")
	store, err := storage.NewPostgresStorage(storage.DatabaseConfig{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.DBName,
		SSLMode:  cfg.Database.SSLMode,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	return store, nil
}

func newFetcher(cfg *config.Config, logger *zap.Logger) *scraper.Fetcher {
	return scraper.NewFetcher(scraper.FetcherConfig{
		UserAgent:    cfg.Scraper.UserAgent,
		Timeout:      cfg.Scraper.Timeout,
		MaxBodyBytes: cfg.Scraper.MaxBodyBytes,
		RateLimit:    cfg.Scraper.RateLimit,
		Burst:        cfg.Scraper.Burst,
	}, logger)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
