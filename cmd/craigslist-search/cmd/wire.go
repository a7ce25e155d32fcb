package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/viper"

	apiclient "github.com/donaldgifford/craigslist-search/internal/api/client"
	"github.com/donaldgifford/craigslist-search/internal/config"
	"github.com/donaldgifford/craigslist-search/internal/craigslist"
	"github.com/donaldgifford/craigslist-search/internal/fetch"
	"github.com/donaldgifford/craigslist-search/internal/parse"
	"github.com/donaldgifford/craigslist-search/internal/query"
	"github.com/donaldgifford/craigslist-search/internal/reference"
	"github.com/donaldgifford/craigslist-search/pkg/logger"
	domain "github.com/donaldgifford/craigslist-search/pkg/types"
)

// engine is what the query commands need, served either by an in-process
// Service or by a remote API server.
type engine interface {
	Search(ctx context.Context, req domain.SearchRequest) (*domain.SearchResult, error)
	GetListing(ctx context.Context, rawURL string) (*domain.ListingDetail, error)
	ListLocations(ctx context.Context, filter string) ([]domain.LocationEntry, error)
	ListCategories(ctx context.Context, filter string) ([]domain.CategoryEntry, error)
}

var _ engine = (*apiclient.Client)(nil)

// localEngine adapts a Service to the engine interface.
type localEngine struct {
	*craigslist.Service
}

func (l localEngine) ListLocations(_ context.Context, filter string) ([]domain.LocationEntry, error) {
	return l.Service.ListLocations(filter), nil
}

func (l localEngine) ListCategories(_ context.Context, filter string) ([]domain.CategoryEntry, error) {
	return l.Service.ListCategories(filter), nil
}

// loadConfig reads the --config file and applies flag overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(viper.GetString("config"))
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if lvl := viper.GetString("log-level"); lvl != "" {
		cfg.Logging.Level = lvl
	}
	return cfg, nil
}

// newEngine returns a client for --server, or an in-process Service.
func newEngine() (engine, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	if server := viper.GetString("server"); server != "" {
		return apiclient.New(server, apiclient.WithTimeout(cfg.Server.WriteTimeout)), nil
	}

	log := logger.Install(cfg.Logging.Level, cfg.Logging.Format)
	svc, err := newService(cfg, log)
	if err != nil {
		return nil, err
	}
	return localEngine{svc}, nil
}

// newService wires the search Service from configuration.
func newService(cfg *config.Config, log *slog.Logger) (*craigslist.Service, error) {
	cl := cfg.Craigslist

	locs, err := reference.LoadLocations(cl.DefaultLocation)
	if err != nil {
		return nil, fmt.Errorf("loading locations: %w", err)
	}
	cats, err := reference.LoadCategories(cl.DefaultCategory)
	if err != nil {
		return nil, fmt.Errorf("loading categories: %w", err)
	}

	pacer := fetch.NewPacer(cl.RateLimit.PerSecond, cl.RateLimit.Burst,
		fetch.WithBudget(cl.RateLimit.MaxPerHour, time.Hour),
	)

	f, err := fetch.New(cl.Backend,
		fetch.WithTimeout(cl.RequestTimeout),
		fetch.WithUserAgent(cl.UserAgent),
		fetch.WithPacer(pacer),
		fetch.WithLogger(log),
	)
	if err != nil {
		return nil, fmt.Errorf("creating fetcher: %w", err)
	}

	builder := query.NewBuilder(
		query.WithDomain(cl.Domain),
		query.WithMaxResults(cl.MaxResults),
		query.WithDefaultResults(cl.DefaultResults),
	)

	return craigslist.NewService(locs, cats, f,
		craigslist.WithLogger(log),
		craigslist.WithBuilder(builder),
		craigslist.WithParser(parse.New(parse.WithPhoneRegion(cl.PhoneRegion))),
		craigslist.WithMinPageRows(cl.MinPageRows),
		craigslist.WithMaxConcurrency(cl.MaxConcurrency),
	), nil
}
