package commands

import (
	"fmt"

	"github.com/hyunwoo/tradeideas/internal/contracts"
	"github.com/hyunwoo/tradeideas/internal/cross"
	"github.com/hyunwoo/tradeideas/internal/external/wikipedia"
	"github.com/hyunwoo/tradeideas/internal/external/yahoo"
	"github.com/hyunwoo/tradeideas/internal/scan"
	"github.com/hyunwoo/tradeideas/internal/scoring"
	"github.com/hyunwoo/tradeideas/internal/store"
	"github.com/hyunwoo/tradeideas/pkg/config"
	"github.com/hyunwoo/tradeideas/pkg/database"
	"github.com/hyunwoo/tradeideas/pkg/httputil"
	"github.com/hyunwoo/tradeideas/pkg/logger"
	"github.com/hyunwoo/tradeideas/pkg/redis"
)

// deps is the wired dependency graph shared by the commands. The
// database is optional; without it providers hit the upstream sources
// directly.
type deps struct {
	cfg   *config.Config
	log   *logger.Logger
	db    *database.DB
	redis *redis.Client

	prices       contracts.PriceProvider
	fundamentals contracts.FundamentalsProvider
	constituents contracts.ConstituentsProvider
	wiki         *wikipedia.Client
	priceRepo    *store.PriceRepository

	crosses     *scan.CrossScanner
	candidates  *scan.CandidateScanner
	performance *scan.PerformanceStudy
}

// close releases held connections.
func (d *deps) close() {
	if d.db != nil {
		d.db.Close()
	}
	if d.redis != nil {
		d.redis.Close()
	}
}

// build wires the full dependency graph. withStore controls whether the
// PostgreSQL cache layer is attempted; a failed connection degrades to
// direct upstream fetches rather than aborting the command.
func build(withStore bool) (*deps, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	log := logger.New(cfg)

	d := &deps{cfg: cfg, log: log}

	redisClient, err := redis.New(cfg)
	if err != nil {
		log.WithError(err).Warn("Redis unavailable, caching disabled")
		redisClient, _ = redis.New(&config.Config{})
	}
	d.redis = redisClient
	cache := redis.NewCache(redisClient, "tradeideas")

	httpClient := httputilClient(cfg, log, redisClient)

	d.wiki = wikipedia.NewClient(cfg, httpClient, log)
	yahooClient := yahoo.NewClient(cfg, httpClient, log)

	d.prices = yahooClient
	d.fundamentals = yahooClient
	d.constituents = store.NewCachedConstituentsProvider(d.wiki, cache)

	if withStore {
		db, err := database.New(cfg)
		if err != nil {
			log.WithError(err).Warn("Database unavailable, store cache disabled")
		} else {
			d.db = db
			d.priceRepo = store.NewPriceRepository(db.Pool)
			d.prices = store.NewCachedPriceProvider(yahooClient, d.priceRepo, log)
			d.fundamentals = store.NewCachedFundamentalsProvider(
				yahooClient, store.NewFundamentalsRepository(db.Pool), cache, log)
		}
	}

	detector := cross.NewDetector(log)
	scorer := scoring.NewScorer(criteriaFromConfig(cfg), log)

	d.crosses = scan.NewCrossScanner(detector, d.prices, d.fundamentals, cfg.Scan.Workers, log)
	d.candidates = scan.NewCandidateScanner(scorer, d.fundamentals, cfg.Scan.Workers, log)
	d.performance = scan.NewPerformanceStudy(d.prices, log)

	return d, nil
}

// httputilClient builds the shared HTTP client. When Redis is enabled
// the Wikipedia rate limit also throttles across processes.
func httputilClient(cfg *config.Config, log *logger.Logger, redisClient *redis.Client) *httputil.Client {
	client := httputil.New(log).WithUserAgent(cfg.Wikipedia.UserAgent)
	if redisClient.Enabled() {
		limiter := redis.NewRateLimiter(redisClient, "tradeideas")
		client = client.WithRateLimiter(limiter, redis.WikipediaRateLimit)
	}
	return client
}

// criteriaFromConfig maps the configured thresholds onto a scoring
// regime.
func criteriaFromConfig(cfg *config.Config) scoring.Criteria {
	return scoring.Criteria{
		MinMarketCap:       cfg.Criteria.MinMarketCap,
		MinFloatPct:        cfg.Criteria.MinFloatPct,
		MinMonthlyVolume:   cfg.Criteria.MinMonthlyVolume,
		MinLiquidityRatio:  cfg.Criteria.MinLiquidityRatio,
		ProfitableQuarters: cfg.Criteria.ProfitableQuarters,
		Domicile:           cfg.Criteria.Domicile,
	}
}
