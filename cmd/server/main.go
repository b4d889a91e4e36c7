package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"quantassist/internal/client/alphavantage"
	"quantassist/internal/client/stooq"
	"quantassist/internal/client/tradier"
	"quantassist/internal/client/yahoo"
	"quantassist/internal/config"
	cronrunner "quantassist/internal/cron"
	"quantassist/internal/handler"
	"quantassist/internal/logger"
	"quantassist/internal/marketdata"
	"quantassist/internal/options"
	"quantassist/internal/screener"
)

func main() {
	cfgPath := os.Getenv("QA_CONFIG")
	if cfgPath == "" {
		cfgPath = "config/config.yaml"
	}

	envOnly := false
	if envOnlyRaw := os.Getenv("QA_ENV_ONLY"); envOnlyRaw != "" {
		envOnly = strings.EqualFold(envOnlyRaw, "true") || envOnlyRaw == "1"
	}

	cfg, err := config.Load(cfgPath, envOnly)
	if err != nil {
		panic(err)
	}

	logger, err := logger.New(cfg.Log)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	gateway := buildGateway(cfg, logger)

	engine := &options.Engine{
		Gateway:        gateway,
		Logger:         logger,
		RiskFreeRate:   cfg.Options.RiskFreeRate,
		TargetAbsDelta: cfg.Options.TargetAbsDelta,
		MinDTE:         cfg.Options.MinDTE,
		MaxDTE:         cfg.Options.MaxDTE,
		MinOpenInt:     cfg.Options.MinOpenInt,
		MinVolume:      cfg.Options.MinVolume,
		SimPaths:       cfg.Simulator.DefaultPaths,
	}
	screenerSvc := &screener.Service{
		Gateway:   gateway,
		Engine:    engine,
		Logger:    logger,
		PaceDelay: cfg.Screener.PaceDelay,
		MaxIdeas:  cfg.Screener.MaxIdeas,
	}

	if strings.EqualFold(cfg.App.Env, "dev") {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())

	(&handler.HealthHandler{}).Register(router)
	(&handler.ScreenerHandler{Service: screenerSvc, Logger: logger}).Register(router)
	(&handler.OptionsHandler{
		Engine:          engine,
		Screener:        screenerSvc,
		Logger:          logger,
		DefaultUniverse: cfg.Screener.DefaultUniverse,
	}).Register(router)
	(&handler.SimulatorHandler{
		Gateway:      gateway,
		Logger:       logger,
		DefaultPaths: cfg.Simulator.DefaultPaths,
		MaxPaths:     cfg.Simulator.MaxPaths,
		MaxDays:      cfg.Simulator.MaxDays,
	}).Register(router)
	(&handler.AllocationHandler{
		Samples: cfg.Allocation.Samples,
		TopN:    cfg.Allocation.TopN,
	}).Register(router)
	(&handler.PortfolioHandler{}).Register(router)

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	srv := &http.Server{
		Addr:    cfg.Server.HTTPAddr,
		Handler: router,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cronRunner := cronrunner.New(logger, ctx)
	_, err = cronRunner.Add("@every 1m", "cache-sweep", func(ctx context.Context) error {
		if evicted := gateway.Cache.Sweep(); evicted > 0 {
			logger.Debug("cache sweep", zap.Int("evicted", evicted))
		}
		return nil
	})
	if err != nil {
		logger.Warn("cron register cache sweep failed", zap.Error(err))
	}
	cronRunner.Start()
	defer cronRunner.Stop()

	go func() {
		logger.Info("http server listening",
			zap.String("addr", cfg.Server.HTTPAddr),
			zap.String("data_mode", cfg.Data.Mode))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("http server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http shutdown failed", zap.Error(err))
	}
}

// buildGateway wires either the deterministic mock source or the live
// provider chain (Yahoo first, Tradier for chains, Stooq and Alpha
// Vantage as history fallbacks).
func buildGateway(cfg config.Config, logger *zap.Logger) *marketdata.Gateway {
	gateway := &marketdata.Gateway{
		Cache:        marketdata.NewCache(cfg.Data.CacheTTL),
		Logger:       logger,
		MaxRetries:   cfg.Providers.Yahoo.MaxRetries,
		RetryBackoff: cfg.Providers.Yahoo.RetryBackoff,
	}

	if cfg.Data.Mock() {
		mock := &marketdata.MockSource{Seed: cfg.Data.MockSeed}
		gateway.Chains = []marketdata.ChainSource{mock}
		gateway.Histories = []marketdata.HistorySource{mock}
		gateway.Quotes = []marketdata.QuoteSource{mock}
		gateway.Gainers = []marketdata.GainersSource{mock}
		gateway.News = []marketdata.NewsSource{mock}
		logger.Info("using deterministic mock data", zap.Int64("seed", cfg.Data.MockSeed))
		return gateway
	}

	yahooClient := yahoo.NewClient(
		&http.Client{Timeout: cfg.Providers.Yahoo.Timeout},
		cfg.Providers.Yahoo.QuoteBaseURL,
		cfg.Providers.Yahoo.DataBaseURL,
		cfg.Providers.Yahoo.UserAgent,
	)
	stooqClient := stooq.NewClient(
		&http.Client{Timeout: cfg.Providers.Stooq.Timeout},
		cfg.Providers.Stooq.BaseURL,
	)
	alphaClient := alphavantage.NewClient(
		&http.Client{Timeout: cfg.Providers.AlphaVantage.Timeout},
		cfg.Providers.AlphaVantage.BaseURL,
		cfg.Providers.AlphaVantage.APIKey,
	)

	gateway.Chains = []marketdata.ChainSource{&marketdata.YahooChainSource{Client: yahooClient}}
	tradierClient := tradier.NewClient(
		&http.Client{Timeout: cfg.Providers.Tradier.Timeout},
		cfg.Providers.Tradier.BaseURL,
		cfg.Providers.Tradier.Token,
	)
	if tradierClient.Configured() {
		gateway.Chains = append(gateway.Chains, &marketdata.TradierChainSource{Client: tradierClient})
	} else {
		logger.Info("tradier token not set, chain fallback disabled")
	}

	gateway.Histories = []marketdata.HistorySource{
		&marketdata.YahooHistorySource{Client: yahooClient},
		&marketdata.StooqHistorySource{Client: stooqClient},
		&marketdata.AlphaVantageHistorySource{Client: alphaClient},
	}
	gateway.Quotes = []marketdata.QuoteSource{&marketdata.YahooQuoteSource{Client: yahooClient}}
	gateway.Gainers = []marketdata.GainersSource{&marketdata.YahooGainersSource{Client: yahooClient}}
	gateway.News = []marketdata.NewsSource{&marketdata.YahooNewsSource{Client: yahooClient}}
	return gateway
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type,Authorization")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
