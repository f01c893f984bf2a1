// Command api serves route quotes and swap router calldata over HTTP.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/bimakw/dex-router/internal/config"
	"github.com/bimakw/dex-router/internal/domain/entities"
	"github.com/bimakw/dex-router/internal/domain/router"
	"github.com/bimakw/dex-router/internal/domain/services"
	"github.com/bimakw/dex-router/internal/infrastructure/abi"
	"github.com/bimakw/dex-router/internal/infrastructure/cache"
	"github.com/bimakw/dex-router/internal/infrastructure/dex"
	"github.com/bimakw/dex-router/internal/infrastructure/ethereum"
	"github.com/bimakw/dex-router/internal/presentation/handlers"
)

const (
	version = "0.3.0"
)

func main() {
	configPath := flag.String("config", "", "path to TOML configuration file")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config",
			slog.String("path", *configPath),
			slog.String("error", err.Error()),
		)
		os.Exit(1)
	}

	logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: parseLevel(cfg.LogLevel)}))
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Ethereum
	ethClient, err := ethereum.NewClient(ctx, cfg.Ethereum.RPCURL, cfg.Ethereum.DialTimeout.Duration)
	if err != nil {
		return fmt.Errorf("failed to connect to ethereum: %w", err)
	}
	defer ethClient.Close()
	if got := ethClient.ChainID().Int64(); got != cfg.Ethereum.ChainID {
		return fmt.Errorf("rpc serves chain %d, configured for %d", got, cfg.Ethereum.ChainID)
	}
	logger.Info("connected to ethereum", slog.Int64("chainId", cfg.Ethereum.ChainID))

	// Cache
	var cacheClient cache.Cache
	if cfg.Redis.Addr != "" {
		redisCache, err := cache.NewRedisCache(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			logger.Warn("redis unavailable, using in-memory cache",
				slog.String("addr", cfg.Redis.Addr),
				slog.String("error", err.Error()),
			)
			cacheClient = cache.NewInMemoryCache()
		} else {
			defer redisCache.Close()
			cacheClient = redisCache
			logger.Info("connected to redis", slog.String("addr", cfg.Redis.Addr))
		}
	} else {
		cacheClient = cache.NewInMemoryCache()
		logger.Info("using in-memory cache")
	}

	// Tokens
	registry := entities.DefaultRegistry()
	if cfg.Tokens.File != "" {
		if err := registry.LoadFromFile(cfg.Tokens.File); err != nil {
			return err
		}
	}
	baseTokens := make([]entities.Token, 0, len(cfg.Router.BaseTokens))
	for _, s := range cfg.Router.BaseTokens {
		token, ok := registry.Resolve(s)
		if !ok {
			return fmt.Errorf("unknown base token %q", s)
		}
		if token.ChainID == cfg.Ethereum.ChainID {
			baseTokens = append(baseTokens, token)
		}
	}

	// DEX fetchers
	venueCodec, err := abi.NewVenueCodec()
	if err != nil {
		return err
	}
	fetchers, err := newFetchers(cfg.Router.DEXes, ethClient, venueCodec)
	if err != nil {
		return err
	}

	// Services
	routerCodec, err := abi.NewRouterCodec()
	if err != nil {
		return err
	}
	poolService := services.NewPoolService(fetchers, cacheClient, cfg.Redis.SnapshotTTL.Duration, logger)
	routerService := services.NewRouterService(poolService, router.NewSwapRouter(routerCodec), services.RouterConfig{
		MaxHops:            cfg.Router.MaxHops,
		MaxResults:         cfg.Router.MaxResults,
		DefaultSlippageBps: cfg.Router.DefaultSlippageBps,
		DeadlineWindow:     cfg.Router.DeadlineWindow.Duration,
		BaseTokens:         baseTokens,
	}, logger)
	priceService := services.NewPriceService(routerService, cacheClient, cfg.Redis.PriceTTL.Duration, logger)

	// Handlers
	tokens := handlers.NewTokenResolver(registry, cfg.Ethereum.ChainID)
	healthHandler := handlers.NewHealthHandler(version, cfg.Ethereum.ChainID)
	quoteHandler := handlers.NewQuoteHandler(routerService, tokens)
	swapHandler := handlers.NewSwapHandler(routerService, tokens)
	priceHandler := handlers.NewPriceHandler(priceService, tokens)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.Server.RequestTimeout.Duration))
	r.Use(corsMiddleware(cfg.Server.CORSOrigins))

	r.Get("/health", healthHandler.Health)
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/quote", quoteHandler.GetQuote)
		r.Post("/swap", swapHandler.BuildSwap)
		r.Get("/price/{tokenAddress}", priceHandler.GetPrice)
	})

	server := &http.Server{
		Addr:         ":" + strconv.Itoa(cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout.Duration,
		WriteTimeout: cfg.Server.WriteTimeout.Duration,
		IdleTimeout:  cfg.Server.IdleTimeout.Duration,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting router api",
			slog.String("version", version),
			slog.Int("port", cfg.Server.Port),
			slog.Int("dexes", len(fetchers)),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	logger.Info("server stopped")
	return nil
}

func newFetchers(names []string, caller ethereum.Caller, codec *abi.Codec) ([]dex.Fetcher, error) {
	fetchers := make([]dex.Fetcher, 0, len(names))
	for _, name := range names {
		switch entities.DEXType(strings.ToLower(name)) {
		case entities.DEXUniswapV2:
			fetchers = append(fetchers, dex.NewUniswapV2Client(caller, codec))
		case entities.DEXUniswapV3:
			fetchers = append(fetchers, dex.NewUniswapV3Client(caller, codec))
		case entities.DEXSushiswap:
			fetchers = append(fetchers, dex.NewSushiswapClient(caller, codec))
		default:
			return nil, fmt.Errorf("unsupported dex %q", name)
		}
	}
	return fetchers, nil
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func corsMiddleware(origins []string) func(http.Handler) http.Handler {
	allowAll := slices.Contains(origins, "*")
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			switch {
			case allowAll:
				w.Header().Set("Access-Control-Allow-Origin", "*")
			case origin != "" && slices.Contains(origins, origin):
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Add("Vary", "Origin")
			}
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
