package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"vestige-bot/internal/bot"
	"vestige-bot/internal/cache"
	"vestige-bot/internal/config"
	"vestige-bot/internal/handler"
	"vestige-bot/internal/job"
	"vestige-bot/internal/provider"
	"vestige-bot/internal/service"
	"vestige-bot/pkg/metrics"
	"vestige-bot/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/lmittmann/tint"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	tele "gopkg.in/telebot.v3"

	_ "vestige-bot/docs"
)

var version = "dev"

var (
	loadConfigFunc       = config.Load
	initRedisFunc        = cache.InitRedis
	initTracerFunc       = tracing.InitTracer
	initMeterFunc        = metrics.InitMeter
	newTelegramBotFunc   = bot.NewTelegramBot
	startTelegramBotFunc = func(b *tele.Bot) { go b.Start() }
	stopTelegramBotFunc  = func(b *tele.Bot) { b.Stop() }
	startProbeFunc       = func(p *job.UpstreamProbe, ctx context.Context) { go p.Start(ctx) }
	newRouterFunc        = gin.New
	setupSignalNotify    = signal.Notify
	waitForSignalFunc    = func(ctx context.Context, quit <-chan os.Signal) {
		select {
		case <-quit:
		case <-ctx.Done():
		}
	}
	startHTTPServerFunc    = func(srv *http.Server) error { return srv.ListenAndServe() }
	shutdownHTTPServerFunc = func(srv *http.Server, ctx context.Context) error { return srv.Shutdown(ctx) }
	exitFunc               = os.Exit
)

func setupLogger(level slog.Level) {
	slog.SetDefault(slog.New(
		tint.NewHandler(os.Stderr, &tint.Options{
			Level:      level,
			TimeFormat: time.DateTime,
		}),
	))
}

// @title           Vestige Bot API
// @version         1.0
// @description     Market data relay for the Vestige chat bot.

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey  ApiKeyAuth
// @in                          header
// @name                        X-API-Key
func main() {
	setupLogger(slog.LevelInfo)

	cfg, err := loadConfigFunc()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		exitFunc(1)
		return
	}
	setupLogger(cfg.LogLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tp, tracer, err := initTracerFunc(ctx, tracing.Options{
		Enabled:  cfg.TracingEnabled,
		Endpoint: cfg.OTLPEndpoint,
		Version:  version,
	})
	if err != nil {
		slog.Error("failed to initialize tracer", "error", err)
		exitFunc(1)
		return
	}
	defer func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			slog.Error("error shutting down tracer provider", "error", err)
		}
	}()

	mp, err := initMeterFunc(nil)
	if err != nil {
		slog.Error("failed to initialize metrics", "error", err)
		exitFunc(1)
		return
	}
	defer func() {
		if err := mp.MeterProvider.Shutdown(context.Background()); err != nil {
			slog.Error("error shutting down meter provider", "error", err)
		}
	}()
	meter := mp.Meter(tracing.ServiceName)

	client := provider.NewVestigeClient(tracer, meter, provider.Options{
		BaseURL:     cfg.MarketAPIBaseURL,
		APIKey:      cfg.MarketAPIKey,
		NetworkID:   cfg.NetworkID,
		Timeout:     cfg.MarketAPITimeout(),
		RPS:         cfg.MarketAPIRPS,
		Burst:       cfg.MarketAPIBurst,
		MaxAttempts: cfg.MarketAPIMaxAttempts,
	})
	slog.Info("market api client ready", "client", client.String())

	bctx := bot.NewBotContext(cfg.ManagementChatID, cfg.AdminUsername)

	var teleBot *tele.Bot
	var sender bot.Sender
	if cfg.TelegramBotToken != "" {
		teleBot, err = newTelegramBotFunc(cfg.TelegramBotToken)
		if err != nil {
			slog.Error("failed to create telegram bot", "error", err)
			exitFunc(1)
			return
		}
		sender = teleBot
	}
	notifier := bot.NewAdminNotifier(sender, bctx)

	var cooldown bot.Cooldown
	if cfg.RedisURL != "" && cfg.CommandCooldownSecs > 0 {
		rdb, err := initRedisFunc(ctx, cfg.RedisURL)
		if err != nil {
			slog.Warn("redis unavailable, command cooldown disabled", "error", err)
		} else {
			defer rdb.Close()
			cooldown = cache.NewCooldown(rdb, cfg.CommandCooldown())
		}
	}

	resolver := service.NewResolver(tracer, client)
	candles := service.NewCandleFetcher(tracer, client)
	tickerService := service.NewTickerService(tracer, client, resolver, candles, notifier, cfg.DefaultCurrency)
	marketService := service.NewMarketService(tracer, client, notifier)

	if teleBot != nil {
		bot.NewHandlers(bctx, tickerService, marketService, cooldown).Register(teleBot)
		startTelegramBotFunc(teleBot)
		if err := notifier.Announce(ctx, bot.MsgComingOnline); err != nil {
			slog.Warn("startup announcement failed", "error", err)
		}
	}

	probe := job.NewUpstreamProbe(tracer, meter, client, cfg.UpstreamProbeSecs)
	probe.OnFirstHealthy(func(ctx context.Context) {
		bctx.MarkReady()
		if err := notifier.Announce(ctx, bot.MsgReady); err != nil {
			slog.Warn("ready announcement failed", "error", err)
		}
	})
	startProbeFunc(probe, ctx)

	r := newRouterFunc()
	r.Use(gin.Recovery(), otelgin.Middleware(tracing.ServiceName))

	h := handler.New(tracer, tickerService, marketService, probe, bctx)
	h.RegisterRoutes(r, cfg.APIKey)
	r.GET("/metrics", gin.WrapH(mp.Handler))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		slog.Info("starting http server", "addr", cfg.HTTPAddr)
		if err := startHTTPServerFunc(srv); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server failed", "error", err)
			cancel()
		}
	}()

	quit := make(chan os.Signal, 1)
	setupSignalNotify(quit, syscall.SIGINT, syscall.SIGTERM)
	waitForSignalFunc(ctx, quit)
	slog.Info("shutting down")

	cancel()
	if teleBot != nil {
		stopTelegramBotFunc(teleBot)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := shutdownHTTPServerFunc(srv, shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
	}

	slog.Info("server exiting")
}
