package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"flashdeck/internal/app"
	"flashdeck/internal/config"
	"flashdeck/internal/ratelimit"
	"flashdeck/internal/server"
	"flashdeck/internal/util"
)

func main() {
	cfg, err := config.Load(config.PathFromEnv())
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	sessionTTL, err := config.ParseSessionTTL(cfg.SessionTTL)
	if err != nil {
		log.Fatalf("failed to parse session TTL: %v", err)
	}
	jwtLeeway, err := config.ParseJWTLeeway(cfg.JWTLeeway)
	if err != nil {
		log.Fatalf("failed to parse jwt leeway: %v", err)
	}

	logger := util.InitLogger(cfg.LogLevel)

	appCore, err := app.New(app.Config{
		DatabaseURL:     cfg.DatabaseURL,
		RedisAddr:       cfg.RedisAddr,
		RedisPassword:   cfg.RedisPassword,
		JWTSecret:       cfg.JWTSecret,
		JWTIssuer:       cfg.JWTIssuer,
		JWTAudience:     cfg.JWTAudience,
		JWTLeeway:       jwtLeeway,
		SessionTTL:      sessionTTL,
		StrictCardDecks: cfg.StrictCardDecks,
	})
	if err != nil {
		log.Fatalf("failed to init app: %v", err)
	}
	defer appCore.Close()

	trusted, err := util.NewTrustedProxies(cfg.TrustedProxies)
	if err != nil {
		log.Fatalf("invalid trusted proxies: %v", err)
	}

	serverCfg := server.Config{
		App:            appCore,
		TrustedProxies: trusted,
		CORS:           util.CORSOptions{AllowedOrigins: cfg.CORSAllowedOrigins},
		MaxBodyBytes:   cfg.MaxBodyBytes,
	}
	if strings.TrimSpace(cfg.RedisAddr) != "" {
		if cfg.RegisterRateLimitPerMin > 0 {
			limiter, err := ratelimit.NewRedisFixedWindowLimiter(cfg.RedisAddr, cfg.RedisPassword, "flashdeck:ratelimit:register", cfg.RegisterRateLimitPerMin, time.Minute)
			if err != nil {
				log.Fatalf("failed to init register limiter: %v", err)
			}
			defer limiter.Close()
			serverCfg.RegisterLimiter = limiter
		}
		if cfg.TokenRateLimitPerMinute > 0 {
			limiter, err := ratelimit.NewRedisFixedWindowLimiter(cfg.RedisAddr, cfg.RedisPassword, "flashdeck:ratelimit:token", cfg.TokenRateLimitPerMinute, time.Minute)
			if err != nil {
				log.Fatalf("failed to init token limiter: %v", err)
			}
			defer limiter.Close()
			serverCfg.TokenLimiter = limiter
		}
	} else {
		logger.Warn("redisAddr not set; rate limiting disabled and logout is process-local")
	}

	httpServer, err := server.New(serverCfg)
	if err != nil {
		log.Fatalf("failed to init server: %v", err)
	}

	addr := ":" + cfg.Port
	srv := &http.Server{
		Addr:              addr,
		Handler:           httpServer.Router(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		slog.Info("server shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	if err := g.Wait(); err != nil {
		logger.Error("server error", "err", err)
	}
}
