package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"casetrack/internal/adapters/postgres"
	"casetrack/internal/adapters/redis"
	"casetrack/internal/adapters/smtp"
	"casetrack/internal/application/cases"
	"casetrack/internal/application/identity"
	"casetrack/internal/application/otp"
	"casetrack/internal/application/token"
	"casetrack/internal/application/workers"
	"casetrack/internal/config"
	"casetrack/internal/logger"
	"casetrack/internal/transport/rest"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()
	log := logger.New(cfg)

	if cfg.JWTSecret == "" {
		panic("FATAL: JWT_SECRET is mandatory for Server!")
	}

	dbPool, err := postgres.InitDB(ctx, cfg.DatabaseURL, log)
	if err != nil {
		log.Error("failed to init DB", "error", err)
		return
	}
	defer dbPool.Close()

	rdb := goredis.NewClient(&goredis.Options{Addr: cfg.RedisAddr})
	defer rdb.Close()

	userRepo := postgres.NewUserRepository(dbPool)
	otpRepo := postgres.NewOTPRepository(dbPool)
	caseRepo := postgres.NewCaseRepository(dbPool)

	mailer := smtp.NewMailer(cfg.SMTP, cfg.OTPTTL)
	limiter := redis.NewLimiter(rdb, cfg.OTPRateLimit, cfg.OTPRateWindow)

	otpService := otp.NewEngine(userRepo, otpRepo, mailer, limiter, cfg.OTPTTL, log)
	tokenService := token.NewService(cfg.JWTSecret, cfg.JWTExpiry, cfg.JWTRefreshThreshold)
	identityService := identity.NewService(userRepo, otpService, tokenService, cfg.SignupAutoApprove, log)
	caseService := cases.NewService(caseRepo, userRepo, log)

	scheduler := workers.NewScheduler(log)
	manager := workers.NewManager(scheduler, log, otpRepo, cfg.OTPSweepInterval)
	manager.Start(ctx)

	router := rest.NewRouter(cfg, &rest.RouterDeps{
		Auth: rest.NewAuthHandler(identityService, otpService),
		User: rest.NewUserHandler(identityService),
		Case: rest.NewCaseHandler(caseService),

		Tokens:   tokenService,
		UserRepo: userRepo,
		Log:      log,
	})

	srv := rest.NewServer(router, cfg.Address)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("http: starting server", "address", cfg.Address)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("http: server error", "error", err)
	}

	log.Info("server stopped")
}
