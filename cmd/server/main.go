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

	"employee-auth/internal/config"
	"employee-auth/internal/db"
	"employee-auth/internal/db/migrate"
	"employee-auth/internal/netutil"
	"employee-auth/internal/notify"
	"employee-auth/internal/observability/logging"
	"employee-auth/internal/observability/metrics"
	impl "employee-auth/internal/service/impl"
	"employee-auth/internal/store"
	httptransport "employee-auth/internal/transport/http"
)

const serviceName = "employee-auth"

func main() {
	cfg, err := config.Load()
	if err == nil {
		err = cfg.ValidateServer()
	}
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	logger := logging.NewLogger(logging.Config{
		ServiceName: serviceName,
		Environment: cfg.Environment,
		Level:       cfg.LogLevel,
	})
	slog.SetDefault(logger)
	metrics.MustRegister(serviceName)

	logger.Info("starting service")

	if cfg.MigrateOnStart {
		if err := migrate.Run(cfg.DatabaseURL, migrate.Up); err != nil {
			logger.Error("migrate", "error", err)
			os.Exit(1)
		}
	}

	gdb, err := db.OpenGorm(db.Config{
		DSN:          cfg.DatabaseURL,
		LogSQL:       cfg.DBLogSQL,
		MaxOpenConns: cfg.DBMaxOpenConns,
		Logger:       logger,
	})
	if err != nil {
		logger.Error("gorm open", "error", err)
		os.Exit(1)
	}
	st := store.New(gdb)

	from := notify.From{Email: cfg.Email.FromEmail, Name: cfg.Email.FromName}
	sender, err := notify.NewSender(cfg.Email.Driver,
		notify.SMTPConfig{
			Host:      cfg.Email.SMTPHost,
			Port:      cfg.Email.SMTPPort,
			Username:  cfg.Email.SMTPUsername,
			Password:  cfg.Email.SMTPPassword,
			TLSPolicy: cfg.Email.SMTPTLSPolicy,
			From:      from,
		},
		notify.PostmarkConfig{
			ServerToken:  cfg.Email.PostmarkServerToken,
			AccountToken: cfg.Email.PostmarkAccountToken,
			From:         from,
		},
		logger,
	)
	if err != nil {
		logger.Error("email sender", "error", err)
		os.Exit(1)
	}

	pw := impl.NewPasswordServiceArgon2id()
	ts, err := impl.NewTokenServiceHS256(impl.TokenConfig{
		Issuer:     cfg.JWT.Issuer,
		Audience:   cfg.JWT.Audience,
		AccessTTL:  cfg.JWT.Expiry(),
		SigningKey: []byte(cfg.JWT.Key),
	})
	if err != nil {
		logger.Error("token service", "error", err)
		os.Exit(1)
	}
	access := impl.NewAccessServiceImpl(st)
	as := impl.NewAuthServiceImpl(st, pw, ts, notify.NewMailer(sender), impl.NewRandomCodeGenerator())
	es := impl.NewEmployeeServiceImpl(st, access, pw)

	proxies, err := netutil.ParsePrefixes(cfg.TrustedProxies)
	if err != nil {
		logger.Error("trusted proxies", "error", err)
		os.Exit(1)
	}

	handler := httptransport.NewRouter(httptransport.Deps{
		Auth:           as,
		Employees:      es,
		Access:         access,
		Tokens:         ts,
		CORSOrigins:    cfg.CORSOrigins,
		TrustedProxies: proxies,
		AuthRateLimit:  cfg.AuthRateLimit,
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown", "error", err)
		}
	}()

	logger.Info("employee auth service listening", "addr", srv.Addr, "issuer", cfg.JWT.Issuer, "email_driver", sender.Driver())
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}
