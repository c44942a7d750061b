// seed creates the first Director account so someone can sign in and
// register everyone else.
package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	"employee-auth/internal/config"
	"employee-auth/internal/db"
	"employee-auth/internal/domain"
	"employee-auth/internal/observability/logging"
	impl "employee-auth/internal/service/impl"
	"employee-auth/internal/store"

	"github.com/google/uuid"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}
	logger := logging.NewLogger(logging.Config{ServiceName: "employee-seed", Environment: cfg.Environment, Level: cfg.LogLevel})
	slog.SetDefault(logger)

	if err := run(context.Background(), cfg); err != nil {
		logger.Error("seed failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config) error {
	if cfg.Seed.Password == "" {
		return errors.New("SEED_DIRECTOR_PASSWORD is not set")
	}
	birth, err := time.Parse(time.DateOnly, cfg.Seed.BirthDate)
	if err != nil {
		return err
	}

	gdb, err := db.OpenGorm(db.Config{DSN: cfg.DatabaseURL, LogSQL: cfg.DBLogSQL})
	if err != nil {
		return err
	}
	st := store.New(gdb)

	email := domain.NormalizeEmail(cfg.Seed.Email)
	if _, err := st.Employees().GetByEmail(ctx, email); err == nil {
		slog.Info("director already present", "email", email)
		return nil
	} else if !errors.Is(err, store.ErrRecordNotFound) {
		return err
	}

	hash, err := impl.NewPasswordServiceArgon2id().Hash(cfg.Seed.Password)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	e := &domain.Employee{
		ID:           uuid.New(),
		FirstName:    cfg.Seed.FirstName,
		LastName:     cfg.Seed.LastName,
		Email:        email,
		Document:     cfg.Seed.Document,
		BirthDate:    birth,
		PasswordHash: hash,
		Role:         domain.RoleDirector,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := st.Employees().Create(ctx, e); err != nil {
		return err
	}
	slog.Info("director created", "employee_id", e.ID, "email", email)
	return nil
}
