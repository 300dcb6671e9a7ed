// Command createadmin bootstraps an ADMIN account so the first user can sign
// in and register everyone else.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"billdesk/internal/config"
	"billdesk/internal/domain"
	"billdesk/internal/email/noop"
	"billdesk/internal/logger"
	"billdesk/internal/repository/postgres"
	"billdesk/internal/service"
)

func main() {
	name := flag.String("name", "Administrator", "display name")
	email := flag.String("email", "", "login email (required)")
	password := flag.String("password", "", "login password, at least 6 characters (required)")
	flag.Parse()

	if strings.TrimSpace(*email) == "" || len(*password) < 6 {
		flag.Usage()
		os.Exit(2)
	}

	if err := run(*name, *email, *password); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(name, email, password string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	log, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	users := service.NewUserService(
		postgres.NewUserRepo(db),
		postgres.NewSessionRepo(db),
		noop.NewSender(log, cfg.Email.FrontendURL),
		log,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	user, err := users.Create(ctx, service.CreateUserInput{
		Name:     name,
		Email:    email,
		Password: password,
		Role:     domain.RoleAdmin,
	})
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			return fmt.Errorf("a user with email %s already exists", email)
		}
		return fmt.Errorf("creating admin: %w", err)
	}

	log.Info("admin created", zap.String("id", user.ID.String()), zap.String("email", user.Email))
	return nil
}
