package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"hrms/internal/platform/config"
	"hrms/internal/platform/db"
)

const (
	exitFailure = 1
	exitUsage   = 2
	exitRows    = 3
)

type codedError struct {
	code int
	err  error
}

func (e *codedError) Error() string { return e.err.Error() }
func (e *codedError) Unwrap() error { return e.err }

func withCode(code int, err error) error {
	return &codedError{code: code, err: err}
}

func exitCode(err error) int {
	var coded *codedError
	if errors.As(err, &coded) {
		return coded.code
	}
	return exitFailure
}

type runtime struct {
	cfg    config.Config
	logger *slog.Logger
}

// connect opens the database named by DATABASE_URL.
func (rt *runtime) connect(ctx context.Context) (*pgxpool.Pool, error) {
	if rt.cfg.DatabaseURL == "" {
		return nil, withCode(exitUsage, errors.New("DATABASE_URL is required"))
	}
	pool, err := db.Connect(ctx, rt.cfg)
	if err != nil {
		return nil, fmt.Errorf("db connect: %w", err)
	}
	return pool, nil
}

func newRootCmd(rt *runtime) *cobra.Command {
	root := &cobra.Command{
		Use:           "hrmctl",
		Short:         "Administer the HR employee records service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		newMigrateCmd(rt),
		newImportCmd(rt),
		newExportCmd(rt),
		newCreateUserCmd(rt),
	)
	return root
}

func main() {
	rt := &runtime{
		cfg:    config.Load(),
		logger: slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})),
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(rt).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "hrmctl:", err)
		stop()
		os.Exit(exitCode(err))
	}
}
