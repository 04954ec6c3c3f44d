package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/danielhkuo/quizhost/cleanup"
	"github.com/danielhkuo/quizhost/cliparse"
	"github.com/danielhkuo/quizhost/db"
	"github.com/danielhkuo/quizhost/lobby"
	"github.com/danielhkuo/quizhost/middleware"
	"github.com/danielhkuo/quizhost/notify"
	"github.com/danielhkuo/quizhost/router"
	"github.com/danielhkuo/quizhost/store"
)

// shutdownTimeout bounds how long in-flight requests may finish after a signal
const shutdownTimeout = 10 * time.Second

func main() {
	// A .env file is optional; real environment variables win
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Error("failed to load .env file", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var err error
	if len(os.Args) > 1 && os.Args[1] == "cleanup" {
		err = runCleanup(ctx, os.Args[2:])
	} else {
		err = runServer(ctx, os.Args[1:])
	}
	if err != nil {
		slog.Error("exiting", "error", err)
		os.Exit(1)
	}
}

func runServer(ctx context.Context, args []string) error {
	// Parse configuration
	cfg, err := cliparse.ParseFlags(args)
	if err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}

	st, err := openStore(cfg.DatabaseType, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer st.DB().Close()

	lobbyCfg := lobby.Config{
		Windows: lobby.Windows{
			Active:         cfg.ActiveWindow,
			WaitingTimeout: cfg.WaitingTimeout,
			Grace:          cfg.GraceWindow,
		},
		StrictTransitions: cfg.StrictTransitions,
		NotifyTimeout:     cfg.NotifyTimeout,
	}
	if cfg.NotificationsEnabled() {
		lobbyCfg.Notifier = notify.NewTelegram(cfg.TelegramAPIURL, cfg.TelegramBotToken, cfg.TelegramChatID, nil)
		slog.Info("Telegram notifications enabled", "chat_id", cfg.TelegramChatID)
	}
	svc := lobby.New(st, lobbyCfg)
	defer svc.Close()

	server := http.Server{
		Handler:           middleware.CORS(router.NewRouter(st, svc, cfg)),
		Addr:              ":" + strconv.Itoa(cfg.Port),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("Listening", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		return svc.RunSweeper(gctx, cfg.SweepInterval)
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	err = g.Wait()
	slog.Info("Server closed", "error", err)
	return err
}

func runCleanup(ctx context.Context, args []string) error {
	cfg, err := cliparse.ParseCleanupFlags(args)
	if err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}

	st, err := openStore(cfg.DatabaseType, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer st.DB().Close()

	svc := lobby.New(st, lobby.Config{})
	defer svc.Close()

	_, err = cleanup.Run(ctx, os.Stdout, svc, cfg)
	return err
}

func openStore(dbType, url string) (*store.Store, error) {
	conn, err := db.Open(dbType, url)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	// Create schema (tables)
	if err := db.CreateSchema(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("schema creation failed: %w", err)
	}
	slog.Info("Database schema ready", "type", dbType)

	return store.New(conn, dbType), nil
}
