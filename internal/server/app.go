// Package server initializes and runs the application: it opens the database,
// wires repositories, services, the chat bot and the HTTP endpoint, handles
// graceful shutdown and drives the periodic expiry scan.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"tgvault/internal/cryptox"
	"tgvault/internal/logging"
	"tgvault/internal/server/bot"
	"tgvault/internal/server/config"
	"tgvault/internal/server/httpapi"
	"tgvault/internal/server/reminder"
	"tgvault/internal/server/repositories/repomanager"
	"tgvault/internal/server/services"
	"tgvault/internal/server/telegram"
)

type App struct {
	config *config.Config
	logger logging.Logger

	db      *sql.DB
	httpSrv *httpapi.Server
	scanner *reminder.Scanner
}

// migrator adapts the repository manager to the single-method surface the
// HTTP layer expects.
type migrator struct {
	db    *sql.DB
	repos repomanager.RepositoryManager
}

func (m *migrator) Migrate(ctx context.Context) error {
	return m.repos.RunMigrations(ctx, m.db)
}

func NewApp(c *config.Config) (*App, error) {
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	repos := repomanager.NewPostgresRepositoryManager()
	cipher := cryptox.NewCipher()

	secretSvc := services.NewSecretService(db, repos, cipher, c.EncryptKey)
	sessionSvc := services.NewSessionService(db, repos, c.SessionTTL)
	snapshotSvc := services.NewSnapshotService(c)

	tg := telegram.NewClient(c.TelegramAPIBase, c.BotToken, &http.Client{Timeout: 30 * time.Second})

	chatBot := bot.New(secretSvc, sessionSvc, tg, snapshotSvc, logger, c.AllowedUserID)
	scanner := reminder.NewScanner(secretSvc, tg, logger, c.AllowedUserID)

	httpSrv := httpapi.NewServer(
		c.EndpointAddr, c.PublicURL, c.AdminSecret,
		chatBot, tg, &migrator{db: db, repos: repos}, scanner, logger,
	)

	return &App{config: c, logger: logger, db: db, httpSrv: httpSrv, scanner: scanner}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// runReminderLoop triggers the expiry scan on the configured interval until
// the context is cancelled. A zero interval disables the loop.
func (app *App) runReminderLoop(ctx context.Context) {
	if app.config.ReminderInterval <= 0 {
		app.logger.Info(ctx, "reminder loop disabled")
		return
	}

	ticker := time.NewTicker(app.config.ReminderInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := app.scanner.Scan(ctx); err != nil {
				app.logger.Error(ctx, "expiry scan failed", "error", err)
			}
		}
	}
}

func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := app.httpSrv.Run(ctx); err != nil {
			app.logger.Error(ctx, err.Error())
			cancelFunc()
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.runReminderLoop(ctx)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err)
	}
}
