// Package httpapi exposes the webhook endpoint and the key-gated admin
// endpoints for bootstrap and manual scans.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"tgvault/internal/logging"
	"tgvault/internal/server/telegram"
)

const shutdownTimeout = 5 * time.Second

// UpdateHandler consumes one decoded webhook update.
type UpdateHandler interface {
	HandleUpdate(ctx context.Context, u *telegram.Update)
}

// Registrar registers the webhook URL and the command menu with the Bot API.
type Registrar interface {
	SetWebhook(ctx context.Context, url string) error
	SetMyCommands(ctx context.Context, commands []telegram.BotCommand) error
}

// Migrator applies pending schema migrations.
type Migrator interface {
	Migrate(ctx context.Context) error
}

// ExpiryScanner runs one expiry scan pass.
type ExpiryScanner interface {
	Scan(ctx context.Context) error
}

type Server struct {
	addr        string
	publicURL   string
	adminSecret string

	bot      UpdateHandler
	tg       Registrar
	migrator Migrator
	scanner  ExpiryScanner
	logger   logging.Logger
}

func NewServer(addr, publicURL, adminSecret string, bot UpdateHandler, tg Registrar, migrator Migrator, scanner ExpiryScanner, logger logging.Logger) *Server {
	return &Server{
		addr:        addr,
		publicURL:   publicURL,
		adminSecret: adminSecret,
		bot:         bot,
		tg:          tg,
		migrator:    migrator,
		scanner:     scanner,
		logger:      logger.With("module", "httpapi"),
	}
}

// Router builds the handler tree with logging and panic recovery applied to
// every route.
func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /webhook", s.handleWebhook)
	mux.HandleFunc("GET /init", s.requireAdminKey(s.handleInit))
	mux.HandleFunc("GET /setWebhook", s.requireAdminKey(s.handleSetWebhook))
	mux.HandleFunc("GET /scan", s.requireAdminKey(s.handleScan))

	return s.loggingMiddleware(s.recoveryMiddleware(mux))
}

// Run serves until the context is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{Addr: s.addr, Handler: s.Router()}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	s.logger.Info(ctx, "http server listening", "addr", s.addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// requireAdminKey gates admin endpoints on the shared secret in the key query
// parameter.
func (s *Server) requireAdminKey(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.adminSecret == "" || r.URL.Query().Get("key") != s.adminSecret {
			writeError(w, http.StatusForbidden, "forbidden")
			return
		}
		next(w, r)
	}
}

// handleWebhook decodes the update and hands it to the bot. The response is
// always 200 once the payload parses; per-update failures are handled inside
// the bot so the transport never retries deliveries.
func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	var u telegram.Update
	if err := json.NewDecoder(r.Body).Decode(&u); err != nil {
		writeError(w, http.StatusBadRequest, "invalid update payload")
		return
	}

	s.bot.HandleUpdate(r.Context(), &u)
	writeOK(w)
}

func (s *Server) handleInit(w http.ResponseWriter, r *http.Request) {
	if err := s.migrator.Migrate(r.Context()); err != nil {
		s.logger.Error(r.Context(), "migrations failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeOK(w)
}

func (s *Server) handleSetWebhook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := s.tg.SetWebhook(ctx, s.publicURL+"/webhook"); err != nil {
		s.logger.Error(ctx, "set webhook failed", "error", err)
		writeError(w, http.StatusBadGateway, "webhook registration failed")
		return
	}
	commands := []telegram.BotCommand{
		{Command: "menu", Description: "📋 菜单"},
		{Command: "help", Description: "❓ 帮助"},
	}
	if err := s.tg.SetMyCommands(ctx, commands); err != nil {
		s.logger.Error(ctx, "set commands failed", "error", err)
		writeError(w, http.StatusBadGateway, "command registration failed")
		return
	}
	writeOK(w)
}

func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	if err := s.scanner.Scan(r.Context()); err != nil {
		s.logger.Error(r.Context(), "scan failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeOK(w)
}
