package httpapi

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tgvault/internal/logging"
	"tgvault/internal/server/telegram"
)

type fakeBot struct {
	updates []*telegram.Update
}

func (f *fakeBot) HandleUpdate(_ context.Context, u *telegram.Update) {
	f.updates = append(f.updates, u)
}

type fakeRegistrar struct {
	webhookURL string
	commands   []telegram.BotCommand
	err        error
}

func (f *fakeRegistrar) SetWebhook(_ context.Context, url string) error {
	f.webhookURL = url
	return f.err
}

func (f *fakeRegistrar) SetMyCommands(_ context.Context, commands []telegram.BotCommand) error {
	f.commands = commands
	return f.err
}

type fakeMigrator struct {
	calls int
	err   error
}

func (f *fakeMigrator) Migrate(_ context.Context) error {
	f.calls++
	return f.err
}

type fakeScanner struct {
	calls int
	err   error
}

func (f *fakeScanner) Scan(_ context.Context) error {
	f.calls++
	return f.err
}

type env struct {
	bot      *fakeBot
	tg       *fakeRegistrar
	migrator *fakeMigrator
	scanner  *fakeScanner
	handler  http.Handler
}

func newEnv() *env {
	e := &env{
		bot:      &fakeBot{},
		tg:       &fakeRegistrar{},
		migrator: &fakeMigrator{},
		scanner:  &fakeScanner{},
	}
	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	srv := NewServer(":0", "https://vault.example.com", "s3cret", e.bot, e.tg, e.migrator, e.scanner, logger)
	e.handler = srv.Router()
	return e
}

func (e *env) do(method, target string, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	w := httptest.NewRecorder()
	e.handler.ServeHTTP(w, req)
	return w
}

func TestWebhook_DispatchesUpdate(t *testing.T) {
	e := newEnv()

	w := e.do(http.MethodPost, "/webhook", `{"message":{"chat":{"id":1},"from":{"id":7},"text":"/help"}}`)

	assert.Equal(t, http.StatusOK, w.Code)
	require.Len(t, e.bot.updates, 1)
	assert.Equal(t, "/help", e.bot.updates[0].Message.Text)
}

func TestWebhook_BadJSON(t *testing.T) {
	e := newEnv()

	w := e.do(http.MethodPost, "/webhook", "{not json")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, e.bot.updates)
}

func TestWebhook_RejectsGet(t *testing.T) {
	e := newEnv()

	w := e.do(http.MethodGet, "/webhook", "")
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestAdminEndpoints_RequireKey(t *testing.T) {
	e := newEnv()

	for _, target := range []string{"/init", "/setWebhook", "/scan"} {
		assert.Equal(t, http.StatusForbidden, e.do(http.MethodGet, target, "").Code, target)
		assert.Equal(t, http.StatusForbidden, e.do(http.MethodGet, target+"?key=wrong", "").Code, target)
	}
	assert.Zero(t, e.migrator.calls)
	assert.Zero(t, e.scanner.calls)
}

func TestInit_RunsMigrations(t *testing.T) {
	e := newEnv()

	w := e.do(http.MethodGet, "/init?key=s3cret", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, e.migrator.calls)
}

func TestInit_MigrationFailure(t *testing.T) {
	e := newEnv()
	e.migrator.err = errors.New("boom")

	w := e.do(http.MethodGet, "/init?key=s3cret", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "internal server error")
}

func TestSetWebhook_RegistersURLAndCommands(t *testing.T) {
	e := newEnv()

	w := e.do(http.MethodGet, "/setWebhook?key=s3cret", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "https://vault.example.com/webhook", e.tg.webhookURL)
	require.Len(t, e.tg.commands, 2)
	assert.Equal(t, "menu", e.tg.commands[0].Command)
}

func TestSetWebhook_UpstreamFailure(t *testing.T) {
	e := newEnv()
	e.tg.err = errors.New("telegram down")

	w := e.do(http.MethodGet, "/setWebhook?key=s3cret", "")
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestScan_Triggered(t *testing.T) {
	e := newEnv()

	w := e.do(http.MethodGet, "/scan?key=s3cret", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, e.scanner.calls)
}

func TestUnknownRoute(t *testing.T) {
	e := newEnv()

	w := e.do(http.MethodGet, "/nope", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
