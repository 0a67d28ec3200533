// Package bot implements the conversational core: command dispatch, the
// multi-step capture wizard and callback handling. Each inbound update is an
// independent stateless invocation; all continuity lives in the session store.
package bot

import (
	"context"
	"errors"
	"strings"
	"time"

	"tgvault/internal/common"
	"tgvault/internal/logging"
	"tgvault/internal/server/models"
	"tgvault/internal/server/services"
	"tgvault/internal/server/telegram"
)

// Messenger is the outbound surface required of the chat transport.
type Messenger interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
	SendKeyboard(ctx context.Context, chatID int64, text string, buttons [][]telegram.Button) error
	AnswerCallback(ctx context.Context, callbackID string) error
	SendDocument(ctx context.Context, chatID int64, filename, caption string, content []byte) error
}

// SecretStore is the secret-record lifecycle the bot drives.
type SecretStore interface {
	Create(ctx context.Context, name, site, account, password string, extra *string, expiresAt *time.Time) (int64, error)
	CreateRawNote(ctx context.Context, name, content string, expiresAt *time.Time) (int64, error)
	Detail(ctx context.Context, id int64) (*services.SecretDetail, error)
	Search(ctx context.Context, substr string) ([]*models.SecretOverview, error)
	ListAll(ctx context.Context) ([]*models.SecretOverview, error)
	ListExpiringWithin(ctx context.Context, now time.Time, days int) ([]*models.SecretOverview, error)
	UpdateExpiry(ctx context.Context, id int64, expiresAt *time.Time) error
	Delete(ctx context.Context, id int64) (string, error)
	Backup(ctx context.Context) ([]services.BackupEntry, error)
}

// SessionStore resumes and persists the wizard state between invocations.
type SessionStore interface {
	Get(ctx context.Context, userID int64) (*models.Session, error)
	Set(ctx context.Context, userID int64, s *models.Session) error
	Clear(ctx context.Context, userID int64) error
}

// Snapshotter mirrors backup exports to object storage.
type Snapshotter interface {
	Enabled() bool
	Upload(ctx context.Context, key string, body []byte) error
}

type Bot struct {
	secrets   SecretStore
	sessions  SessionStore
	tg        Messenger
	snapshots Snapshotter
	logger    logging.Logger

	allowedUserID int64
	now           func() time.Time
}

func New(secrets SecretStore, sessions SessionStore, tg Messenger, snapshots Snapshotter, logger logging.Logger, allowedUserID int64) *Bot {
	return &Bot{
		secrets:       secrets,
		sessions:      sessions,
		tg:            tg,
		snapshots:     snapshots,
		logger:        logger.With("module", "bot"),
		allowedUserID: allowedUserID,
		now:           time.Now,
	}
}

// HandleUpdate dispatches one inbound update. Events from any sender other
// than the configured identity are dropped without a response.
func (b *Bot) HandleUpdate(ctx context.Context, u *telegram.Update) {
	if u.CallbackQuery != nil {
		b.handleCallback(ctx, u.CallbackQuery)
		return
	}

	m := u.Message
	if m == nil || m.Text == "" || m.From == nil {
		return
	}
	if m.From.ID != b.allowedUserID {
		b.logger.Warn(ctx, "message from unauthorized sender dropped", "sender_id", m.From.ID)
		return
	}

	b.handleMessage(ctx, m.Chat.ID, m.From.ID, strings.TrimSpace(m.Text))
}

func (b *Bot) handleMessage(ctx context.Context, chatID, userID int64, text string) {
	switch text {
	case "/start", "/help":
		b.send(ctx, chatID, msgHelp)
		return
	case "/menu":
		b.sendKeyboard(ctx, chatID, msgMenu, menuButtons())
		return
	case "/list":
		b.showList(ctx, chatID)
		return
	case "/expiring":
		b.showExpiring(ctx, chatID)
		return
	case "/backup":
		b.sendBackup(ctx, chatID)
		return
	case "/cancel":
		if err := b.sessions.Clear(ctx, userID); err != nil {
			b.reportError(ctx, chatID, err)
			return
		}
		b.send(ctx, chatID, msgCancelled)
		return
	}

	session, err := b.sessions.Get(ctx, userID)
	if err != nil {
		b.reportError(ctx, chatID, err)
		return
	}
	if !session.Idle() {
		b.continueFlow(ctx, chatID, userID, text, session)
		return
	}

	if strings.HasPrefix(text, rawNoteMarker) {
		b.handleRawNote(ctx, chatID, text)
		return
	}
	if strings.HasPrefix(text, expirySetMarker+" ") {
		b.handleExpirySet(ctx, chatID, text)
		return
	}

	// A short single token is a search; anything else (or a search miss)
	// starts a new capture.
	if !strings.Contains(text, " ") && len([]rune(text)) <= searchTokenMaxLen {
		if b.trySearch(ctx, chatID, text) {
			return
		}
	}

	b.startCapture(ctx, chatID, userID, text)
}

// trySearch runs the substring search and reports whether it produced output:
// one hit shows the detail, several show a selection list, zero falls through.
func (b *Bot) trySearch(ctx context.Context, chatID int64, token string) bool {
	hits, err := b.secrets.Search(ctx, token)
	if err != nil {
		b.reportError(ctx, chatID, err)
		return true
	}
	switch {
	case len(hits) == 0:
		return false
	case len(hits) == 1:
		b.showDetail(ctx, chatID, hits[0].ID)
		return true
	default:
		b.sendKeyboard(ctx, chatID, searchResultText(len(hits)), searchButtons(hits))
		return true
	}
}

func (b *Bot) startCapture(ctx context.Context, chatID, userID int64, name string) {
	session := &models.Session{Step: models.StepAskSite, Name: name}
	if err := b.sessions.Set(ctx, userID, session); err != nil {
		b.reportError(ctx, chatID, err)
		return
	}
	b.send(ctx, chatID, captureStartText(name))
}

func (b *Bot) showDetail(ctx context.Context, chatID, id int64) {
	d, err := b.secrets.Detail(ctx, id)
	if err != nil {
		b.reportError(ctx, chatID, err)
		return
	}
	b.sendKeyboard(ctx, chatID, detailText(b.now(), d), detailButtons(id))
}

func (b *Bot) send(ctx context.Context, chatID int64, text string) {
	if err := b.tg.SendMessage(ctx, chatID, text); err != nil {
		b.logger.Error(ctx, "send failed", "error", err)
	}
}

func (b *Bot) sendKeyboard(ctx context.Context, chatID int64, text string, buttons [][]telegram.Button) {
	if err := b.tg.SendKeyboard(ctx, chatID, text, buttons); err != nil {
		b.logger.Error(ctx, "send keyboard failed", "error", err)
	}
}

// reportError translates an error into a user-facing message in the same
// turn. The failed transition leaves the session untouched.
func (b *Bot) reportError(ctx context.Context, chatID int64, err error) {
	switch {
	case errors.Is(err, common.ErrNotFound):
		b.send(ctx, chatID, msgNotFound)
	case errors.Is(err, common.ErrValidation):
		b.send(ctx, chatID, msgEmptyNameOrContent)
	case errors.Is(err, common.ErrDecryption):
		b.logger.Error(ctx, "decryption failed", "error", err)
		b.send(ctx, chatID, msgOperationFailed)
	default:
		b.logger.Error(ctx, "operation failed", "error", err)
		b.send(ctx, chatID, msgOperationFailed)
	}
}
