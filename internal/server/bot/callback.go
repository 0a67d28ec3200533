package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"tgvault/internal/server/models"
	"tgvault/internal/server/telegram"
)

// Callback payloads are short prefixed strings so they survive the transport's
// 64-byte limit. The tagged Action variants below are the only decoded forms
// the handlers ever see.
const (
	cbMenuList     = "m_list"
	cbMenuExpiring = "m_exp"
	cbMenuBackup   = "m_backup"
	cbMenuSearch   = "m_search"
	cbDeleteMode   = "del_mode"
	cbSkipExtra    = "x_0"
	cbExpiryCustom = "e_c"

	cbPrefixView         = "v_"
	cbPrefixDelete       = "d_"
	cbPrefixExpiryPrompt = "s_"
	cbPrefixExpiryChoice = "e_"
)

type Action interface{ isAction() }

type menuKind int

const (
	menuList menuKind = iota
	menuExpiring
	menuBackup
	menuSearch
)

type MenuAction struct{ Kind menuKind }

// ShowDetailAction requests the decrypted view of one record.
type ShowDetailAction struct{ ID int64 }

type DeleteAction struct{ ID int64 }

type DeleteModeAction struct{}

// ExpiryPromptAction asks for the reply template that sets a record's expiry.
type ExpiryPromptAction struct{ ID int64 }

// ExpiryChoiceAction is a wizard quick choice: a relative day count, zero for
// no expiry, or Custom to switch to typed date entry.
type ExpiryChoiceAction struct {
	Days   int
	Custom bool
}

// SkipExtraAction commits the wizard without a note.
type SkipExtraAction struct{}

func (MenuAction) isAction()         {}
func (ShowDetailAction) isAction()   {}
func (DeleteAction) isAction()       {}
func (DeleteModeAction) isAction()   {}
func (ExpiryPromptAction) isAction() {}
func (ExpiryChoiceAction) isAction() {}
func (SkipExtraAction) isAction()    {}

func parseAction(data string) (Action, bool) {
	switch data {
	case cbMenuList:
		return MenuAction{Kind: menuList}, true
	case cbMenuExpiring:
		return MenuAction{Kind: menuExpiring}, true
	case cbMenuBackup:
		return MenuAction{Kind: menuBackup}, true
	case cbMenuSearch:
		return MenuAction{Kind: menuSearch}, true
	case cbDeleteMode:
		return DeleteModeAction{}, true
	case cbSkipExtra:
		return SkipExtraAction{}, true
	case cbExpiryCustom:
		return ExpiryChoiceAction{Custom: true}, true
	}

	if id, ok := parseIDSuffix(data, cbPrefixView); ok {
		return ShowDetailAction{ID: id}, true
	}
	if id, ok := parseIDSuffix(data, cbPrefixDelete); ok {
		return DeleteAction{ID: id}, true
	}
	if id, ok := parseIDSuffix(data, cbPrefixExpiryPrompt); ok {
		return ExpiryPromptAction{ID: id}, true
	}
	if strings.HasPrefix(data, cbPrefixExpiryChoice) {
		days, err := strconv.Atoi(data[len(cbPrefixExpiryChoice):])
		if err != nil || days < 0 {
			return nil, false
		}
		return ExpiryChoiceAction{Days: days}, true
	}
	return nil, false
}

func parseIDSuffix(data, prefix string) (int64, bool) {
	if !strings.HasPrefix(data, prefix) {
		return 0, false
	}
	id, err := strconv.ParseInt(data[len(prefix):], 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func viewPayload(id int64) string   { return fmt.Sprintf("%s%d", cbPrefixView, id) }
func deletePayload(id int64) string { return fmt.Sprintf("%s%d", cbPrefixDelete, id) }
func expiryPromptPayload(id int64) string {
	return fmt.Sprintf("%s%d", cbPrefixExpiryPrompt, id)
}
func expiryChoicePayload(days int) string {
	return fmt.Sprintf("%s%d", cbPrefixExpiryChoice, days)
}

// handleCallback acknowledges first so the client never shows a stuck pending
// indicator, then applies authorization and dispatches the decoded action.
// Unauthorized or unrecognized callbacks are dropped after the acknowledgement.
func (b *Bot) handleCallback(ctx context.Context, cb *telegram.CallbackQuery) {
	if err := b.tg.AnswerCallback(ctx, cb.ID); err != nil {
		b.logger.Error(ctx, "answer callback failed", "error", err)
	}

	if cb.Message == nil || cb.Data == "" {
		return
	}
	if cb.From.ID != b.allowedUserID {
		b.logger.Warn(ctx, "callback from unauthorized sender dropped", "sender_id", cb.From.ID)
		return
	}

	action, ok := parseAction(cb.Data)
	if !ok {
		b.logger.Debug(ctx, "unrecognized callback payload", "data", cb.Data)
		return
	}

	chatID := cb.Message.Chat.ID
	userID := cb.From.ID

	switch a := action.(type) {
	case MenuAction:
		switch a.Kind {
		case menuList:
			b.showList(ctx, chatID)
		case menuExpiring:
			b.showExpiring(ctx, chatID)
		case menuBackup:
			b.sendBackup(ctx, chatID)
		case menuSearch:
			b.send(ctx, chatID, msgSearchHint)
		}
	case ExpiryChoiceAction:
		b.applyExpiryChoice(ctx, chatID, userID, a)
	case SkipExtraAction:
		b.skipExtra(ctx, chatID, userID)
	case ShowDetailAction:
		b.showDetail(ctx, chatID, a.ID)
	case DeleteModeAction:
		b.showDeleteMode(ctx, chatID)
	case DeleteAction:
		b.deleteRecord(ctx, chatID, a.ID)
	case ExpiryPromptAction:
		b.send(ctx, chatID, expiryPromptText(a.ID))
	}
}

// applyExpiryChoice handles the wizard's quick expiry buttons. A stale press,
// arriving when the session is no longer at the expiry step, is ignored.
func (b *Bot) applyExpiryChoice(ctx context.Context, chatID, userID int64, a ExpiryChoiceAction) {
	s, err := b.sessions.Get(ctx, userID)
	if err != nil {
		b.reportError(ctx, chatID, err)
		return
	}
	if s.Step != models.StepAskExpiry {
		return
	}

	if a.Custom {
		b.send(ctx, chatID, msgAskCustomDate)
		return
	}

	s.ExpiresAt = nil
	if a.Days > 0 {
		formatted := expiryInDays(b.now(), a.Days)
		s.ExpiresAt = &formatted
	}
	s.Step = models.StepAskExtra
	if err := b.sessions.Set(ctx, userID, s); err != nil {
		b.reportError(ctx, chatID, err)
		return
	}

	text := msgAskExtra
	if s.ExpiresAt != nil {
		text = "📅 " + *s.ExpiresAt + "\n\n" + msgAskExtra
	}
	b.sendKeyboard(ctx, chatID, text, extraButtons())
}

func (b *Bot) skipExtra(ctx context.Context, chatID, userID int64) {
	s, err := b.sessions.Get(ctx, userID)
	if err != nil {
		b.reportError(ctx, chatID, err)
		return
	}
	if s.Step != models.StepAskExtra {
		return
	}
	s.Extra = nil
	b.commit(ctx, chatID, userID, s)
}

func (b *Bot) deleteRecord(ctx context.Context, chatID, id int64) {
	name, err := b.secrets.Delete(ctx, id)
	if err != nil {
		b.reportError(ctx, chatID, err)
		return
	}
	b.send(ctx, chatID, deletedText(name))
}
