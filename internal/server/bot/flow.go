package bot

import (
	"context"
	"regexp"
	"strconv"
	"strings"
	"time"

	"tgvault/internal/datex"
	"tgvault/internal/server/models"
	"tgvault/internal/textx"
)

var (
	rawNoteDateRe = regexp.MustCompile(`@([\d\-/]+)$`)
	expiryCmdRe   = regexp.MustCompile(`^#到期\s+(\d+)\s+(.+)$`)
)

// continueFlow advances a non-idle wizard session with the user's reply. Any
// text is accepted verbatim except at the expiry step, which validates the
// date and repeats the prompt on failure without moving the session.
func (b *Bot) continueFlow(ctx context.Context, chatID, userID int64, text string, s *models.Session) {
	switch s.Step {
	case models.StepAskSite:
		s.Site = text
		s.Step = models.StepAskAccount
		b.advance(ctx, chatID, userID, s, msgAskAccount)
	case models.StepAskAccount:
		s.Account = text
		s.Step = models.StepAskPassword
		b.advance(ctx, chatID, userID, s, msgAskPassword)
	case models.StepAskPassword:
		s.Password = text
		s.Step = models.StepAskExpiry
		if err := b.sessions.Set(ctx, userID, s); err != nil {
			b.reportError(ctx, chatID, err)
			return
		}
		b.sendKeyboard(ctx, chatID, msgAskExpiry, expiryButtons())
	case models.StepAskExpiry:
		d, ok := datex.ParseDate(b.now(), text)
		if !ok {
			b.send(ctx, chatID, msgBadWizardDate)
			return
		}
		formatted := d.Format(datex.DateLayout)
		s.ExpiresAt = &formatted
		s.Step = models.StepAskExtra
		if err := b.sessions.Set(ctx, userID, s); err != nil {
			b.reportError(ctx, chatID, err)
			return
		}
		b.sendKeyboard(ctx, chatID, "📅 "+formatted+"\n\n"+msgAskExtra, extraButtons())
	case models.StepAskExtra:
		s.Extra = &text
		b.commit(ctx, chatID, userID, s)
	}
}

func (b *Bot) advance(ctx context.Context, chatID, userID int64, s *models.Session, prompt string) {
	if err := b.sessions.Set(ctx, userID, s); err != nil {
		b.reportError(ctx, chatID, err)
		return
	}
	b.send(ctx, chatID, prompt)
}

// commit encrypts and persists the collected wizard fields. On failure the
// session is left intact so the user can retry; the confirmation is sent only
// after both the insert and the session clear succeed.
func (b *Bot) commit(ctx context.Context, chatID, userID int64, s *models.Session) {
	var expires *time.Time
	if s.ExpiresAt != nil {
		if t, err := time.Parse(datex.DateLayout, *s.ExpiresAt); err == nil {
			expires = &t
		}
	}

	if _, err := b.secrets.Create(ctx, s.Name, s.Site, s.Account, s.Password, s.Extra, expires); err != nil {
		b.reportError(ctx, chatID, err)
		return
	}
	if err := b.sessions.Clear(ctx, userID); err != nil {
		b.logger.Error(ctx, "session clear failed", "error", err)
	}
	b.send(ctx, chatID, savedText(s))
}

// handleRawNote stores a free-text note from a "#存 名称\n内容" message. The
// name may carry an "@date" suffix; an unparseable suffix date is dropped
// silently, the note is saved without expiry.
func (b *Bot) handleRawNote(ctx context.Context, chatID int64, text string) {
	nl := strings.Index(text, "\n")
	if nl == -1 {
		b.send(ctx, chatID, msgBadRawNoteFormat)
		return
	}

	name := strings.TrimSpace(strings.TrimPrefix(text[:nl], rawNoteMarker))
	var expires *time.Time
	if m := rawNoteDateRe.FindStringSubmatchIndex(name); m != nil {
		if d, ok := datex.ParseDate(b.now(), name[m[2]:m[3]]); ok {
			expires = &d
		}
		name = strings.TrimSpace(name[:m[0]])
	}

	content := textx.Normalize(text[nl+1:])

	if _, err := b.secrets.CreateRawNote(ctx, name, content, expires); err != nil {
		b.reportError(ctx, chatID, err)
		return
	}
	b.send(ctx, chatID, rawNoteSavedText(name, expires))
}

// handleExpirySet handles "#到期 ID 日期"; the sentinel 无 clears the date.
func (b *Bot) handleExpirySet(ctx context.Context, chatID int64, text string) {
	m := expiryCmdRe.FindStringSubmatch(text)
	if m == nil {
		b.send(ctx, chatID, msgBadExpiryCmd)
		return
	}
	id, _ := strconv.ParseInt(m[1], 10, 64)

	if m[2] == noExpirySentinel {
		if err := b.secrets.UpdateExpiry(ctx, id, nil); err != nil {
			b.reportError(ctx, chatID, err)
			return
		}
		b.send(ctx, chatID, msgCancelled)
		return
	}

	d, ok := datex.ParseDate(b.now(), m[2])
	if !ok {
		b.send(ctx, chatID, msgBadExpiryDate)
		return
	}
	if err := b.secrets.UpdateExpiry(ctx, id, &d); err != nil {
		b.reportError(ctx, chatID, err)
		return
	}
	b.send(ctx, chatID, "✅ 到期："+d.Format(datex.DateLayout))
}
