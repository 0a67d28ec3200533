// Package reminder runs the periodic expiry scan and pushes a grouped digest
// to the operator's chat.
package reminder

import (
	"context"
	"strings"
	"time"

	"tgvault/internal/datex"
	"tgvault/internal/logging"
	"tgvault/internal/server/models"
)

// scanWindowDays bounds the digest to dates at most a week out; expired
// records are always included.
const scanWindowDays = 7

type SecretLister interface {
	ListExpiringWithin(ctx context.Context, now time.Time, days int) ([]*models.SecretOverview, error)
}

type Sender interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
}

type Scanner struct {
	secrets SecretLister
	tg      Sender
	logger  logging.Logger
	chatID  int64
	now     func() time.Time
}

func NewScanner(secrets SecretLister, tg Sender, logger logging.Logger, chatID int64) *Scanner {
	return &Scanner{
		secrets: secrets,
		tg:      tg,
		logger:  logger.With("module", "reminder"),
		chatID:  chatID,
		now:     time.Now,
	}
}

// Scan builds and sends the digest. A scan that finds nothing due sends no
// message at all.
func (s *Scanner) Scan(ctx context.Context) error {
	now := s.now()
	items, err := s.secrets.ListExpiringWithin(ctx, now, scanWindowDays)
	if err != nil {
		return err
	}

	digest := Digest(now, items)
	if digest == "" {
		s.logger.Debug(ctx, "nothing due, no digest sent")
		return nil
	}

	s.logger.Info(ctx, "sending expiry digest", "records", len(items))
	return s.tg.SendMessage(ctx, s.chatID, digest)
}

// Digest groups records by how soon they are due and renders one message with
// a section per non-empty group. Returns the empty string when no record is
// due within the window.
func Digest(now time.Time, items []*models.SecretOverview) string {
	var expired, today, tomorrow, within3, within7 []string
	for _, it := range items {
		if it.ExpiresAt == nil {
			continue
		}
		line := "• " + it.Name
		switch days := datex.DaysUntil(now, *it.ExpiresAt); {
		case days < 0:
			expired = append(expired, line)
		case days == 0:
			today = append(today, line)
		case days == 1:
			tomorrow = append(tomorrow, line)
		case days <= 3:
			within3 = append(within3, line)
		default:
			within7 = append(within7, line)
		}
	}

	var sections []string
	for _, g := range []struct {
		header string
		lines  []string
	}{
		{"⚠️ 已过期：", expired},
		{"🔴 今天：", today},
		{"🔴 明天：", tomorrow},
		{"🟡 3天内：", within3},
		{"🟢 7天内：", within7},
	} {
		if len(g.lines) > 0 {
			sections = append(sections, g.header+"\n"+strings.Join(g.lines, "\n"))
		}
	}
	if len(sections) == 0 {
		return ""
	}
	return "⏰ 到期提醒\n\n" + strings.Join(sections, "\n\n")
}
