package bot

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"tgvault/internal/datex"
)

// expiringWindowDays bounds the /expiring view; further-out dates are visible
// through /list only.
const expiringWindowDays = 30

func (b *Bot) showList(ctx context.Context, chatID int64) {
	items, err := b.secrets.ListAll(ctx)
	if err != nil {
		b.reportError(ctx, chatID, err)
		return
	}
	if len(items) == 0 {
		b.send(ctx, chatID, msgListEmpty)
		return
	}
	b.sendKeyboard(ctx, chatID, msgListHeader, listButtons(b.now(), items))
}

func (b *Bot) showExpiring(ctx context.Context, chatID int64) {
	items, err := b.secrets.ListExpiringWithin(ctx, b.now(), expiringWindowDays)
	if err != nil {
		b.reportError(ctx, chatID, err)
		return
	}
	if len(items) == 0 {
		b.send(ctx, chatID, msgExpiringEmpty)
		return
	}
	b.sendKeyboard(ctx, chatID, msgExpiringHeader, expiringButtons(b.now(), items))
}

func (b *Bot) showDeleteMode(ctx context.Context, chatID int64) {
	items, err := b.secrets.ListAll(ctx)
	if err != nil {
		b.reportError(ctx, chatID, err)
		return
	}
	if len(items) == 0 {
		b.send(ctx, chatID, msgDeleteModeEmpty)
		return
	}
	b.sendKeyboard(ctx, chatID, msgDeleteModeHeader, deleteModeButtons(items))
}

// sendBackup exports every record decrypted as a JSON document. When object
// storage is configured the same document is also uploaded under a
// date-partitioned random key.
func (b *Bot) sendBackup(ctx context.Context, chatID int64) {
	entries, err := b.secrets.Backup(ctx)
	if err != nil {
		b.reportError(ctx, chatID, err)
		return
	}
	if len(entries) == 0 {
		b.send(ctx, chatID, msgBackupEmpty)
		return
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		b.reportError(ctx, chatID, err)
		return
	}

	date := b.now().Format(datex.DateLayout)
	filename := fmt.Sprintf("backup_%s.json", date)
	caption := fmt.Sprintf("💾 备份 %d 条\n⚠️ 明文密码，妥善保管！", len(entries))

	if err := b.tg.SendDocument(ctx, chatID, filename, caption, data); err != nil {
		b.logger.Error(ctx, "send backup failed", "error", err)
		b.send(ctx, chatID, msgOperationFailed)
		return
	}

	if b.snapshots != nil && b.snapshots.Enabled() {
		key := fmt.Sprintf("backups/%s/%s.json", date, uuid.New())
		if err := b.snapshots.Upload(ctx, key, data); err != nil {
			b.logger.Error(ctx, "snapshot upload failed", "key", key, "error", err)
		}
	}
}
