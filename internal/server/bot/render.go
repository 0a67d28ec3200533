package bot

import (
	"fmt"
	"time"

	"tgvault/internal/datex"
	"tgvault/internal/server/models"
	"tgvault/internal/server/services"
	"tgvault/internal/server/telegram"
)

func menuButtons() [][]telegram.Button {
	return [][]telegram.Button{
		{
			{Text: "📋 全部", CallbackData: cbMenuList},
			{Text: "🔍 搜索", CallbackData: cbMenuSearch},
		},
		{
			{Text: "⏰ 到期", CallbackData: cbMenuExpiring},
			{Text: "💾 备份", CallbackData: cbMenuBackup},
		},
	}
}

func expiryButtons() [][]telegram.Button {
	return [][]telegram.Button{
		{{Text: "不需要", CallbackData: expiryChoicePayload(0)}},
		{
			{Text: "7天", CallbackData: expiryChoicePayload(7)},
			{Text: "30天", CallbackData: expiryChoicePayload(30)},
			{Text: "90天", CallbackData: expiryChoicePayload(90)},
		},
		{{Text: "自定义", CallbackData: cbExpiryCustom}},
	}
}

func extraButtons() [][]telegram.Button {
	return [][]telegram.Button{{{Text: "不需要，保存", CallbackData: cbSkipExtra}}}
}

func detailButtons(id int64) [][]telegram.Button {
	return [][]telegram.Button{
		{{Text: "📅 设置到期", CallbackData: expiryPromptPayload(id)}},
		{{Text: "🗑️ 删除", CallbackData: deletePayload(id)}},
	}
}

func searchButtons(hits []*models.SecretOverview) [][]telegram.Button {
	rows := make([][]telegram.Button, 0, len(hits))
	for _, h := range hits {
		rows = append(rows, []telegram.Button{{
			Text:         fmt.Sprintf("%s (%s)", h.Name, h.Site),
			CallbackData: viewPayload(h.ID),
		}})
	}
	return rows
}

// listButtons labels every record, marking expired entries with ⚠️ and those
// due within a week with 🔴, and appends the delete-mode row.
func listButtons(now time.Time, items []*models.SecretOverview) [][]telegram.Button {
	rows := make([][]telegram.Button, 0, len(items)+1)
	for _, it := range items {
		label := fmt.Sprintf("%s (%s)", it.Name, it.Site)
		if it.ExpiresAt != nil {
			switch days := datex.DaysUntil(now, *it.ExpiresAt); {
			case days <= 0:
				label = "⚠️ " + label
			case days <= 7:
				label = "🔴 " + label
			}
		}
		rows = append(rows, []telegram.Button{{Text: label, CallbackData: viewPayload(it.ID)}})
	}
	rows = append(rows, []telegram.Button{{Text: "🗑️ 删除模式", CallbackData: cbDeleteMode}})
	return rows
}

func expiringButtons(now time.Time, items []*models.SecretOverview) [][]telegram.Button {
	rows := make([][]telegram.Button, 0, len(items))
	for _, it := range items {
		days := datex.DaysUntil(now, *it.ExpiresAt)
		var marker string
		switch {
		case days <= 0:
			marker = "⚠️"
		case days <= 3:
			marker = "🔴"
		case days <= 7:
			marker = "🟡"
		default:
			marker = "🟢"
		}
		rows = append(rows, []telegram.Button{{
			Text:         fmt.Sprintf("%s %s (%d天)", marker, it.Name, days),
			CallbackData: viewPayload(it.ID),
		}})
	}
	return rows
}

func deleteModeButtons(items []*models.SecretOverview) [][]telegram.Button {
	rows := make([][]telegram.Button, 0, len(items))
	for _, it := range items {
		rows = append(rows, []telegram.Button{{
			Text:         "❌ " + it.Name,
			CallbackData: deletePayload(it.ID),
		}})
	}
	return rows
}

// expiryInfo renders the trailing urgency line of a detail view, or the bare
// date when the expiry is more than a month out.
func expiryInfo(now time.Time, exp *time.Time) string {
	if exp == nil {
		return ""
	}
	u := datex.Classify(now, *exp)
	switch u.Level {
	case datex.LevelExpired:
		return fmt.Sprintf("\n⚠️ 已过期 %d 天", u.Days)
	case datex.LevelToday:
		return "\n🔴 今天到期！"
	case datex.LevelCritical:
		return fmt.Sprintf("\n🔴 %d 天后到期", u.Days)
	case datex.LevelWarning:
		return fmt.Sprintf("\n🟡 %d 天后到期", u.Days)
	case datex.LevelOK:
		return fmt.Sprintf("\n🟢 %d 天后到期", u.Days)
	default:
		return "\n📅 " + exp.Format(datex.DateLayout)
	}
}

func detailText(now time.Time, d *services.SecretDetail) string {
	var msg string
	if d.RawNote {
		msg = fmt.Sprintf("🔐 %s\n\n%s", d.Name, d.Password)
	} else {
		msg = fmt.Sprintf("🔐 %s\n🌐 %s\n👤 %s\n🔑 %s", d.Name, d.Site, d.Account, d.Password)
		if d.Extra != nil {
			msg += "\n📝 " + *d.Extra
		}
	}
	return msg + expiryInfo(now, d.ExpiresAt)
}

func captureStartText(name string) string {
	return fmt.Sprintf("📝 保存「%s」\n\n🌐 请输入网站：", name)
}

func searchResultText(n int) string {
	return fmt.Sprintf("🔍 找到 %d 条：", n)
}

// savedText is the commit confirmation; the password is always masked.
func savedText(s *models.Session) string {
	msg := fmt.Sprintf("✅ 保存成功！\n\n🏷️ %s\n🌐 %s\n👤 %s\n🔑 ******", s.Name, s.Site, s.Account)
	if s.Extra != nil && *s.Extra != "" {
		msg += "\n📝 " + *s.Extra
	}
	if s.ExpiresAt != nil {
		msg += "\n📅 " + *s.ExpiresAt
	}
	return msg
}

func rawNoteSavedText(name string, expires *time.Time) string {
	msg := fmt.Sprintf("✅ 已保存「%s」", name)
	if expires != nil {
		msg += "\n📅 " + expires.Format(datex.DateLayout)
	}
	return msg
}

func deletedText(name string) string {
	return fmt.Sprintf("🗑️ 已删除「%s」", name)
}

func expiryPromptText(id int64) string {
	return fmt.Sprintf("📅 回复：#到期 %d 2025-12-31\n取消：#到期 %d 无", id, id)
}

func expiryInDays(now time.Time, days int) string {
	return datex.Midnight(now).AddDate(0, 0, days).Format(datex.DateLayout)
}
