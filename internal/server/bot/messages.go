package bot

// Fixed user-facing texts. Dynamic variants live in render.go.
const (
	msgHelp = "🔐 密码管理机器人\n\n" +
		"📝 保存：直接发送名称开始引导\n" +
		"📄 长文本：#存 名称\\n内容\n" +
		"🔍 搜索：发送关键词\n" +
		"📋 菜单：/menu\n\n" +
		"🔒 AES加密 ⏰ 到期提醒"

	msgMenu               = "🔐 选择操作："
	msgCancelled          = "✅ 已取消"
	msgNotFound           = "❌ 不存在"
	msgOperationFailed    = "⚠️ 操作失败，请稍后再试"
	msgSearchHint         = "🔍 直接发送关键词搜索"
	msgAskAccount         = "👤 请输入账号："
	msgAskPassword        = "🔑 请输入密码："
	msgAskExpiry          = "📅 设置到期？"
	msgAskExtra           = "📝 添加备注？"
	msgAskCustomDate      = "📅 请输入日期（如 2025-12-31）："
	msgBadWizardDate      = "❓ 格式：2025-12-31 或 12-31"
	msgBadRawNoteFormat   = "❓ 格式：#存 名称\\n内容"
	msgEmptyNameOrContent = "❓ 名称和内容不能为空"
	msgBadExpiryCmd       = "❓ 格式：#到期 ID 日期"
	msgBadExpiryDate      = "❓ 日期格式不对"
	msgListHeader         = "📋 点击查看："
	msgListEmpty          = "📭 没有数据"
	msgDeleteModeHeader   = "🗑️ 点击删除："
	msgDeleteModeEmpty    = "📭 没有记录"
	msgExpiringHeader     = "⏰ 即将到期："
	msgExpiringEmpty      = "✅ 30天内没有到期"
	msgBackupEmpty        = "📭 没有数据"
)

const (
	rawNoteMarker     = "#存"
	expirySetMarker   = "#到期"
	noExpirySentinel  = "无"
	searchTokenMaxLen = 20
)
