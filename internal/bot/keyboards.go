// keyboards.go — reply-клавиатуры меню по ролям.
// Тексты кнопок — это и есть маршруты: bot.go сопоставляет их с обработчиками.
package bot

import tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

// Кнопки меню работника.
const (
	BtnAddEntry   = "📝 Записать работу"
	BtnMyDay      = "📋 Мои записи"
	BtnMyMonth    = "📅 Мой месяц"
	BtnMyBalance  = "💰 Мой баланс"
	BtnDeleteLast = "🛠 Последняя запись"
	BtnCancel     = "❌ Отмена"
)

// Кнопки денежного меню персонала.
const (
	BtnBalances      = "💰 Балансы"
	BtnRating        = "🏆 Рейтинг"
	BtnMonthSummary  = "📊 Итоги месяца"
	BtnEarnings      = "📊 Заработок за месяц"
	BtnGiveAdvance   = "💵 Выдать аванс"
	BtnGivePenalty   = "⚠️ Начислить штраф"
	BtnDeleteAdvance = "🗑 Удалить аванс"
	BtnDeletePenalty = "🗑 Удалить штраф"
	BtnExcelReport   = "📈 Отчёт Excel"
)

// Кнопки административного меню.
const (
	BtnPriceList      = "📋 Прайс-лист"
	BtnAddCategory    = "➕ Категория"
	BtnAddItem        = "➕ Вид работы"
	BtnEditPrice      = "✏️ Цена"
	BtnEditUnit       = "✏️ Единица"
	BtnDeleteCategory = "🗑 Категория"
	BtnDeleteItem     = "🗑 Вид работы"
	BtnWorkers        = "👷 Работники"
	BtnAddWorker      = "➕ Работник"
	BtnRenameWorker   = "✏️ Имя работника"
	BtnDeleteWorker   = "🗑 Работник"
	BtnAssign         = "🔗 Назначить категорию"
	BtnUnassign       = "🔓 Снять категорию"
	BtnReminders      = "⏰ Напоминания"
	BtnBackup         = "💾 Бэкап"
)

// WorkerKeyboard — меню работника.
func WorkerKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(BtnAddEntry),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(BtnMyDay),
			tgbotapi.NewKeyboardButton(BtnMyMonth),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(BtnMyBalance),
			tgbotapi.NewKeyboardButton(BtnDeleteLast),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(BtnCancel),
		),
	)
	kb.ResizeKeyboard = true
	return kb
}

// ManagerKeyboard — меню менеджера: деньги и отчёты, без справочников.
func ManagerKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(BtnBalances),
			tgbotapi.NewKeyboardButton(BtnRating),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(BtnMonthSummary),
			tgbotapi.NewKeyboardButton(BtnEarnings),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(BtnExcelReport),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(BtnGiveAdvance),
			tgbotapi.NewKeyboardButton(BtnGivePenalty),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(BtnDeleteAdvance),
			tgbotapi.NewKeyboardButton(BtnDeletePenalty),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(BtnCancel),
		),
	)
	kb.ResizeKeyboard = true
	return kb
}

// AdminKeyboard — полное меню администратора.
func AdminKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(BtnBalances),
			tgbotapi.NewKeyboardButton(BtnRating),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(BtnMonthSummary),
			tgbotapi.NewKeyboardButton(BtnEarnings),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(BtnGiveAdvance),
			tgbotapi.NewKeyboardButton(BtnGivePenalty),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(BtnDeleteAdvance),
			tgbotapi.NewKeyboardButton(BtnDeletePenalty),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(BtnPriceList),
			tgbotapi.NewKeyboardButton(BtnAddCategory),
			tgbotapi.NewKeyboardButton(BtnAddItem),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(BtnEditPrice),
			tgbotapi.NewKeyboardButton(BtnEditUnit),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(BtnDeleteCategory),
			tgbotapi.NewKeyboardButton(BtnDeleteItem),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(BtnWorkers),
			tgbotapi.NewKeyboardButton(BtnAddWorker),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(BtnRenameWorker),
			tgbotapi.NewKeyboardButton(BtnDeleteWorker),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(BtnAssign),
			tgbotapi.NewKeyboardButton(BtnUnassign),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(BtnExcelReport),
			tgbotapi.NewKeyboardButton(BtnReminders),
			tgbotapi.NewKeyboardButton(BtnBackup),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(BtnCancel),
		),
	)
	kb.ResizeKeyboard = true
	return kb
}
