// Package bot содержит главный модуль бота — запуск polling
// и маршрутизацию обновлений по ролям и диалогам.
package bot

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"github.com/yaMovsar/cabinet-bot/internal/bot/filters"
	"github.com/yaMovsar/cabinet-bot/internal/bot/middleware"
	"github.com/yaMovsar/cabinet-bot/internal/config"
	"github.com/yaMovsar/cabinet-bot/internal/features/admin"
	"github.com/yaMovsar/cabinet-bot/internal/features/money"
	"github.com/yaMovsar/cabinet-bot/internal/features/reminders"
	"github.com/yaMovsar/cabinet-bot/internal/features/worklog"
	"github.com/yaMovsar/cabinet-bot/internal/reports"
)

// Bot — главная структура бота, объединяющая все компоненты.
type Bot struct {
	api        *tgbotapi.BotAPI
	cfg        *config.Config
	classifier *filters.Classifier

	worklogHandler  *worklog.Handler
	moneyHandler    *money.Handler
	adminHandler    *admin.Handler
	reminderHandler *reminders.Handler
	reportHandler   *reports.Handler

	// ограничитель параллелизма обработки апдейтов
	inflight chan struct{}
}

// New создаёт новый экземпляр бота со всеми зависимостями.
func New(
	api *tgbotapi.BotAPI,
	cfg *config.Config,
	classifier *filters.Classifier,
	worklogHandler *worklog.Handler,
	moneyHandler *money.Handler,
	adminHandler *admin.Handler,
	reminderHandler *reminders.Handler,
	reportHandler *reports.Handler,
) *Bot {
	maxInFlight := cfg.BotMaxInflight
	if maxInFlight <= 0 {
		maxInFlight = 64
	}

	return &Bot{
		api:             api,
		cfg:             cfg,
		classifier:      classifier,
		worklogHandler:  worklogHandler,
		moneyHandler:    moneyHandler,
		adminHandler:    adminHandler,
		reminderHandler: reminderHandler,
		reportHandler:   reportHandler,
		inflight:        make(chan struct{}, maxInFlight),
	}
}

// Start запускает polling обновлений от Telegram.
func (b *Bot) Start(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = b.cfg.BotUpdateTimeoutSeconds

	updates := b.api.GetUpdatesChan(u)

	log.WithFields(log.Fields{
		"max_inflight": b.cfg.BotMaxInflight,
		"timeout_sec":  b.cfg.BotUpdateTimeoutSeconds,
	}).Info("Бот запущен и ожидает сообщения...")

	for {
		select {
		case <-ctx.Done():
			log.Info("Бот останавливается (ctx done)...")
			b.api.StopReceivingUpdates()
			return

		case update, ok := <-updates:
			if !ok {
				log.Info("Канал updates закрыт, бот остановлен")
				return
			}

			// лимит параллелизма
			b.inflight <- struct{}{}
			go func(upd tgbotapi.Update) {
				defer func() { <-b.inflight }()
				b.handleUpdate(ctx, upd)
			}(update)
		}
	}
}

// handleUpdate обрабатывает одно обновление от Telegram.
func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			middleware.LogPanic("update", r)
			b.reportFailure(update, r)
		}
	}()

	if update.CallbackQuery != nil {
		b.handleCallback(ctx, update.CallbackQuery)
		return
	}
	if update.Message == nil || update.Message.Text == "" {
		return
	}

	message := update.Message
	middleware.LogMessage(message)

	// Бот работает только в личке
	if !message.Chat.IsPrivate() {
		return
	}

	chatID := message.Chat.ID
	userID := message.From.ID
	role := b.classifier.Classify(ctx, userID)

	if message.IsCommand() {
		b.handleCommand(ctx, chatID, userID, role, message.Command())
		return
	}

	if role == filters.RoleUnknown {
		b.sendMessage(chatID, "Вас нет в списке работников. Обратитесь к администратору.")
		return
	}

	if message.Text == BtnCancel {
		b.cancelAll(chatID, role)
		return
	}

	// Сначала активные диалоги: текст принадлежит им
	if b.dispatchDialogText(ctx, chatID, userID, role, message.Text) {
		return
	}

	// Затем кнопки меню
	if b.routeMenu(ctx, chatID, userID, role, message.Text) {
		return
	}

	b.sendMessage(chatID, "Не понял. Воспользуйтесь кнопками меню.")
}

func (b *Bot) handleCommand(ctx context.Context, chatID, userID int64, role filters.Role, cmd string) {
	switch cmd {
	case "start":
		b.sendGreeting(chatID, role)
	case "cancel":
		b.cancelAll(chatID, role)
	default:
		b.sendMessage(chatID, "Неизвестная команда. Используйте кнопки меню.")
	}
}

func (b *Bot) sendGreeting(chatID int64, role filters.Role) {
	var msg tgbotapi.MessageConfig
	switch role {
	case filters.RoleAdmin:
		msg = tgbotapi.NewMessage(chatID, "👋 Админ-панель учёта работ")
		msg.ReplyMarkup = AdminKeyboard()
	case filters.RoleManager:
		msg = tgbotapi.NewMessage(chatID, "👋 Панель менеджера")
		msg.ReplyMarkup = ManagerKeyboard()
	case filters.RoleWorker:
		msg = tgbotapi.NewMessage(chatID, "👋 Привет! Записывайте работу кнопкой ниже.")
		msg.ReplyMarkup = WorkerKeyboard()
	default:
		msg = tgbotapi.NewMessage(chatID, "Вас нет в списке работников. Обратитесь к администратору.")
	}
	b.send(msg)
}

// cancelAll сбрасывает все активные диалоги чата.
func (b *Bot) cancelAll(chatID int64, role filters.Role) {
	cancelled := false
	if role == filters.RoleWorker {
		cancelled = b.worklogHandler.HandleCancel(chatID)
	}
	if role.Staff() {
		if b.moneyHandler.HandleCancel(chatID) {
			cancelled = true
		}
	}
	if role == filters.RoleAdmin {
		if b.adminHandler.HandleCancel(chatID) {
			cancelled = true
		}
		if b.reminderHandler.HandleCancel(chatID) {
			cancelled = true
		}
	}
	if !cancelled {
		b.sendMessage(chatID, "Нечего отменять")
	}
}

// dispatchDialogText передаёт текст активному диалогу.
func (b *Bot) dispatchDialogText(ctx context.Context, chatID, userID int64, role filters.Role, text string) bool {
	if role == filters.RoleWorker && b.worklogHandler.HandleText(ctx, chatID, userID, text) {
		return true
	}
	if role.Staff() && b.moneyHandler.HandleText(ctx, chatID, userID, text) {
		return true
	}
	if role == filters.RoleAdmin {
		if b.adminHandler.HandleText(ctx, chatID, text) {
			return true
		}
		if b.reminderHandler.HandleText(ctx, chatID, text) {
			return true
		}
	}
	return false
}

// routeMenu сопоставляет кнопку меню с обработчиком (с учётом роли).
func (b *Bot) routeMenu(ctx context.Context, chatID, userID int64, role filters.Role, text string) bool {
	// Меню работника
	if role == filters.RoleWorker {
		switch text {
		case BtnAddEntry:
			b.worklogHandler.HandleStartEntry(ctx, chatID, userID)
		case BtnMyDay:
			b.worklogHandler.HandleMyDay(ctx, chatID, userID)
		case BtnMyMonth:
			b.worklogHandler.HandleMyMonth(ctx, chatID, userID)
		case BtnMyBalance:
			b.moneyHandler.HandleWorkerBalance(ctx, chatID, userID)
		case BtnDeleteLast:
			b.worklogHandler.HandleDeleteLast(ctx, chatID, userID)
		default:
			return false
		}
		return true
	}

	// Денежное меню персонала
	if role.Staff() {
		switch text {
		case BtnBalances:
			b.moneyHandler.HandleBalances(ctx, chatID)
			return true
		case BtnRating:
			b.moneyHandler.HandleRating(ctx, chatID)
			return true
		case BtnMonthSummary:
			b.moneyHandler.HandleMonthSummary(ctx, chatID)
			return true
		case BtnEarnings:
			b.reportHandler.HandleMonthlyEarnings(ctx, chatID)
			return true
		case BtnGiveAdvance:
			b.moneyHandler.HandleGrantAdvanceStart(ctx, chatID)
			return true
		case BtnGivePenalty:
			b.moneyHandler.HandleGrantPenaltyStart(ctx, chatID)
			return true
		case BtnDeleteAdvance:
			b.moneyHandler.HandleDeleteAdvanceStart(ctx, chatID)
			return true
		case BtnDeletePenalty:
			b.moneyHandler.HandleDeletePenaltyStart(ctx, chatID)
			return true
		case BtnExcelReport:
			b.reportHandler.HandleMonthlyReport(ctx, chatID)
			return true
		}
	}

	// Административное меню
	if role == filters.RoleAdmin {
		switch text {
		case BtnPriceList:
			b.adminHandler.HandlePriceList(ctx, chatID)
		case BtnAddCategory:
			b.adminHandler.HandleAddCategoryStart(chatID)
		case BtnAddItem:
			b.adminHandler.HandleAddItemStart(ctx, chatID)
		case BtnEditPrice:
			b.adminHandler.HandleEditPriceStart(ctx, chatID)
		case BtnEditUnit:
			b.adminHandler.HandleEditUnitStart(ctx, chatID)
		case BtnDeleteCategory:
			b.adminHandler.HandleDeleteCategoryStart(ctx, chatID)
		case BtnDeleteItem:
			b.adminHandler.HandleDeleteItemStart(ctx, chatID)
		case BtnWorkers:
			b.adminHandler.HandleWorkersList(ctx, chatID)
		case BtnAddWorker:
			b.adminHandler.HandleAddWorkerStart(chatID)
		case BtnRenameWorker:
			b.adminHandler.HandleRenameWorkerStart(ctx, chatID)
		case BtnDeleteWorker:
			b.adminHandler.HandleDeleteWorkerStart(ctx, chatID)
		case BtnAssign:
			b.adminHandler.HandleAssignStart(ctx, chatID)
		case BtnUnassign:
			b.adminHandler.HandleRemoveAssignStart(ctx, chatID)
		case BtnReminders:
			b.reminderHandler.HandleSettings(ctx, chatID)
		case BtnBackup:
			if err := b.reportHandler.SendBackup(ctx, chatID); err != nil {
				log.WithError(err).Error("Ошибка бэкапа по запросу")
				b.sendMessage(chatID, "❌ Не удалось собрать бэкап")
			}
		default:
			return false
		}
		return true
	}

	return false
}

// handleCallback маршрутизирует нажатия инлайн-кнопок с учётом роли.
func (b *Bot) handleCallback(ctx context.Context, cq *tgbotapi.CallbackQuery) {
	middleware.LogCallback(cq)

	if cq.Message == nil {
		return
	}
	role := b.classifier.Classify(ctx, cq.From.ID)

	if role == filters.RoleWorker && b.worklogHandler.HandleCallback(ctx, cq) {
		return
	}
	if role.Staff() && b.moneyHandler.HandleCallback(ctx, cq) {
		return
	}
	if role == filters.RoleAdmin {
		if b.adminHandler.HandleCallback(ctx, cq) {
			return
		}
		if b.reminderHandler.HandleCallback(ctx, cq) {
			return
		}
	}

	log.WithFields(log.Fields{"data": cq.Data, "role": role.String()}).
		Debug("Callback без обработчика")
}

// SendMessageToUser отправляет сообщение пользователю (для фоновых задач).
func (b *Bot) SendMessageToUser(chatID int64, text string) {
	b.sendMessage(chatID, text)
}

// reportFailure после восстановленной паники отвечает пользователю общим
// сообщением и шлёт админу короткое описание сбоя.
func (b *Bot) reportFailure(update tgbotapi.Update, r any) {
	var chatID int64
	switch {
	case update.Message != nil:
		chatID = update.Message.Chat.ID
	case update.CallbackQuery != nil && update.CallbackQuery.Message != nil:
		chatID = update.CallbackQuery.Message.Chat.ID
	}

	if chatID != 0 && chatID != b.cfg.AdminID {
		b.sendMessage(chatID, "⚠️ Произошла ошибка. Попробуйте ещё раз.")
	}

	notice := fmt.Sprintf("%v", r)
	if len(notice) > 300 {
		notice = notice[:300] + "..."
	}
	b.sendMessage(b.cfg.AdminID, "🚨 Ошибка в обработчике: "+notice)
}

func (b *Bot) send(msg tgbotapi.Chattable) {
	if _, err := b.api.Send(msg); err != nil {
		log.WithError(err).Error("Ошибка отправки сообщения")
	}
}

func (b *Bot) sendMessage(chatID int64, text string) {
	b.send(tgbotapi.NewMessage(chatID, text))
}
