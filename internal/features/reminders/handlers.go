// handlers.go — экран настроек напоминаний (только админ).
package reminders

import (
	"context"
	"fmt"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"
)

// Префикс callback-данных экрана напоминаний.
const cbPrefix = "rem:"

// ApplyFunc перерегистрирует задачи планировщика после изменения настроек.
type ApplyFunc func(ctx context.Context) error

// Handler обрабатывает экран настроек напоминаний.
type Handler struct {
	service *Service
	bot     *tgbotapi.BotAPI
	apply   ApplyFunc

	mu      sync.RWMutex
	editing map[int64]string // chatID → какое время вводится ("evening"|"late"|"report")
}

// NewHandler создаёт обработчик настроек напоминаний.
func NewHandler(service *Service, bot *tgbotapi.BotAPI, apply ApplyFunc) *Handler {
	return &Handler{
		service: service,
		bot:     bot,
		apply:   apply,
		editing: make(map[int64]string),
	}
}

// HandleCancel сбрасывает ввод времени. Возвращает true, если ввод был активен.
func (h *Handler) HandleCancel(chatID int64) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.editing[chatID]; !ok {
		return false
	}
	delete(h.editing, chatID)
	return true
}

// HandleSettings показывает экран настроек.
func (h *Handler) HandleSettings(ctx context.Context, chatID int64) {
	s, err := h.service.Settings(ctx)
	if err != nil {
		log.WithError(err).Error("Ошибка чтения настроек напоминаний")
		h.sendMessage(chatID, "❌ Ошибка, попробуйте позже")
		return
	}

	text := fmt.Sprintf("⏰ Напоминания:\n\n%s Вечернее — %s\n%s Позднее — %s\n%s Отчёт админу — %s",
		onOff(s.EveningEnabled), s.EveningTime,
		onOff(s.LateEnabled), s.LateTime,
		onOff(s.ReportEnabled), s.ReportTime)

	kb := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Вкл/выкл вечернее", cbPrefix+"toggle:evening"),
			tgbotapi.NewInlineKeyboardButtonData("Время", cbPrefix+"time:evening"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Вкл/выкл позднее", cbPrefix+"toggle:late"),
			tgbotapi.NewInlineKeyboardButtonData("Время", cbPrefix+"time:late"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Вкл/выкл отчёт", cbPrefix+"toggle:report"),
			tgbotapi.NewInlineKeyboardButtonData("Время", cbPrefix+"time:report"),
		),
	)
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = kb
	h.send(msg)
}

// HandleCallback обрабатывает нажатия на экране напоминаний.
// Возвращает true, если callback относится к напоминаниям.
func (h *Handler) HandleCallback(ctx context.Context, cq *tgbotapi.CallbackQuery) bool {
	if !strings.HasPrefix(cq.Data, cbPrefix) {
		return false
	}
	h.answerCallback(cq.ID)
	chatID := cq.Message.Chat.ID
	action := strings.TrimPrefix(cq.Data, cbPrefix)

	switch {
	case strings.HasPrefix(action, "toggle:"):
		h.toggle(ctx, chatID, strings.TrimPrefix(action, "toggle:"))
	case strings.HasPrefix(action, "time:"):
		which := strings.TrimPrefix(action, "time:")
		h.mu.Lock()
		h.editing[chatID] = which
		h.mu.Unlock()
		h.sendMessage(chatID, "Введите время в формате ЧЧ:ММ, например 19:30")
	}
	return true
}

// HandleText принимает ввод времени. Возвращает true, если текст потреблён.
func (h *Handler) HandleText(ctx context.Context, chatID int64, text string) bool {
	h.mu.RLock()
	which, ok := h.editing[chatID]
	h.mu.RUnlock()
	if !ok {
		return false
	}

	hour, minute, err := ParseHHMM(text)
	if err != nil {
		h.sendMessage(chatID, "❌ Не понял время. Формат: ЧЧ:ММ, например 19:30")
		return true
	}
	hhmm := fmt.Sprintf("%02d:%02d", hour, minute)

	s, err := h.service.Settings(ctx)
	if err != nil {
		log.WithError(err).Error("Ошибка чтения настроек напоминаний")
		h.sendMessage(chatID, "❌ Ошибка, попробуйте позже")
		return true
	}
	switch which {
	case "evening":
		s.EveningTime = hhmm
	case "late":
		s.LateTime = hhmm
	case "report":
		s.ReportTime = hhmm
	}
	h.saveAndApply(ctx, chatID, s)
	h.HandleCancel(chatID)
	return true
}

func (h *Handler) toggle(ctx context.Context, chatID int64, which string) {
	s, err := h.service.Settings(ctx)
	if err != nil {
		log.WithError(err).Error("Ошибка чтения настроек напоминаний")
		h.sendMessage(chatID, "❌ Ошибка, попробуйте позже")
		return
	}
	switch which {
	case "evening":
		s.EveningEnabled = !s.EveningEnabled
	case "late":
		s.LateEnabled = !s.LateEnabled
	case "report":
		s.ReportEnabled = !s.ReportEnabled
	default:
		return
	}
	h.saveAndApply(ctx, chatID, s)
}

// saveAndApply сохраняет настройки и перерегистрирует задачи планировщика.
func (h *Handler) saveAndApply(ctx context.Context, chatID int64, s *Settings) {
	if err := h.service.Save(ctx, s); err != nil {
		log.WithError(err).Error("Ошибка сохранения настроек напоминаний")
		h.sendMessage(chatID, "❌ Не удалось сохранить настройки")
		return
	}
	if err := h.apply(ctx); err != nil {
		log.WithError(err).Error("Ошибка перерегистрации задач")
		h.sendMessage(chatID, "⚠️ Настройки сохранены, но расписание не обновилось")
		return
	}
	h.HandleSettings(ctx, chatID)
}

func onOff(enabled bool) string {
	if enabled {
		return "✅"
	}
	return "☑️"
}

func (h *Handler) answerCallback(id string) {
	if _, err := h.bot.Request(tgbotapi.NewCallback(id, "")); err != nil {
		log.WithError(err).Debug("Ошибка ответа на callback")
	}
}

func (h *Handler) send(msg tgbotapi.Chattable) {
	if _, err := h.bot.Send(msg); err != nil {
		log.WithError(err).Error("Ошибка отправки сообщения")
	}
}

func (h *Handler) sendMessage(chatID int64, text string) {
	h.send(tgbotapi.NewMessage(chatID, text))
}
