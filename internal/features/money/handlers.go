// handlers.go — денежные экраны персонала (админ и менеджеры):
// выдача и удаление авансов и штрафов, балансы, рейтинг, итоги месяца.
package money

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/yaMovsar/cabinet-bot/internal/common"
	"github.com/yaMovsar/cabinet-bot/internal/features/workers"
)

// Состояния денежного диалога персонала.
type dialogState int

const (
	stIdle dialogState = iota
	stAdvanceAmount
	stAdvanceComment
	stPenaltyAmount
	stPenaltyReason
)

// dialog — диалог одного сотрудника (в памяти процесса).
type dialog struct {
	state    dialogState
	workerID int64
	amount   decimal.Decimal
}

// Префиксы callback-данных денежных экранов.
const (
	cbAdvWorker    = "madv:"   // выбор работника для аванса
	cbPenWorker    = "mpen:"   // выбор работника для штрафа
	cbDelAdvWorker = "mdaw:"   // выбор работника для удаления аванса
	cbDelAdv       = "mda:"    // аванс на удаление (показывает подтверждение)
	cbDelAdvYes    = "mday:"   // подтверждённое удаление аванса
	cbDelPenWorker = "mdpw:"   // выбор работника для удаления штрафа
	cbDelPen       = "mdp:"    // штраф на удаление (показывает подтверждение)
	cbDelPenYes    = "mdpy:"   // подтверждённое удаление штрафа
	cbCancel       = "mcancel" // отмена подтверждения
)

// cbPrefixes — все денежные префиксы в порядке проверки.
var cbPrefixes = []string{
	cbAdvWorker, cbPenWorker,
	cbDelAdvWorker, cbDelAdvYes, cbDelAdv,
	cbDelPenWorker, cbDelPenYes, cbDelPen,
	cbCancel,
}

// splitCallback определяет, какому денежному экрану принадлежит callback.
func splitCallback(data string) (prefix, arg string, ok bool) {
	for _, p := range cbPrefixes {
		if strings.HasPrefix(data, p) {
			return p, strings.TrimPrefix(data, p), true
		}
	}
	return "", "", false
}

// Handler обрабатывает денежные экраны персонала.
type Handler struct {
	service       *Service
	workerService *workers.Service
	bot           *tgbotapi.BotAPI
	adminID       int64
	loc           *time.Location

	mu      sync.RWMutex
	dialogs map[int64]*dialog
}

// NewHandler создаёт денежный обработчик.
func NewHandler(service *Service, workerService *workers.Service, bot *tgbotapi.BotAPI,
	adminID int64, loc *time.Location) *Handler {
	return &Handler{
		service:       service,
		workerService: workerService,
		bot:           bot,
		adminID:       adminID,
		loc:           loc,
		dialogs:       make(map[int64]*dialog),
	}
}

func (h *Handler) now() time.Time {
	return time.Now().In(h.loc)
}

// businessDate — календарный день момента now в часовом поясе loc.
// Именно он определяет, в какой месяц попадёт аванс или штраф.
func businessDate(now time.Time, loc *time.Location) time.Time {
	return common.DateOnly(now.In(loc))
}

// HandleCancel сбрасывает денежный диалог. Возвращает true, если диалог был.
func (h *Handler) HandleCancel(chatID int64) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.dialogs[chatID]; !ok {
		return false
	}
	delete(h.dialogs, chatID)
	return true
}

// ==================== ВЫДАЧА ====================

// HandleGrantAdvanceStart начинает выдачу аванса: выбор работника.
func (h *Handler) HandleGrantAdvanceStart(ctx context.Context, chatID int64) {
	h.pickWorker(ctx, chatID, cbAdvWorker, "Кому выдать аванс?")
}

// HandleGrantPenaltyStart начинает начисление штрафа: выбор работника.
func (h *Handler) HandleGrantPenaltyStart(ctx context.Context, chatID int64) {
	h.pickWorker(ctx, chatID, cbPenWorker, "Кому начислить штраф?")
}

func (h *Handler) pickWorker(ctx context.Context, chatID int64, prefix, prompt string) {
	ws, err := h.workerService.List(ctx)
	if err != nil {
		log.WithError(err).Error("Ошибка получения работников")
		h.sendMessage(chatID, "❌ Ошибка, попробуйте позже")
		return
	}
	if len(ws) == 0 {
		h.sendMessage(chatID, "Работников пока нет")
		return
	}
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(ws))
	for _, w := range ws {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(w.Name, prefix+strconv.FormatInt(w.TelegramID, 10)),
		))
	}
	msg := tgbotapi.NewMessage(chatID, prompt)
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	h.send(msg)
}

// HandleCallback обрабатывает нажатия денежных инлайн-кнопок.
// Возвращает true, если callback относится к деньгам.
func (h *Handler) HandleCallback(ctx context.Context, cq *tgbotapi.CallbackQuery) bool {
	prefix, arg, ok := splitCallback(cq.Data)
	if !ok {
		return false
	}
	h.answerCallback(cq.ID)
	chatID := cq.Message.Chat.ID

	switch prefix {
	case cbAdvWorker:
		h.startAmountDialog(chatID, arg, stAdvanceAmount, "Сумма аванса (руб):")
	case cbPenWorker:
		h.startAmountDialog(chatID, arg, stPenaltyAmount, "Сумма штрафа (руб):")
	case cbDelAdvWorker:
		h.showAdvancesForDelete(ctx, chatID, arg)
	case cbDelAdv:
		h.confirmDelete(chatID, cbDelAdvYes+arg, "Удалить этот аванс?")
	case cbDelAdvYes:
		h.deleteAdvance(ctx, chatID, cq.From.ID, arg)
	case cbDelPenWorker:
		h.showPenaltiesForDelete(ctx, chatID, arg)
	case cbDelPen:
		h.confirmDelete(chatID, cbDelPenYes+arg, "Удалить этот штраф?")
	case cbDelPenYes:
		h.deletePenalty(ctx, chatID, cq.From.ID, arg)
	case cbCancel:
		h.sendMessage(chatID, "Отменено")
	}
	return true
}

func (h *Handler) confirmDelete(chatID int64, yesData, prompt string) {
	kb := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🗑 Да, удалить", yesData),
			tgbotapi.NewInlineKeyboardButtonData("Отмена", cbCancel),
		),
	)
	msg := tgbotapi.NewMessage(chatID, prompt)
	msg.ReplyMarkup = kb
	h.send(msg)
}

func (h *Handler) startAmountDialog(chatID int64, workerIDRaw string, st dialogState, prompt string) {
	workerID, err := strconv.ParseInt(workerIDRaw, 10, 64)
	if err != nil {
		return
	}
	h.mu.Lock()
	h.dialogs[chatID] = &dialog{state: st, workerID: workerID}
	h.mu.Unlock()
	h.sendMessage(chatID, prompt)
}

// HandleText обрабатывает текстовый ввод денежного диалога
// (суммы и комментарии). Возвращает true, если текст потреблён.
func (h *Handler) HandleText(ctx context.Context, chatID, actorID int64, text string) bool {
	h.mu.RLock()
	d, ok := h.dialogs[chatID]
	h.mu.RUnlock()
	if !ok {
		return false
	}

	switch d.state {
	case stAdvanceAmount, stPenaltyAmount:
		amount, err := ParseAmount(text)
		if err != nil {
			h.sendMessage(chatID, "❌ Введите положительную сумму, например 5000")
			return true
		}
		d.amount = amount
		if d.state == stAdvanceAmount {
			d.state = stAdvanceComment
			h.sendMessage(chatID, "Комментарий (или «-», чтобы пропустить):")
		} else {
			d.state = stPenaltyReason
			h.sendMessage(chatID, "Причина штрафа:")
		}
	case stAdvanceComment:
		comment := strings.TrimSpace(text)
		if comment == "-" {
			comment = ""
		}
		h.finishAdvance(ctx, chatID, actorID, d, comment)
	case stPenaltyReason:
		reason := strings.TrimSpace(text)
		if reason == "" || reason == "-" {
			h.sendMessage(chatID, "❌ Причина штрафа обязательна")
			return true
		}
		h.finishPenalty(ctx, chatID, actorID, d, reason)
	default:
		return false
	}
	return true
}

func (h *Handler) finishAdvance(ctx context.Context, chatID, actorID int64, d *dialog, comment string) {
	h.HandleCancel(chatID)
	if _, err := h.service.GrantAdvance(ctx, d.workerID, d.amount, comment,
		businessDate(time.Now(), h.loc)); err != nil {
		log.WithError(err).Error("Ошибка выдачи аванса")
		h.sendMessage(chatID, "❌ Не удалось записать аванс")
		return
	}
	name := h.workerName(ctx, d.workerID)
	h.sendMessage(chatID, fmt.Sprintf("✅ Аванс %s выдан: %s", name, common.FormatMoney(d.amount)))

	notice := fmt.Sprintf("💵 Вам выдан аванс: %s", common.FormatMoney(d.amount))
	if comment != "" {
		notice += "\nКомментарий: " + comment
	}
	h.notify(d.workerID, notice)
	if actorID != h.adminID {
		h.notify(h.adminID, fmt.Sprintf("💵 Менеджер выдал аванс %s: %s", name, common.FormatMoney(d.amount)))
	}
}

func (h *Handler) finishPenalty(ctx context.Context, chatID, actorID int64, d *dialog, reason string) {
	h.HandleCancel(chatID)
	if _, err := h.service.GrantPenalty(ctx, d.workerID, d.amount, reason,
		businessDate(time.Now(), h.loc)); err != nil {
		log.WithError(err).Error("Ошибка начисления штрафа")
		h.sendMessage(chatID, "❌ Не удалось записать штраф")
		return
	}
	name := h.workerName(ctx, d.workerID)
	h.sendMessage(chatID, fmt.Sprintf("✅ Штраф %s начислен: %s", name, common.FormatMoney(d.amount)))

	h.notify(d.workerID, fmt.Sprintf("⚠️ Вам начислен штраф: %s\nПричина: %s",
		common.FormatMoney(d.amount), reason))
	if actorID != h.adminID {
		h.notify(h.adminID, fmt.Sprintf("⚠️ Менеджер начислил штраф %s: %s (%s)",
			name, common.FormatMoney(d.amount), reason))
	}
}

// ==================== УДАЛЕНИЕ ====================

// HandleDeleteAdvanceStart начинает удаление аванса: выбор работника.
func (h *Handler) HandleDeleteAdvanceStart(ctx context.Context, chatID int64) {
	h.pickWorker(ctx, chatID, cbDelAdvWorker, "У кого удалить аванс?")
}

// HandleDeletePenaltyStart начинает удаление штрафа: выбор работника.
func (h *Handler) HandleDeletePenaltyStart(ctx context.Context, chatID int64) {
	h.pickWorker(ctx, chatID, cbDelPenWorker, "У кого удалить штраф?")
}

func (h *Handler) showAdvancesForDelete(ctx context.Context, chatID int64, workerIDRaw string) {
	workerID, err := strconv.ParseInt(workerIDRaw, 10, 64)
	if err != nil {
		return
	}
	now := h.now()
	advances, err := h.service.AdvancesForMonth(ctx, workerID, now.Year(), now.Month())
	if err != nil {
		log.WithError(err).Error("Ошибка получения авансов")
		h.sendMessage(chatID, "❌ Ошибка, попробуйте позже")
		return
	}
	if len(advances) == 0 {
		h.sendMessage(chatID, "В этом месяце авансов нет")
		return
	}
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(advances))
	for _, a := range advances {
		label := fmt.Sprintf("%s — %s", common.FormatDateShort(a.Date), common.FormatMoney(a.Amount))
		if a.Comment != "" {
			label += " (" + a.Comment + ")"
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, cbDelAdv+strconv.FormatInt(a.ID, 10)),
		))
	}
	msg := tgbotapi.NewMessage(chatID, "Какой аванс удалить?")
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	h.send(msg)
}

func (h *Handler) deleteAdvance(ctx context.Context, chatID, actorID int64, idRaw string) {
	id, err := strconv.ParseInt(idRaw, 10, 64)
	if err != nil {
		return
	}
	a, err := h.service.DeleteAdvance(ctx, id)
	if errors.Is(err, common.ErrAdvanceNotFound) {
		h.sendMessage(chatID, "Аванс уже удалён")
		return
	}
	if err != nil {
		log.WithError(err).Error("Ошибка удаления аванса")
		h.sendMessage(chatID, "❌ Не удалось удалить аванс")
		return
	}
	name := h.workerName(ctx, a.WorkerID)
	h.sendMessage(chatID, fmt.Sprintf("🗑 Аванс %s на %s удалён", name, common.FormatMoney(a.Amount)))
	h.notify(a.WorkerID, fmt.Sprintf("ℹ️ Аванс %s от %s отменён",
		common.FormatMoney(a.Amount), common.FormatDate(a.Date)))
	if actorID != h.adminID {
		h.notify(h.adminID, fmt.Sprintf("🗑 Менеджер удалил аванс %s на %s", name, common.FormatMoney(a.Amount)))
	}
}

func (h *Handler) showPenaltiesForDelete(ctx context.Context, chatID int64, workerIDRaw string) {
	workerID, err := strconv.ParseInt(workerIDRaw, 10, 64)
	if err != nil {
		return
	}
	now := h.now()
	penalties, err := h.service.PenaltiesForMonth(ctx, workerID, now.Year(), now.Month())
	if err != nil {
		log.WithError(err).Error("Ошибка получения штрафов")
		h.sendMessage(chatID, "❌ Ошибка, попробуйте позже")
		return
	}
	if len(penalties) == 0 {
		h.sendMessage(chatID, "В этом месяце штрафов нет")
		return
	}
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(penalties))
	for _, p := range penalties {
		label := fmt.Sprintf("%s — %s (%s)",
			common.FormatDateShort(p.Date), common.FormatMoney(p.Amount), p.Reason)
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, cbDelPen+strconv.FormatInt(p.ID, 10)),
		))
	}
	msg := tgbotapi.NewMessage(chatID, "Какой штраф удалить?")
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	h.send(msg)
}

func (h *Handler) deletePenalty(ctx context.Context, chatID, actorID int64, idRaw string) {
	id, err := strconv.ParseInt(idRaw, 10, 64)
	if err != nil {
		return
	}
	p, err := h.service.DeletePenalty(ctx, id)
	if errors.Is(err, common.ErrPenaltyNotFound) {
		h.sendMessage(chatID, "Штраф уже удалён")
		return
	}
	if err != nil {
		log.WithError(err).Error("Ошибка удаления штрафа")
		h.sendMessage(chatID, "❌ Не удалось удалить штраф")
		return
	}
	name := h.workerName(ctx, p.WorkerID)
	h.sendMessage(chatID, fmt.Sprintf("🗑 Штраф %s на %s удалён", name, common.FormatMoney(p.Amount)))
	h.notify(p.WorkerID, fmt.Sprintf("ℹ️ Штраф %s от %s отменён",
		common.FormatMoney(p.Amount), common.FormatDate(p.Date)))
	if actorID != h.adminID {
		h.notify(h.adminID, fmt.Sprintf("🗑 Менеджер удалил штраф %s на %s", name, common.FormatMoney(p.Amount)))
	}
}

// ==================== ЭКРАНЫ ====================

// HandleBalances показывает балансы всех работников за текущий месяц.
func (h *Handler) HandleBalances(ctx context.Context, chatID int64) {
	now := h.now()
	balances, err := h.service.AllWorkersBalance(ctx, now.Year(), now.Month())
	if err != nil {
		log.WithError(err).Error("Ошибка сводного баланса")
		h.sendMessage(chatID, "❌ Ошибка, попробуйте позже")
		return
	}
	if len(balances) == 0 {
		h.sendMessage(chatID, "Работников пока нет")
		return
	}
	var b strings.Builder
	fmt.Fprintf(&b, "💰 Балансы за %s %d:\n\n", common.MonthsRU[now.Month()], now.Year())
	for _, w := range balances {
		fmt.Fprintf(&b, "%s\n  заработано %s, авансы %s, штрафы %s\n  к выплате: %s",
			w.Name, common.FormatMoney(w.Earned), common.FormatMoney(w.Advances),
			common.FormatMoney(w.Penalties), common.FormatMoney(w.Balance))
		if w.Balance.IsNegative() {
			b.WriteString(" ⚠️ переплата")
		}
		b.WriteString("\n\n")
	}
	h.sendMessage(chatID, strings.TrimRight(b.String(), "\n"))
}

// HandleRating показывает рейтинги работников за текущий месяц.
func (h *Handler) HandleRating(ctx context.Context, chatID int64) {
	now := h.now()
	r, err := h.service.MonthlyRankings(ctx, now.Year(), now.Month())
	if err != nil {
		log.WithError(err).Error("Ошибка построения рейтинга")
		h.sendMessage(chatID, "❌ Ошибка, попробуйте позже")
		return
	}
	if len(r.ByEarned) == 0 {
		h.sendMessage(chatID, "В этом месяце записей пока нет")
		return
	}
	var b strings.Builder
	fmt.Fprintf(&b, "🏆 Рейтинг за %s %d:\n\nПо заработку:\n", common.MonthsRU[now.Month()], now.Year())
	for i, row := range r.ByEarned {
		fmt.Fprintf(&b, "%d. %s — %s\n", i+1, row.Name, common.FormatMoney(row.Earned))
	}
	b.WriteString("\nПо среднему за день:\n")
	for i, row := range r.ByAverage {
		fmt.Fprintf(&b, "%d. %s — %s/день (%d %s)\n", i+1, row.Name,
			common.FormatMoney(row.AvgPerDay), row.WorkDays, common.PluralizeDays(row.WorkDays))
	}
	if len(r.NoRecords) > 0 {
		b.WriteString("\nБез записей: " + strings.Join(r.NoRecords, ", "))
	}
	h.sendMessage(chatID, b.String())
}

// HandleMonthSummary показывает итоги месяца: фонд и суммы к выплате.
func (h *Handler) HandleMonthSummary(ctx context.Context, chatID int64) {
	now := h.now()
	balances, err := h.service.AllWorkersBalance(ctx, now.Year(), now.Month())
	if err != nil {
		log.WithError(err).Error("Ошибка итогов месяца")
		h.sendMessage(chatID, "❌ Ошибка, попробуйте позже")
		return
	}
	totals := BuildFundTotals(balances)

	var b strings.Builder
	fmt.Fprintf(&b, "📊 Итоги: %s %d\n\n", common.MonthsRU[now.Month()], now.Year())
	for _, w := range balances {
		fmt.Fprintf(&b, "%s: %s", w.Name, common.FormatMoney(w.Balance))
		if w.Balance.IsNegative() {
			b.WriteString(" ⚠️ переплата")
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "\nФонд: заработано %s\nАвансы: %s\nШтрафы: %s\nК выплате: %s",
		common.FormatMoney(totals.Earned), common.FormatMoney(totals.Advances),
		common.FormatMoney(totals.Penalties), common.FormatMoney(totals.ToPay))
	h.sendMessage(chatID, b.String())
}

// HandleWorkerBalance показывает работнику его собственный баланс.
func (h *Handler) HandleWorkerBalance(ctx context.Context, chatID, workerID int64) {
	now := h.now()
	s, err := h.service.MonthlyBalance(ctx, workerID, now.Year(), now.Month())
	if err != nil {
		log.WithError(err).Error("Ошибка баланса работника")
		h.sendMessage(chatID, "❌ Ошибка, попробуйте позже")
		return
	}
	var b strings.Builder
	fmt.Fprintf(&b, "💰 %s %d:\n\nЗаработано: %s\nАвансы: %s\nШтрафы: %s\nК выплате: %s",
		common.MonthsRU[now.Month()], now.Year(),
		common.FormatMoney(s.Earned), common.FormatMoney(s.Advances),
		common.FormatMoney(s.Penalties), common.FormatMoney(s.Balance))
	if s.Balance.IsNegative() {
		b.WriteString(" ⚠️ переплата")
	}
	fmt.Fprintf(&b, "\nРабочих дней: %d %s", s.WorkDays, common.PluralizeDays(s.WorkDays))
	h.sendMessage(chatID, b.String())
}

// ParseAmount разбирает денежную сумму: положительное число,
// допускается десятичная дробь с точкой или запятой.
func ParseAmount(text string) (decimal.Decimal, error) {
	text = strings.ReplaceAll(strings.TrimSpace(text), ",", ".")
	amount, err := decimal.NewFromString(text)
	if err != nil || !amount.IsPositive() {
		return decimal.Zero, common.ErrInvalidAmount
	}
	return amount, nil
}

// ==================== ОТПРАВКА ====================

func (h *Handler) workerName(ctx context.Context, workerID int64) string {
	w, err := h.workerService.GetByID(ctx, workerID)
	if err != nil {
		return fmt.Sprintf("ID %d", workerID)
	}
	return w.Name
}

func (h *Handler) notify(chatID int64, text string) {
	if chatID == 0 {
		return
	}
	if _, err := h.bot.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		log.WithError(err).WithField("chat_id", chatID).Warn("Не удалось отправить уведомление")
	}
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
