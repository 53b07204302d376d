// handlers.go — диалог записи работы и экраны работника.
// Переходы состояний делает fsm.go, здесь только трансляция
// нажатий и текста в переходы плюс отправка сообщений.
package worklog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/yaMovsar/cabinet-bot/internal/common"
	"github.com/yaMovsar/cabinet-bot/internal/features/catalog"
	"github.com/yaMovsar/cabinet-bot/internal/features/workers"
)

// Префиксы callback-данных диалога записи.
const (
	cbDatePrefix = "wdate:"
	cbCatPrefix  = "wcat:"
	cbItemPrefix = "witem:"
	cbConfPrefix = "wconf:"
	cbDelPrefix  = "wdel:"
)

// Handler обрабатывает диалог записи работы и экраны работника.
type Handler struct {
	service        *Service
	workerService  *workers.Service
	catalogService *catalog.Service
	sessions       *SessionStore
	bot            *tgbotapi.BotAPI
	adminID        int64
	managerIDs     []int64
	loc            *time.Location

	// правка количества в последней записи: chatID → entryID
	editMu  sync.Mutex
	editing map[int64]int64
}

// NewHandler создаёт обработчик журнала работ.
func NewHandler(service *Service, workerService *workers.Service, catalogService *catalog.Service,
	sessions *SessionStore, bot *tgbotapi.BotAPI, adminID int64, managerIDs []int64, loc *time.Location) *Handler {
	return &Handler{
		service:        service,
		workerService:  workerService,
		catalogService: catalogService,
		sessions:       sessions,
		bot:            bot,
		adminID:        adminID,
		managerIDs:     managerIDs,
		loc:            loc,
		editing:        make(map[int64]int64),
	}
}

func (h *Handler) today() time.Time {
	return common.DateOnly(time.Now().In(h.loc))
}

// HandleStartEntry начинает диалог записи: создаёт сессию и показывает выбор даты.
func (h *Handler) HandleStartEntry(ctx context.Context, chatID, workerID int64) {
	cats, err := h.workerService.CategoriesOf(ctx, workerID)
	if err != nil {
		log.WithError(err).Error("Ошибка получения категорий работника")
		h.sendMessage(chatID, "❌ Ошибка, попробуйте позже")
		return
	}
	if len(cats) == 0 {
		h.sendMessage(chatID, "⚠️ Вам не назначены категории работ. Обратитесь к администратору.")
		return
	}

	h.sessions.Start(chatID)

	today := h.today()
	kb := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📅 Сегодня ("+common.FormatDateShort(today)+")", cbDatePrefix+"today"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📅 Вчера ("+common.FormatDateShort(today.AddDate(0, 0, -1))+")", cbDatePrefix+"yesterday"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🗓 Другая дата", cbDatePrefix+"custom"),
		),
	)
	msg := tgbotapi.NewMessage(chatID, "За какой день записываем работу?")
	msg.ReplyMarkup = kb
	h.send(msg)
}

// HandleCancel отменяет диалог из любого состояния.
// Возвращает true, если активный диалог был.
func (h *Handler) HandleCancel(chatID int64) bool {
	h.editMu.Lock()
	_, wasEditing := h.editing[chatID]
	delete(h.editing, chatID)
	h.editMu.Unlock()

	if h.sessions.Get(chatID) == nil {
		if wasEditing {
			h.sendMessage(chatID, "Правка отменена")
		}
		return wasEditing
	}
	h.sessions.Clear(chatID)
	h.sendMessage(chatID, "Запись отменена")
	return true
}

// HandleCallback обрабатывает нажатия инлайн-кнопок диалога.
// Возвращает true, если callback относится к журналу работ.
func (h *Handler) HandleCallback(ctx context.Context, cq *tgbotapi.CallbackQuery) bool {
	data := cq.Data
	chatID := cq.Message.Chat.ID
	workerID := cq.From.ID

	switch {
	case strings.HasPrefix(data, cbDatePrefix):
		h.answerCallback(cq.ID)
		h.handleDateChoice(ctx, chatID, workerID, strings.TrimPrefix(data, cbDatePrefix))
	case strings.HasPrefix(data, cbCatPrefix):
		h.answerCallback(cq.ID)
		h.handleCategoryChoice(ctx, chatID, workerID, strings.TrimPrefix(data, cbCatPrefix))
	case strings.HasPrefix(data, cbItemPrefix):
		h.answerCallback(cq.ID)
		h.handleItemChoice(ctx, chatID, strings.TrimPrefix(data, cbItemPrefix))
	case strings.HasPrefix(data, cbConfPrefix):
		h.answerCallback(cq.ID)
		h.handleConfirmChoice(ctx, chatID, workerID, strings.TrimPrefix(data, cbConfPrefix))
	case strings.HasPrefix(data, cbDelPrefix):
		h.answerCallback(cq.ID)
		h.handleDeleteLastChoice(ctx, chatID, workerID, strings.TrimPrefix(data, cbDelPrefix))
	default:
		return false
	}
	return true
}

// HandleText обрабатывает текстовый ввод внутри диалога
// (произвольная дата и количество). Возвращает true, если текст потреблён.
func (h *Handler) HandleText(ctx context.Context, chatID, workerID int64, text string) bool {
	s := h.sessions.Get(chatID)
	if s == nil {
		h.editMu.Lock()
		entryID, editing := h.editing[chatID]
		h.editMu.Unlock()
		if editing {
			h.handleEditQuantityInput(ctx, chatID, entryID, text)
			return true
		}
		// Вне диалога дата сообщением — просмотр записей за этот день
		if d, err := common.ParseUserDate(text); err == nil {
			h.showDayEntries(ctx, chatID, workerID, d)
			return true
		}
		return false
	}
	switch s.State {
	case StateEnteringCustomDate:
		h.handleCustomDateInput(ctx, chatID, workerID, text)
	case StateEnteringQuantity:
		h.handleQuantityInput(ctx, chatID, workerID, text)
	default:
		return false
	}
	return true
}

func (h *Handler) handleDateChoice(ctx context.Context, chatID, workerID int64, choice string) {
	s := h.sessions.Get(chatID)
	if s == nil {
		return
	}
	today := h.today()

	var d time.Time
	switch choice {
	case "today":
		d = today
	case "yesterday":
		d = today.AddDate(0, 0, -1)
	case "custom":
		if err := s.RequestCustomDate(); err != nil {
			return
		}
		h.sendMessage(chatID, "Введите дату в формате ДД.ММ.ГГГГ, например 15.01.2025")
		return
	default:
		return
	}
	h.applyDate(ctx, chatID, workerID, d)
}

func (h *Handler) handleCustomDateInput(ctx context.Context, chatID, workerID int64, text string) {
	d, err := common.ParseUserDate(text)
	if err != nil {
		h.sendMessage(chatID, "❌ Не понял дату. Формат: ДД.ММ.ГГГГ, например 15.01.2025")
		return
	}
	h.applyDate(ctx, chatID, workerID, d)
}

// applyDate проводит переход по дате; при ошибке даты вопрос повторяется.
func (h *Handler) applyDate(ctx context.Context, chatID, workerID int64, d time.Time) {
	s := h.sessions.Get(chatID)
	if s == nil {
		return
	}
	cats, err := h.workerService.CategoriesOf(ctx, workerID)
	if err != nil {
		log.WithError(err).Error("Ошибка получения категорий работника")
		h.sendMessage(chatID, "❌ Ошибка, попробуйте позже")
		return
	}

	err = s.ChooseDate(d, h.today(), cats)
	switch {
	case errors.Is(err, ErrDateInFuture):
		h.sendMessage(chatID, "❌ Нельзя записать работу на будущую дату. Выберите другую.")
		return
	case errors.Is(err, ErrDateTooOld):
		h.sendMessage(chatID, "❌ Дата старше 90 дней. Выберите другую.")
		return
	case errors.Is(err, ErrNoCategories):
		h.sessions.Clear(chatID)
		h.sendMessage(chatID, "⚠️ Вам не назначены категории работ. Обратитесь к администратору.")
		return
	case err != nil:
		return
	}

	if s.State == StateChoosingWork {
		// Единственная категория подставлена автоматически
		h.showItems(ctx, chatID, workerID, s.CategoryCode)
		return
	}
	h.showCategories(chatID, cats)
}

func (h *Handler) showCategories(chatID int64, cats []*catalog.Category) {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(cats))
	for _, c := range cats {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(c.Emoji+" "+c.Name, cbCatPrefix+c.Code),
		))
	}
	msg := tgbotapi.NewMessage(chatID, "Выберите категорию:")
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	h.send(msg)
}

func (h *Handler) handleCategoryChoice(ctx context.Context, chatID, workerID int64, code string) {
	s := h.sessions.Get(chatID)
	if s == nil {
		return
	}
	if err := s.ChooseCategory(code); err != nil {
		return
	}
	h.showItems(ctx, chatID, workerID, code)
}

func (h *Handler) showItems(ctx context.Context, chatID, workerID int64, categoryCode string) {
	items, err := h.catalogService.ActiveItemsInCategory(ctx, categoryCode)
	if err != nil {
		log.WithError(err).Error("Ошибка получения прайс-листа")
		h.sendMessage(chatID, "❌ Ошибка, попробуйте позже")
		return
	}
	if len(items) == 0 {
		h.sessions.Clear(chatID)
		h.sendMessage(chatID, "⚠️ В этой категории пока нет видов работ")
		return
	}
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(items))
	for _, it := range items {
		label := fmt.Sprintf("%s — %s/%s", it.Name, common.FormatMoney(it.Price), it.UnitKind.Label())
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, cbItemPrefix+it.Code),
		))
	}
	msg := tgbotapi.NewMessage(chatID, "Выберите вид работы:")
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	h.send(msg)
}

func (h *Handler) handleItemChoice(ctx context.Context, chatID int64, code string) {
	s := h.sessions.Get(chatID)
	if s == nil {
		return
	}
	item, err := h.catalogService.GetItem(ctx, code)
	if err != nil {
		log.WithError(err).Error("Ошибка получения вида работы")
		h.sendMessage(chatID, "❌ Ошибка, попробуйте позже")
		return
	}
	if err := s.ChooseWork(item); err != nil {
		return
	}
	h.sendMessage(chatID, h.quantityPrompt(item))
}

func (h *Handler) quantityPrompt(item *catalog.PriceItem) string {
	if item.UnitKind.IntegerQuantity() {
		return fmt.Sprintf("Сколько %s (%s, %s/%s)? Введите целое число:",
			item.Name, item.UnitKind.Label(), common.FormatMoney(item.Price), item.UnitKind.Label())
	}
	return fmt.Sprintf("Сколько %s (%s, %s/%s)? Можно дробное, например 12.5:",
		item.Name, item.UnitKind.Label(), common.FormatMoney(item.Price), item.UnitKind.Label())
}

func quantityHint(unit catalog.UnitKind) string {
	if unit.IntegerQuantity() {
		return "❌ Введите целое положительное число"
	}
	return "❌ Введите положительное число, например 12.5"
}

func (h *Handler) handleQuantityInput(ctx context.Context, chatID, workerID int64, text string) {
	s := h.sessions.Get(chatID)
	if s == nil {
		return
	}
	needConfirm, err := s.EnterQuantity(text)
	if err != nil {
		h.sendMessage(chatID, quantityHint(s.Item.UnitKind))
		return
	}
	if needConfirm {
		kb := tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("✅ Подтвердить", cbConfPrefix+"confirm"),
			),
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("✏️ Изменить количество", cbConfPrefix+"edit"),
				tgbotapi.NewInlineKeyboardButtonData("❌ Отменить", cbConfPrefix+"cancel"),
			),
		)
		text := fmt.Sprintf("⚠️ Крупная сумма!\n\n%s: %s %s × %s = %s\n\nВсё верно?",
			s.Item.Name, common.FormatQuantity(s.Quantity), s.Item.UnitKind.Label(),
			common.FormatMoney(s.Item.Price), common.FormatMoney(s.Total))
		msg := tgbotapi.NewMessage(chatID, text)
		msg.ReplyMarkup = kb
		h.send(msg)
		return
	}
	h.commit(ctx, chatID, workerID)
}

func (h *Handler) handleConfirmChoice(ctx context.Context, chatID, workerID int64, choice string) {
	s := h.sessions.Get(chatID)
	if s == nil {
		return
	}
	switch choice {
	case "confirm":
		h.commit(ctx, chatID, workerID)
	case "edit":
		if err := s.RequestEdit(); err != nil {
			return
		}
		h.sendMessage(chatID, h.quantityPrompt(s.Item))
	case "cancel":
		h.sessions.Clear(chatID)
		h.sendMessage(chatID, "Запись отменена")
	}
}

// commit сохраняет запись, отвечает работнику и уведомляет админа и менеджеров.
func (h *Handler) commit(ctx context.Context, chatID, workerID int64) {
	s := h.sessions.Get(chatID)
	if s == nil {
		return
	}
	entryTotal, dayTotal, err := h.service.AddEntry(ctx, workerID, s.Item.Code, s.Quantity, s.WorkDate)
	if err != nil {
		log.WithError(err).Error("Ошибка записи работы")
		h.sendMessage(chatID, "❌ Не удалось сохранить запись, попробуйте ещё раз")
		return
	}
	entry := fmt.Sprintf("%s: %s %s × %s = %s",
		s.Item.Name, common.FormatQuantity(s.Quantity), s.Item.UnitKind.Label(),
		common.FormatMoney(s.Item.Price), common.FormatMoney(entryTotal))
	date := common.FormatDate(s.WorkDate)
	h.sessions.Clear(chatID)

	h.sendMessage(chatID, fmt.Sprintf("✅ Записано за %s\n\n%s\n\nИтог за день: %s",
		date, entry, common.FormatMoney(dayTotal)))

	worker, err := h.workerService.GetByID(ctx, workerID)
	name := fmt.Sprintf("ID %d", workerID)
	if err == nil {
		name = worker.Name
	}
	notice := fmt.Sprintf("📝 %s записал за %s:\n%s", name, date, entry)
	h.notifyStaff(chatID, notice)
}

// notifyStaff рассылает уведомление админу и менеджерам.
// Ошибки доставки логируются и не влияют на ответ работнику.
func (h *Handler) notifyStaff(excludeChatID int64, text string) {
	targets := append([]int64{h.adminID}, h.managerIDs...)
	seen := make(map[int64]bool, len(targets))
	for _, id := range targets {
		if id == 0 || id == excludeChatID || seen[id] {
			continue
		}
		seen[id] = true
		if _, err := h.bot.Send(tgbotapi.NewMessage(id, text)); err != nil {
			log.WithError(err).WithField("chat_id", id).Warn("Не удалось отправить уведомление")
		}
	}
}

// ==================== ЭКРАНЫ РАБОТНИКА ====================

// HandleMyDay показывает записи работника за сегодня.
// Записи за другой день можно посмотреть, отправив дату ДД.ММ.ГГГГ.
func (h *Handler) HandleMyDay(ctx context.Context, chatID, workerID int64) {
	h.showDayEntries(ctx, chatID, workerID, h.today())
}

func (h *Handler) showDayEntries(ctx context.Context, chatID, workerID int64, day time.Time) {
	entries, err := h.service.EntriesByDate(ctx, workerID, day)
	if err != nil {
		log.WithError(err).Error("Ошибка получения записей за день")
		h.sendMessage(chatID, "❌ Ошибка, попробуйте позже")
		return
	}
	if len(entries) == 0 {
		h.sendMessage(chatID, fmt.Sprintf("За %s записей нет", common.FormatDate(day)))
		return
	}
	var b strings.Builder
	fmt.Fprintf(&b, "📋 Записи за %s:\n\n", common.FormatDate(day))
	total := decimal.Zero
	for i, e := range entries {
		fmt.Fprintf(&b, "%d. %s: %s %s × %s = %s\n", i+1,
			e.ItemName, common.FormatQuantity(e.Quantity), e.UnitKind.Label(),
			common.FormatMoney(e.PricePerUnit), common.FormatMoney(e.Total))
		total = total.Add(e.Total)
	}
	fmt.Fprintf(&b, "\nИтог за день: %s", common.FormatMoney(total))
	h.sendMessage(chatID, b.String())
}

// HandleMyMonth показывает сводку работника за текущий месяц по дням.
func (h *Handler) HandleMyMonth(ctx context.Context, chatID, workerID int64) {
	now := time.Now().In(h.loc)
	days, err := h.service.MonthlyByDay(ctx, workerID, now.Year(), now.Month())
	if err != nil {
		log.WithError(err).Error("Ошибка месячной сводки")
		h.sendMessage(chatID, "❌ Ошибка, попробуйте позже")
		return
	}
	if len(days) == 0 {
		h.sendMessage(chatID, "В этом месяце записей пока нет")
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📅 %s %d:\n", common.MonthsRU[now.Month()], now.Year())
	total := decimal.Zero
	workDays := make(map[string]bool)
	var lastDay string
	for _, d := range days {
		day := common.FormatDateShort(d.WorkDate)
		if day != lastDay {
			fmt.Fprintf(&b, "\n%s\n", day)
			lastDay = day
		}
		fmt.Fprintf(&b, "  %s: %s × %s = %s\n",
			d.ItemName, common.FormatQuantity(d.Quantity),
			common.FormatMoney(d.Price), common.FormatMoney(d.Total))
		total = total.Add(d.Total)
		workDays[day] = true
	}
	// Сводка по видам работ за месяц
	items, err := h.service.MonthlyDetails(ctx, workerID, now.Year(), now.Month())
	if err != nil {
		log.WithError(err).Warn("Ошибка сводки по видам работ")
	} else if len(items) > 0 {
		b.WriteString("\nПо видам работ:\n")
		var lastCat string
		for _, it := range items {
			if it.CategoryName != lastCat {
				fmt.Fprintf(&b, "%s %s\n", it.CategoryEmoji, it.CategoryName)
				lastCat = it.CategoryName
			}
			fmt.Fprintf(&b, "  %s: %s — %s\n",
				it.ItemName, common.FormatQuantity(it.Quantity), common.FormatMoney(it.Total))
		}
	}

	fmt.Fprintf(&b, "\nРабочих дней: %d %s\nЗаработано: %s",
		len(workDays), common.PluralizeDays(len(workDays)), common.FormatMoney(total))
	h.sendMessage(chatID, b.String())
}

// HandleDeleteLast показывает последнюю запись: удалить или изменить количество.
func (h *Handler) HandleDeleteLast(ctx context.Context, chatID, workerID int64) {
	entries, err := h.service.RecentEntries(ctx, workerID, 1)
	if err != nil {
		log.WithError(err).Error("Ошибка поиска последней записи")
		h.sendMessage(chatID, "❌ Ошибка, попробуйте позже")
		return
	}
	if len(entries) == 0 {
		h.sendMessage(chatID, "Записей пока нет — удалять нечего")
		return
	}
	e := entries[0]
	kb := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🗑 Удалить", cbDelPrefix+"confirm"),
			tgbotapi.NewInlineKeyboardButtonData("✏️ Изменить кол-во", cbDelPrefix+"edit"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Оставить", cbDelPrefix+"cancel"),
		),
	)
	text := fmt.Sprintf("Последняя запись:\n\n%s за %s: %s %s = %s",
		e.ItemName, common.FormatDate(e.WorkDate),
		common.FormatQuantity(e.Quantity), e.UnitKind.Label(), common.FormatMoney(e.Total))
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = kb
	h.send(msg)
}

func (h *Handler) handleDeleteLastChoice(ctx context.Context, chatID, workerID int64, choice string) {
	switch choice {
	case "confirm":
		entry, err := h.service.DeleteLastEntry(ctx, workerID)
		if errors.Is(err, common.ErrEntryNotFound) {
			h.sendMessage(chatID, "Записей пока нет — удалять нечего")
			return
		}
		if err != nil {
			log.WithError(err).Error("Ошибка удаления записи")
			h.sendMessage(chatID, "❌ Не удалось удалить запись")
			return
		}
		h.sendMessage(chatID, fmt.Sprintf("🗑 Удалено: %s за %s на %s",
			entry.ItemName, common.FormatDate(entry.WorkDate), common.FormatMoney(entry.Total)))
	case "edit":
		entries, err := h.service.RecentEntries(ctx, workerID, 1)
		if err != nil || len(entries) == 0 {
			h.sendMessage(chatID, "Записей пока нет — менять нечего")
			return
		}
		h.editMu.Lock()
		h.editing[chatID] = entries[0].ID
		h.editMu.Unlock()
		h.sendMessage(chatID, fmt.Sprintf("Введите новое количество (%s):", entries[0].UnitKind.Label()))
	case "cancel":
		h.sendMessage(chatID, "Запись оставлена")
	}
}

// handleEditQuantityInput меняет количество в записи, сумма пересчитывается
// по зафиксированной в записи цене.
func (h *Handler) handleEditQuantityInput(ctx context.Context, chatID int64, entryID int64, text string) {
	entry, err := h.service.GetEntry(ctx, entryID)
	if errors.Is(err, common.ErrEntryNotFound) {
		h.clearEditing(chatID)
		h.sendMessage(chatID, "Запись уже удалена")
		return
	}
	if err != nil {
		log.WithError(err).Error("Ошибка чтения записи")
		h.sendMessage(chatID, "❌ Ошибка, попробуйте позже")
		return
	}

	qty, err := ParseQuantity(text, entry.UnitKind)
	if err != nil {
		h.sendMessage(chatID, quantityHint(entry.UnitKind))
		return
	}

	if err := h.service.UpdateQuantity(ctx, entryID, qty); err != nil {
		log.WithError(err).Error("Ошибка изменения записи")
		h.sendMessage(chatID, "❌ Не удалось изменить запись")
		return
	}
	h.clearEditing(chatID)

	newTotal := qty.Mul(entry.PricePerUnit)
	h.sendMessage(chatID, fmt.Sprintf("✏️ Изменено: %s за %s — %s %s = %s",
		entry.ItemName, common.FormatDate(entry.WorkDate),
		common.FormatQuantity(qty), entry.UnitKind.Label(), common.FormatMoney(newTotal)))
}

func (h *Handler) clearEditing(chatID int64) {
	h.editMu.Lock()
	delete(h.editing, chatID)
	h.editMu.Unlock()
}

// ==================== ОТПРАВКА ====================

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
