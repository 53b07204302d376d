// handlers.go — административные диалоги: справочники работ,
// реестр работников, назначения на категории.
package admin

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"github.com/yaMovsar/cabinet-bot/internal/common"
	"github.com/yaMovsar/cabinet-bot/internal/features/catalog"
	"github.com/yaMovsar/cabinet-bot/internal/features/money"
	"github.com/yaMovsar/cabinet-bot/internal/features/workers"
)

// Префиксы callback-данных административных диалогов.
const (
	cbItemCat    = "acat:"    // категория нового вида работы
	cbItemUnit   = "aunit:"   // единица нового вида работы
	cbEditPrice  = "aeditp:"  // вид работы для правки цены
	cbEditUnit   = "aeditu:"  // вид работы для правки единицы
	cbEditUnitTo = "aeditun:" // новая единица
	cbDelCat     = "adelc:"   // категория на удаление
	cbDelCatYes  = "adelcy:"  // подтверждение удаления категории
	cbDelItem    = "adeli:"   // вид работы на удаление
	cbDelItemYes = "adeliy:"  // подтверждение удаления вида
	cbDelWorker  = "adelw:"   // работник на удаление
	cbDelWrkYes  = "adelwy:"  // подтверждение удаления работника
	cbRenWorker  = "arenw:"   // работник на переименование
	cbAsgWorker  = "aasgw:"   // работник для назначения категории
	cbAsgCat     = "aasgc:"   // назначаемая категория
	cbRemWorker  = "aremw:"   // работник для снятия категории
	cbRemCat     = "aremc:"   // снимаемая категория
	cbCancel     = "acancel"  // отмена подтверждения
)

// Handler обрабатывает административные диалоги.
type Handler struct {
	catalogService *catalog.Service
	workerService  *workers.Service
	bot            *tgbotapi.BotAPI

	dialogs *dialogStore
}

// NewHandler создаёт административный обработчик.
func NewHandler(catalogService *catalog.Service, workerService *workers.Service,
	bot *tgbotapi.BotAPI) *Handler {
	return &Handler{
		catalogService: catalogService,
		workerService:  workerService,
		bot:            bot,
		dialogs:        newDialogStore(),
	}
}

// HandleCancel сбрасывает административный диалог.
// Возвращает true, если диалог был.
func (h *Handler) HandleCancel(chatID int64) bool {
	return h.dialogs.clear(chatID)
}

// ==================== СПРАВОЧНИКИ ====================

// HandlePriceList показывает активный прайс-лист по категориям.
func (h *Handler) HandlePriceList(ctx context.Context, chatID int64) {
	items, err := h.catalogService.ActiveItems(ctx)
	if err != nil {
		log.WithError(err).Error("Ошибка получения прайс-листа")
		h.sendMessage(chatID, "❌ Ошибка, попробуйте позже")
		return
	}
	if len(items) == 0 {
		h.sendMessage(chatID, "Прайс-лист пока пуст")
		return
	}
	var b strings.Builder
	b.WriteString("📋 Прайс-лист:\n")
	var lastCat string
	for _, it := range items {
		if it.CategoryName != lastCat {
			fmt.Fprintf(&b, "\n%s %s\n", it.CategoryEmoji, it.CategoryName)
			lastCat = it.CategoryName
		}
		fmt.Fprintf(&b, "  %s — %s/%s\n", it.Name, common.FormatMoney(it.Price), it.UnitKind.Label())
	}
	h.sendMessage(chatID, b.String())
}

// HandleAddCategoryStart начинает добавление категории.
func (h *Handler) HandleAddCategoryStart(chatID int64) {
	h.dialogs.set(chatID, &dialog{state: stCatCode})
	h.sendMessage(chatID, "Код новой категории (латиницей, например sofa):")
}

// HandleAddItemStart начинает добавление вида работы: выбор категории.
func (h *Handler) HandleAddItemStart(ctx context.Context, chatID int64) {
	cats, err := h.catalogService.Categories(ctx)
	if err != nil {
		log.WithError(err).Error("Ошибка получения категорий")
		h.sendMessage(chatID, "❌ Ошибка, попробуйте позже")
		return
	}
	if len(cats) == 0 {
		h.sendMessage(chatID, "Сначала добавьте хотя бы одну категорию")
		return
	}
	h.pickCategory(chatID, cats, cbItemCat, "В какую категорию добавить вид работы?")
}

// HandleEditPriceStart начинает правку цены: выбор вида работы.
func (h *Handler) HandleEditPriceStart(ctx context.Context, chatID int64) {
	h.pickItem(ctx, chatID, cbEditPrice, "У какого вида работы поменять цену?")
}

// HandleEditUnitStart начинает правку единицы: выбор вида работы.
func (h *Handler) HandleEditUnitStart(ctx context.Context, chatID int64) {
	h.pickItem(ctx, chatID, cbEditUnit, "У какого вида работы поменять единицу?")
}

// HandleDeleteCategoryStart начинает удаление категории.
func (h *Handler) HandleDeleteCategoryStart(ctx context.Context, chatID int64) {
	cats, err := h.catalogService.Categories(ctx)
	if err != nil {
		log.WithError(err).Error("Ошибка получения категорий")
		h.sendMessage(chatID, "❌ Ошибка, попробуйте позже")
		return
	}
	if len(cats) == 0 {
		h.sendMessage(chatID, "Категорий пока нет")
		return
	}
	h.pickCategory(chatID, cats, cbDelCat, "Какую категорию удалить?")
}

// HandleDeleteItemStart начинает удаление вида работы.
func (h *Handler) HandleDeleteItemStart(ctx context.Context, chatID int64) {
	h.pickItem(ctx, chatID, cbDelItem, "Какой вид работы удалить?")
}

func (h *Handler) pickCategory(chatID int64, cats []*catalog.Category, prefix, prompt string) {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(cats))
	for _, c := range cats {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(c.Emoji+" "+c.Name, prefix+c.Code),
		))
	}
	msg := tgbotapi.NewMessage(chatID, prompt)
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	h.send(msg)
}

func (h *Handler) pickItem(ctx context.Context, chatID int64, prefix, prompt string) {
	items, err := h.catalogService.ActiveItems(ctx)
	if err != nil {
		log.WithError(err).Error("Ошибка получения прайс-листа")
		h.sendMessage(chatID, "❌ Ошибка, попробуйте позже")
		return
	}
	if len(items) == 0 {
		h.sendMessage(chatID, "Прайс-лист пока пуст")
		return
	}
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(items))
	for _, it := range items {
		label := fmt.Sprintf("%s — %s/%s", it.Name, common.FormatMoney(it.Price), it.UnitKind.Label())
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, prefix+it.Code),
		))
	}
	msg := tgbotapi.NewMessage(chatID, prompt)
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	h.send(msg)
}

// ==================== РАБОТНИКИ ====================

// HandleWorkersList показывает реестр работников с их категориями.
func (h *Handler) HandleWorkersList(ctx context.Context, chatID int64) {
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
	var b strings.Builder
	b.WriteString("👷 Работники:\n\n")
	for _, w := range ws {
		fmt.Fprintf(&b, "%s (ID %d)", w.Name, w.TelegramID)
		cats, err := h.workerService.CategoriesOf(ctx, w.TelegramID)
		if err == nil && len(cats) > 0 {
			names := make([]string, 0, len(cats))
			for _, c := range cats {
				names = append(names, c.Emoji+" "+c.Name)
			}
			b.WriteString(" — " + strings.Join(names, ", "))
		}
		b.WriteString("\n")
	}
	h.sendMessage(chatID, b.String())
}

// HandleAddWorkerStart начинает добавление работника.
func (h *Handler) HandleAddWorkerStart(chatID int64) {
	h.dialogs.set(chatID, &dialog{state: stWorkerID})
	h.sendMessage(chatID, "Telegram ID нового работника (число):")
}

// HandleRenameWorkerStart начинает переименование: выбор работника.
func (h *Handler) HandleRenameWorkerStart(ctx context.Context, chatID int64) {
	h.pickWorker(ctx, chatID, cbRenWorker, "Кого переименовать?")
}

// HandleDeleteWorkerStart начинает удаление работника.
func (h *Handler) HandleDeleteWorkerStart(ctx context.Context, chatID int64) {
	h.pickWorker(ctx, chatID, cbDelWorker, "Кого удалить?")
}

// HandleAssignStart начинает назначение категории: выбор работника.
func (h *Handler) HandleAssignStart(ctx context.Context, chatID int64) {
	h.pickWorker(ctx, chatID, cbAsgWorker, "Кому назначить категорию?")
}

// HandleRemoveAssignStart начинает снятие категории: выбор работника.
func (h *Handler) HandleRemoveAssignStart(ctx context.Context, chatID int64) {
	h.pickWorker(ctx, chatID, cbRemWorker, "У кого снять категорию?")
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

// ==================== CALLBACK ====================

// HandleCallback обрабатывает нажатия административных инлайн-кнопок.
// Возвращает true, если callback административный.
func (h *Handler) HandleCallback(ctx context.Context, cq *tgbotapi.CallbackQuery) bool {
	data := cq.Data
	chatID := cq.Message.Chat.ID

	handled := true
	switch {
	case data == cbCancel:
		h.answerCallback(cq.ID)
		h.dialogs.clear(chatID)
		h.sendMessage(chatID, "Отменено")
	case strings.HasPrefix(data, cbItemCat):
		h.answerCallback(cq.ID)
		h.dialogs.set(chatID, &dialog{state: stItemCode, catCode: strings.TrimPrefix(data, cbItemCat)})
		h.sendMessage(chatID, "Код вида работы (латиницей, например sofa_big):")
	case strings.HasPrefix(data, cbItemUnit):
		h.answerCallback(cq.ID)
		h.finishAddItem(ctx, chatID, strings.TrimPrefix(data, cbItemUnit))
	case strings.HasPrefix(data, cbEditPrice):
		h.answerCallback(cq.ID)
		h.dialogs.set(chatID, &dialog{state: stEditPrice, itemCode: strings.TrimPrefix(data, cbEditPrice)})
		h.sendMessage(chatID, "Новая цена (руб):")
	case strings.HasPrefix(data, cbEditUnitTo):
		h.answerCallback(cq.ID)
		h.finishEditUnit(ctx, chatID, strings.TrimPrefix(data, cbEditUnitTo))
	case strings.HasPrefix(data, cbEditUnit):
		h.answerCallback(cq.ID)
		h.dialogs.set(chatID, &dialog{itemCode: strings.TrimPrefix(data, cbEditUnit)})
		h.askUnit(chatID, cbEditUnitTo, "Новая единица измерения:")
	case strings.HasPrefix(data, cbDelCatYes):
		h.answerCallback(cq.ID)
		h.finishDeleteCategory(ctx, chatID, strings.TrimPrefix(data, cbDelCatYes))
	case strings.HasPrefix(data, cbDelCat):
		h.answerCallback(cq.ID)
		code := strings.TrimPrefix(data, cbDelCat)
		text := "Удалить категорию? Назначения снимутся, её виды работ деактивируются."
		if assigned, err := h.workerService.InCategory(ctx, code); err == nil && len(assigned) > 0 {
			text = fmt.Sprintf("На категорию назначено: %d %s.\n%s",
				len(assigned), common.PluralizeWorkers(len(assigned)), text)
		}
		h.confirm(chatID, cbDelCatYes+code, text)
	case strings.HasPrefix(data, cbDelItemYes):
		h.answerCallback(cq.ID)
		h.finishDeleteItem(ctx, chatID, strings.TrimPrefix(data, cbDelItemYes))
	case strings.HasPrefix(data, cbDelItem):
		h.answerCallback(cq.ID)
		code := strings.TrimPrefix(data, cbDelItem)
		h.confirm(chatID, cbDelItemYes+code, "Удалить вид работы?")
	case strings.HasPrefix(data, cbDelWrkYes):
		h.answerCallback(cq.ID)
		h.finishDeleteWorker(ctx, chatID, strings.TrimPrefix(data, cbDelWrkYes))
	case strings.HasPrefix(data, cbDelWorker):
		h.answerCallback(cq.ID)
		id := strings.TrimPrefix(data, cbDelWorker)
		h.confirm(chatID, cbDelWrkYes+id,
			"Удалить работника? Его записи, авансы и штрафы останутся в истории.")
	case strings.HasPrefix(data, cbRenWorker):
		h.answerCallback(cq.ID)
		workerID, err := strconv.ParseInt(strings.TrimPrefix(data, cbRenWorker), 10, 64)
		if err != nil {
			return true
		}
		h.dialogs.set(chatID, &dialog{state: stRenameWorker, workerID: workerID})
		h.sendMessage(chatID, "Новое имя работника:")
	case strings.HasPrefix(data, cbAsgCat):
		h.answerCallback(cq.ID)
		h.finishAssign(ctx, chatID, strings.TrimPrefix(data, cbAsgCat))
	case strings.HasPrefix(data, cbAsgWorker):
		h.answerCallback(cq.ID)
		h.startAssign(ctx, chatID, strings.TrimPrefix(data, cbAsgWorker))
	case strings.HasPrefix(data, cbRemCat):
		h.answerCallback(cq.ID)
		h.finishRemoveAssign(ctx, chatID, strings.TrimPrefix(data, cbRemCat))
	case strings.HasPrefix(data, cbRemWorker):
		h.answerCallback(cq.ID)
		h.startRemoveAssign(ctx, chatID, strings.TrimPrefix(data, cbRemWorker))
	default:
		handled = false
	}
	return handled
}

func (h *Handler) confirm(chatID int64, yesData, prompt string) {
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

func (h *Handler) askUnit(chatID int64, prefix, prompt string) {
	kb := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Штуки (шт)", prefix+string(catalog.UnitPiece)),
			tgbotapi.NewInlineKeyboardButtonData("Площадь (м²)", prefix+string(catalog.UnitArea)),
		),
	)
	msg := tgbotapi.NewMessage(chatID, prompt)
	msg.ReplyMarkup = kb
	h.send(msg)
}

// ==================== ТЕКСТОВЫЙ ВВОД ====================

// HandleText обрабатывает текстовый ввод административного диалога.
// Возвращает true, если текст потреблён.
func (h *Handler) HandleText(ctx context.Context, chatID int64, text string) bool {
	d := h.dialogs.get(chatID)
	if d == nil {
		return false
	}
	text = strings.TrimSpace(text)

	switch d.state {
	case stCatCode:
		if text == "" {
			h.sendMessage(chatID, "❌ Код не может быть пустым")
			return true
		}
		d.catCode = text
		d.state = stCatName
		h.sendMessage(chatID, "Название категории:")
	case stCatName:
		if text == "" {
			h.sendMessage(chatID, "❌ Название не может быть пустым")
			return true
		}
		d.catName = text
		d.state = stCatEmoji
		h.sendMessage(chatID, "Эмодзи категории (или «-», чтобы пропустить):")
	case stCatEmoji:
		h.finishAddCategory(ctx, chatID, d, text)
	case stItemCode:
		if text == "" {
			h.sendMessage(chatID, "❌ Код не может быть пустым")
			return true
		}
		d.itemCode = text
		d.state = stItemName
		h.sendMessage(chatID, "Название вида работы:")
	case stItemName:
		if text == "" {
			h.sendMessage(chatID, "❌ Название не может быть пустым")
			return true
		}
		d.itemName = text
		d.state = stItemPrice
		h.sendMessage(chatID, "Цена за единицу (руб):")
	case stItemPrice:
		price, err := money.ParseAmount(text)
		if err != nil {
			h.sendMessage(chatID, "❌ Введите положительную цену, например 500")
			return true
		}
		d.price = price
		h.askUnit(chatID, cbItemUnit, "Единица измерения:")
	case stEditPrice:
		h.finishEditPrice(ctx, chatID, d, text)
	case stWorkerID:
		id, err := strconv.ParseInt(text, 10, 64)
		if err != nil || id <= 0 {
			h.sendMessage(chatID, "❌ Введите числовой Telegram ID")
			return true
		}
		d.workerID = id
		d.state = stWorkerName
		h.sendMessage(chatID, "Имя работника:")
	case stWorkerName:
		h.finishAddWorker(ctx, chatID, d, text)
	case stRenameWorker:
		h.finishRenameWorker(ctx, chatID, d, text)
	default:
		return false
	}
	return true
}

// ==================== ЗАВЕРШЕНИЯ ДИАЛОГОВ ====================

func (h *Handler) finishAddCategory(ctx context.Context, chatID int64, d *dialog, emoji string) {
	h.dialogs.clear(chatID)
	if err := h.catalogService.AddCategory(ctx, d.catCode, d.catName, emoji); err != nil {
		log.WithError(err).Error("Ошибка добавления категории")
		h.sendMessage(chatID, "❌ Не удалось сохранить категорию")
		return
	}
	h.sendMessage(chatID, fmt.Sprintf("✅ Категория «%s» сохранена", d.catName))
}

func (h *Handler) finishAddItem(ctx context.Context, chatID int64, unitRaw string) {
	d := h.dialogs.get(chatID)
	if d == nil || d.itemCode == "" {
		return
	}
	h.dialogs.clear(chatID)

	unit, err := catalog.ParseUnitKind(unitRaw)
	if err != nil {
		h.sendMessage(chatID, "❌ Неизвестная единица измерения")
		return
	}
	item := &catalog.PriceItem{
		Code:         d.itemCode,
		Name:         d.itemName,
		Price:        d.price,
		CategoryCode: d.catCode,
		UnitKind:     unit,
	}
	if err := h.catalogService.AddItem(ctx, item); err != nil {
		log.WithError(err).Error("Ошибка добавления вида работы")
		h.sendMessage(chatID, "❌ Не удалось сохранить вид работы")
		return
	}
	h.sendMessage(chatID, fmt.Sprintf("✅ «%s» добавлен: %s/%s",
		item.Name, common.FormatMoney(item.Price), unit.Label()))
}

func (h *Handler) finishEditPrice(ctx context.Context, chatID int64, d *dialog, text string) {
	price, err := money.ParseAmount(text)
	if err != nil {
		h.sendMessage(chatID, "❌ Введите положительную цену, например 500")
		return
	}
	h.dialogs.clear(chatID)
	if err := h.catalogService.UpdatePrice(ctx, d.itemCode, price); err != nil {
		if errors.Is(err, common.ErrItemNotFound) {
			h.sendMessage(chatID, "❌ Вид работы не найден")
			return
		}
		log.WithError(err).Error("Ошибка обновления цены")
		h.sendMessage(chatID, "❌ Не удалось обновить цену")
		return
	}
	h.sendMessage(chatID, fmt.Sprintf("✅ Новая цена: %s. Старые записи не пересчитываются.",
		common.FormatMoney(price)))
}

func (h *Handler) finishEditUnit(ctx context.Context, chatID int64, unitRaw string) {
	d := h.dialogs.get(chatID)
	if d == nil || d.itemCode == "" {
		return
	}
	h.dialogs.clear(chatID)

	unit, err := catalog.ParseUnitKind(unitRaw)
	if err != nil {
		h.sendMessage(chatID, "❌ Неизвестная единица измерения")
		return
	}
	if err := h.catalogService.UpdateUnit(ctx, d.itemCode, unit); err != nil {
		log.WithError(err).Error("Ошибка обновления единицы")
		h.sendMessage(chatID, "❌ Не удалось обновить единицу")
		return
	}
	h.sendMessage(chatID, "✅ Единица измерения: "+unit.Label())
}

func (h *Handler) finishDeleteCategory(ctx context.Context, chatID int64, code string) {
	if err := h.catalogService.DeleteCategory(ctx, code); err != nil {
		if errors.Is(err, common.ErrCategoryNotFound) {
			h.sendMessage(chatID, "Категория уже удалена")
			return
		}
		log.WithError(err).Error("Ошибка удаления категории")
		h.sendMessage(chatID, "❌ Не удалось удалить категорию")
		return
	}
	h.sendMessage(chatID, "🗑 Категория удалена")
}

func (h *Handler) finishDeleteItem(ctx context.Context, chatID int64, code string) {
	hard, err := h.catalogService.DeleteItem(ctx, code)
	if err != nil {
		log.WithError(err).Error("Ошибка удаления вида работы")
		h.sendMessage(chatID, "❌ Не удалось удалить вид работы")
		return
	}
	if hard {
		h.sendMessage(chatID, "🗑 Вид работы удалён")
		return
	}
	h.sendMessage(chatID, "🗑 Вид работы скрыт из прайс-листа (по нему есть записи, история сохранена)")
}

func (h *Handler) finishDeleteWorker(ctx context.Context, chatID int64, idRaw string) {
	workerID, err := strconv.ParseInt(idRaw, 10, 64)
	if err != nil {
		return
	}
	if err := h.workerService.Delete(ctx, workerID); err != nil {
		log.WithError(err).Error("Ошибка удаления работника")
		h.sendMessage(chatID, "❌ Не удалось удалить работника")
		return
	}
	h.sendMessage(chatID, "🗑 Работник удалён. История записей сохранена.")
}

func (h *Handler) finishAddWorker(ctx context.Context, chatID int64, d *dialog, name string) {
	h.dialogs.clear(chatID)
	if err := h.workerService.EnsureRegistered(ctx, d.workerID, name); err != nil {
		log.WithError(err).Error("Ошибка добавления работника")
		h.sendMessage(chatID, "❌ Не удалось добавить работника")
		return
	}
	h.sendMessage(chatID, fmt.Sprintf("✅ Работник «%s» добавлен (ID %d). Не забудьте назначить категории.",
		strings.TrimSpace(name), d.workerID))
}

func (h *Handler) finishRenameWorker(ctx context.Context, chatID int64, d *dialog, name string) {
	if strings.TrimSpace(name) == "" {
		h.sendMessage(chatID, "❌ Имя не может быть пустым")
		return
	}
	h.dialogs.clear(chatID)
	if err := h.workerService.Rename(ctx, d.workerID, name); err != nil {
		if errors.Is(err, common.ErrWorkerNotFound) {
			h.sendMessage(chatID, "❌ Работник не найден")
			return
		}
		log.WithError(err).Error("Ошибка переименования работника")
		h.sendMessage(chatID, "❌ Не удалось переименовать")
		return
	}
	h.sendMessage(chatID, "✅ Имя обновлено: "+strings.TrimSpace(name))
}

func (h *Handler) startAssign(ctx context.Context, chatID int64, idRaw string) {
	workerID, err := strconv.ParseInt(idRaw, 10, 64)
	if err != nil {
		return
	}
	cats, err := h.catalogService.Categories(ctx)
	if err != nil {
		log.WithError(err).Error("Ошибка получения категорий")
		h.sendMessage(chatID, "❌ Ошибка, попробуйте позже")
		return
	}
	if len(cats) == 0 {
		h.sendMessage(chatID, "Категорий пока нет")
		return
	}
	h.dialogs.set(chatID, &dialog{workerID: workerID})
	h.pickCategory(chatID, cats, cbAsgCat, "Какую категорию назначить?")
}

func (h *Handler) finishAssign(ctx context.Context, chatID int64, code string) {
	d := h.dialogs.get(chatID)
	if d == nil || d.workerID == 0 {
		return
	}
	h.dialogs.clear(chatID)
	if err := h.workerService.AssignCategory(ctx, d.workerID, code); err != nil {
		log.WithError(err).Error("Ошибка назначения категории")
		h.sendMessage(chatID, "❌ Не удалось назначить категорию")
		return
	}
	h.sendMessage(chatID, "✅ Категория назначена")
}

func (h *Handler) startRemoveAssign(ctx context.Context, chatID int64, idRaw string) {
	workerID, err := strconv.ParseInt(idRaw, 10, 64)
	if err != nil {
		return
	}
	cats, err := h.workerService.CategoriesOf(ctx, workerID)
	if err != nil {
		log.WithError(err).Error("Ошибка получения категорий работника")
		h.sendMessage(chatID, "❌ Ошибка, попробуйте позже")
		return
	}
	if len(cats) == 0 {
		h.sendMessage(chatID, "У работника нет назначенных категорий")
		return
	}
	h.dialogs.set(chatID, &dialog{workerID: workerID})
	h.pickCategory(chatID, cats, cbRemCat, "Какую категорию снять?")
}

func (h *Handler) finishRemoveAssign(ctx context.Context, chatID int64, code string) {
	d := h.dialogs.get(chatID)
	if d == nil || d.workerID == 0 {
		return
	}
	h.dialogs.clear(chatID)
	if err := h.workerService.RemoveCategory(ctx, d.workerID, code); err != nil {
		log.WithError(err).Error("Ошибка снятия категории")
		h.sendMessage(chatID, "❌ Не удалось снять категорию")
		return
	}
	h.sendMessage(chatID, "✅ Категория снята")
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
