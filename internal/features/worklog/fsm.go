// fsm.go — конечный автомат диалога записи работы.
// Состояния и переходы описаны явно и не зависят от Telegram:
// хендлеры только транслируют нажатия и текст в вызовы переходов.
package worklog

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/yaMovsar/cabinet-bot/internal/common"
	"github.com/yaMovsar/cabinet-bot/internal/features/catalog"
)

// State — состояние диалога записи работы.
type State int

const (
	StateIdle State = iota
	StateChoosingDate
	StateEnteringCustomDate
	StateChoosingCategory
	StateChoosingWork
	StateEnteringQuantity
	StateConfirmingLarge
)

// String — для логов.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateChoosingDate:
		return "choosing_date"
	case StateEnteringCustomDate:
		return "entering_custom_date"
	case StateChoosingCategory:
		return "choosing_category"
	case StateChoosingWork:
		return "choosing_work"
	case StateEnteringQuantity:
		return "entering_quantity"
	case StateConfirmingLarge:
		return "confirming_large"
	default:
		return "unknown"
	}
}

// Ошибки переходов. Для дат и количества автомат остаётся в текущем
// состоянии — пользователю повторно задаётся тот же вопрос.
var (
	ErrDateInFuture = errors.New("дата в будущем")
	ErrDateTooOld   = errors.New("дата старше 90 дней")
	ErrBadQuantity  = errors.New("некорректное количество")
	ErrWrongState   = errors.New("переход из неподходящего состояния")
	ErrNoCategories = errors.New("работнику не назначены категории")
)

// maxEntryAge — насколько старую дату можно выбрать для записи.
const maxEntryAge = 90 * 24 * time.Hour

// largeTotalThreshold — сумма, строго выше которой требуется подтверждение.
var largeTotalThreshold = decimal.NewFromInt(10000)

// Session — состояние диалога одного работника. Живёт в памяти,
// при перезапуске бота теряется (работник начнёт запись заново).
type Session struct {
	State        State
	WorkDate     time.Time
	CategoryCode string
	Item         *catalog.PriceItem
	Quantity     decimal.Decimal
	Total        decimal.Decimal
}

// Start переводит диалог в выбор даты.
func (s *Session) Start() {
	*s = Session{State: StateChoosingDate}
}

// ValidateWorkDate проверяет дату записи: не в будущем и не старше 90 дней.
// «Сегодня» считается относительно today (дата в часовом поясе бота).
func ValidateWorkDate(d, today time.Time) error {
	d, today = common.DateOnly(d), common.DateOnly(today)
	if d.After(today) {
		return ErrDateInFuture
	}
	if today.Sub(d) > maxEntryAge {
		return ErrDateTooOld
	}
	return nil
}

// ChooseDate фиксирует дату и переходит к выбору категории.
// Если работнику назначена ровно одна категория, выбор пропускается:
// категория подставляется и диалог сразу переходит к выбору работы.
// При невалидной дате состояние не меняется.
func (s *Session) ChooseDate(d, today time.Time, workerCategories []*catalog.Category) error {
	if s.State != StateChoosingDate && s.State != StateEnteringCustomDate {
		return ErrWrongState
	}
	if err := ValidateWorkDate(d, today); err != nil {
		return err
	}
	if len(workerCategories) == 0 {
		return ErrNoCategories
	}
	s.WorkDate = common.DateOnly(d)
	if len(workerCategories) == 1 {
		s.CategoryCode = workerCategories[0].Code
		s.State = StateChoosingWork
		return nil
	}
	s.State = StateChoosingCategory
	return nil
}

// RequestCustomDate переводит к вводу произвольной даты текстом.
func (s *Session) RequestCustomDate() error {
	if s.State != StateChoosingDate {
		return ErrWrongState
	}
	s.State = StateEnteringCustomDate
	return nil
}

// ChooseCategory фиксирует категорию и переходит к выбору работы.
func (s *Session) ChooseCategory(code string) error {
	if s.State != StateChoosingCategory {
		return ErrWrongState
	}
	s.CategoryCode = code
	s.State = StateChoosingWork
	return nil
}

// ChooseWork фиксирует вид работы и переходит к вводу количества.
func (s *Session) ChooseWork(item *catalog.PriceItem) error {
	if s.State != StateChoosingWork {
		return ErrWrongState
	}
	s.Item = item
	s.State = StateEnteringQuantity
	return nil
}

// EnterQuantity разбирает количество, считает сумму по цене выбранной
// работы и решает: коммитить сразу или запросить подтверждение.
// Возвращает needConfirm = true, если сумма строго больше порога.
func (s *Session) EnterQuantity(text string) (needConfirm bool, err error) {
	if s.State != StateEnteringQuantity && s.State != StateConfirmingLarge {
		return false, ErrWrongState
	}
	qty, err := ParseQuantity(text, s.Item.UnitKind)
	if err != nil {
		return false, err
	}
	s.Quantity = qty
	s.Total = qty.Mul(s.Item.Price)
	if s.Total.GreaterThan(largeTotalThreshold) {
		s.State = StateConfirmingLarge
		return true, nil
	}
	return false, nil
}

// RequestEdit возвращает из подтверждения к повторному вводу количества.
func (s *Session) RequestEdit() error {
	if s.State != StateConfirmingLarge {
		return ErrWrongState
	}
	s.State = StateEnteringQuantity
	return nil
}

// ParseQuantity разбирает количество с учётом единицы измерения:
// штучные работы — только целое, площадные — десятичная дробь
// (и точка, и запятая). Ноль и отрицательные отклоняются.
func ParseQuantity(text string, unit catalog.UnitKind) (decimal.Decimal, error) {
	text = strings.TrimSpace(text)
	if unit.IntegerQuantity() {
		n, err := strconv.ParseInt(text, 10, 64)
		if err != nil || n <= 0 {
			return decimal.Zero, ErrBadQuantity
		}
		return decimal.NewFromInt(n), nil
	}
	text = strings.ReplaceAll(text, ",", ".")
	q, err := decimal.NewFromString(text)
	if err != nil || !q.IsPositive() {
		return decimal.Zero, ErrBadQuantity
	}
	return q, nil
}
