// Package common содержит общие утилиты, используемые во всём проекте.
// Сюда входят: работа с датами и границами месяца, форматирование денег,
// русская плюрализация.
package common

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// MonthsRU — названия месяцев для заголовков отчётов (индекс = номер месяца).
var MonthsRU = []string{"", "Январь", "Февраль", "Март", "Апрель", "Май", "Июнь",
	"Июль", "Август", "Сентябрь", "Октябрь", "Ноябрь", "Декабрь"}

// FormatDate форматирует дату как "02.01.2006".
func FormatDate(t time.Time) string {
	return t.Format("02.01.2006")
}

// FormatDateShort форматирует дату как "02.01".
func FormatDateShort(t time.Time) string {
	return t.Format("02.01")
}

// FormatDateTime форматирует время как "02.01.2006 15:04".
func FormatDateTime(t time.Time) string {
	return t.Format("02.01.2006 15:04")
}

// ParseUserDate разбирает дату в пользовательском формате ДД.ММ.ГГГГ.
// "15.01.2025" → 2025-01-15. Возвращает ошибку при любом другом формате.
func ParseUserDate(text string) (time.Time, error) {
	parts := strings.Split(strings.TrimSpace(text), ".")
	if len(parts) != 3 {
		return time.Time{}, fmt.Errorf("ожидается формат ДД.ММ.ГГГГ")
	}
	day, err := strconv.Atoi(parts[0])
	if err != nil {
		return time.Time{}, fmt.Errorf("ожидается формат ДД.ММ.ГГГГ")
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil {
		return time.Time{}, fmt.Errorf("ожидается формат ДД.ММ.ГГГГ")
	}
	year, err := strconv.Atoi(parts[2])
	if err != nil {
		return time.Time{}, fmt.Errorf("ожидается формат ДД.ММ.ГГГГ")
	}
	if month < 1 || month > 12 || day < 1 || day > 31 || year < 2000 {
		return time.Time{}, fmt.Errorf("некорректная дата")
	}
	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// time.Date нормализует 31.02 в 03.03 — такие даты отклоняем
	if d.Day() != day || int(d.Month()) != month {
		return time.Time{}, fmt.Errorf("некорректная дата")
	}
	return d, nil
}

// MonthBounds возвращает полуоткрытый интервал [начало месяца, начало следующего).
// Такие границы исключают ошибки на стыке месяцев при агрегации по датам.
func MonthBounds(year int, month time.Month) (time.Time, time.Time) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}

// DateOnly обрезает время, оставляя только календарную дату.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// FormatMoney форматирует сумму как "12 500 руб" (рубли без копеек,
// пробелы между тысячами). Копейки в интерфейсе не показываем,
// в базе сумма хранится точно.
func FormatMoney(amount decimal.Decimal) string {
	return FormatNumber(amount.IntPart()) + " руб"
}

// FormatNumber форматирует число с разделителями тысяч (пробелами).
// Пример: FormatNumber(2350) → "2 350"
func FormatNumber(n int64) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}
	if n < 1000 {
		return strconv.FormatInt(n, 10)
	}
	return fmt.Sprintf("%s %03d", FormatNumber(n/1000), n%1000)
}

// FormatQuantity печатает количество без лишних нулей: 25 → "25", 12.50 → "12.5".
func FormatQuantity(q decimal.Decimal) string {
	return q.String()
}

// PluralizeDays возвращает правильную форму слова «день» для числа n.
//
// Правила:
//   - 1, 21, 31 → "день"
//   - 2-4, 22-24 → "дня"
//   - 5-20, 25-30 → "дней"
func PluralizeDays(n int) string {
	return pluralizeRU(n, "день", "дня", "дней")
}

// PluralizeEntries возвращает правильную форму слова «запись».
func PluralizeEntries(n int) string {
	return pluralizeRU(n, "запись", "записи", "записей")
}

// PluralizeWorkers возвращает правильную форму слова «работник».
func PluralizeWorkers(n int) string {
	return pluralizeRU(n, "работник", "работника", "работников")
}

func pluralizeRU(n int, one, few, many string) string {
	if n < 0 {
		n = -n
	}
	lastDigit := n % 10
	lastTwoDigits := n % 100

	if lastDigit == 1 && lastTwoDigits != 11 {
		return one
	}
	if lastDigit >= 2 && lastDigit <= 4 && (lastTwoDigits < 12 || lastTwoDigits > 14) {
		return few
	}
	return many
}
