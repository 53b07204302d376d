package common

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestParseUserDate(t *testing.T) {
	d, err := ParseUserDate("15.01.2025")
	if err != nil {
		t.Fatalf("ожидалась корректная дата, получили ошибку: %v", err)
	}
	if d.Year() != 2025 || d.Month() != time.January || d.Day() != 15 {
		t.Errorf("разобрано неверно: %v", d)
	}

	valid := []string{"01.12.2024", " 9.5.2025 ", "31.01.2025"}
	for _, s := range valid {
		if _, err := ParseUserDate(s); err != nil {
			t.Errorf("ParseUserDate(%q): неожиданная ошибка %v", s, err)
		}
	}

	invalid := []string{
		"", "сегодня", "15-01-2025", "15.01", "15.13.2025",
		"32.01.2025", "31.02.2025", // несуществующий день
		"29.02.2025", // 2025 — не високосный
		"15.01.1999", // до 2000 года
	}
	for _, s := range invalid {
		if _, err := ParseUserDate(s); err == nil {
			t.Errorf("ParseUserDate(%q): ожидалась ошибка", s)
		}
	}

	// Високосный год — 29 февраля существует
	if _, err := ParseUserDate("29.02.2024"); err != nil {
		t.Errorf("29.02.2024 должна быть корректной: %v", err)
	}
}

func TestMonthBounds(t *testing.T) {
	start, end := MonthBounds(2025, time.January)
	if !start.Equal(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("начало месяца: %v", start)
	}
	if !end.Equal(time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("конец месяца: %v", end)
	}

	// Переход через год
	start, end = MonthBounds(2024, time.December)
	if !end.Equal(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("декабрь должен заканчиваться январём следующего года: %v", end)
	}
	if start.Month() != time.December {
		t.Errorf("начало декабря: %v", start)
	}

	// Февраль високосного года содержит 29-е
	start, end = MonthBounds(2024, time.February)
	if end.Sub(start) != 29*24*time.Hour {
		t.Errorf("февраль 2024 должен длиться 29 дней: %v", end.Sub(start))
	}
}

func TestFormatNumber(t *testing.T) {
	cases := map[int64]string{
		0:         "0",
		999:       "999",
		1000:      "1 000",
		2350:      "2 350",
		12500:     "12 500",
		1000000:   "1 000 000",
		-12500:    "-12 500",
		100500042: "100 500 042",
	}
	for n, want := range cases {
		if got := FormatNumber(n); got != want {
			t.Errorf("FormatNumber(%d) = %q, ожидалось %q", n, got, want)
		}
	}
}

func TestFormatMoney(t *testing.T) {
	if got := FormatMoney(decimal.NewFromInt(12500)); got != "12 500 руб" {
		t.Errorf("FormatMoney(12500) = %q", got)
	}
	if got := FormatMoney(decimal.Zero); got != "0 руб" {
		t.Errorf("FormatMoney(0) = %q", got)
	}
}

func TestPluralize(t *testing.T) {
	days := map[int]string{
		1: "день", 2: "дня", 4: "дня", 5: "дней",
		11: "дней", 12: "дней", 14: "дней",
		21: "день", 22: "дня", 25: "дней", 111: "дней",
	}
	for n, want := range days {
		if got := PluralizeDays(n); got != want {
			t.Errorf("PluralizeDays(%d) = %q, ожидалось %q", n, got, want)
		}
	}

	entries := map[int]string{1: "запись", 3: "записи", 7: "записей", 11: "записей", 101: "запись"}
	for n, want := range entries {
		if got := PluralizeEntries(n); got != want {
			t.Errorf("PluralizeEntries(%d) = %q, ожидалось %q", n, got, want)
		}
	}
}

func TestDateOnly(t *testing.T) {
	d := DateOnly(time.Date(2025, 3, 7, 18, 45, 12, 99, time.UTC))
	if d.Hour() != 0 || d.Minute() != 0 || d.Second() != 0 || d.Nanosecond() != 0 {
		t.Errorf("время не обнулено: %v", d)
	}
	if d.Day() != 7 || d.Month() != time.March {
		t.Errorf("дата испорчена: %v", d)
	}
}
