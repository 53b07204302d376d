package reports

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/yaMovsar/cabinet-bot/internal/features/worklog"
)

func detRow(workerID int64, worker, cat, emoji, item string, qty, total int64) *worklog.DetailedRow {
	return &worklog.DetailedRow{
		WorkerID: workerID, WorkerName: worker,
		CategoryName: cat, CategoryEmoji: emoji,
		WorkDate: time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
		ItemName: item,
		Quantity: decimal.NewFromInt(qty),
		Total:    decimal.NewFromInt(total),
	}
}

func TestBuildEarningsText(t *testing.T) {
	rows := []*worklog.DetailedRow{
		detRow(1, "Аслан", "Диваны", "🛋", "Большой диван", 5, 2500),
		detRow(1, "Аслан", "Диваны", "🛋", "Большой диван", 3, 1500),
		detRow(1, "Аслан", "Кресла", "💺", "Кресло", 2, 800),
		detRow(2, "Мурад", "Диваны", "🛋", "Малый диван", 4, 1200),
	}
	text := BuildEarningsText(2025, time.June, rows)

	for _, want := range []string{
		"📊 Заработок за Июнь 2025:",
		"👷 Аслан",
		"🛋 Диваны:",
		// одинаковые виды работ складываются: 5+3 шт, 2500+1500 руб
		"Большой диван: 8 — 4 000 руб",
		"💺 Кресла:",
		"Кресло: 2 — 800 руб",
		"👷 Мурад",
		"Малый диван: 4 — 1 200 руб",
		"💰 Фонд за месяц: 6 000 руб",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("в тексте нет %q:\n%s", want, text)
		}
	}

	// Итоги по каждому работнику
	if !strings.Contains(text, "Итого: 4 800 руб") {
		t.Errorf("нет итога Аслана (4 800 руб):\n%s", text)
	}
	if !strings.Contains(text, "Итого: 1 200 руб") {
		t.Errorf("нет итога Мурада (1 200 руб):\n%s", text)
	}
}

func TestBuildEarningsTextEmpty(t *testing.T) {
	text := BuildEarningsText(2025, time.January, nil)
	if !strings.Contains(text, "Записей пока нет") {
		t.Errorf("пустой месяц: %q", text)
	}
}
