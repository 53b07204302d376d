package reports

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/yaMovsar/cabinet-bot/internal/features/money"
	"github.com/yaMovsar/cabinet-bot/internal/features/worklog"
)

func testReportData() *MonthlyReportData {
	earned := decimal.NewFromInt(50000)
	advances := decimal.NewFromInt(20000)
	penalties := decimal.NewFromInt(3000)
	wb := &money.WorkerBalance{WorkerID: 1, Name: "Аслан"}
	wb.Earned = earned
	wb.Advances = advances
	wb.Penalties = penalties
	wb.Balance = earned.Sub(advances).Sub(penalties)
	wb.WorkDays = 10

	return &MonthlyReportData{
		Year:  2025,
		Month: time.June,
		Summary: []*worklog.WorkerMonthStat{
			{WorkerID: 1, Name: "Аслан", Entries: 42, WorkDays: 10, Total: earned},
		},
		Details: []*worklog.DetailedRow{
			{
				WorkerID: 1, WorkerName: "Аслан",
				CategoryName: "Диваны", CategoryEmoji: "🛋",
				WorkDate: time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
				ItemName: "Большой диван",
				Quantity: decimal.NewFromInt(5),
				Price:    decimal.NewFromInt(500),
				Total:    decimal.NewFromInt(2500),
			},
		},
		Balances: []*money.WorkerBalance{wb},
	}
}

func TestBuildMonthlyWorkbook(t *testing.T) {
	raw, err := BuildMonthlyWorkbook(testReportData())
	if err != nil {
		t.Fatalf("сборка книги: %v", err)
	}
	if len(raw) == 0 {
		t.Fatal("книга пустая")
	}

	f, err := excelize.OpenReader(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("книга не открывается: %v", err)
	}
	defer f.Close()

	for _, sheet := range []string{"Сводка", "Детализация", "Деньги"} {
		if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
			t.Errorf("нет листа %q (idx=%d err=%v)", sheet, idx, err)
		}
	}

	// Сводка: имя работника и итог
	name, err := f.GetCellValue("Сводка", "A3")
	if err != nil || name != "Аслан" {
		t.Errorf("Сводка!A3 = %q err=%v", name, err)
	}

	// Деньги: к выплате 27000
	toPay, err := f.GetCellValue("Деньги", "E2")
	if err != nil || toPay != "27000" {
		t.Errorf("Деньги!E2 = %q err=%v", toPay, err)
	}

	// Детализация: строка записи
	item, err := f.GetCellValue("Детализация", "D2")
	if err != nil || item != "Большой диван" {
		t.Errorf("Детализация!D2 = %q err=%v", item, err)
	}
}

func TestBuildMonthlyWorkbookEmpty(t *testing.T) {
	raw, err := BuildMonthlyWorkbook(&MonthlyReportData{Year: 2025, Month: time.January})
	if err != nil {
		t.Fatalf("пустой месяц должен собираться: %v", err)
	}
	f, err := excelize.OpenReader(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("книга не открывается: %v", err)
	}
	defer f.Close()

	// Итоговая строка идёт сразу после заголовков
	total, err := f.GetCellValue("Сводка", "A3")
	if err != nil || total != "ИТОГО" {
		t.Errorf("Сводка!A3 = %q err=%v", total, err)
	}
}
