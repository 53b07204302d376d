// Package reports собирает выгрузки: месячный Excel-отчёт и JSON-бэкап базы.
// excel.go строит книгу из готовых агрегатов — без обращений к базе,
// чтобы сборку можно было проверять на подготовленных данных.
package reports

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/yaMovsar/cabinet-bot/internal/common"
	"github.com/yaMovsar/cabinet-bot/internal/features/money"
	"github.com/yaMovsar/cabinet-bot/internal/features/worklog"
)

// MonthlyReportData — данные для месячной книги.
type MonthlyReportData struct {
	Year     int
	Month    time.Month
	Summary  []*worklog.WorkerMonthStat
	Details  []*worklog.DetailedRow
	Balances []*money.WorkerBalance
}

// BuildMonthlyWorkbook собирает Excel-книгу с тремя листами:
// «Сводка», «Детализация», «Деньги».
func BuildMonthlyWorkbook(data *MonthlyReportData) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	title := fmt.Sprintf("%s %d", common.MonthsRU[data.Month], data.Year)

	if err := buildSummarySheet(f, title, data.Summary); err != nil {
		return nil, err
	}
	if err := buildDetailSheet(f, data.Details); err != nil {
		return nil, err
	}
	if err := buildMoneySheet(f, data.Balances); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("ошибка записи книги: %w", err)
	}
	return buf.Bytes(), nil
}

func buildSummarySheet(f *excelize.File, title string, summary []*worklog.WorkerMonthStat) error {
	const sheet = "Сводка"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("ошибка листа сводки: %w", err)
	}
	bold, err := headerStyle(f)
	if err != nil {
		return err
	}

	f.SetCellValue(sheet, "A1", "Отчёт за "+title)
	headers := []string{"Работник", "Записей", "Рабочих дней", "Заработано"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 2)
		f.SetCellValue(sheet, cell, h)
		f.SetCellStyle(sheet, cell, cell, bold)
	}

	row := 3
	grand := decimal.Zero
	for _, s := range summary {
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), s.Name)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), s.Entries)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), s.WorkDays)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), s.Total.InexactFloat64())
		grand = grand.Add(s.Total)
		row++
	}
	f.SetCellValue(sheet, fmt.Sprintf("A%d", row), "ИТОГО")
	f.SetCellValue(sheet, fmt.Sprintf("D%d", row), grand.InexactFloat64())
	f.SetCellStyle(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("D%d", row), bold)

	f.SetColWidth(sheet, "A", "A", 25)
	f.SetColWidth(sheet, "B", "D", 14)
	return nil
}

func buildDetailSheet(f *excelize.File, details []*worklog.DetailedRow) error {
	const sheet = "Детализация"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("ошибка листа детализации: %w", err)
	}
	bold, err := headerStyle(f)
	if err != nil {
		return err
	}

	headers := []string{"Работник", "Дата", "Категория", "Вид работы", "Кол-во", "Цена", "Сумма"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
		f.SetCellStyle(sheet, cell, cell, bold)
	}

	row := 2
	for _, d := range details {
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), d.WorkerName)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), common.FormatDate(d.WorkDate))
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), d.CategoryEmoji+" "+d.CategoryName)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), d.ItemName)
		f.SetCellValue(sheet, fmt.Sprintf("E%d", row), d.Quantity.InexactFloat64())
		f.SetCellValue(sheet, fmt.Sprintf("F%d", row), d.Price.InexactFloat64())
		f.SetCellValue(sheet, fmt.Sprintf("G%d", row), d.Total.InexactFloat64())
		row++
	}

	f.SetColWidth(sheet, "A", "A", 25)
	f.SetColWidth(sheet, "B", "D", 18)
	f.SetColWidth(sheet, "E", "G", 12)
	return nil
}

func buildMoneySheet(f *excelize.File, balances []*money.WorkerBalance) error {
	const sheet = "Деньги"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("ошибка листа денег: %w", err)
	}
	bold, err := headerStyle(f)
	if err != nil {
		return err
	}

	headers := []string{"Работник", "Заработано", "Авансы", "Штрафы", "К выплате"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
		f.SetCellStyle(sheet, cell, cell, bold)
	}

	row := 2
	for _, b := range balances {
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), b.Name)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), b.Earned.InexactFloat64())
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), b.Advances.InexactFloat64())
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), b.Penalties.InexactFloat64())
		f.SetCellValue(sheet, fmt.Sprintf("E%d", row), b.Balance.InexactFloat64())
		row++
	}

	totals := money.BuildFundTotals(balances)
	f.SetCellValue(sheet, fmt.Sprintf("A%d", row), "ИТОГО")
	f.SetCellValue(sheet, fmt.Sprintf("B%d", row), totals.Earned.InexactFloat64())
	f.SetCellValue(sheet, fmt.Sprintf("C%d", row), totals.Advances.InexactFloat64())
	f.SetCellValue(sheet, fmt.Sprintf("D%d", row), totals.Penalties.InexactFloat64())
	f.SetCellValue(sheet, fmt.Sprintf("E%d", row), totals.ToPay.InexactFloat64())
	f.SetCellStyle(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("E%d", row), bold)

	f.SetColWidth(sheet, "A", "A", 25)
	f.SetColWidth(sheet, "B", "E", 14)
	return nil
}

func headerStyle(f *excelize.File) (int, error) {
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return 0, fmt.Errorf("ошибка стиля заголовка: %w", err)
	}
	return style, nil
}
