// Package worklog ведёт журнал сдельной работы: записи «кто, что, сколько,
// за какую дату» с зафиксированной на момент записи ценой.
// models.go описывает структуры записей и агрегатов.
package worklog

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/yaMovsar/cabinet-bot/internal/features/catalog"
)

// Entry — одна запись журнала работ.
// PricePerUnit и UnitKind копируются из прайс-листа в момент создания:
// последующие изменения расценок не должны переписывать историю.
// Инвариант: Total == Quantity × PricePerUnit, без округлений.
type Entry struct {
	ID           int64            `db:"id"`
	WorkerID     int64            `db:"worker_id"`
	WorkCode     string           `db:"work_code"`
	ItemName     string           `db:"item_name"` // из join с price_list
	Quantity     decimal.Decimal  `db:"quantity"`
	PricePerUnit decimal.Decimal  `db:"price_per_unit"`
	UnitKind     catalog.UnitKind `db:"unit_kind"`
	Total        decimal.Decimal  `db:"total"`
	WorkDate     time.Time        `db:"work_date"`  // бизнес-дата (за какой день)
	CreatedAt    time.Time        `db:"created_at"` // фактический момент записи
}

// ItemTotal — итог по одному виду работы за период.
type ItemTotal struct {
	WorkCode string
	ItemName string
	Quantity decimal.Decimal
	Price    decimal.Decimal
	Total    decimal.Decimal
}

// DayItemTotal — итог по виду работы за конкретный день
// (строка развёртки «месяц по дням»).
type DayItemTotal struct {
	WorkDate time.Time
	ItemName string
	Quantity decimal.Decimal
	Price    decimal.Decimal
	Total    decimal.Decimal
}

// CategoryItemTotal — итог по виду работы с данными категории
// (строка развёртки «месяц по категориям»).
type CategoryItemTotal struct {
	ItemName      string
	CategoryName  string
	CategoryEmoji string
	Quantity      decimal.Decimal
	Price         decimal.Decimal
	Total         decimal.Decimal
}

// WorkerDayTotal — заработок работника за день (для вечернего отчёта админу).
type WorkerDayTotal struct {
	WorkerID int64
	Name     string
	Total    decimal.Decimal
}

// WorkerMonthStat — сводка работника за месяц для Excel-отчёта.
type WorkerMonthStat struct {
	WorkerID int64
	Name     string
	Entries  int
	WorkDays int
	Total    decimal.Decimal
}

// DetailedRow — строка полной детализации месяца (для Excel-отчёта).
type DetailedRow struct {
	WorkerID      int64
	WorkerName    string
	CategoryName  string
	CategoryEmoji string
	WorkDate      time.Time
	ItemName      string
	Quantity      decimal.Decimal
	Price         decimal.Decimal
	Total         decimal.Decimal
}
