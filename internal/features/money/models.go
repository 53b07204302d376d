// Package money ведёт денежную часть: авансы, штрафы и балансы работников.
// Баланс всегда вычисляется из трёх таблиц и нигде не хранится:
// баланс = заработано − авансы − штрафы.
// models.go описывает структуры.
package money

import (
	"time"

	"github.com/shopspring/decimal"
)

// Advance — выданный аванс.
type Advance struct {
	ID       int64           `db:"id"`
	WorkerID int64           `db:"worker_id"`
	Amount   decimal.Decimal `db:"amount"`
	Comment  string          `db:"comment"`
	Date     time.Time       `db:"advance_date"` // бизнес-дата (определяет месяц)
	GivenAt  time.Time       `db:"given_at"`     // фактический момент записи
}

// Penalty — начисленный штраф.
type Penalty struct {
	ID       int64           `db:"id"`
	WorkerID int64           `db:"worker_id"`
	Amount   decimal.Decimal `db:"amount"`
	Reason   string          `db:"reason"`
	Date     time.Time       `db:"penalty_date"` // бизнес-дата (определяет месяц)
	GivenAt  time.Time       `db:"given_at"`     // фактический момент записи
}

// BalanceSummary — баланс одного работника за месяц.
// Balance может быть отрицательным (переплата) — показывается как есть.
type BalanceSummary struct {
	Earned    decimal.Decimal
	Advances  decimal.Decimal
	Penalties decimal.Decimal
	Balance   decimal.Decimal
	WorkDays  int
}

// WorkerBalance — строка сводного баланса всех работников.
type WorkerBalance struct {
	WorkerID int64
	Name     string
	BalanceSummary
}

// RankingRow — строка рейтинга работников.
type RankingRow struct {
	WorkerID  int64
	Name      string
	Earned    decimal.Decimal
	WorkDays  int
	AvgPerDay decimal.Decimal
}

// Rankings — результат построения рейтингов за месяц.
// NoRecords — работники без единой записи (в рейтинг не входят).
type Rankings struct {
	ByEarned  []RankingRow
	ByAverage []RankingRow
	NoRecords []string
}

// FundTotals — итоги фонда за месяц по всем работникам.
type FundTotals struct {
	Earned    decimal.Decimal
	Advances  decimal.Decimal
	Penalties decimal.Decimal
	ToPay     decimal.Decimal
}
