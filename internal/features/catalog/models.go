// Package catalog управляет справочниками: категориями работ и прайс-листом.
// models.go описывает структуры категорий и видов работ.
package catalog

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// UnitKind — единица измерения вида работы.
// От неё зависит тип количества при записи: штуки вводятся целым числом,
// площадь — десятичным.
type UnitKind string

const (
	// UnitPiece — сдельная работа поштучно
	UnitPiece UnitKind = "piece"
	// UnitArea — работа по площади (м²)
	UnitArea UnitKind = "area"
)

// Label возвращает отображаемую единицу: "шт" или "м²".
func (u UnitKind) Label() string {
	if u == UnitArea {
		return "м²"
	}
	return "шт"
}

// IntegerQuantity сообщает, должно ли количество быть целым.
func (u UnitKind) IntegerQuantity() bool {
	return u != UnitArea
}

// ParseUnitKind разбирает единицу измерения из строки (callback-данные кнопок).
func ParseUnitKind(s string) (UnitKind, error) {
	switch UnitKind(s) {
	case UnitPiece, UnitArea:
		return UnitKind(s), nil
	}
	return "", fmt.Errorf("неизвестная единица измерения: %q", s)
}

// Category — группа видов работ. Работник видит только виды работ
// из назначенных ему категорий.
type Category struct {
	Code  string `db:"code"`
	Name  string `db:"name"`
	Emoji string `db:"emoji"`
}

// PriceItem — вид работы с расценкой.
// Деактивированные позиции (IsActive=false) не предлагаются для новых
// записей, но остаются в базе ради исторических итогов.
type PriceItem struct {
	Code         string          `db:"code"`
	Name         string          `db:"name"`
	Price        decimal.Decimal `db:"price"`
	CategoryCode string          `db:"category_code"`
	UnitKind     UnitKind        `db:"unit_kind"`
	IsActive     bool            `db:"is_active"`

	// Поля категории, заполняются join-запросами
	CategoryName  string `db:"category_name"`
	CategoryEmoji string `db:"category_emoji"`
}
