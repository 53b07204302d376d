// Package common — errors.go определяет пользовательские ошибки,
// которые используются во всех модулях бота.
// Эти ошибки позволяют обработчикам различать типы проблем
// и отправлять пользователю понятные сообщения.
package common

import "errors"

// Ошибки справочников (работники, категории, прайс-лист)
var (
	// ErrWorkerNotFound — работник не найден в базе
	ErrWorkerNotFound = errors.New("работник не найден")
	// ErrCategoryNotFound — категория не найдена
	ErrCategoryNotFound = errors.New("категория не найдена")
	// ErrItemNotFound — вид работы не найден
	ErrItemNotFound = errors.New("вид работы не найден")
)

// Ошибки журнала работ
var (
	// ErrEntryNotFound — запись о работе не найдена (например, удалена параллельно)
	ErrEntryNotFound = errors.New("запись не найдена")
)

// Ошибки денег (авансы, штрафы)
var (
	// ErrAdvanceNotFound — аванс не найден
	ErrAdvanceNotFound = errors.New("аванс не найден")
	// ErrPenaltyNotFound — штраф не найден
	ErrPenaltyNotFound = errors.New("штраф не найден")
	// ErrInvalidAmount — некорректная сумма (ноль или отрицательная)
	ErrInvalidAmount = errors.New("сумма должна быть положительной")
)
