// Package workers управляет реестром работников и их назначениями на категории.
// models.go описывает структуру работника.
package workers

import "time"

// Worker — работник. Идентифицируется Telegram ID (неизменяемый),
// имя задаёт администратор и может менять.
type Worker struct {
	TelegramID   int64     `db:"telegram_id"`
	Name         string    `db:"name"`
	RegisteredAt time.Time `db:"registered_at"`
}
