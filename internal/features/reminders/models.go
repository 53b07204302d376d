// Package reminders хранит настройки напоминаний и строит их расписание.
// Настройки — одна строка в базе: три времени и три флага.
package reminders

import (
	"fmt"
	"strconv"
	"strings"
)

// Settings — настройки напоминаний (единственная строка таблицы).
// Времена хранятся строками "ЧЧ:ММ" в часовом поясе бота.
type Settings struct {
	EveningTime    string `db:"evening_time"`
	EveningEnabled bool   `db:"evening_enabled"`
	LateTime       string `db:"late_time"`
	LateEnabled    bool   `db:"late_enabled"`
	ReportTime     string `db:"report_time"`
	ReportEnabled  bool   `db:"report_enabled"`
}

// DefaultSettings — значения при первом запуске.
func DefaultSettings() *Settings {
	return &Settings{
		EveningTime:    "18:00",
		EveningEnabled: true,
		LateTime:       "20:00",
		LateEnabled:    true,
		ReportTime:     "21:00",
		ReportEnabled:  true,
	}
}

// ParseHHMM проверяет и нормализует время "ЧЧ:ММ" → (час, минута).
func ParseHHMM(text string) (hour, minute int, err error) {
	parts := strings.Split(strings.TrimSpace(text), ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("ожидается формат ЧЧ:ММ")
	}
	hour, err = strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("некорректный час")
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("некорректная минута")
	}
	return hour, minute, nil
}

// CronSpec превращает "ЧЧ:ММ" в cron-выражение "М Ч * * *".
func CronSpec(hhmm string) (string, error) {
	hour, minute, err := ParseHHMM(hhmm)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d %d * * *", minute, hour), nil
}
