// repository.go — чтение и запись единственной строки reminder_settings.
package reminders

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository предоставляет доступ к настройкам напоминаний.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository создаёт репозиторий настроек.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// Get возвращает настройки. Если строки ещё нет (первый запуск),
// создаёт её со значениями по умолчанию.
func (r *Repository) Get(ctx context.Context) (*Settings, error) {
	var s Settings
	err := r.db.QueryRow(ctx, `
		SELECT evening_time, evening_enabled, late_time, late_enabled,
		       report_time, report_enabled
		FROM reminder_settings WHERE id = 1
	`).Scan(&s.EveningTime, &s.EveningEnabled, &s.LateTime, &s.LateEnabled,
		&s.ReportTime, &s.ReportEnabled)
	if errors.Is(err, pgx.ErrNoRows) {
		def := DefaultSettings()
		if err := r.Save(ctx, def); err != nil {
			return nil, err
		}
		return def, nil
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения настроек напоминаний: %w", err)
	}
	return &s, nil
}

// Save записывает настройки (создаёт или перезаписывает строку).
func (r *Repository) Save(ctx context.Context, s *Settings) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO reminder_settings
			(id, evening_time, evening_enabled, late_time, late_enabled, report_time, report_enabled)
		VALUES (1, $1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			evening_time = EXCLUDED.evening_time,
			evening_enabled = EXCLUDED.evening_enabled,
			late_time = EXCLUDED.late_time,
			late_enabled = EXCLUDED.late_enabled,
			report_time = EXCLUDED.report_time,
			report_enabled = EXCLUDED.report_enabled
	`, s.EveningTime, s.EveningEnabled, s.LateTime, s.LateEnabled, s.ReportTime, s.ReportEnabled)
	if err != nil {
		return fmt.Errorf("ошибка сохранения настроек напоминаний: %w", err)
	}
	return nil
}
