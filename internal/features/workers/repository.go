// Package workers — repository.go выполняет все операции с таблицами
// workers и worker_categories.
package workers

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yaMovsar/cabinet-bot/internal/common"
	"github.com/yaMovsar/cabinet-bot/internal/features/catalog"
)

// Repository предоставляет методы для работы с работниками.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository создаёт новый репозиторий работников.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// Upsert создаёт работника или обновляет имя существующего.
func (r *Repository) Upsert(ctx context.Context, telegramID int64, name string) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO workers (telegram_id, name)
		VALUES ($1, $2)
		ON CONFLICT (telegram_id) DO UPDATE SET name = EXCLUDED.name
	`, telegramID, name)
	if err != nil {
		return fmt.Errorf("ошибка сохранения работника: %w", err)
	}
	return nil
}

// Exists проверяет, зарегистрирован ли работник.
func (r *Repository) Exists(ctx context.Context, telegramID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM workers WHERE telegram_id = $1)`, telegramID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("ошибка проверки работника: %w", err)
	}
	return exists, nil
}

// GetByID возвращает работника по Telegram ID.
func (r *Repository) GetByID(ctx context.Context, telegramID int64) (*Worker, error) {
	var w Worker
	err := r.db.QueryRow(ctx,
		`SELECT telegram_id, name, registered_at FROM workers WHERE telegram_id = $1`,
		telegramID,
	).Scan(&w.TelegramID, &w.Name, &w.RegisteredAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.ErrWorkerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка получения работника: %w", err)
	}
	return &w, nil
}

// List возвращает всех работников, отсортированных по имени.
func (r *Repository) List(ctx context.Context) ([]*Worker, error) {
	rows, err := r.db.Query(ctx,
		`SELECT telegram_id, name, registered_at FROM workers ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения работников: %w", err)
	}
	defer rows.Close()

	var ws []*Worker
	for rows.Next() {
		var w Worker
		if err := rows.Scan(&w.TelegramID, &w.Name, &w.RegisteredAt); err != nil {
			return nil, fmt.Errorf("ошибка сканирования работника: %w", err)
		}
		ws = append(ws, &w)
	}
	return ws, rows.Err()
}

// Rename меняет отображаемое имя работника.
func (r *Repository) Rename(ctx context.Context, telegramID int64, newName string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE workers SET name = $2 WHERE telegram_id = $1`, telegramID, newName)
	if err != nil {
		return fmt.Errorf("ошибка переименования: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return common.ErrWorkerNotFound
	}
	return nil
}

// Delete удаляет работника вместе с назначениями на категории.
// Журнал работ, авансы и штрафы остаются — исторические итоги неприкосновенны.
func (r *Repository) Delete(ctx context.Context, telegramID int64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`DELETE FROM worker_categories WHERE worker_id = $1`, telegramID); err != nil {
		return fmt.Errorf("ошибка снятия назначений: %w", err)
	}
	if _, err := tx.Exec(ctx,
		`DELETE FROM workers WHERE telegram_id = $1`, telegramID); err != nil {
		return fmt.Errorf("ошибка удаления работника: %w", err)
	}
	return tx.Commit(ctx)
}

// ==================== НАЗНАЧЕНИЯ НА КАТЕГОРИИ ====================

// AssignCategory назначает работнику категорию (повторное назначение — no-op).
func (r *Repository) AssignCategory(ctx context.Context, workerID int64, categoryCode string) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO worker_categories (worker_id, category_code)
		VALUES ($1, $2)
		ON CONFLICT (worker_id, category_code) DO NOTHING
	`, workerID, categoryCode)
	if err != nil {
		return fmt.Errorf("ошибка назначения категории: %w", err)
	}
	return nil
}

// RemoveCategory снимает назначение категории.
func (r *Repository) RemoveCategory(ctx context.Context, workerID int64, categoryCode string) error {
	_, err := r.db.Exec(ctx,
		`DELETE FROM worker_categories WHERE worker_id = $1 AND category_code = $2`,
		workerID, categoryCode)
	if err != nil {
		return fmt.Errorf("ошибка снятия категории: %w", err)
	}
	return nil
}

// CategoriesOf возвращает категории, назначенные работнику.
func (r *Repository) CategoriesOf(ctx context.Context, workerID int64) ([]*catalog.Category, error) {
	rows, err := r.db.Query(ctx, `
		SELECT c.code, c.name, c.emoji
		FROM worker_categories wc
		JOIN categories c ON wc.category_code = c.code
		WHERE wc.worker_id = $1
		ORDER BY c.name
	`, workerID)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения категорий работника: %w", err)
	}
	defer rows.Close()

	var cats []*catalog.Category
	for rows.Next() {
		var c catalog.Category
		if err := rows.Scan(&c.Code, &c.Name, &c.Emoji); err != nil {
			return nil, fmt.Errorf("ошибка сканирования категории: %w", err)
		}
		cats = append(cats, &c)
	}
	return cats, rows.Err()
}

// InCategory возвращает работников, назначенных на категорию.
func (r *Repository) InCategory(ctx context.Context, categoryCode string) ([]*Worker, error) {
	rows, err := r.db.Query(ctx, `
		SELECT w.telegram_id, w.name, w.registered_at
		FROM worker_categories wc
		JOIN workers w ON wc.worker_id = w.telegram_id
		WHERE wc.category_code = $1
		ORDER BY w.name
	`, categoryCode)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения работников категории: %w", err)
	}
	defer rows.Close()

	var ws []*Worker
	for rows.Next() {
		var w Worker
		if err := rows.Scan(&w.TelegramID, &w.Name, &w.RegisteredAt); err != nil {
			return nil, fmt.Errorf("ошибка сканирования работника: %w", err)
		}
		ws = append(ws, &w)
	}
	return ws, rows.Err()
}
