// Package catalog — repository.go выполняет все операции с таблицами
// categories и price_list.
package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/yaMovsar/cabinet-bot/internal/common"
)

// Repository предоставляет методы для работы со справочниками.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository создаёт новый репозиторий справочников.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// ==================== КАТЕГОРИИ ====================

// UpsertCategory создаёт категорию или обновляет имя/эмодзи существующей.
func (r *Repository) UpsertCategory(ctx context.Context, code, name, emoji string) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO categories (code, name, emoji)
		VALUES ($1, $2, $3)
		ON CONFLICT (code) DO UPDATE SET name = EXCLUDED.name, emoji = EXCLUDED.emoji
	`, code, name, emoji)
	if err != nil {
		return fmt.Errorf("ошибка сохранения категории: %w", err)
	}
	return nil
}

// Categories возвращает все категории, отсортированные по имени.
func (r *Repository) Categories(ctx context.Context) ([]*Category, error) {
	rows, err := r.db.Query(ctx, `SELECT code, name, emoji FROM categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения категорий: %w", err)
	}
	defer rows.Close()

	var cats []*Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.Code, &c.Name, &c.Emoji); err != nil {
			return nil, fmt.Errorf("ошибка сканирования категории: %w", err)
		}
		cats = append(cats, &c)
	}
	return cats, rows.Err()
}

// GetCategory возвращает категорию по коду.
func (r *Repository) GetCategory(ctx context.Context, code string) (*Category, error) {
	var c Category
	err := r.db.QueryRow(ctx,
		`SELECT code, name, emoji FROM categories WHERE code = $1`, code,
	).Scan(&c.Code, &c.Name, &c.Emoji)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.ErrCategoryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка получения категории: %w", err)
	}
	return &c, nil
}

// DeleteCategory удаляет категорию: снимает назначения работников,
// деактивирует её виды работ (история должна жить) и удаляет саму категорию.
func (r *Repository) DeleteCategory(ctx context.Context, code string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`DELETE FROM worker_categories WHERE category_code = $1`, code); err != nil {
		return fmt.Errorf("ошибка снятия назначений: %w", err)
	}
	if _, err := tx.Exec(ctx,
		`UPDATE price_list SET is_active = FALSE WHERE category_code = $1`, code); err != nil {
		return fmt.Errorf("ошибка деактивации видов работ: %w", err)
	}
	if _, err := tx.Exec(ctx,
		`DELETE FROM categories WHERE code = $1`, code); err != nil {
		return fmt.Errorf("ошибка удаления категории: %w", err)
	}

	return tx.Commit(ctx)
}

// ==================== ПРАЙС-ЛИСТ ====================

// UpsertItem создаёт вид работы или обновляет существующий (и реактивирует его).
func (r *Repository) UpsertItem(ctx context.Context, item *PriceItem) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO price_list (code, name, price, category_code, unit_kind, is_active)
		VALUES ($1, $2, $3, $4, $5, TRUE)
		ON CONFLICT (code) DO UPDATE
		SET name = EXCLUDED.name, price = EXCLUDED.price,
		    category_code = EXCLUDED.category_code,
		    unit_kind = EXCLUDED.unit_kind, is_active = TRUE
	`, item.Code, item.Name, item.Price, item.CategoryCode, item.UnitKind)
	if err != nil {
		return fmt.Errorf("ошибка сохранения вида работы: %w", err)
	}
	return nil
}

// GetItem возвращает вид работы по коду (включая деактивированные —
// они нужны для исторических записей).
func (r *Repository) GetItem(ctx context.Context, code string) (*PriceItem, error) {
	var it PriceItem
	err := r.db.QueryRow(ctx, `
		SELECT pl.code, pl.name, pl.price, pl.category_code, pl.unit_kind, pl.is_active,
		       c.name, c.emoji
		FROM price_list pl
		JOIN categories c ON pl.category_code = c.code
		WHERE pl.code = $1
	`, code).Scan(&it.Code, &it.Name, &it.Price, &it.CategoryCode, &it.UnitKind,
		&it.IsActive, &it.CategoryName, &it.CategoryEmoji)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.ErrItemNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка получения вида работы: %w", err)
	}
	return &it, nil
}

// ActiveItems возвращает активный прайс-лист, сгруппированный по категориям.
func (r *Repository) ActiveItems(ctx context.Context) ([]*PriceItem, error) {
	rows, err := r.db.Query(ctx, `
		SELECT pl.code, pl.name, pl.price, pl.category_code, pl.unit_kind, pl.is_active,
		       c.name, c.emoji
		FROM price_list pl
		JOIN categories c ON pl.category_code = c.code
		WHERE pl.is_active = TRUE
		ORDER BY c.name, pl.name
	`)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения прайс-листа: %w", err)
	}
	defer rows.Close()
	return scanItems(rows)
}

// ActiveItemsForWorker возвращает виды работ, доступные работнику
// через назначенные ему категории.
func (r *Repository) ActiveItemsForWorker(ctx context.Context, workerID int64) ([]*PriceItem, error) {
	rows, err := r.db.Query(ctx, `
		SELECT pl.code, pl.name, pl.price, pl.category_code, pl.unit_kind, pl.is_active,
		       c.name, c.emoji
		FROM price_list pl
		JOIN worker_categories wc ON pl.category_code = wc.category_code
		JOIN categories c ON pl.category_code = c.code
		WHERE wc.worker_id = $1 AND pl.is_active = TRUE
		ORDER BY c.name, pl.name
	`, workerID)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения прайс-листа работника: %w", err)
	}
	defer rows.Close()
	return scanItems(rows)
}

// ActiveItemsInCategory возвращает активные виды работ одной категории.
func (r *Repository) ActiveItemsInCategory(ctx context.Context, categoryCode string) ([]*PriceItem, error) {
	rows, err := r.db.Query(ctx, `
		SELECT pl.code, pl.name, pl.price, pl.category_code, pl.unit_kind, pl.is_active,
		       c.name, c.emoji
		FROM price_list pl
		JOIN categories c ON pl.category_code = c.code
		WHERE pl.category_code = $1 AND pl.is_active = TRUE
		ORDER BY pl.name
	`, categoryCode)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения прайс-листа категории: %w", err)
	}
	defer rows.Close()
	return scanItems(rows)
}

// UpdatePrice меняет расценку вида работы. Исторические записи не трогаем:
// у них цена зафиксирована в момент создания.
func (r *Repository) UpdatePrice(ctx context.Context, code string, price decimal.Decimal) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE price_list SET price = $2 WHERE code = $1`, code, price)
	if err != nil {
		return fmt.Errorf("ошибка обновления цены: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return common.ErrItemNotFound
	}
	return nil
}

// UpdateUnit меняет единицу измерения вида работы.
func (r *Repository) UpdateUnit(ctx context.Context, code string, unit UnitKind) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE price_list SET unit_kind = $2 WHERE code = $1`, code, unit)
	if err != nil {
		return fmt.Errorf("ошибка обновления единицы: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return common.ErrItemNotFound
	}
	return nil
}

// DeleteItem удаляет вид работы.
// Если на него ссылается хотя бы одна запись журнала — только деактивирует
// (иначе осиротеют исторические итоги) и возвращает hardDeleted=false.
// Повторные вызовы безопасны и дают тот же класс результата.
func (r *Repository) DeleteItem(ctx context.Context, code string) (hardDeleted bool, err error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	var refs int64
	if err := tx.QueryRow(ctx,
		`SELECT COUNT(*) FROM work_log WHERE work_code = $1`, code,
	).Scan(&refs); err != nil {
		return false, fmt.Errorf("ошибка проверки ссылок: %w", err)
	}

	if refs > 0 {
		if _, err := tx.Exec(ctx,
			`UPDATE price_list SET is_active = FALSE WHERE code = $1`, code); err != nil {
			return false, fmt.Errorf("ошибка деактивации: %w", err)
		}
		return false, tx.Commit(ctx)
	}

	if _, err := tx.Exec(ctx,
		`DELETE FROM price_list WHERE code = $1`, code); err != nil {
		return false, fmt.Errorf("ошибка удаления вида работы: %w", err)
	}
	return true, tx.Commit(ctx)
}

func scanItems(rows pgx.Rows) ([]*PriceItem, error) {
	var items []*PriceItem
	for rows.Next() {
		var it PriceItem
		if err := rows.Scan(&it.Code, &it.Name, &it.Price, &it.CategoryCode,
			&it.UnitKind, &it.IsActive, &it.CategoryName, &it.CategoryEmoji); err != nil {
			return nil, fmt.Errorf("ошибка сканирования вида работы: %w", err)
		}
		items = append(items, &it)
	}
	return items, rows.Err()
}
