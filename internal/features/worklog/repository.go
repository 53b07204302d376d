// Package worklog — repository.go выполняет все операции с таблицей work_log.
// Вставка записи фиксирует текущую цену и единицу измерения из прайс-листа
// (снимок), поэтому изменение расценок не влияет на уже записанное.
package worklog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/yaMovsar/cabinet-bot/internal/common"
	"github.com/yaMovsar/cabinet-bot/internal/features/workers"
)

// Repository предоставляет методы для работы с журналом работ.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository создаёт новый репозиторий журнала.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// AddEntry записывает работу: берёт текущую цену и единицу из прайс-листа,
// фиксирует их на записи и возвращает вычисленную сумму.
// Вся операция — одна транзакция: снимок цены и вставка неразделимы.
func (r *Repository) AddEntry(ctx context.Context, workerID int64, workCode string, quantity decimal.Decimal, workDate time.Time) (decimal.Decimal, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return decimal.Zero, fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	var exists bool
	if err := tx.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM workers WHERE telegram_id = $1)`, workerID,
	).Scan(&exists); err != nil {
		return decimal.Zero, fmt.Errorf("ошибка проверки работника: %w", err)
	}
	if !exists {
		return decimal.Zero, common.ErrWorkerNotFound
	}

	var price decimal.Decimal
	var unitKind string
	err = tx.QueryRow(ctx,
		`SELECT price, unit_kind FROM price_list WHERE code = $1 AND is_active = TRUE`,
		workCode,
	).Scan(&price, &unitKind)
	if errors.Is(err, pgx.ErrNoRows) {
		return decimal.Zero, common.ErrItemNotFound
	}
	if err != nil {
		return decimal.Zero, fmt.Errorf("ошибка чтения прайс-листа: %w", err)
	}

	total := quantity.Mul(price)

	_, err = tx.Exec(ctx, `
		INSERT INTO work_log (worker_id, work_code, quantity, price_per_unit, unit_kind, total, work_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, workerID, workCode, quantity, price, unitKind, total, workDate)
	if err != nil {
		return decimal.Zero, fmt.Errorf("ошибка записи работы: %w", err)
	}

	return total, tx.Commit(ctx)
}

// DailyTotals возвращает итоги работника за день, сгруппированные по виду работы.
func (r *Repository) DailyTotals(ctx context.Context, workerID int64, day time.Time) ([]*ItemTotal, error) {
	rows, err := r.db.Query(ctx, `
		SELECT wl.work_code, pl.name, SUM(wl.quantity), wl.price_per_unit, SUM(wl.total)
		FROM work_log wl
		JOIN price_list pl ON wl.work_code = pl.code
		WHERE wl.worker_id = $1 AND wl.work_date = $2
		GROUP BY wl.work_code, pl.name, wl.price_per_unit
		ORDER BY pl.name
	`, workerID, day)
	if err != nil {
		return nil, fmt.Errorf("ошибка дневных итогов: %w", err)
	}
	defer rows.Close()

	var totals []*ItemTotal
	for rows.Next() {
		var t ItemTotal
		if err := rows.Scan(&t.WorkCode, &t.ItemName, &t.Quantity, &t.Price, &t.Total); err != nil {
			return nil, fmt.Errorf("ошибка сканирования итога: %w", err)
		}
		totals = append(totals, &t)
	}
	return totals, rows.Err()
}

// MonthlyByDay возвращает развёртку месяца работника: день → вид работы → итог.
func (r *Repository) MonthlyByDay(ctx context.Context, workerID int64, year int, month time.Month) ([]*DayItemTotal, error) {
	start, end := common.MonthBounds(year, month)
	rows, err := r.db.Query(ctx, `
		SELECT wl.work_date, pl.name, SUM(wl.quantity), wl.price_per_unit, SUM(wl.total)
		FROM work_log wl
		JOIN price_list pl ON wl.work_code = pl.code
		WHERE wl.worker_id = $1 AND wl.work_date >= $2 AND wl.work_date < $3
		GROUP BY wl.work_date, pl.name, wl.price_per_unit
		ORDER BY wl.work_date, pl.name
	`, workerID, start, end)
	if err != nil {
		return nil, fmt.Errorf("ошибка месячной развёртки: %w", err)
	}
	defer rows.Close()

	var days []*DayItemTotal
	for rows.Next() {
		var d DayItemTotal
		if err := rows.Scan(&d.WorkDate, &d.ItemName, &d.Quantity, &d.Price, &d.Total); err != nil {
			return nil, fmt.Errorf("ошибка сканирования строки: %w", err)
		}
		days = append(days, &d)
	}
	return days, rows.Err()
}

// MonthlyDetails возвращает итоги месяца работника по категориям и видам работ.
func (r *Repository) MonthlyDetails(ctx context.Context, workerID int64, year int, month time.Month) ([]*CategoryItemTotal, error) {
	start, end := common.MonthBounds(year, month)
	rows, err := r.db.Query(ctx, `
		SELECT pl.name, c.name, c.emoji, SUM(wl.quantity), wl.price_per_unit, SUM(wl.total)
		FROM work_log wl
		JOIN price_list pl ON wl.work_code = pl.code
		JOIN categories c ON pl.category_code = c.code
		WHERE wl.worker_id = $1 AND wl.work_date >= $2 AND wl.work_date < $3
		GROUP BY pl.name, c.name, c.emoji, wl.price_per_unit
		ORDER BY c.name, pl.name
	`, workerID, start, end)
	if err != nil {
		return nil, fmt.Errorf("ошибка месячных итогов: %w", err)
	}
	defer rows.Close()

	var items []*CategoryItemTotal
	for rows.Next() {
		var it CategoryItemTotal
		if err := rows.Scan(&it.ItemName, &it.CategoryName, &it.CategoryEmoji,
			&it.Quantity, &it.Price, &it.Total); err != nil {
			return nil, fmt.Errorf("ошибка сканирования строки: %w", err)
		}
		items = append(items, &it)
	}
	return items, rows.Err()
}

// EntriesByDate возвращает записи работника за конкретную дату.
func (r *Repository) EntriesByDate(ctx context.Context, workerID int64, day time.Time) ([]*Entry, error) {
	rows, err := r.db.Query(ctx, `
		SELECT wl.id, wl.worker_id, wl.work_code, pl.name, wl.quantity,
		       wl.price_per_unit, wl.unit_kind, wl.total, wl.work_date, wl.created_at
		FROM work_log wl
		JOIN price_list pl ON wl.work_code = pl.code
		WHERE wl.worker_id = $1 AND wl.work_date = $2
		ORDER BY wl.created_at
	`, workerID, day)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения записей: %w", err)
	}
	defer rows.Close()
	return scanEntries(rows)
}

// RecentEntries возвращает последние записи работника (новые сверху).
func (r *Repository) RecentEntries(ctx context.Context, workerID int64, limit int) ([]*Entry, error) {
	rows, err := r.db.Query(ctx, `
		SELECT wl.id, wl.worker_id, wl.work_code, pl.name, wl.quantity,
		       wl.price_per_unit, wl.unit_kind, wl.total, wl.work_date, wl.created_at
		FROM work_log wl
		JOIN price_list pl ON wl.work_code = pl.code
		WHERE wl.worker_id = $1
		ORDER BY wl.work_date DESC, wl.created_at DESC
		LIMIT $2
	`, workerID, limit)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения записей: %w", err)
	}
	defer rows.Close()
	return scanEntries(rows)
}

// GetEntry возвращает запись по ID.
func (r *Repository) GetEntry(ctx context.Context, entryID int64) (*Entry, error) {
	row := r.db.QueryRow(ctx, `
		SELECT wl.id, wl.worker_id, wl.work_code, pl.name, wl.quantity,
		       wl.price_per_unit, wl.unit_kind, wl.total, wl.work_date, wl.created_at
		FROM work_log wl
		JOIN price_list pl ON wl.work_code = pl.code
		WHERE wl.id = $1
	`, entryID)
	var e Entry
	err := row.Scan(&e.ID, &e.WorkerID, &e.WorkCode, &e.ItemName, &e.Quantity,
		&e.PricePerUnit, &e.UnitKind, &e.Total, &e.WorkDate, &e.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.ErrEntryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка получения записи: %w", err)
	}
	return &e, nil
}

// UpdateQuantity меняет количество в записи и пересчитывает сумму
// от зафиксированной (а не текущей) цены.
func (r *Repository) UpdateQuantity(ctx context.Context, entryID int64, quantity decimal.Decimal) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE work_log
		SET quantity = $2, total = $2 * price_per_unit
		WHERE id = $1
	`, entryID, quantity)
	if err != nil {
		return fmt.Errorf("ошибка изменения количества: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return common.ErrEntryNotFound
	}
	return nil
}

// DeleteEntry удаляет запись и возвращает её (для сообщения пользователю).
func (r *Repository) DeleteEntry(ctx context.Context, entryID int64) (*Entry, error) {
	entry, err := r.GetEntry(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if _, err := r.db.Exec(ctx, `DELETE FROM work_log WHERE id = $1`, entryID); err != nil {
		return nil, fmt.Errorf("ошибка удаления записи: %w", err)
	}
	return entry, nil
}

// DeleteLastEntry удаляет последнюю по времени создания запись работника.
func (r *Repository) DeleteLastEntry(ctx context.Context, workerID int64) (*Entry, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
		SELECT id FROM work_log
		WHERE worker_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`, workerID).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.ErrEntryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка поиска последней записи: %w", err)
	}
	return r.DeleteEntry(ctx, id)
}

// WorkersWithoutEntry возвращает работников без единой записи за дату:
// точная разность множеств «все работники» − «отметившиеся за день».
func (r *Repository) WorkersWithoutEntry(ctx context.Context, day time.Time) ([]*workers.Worker, error) {
	rows, err := r.db.Query(ctx, `
		SELECT w.telegram_id, w.name, w.registered_at
		FROM workers w
		WHERE NOT EXISTS (
			SELECT 1 FROM work_log wl
			WHERE wl.worker_id = w.telegram_id AND wl.work_date = $1
		)
		ORDER BY w.name
	`, day)
	if err != nil {
		return nil, fmt.Errorf("ошибка поиска неотметившихся: %w", err)
	}
	defer rows.Close()

	var ws []*workers.Worker
	for rows.Next() {
		var w workers.Worker
		if err := rows.Scan(&w.TelegramID, &w.Name, &w.RegisteredAt); err != nil {
			return nil, fmt.Errorf("ошибка сканирования работника: %w", err)
		}
		ws = append(ws, &w)
	}
	return ws, rows.Err()
}

// DailySummaryAll возвращает заработок каждого работника за день
// (включая нулевые — для вечернего отчёта админу).
func (r *Repository) DailySummaryAll(ctx context.Context, day time.Time) ([]*WorkerDayTotal, error) {
	rows, err := r.db.Query(ctx, `
		SELECT w.telegram_id, w.name, COALESCE(SUM(wl.total), 0)
		FROM workers w
		LEFT JOIN work_log wl ON w.telegram_id = wl.worker_id AND wl.work_date = $1
		GROUP BY w.telegram_id, w.name
		ORDER BY w.name
	`, day)
	if err != nil {
		return nil, fmt.Errorf("ошибка дневной сводки: %w", err)
	}
	defer rows.Close()

	var totals []*WorkerDayTotal
	for rows.Next() {
		var t WorkerDayTotal
		if err := rows.Scan(&t.WorkerID, &t.Name, &t.Total); err != nil {
			return nil, fmt.Errorf("ошибка сканирования сводки: %w", err)
		}
		totals = append(totals, &t)
	}
	return totals, rows.Err()
}

// MonthlySummaryAll возвращает сводку месяца по всем работникам
// (число записей, рабочих дней, сумма) для Excel-отчёта.
func (r *Repository) MonthlySummaryAll(ctx context.Context, year int, month time.Month) ([]*WorkerMonthStat, error) {
	start, end := common.MonthBounds(year, month)
	rows, err := r.db.Query(ctx, `
		SELECT w.telegram_id, w.name,
		       COUNT(wl.id), COUNT(DISTINCT wl.work_date), COALESCE(SUM(wl.total), 0)
		FROM workers w
		LEFT JOIN work_log wl ON w.telegram_id = wl.worker_id
			AND wl.work_date >= $1 AND wl.work_date < $2
		GROUP BY w.telegram_id, w.name
		ORDER BY w.name
	`, start, end)
	if err != nil {
		return nil, fmt.Errorf("ошибка месячной сводки: %w", err)
	}
	defer rows.Close()

	var stats []*WorkerMonthStat
	for rows.Next() {
		var s WorkerMonthStat
		if err := rows.Scan(&s.WorkerID, &s.Name, &s.Entries, &s.WorkDays, &s.Total); err != nil {
			return nil, fmt.Errorf("ошибка сканирования сводки: %w", err)
		}
		stats = append(stats, &s)
	}
	return stats, rows.Err()
}

// MonthlyDetailedAll возвращает полную детализацию месяца по всем работникам
// (для листа «Детализация» Excel-отчёта).
func (r *Repository) MonthlyDetailedAll(ctx context.Context, year int, month time.Month) ([]*DetailedRow, error) {
	start, end := common.MonthBounds(year, month)
	rows, err := r.db.Query(ctx, `
		SELECT w.telegram_id, w.name, c.name, c.emoji,
		       wl.work_date, pl.name, wl.quantity, wl.price_per_unit, wl.total
		FROM work_log wl
		JOIN workers w ON wl.worker_id = w.telegram_id
		JOIN price_list pl ON wl.work_code = pl.code
		JOIN categories c ON pl.category_code = c.code
		WHERE wl.work_date >= $1 AND wl.work_date < $2
		ORDER BY w.name, c.name, wl.work_date, wl.id
	`, start, end)
	if err != nil {
		return nil, fmt.Errorf("ошибка детализации месяца: %w", err)
	}
	defer rows.Close()

	var details []*DetailedRow
	for rows.Next() {
		var d DetailedRow
		if err := rows.Scan(&d.WorkerID, &d.WorkerName, &d.CategoryName, &d.CategoryEmoji,
			&d.WorkDate, &d.ItemName, &d.Quantity, &d.Price, &d.Total); err != nil {
			return nil, fmt.Errorf("ошибка сканирования детализации: %w", err)
		}
		details = append(details, &d)
	}
	return details, rows.Err()
}

func scanEntries(rows pgx.Rows) ([]*Entry, error) {
	var entries []*Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.WorkerID, &e.WorkCode, &e.ItemName, &e.Quantity,
			&e.PricePerUnit, &e.UnitKind, &e.Total, &e.WorkDate, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("ошибка сканирования записи: %w", err)
		}
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}
