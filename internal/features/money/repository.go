// repository.go — операции с таблицами advances и penalties
// и агрегатные запросы балансов.
package money

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/yaMovsar/cabinet-bot/internal/common"
)

// Repository предоставляет методы для денежных операций.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository создаёт денежный репозиторий.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// ==================== АВАНСЫ ====================

// AddAdvance записывает аванс на бизнес-дату и возвращает его ID.
func (r *Repository) AddAdvance(ctx context.Context, workerID int64, amount decimal.Decimal, comment string, date time.Time) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO advances (worker_id, amount, comment, advance_date)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, workerID, amount, comment, date).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("ошибка записи аванса: %w", err)
	}
	return id, nil
}

// AdvancesForMonth возвращает авансы работника за месяц (по бизнес-дате).
func (r *Repository) AdvancesForMonth(ctx context.Context, workerID int64, year int, month time.Month) ([]*Advance, error) {
	start, end := common.MonthBounds(year, month)
	rows, err := r.db.Query(ctx, `
		SELECT id, worker_id, amount, comment, advance_date, given_at
		FROM advances
		WHERE worker_id = $1 AND advance_date >= $2 AND advance_date < $3
		ORDER BY advance_date, id
	`, workerID, start, end)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения авансов: %w", err)
	}
	defer rows.Close()

	var advances []*Advance
	for rows.Next() {
		var a Advance
		if err := rows.Scan(&a.ID, &a.WorkerID, &a.Amount, &a.Comment, &a.Date, &a.GivenAt); err != nil {
			return nil, fmt.Errorf("ошибка сканирования аванса: %w", err)
		}
		advances = append(advances, &a)
	}
	return advances, rows.Err()
}

// DeleteAdvance удаляет аванс и возвращает его (для уведомления).
func (r *Repository) DeleteAdvance(ctx context.Context, id int64) (*Advance, error) {
	var a Advance
	err := r.db.QueryRow(ctx, `
		DELETE FROM advances WHERE id = $1
		RETURNING id, worker_id, amount, comment, advance_date, given_at
	`, id).Scan(&a.ID, &a.WorkerID, &a.Amount, &a.Comment, &a.Date, &a.GivenAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.ErrAdvanceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка удаления аванса: %w", err)
	}
	return &a, nil
}

// ==================== ШТРАФЫ ====================

// AddPenalty записывает штраф на бизнес-дату и возвращает его ID.
func (r *Repository) AddPenalty(ctx context.Context, workerID int64, amount decimal.Decimal, reason string, date time.Time) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO penalties (worker_id, amount, reason, penalty_date)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, workerID, amount, reason, date).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("ошибка записи штрафа: %w", err)
	}
	return id, nil
}

// PenaltiesForMonth возвращает штрафы работника за месяц (по бизнес-дате).
func (r *Repository) PenaltiesForMonth(ctx context.Context, workerID int64, year int, month time.Month) ([]*Penalty, error) {
	start, end := common.MonthBounds(year, month)
	rows, err := r.db.Query(ctx, `
		SELECT id, worker_id, amount, reason, penalty_date, given_at
		FROM penalties
		WHERE worker_id = $1 AND penalty_date >= $2 AND penalty_date < $3
		ORDER BY penalty_date, id
	`, workerID, start, end)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения штрафов: %w", err)
	}
	defer rows.Close()

	var penalties []*Penalty
	for rows.Next() {
		var p Penalty
		if err := rows.Scan(&p.ID, &p.WorkerID, &p.Amount, &p.Reason, &p.Date, &p.GivenAt); err != nil {
			return nil, fmt.Errorf("ошибка сканирования штрафа: %w", err)
		}
		penalties = append(penalties, &p)
	}
	return penalties, rows.Err()
}

// DeletePenalty удаляет штраф и возвращает его (для уведомления).
func (r *Repository) DeletePenalty(ctx context.Context, id int64) (*Penalty, error) {
	var p Penalty
	err := r.db.QueryRow(ctx, `
		DELETE FROM penalties WHERE id = $1
		RETURNING id, worker_id, amount, reason, penalty_date, given_at
	`, id).Scan(&p.ID, &p.WorkerID, &p.Amount, &p.Reason, &p.Date, &p.GivenAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.ErrPenaltyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка удаления штрафа: %w", err)
	}
	return &p, nil
}

// ==================== БАЛАНСЫ ====================

// MonthlyBalance считает баланс работника за месяц одним запросом.
func (r *Repository) MonthlyBalance(ctx context.Context, workerID int64, year int, month time.Month) (*BalanceSummary, error) {
	start, end := common.MonthBounds(year, month)
	var s BalanceSummary
	err := r.db.QueryRow(ctx, `
		SELECT
			COALESCE((SELECT SUM(total) FROM work_log
				WHERE worker_id = $1 AND work_date >= $2 AND work_date < $3), 0),
			COALESCE((SELECT COUNT(DISTINCT work_date) FROM work_log
				WHERE worker_id = $1 AND work_date >= $2 AND work_date < $3), 0),
			COALESCE((SELECT SUM(amount) FROM advances
				WHERE worker_id = $1 AND advance_date >= $2 AND advance_date < $3), 0),
			COALESCE((SELECT SUM(amount) FROM penalties
				WHERE worker_id = $1 AND penalty_date >= $2 AND penalty_date < $3), 0)
	`, workerID, start, end).Scan(&s.Earned, &s.WorkDays, &s.Advances, &s.Penalties)
	if err != nil {
		return nil, fmt.Errorf("ошибка расчёта баланса: %w", err)
	}
	s.Balance = s.Earned.Sub(s.Advances).Sub(s.Penalties)
	return &s, nil
}

// AllWorkersBalance считает балансы всех работников за месяц одним запросом
// (подзапросы вместо тройного JOIN, чтобы суммы не задваивались).
func (r *Repository) AllWorkersBalance(ctx context.Context, year int, month time.Month) ([]*WorkerBalance, error) {
	start, end := common.MonthBounds(year, month)
	rows, err := r.db.Query(ctx, `
		SELECT w.telegram_id, w.name,
			COALESCE(e.earned, 0), COALESCE(e.work_days, 0),
			COALESCE(a.advances, 0), COALESCE(p.penalties, 0)
		FROM workers w
		LEFT JOIN (
			SELECT worker_id, SUM(total) AS earned, COUNT(DISTINCT work_date) AS work_days
			FROM work_log
			WHERE work_date >= $1 AND work_date < $2
			GROUP BY worker_id
		) e ON e.worker_id = w.telegram_id
		LEFT JOIN (
			SELECT worker_id, SUM(amount) AS advances
			FROM advances
			WHERE advance_date >= $1 AND advance_date < $2
			GROUP BY worker_id
		) a ON a.worker_id = w.telegram_id
		LEFT JOIN (
			SELECT worker_id, SUM(amount) AS penalties
			FROM penalties
			WHERE penalty_date >= $1 AND penalty_date < $2
			GROUP BY worker_id
		) p ON p.worker_id = w.telegram_id
		ORDER BY w.name
	`, start, end)
	if err != nil {
		return nil, fmt.Errorf("ошибка сводного баланса: %w", err)
	}
	defer rows.Close()

	var balances []*WorkerBalance
	for rows.Next() {
		var b WorkerBalance
		if err := rows.Scan(&b.WorkerID, &b.Name,
			&b.Earned, &b.WorkDays, &b.Advances, &b.Penalties); err != nil {
			return nil, fmt.Errorf("ошибка сканирования баланса: %w", err)
		}
		b.Balance = b.Earned.Sub(b.Advances).Sub(b.Penalties)
		balances = append(balances, &b)
	}
	return balances, rows.Err()
}
