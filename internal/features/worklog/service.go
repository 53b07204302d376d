// service.go — бизнес-логика журнала работ поверх репозитория.
package worklog

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/yaMovsar/cabinet-bot/internal/features/workers"
)

// Service управляет журналом работ.
type Service struct {
	repo *Repository
}

// NewService создаёт сервис журнала.
func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// AddEntry записывает работу и возвращает сумму записи и итог работника за день.
func (s *Service) AddEntry(ctx context.Context, workerID int64, workCode string, quantity decimal.Decimal, workDate time.Time) (entryTotal, dayTotal decimal.Decimal, err error) {
	entryTotal, err = s.repo.AddEntry(ctx, workerID, workCode, quantity, workDate)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	log.WithFields(log.Fields{
		"worker_id": workerID,
		"work_code": workCode,
		"quantity":  quantity.String(),
		"total":     entryTotal.String(),
		"work_date": workDate.Format("2006-01-02"),
	}).Info("Записана работа")

	items, err := s.repo.DailyTotals(ctx, workerID, workDate)
	if err != nil {
		return entryTotal, decimal.Zero, err
	}
	return entryTotal, SumItemTotals(items), nil
}

// SumItemTotals складывает суммы строк дневного итога.
func SumItemTotals(items []*ItemTotal) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Total)
	}
	return total
}

func (s *Service) DailyTotals(ctx context.Context, workerID int64, day time.Time) ([]*ItemTotal, error) {
	return s.repo.DailyTotals(ctx, workerID, day)
}

func (s *Service) MonthlyByDay(ctx context.Context, workerID int64, year int, month time.Month) ([]*DayItemTotal, error) {
	return s.repo.MonthlyByDay(ctx, workerID, year, month)
}

func (s *Service) MonthlyDetails(ctx context.Context, workerID int64, year int, month time.Month) ([]*CategoryItemTotal, error) {
	return s.repo.MonthlyDetails(ctx, workerID, year, month)
}

func (s *Service) EntriesByDate(ctx context.Context, workerID int64, day time.Time) ([]*Entry, error) {
	return s.repo.EntriesByDate(ctx, workerID, day)
}

func (s *Service) RecentEntries(ctx context.Context, workerID int64, limit int) ([]*Entry, error) {
	return s.repo.RecentEntries(ctx, workerID, limit)
}

func (s *Service) GetEntry(ctx context.Context, entryID int64) (*Entry, error) {
	return s.repo.GetEntry(ctx, entryID)
}

// UpdateQuantity меняет количество записи; сумма пересчитывается
// от цены, зафиксированной при создании записи.
func (s *Service) UpdateQuantity(ctx context.Context, entryID int64, quantity decimal.Decimal) error {
	if err := s.repo.UpdateQuantity(ctx, entryID, quantity); err != nil {
		return err
	}
	log.WithFields(log.Fields{"entry_id": entryID, "quantity": quantity.String()}).
		Info("Изменено количество в записи")
	return nil
}

// DeleteLastEntry удаляет последнюю запись работника и возвращает её.
func (s *Service) DeleteLastEntry(ctx context.Context, workerID int64) (*Entry, error) {
	entry, err := s.repo.DeleteLastEntry(ctx, workerID)
	if err != nil {
		return nil, err
	}
	log.WithFields(log.Fields{"worker_id": workerID, "entry_id": entry.ID}).
		Info("Удалена последняя запись")
	return entry, nil
}

// WorkersWithoutEntry — работники без записей за дату (для напоминаний).
func (s *Service) WorkersWithoutEntry(ctx context.Context, day time.Time) ([]*workers.Worker, error) {
	return s.repo.WorkersWithoutEntry(ctx, day)
}

// DailySummaryAll — заработок всех работников за день (для отчёта админу).
func (s *Service) DailySummaryAll(ctx context.Context, day time.Time) ([]*WorkerDayTotal, error) {
	return s.repo.DailySummaryAll(ctx, day)
}

func (s *Service) MonthlySummaryAll(ctx context.Context, year int, month time.Month) ([]*WorkerMonthStat, error) {
	return s.repo.MonthlySummaryAll(ctx, year, month)
}

func (s *Service) MonthlyDetailedAll(ctx context.Context, year int, month time.Month) ([]*DetailedRow, error) {
	return s.repo.MonthlyDetailedAll(ctx, year, month)
}
