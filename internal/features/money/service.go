// service.go — денежная бизнес-логика: выдача авансов и штрафов,
// балансы, рейтинги, итоги фонда.
package money

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// Service управляет авансами, штрафами и балансами.
type Service struct {
	repo *Repository
}

// NewService создаёт денежный сервис.
func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// GrantAdvance выдаёт аванс работнику на бизнес-дату date.
func (s *Service) GrantAdvance(ctx context.Context, workerID int64, amount decimal.Decimal, comment string, date time.Time) (int64, error) {
	id, err := s.repo.AddAdvance(ctx, workerID, amount, comment, date)
	if err != nil {
		return 0, err
	}
	log.WithFields(log.Fields{"worker_id": workerID, "amount": amount.String(), "advance_id": id}).
		Info("Выдан аванс")
	return id, nil
}

// GrantPenalty начисляет штраф работнику на бизнес-дату date.
func (s *Service) GrantPenalty(ctx context.Context, workerID int64, amount decimal.Decimal, reason string, date time.Time) (int64, error) {
	id, err := s.repo.AddPenalty(ctx, workerID, amount, reason, date)
	if err != nil {
		return 0, err
	}
	log.WithFields(log.Fields{"worker_id": workerID, "amount": amount.String(), "penalty_id": id}).
		Info("Начислен штраф")
	return id, nil
}

func (s *Service) AdvancesForMonth(ctx context.Context, workerID int64, year int, month time.Month) ([]*Advance, error) {
	return s.repo.AdvancesForMonth(ctx, workerID, year, month)
}

func (s *Service) PenaltiesForMonth(ctx context.Context, workerID int64, year int, month time.Month) ([]*Penalty, error) {
	return s.repo.PenaltiesForMonth(ctx, workerID, year, month)
}

func (s *Service) DeleteAdvance(ctx context.Context, id int64) (*Advance, error) {
	a, err := s.repo.DeleteAdvance(ctx, id)
	if err != nil {
		return nil, err
	}
	log.WithFields(log.Fields{"advance_id": id, "worker_id": a.WorkerID}).Info("Аванс удалён")
	return a, nil
}

func (s *Service) DeletePenalty(ctx context.Context, id int64) (*Penalty, error) {
	p, err := s.repo.DeletePenalty(ctx, id)
	if err != nil {
		return nil, err
	}
	log.WithFields(log.Fields{"penalty_id": id, "worker_id": p.WorkerID}).Info("Штраф удалён")
	return p, nil
}

// MonthlyBalance возвращает баланс работника за месяц.
func (s *Service) MonthlyBalance(ctx context.Context, workerID int64, year int, month time.Month) (*BalanceSummary, error) {
	return s.repo.MonthlyBalance(ctx, workerID, year, month)
}

// AllWorkersBalance возвращает балансы всех работников за месяц.
func (s *Service) AllWorkersBalance(ctx context.Context, year int, month time.Month) ([]*WorkerBalance, error) {
	return s.repo.AllWorkersBalance(ctx, year, month)
}

// MonthlyRankings строит рейтинги за месяц.
func (s *Service) MonthlyRankings(ctx context.Context, year int, month time.Month) (*Rankings, error) {
	balances, err := s.repo.AllWorkersBalance(ctx, year, month)
	if err != nil {
		return nil, err
	}
	return BuildRankings(balances), nil
}

// BuildRankings строит два рейтинга из сводных балансов:
// по заработку и по среднему за рабочий день. Работники без записей
// в рейтинги не входят и перечисляются отдельно.
// При равенстве показателей порядок — по имени.
func BuildRankings(balances []*WorkerBalance) *Rankings {
	r := &Rankings{}
	for _, b := range balances {
		if b.WorkDays == 0 {
			r.NoRecords = append(r.NoRecords, b.Name)
			continue
		}
		row := RankingRow{
			WorkerID:  b.WorkerID,
			Name:      b.Name,
			Earned:    b.Earned,
			WorkDays:  b.WorkDays,
			AvgPerDay: b.Earned.Div(decimal.NewFromInt(int64(b.WorkDays))),
		}
		r.ByEarned = append(r.ByEarned, row)
		r.ByAverage = append(r.ByAverage, row)
	}
	sort.SliceStable(r.ByEarned, func(i, j int) bool {
		if !r.ByEarned[i].Earned.Equal(r.ByEarned[j].Earned) {
			return r.ByEarned[i].Earned.GreaterThan(r.ByEarned[j].Earned)
		}
		return r.ByEarned[i].Name < r.ByEarned[j].Name
	})
	sort.SliceStable(r.ByAverage, func(i, j int) bool {
		if !r.ByAverage[i].AvgPerDay.Equal(r.ByAverage[j].AvgPerDay) {
			return r.ByAverage[i].AvgPerDay.GreaterThan(r.ByAverage[j].AvgPerDay)
		}
		return r.ByAverage[i].Name < r.ByAverage[j].Name
	})
	sort.Strings(r.NoRecords)
	return r
}

// BuildFundTotals складывает итоги фонда из сводных балансов.
func BuildFundTotals(balances []*WorkerBalance) FundTotals {
	t := FundTotals{
		Earned:    decimal.Zero,
		Advances:  decimal.Zero,
		Penalties: decimal.Zero,
		ToPay:     decimal.Zero,
	}
	for _, b := range balances {
		t.Earned = t.Earned.Add(b.Earned)
		t.Advances = t.Advances.Add(b.Advances)
		t.Penalties = t.Penalties.Add(b.Penalties)
		t.ToPay = t.ToPay.Add(b.Balance)
	}
	return t
}
