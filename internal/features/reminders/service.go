// service.go — тела напоминаний и управление настройками.
package reminders

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/yaMovsar/cabinet-bot/internal/common"
	"github.com/yaMovsar/cabinet-bot/internal/features/worklog"
)

// SendFunc отправляет текст в чат. Ошибки доставки обрабатывает отправитель.
type SendFunc func(chatID int64, text string)

// Service управляет настройками напоминаний и выполняет сами напоминания.
type Service struct {
	repo           *Repository
	worklogService *worklog.Service
	send           SendFunc
	adminID        int64
	loc            *time.Location
}

// NewService создаёт сервис напоминаний.
func NewService(repo *Repository, worklogService *worklog.Service, send SendFunc,
	adminID int64, loc *time.Location) *Service {
	return &Service{
		repo:           repo,
		worklogService: worklogService,
		send:           send,
		adminID:        adminID,
		loc:            loc,
	}
}

// Settings возвращает текущие настройки.
func (s *Service) Settings(ctx context.Context) (*Settings, error) {
	return s.repo.Get(ctx)
}

// Save сохраняет настройки.
func (s *Service) Save(ctx context.Context, settings *Settings) error {
	if err := s.repo.Save(ctx, settings); err != nil {
		return err
	}
	log.WithFields(log.Fields{
		"evening": settings.EveningTime, "late": settings.LateTime, "report": settings.ReportTime,
	}).Info("Настройки напоминаний сохранены")
	return nil
}

func (s *Service) today() time.Time {
	return common.DateOnly(time.Now().In(s.loc))
}

// EveningReminder напоминает работникам без записей за сегодня.
func (s *Service) EveningReminder(ctx context.Context) error {
	ws, err := s.worklogService.WorkersWithoutEntry(ctx, s.today())
	if err != nil {
		return fmt.Errorf("ошибка вечернего напоминания: %w", err)
	}
	for _, w := range ws {
		s.send(w.TelegramID, "⏰ Не забудьте записать сегодняшнюю работу!")
	}
	log.WithField("count", len(ws)).Info("Вечернее напоминание разослано")
	return nil
}

// LateReminder — повторное, более настойчивое напоминание.
func (s *Service) LateReminder(ctx context.Context) error {
	ws, err := s.worklogService.WorkersWithoutEntry(ctx, s.today())
	if err != nil {
		return fmt.Errorf("ошибка позднего напоминания: %w", err)
	}
	for _, w := range ws {
		s.send(w.TelegramID, "❗️ За сегодня всё ещё нет записей. Запишите работу, пока не забыли!")
	}
	log.WithField("count", len(ws)).Info("Позднее напоминание разослано")
	return nil
}

// AdminReport отправляет админу вечернюю сводку дня по всем работникам.
func (s *Service) AdminReport(ctx context.Context) error {
	today := s.today()
	totals, err := s.worklogService.DailySummaryAll(ctx, today)
	if err != nil {
		return fmt.Errorf("ошибка вечернего отчёта: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📊 Итоги дня %s:\n\n", common.FormatDate(today))
	fund := decimal.Zero
	for _, t := range totals {
		mark := "✅"
		if t.Total.IsZero() {
			mark = "➖"
		}
		fmt.Fprintf(&b, "%s %s: %s\n", mark, t.Name, common.FormatMoney(t.Total))
		fund = fund.Add(t.Total)
	}
	fmt.Fprintf(&b, "\nВсего за день: %s", common.FormatMoney(fund))

	s.send(s.adminID, b.String())
	log.Info("Вечерний отчёт отправлен админу")
	return nil
}
