// handlers.go — отправка отчётов и бэкапов документами в Telegram.
package reports

import (
	"context"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"

	"github.com/yaMovsar/cabinet-bot/internal/common"
	"github.com/yaMovsar/cabinet-bot/internal/features/money"
	"github.com/yaMovsar/cabinet-bot/internal/features/worklog"
)

// Handler формирует и отправляет отчёты.
type Handler struct {
	worklogService *worklog.Service
	moneyService   *money.Service
	db             *pgxpool.Pool
	bot            *tgbotapi.BotAPI
	loc            *time.Location
}

// NewHandler создаёт обработчик отчётов.
func NewHandler(worklogService *worklog.Service, moneyService *money.Service,
	db *pgxpool.Pool, bot *tgbotapi.BotAPI, loc *time.Location) *Handler {
	return &Handler{
		worklogService: worklogService,
		moneyService:   moneyService,
		db:             db,
		bot:            bot,
		loc:            loc,
	}
}

// HandleMonthlyReport собирает Excel-отчёт за текущий месяц и шлёт документом.
func (h *Handler) HandleMonthlyReport(ctx context.Context, chatID int64) {
	now := time.Now().In(h.loc)
	h.SendMonthlyReport(ctx, chatID, now.Year(), now.Month())
}

// SendMonthlyReport собирает Excel-отчёт за указанный месяц и шлёт документом.
func (h *Handler) SendMonthlyReport(ctx context.Context, chatID int64, year int, month time.Month) {
	summary, err := h.worklogService.MonthlySummaryAll(ctx, year, month)
	if err != nil {
		log.WithError(err).Error("Ошибка сводки для отчёта")
		h.sendMessage(chatID, "❌ Не удалось собрать отчёт")
		return
	}
	details, err := h.worklogService.MonthlyDetailedAll(ctx, year, month)
	if err != nil {
		log.WithError(err).Error("Ошибка детализации для отчёта")
		h.sendMessage(chatID, "❌ Не удалось собрать отчёт")
		return
	}
	balances, err := h.moneyService.AllWorkersBalance(ctx, year, month)
	if err != nil {
		log.WithError(err).Error("Ошибка балансов для отчёта")
		h.sendMessage(chatID, "❌ Не удалось собрать отчёт")
		return
	}

	raw, err := BuildMonthlyWorkbook(&MonthlyReportData{
		Year:     year,
		Month:    month,
		Summary:  summary,
		Details:  details,
		Balances: balances,
	})
	if err != nil {
		log.WithError(err).Error("Ошибка сборки Excel-отчёта")
		h.sendMessage(chatID, "❌ Не удалось собрать отчёт")
		return
	}

	name := fmt.Sprintf("report_%d_%02d.xlsx", year, month)
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: name, Bytes: raw})
	doc.Caption = fmt.Sprintf("📊 Отчёт за %s %d", common.MonthsRU[month], year)
	if _, err := h.bot.Send(doc); err != nil {
		log.WithError(err).Error("Ошибка отправки отчёта")
		h.sendMessage(chatID, "❌ Не удалось отправить отчёт")
		return
	}
	log.WithFields(log.Fields{"year": year, "month": int(month)}).Info("Excel-отчёт отправлен")
}

// HandleMonthlyEarnings показывает разбивку заработка за текущий месяц
// по работникам и видам работ.
func (h *Handler) HandleMonthlyEarnings(ctx context.Context, chatID int64) {
	now := time.Now().In(h.loc)
	details, err := h.worklogService.MonthlyDetailedAll(ctx, now.Year(), now.Month())
	if err != nil {
		log.WithError(err).Error("Ошибка детализации заработка")
		h.sendMessage(chatID, "❌ Ошибка, попробуйте позже")
		return
	}
	h.sendMessage(chatID, BuildEarningsText(now.Year(), now.Month(), details))
}

// SendBackup выгружает базу в JSON и шлёт документом с краткой статистикой.
func (h *Handler) SendBackup(ctx context.Context, chatID int64) error {
	backup, raw, err := DumpBackup(ctx, h.db)
	if err != nil {
		return err
	}

	counts := backup.RowCounts()
	caption := fmt.Sprintf("💾 Бэкап от %s\nРаботников: %d, записей: %d, авансов: %d, штрафов: %d",
		common.FormatDateTime(time.Now().In(h.loc)),
		counts["workers"], counts["work_log"], counts["advances"], counts["penalties"])

	name := "backup_" + time.Now().In(h.loc).Format("2006-01-02_15-04") + ".json"
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: name, Bytes: raw})
	doc.Caption = caption
	if _, err := h.bot.Send(doc); err != nil {
		return fmt.Errorf("ошибка отправки бэкапа: %w", err)
	}
	log.Info("Бэкап отправлен")
	return nil
}

func (h *Handler) sendMessage(chatID int64, text string) {
	if _, err := h.bot.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		log.WithError(err).Error("Ошибка отправки сообщения")
	}
}
