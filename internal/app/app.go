// Package app инициализирует все компоненты приложения.
// app.go — точка сборки: создаёт БД-пул, репозитории, сервисы, обработчики
// и собирает всё в один объект Bot. Здесь же регистрируются фоновые задачи.
package app

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"

	"github.com/yaMovsar/cabinet-bot/internal/bot"
	"github.com/yaMovsar/cabinet-bot/internal/bot/filters"
	"github.com/yaMovsar/cabinet-bot/internal/config"
	"github.com/yaMovsar/cabinet-bot/internal/db/postgres"
	"github.com/yaMovsar/cabinet-bot/internal/features/admin"
	"github.com/yaMovsar/cabinet-bot/internal/features/catalog"
	"github.com/yaMovsar/cabinet-bot/internal/features/money"
	"github.com/yaMovsar/cabinet-bot/internal/features/reminders"
	"github.com/yaMovsar/cabinet-bot/internal/features/workers"
	"github.com/yaMovsar/cabinet-bot/internal/features/worklog"
	"github.com/yaMovsar/cabinet-bot/internal/jobs"
	"github.com/yaMovsar/cabinet-bot/internal/reports"
)

// Имена фоновых задач планировщика.
const (
	jobEveningReminder = "evening_reminder"
	jobLateReminder    = "late_reminder"
	jobAdminReport     = "admin_report"
	jobBackupPeriodic  = "backup_periodic"
	jobBackupNightly   = "backup_nightly"
)

// App содержит все компоненты приложения.
type App struct {
	Bot       *bot.Bot
	Scheduler *jobs.Scheduler
	DB        *pgxpool.Pool
	BotAPI    *tgbotapi.BotAPI

	reminderService *reminders.Service
	reportHandler   *reports.Handler
	cfg             *config.Config
}

// New создаёт и инициализирует приложение.
// Порядок инициализации важен — компоненты зависят друг от друга.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	// === 1. База данных ===
	pool, err := postgres.NewPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("ошибка подключения к БД: %w", err)
	}

	if err := runMigrations(ctx, pool); err != nil {
		return nil, fmt.Errorf("ошибка миграций: %w", err)
	}

	// === 2. Telegram Bot API ===
	botAPI, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания Telegram API: %w", err)
	}
	botAPI.Debug = cfg.AppEnv == "development"
	log.Infof("Авторизован как @%s", botAPI.Self.UserName)

	loc := cfg.Location()

	// === 3. Репозитории ===
	workerRepo := workers.NewRepository(pool)
	catalogRepo := catalog.NewRepository(pool)
	worklogRepo := worklog.NewRepository(pool)
	moneyRepo := money.NewRepository(pool)
	reminderRepo := reminders.NewRepository(pool)

	// === 4. Сервисы ===
	workerService := workers.NewService(workerRepo)
	catalogService := catalog.NewService(catalogRepo)
	worklogService := worklog.NewService(worklogRepo)
	moneyService := money.NewService(moneyRepo)

	// === 5. Обработчики ===
	sessions := worklog.NewSessionStore()
	worklogHandler := worklog.NewHandler(worklogService, workerService, catalogService,
		sessions, botAPI, cfg.AdminID, cfg.ManagerIDs, loc)
	moneyHandler := money.NewHandler(moneyService, workerService, botAPI, cfg.AdminID, loc)
	adminHandler := admin.NewHandler(catalogService, workerService, botAPI)
	reportHandler := reports.NewHandler(worklogService, moneyService, pool, botAPI, loc)

	// === 6. Планировщик и напоминания ===
	scheduler := jobs.NewScheduler(loc)

	sendFunc := func(chatID int64, text string) {
		if _, err := botAPI.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
			log.WithError(err).WithField("chat_id", chatID).Warn("Не удалось отправить сообщение")
		}
	}
	reminderService := reminders.NewService(reminderRepo, worklogService, sendFunc, cfg.AdminID, loc)

	a := &App{
		Scheduler:       scheduler,
		DB:              pool,
		BotAPI:          botAPI,
		reminderService: reminderService,
		reportHandler:   reportHandler,
		cfg:             cfg,
	}

	reminderHandler := reminders.NewHandler(reminderService, botAPI, a.applyReminderJobs)

	// === 7. Собираем бота ===
	classifier := filters.NewClassifier(cfg.AdminID, cfg.ManagerIDs, workerService)
	a.Bot = bot.New(botAPI, cfg, classifier,
		worklogHandler, moneyHandler, adminHandler, reminderHandler, reportHandler)

	// === 8. Фоновые задачи ===
	if err := a.applyReminderJobs(ctx); err != nil {
		return nil, fmt.Errorf("ошибка регистрации напоминаний: %w", err)
	}
	if err := a.registerBackupJobs(); err != nil {
		return nil, fmt.Errorf("ошибка регистрации бэкапов: %w", err)
	}

	return a, nil
}

// applyReminderJobs перечитывает настройки и перерегистрирует напоминания.
// Вызывается при старте и после каждого изменения настроек админом.
func (a *App) applyReminderJobs(ctx context.Context) error {
	settings, err := a.reminderService.Settings(ctx)
	if err != nil {
		return err
	}

	register := func(name, hhmm string, enabled bool, job func()) error {
		if !enabled {
			a.Scheduler.Remove(name)
			return nil
		}
		spec, err := reminders.CronSpec(hhmm)
		if err != nil {
			return fmt.Errorf("задача %s: %w", name, err)
		}
		return a.Scheduler.Add(name, spec, job)
	}

	if err := register(jobEveningReminder, settings.EveningTime, settings.EveningEnabled, func() {
		if err := a.reminderService.EveningReminder(context.Background()); err != nil {
			log.WithError(err).Error("[CRON] Ошибка вечернего напоминания")
		}
	}); err != nil {
		return err
	}
	if err := register(jobLateReminder, settings.LateTime, settings.LateEnabled, func() {
		if err := a.reminderService.LateReminder(context.Background()); err != nil {
			log.WithError(err).Error("[CRON] Ошибка позднего напоминания")
		}
	}); err != nil {
		return err
	}
	return register(jobAdminReport, settings.ReportTime, settings.ReportEnabled, func() {
		if err := a.reminderService.AdminReport(context.Background()); err != nil {
			log.WithError(err).Error("[CRON] Ошибка вечернего отчёта")
		}
	})
}

// registerBackupJobs регистрирует периодический и ночной бэкапы.
func (a *App) registerBackupJobs() error {
	backup := func() {
		if err := a.reportHandler.SendBackup(context.Background(), a.cfg.AdminID); err != nil {
			log.WithError(err).Error("[CRON] Ошибка бэкапа")
		}
	}
	if err := a.Scheduler.Add(jobBackupPeriodic, "@every 5h", backup); err != nil {
		return err
	}
	return a.Scheduler.Add(jobBackupNightly, "0 23 * * *", backup)
}

// runMigrations выполняет все SQL-миграции.
func runMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	return postgres.Migrate(ctx, pool, []postgres.Migration{
		{Version: 1, SQL: migration001Workers},
		{Version: 2, SQL: migration002Catalog},
		{Version: 3, SQL: migration003WorkLog},
		{Version: 4, SQL: migration004Money},
		{Version: 5, SQL: migration005Reminders},
	})
}

// SQL-миграции встроены в код для упрощения деплоя.
//
// Денежные колонки — NUMERIC: суммы считаются точно, без плавающей точки.
// Таблицы журнала, авансов и штрафов не ссылаются на workers внешним ключом:
// работника можно удалить, а его история должна остаться.
// Бизнес-дата (work_date, advance_date, penalty_date) хранится отдельно
// от момента записи: месячные агрегаты считаются по календарному дню
// в часовом поясе бота, а не по часам сервера БД.

var migration001Workers = `
CREATE TABLE IF NOT EXISTS workers (
    telegram_id BIGINT PRIMARY KEY,
    name VARCHAR(255) NOT NULL,
    registered_at TIMESTAMP NOT NULL DEFAULT NOW()
);
`

var migration002Catalog = `
CREATE TABLE IF NOT EXISTS categories (
    code VARCHAR(64) PRIMARY KEY,
    name VARCHAR(255) NOT NULL,
    emoji VARCHAR(16) NOT NULL DEFAULT '📦'
);
CREATE TABLE IF NOT EXISTS price_list (
    code VARCHAR(64) PRIMARY KEY,
    name VARCHAR(255) NOT NULL,
    price NUMERIC(12,2) NOT NULL,
    category_code VARCHAR(64) NOT NULL REFERENCES categories(code),
    unit_kind VARCHAR(16) NOT NULL DEFAULT 'piece',
    is_active BOOLEAN NOT NULL DEFAULT TRUE
);
CREATE TABLE IF NOT EXISTS worker_categories (
    worker_id BIGINT NOT NULL,
    category_code VARCHAR(64) NOT NULL REFERENCES categories(code),
    PRIMARY KEY (worker_id, category_code)
);
CREATE INDEX IF NOT EXISTS idx_price_list_category ON price_list(category_code);
`

var migration003WorkLog = `
CREATE TABLE IF NOT EXISTS work_log (
    id BIGSERIAL PRIMARY KEY,
    worker_id BIGINT NOT NULL,
    work_code VARCHAR(64) NOT NULL REFERENCES price_list(code),
    quantity NUMERIC(12,3) NOT NULL,
    price_per_unit NUMERIC(12,2) NOT NULL,
    unit_kind VARCHAR(16) NOT NULL DEFAULT 'piece',
    total NUMERIC(14,2) NOT NULL,
    work_date DATE NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_work_log_worker_date ON work_log(worker_id, work_date);
CREATE INDEX IF NOT EXISTS idx_work_log_date ON work_log(work_date);
`

var migration004Money = `
CREATE TABLE IF NOT EXISTS advances (
    id BIGSERIAL PRIMARY KEY,
    worker_id BIGINT NOT NULL,
    amount NUMERIC(12,2) NOT NULL,
    comment TEXT NOT NULL DEFAULT '',
    advance_date DATE NOT NULL,
    given_at TIMESTAMP NOT NULL DEFAULT NOW()
);
CREATE TABLE IF NOT EXISTS penalties (
    id BIGSERIAL PRIMARY KEY,
    worker_id BIGINT NOT NULL,
    amount NUMERIC(12,2) NOT NULL,
    reason TEXT NOT NULL DEFAULT '',
    penalty_date DATE NOT NULL,
    given_at TIMESTAMP NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_advances_worker ON advances(worker_id, advance_date);
CREATE INDEX IF NOT EXISTS idx_penalties_worker ON penalties(worker_id, penalty_date);
`

var migration005Reminders = `
CREATE TABLE IF NOT EXISTS reminder_settings (
    id SMALLINT PRIMARY KEY,
    evening_time VARCHAR(5) NOT NULL DEFAULT '18:00',
    evening_enabled BOOLEAN NOT NULL DEFAULT TRUE,
    late_time VARCHAR(5) NOT NULL DEFAULT '20:00',
    late_enabled BOOLEAN NOT NULL DEFAULT TRUE,
    report_time VARCHAR(5) NOT NULL DEFAULT '21:00',
    report_enabled BOOLEAN NOT NULL DEFAULT TRUE
);
INSERT INTO reminder_settings (id) VALUES (1) ON CONFLICT (id) DO NOTHING;
`
