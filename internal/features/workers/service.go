// Package workers — service.go содержит бизнес-логику реестра работников.
package workers

import (
	"context"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/yaMovsar/cabinet-bot/internal/features/catalog"
)

// Service управляет реестром работников.
type Service struct {
	repo *Repository
}

// NewService создаёт сервис работников.
func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// EnsureRegistered регистрирует работника или обновляет его имя.
// Единственная точка входа — добавление работника админом: сами
// работники не самозаписываются, их заводит только персонал.
func (s *Service) EnsureRegistered(ctx context.Context, telegramID int64, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		name = "Без имени"
	}
	if err := s.repo.Upsert(ctx, telegramID, name); err != nil {
		return err
	}
	log.WithFields(log.Fields{"worker_id": telegramID, "name": name}).Info("Работник зарегистрирован")
	return nil
}

// IsRegistered проверяет, известен ли пользователь как работник.
func (s *Service) IsRegistered(ctx context.Context, telegramID int64) (bool, error) {
	return s.repo.Exists(ctx, telegramID)
}

func (s *Service) GetByID(ctx context.Context, telegramID int64) (*Worker, error) {
	return s.repo.GetByID(ctx, telegramID)
}

func (s *Service) List(ctx context.Context) ([]*Worker, error) {
	return s.repo.List(ctx)
}

func (s *Service) Rename(ctx context.Context, telegramID int64, newName string) error {
	return s.repo.Rename(ctx, telegramID, strings.TrimSpace(newName))
}

func (s *Service) Delete(ctx context.Context, telegramID int64) error {
	return s.repo.Delete(ctx, telegramID)
}

func (s *Service) AssignCategory(ctx context.Context, workerID int64, categoryCode string) error {
	return s.repo.AssignCategory(ctx, workerID, categoryCode)
}

func (s *Service) RemoveCategory(ctx context.Context, workerID int64, categoryCode string) error {
	return s.repo.RemoveCategory(ctx, workerID, categoryCode)
}

func (s *Service) InCategory(ctx context.Context, categoryCode string) ([]*Worker, error) {
	return s.repo.InCategory(ctx, categoryCode)
}

func (s *Service) CategoriesOf(ctx context.Context, workerID int64) ([]*catalog.Category, error) {
	return s.repo.CategoriesOf(ctx, workerID)
}
