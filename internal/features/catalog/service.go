// Package catalog — service.go содержит бизнес-логику справочников.
package catalog

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// Service управляет справочниками.
type Service struct {
	repo *Repository
}

// NewService создаёт сервис справочников.
func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Categories(ctx context.Context) ([]*Category, error) {
	return s.repo.Categories(ctx)
}

func (s *Service) GetCategory(ctx context.Context, code string) (*Category, error) {
	return s.repo.GetCategory(ctx, code)
}

// AddCategory сохраняет категорию. Код нормализуется к нижнему регистру,
// пустой эмодзи заменяется на 📦.
func (s *Service) AddCategory(ctx context.Context, code, name, emoji string) error {
	code = NormalizeCode(code)
	emoji = strings.TrimSpace(emoji)
	if emoji == "" || emoji == "-" {
		emoji = "📦"
	}
	return s.repo.UpsertCategory(ctx, code, strings.TrimSpace(name), emoji)
}

func (s *Service) DeleteCategory(ctx context.Context, code string) error {
	return s.repo.DeleteCategory(ctx, code)
}

func (s *Service) GetItem(ctx context.Context, code string) (*PriceItem, error) {
	return s.repo.GetItem(ctx, code)
}

func (s *Service) ActiveItems(ctx context.Context) ([]*PriceItem, error) {
	return s.repo.ActiveItems(ctx)
}

func (s *Service) ActiveItemsForWorker(ctx context.Context, workerID int64) ([]*PriceItem, error) {
	return s.repo.ActiveItemsForWorker(ctx, workerID)
}

func (s *Service) ActiveItemsInCategory(ctx context.Context, categoryCode string) ([]*PriceItem, error) {
	return s.repo.ActiveItemsInCategory(ctx, categoryCode)
}

func (s *Service) AddItem(ctx context.Context, item *PriceItem) error {
	item.Code = NormalizeCode(item.Code)
	item.Name = strings.TrimSpace(item.Name)
	return s.repo.UpsertItem(ctx, item)
}

func (s *Service) UpdatePrice(ctx context.Context, code string, price decimal.Decimal) error {
	return s.repo.UpdatePrice(ctx, code, price)
}

func (s *Service) UpdateUnit(ctx context.Context, code string, unit UnitKind) error {
	return s.repo.UpdateUnit(ctx, code, unit)
}

// DeleteItem применяет правило мягкого удаления: позиция с историей
// записей деактивируется, без истории — удаляется насовсем.
// Результат — обычное значение, а не ошибка: оба исхода штатные.
func (s *Service) DeleteItem(ctx context.Context, code string) (hardDeleted bool, err error) {
	hard, err := s.repo.DeleteItem(ctx, code)
	if err != nil {
		return false, err
	}
	log.WithFields(log.Fields{"code": code, "hard": hard}).Info("Вид работы удалён")
	return hard, nil
}

// NormalizeCode приводит код справочника к каноническому виду:
// нижний регистр, без пробелов по краям, пробелы внутри — в подчёркивания.
func NormalizeCode(code string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	return strings.ReplaceAll(code, " ", "_")
}
