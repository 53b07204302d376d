// Package filters определяет, кем является написавший боту человек.
package filters

import (
	"context"

	log "github.com/sirupsen/logrus"

	"github.com/yaMovsar/cabinet-bot/internal/features/workers"
)

// Role — роль пользователя в боте.
type Role int

const (
	RoleUnknown Role = iota
	RoleWorker
	RoleManager
	RoleAdmin
)

// String — для логов.
func (r Role) String() string {
	switch r {
	case RoleWorker:
		return "worker"
	case RoleManager:
		return "manager"
	case RoleAdmin:
		return "admin"
	default:
		return "unknown"
	}
}

// Staff — админ или менеджер (доступ к денежным экранам).
func (r Role) Staff() bool {
	return r == RoleAdmin || r == RoleManager
}

// Classifier определяет роль по Telegram ID.
// Админ и менеджеры задаются конфигом, работники — реестром в базе.
type Classifier struct {
	adminID       int64
	managerIDs    map[int64]bool
	workerService *workers.Service
}

// NewClassifier создаёт классификатор ролей.
func NewClassifier(adminID int64, managerIDs []int64, workerService *workers.Service) *Classifier {
	managers := make(map[int64]bool, len(managerIDs))
	for _, id := range managerIDs {
		managers[id] = true
	}
	return &Classifier{
		adminID:       adminID,
		managerIDs:    managers,
		workerService: workerService,
	}
}

// Classify возвращает роль пользователя. Админ важнее менеджера,
// менеджер важнее работника: один человек может быть во всех списках.
func (c *Classifier) Classify(ctx context.Context, userID int64) Role {
	if userID == c.adminID {
		return RoleAdmin
	}
	if c.managerIDs[userID] {
		return RoleManager
	}
	registered, err := c.workerService.IsRegistered(ctx, userID)
	if err != nil {
		log.WithError(err).WithField("user_id", userID).Error("Ошибка определения роли")
		return RoleUnknown
	}
	if registered {
		return RoleWorker
	}
	return RoleUnknown
}
