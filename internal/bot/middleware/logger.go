// Package middleware содержит промежуточные обработчики для логирования
// и восстановления после паники.
package middleware

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"
)

const logTextLimit = 50

// LogMessage логирует входящее сообщение (текст обрезается).
func LogMessage(message *tgbotapi.Message) {
	if message == nil || message.From == nil {
		return
	}
	log.WithFields(log.Fields{
		"user_id":  message.From.ID,
		"username": message.From.UserName,
		"text":     truncate(message.Text),
	}).Debug("Входящее сообщение")
}

// LogCallback логирует нажатие инлайн-кнопки.
func LogCallback(cq *tgbotapi.CallbackQuery) {
	if cq == nil {
		return
	}
	log.WithFields(log.Fields{
		"user_id": cq.From.ID,
		"data":    cq.Data,
	}).Debug("Входящий callback")
}

func truncate(s string) string {
	if len(s) > logTextLimit {
		return s[:logTextLimit] + "..."
	}
	return s
}
