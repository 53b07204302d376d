package middleware

import (
	"runtime/debug"

	log "github.com/sirupsen/logrus"
)

// LogPanic пишет восстановленную панику в лог вместе со стеком.
// Один сломанный апдейт не должен ронять весь цикл поллинга.
func LogPanic(scope string, r any) {
	log.WithFields(log.Fields{
		"scope": scope,
		"panic": r,
	}).Errorf("Паника восстановлена\n%s", debug.Stack())
}
