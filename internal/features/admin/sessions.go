// Package admin — административные диалоги: справочники, работники,
// назначения. sessions.go хранит состояния диалогов в памяти.
package admin

import (
	"sync"

	"github.com/shopspring/decimal"
)

// dialogState — шаг административного диалога.
type dialogState int

const (
	stIdle dialogState = iota

	// добавление категории
	stCatCode
	stCatName
	stCatEmoji

	// добавление вида работы
	stItemCode
	stItemName
	stItemPrice

	// правка прайс-листа
	stEditPrice

	// работники
	stWorkerID
	stWorkerName
	stRenameWorker
)

// dialog — накопленные данные одного административного диалога.
type dialog struct {
	state dialogState

	catCode  string
	catName  string
	itemCode string
	itemName string
	price    decimal.Decimal
	workerID int64
}

// dialogStore хранит активные административные диалоги по chat ID.
type dialogStore struct {
	mu      sync.RWMutex
	dialogs map[int64]*dialog
}

func newDialogStore() *dialogStore {
	return &dialogStore{dialogs: make(map[int64]*dialog)}
}

func (st *dialogStore) get(chatID int64) *dialog {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.dialogs[chatID]
}

func (st *dialogStore) set(chatID int64, d *dialog) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.dialogs[chatID] = d
}

func (st *dialogStore) clear(chatID int64) bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	if _, ok := st.dialogs[chatID]; !ok {
		return false
	}
	delete(st.dialogs, chatID)
	return true
}
