// sessions.go — хранилище диалоговых сессий работников.
// Сессии живут в памяти процесса; ключ — chat ID работника.
package worklog

import "sync"

// SessionStore хранит активные диалоги записи работы.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[int64]*Session
}

// NewSessionStore создаёт пустое хранилище сессий.
func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[int64]*Session)}
}

// Get возвращает активную сессию или nil.
func (st *SessionStore) Get(chatID int64) *Session {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.sessions[chatID]
}

// Start создаёт (или сбрасывает) сессию и запускает диалог с выбора даты.
func (st *SessionStore) Start(chatID int64) *Session {
	st.mu.Lock()
	defer st.mu.Unlock()
	s := &Session{}
	s.Start()
	st.sessions[chatID] = s
	return s
}

// Clear завершает диалог (коммит или отмена).
func (st *SessionStore) Clear(chatID int64) {
	st.mu.Lock()
	defer st.mu.Unlock()
	delete(st.sessions, chatID)
}
