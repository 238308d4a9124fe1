package sessionstore

import (
	"sync"

	"jobsim-backend/models"
)

// Provider - хранилище состояний сессий интервью в памяти процесса.
// Сессии живут до перезапуска, без вытеснения и персистентности.
type Provider interface {
	GetOrCreate(id string) *Session
	Count() int
}

// Session держит собственный мьютекс: обработка хода выполняется
// целиком под блокировкой, конкурентные ходы одной сессии сериализуются.
type Session struct {
	mu    sync.Mutex
	ID    string
	State models.ConversationState
}

func (s *Session) Lock()   { s.mu.Lock() }
func (s *Session) Unlock() { s.mu.Unlock() }

func NewInstance() Provider {
	return &impl{
		sessions: map[string]*Session{},
	}
}

type impl struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

func (i *impl) GetOrCreate(id string) *Session {
	i.mu.Lock()
	defer i.mu.Unlock()
	rec, ok := i.sessions[id]
	if !ok {
		rec = &Session{ID: id}
		i.sessions[id] = rec
	}
	return rec
}

func (i *impl) Count() int {
	i.mu.Lock()
	defer i.mu.Unlock()
	return len(i.sessions)
}
