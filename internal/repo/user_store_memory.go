package repo

import (
	"sync"

	"petstore-user/internal/domain"
)

// MemoryUserStore 进程内存储，进程退出即丢失
type MemoryUserStore struct {
	mu    sync.RWMutex
	users map[string]domain.User
}

var _ domain.UserStore = (*MemoryUserStore)(nil)

func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{users: make(map[string]domain.User)}
}

// Put 值拷贝入库，调用方之后的修改不会影响已存记录
func (s *MemoryUserStore) Put(u domain.User) {
	s.mu.Lock()
	s.users[u.Username] = u
	s.mu.Unlock()
}

func (s *MemoryUserStore) Get(username string) (domain.User, bool) {
	s.mu.RLock()
	u, ok := s.users[username]
	s.mu.RUnlock()
	return u, ok
}

func (s *MemoryUserStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users)
}
