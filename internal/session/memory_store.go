package session

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryStore 进程内会话存储，用于单实例部署与测试
type MemoryStore struct {
	mu      sync.RWMutex
	byID    map[string]*Record
	byLogin map[string]string
}

// NewMemoryStore 创建内存存储
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byID:    make(map[string]*Record),
		byLogin: make(map[string]string),
	}
}

func (s *MemoryStore) Replace(_ context.Context, rec *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if old, ok := s.byLogin[rec.LoginName]; ok {
		delete(s.byID, old)
	}
	cp := *rec
	s.byID[rec.SessionID] = &cp
	s.byLogin[rec.LoginName] = rec.SessionID
	return nil
}

func (s *MemoryStore) Touch(_ context.Context, sessionID string, now time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.byID[sessionID]
	if !ok || !rec.Live(now) {
		return false, nil
	}
	rec.LastAccessTime = now
	rec.ExpireAt = now.Add(time.Duration(rec.ExpireMinutes) * time.Minute)
	return true, nil
}

func (s *MemoryStore) Get(_ context.Context, sessionID string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.byID[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	cp := *rec
	return &cp, nil
}

func (s *MemoryStore) DeleteByLoginName(_ context.Context, loginName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id, ok := s.byLogin[loginName]; ok {
		delete(s.byID, id)
		delete(s.byLogin, loginName)
	}
	return nil
}

func (s *MemoryStore) DeleteBySessionID(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec, ok := s.byID[sessionID]; ok {
		delete(s.byID, sessionID)
		if s.byLogin[rec.LoginName] == sessionID {
			delete(s.byLogin, rec.LoginName)
		}
	}
	return nil
}

func (s *MemoryStore) ListLive(_ context.Context, now time.Time, offset, limit int) ([]Record, error) {
	live := s.live(now)
	sort.Slice(live, func(i, j int) bool {
		if !live[i].LastAccessTime.Equal(live[j].LastAccessTime) {
			return live[i].LastAccessTime.After(live[j].LastAccessTime)
		}
		return live[i].SessionID < live[j].SessionID
	})

	if offset >= len(live) {
		return []Record{}, nil
	}
	end := offset + limit
	if end > len(live) {
		end = len(live)
	}
	return live[offset:end], nil
}

func (s *MemoryStore) CountLive(_ context.Context, now time.Time) (int64, error) {
	return int64(len(s.live(now))), nil
}

func (s *MemoryStore) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	for id, rec := range s.byID {
		if IsExpired(rec, now) {
			delete(s.byID, id)
			if s.byLogin[rec.LoginName] == id {
				delete(s.byLogin, rec.LoginName)
			}
			n++
		}
	}
	return n, nil
}

// Len 记录总数（含已过期未清理的）
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}

func (s *MemoryStore) live(now time.Time) []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Record, 0, len(s.byID))
	for _, rec := range s.byID {
		if rec.Live(now) {
			out = append(out, *rec)
		}
	}
	return out
}
