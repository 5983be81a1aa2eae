package dialog

import (
	"context"
	"encoding/json"
	"sync"
)

// MemStore — хранилище в памяти, когда Postgres не настроен.
// Payload проходит через JSON, как и в Repo, чтобы типы значений совпадали.
type MemStore struct {
	mu    sync.Mutex
	items map[int64]memItem
}

type memItem struct {
	state State
	raw   []byte
}

func NewMemStore() *MemStore { return &MemStore{items: map[int64]memItem{}} }

func (s *MemStore) Get(_ context.Context, chatID int64) (*Item, error) {
	s.mu.Lock()
	it, ok := s.items[chatID]
	s.mu.Unlock()
	if !ok {
		return &Item{ChatID: chatID, State: StateIdle, Payload: Payload{}}, nil
	}
	p := Payload{}
	if err := json.Unmarshal(it.raw, &p); err != nil {
		return nil, err
	}
	return &Item{ChatID: chatID, State: it.state, Payload: p}, nil
}

func (s *MemStore) Set(_ context.Context, chatID int64, state State, payload Payload) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.items[chatID] = memItem{state: state, raw: raw}
	s.mu.Unlock()
	return nil
}

func (s *MemStore) Reset(_ context.Context, chatID int64) error {
	s.mu.Lock()
	delete(s.items, chatID)
	s.mu.Unlock()
	return nil
}
