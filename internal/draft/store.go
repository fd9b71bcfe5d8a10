package draft

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// DefaultTTL is how long an untouched draft survives before it is dropped.
const DefaultTTL = 2 * time.Hour

var ErrDraftNotFound = errors.New("draft: not found")

// Store persists drafts between editor requests. Drafts are keyed by the
// order id; editing the items of a new, unsaved order uses a fresh uuid.
type Store interface {
	Load(ctx context.Context, encomendaID uuid.UUID) (*List, error)
	Save(ctx context.Context, l *List) error
	Delete(ctx context.Context, encomendaID uuid.UUID) error
}

// MemoryStore is the fallback used when Redis is not configured. Entries
// expire lazily on access. Load and Save copy the draft both ways, so two
// handlers editing the same order never alias the stored rows; the stored
// draft only changes on Save, as with the Redis JSON round-trip.
type MemoryStore struct {
	mu  sync.Mutex
	ttl time.Duration
	m   map[uuid.UUID]memoryEntry
}

type memoryEntry struct {
	list      *List
	expiresAt time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryStore{ttl: ttl, m: make(map[uuid.UUID]memoryEntry)}
}

func (s *MemoryStore) Load(_ context.Context, encomendaID uuid.UUID) (*List, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.m[encomendaID]
	if !ok || time.Now().After(e.expiresAt) {
		delete(s.m, encomendaID)
		return nil, ErrDraftNotFound
	}
	return e.list.Clone(), nil
}

func (s *MemoryStore) Save(_ context.Context, l *List) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[l.EncomendaID] = memoryEntry{list: l.Clone(), expiresAt: time.Now().Add(s.ttl)}
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, encomendaID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, encomendaID)
	return nil
}

// RedisStore keeps drafts in Redis as JSON with a TTL, so the editor
// survives process restarts and works behind multiple instances.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisStore{client: client, ttl: ttl}
}

func draftKey(encomendaID uuid.UUID) string {
	return "gestionchs:draft:" + encomendaID.String()
}

func (s *RedisStore) Load(ctx context.Context, encomendaID uuid.UUID) (*List, error) {
	raw, err := s.client.Get(ctx, draftKey(encomendaID)).Bytes()
	if err == redis.Nil {
		return nil, ErrDraftNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("draft: load: %w", err)
	}
	var l List
	if err := json.Unmarshal(raw, &l); err != nil {
		return nil, fmt.Errorf("draft: decode: %w", err)
	}
	return &l, nil
}

func (s *RedisStore) Save(ctx context.Context, l *List) error {
	raw, err := json.Marshal(l)
	if err != nil {
		return fmt.Errorf("draft: encode: %w", err)
	}
	if err := s.client.Set(ctx, draftKey(l.EncomendaID), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("draft: save: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, encomendaID uuid.UUID) error {
	if err := s.client.Del(ctx, draftKey(encomendaID)).Err(); err != nil {
		return fmt.Errorf("draft: delete: %w", err)
	}
	return nil
}
