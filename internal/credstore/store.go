package credstore

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
)

// StorageKey is the single profile entry that holds the signed-in credentials.
const StorageKey = "quiz_auth_credentials"

var (
	ErrNotFound  = errors.New("no stored credentials")
	ErrMalformed = errors.New("stored credentials are malformed")
)

// Credentials are kept as entered; they are the only proof of identity the
// backend accepts, so they are not hashed on the client.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Store persists the credential pair. Swapping the implementation (for example
// for a token-based scheme) does not affect session or flow logic.
type Store interface {
	Load(ctx context.Context) (Credentials, error)
	Save(ctx context.Context, creds Credentials) error
	Clear(ctx context.Context) error
}

// KeyValue is the profile storage the credential entry lives in.
type KeyValue interface {
	GetItem(ctx context.Context, key string) (string, bool, error)
	SetItem(ctx context.Context, key, value string) error
	RemoveItem(ctx context.Context, key string) error
}

// KVStore keeps credentials as a JSON document under StorageKey.
type KVStore struct {
	kv KeyValue
}

func NewKVStore(kv KeyValue) *KVStore {
	return &KVStore{kv: kv}
}

func (s *KVStore) Load(ctx context.Context) (Credentials, error) {
	raw, ok, err := s.kv.GetItem(ctx, StorageKey)
	if err != nil {
		return Credentials{}, err
	}
	if !ok {
		return Credentials{}, ErrNotFound
	}

	var creds Credentials
	if err := json.Unmarshal([]byte(raw), &creds); err != nil {
		return Credentials{}, errors.Join(ErrMalformed, err)
	}
	if strings.TrimSpace(creds.Username) == "" || creds.Password == "" {
		return Credentials{}, ErrMalformed
	}
	return creds, nil
}

func (s *KVStore) Save(ctx context.Context, creds Credentials) error {
	encoded, err := json.Marshal(creds)
	if err != nil {
		return err
	}
	return s.kv.SetItem(ctx, StorageKey, string(encoded))
}

func (s *KVStore) Clear(ctx context.Context) error {
	return s.kv.RemoveItem(ctx, StorageKey)
}

// MemoryKV is an in-process KeyValue, used for "memory" profiles and tests.
type MemoryKV struct {
	mu    sync.Mutex
	items map[string]string
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{items: make(map[string]string)}
}

func (m *MemoryKV) GetItem(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	value, ok := m.items[key]
	return value, ok, nil
}

func (m *MemoryKV) SetItem(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = value
	return nil
}

func (m *MemoryKV) RemoveItem(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, key)
	return nil
}
