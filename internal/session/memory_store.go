package session

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.uber.org/zap"
)

// MemoryStore хранит отозванные токены в LRU внутри процесса.
// Используется когда Redis не настроен; переживает только текущий запуск.
//
// Записи живут не дольше ttl (время жизни токена), поэтому место освобождается
// само. Если за ttl отозвано больше size токенов, самые старые вытесняются
// раньше срока и снова проходят проверку; такие вытеснения логируются.
type MemoryStore struct {
	cache  *expirable.LRU[string, time.Time]
	now    func() time.Time
	early  atomic.Int64
	logger *zap.Logger
}

func NewMemoryStore(size int, ttl time.Duration, logger *zap.Logger) (*MemoryStore, error) {
	if size <= 0 {
		return nil, errors.New("revoked token cache size must be positive")
	}
	if ttl <= 0 {
		return nil, errors.New("revoked token ttl must be positive")
	}

	s := &MemoryStore{now: time.Now, logger: logger}
	s.cache = expirable.NewLRU[string, time.Time](size, s.onEvict, ttl)
	return s, nil
}

func (s *MemoryStore) onEvict(tokenID string, until time.Time) {
	if !until.After(s.now()) {
		return
	}
	s.early.Add(1)
	s.logger.Warn("Revoked token evicted before expiry, increase REVOKED_CACHE_SIZE or configure REDIS_ADDR",
		zap.String("token_id", tokenID),
		zap.Time("until", until),
	)
}

func (s *MemoryStore) Revoke(_ context.Context, tokenID string, until time.Time) error {
	if !until.After(s.now()) {
		return nil
	}
	s.cache.Add(tokenID, until)
	return nil
}

func (s *MemoryStore) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	until, ok := s.cache.Get(tokenID)
	if !ok {
		return false, nil
	}
	if !until.After(s.now()) {
		s.cache.Remove(tokenID)
		return false, nil
	}
	return true, nil
}

// EarlyEvictions сколько отозванных токенов вытеснено до истечения срока
func (s *MemoryStore) EarlyEvictions() int64 {
	return s.early.Load()
}
