package utils

import (
	"strings"
	"sync"
	"time"
)

// RateLimiter ограничивает число попыток входа на идентификатор в скользящем окне
type RateLimiter struct {
	mu       sync.Mutex
	attempts map[string][]time.Time
	limit    int
	window   time.Duration
	now      func() time.Time
}

// NewRateLimiter создает новый RateLimiter
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		attempts: make(map[string][]time.Time),
		limit:    limit,
		window:   window,
		now:      time.Now,
	}
}

// SetClock подменяет источник времени
func (rl *RateLimiter) SetClock(now func() time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.now = now
}

func normalizeKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}

// prune оставляет только попытки внутри окна. Вызывать под mu.
func (rl *RateLimiter) prune(key string) []time.Time {
	windowStart := rl.now().Add(-rl.window)
	var valid []time.Time
	for _, t := range rl.attempts[key] {
		if t.After(windowStart) {
			valid = append(valid, t)
		}
	}
	if len(valid) == 0 {
		delete(rl.attempts, key)
	} else {
		rl.attempts[key] = valid
	}
	return valid
}

// Allow регистрирует попытку и сообщает, разрешена ли она
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	key = normalizeKey(key)
	if len(rl.prune(key)) >= rl.limit {
		return false
	}
	rl.attempts[key] = append(rl.attempts[key], rl.now())
	return true
}

// Reset сбрасывает счетчик для ключа (после успешного входа)
func (rl *RateLimiter) Reset(key string) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	delete(rl.attempts, normalizeKey(key))
}

// GetRemaining возвращает количество оставшихся попыток
func (rl *RateLimiter) GetRemaining(key string) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return rl.limit - len(rl.prune(normalizeKey(key)))
}

// GetResetTime возвращает момент, когда освободится самая старая попытка
func (rl *RateLimiter) GetResetTime(key string) time.Time {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	valid := rl.prune(normalizeKey(key))
	if len(valid) == 0 {
		return rl.now()
	}
	return valid[0].Add(rl.window)
}
