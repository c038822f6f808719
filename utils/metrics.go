package utils

import (
	"sort"
	"sync"
	"time"
)

// Metrics содержит счетчики процесса
type Metrics struct {
	mu sync.RWMutex

	// Метрики операций
	TotalOperations  int64
	FailedOperations int64
	TotalLatency     time.Duration
	LastOperation    time.Time
	Operations       map[string]int64

	// Метрики ошибок
	ErrorTypes    map[string]int64
	LastErrorTime time.Time

	// Метрики хранилища
	StoreFlushes int64
}

// NewMetrics создает новый экземпляр Metrics
func NewMetrics() *Metrics {
	return &Metrics{
		Operations: make(map[string]int64),
		ErrorTypes: make(map[string]int64),
	}
}

// RecordOperation записывает выполненную операцию. kind классифицирует ошибку.
func (m *Metrics) RecordOperation(name string, duration time.Duration, err error, kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.TotalOperations++
	m.TotalLatency += duration
	m.LastOperation = time.Now()
	m.Operations[name]++

	if err != nil {
		m.FailedOperations++
		m.recordError(kind)
	}
}

// RecordError записывает ошибку вне операции
func (m *Metrics) RecordError(kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recordError(kind)
}

func (m *Metrics) recordError(kind string) {
	if kind == "" {
		kind = "unknown"
	}
	m.ErrorTypes[kind]++
	m.LastErrorTime = time.Now()
}

// SetStoreFlushes фиксирует число перезаписей файла хранилища
func (m *Metrics) SetStoreFlushes(n int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.StoreFlushes = n
}

// AverageLatency возвращает среднюю длительность операции
func (m *Metrics) AverageLatency() time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.TotalOperations == 0 {
		return 0
	}
	return m.TotalLatency / time.Duration(m.TotalOperations)
}

// GetMetricsSnapshot возвращает снимок текущих метрик
func (m *Metrics) GetMetricsSnapshot() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ops := make(map[string]int64, len(m.Operations))
	for k, v := range m.Operations {
		ops[k] = v
	}
	errs := make(map[string]int64, len(m.ErrorTypes))
	for k, v := range m.ErrorTypes {
		errs[k] = v
	}

	return map[string]interface{}{
		"total_operations":  m.TotalOperations,
		"failed_operations": m.FailedOperations,
		"operations":        ops,
		"error_types":       errs,
		"store_flushes":     m.StoreFlushes,
		"last_error_time":   m.LastErrorTime,
	}
}

// OperationNames возвращает имена выполненных операций по алфавиту
func (m *Metrics) OperationNames() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.Operations))
	for k := range m.Operations {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// ResetMetrics сбрасывает все метрики
func (m *Metrics) ResetMetrics() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.TotalOperations = 0
	m.FailedOperations = 0
	m.TotalLatency = 0
	m.StoreFlushes = 0
	m.Operations = make(map[string]int64)
	m.ErrorTypes = make(map[string]int64)
}
