package testutil

import (
	"context"
	"fmt"
	"lecturebot/internal/catalog/interfaces"
	"lecturebot/internal/models"
	"lecturebot/internal/providers"
	"lecturebot/internal/transport"
	"strings"
	"sync"
	"time"
)

// MockLogger implements providers.Logger and records calls.
type MockLogger struct {
	mu   sync.Mutex
	Logs []LogEntry
}

type LogEntry struct {
	Level  string
	Type   providers.TypeEnum
	Format string
	Args   []interface{}
}

func (m *MockLogger) record(level string, t providers.TypeEnum, format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs = append(m.Logs, LogEntry{Level: level, Type: t, Format: format, Args: args})
}

func (m *MockLogger) Errorf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("error", t, format, args...)
}
func (m *MockLogger) Warnf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("warn", t, format, args...)
}
func (m *MockLogger) Debugf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("debug", t, format, args...)
}
func (m *MockLogger) Infof(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("info", t, format, args...)
}
func (m *MockLogger) Fatalf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("fatal", t, format, args...)
}
func (m *MockLogger) Close() {}

// Count returns how many entries were logged at level.
func (m *MockLogger) Count(level string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, l := range m.Logs {
		if l.Level == level {
			n++
		}
	}
	return n
}

// Contains reports whether any rendered message at level contains substr.
func (m *MockLogger) Contains(level, substr string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, l := range m.Logs {
		if l.Level == level && strings.Contains(fmt.Sprintf(l.Format, l.Args...), substr) {
			return true
		}
	}
	return false
}

// MockCache implements providers.CacheProviderInterface. SetErr makes every
// Set fail without storing.
type MockCache struct {
	mu     sync.Mutex
	Data   map[string][]byte
	SetErr error
}

func NewMockCache() *MockCache {
	return &MockCache{Data: make(map[string][]byte)}
}

func (m *MockCache) Get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.Data[key]
	return val, ok
}

func (m *MockCache) Set(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SetErr != nil {
		return m.SetErr
	}
	m.Data[key] = value
	return nil
}

// MockCompressor implements interfaces.CompressorInterface with injectable behavior.
type MockCompressor struct {
	CompressFn   func([]byte) ([]byte, error)
	DecompressFn func([]byte) ([]byte, error)
	Closed       bool
}

func (m *MockCompressor) Compress(val []byte) ([]byte, error) {
	if m.CompressFn != nil {
		return m.CompressFn(val)
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MockCompressor) Decompress(val []byte) ([]byte, error) {
	if m.DecompressFn != nil {
		return m.DecompressFn(val)
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MockCompressor) Close() { m.Closed = true }

// MockBackend implements interfaces.BackendInterface in memory.
type MockBackend struct {
	mu       sync.Mutex
	Data     []byte
	ReadErr  error
	WriteErr error
	Writes   int
	Closed   bool
}

// NewMockBackend starts with raw as the stored document; nil means empty.
func NewMockBackend(raw string) *MockBackend {
	b := &MockBackend{}
	if raw != "" {
		b.Data = []byte(raw)
	}
	return b
}

func (m *MockBackend) Read(_ context.Context) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ReadErr != nil {
		return nil, m.ReadErr
	}
	if m.Data == nil {
		return nil, interfaces.ErrNoDocument
	}
	out := make([]byte, len(m.Data))
	copy(out, m.Data)
	return out, nil
}

func (m *MockBackend) Write(_ context.Context, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.WriteErr != nil {
		return m.WriteErr
	}
	m.Writes++
	m.Data = append([]byte(nil), data...)
	return nil
}

func (m *MockBackend) SetWriteErr(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.WriteErr = err
}

func (m *MockBackend) Stored() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return string(m.Data)
}

func (m *MockBackend) Close() error {
	m.Closed = true
	return nil
}

// MockMetrics implements providers.MetricsProviderInterface and counts calls by label.
type MockMetrics struct {
	mu         sync.Mutex
	Updates    map[string]int
	Errors     map[string]int
	Deliveries map[string]int
	Hits       map[string]int
	Misses     map[string]int
	Persisted  int
}

func NewMockMetrics() *MockMetrics {
	return &MockMetrics{
		Updates:    make(map[string]int),
		Errors:     make(map[string]int),
		Deliveries: make(map[string]int),
		Hits:       make(map[string]int),
		Misses:     make(map[string]int),
	}
}

func (m *MockMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (m *MockMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (m *MockMetrics) IncCacheHits(cache string)                        { m.mu.Lock(); m.Hits[cache]++; m.mu.Unlock() }
func (m *MockMetrics) IncCacheMisses(cache string)                      { m.mu.Lock(); m.Misses[cache]++; m.mu.Unlock() }
func (m *MockMetrics) ObservePersistenceDuration(_ time.Duration) {
	m.mu.Lock()
	m.Persisted++
	m.mu.Unlock()
}
func (m *MockMetrics) IncUpdates(kind string) {
	m.mu.Lock()
	m.Updates[kind]++
	m.mu.Unlock()
}
func (m *MockMetrics) IncErrors(kind string) {
	m.mu.Lock()
	m.Errors[kind]++
	m.mu.Unlock()
}
func (m *MockMetrics) IncDeliveries(status string) {
	m.mu.Lock()
	m.Deliveries[status]++
	m.mu.Unlock()
}

type Rendered struct {
	Surface transport.Surface
	Message transport.Message
}

type Duplicated struct {
	From      models.SourceGroup
	MessageID int
	To        int64
}

type Answered struct {
	CallbackID string
	Text       string
}

// MockTransport implements transport.TransportInterface and records traffic.
type MockTransport struct {
	mu           sync.Mutex
	Renders      []Rendered
	Duplicates   []Duplicated
	Answers      []Answered
	RenderErr    error
	DuplicateErr error
	nextID       int
}

func (m *MockTransport) Render(_ context.Context, surface transport.Surface, msg transport.Message) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.RenderErr != nil {
		return 0, m.RenderErr
	}
	m.Renders = append(m.Renders, Rendered{Surface: surface, Message: msg})
	if surface.MessageID != 0 {
		return surface.MessageID, nil
	}
	m.nextID++
	return m.nextID, nil
}

func (m *MockTransport) Duplicate(_ context.Context, from models.SourceGroup, messageID int, to int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.DuplicateErr != nil {
		return m.DuplicateErr
	}
	m.Duplicates = append(m.Duplicates, Duplicated{From: from, MessageID: messageID, To: to})
	return nil
}

func (m *MockTransport) AnswerCallback(_ context.Context, callbackID, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Answers = append(m.Answers, Answered{CallbackID: callbackID, Text: text})
	return nil
}

// Last returns the most recent render.
func (m *MockTransport) Last() Rendered {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Renders) == 0 {
		return Rendered{}
	}
	return m.Renders[len(m.Renders)-1]
}

// MockLimiter implements ratelimit.LimiterInterface.
type MockLimiter struct {
	Deny  bool
	Calls []string
}

func (m *MockLimiter) Allow(_ context.Context, key string) bool {
	m.Calls = append(m.Calls, key)
	return !m.Deny
}
