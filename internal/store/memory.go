package store

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"spyfall/internal/game"
)

// ErrTableNotFound is returned for unknown table codes
var ErrTableNotFound = errors.New("table not found")

// EventHandler receives every engine event along with its table code
type EventHandler func(code string, ev game.Event)

// Table is one shared device's game
type Table struct {
	Code      string
	Engine    *game.Engine
	CreatedAt time.Time

	lastSeen time.Time
}

// Option configures a MemoryStore
type Option func(*MemoryStore)

// WithTableTimeout sets how long a table may sit idle before Sweep drops it
func WithTableTimeout(d time.Duration) Option {
	return func(s *MemoryStore) { s.timeout = d }
}

// WithLogger sets the store logger, which is also handed to every engine
func WithLogger(logger *slog.Logger) Option {
	return func(s *MemoryStore) { s.logger = logger }
}

// WithEngineOptions adds options to every engine the store creates
func WithEngineOptions(opts ...game.Option) Option {
	return func(s *MemoryStore) { s.engineOpts = append(s.engineOpts, opts...) }
}

// WithNow replaces the wall clock used for idle tracking
func WithNow(now func() time.Time) Option {
	return func(s *MemoryStore) { s.now = now }
}

// MemoryStore holds all tables in memory
type MemoryStore struct {
	mu     sync.RWMutex
	tables map[string]*Table

	catalog    game.LocationCatalog
	rules      game.Rules
	timeout    time.Duration
	logger     *slog.Logger
	engineOpts []game.Option
	now        func() time.Time
	handler    EventHandler
}

// NewMemoryStore creates a new in-memory store. Every table gets an engine
// with the given catalog and rules.
func NewMemoryStore(catalog game.LocationCatalog, rules game.Rules, opts ...Option) *MemoryStore {
	s := &MemoryStore{
		tables:  make(map[string]*Table),
		catalog: catalog,
		rules:   rules,
		timeout: 6 * time.Hour,
		logger:  slog.Default(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// OnEvent registers the handler for engine events of every table
func (s *MemoryStore) OnEvent(h EventHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.handler = h
}

func (s *MemoryStore) dispatch(code string, ev game.Event) {
	s.mu.RLock()
	h := s.handler
	s.mu.RUnlock()

	if h != nil {
		h(code, ev)
	}
}

// CreateTable creates a new table with an empty roster
func (s *MemoryStore) CreateTable() (*Table, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var code string
	for i := 0; ; i++ {
		if i == 10 {
			return nil, fmt.Errorf("could not generate a unique table code")
		}
		code = generateTableCode()
		if _, exists := s.tables[code]; !exists {
			break
		}
	}

	opts := []game.Option{
		game.WithRules(s.rules),
		game.WithLogger(s.logger.With("table", code)),
		game.WithListener(func(ev game.Event) { s.dispatch(code, ev) }),
	}
	opts = append(opts, s.engineOpts...)

	now := s.now()
	table := &Table{
		Code:      code,
		Engine:    game.NewEngine(s.catalog, opts...),
		CreatedAt: now,
		lastSeen:  now,
	}
	s.tables[code] = table

	s.logger.Info("table created", "table", code, "tables", len(s.tables))
	return table, nil
}

// GetTable retrieves a table by code and marks it as in use
func (s *MemoryStore) GetTable(code string) (*Table, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	table, exists := s.tables[code]
	if !exists {
		return nil, fmt.Errorf("table %s: %w", code, ErrTableNotFound)
	}
	table.lastSeen = s.now()
	return table, nil
}

// Touch marks a table as in use without returning it
func (s *MemoryStore) Touch(code string) bool {
	_, err := s.GetTable(code)
	return err == nil
}

// DeleteTable removes a table and stops its engine
func (s *MemoryStore) DeleteTable(code string) error {
	s.mu.Lock()
	table, exists := s.tables[code]
	delete(s.tables, code)
	s.mu.Unlock()

	if !exists {
		return fmt.Errorf("table %s: %w", code, ErrTableNotFound)
	}
	table.Engine.Close()
	s.logger.Info("table deleted", "table", code)
	return nil
}

// Codes returns the codes of all tables, sorted
func (s *MemoryStore) Codes() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	codes := make([]string, 0, len(s.tables))
	for code := range s.tables {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// Len returns the number of tables
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.tables)
}

// Sweep drops tables idle for longer than the table timeout and returns
// their codes
func (s *MemoryStore) Sweep(now time.Time) []string {
	s.mu.Lock()
	var expired []*Table
	for code, table := range s.tables {
		if now.Sub(table.lastSeen) > s.timeout {
			expired = append(expired, table)
			delete(s.tables, code)
		}
	}
	s.mu.Unlock()

	codes := make([]string, 0, len(expired))
	for _, table := range expired {
		table.Engine.Close()
		codes = append(codes, table.Code)
	}
	if len(codes) > 0 {
		sort.Strings(codes)
		s.logger.Info("swept idle tables", "count", len(codes), "tables", codes)
	}
	return codes
}

// Run sweeps idle tables every interval until ctx is done
func (s *MemoryStore) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep(s.now())
		}
	}
}

// Close stops every engine and empties the store
func (s *MemoryStore) Close() {
	s.mu.Lock()
	tables := s.tables
	s.tables = make(map[string]*Table)
	s.mu.Unlock()

	for _, table := range tables {
		table.Engine.Close()
	}
}

// generateTableCode generates a 5-character alphanumeric code
func generateTableCode() string {
	const chars = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	b := make([]byte, 5)
	rand.Read(b)

	for i := range b {
		b[i] = chars[b[i]%byte(len(chars))]
	}

	return string(b)
}
