package probe

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/lib/pq"
)

// PingProber checks readiness by pinging PostgreSQL over a real
// connection. The pool is capped at a single connection: this is a
// readiness gate, not a data path.
type PingProber struct {
	dsn     string
	timeout time.Duration

	mu sync.Mutex
	db *sql.DB
}

// NewPingProber creates a prober for the given PostgreSQL DSN.
// perCheckTimeout bounds each individual ping; 0 disables the bound.
func NewPingProber(dsn string, perCheckTimeout time.Duration) *PingProber {
	return &PingProber{dsn: dsn, timeout: perCheckTimeout}
}

// Check opens the pool lazily and pings the server
func (p *PingProber) Check(ctx context.Context) error {
	p.mu.Lock()
	if p.db == nil {
		db, err := sql.Open("postgres", p.dsn)
		if err != nil {
			p.mu.Unlock()
			return fmt.Errorf("failed to open database: %w", err)
		}
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		p.db = db
	}
	db := p.db
	p.mu.Unlock()

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("database not ready: %w", err)
	}
	return nil
}

// Close releases the probe connection
func (p *PingProber) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.db == nil {
		return nil
	}
	err := p.db.Close()
	p.db = nil
	return err
}
