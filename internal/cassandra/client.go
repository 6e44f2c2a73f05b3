// Package cassandra owns the single long-lived session against the
// column store. Repositories issue CQL through Execute and get rows
// back as ordered column maps, the same shape the driver's MapScan
// produces. One attempt per call; retries belong to the caller.
package cassandra

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gocql/gocql"
	"go.uber.org/zap"
)

type Config struct {
	Hosts    []string
	Port     int
	Keyspace string
	Timeout  time.Duration
}

// Client wraps one shared gocql session. Safe for concurrent use; the
// driver handles its own connection pooling under the session.
type Client struct {
	cfg Config
	log *zap.SugaredLogger

	mu      sync.Mutex
	session *gocql.Session
}

func NewClient(cfg Config, log *zap.SugaredLogger) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &Client{cfg: cfg, log: log}
}

// Connect establishes the session. Called once at startup; Execute will
// also lazily reconnect if the session is found absent.
func (c *Client) Connect() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connectLocked()
}

func (c *Client) connectLocked() error {
	cluster := gocql.NewCluster(c.cfg.Hosts...)
	cluster.Port = c.cfg.Port
	cluster.Keyspace = c.cfg.Keyspace
	cluster.Timeout = c.cfg.Timeout
	cluster.ConnectTimeout = c.cfg.Timeout
	cluster.Consistency = gocql.Quorum

	session, err := cluster.CreateSession()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrConnection, err)
	}
	c.session = session
	c.log.Infow("connected to cassandra", "hosts", c.cfg.Hosts, "keyspace", c.cfg.Keyspace)
	return nil
}

func (c *Client) getSession() (*gocql.Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil || c.session.Closed() {
		if err := c.connectLocked(); err != nil {
			return nil, err
		}
	}
	return c.session, nil
}

// Execute runs a statement and returns all resulting rows as column
// name to value maps, in the order the store yields them.
func (c *Client) Execute(ctx context.Context, stmt string, values ...any) ([]map[string]any, error) {
	session, err := c.getSession()
	if err != nil {
		return nil, err
	}

	iter := session.Query(stmt, values...).WithContext(ctx).Iter()
	var rows []map[string]any
	for {
		row := make(map[string]any)
		if !iter.MapScan(row) {
			break
		}
		rows = append(rows, row)
	}
	if err := iter.Close(); err != nil {
		return nil, wrapError(err)
	}
	return rows, nil
}

// ExecuteAsync fires the statement without waiting for the result.
// Failures are logged, never surfaced.
func (c *Client) ExecuteAsync(stmt string, values ...any) {
	go func() {
		session, err := c.getSession()
		if err != nil {
			c.log.Errorw("async query dropped", "error", err)
			return
		}
		if err := session.Query(stmt, values...).Exec(); err != nil {
			c.log.Errorw("async query failed", "error", wrapError(err))
		}
	}()
}

// Close releases the session. Call once at process shutdown.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session != nil && !c.session.Closed() {
		c.session.Close()
		c.log.Info("cassandra connection closed")
	}
	c.session = nil
}
