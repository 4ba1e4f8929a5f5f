// Package widestore is the Cassandra implementation of store.WideStore.
// Every statement binds its values with ? placeholders.
package widestore

import (
	"context"
	"errors"
	"fmt"

	"github.com/gocql/gocql"

	"github.com/abhisek/learnlink/internal/config"
	"github.com/abhisek/learnlink/internal/store"
)

// Store is an open Cassandra session bound to the LearnLink keyspace.
type Store struct {
	session  *gocql.Session
	keyspace string
}

var _ store.WideStore = (*Store)(nil)

func newCluster(cfg config.CassandraConfig) (*gocql.ClusterConfig, error) {
	cluster := gocql.NewCluster(cfg.Hosts...)
	if cfg.Port > 0 {
		cluster.Port = cfg.Port
	}
	if cfg.Timeout > 0 {
		cluster.Timeout = cfg.Timeout
		cluster.ConnectTimeout = cfg.Timeout
	}
	if cfg.Consistency != "" {
		c, err := gocql.ParseConsistencyWrapper(cfg.Consistency)
		if err != nil {
			return nil, fmt.Errorf("cassandra consistency: %w", err)
		}
		cluster.Consistency = c
	}
	return cluster, nil
}

// Open connects to the keyspace named in cfg.
func Open(cfg config.CassandraConfig) (*Store, error) {
	if err := validKeyspace(cfg.Keyspace); err != nil {
		return nil, err
	}
	cluster, err := newCluster(cfg)
	if err != nil {
		return nil, err
	}
	cluster.Keyspace = cfg.Keyspace

	session, err := cluster.CreateSession()
	if err != nil {
		return nil, &store.UnavailableError{Store: store.StoreWide, Err: err}
	}
	return &Store{session: session, keyspace: cfg.Keyspace}, nil
}

func (s *Store) Close() {
	s.session.Close()
}

// Ping reads the cluster name and release from system.local.
func (s *Store) Ping(ctx context.Context) (string, error) {
	var cluster, release string
	err := s.session.Query(`SELECT cluster_name, release_version FROM system.local`).
		WithContext(ctx).
		Scan(&cluster, &release)
	if err != nil {
		return "", mapError("ping", err)
	}
	return fmt.Sprintf("cluster %q, release %s, keyspace %q", cluster, release, s.keyspace), nil
}

func (s *Store) exec(ctx context.Context, op, stmt string, values ...any) error {
	return mapError(op, s.session.Query(stmt, values...).WithContext(ctx).Exec())
}

var unavailableErrs = [...]error{
	gocql.ErrNoConnections,
	gocql.ErrNoConnectionsStarted,
	gocql.ErrSessionClosed,
	gocql.ErrTimeoutNoResponse,
	gocql.ErrConnectionClosed,
	gocql.ErrNoHosts,
	context.DeadlineExceeded,
}

// mapError translates driver errors into the store error taxonomy.
func mapError(op string, err error) error {
	if err == nil {
		return nil
	}
	wrapped := fmt.Errorf("%s: %w", op, err)
	for _, target := range unavailableErrs {
		if errors.Is(err, target) {
			return &store.UnavailableError{Store: store.StoreWide, Err: wrapped}
		}
	}
	var reqUnavailable *gocql.RequestErrUnavailable
	if errors.As(err, &reqUnavailable) {
		return &store.UnavailableError{Store: store.StoreWide, Err: wrapped}
	}
	return wrapped
}
