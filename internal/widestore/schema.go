package widestore

import (
	"context"
	"fmt"
	"regexp"

	"github.com/abhisek/learnlink/internal/config"
	"github.com/abhisek/learnlink/internal/store"
)

var keyspaceRe = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]{0,47}$`)

// validKeyspace rejects names that cannot be used unquoted in CQL. The
// keyspace is the only identifier spliced into statement text.
func validKeyspace(name string) error {
	if !keyspaceRe.MatchString(name) {
		return fmt.Errorf("invalid cassandra keyspace %q", name)
	}
	return nil
}

var tableStatements = []string{
	`CREATE TABLE IF NOT EXISTS %s.logs_by_user (
		email text,
		action text,
		action_date timestamp,
		user_id uuid,
		name text,
		role text,
		PRIMARY KEY ((email), action, action_date)
	) WITH CLUSTERING ORDER BY (action ASC, action_date DESC)`,
	`CREATE TABLE IF NOT EXISTS %s.logs_by_role (
		role text,
		email text,
		action_date timestamp,
		name text,
		action text,
		user_id uuid,
		PRIMARY KEY ((role), email, action_date)
	) WITH CLUSTERING ORDER BY (email ASC, action_date DESC)`,
	`CREATE TABLE IF NOT EXISTS %s.student_portfolio (
		email text,
		status text,
		course_title text,
		name text,
		grade double,
		course_id uuid,
		user_id uuid,
		PRIMARY KEY ((email), status, course_title)
	)`,
	`CREATE TABLE IF NOT EXISTS %s.course_activity (
		course_title text,
		status text,
		email text,
		name text,
		grade double,
		course_id uuid,
		user_id uuid,
		PRIMARY KEY ((course_title), status, email)
	)`,
}

// schemaStatements returns the keyspace and table DDL for cfg.
func schemaStatements(cfg config.CassandraConfig) ([]string, error) {
	if err := validKeyspace(cfg.Keyspace); err != nil {
		return nil, err
	}
	rf := cfg.ReplicationFactor
	if rf < 1 {
		rf = 1
	}
	stmts := []string{fmt.Sprintf(
		`CREATE KEYSPACE IF NOT EXISTS %s WITH replication = {'class': 'SimpleStrategy', 'replication_factor': %d}`,
		cfg.Keyspace, rf,
	)}
	for _, t := range tableStatements {
		stmts = append(stmts, fmt.Sprintf(t, cfg.Keyspace))
	}
	return stmts, nil
}

// EnsureSchema creates the keyspace and the four tables. It connects
// without a keyspace so it can run against an empty cluster.
func EnsureSchema(ctx context.Context, cfg config.CassandraConfig) error {
	stmts, err := schemaStatements(cfg)
	if err != nil {
		return err
	}
	cluster, err := newCluster(cfg)
	if err != nil {
		return err
	}
	session, err := cluster.CreateSession()
	if err != nil {
		return &store.UnavailableError{Store: store.StoreWide, Err: err}
	}
	defer session.Close()

	for _, stmt := range stmts {
		if err := session.Query(stmt).WithContext(ctx).Exec(); err != nil {
			return mapError("apply schema", err)
		}
	}
	return nil
}
