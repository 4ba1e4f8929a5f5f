// Package graphstore is the Dgraph implementation of store.GraphStore. It
// talks to an Alpha over gRPC through dgo.
package graphstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dgraph-io/dgo/v240"
	"github.com/dgraph-io/dgo/v240/protos/api"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"

	"github.com/abhisek/learnlink/internal/config"
	"github.com/abhisek/learnlink/internal/store"
)

// Store is a Dgraph client.
type Store struct {
	conn *grpc.ClientConn
	api  api.DgraphClient
	dg   *dgo.Dgraph
}

var _ store.GraphStore = (*Store)(nil)

// Open dials the Alpha gRPC endpoint. The connection is established
// lazily; use Ping to check reachability.
func Open(cfg config.DgraphConfig) (*Store, error) {
	conn, err := grpc.NewClient(cfg.Address, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, &store.UnavailableError{Store: store.StoreGraph, Err: err}
	}
	client := api.NewDgraphClient(conn)
	return &Store{conn: conn, api: client, dg: dgo.NewDgraphClient(client)}, nil
}

func (s *Store) Close() error {
	return s.conn.Close()
}

// Ping asks the Alpha for its version.
func (s *Store) Ping(ctx context.Context) (string, error) {
	v, err := s.api.CheckVersion(ctx, &api.Check{})
	if err != nil {
		return "", mapError("check version", err)
	}
	return "version " + v.GetTag(), nil
}

// EnsureSchema applies Schema. Dgraph merges schema updates, so it is safe
// to run repeatedly.
func (s *Store) EnsureSchema(ctx context.Context) error {
	return mapError("alter schema", s.dg.Alter(ctx, &api.Operation{Schema: Schema}))
}

// query runs q read-only and decodes its "q" block into a slice of T.
func query[T any](ctx context.Context, s *Store, op, q string, vars map[string]string) ([]T, error) {
	txn := s.dg.NewReadOnlyTxn()
	defer func() { _ = txn.Discard(ctx) }()

	var (
		resp *api.Response
		err  error
	)
	if len(vars) == 0 {
		resp, err = txn.Query(ctx, q)
	} else {
		resp, err = txn.QueryWithVars(ctx, q, vars)
	}
	if err != nil {
		return nil, mapError(op, err)
	}
	out, err := decode[T](resp.GetJson())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}

func decode[T any](data []byte) ([]T, error) {
	var body struct {
		Q []T `json:"q"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return body.Q, nil
}

// mutate commits a set mutation and returns the UID minted for label.
func (s *Store) mutate(ctx context.Context, op string, q *nquads, label string) (string, error) {
	payload, err := q.Bytes()
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	txn := s.dg.NewTxn()
	defer func() { _ = txn.Discard(ctx) }()

	resp, err := txn.Mutate(ctx, &api.Mutation{SetNquads: payload, CommitNow: true})
	if err != nil {
		return "", mapError(op, err)
	}
	uid, ok := resp.GetUids()[label]
	if !ok {
		return "", fmt.Errorf("%s: no uid returned for %s", op, label)
	}
	return uid, nil
}

// mapError translates gRPC failures into the store error taxonomy.
func mapError(op string, err error) error {
	if err == nil {
		return nil
	}
	wrapped := fmt.Errorf("%s: %w", op, err)
	if errors.Is(err, context.DeadlineExceeded) {
		return &store.UnavailableError{Store: store.StoreGraph, Err: wrapped}
	}
	switch status.Code(err) {
	case codes.Unavailable, codes.DeadlineExceeded:
		return &store.UnavailableError{Store: store.StoreGraph, Err: wrapped}
	}
	return wrapped
}
