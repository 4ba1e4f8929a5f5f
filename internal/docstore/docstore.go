// Package docstore is the MongoDB implementation of store.DocumentStore.
package docstore

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/abhisek/learnlink/internal/config"
	"github.com/abhisek/learnlink/internal/store"
)

// Collection names.
const (
	colUsers       = "users"
	colCourses     = "courses"
	colLessons     = "lessons"
	colEnrollments = "enrollments"
	colReviews     = "reviews"
)

// Store is a connected MongoDB database.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

var _ store.DocumentStore = (*Store)(nil)

// Connect opens a client for cfg and verifies the server is reachable.
func Connect(ctx context.Context, cfg config.MongoConfig) (*Store, error) {
	opts := options.Client().
		ApplyURI(cfg.URI).
		SetAppName("learnlink")
	if cfg.Timeout > 0 {
		opts.SetServerSelectionTimeout(cfg.Timeout).SetConnectTimeout(cfg.Timeout)
	}

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, &store.UnavailableError{Store: store.StoreDocuments, Err: err}
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, &store.UnavailableError{Store: store.StoreDocuments, Err: err}
	}
	return &Store{client: client, db: client.Database(cfg.Database)}, nil
}

// Close disconnects the client.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Ping reports the server version and database name.
func (s *Store) Ping(ctx context.Context) (string, error) {
	var info struct {
		Version string `bson:"version"`
	}
	if err := s.db.RunCommand(ctx, bson.D{{Key: "buildInfo", Value: 1}}).Decode(&info); err != nil {
		return "", mapError("ping", err)
	}
	return fmt.Sprintf("version %s, database %q", info.Version, s.db.Name()), nil
}

// EnsureIndexes creates the unique and lookup indexes. It is idempotent.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	for col, models := range indexModels() {
		if _, err := s.db.Collection(col).Indexes().CreateMany(ctx, models); err != nil {
			return mapError("create indexes on "+col, err)
		}
	}
	return nil
}

func indexModels() map[string][]mongo.IndexModel {
	return map[string][]mongo.IndexModel{
		colUsers: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true).SetName("email_unique")},
			{Keys: bson.D{{Key: "role", Value: 1}}, Options: options.Index().SetName("role")},
		},
		colCourses: {
			{Keys: bson.D{{Key: "title", Value: 1}}, Options: options.Index().SetUnique(true).SetName("title_unique")},
			{Keys: bson.D{{Key: "instructor_email", Value: 1}}, Options: options.Index().SetName("instructor_email")},
			{Keys: bson.D{{Key: "title", Value: "text"}, {Key: "category", Value: "text"}}, Options: options.Index().SetName("course_text")},
		},
		colLessons: {
			{Keys: bson.D{{Key: "course_title", Value: 1}}, Options: options.Index().SetName("course_title")},
			{Keys: bson.D{{Key: "title", Value: "text"}}, Options: options.Index().SetName("lesson_text")},
		},
		colEnrollments: {
			{
				Keys:    bson.D{{Key: "user_email", Value: 1}, {Key: "course_title", Value: 1}},
				Options: options.Index().SetUnique(true).SetName("user_course_unique"),
			},
		},
		colReviews: {
			{Keys: bson.D{{Key: "course_title", Value: 1}, {Key: "username", Value: 1}}, Options: options.Index().SetName("course_username")},
		},
	}
}

// mapError translates driver errors into the store error taxonomy.
func mapError(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%s: %w", op, store.ErrDuplicate)
	case mongo.IsNetworkError(err), mongo.IsTimeout(err), errors.Is(err, mongo.ErrClientDisconnected):
		return &store.UnavailableError{Store: store.StoreDocuments, Err: fmt.Errorf("%s: %w", op, err)}
	}
	return fmt.Errorf("%s: %w", op, err)
}

// findOne decodes the first match into v and reports whether one existed.
func (s *Store) findOne(ctx context.Context, col string, filter any, v any) (bool, error) {
	err := s.db.Collection(col).FindOne(ctx, filter).Decode(v)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	if err != nil {
		return false, mapError("find "+col, err)
	}
	return true, nil
}

func findAll[T any](ctx context.Context, s *Store, col string, filter any, opts ...*options.FindOptions) ([]T, error) {
	cur, err := s.db.Collection(col).Find(ctx, filter, opts...)
	if err != nil {
		return nil, mapError("find "+col, err)
	}
	var out []T
	if err := cur.All(ctx, &out); err != nil {
		return nil, mapError("decode "+col, err)
	}
	return out, nil
}

func (s *Store) insert(ctx context.Context, col string, doc any) error {
	_, err := s.db.Collection(col).InsertOne(ctx, doc)
	return mapError("insert "+col, err)
}
