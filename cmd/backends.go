package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/abhisek/learnlink/internal/activity"
	"github.com/abhisek/learnlink/internal/catalog"
	"github.com/abhisek/learnlink/internal/config"
	"github.com/abhisek/learnlink/internal/docstore"
	"github.com/abhisek/learnlink/internal/enrollment"
	"github.com/abhisek/learnlink/internal/graphstore"
	"github.com/abhisek/learnlink/internal/health"
	"github.com/abhisek/learnlink/internal/identity"
	"github.com/abhisek/learnlink/internal/logger"
	"github.com/abhisek/learnlink/internal/menu"
	"github.com/abhisek/learnlink/internal/reports"
	"github.com/abhisek/learnlink/internal/store"
	"github.com/abhisek/learnlink/internal/widestore"
)

const closeTimeout = 5 * time.Second

// backends are the open store handles of one process.
type backends struct {
	docs  *docstore.Store
	wide  *widestore.Store
	graph *graphstore.Store
}

// openBackends connects to all three stores. On failure the stores opened
// so far are closed.
func openBackends(ctx context.Context, cfg config.Config) (*backends, error) {
	b := &backends{}
	var err error
	if b.docs, err = docstore.Connect(ctx, cfg.Mongo); err != nil {
		return nil, err
	}
	if b.wide, err = widestore.Open(cfg.Cassandra); err != nil {
		b.Close()
		return nil, err
	}
	if b.graph, err = graphstore.Open(cfg.Dgraph); err != nil {
		b.Close()
		return nil, err
	}
	return b, nil
}

// dialAll tries every store independently and returns a health check per
// store. Stores that could not be opened report their dial error.
func dialAll(ctx context.Context, cfg config.Config) (*backends, []health.Check) {
	b := &backends{}
	checks := make([]health.Check, 0, 3)

	docs, err := docstore.Connect(ctx, cfg.Mongo)
	if err != nil {
		checks = append(checks, health.Check{Name: store.StoreDocuments, Pinger: health.Unreachable(err)})
	} else {
		b.docs = docs
		checks = append(checks, health.Check{Name: store.StoreDocuments, Pinger: docs})
	}

	wide, err := widestore.Open(cfg.Cassandra)
	if err != nil {
		checks = append(checks, health.Check{Name: store.StoreWide, Pinger: health.Unreachable(err)})
	} else {
		b.wide = wide
		checks = append(checks, health.Check{Name: store.StoreWide, Pinger: wide})
	}

	graph, err := graphstore.Open(cfg.Dgraph)
	if err != nil {
		checks = append(checks, health.Check{Name: store.StoreGraph, Pinger: health.Unreachable(err)})
	} else {
		b.graph = graph
		checks = append(checks, health.Check{Name: store.StoreGraph, Pinger: graph})
	}
	return b, checks
}

func (b *backends) checks() []health.Check {
	return []health.Check{
		{Name: store.StoreDocuments, Pinger: b.docs},
		{Name: store.StoreWide, Pinger: b.wide},
		{Name: store.StoreGraph, Pinger: b.graph},
	}
}

// Close releases every open handle.
func (b *backends) Close() error {
	var errs []error
	if b.docs != nil {
		ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
		defer cancel()
		if err := b.docs.Close(ctx); err != nil {
			errs = append(errs, fmt.Errorf("close mongo: %w", err))
		}
	}
	if b.wide != nil {
		b.wide.Close()
	}
	if b.graph != nil {
		if err := b.graph.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close dgraph: %w", err))
		}
	}
	return errors.Join(errs...)
}

// services wires the application services over b.
type services struct {
	identity *identity.Service
	deps     menu.Deps
}

func newServices(b *backends, cfg config.Config, journal store.OutcomeRepo, log *logger.Logger) services {
	return services{
		identity: identity.NewService(b.docs, b.wide, log, identity.WithJournal(journal)),
		deps: menu.Deps{
			Catalog:    catalog.NewService(b.docs, b.graph, log, catalog.WithJournal(journal)),
			Activity:   activity.NewService(b.wide, b.docs, cfg.Grades.FailingBelow),
			Enrollment: enrollment.NewService(b.docs, b.wide, b.graph, log, enrollment.WithJournal(journal)),
			Reports:    reports.NewEngine(b.graph),
			Health:     b.checks(),
			Journal:    journal,
		},
	}
}
