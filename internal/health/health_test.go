package health

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/learnlink/internal/store"
	"github.com/abhisek/learnlink/internal/store/memstore"
)

func TestRun(t *testing.T) {
	docs := memstore.NewDocuments()
	wide := memstore.NewWide()
	wide.Fail("Ping", &store.UnavailableError{Store: store.StoreWide, Err: errors.New("no hosts")})

	statuses := Run(context.Background(),
		Check{Name: store.StoreDocuments, Pinger: docs},
		Check{Name: store.StoreWide, Pinger: wide},
		Check{Name: store.StoreGraph},
	)
	require.Len(t, statuses, 3)

	assert.True(t, statuses[0].OK)
	assert.NotEmpty(t, statuses[0].Detail)

	assert.False(t, statuses[1].OK)
	assert.True(t, store.IsUnavailable(statuses[1].Err))

	assert.False(t, statuses[2].OK)
	assert.Equal(t, "not connected", statuses[2].Detail)

	assert.False(t, Healthy(statuses))
	assert.True(t, Healthy(statuses[:1]))
}

func TestUnreachable(t *testing.T) {
	dial := &store.UnavailableError{Store: store.StoreDocuments, Err: errors.New("connection refused")}
	statuses := Run(context.Background(), Check{Name: store.StoreDocuments, Pinger: Unreachable(dial)})
	require.Len(t, statuses, 1)
	assert.False(t, statuses[0].OK)
	assert.ErrorIs(t, statuses[0].Err, dial)
}
