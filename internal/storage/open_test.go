package storage_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"travel_hotels/internal/shared"
	"travel_hotels/internal/storage"
	"travel_hotels/internal/storage/memory"
)

func TestOpen_Memory(t *testing.T) {
	repo, closeFn, err := storage.Open(context.Background(), shared.Config{StoreDriver: "memory"})
	require.NoError(t, err)
	defer closeFn()
	require.IsType(t, &memory.Repo{}, repo)
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, _, err := storage.Open(context.Background(), shared.Config{StoreDriver: "cassandra"})
	require.ErrorContains(t, err, "cassandra")
}
