package ports

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunHospitalStoreContract runs a suite of tests to verify that a
// HospitalStore implementation adheres to the interface contract.
func RunHospitalStoreContract(t *testing.T, store HospitalStore) {
	ctx := context.Background()

	t.Run("Adjust and Read", func(t *testing.T) {
		qty, err := store.AdjustStock(ctx, "masks", 500)
		require.NoError(t, err, "AdjustStock should not return error")
		assert.GreaterOrEqual(t, qty, 500)

		inv, err := store.Inventory(ctx)
		require.NoError(t, err)
		assert.Equal(t, qty, inv["masks"])
	})

	t.Run("Never Below Zero", func(t *testing.T) {
		_, err := store.AdjustStock(ctx, "oxygen", 10)
		require.NoError(t, err)

		qty, err := store.AdjustStock(ctx, "oxygen", -10_000)
		require.NoError(t, err)
		assert.Equal(t, 0, qty, "stock must clamp at zero")
	})

	t.Run("Creates Missing Items", func(t *testing.T) {
		qty, err := store.AdjustStock(ctx, "ventilators", 3)
		require.NoError(t, err)
		assert.Equal(t, 3, qty)
	})

	t.Run("Log Order", func(t *testing.T) {
		require.NoError(t, store.AppendLog(ctx, "first"))
		require.NoError(t, store.AppendLog(ctx, "second"))

		logs, err := store.Logs(ctx)
		require.NoError(t, err)
		require.GreaterOrEqual(t, len(logs), 2)
		assert.Equal(t, "first", logs[len(logs)-2])
		assert.Equal(t, "second", logs[len(logs)-1])
	})

	t.Run("Inventory Copy Isolation", func(t *testing.T) {
		inv, err := store.Inventory(ctx)
		require.NoError(t, err)
		inv["masks"] = -99

		again, err := store.Inventory(ctx)
		require.NoError(t, err)
		assert.NotEqual(t, -99, again["masks"], "returned map must be a copy")
	})
}
