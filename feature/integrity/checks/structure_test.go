package checks

import (
	"context"
	"testing"

	"playlist-archiver/core/records"
	"playlist-archiver/core/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCheckStructure(t *testing.T) {
	ctx := context.Background()

	t.Run("All Missing", func(t *testing.T) {
		st := store.NewFileStore(t.TempDir())
		missing, err := CheckStructure(ctx, st)
		assert.NoError(t, err)
		assert.Equal(t, records.Tables(), missing)
	})

	t.Run("Some Present", func(t *testing.T) {
		st := store.NewFileStore(t.TempDir())
		require.NoError(t, st.SaveIndex(ctx, nil))
		require.NoError(t, st.SaveLedger(ctx, records.LedgerDeleted, nil))

		missing, err := CheckStructure(ctx, st)
		assert.NoError(t, err)
		assert.NotContains(t, missing, records.TableIndex)
		assert.NotContains(t, missing, string(records.LedgerDeleted))
		assert.Len(t, missing, len(records.Tables())-2)
	})
}

func TestFixStructure(t *testing.T) {
	ctx := context.Background()
	st := store.NewFileStore(t.TempDir())

	missing, err := CheckStructure(ctx, st)
	require.NoError(t, err)
	require.NoError(t, FixStructure(ctx, st, zap.NewNop(), missing))

	missing, err = CheckStructure(ctx, st)
	assert.NoError(t, err)
	assert.Empty(t, missing)
}

func TestFixStructure_UnknownTable(t *testing.T) {
	st := store.NewFileStore(t.TempDir())
	err := FixStructure(context.Background(), st, zap.NewNop(), []string{"bogus"})
	assert.Error(t, err)
}
