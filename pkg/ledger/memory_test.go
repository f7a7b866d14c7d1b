package ledger_test

import (
	"context"
	"testing"

	"github.com/absmach/fedledger/pkg/errors"
	"github.com/absmach/fedledger/pkg/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryGetPut(t *testing.T) {
	t.Parallel()

	l := ledger.NewInMemoryLedger()
	ctx := context.Background()

	err := l.Update(ctx, func(tx ledger.Tx) error {
		return tx.Put("k1", []byte("v1"))
	})
	require.NoError(t, err)

	err = l.View(ctx, func(tx ledger.Tx) error {
		val, err := tx.Get("k1")
		require.NoError(t, err)
		assert.Equal(t, []byte("v1"), val)

		_, err = tx.Get("missing")
		assert.ErrorIs(t, err, errors.ErrNotFound)

		_, err = tx.Get("")
		assert.ErrorIs(t, err, errors.ErrEmptyKey)

		return nil
	})
	require.NoError(t, err)
}

func TestMemoryUpdateRollsBackOnError(t *testing.T) {
	t.Parallel()

	l := ledger.NewInMemoryLedger()
	ctx := context.Background()

	err := l.Update(ctx, func(tx ledger.Tx) error {
		if err := tx.Put("k1", []byte("v1")); err != nil {
			return err
		}

		return errors.ErrInvalidData
	})
	assert.ErrorIs(t, err, errors.ErrInvalidData)

	err = l.View(ctx, func(tx ledger.Tx) error {
		_, err := tx.Get("k1")
		assert.ErrorIs(t, err, errors.ErrNotFound)

		return nil
	})
	require.NoError(t, err)
}

func TestMemoryTxReadsOwnWrites(t *testing.T) {
	t.Parallel()

	l := ledger.NewInMemoryLedger()
	ctx := context.Background()

	err := l.Update(ctx, func(tx ledger.Tx) error {
		if err := tx.Put("a", []byte("1")); err != nil {
			return err
		}
		val, err := tx.Get("a")
		require.NoError(t, err)
		assert.Equal(t, []byte("1"), val)

		entries, err := tx.Scan("a")
		require.NoError(t, err)
		assert.Len(t, entries, 1)

		return nil
	})
	require.NoError(t, err)
}

func TestMemoryScanOrderAndIsolation(t *testing.T) {
	t.Parallel()

	l := ledger.NewInMemoryLedger()
	ctx := context.Background()

	err := l.Update(ctx, func(tx ledger.Tx) error {
		for _, kv := range []struct{ k, v string }{
			{"p\x00b\x00", "2"},
			{"p\x00a\x00", "1"},
			{"p\x00c\x00", "3"},
			{"q\x00a\x00", "other"},
		} {
			if err := tx.Put(kv.k, []byte(kv.v)); err != nil {
				return err
			}
		}

		return nil
	})
	require.NoError(t, err)

	err = l.View(ctx, func(tx ledger.Tx) error {
		entries, err := tx.Scan("p\x00")
		require.NoError(t, err)
		require.Len(t, entries, 3)
		assert.Equal(t, "p\x00a\x00", entries[0].Key)
		assert.Equal(t, "p\x00b\x00", entries[1].Key)
		assert.Equal(t, "p\x00c\x00", entries[2].Key)

		return nil
	})
	require.NoError(t, err)
}

func TestMemoryViewRejectsWrites(t *testing.T) {
	t.Parallel()

	l := ledger.NewInMemoryLedger()

	err := l.View(context.Background(), func(tx ledger.Tx) error {
		return tx.Put("k", []byte("v"))
	})
	assert.ErrorIs(t, err, errors.ErrInvalidData)
}
