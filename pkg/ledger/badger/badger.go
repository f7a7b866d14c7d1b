// Package badger backs the ledger with BadgerDB. Badger transactions give
// the per-operation atomicity the coordinator relies on, and its iterator
// provides lexicographic prefix scans over the composite key space.
package badger

import (
	"context"
	"errors"
	"fmt"

	pkgerrors "github.com/absmach/fedledger/pkg/errors"
	"github.com/absmach/fedledger/pkg/ledger"
	badgerdb "github.com/dgraph-io/badger/v4"
)

var (
	ErrDBConnection = errors.New("badger database connection error")
	ErrDBQuery      = errors.New("database query error")
	ErrCommit       = errors.New("transaction commit error")
)

type badgerLedger struct {
	db *badgerdb.DB
}

func NewLedger(path string) (ledger.Ledger, error) {
	opts := badgerdb.DefaultOptions(path)
	opts.Logger = nil
	db, err := badgerdb.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDBConnection, err)
	}

	return &badgerLedger{db: db}, nil
}

type badgerTx struct {
	txn *badgerdb.Txn
}

func (t *badgerTx) Get(key string) ([]byte, error) {
	if key == "" {
		return nil, pkgerrors.ErrEmptyKey
	}

	item, err := t.txn.Get([]byte(key))
	if err != nil {
		if errors.Is(err, badgerdb.ErrKeyNotFound) {
			return nil, pkgerrors.ErrNotFound
		}

		return nil, fmt.Errorf("%w: %w", ErrDBQuery, err)
	}

	val, err := item.ValueCopy(nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDBQuery, err)
	}

	return val, nil
}

func (t *badgerTx) Put(key string, value []byte) error {
	if key == "" {
		return pkgerrors.ErrEmptyKey
	}

	return t.txn.Set([]byte(key), value)
}

func (t *badgerTx) Scan(prefix string) ([]ledger.Entry, error) {
	p := []byte(prefix)

	opts := badgerdb.DefaultIteratorOptions
	opts.Prefix = p
	it := t.txn.NewIterator(opts)
	defer it.Close()

	var entries []ledger.Entry
	for it.Seek(p); it.ValidForPrefix(p); it.Next() {
		item := it.Item()
		val, err := item.ValueCopy(nil)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrDBQuery, err)
		}
		entries = append(entries, ledger.Entry{Key: string(item.KeyCopy(nil)), Value: val})
	}

	return entries, nil
}

func (l *badgerLedger) View(ctx context.Context, fn func(tx ledger.Tx) error) error {
	return l.db.View(func(txn *badgerdb.Txn) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		return fn(&badgerTx{txn: txn})
	})
}

func (l *badgerLedger) Update(ctx context.Context, fn func(tx ledger.Tx) error) error {
	err := l.db.Update(func(txn *badgerdb.Txn) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		return fn(&badgerTx{txn: txn})
	})
	if err != nil && errors.Is(err, badgerdb.ErrConflict) {
		return fmt.Errorf("%w: %w", ErrCommit, err)
	}

	return err
}

func (l *badgerLedger) Close() error {
	return l.db.Close()
}
