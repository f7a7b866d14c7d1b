package ledger

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/absmach/fedledger/pkg/errors"
)

type memoryLedger struct {
	sync.Mutex

	data map[string][]byte
}

// NewInMemoryLedger returns a process-local ledger. Each transaction holds
// the lock for its whole duration, which gives the same per-transaction
// atomicity and serialization a shared substrate provides.
func NewInMemoryLedger() Ledger {
	return &memoryLedger{
		data: make(map[string][]byte),
	}
}

type memoryTx struct {
	data    map[string][]byte
	staged  map[string][]byte
	discard bool
}

func (t *memoryTx) Get(key string) ([]byte, error) {
	if key == "" {
		return nil, errors.ErrEmptyKey
	}
	if val, ok := t.staged[key]; ok {
		return append([]byte(nil), val...), nil
	}
	if val, ok := t.data[key]; ok {
		return append([]byte(nil), val...), nil
	}

	return nil, errors.ErrNotFound
}

func (t *memoryTx) Put(key string, value []byte) error {
	if key == "" {
		return errors.ErrEmptyKey
	}
	if t.discard {
		return errors.ErrInvalidData
	}
	t.staged[key] = append([]byte(nil), value...)

	return nil
}

func (t *memoryTx) Scan(prefix string) ([]Entry, error) {
	seen := make(map[string][]byte, len(t.data))
	for k, v := range t.data {
		if strings.HasPrefix(k, prefix) {
			seen[k] = v
		}
	}
	for k, v := range t.staged {
		if strings.HasPrefix(k, prefix) {
			seen[k] = v
		}
	}

	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	entries := make([]Entry, len(keys))
	for i, k := range keys {
		entries[i] = Entry{Key: k, Value: append([]byte(nil), seen[k]...)}
	}

	return entries, nil
}

func (l *memoryLedger) View(_ context.Context, fn func(tx Tx) error) error {
	l.Lock()
	defer l.Unlock()

	return fn(&memoryTx{data: l.data, staged: make(map[string][]byte), discard: true})
}

func (l *memoryLedger) Update(_ context.Context, fn func(tx Tx) error) error {
	l.Lock()
	defer l.Unlock()

	tx := &memoryTx{data: l.data, staged: make(map[string][]byte)}
	if err := fn(tx); err != nil {
		return err
	}
	for k, v := range tx.staged {
		l.data[k] = v
	}

	return nil
}

func (l *memoryLedger) Close() error {
	return nil
}
