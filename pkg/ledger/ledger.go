// Package ledger defines the key-value substrate the coordinator writes
// through. The substrate owns durability and write ordering; the coordinator
// only relies on two guarantees: every transaction commits atomically or not
// at all, and prefix scans return entries in lexicographic key order.
package ledger

import "context"

// Entry is one key-value pair returned by a prefix scan.
type Entry struct {
	Key   string
	Value []byte
}

// Tx is the read/write surface inside one transaction. Get returns
// errors.ErrNotFound for absent keys.
type Tx interface {
	Get(key string) ([]byte, error)
	Put(key string, value []byte) error
	Scan(prefix string) ([]Entry, error)
}

// Ledger executes transactions. All reads and writes issued by fn commit
// together or not at all; conflicting transactions are serialized by the
// substrate.
type Ledger interface {
	View(ctx context.Context, fn func(tx Tx) error) error
	Update(ctx context.Context, fn func(tx Tx) error) error
	Close() error
}
