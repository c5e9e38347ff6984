package cache

import (
	"context"
	"errors"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// BadgerCache is an embedded key-value cache backed by BadgerDB.
// It is the preferred backend for local incremental builds: snapshots survive
// process restarts without the syscall overhead of one file per entry.
type BadgerCache struct {
	db     *badger.DB
	stopGC chan struct{}
}

// BadgerOptions configures the Badger backend.
type BadgerOptions struct {
	Directory string // Store location; required unless InMemory is set
	InMemory  bool   // Keep everything in memory (tests)
}

// NewBadgerCache opens (or creates) a Badger store.
func NewBadgerCache(opts BadgerOptions) (*BadgerCache, error) {
	var badgerOpts badger.Options
	if opts.InMemory {
		badgerOpts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		badgerOpts = badger.DefaultOptions(opts.Directory)
	}
	badgerOpts = badgerOpts.WithLogger(nil)

	db, err := badger.Open(badgerOpts)
	if err != nil {
		return nil, err
	}

	c := &BadgerCache{db: db, stopGC: make(chan struct{})}

	// Periodic value-log garbage collection
	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				_ = db.RunValueLogGC(0.5)
			case <-c.stopGC:
				return
			}
		}
	}()

	return c, nil
}

// Get retrieves a value from the store. Expired entries are a miss.
func (c *BadgerCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value []byte
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

// Set stores a value with an optional TTL. A negative ttl produces an
// already-expired entry, which reads back as a miss.
func (c *BadgerCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return c.db.Update(func(txn *badger.Txn) error {
		e := badger.NewEntry([]byte(key), data)
		if ttl != 0 {
			e = e.WithTTL(ttl)
		}
		return txn.SetEntry(e)
	})
}

// Delete removes a value from the store.
func (c *BadgerCache) Delete(ctx context.Context, key string) error {
	err := c.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil
	}
	return err
}

// Close stops background GC and closes the store.
func (c *BadgerCache) Close() error {
	close(c.stopGC)
	return c.db.Close()
}

// Ensure BadgerCache implements Cache.
var _ Cache = (*BadgerCache)(nil)
