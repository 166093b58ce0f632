package storage

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	bolt "go.etcd.io/bbolt"
)

const (
	snapshotBucket = "snapshots"
	// value layout: expiry (unix s) | fetched at (unix ns) | payload
	headerBytes = 16
)

// boltStore implements a Store backed by BoltDB.
type boltStore struct {
	db              *bolt.DB
	now             func() time.Time
	cleanupMu       sync.Mutex
	lastCleanup     atomic.Int64
	snapshotTTL     time.Duration
	cleanupInterval time.Duration
}

// openBolt initializes a BoltDB-backed Store.
func openBolt(path string, opts Options, now func() time.Time) (*boltStore, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage directory: %w", err)
		}
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bbolt db: %w", err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(snapshotBucket))
		return err
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("init bucket: %w", err)
	}

	store := &boltStore{
		db:              db,
		now:             now,
		snapshotTTL:     opts.SnapshotTTL,
		cleanupInterval: opts.CleanupInterval,
	}
	store.lastCleanup.Store(now().Unix())
	return store, nil
}

// Close closes the BoltDB store.
func (b *boltStore) Close() error {
	if b == nil || b.db == nil {
		return nil
	}
	return b.db.Close()
}

// Save stores payload under name, replacing any previous snapshot.
func (b *boltStore) Save(name string, payload []byte) error {
	if name == "" {
		return fmt.Errorf("snapshot name is empty")
	}
	now := b.now()
	if err := b.maybeCleanupExpired(now); err != nil {
		return err
	}

	return b.db.Update(func(tx *bolt.Tx) error {
		bucket, err := snapshots(tx)
		if err != nil {
			return err
		}
		return bucket.Put([]byte(name), encodeValue(now.Add(b.snapshotTTL), now, payload))
	})
}

// Load returns the snapshot stored under name. Expired entries are removed
// and reported as missing.
func (b *boltStore) Load(name string) (Snapshot, bool, error) {
	now := b.now()
	if err := b.maybeCleanupExpired(now); err != nil {
		return Snapshot{}, false, err
	}

	var (
		snap  Snapshot
		found bool
	)
	err := b.db.Update(func(tx *bolt.Tx) error {
		bucket, err := snapshots(tx)
		if err != nil {
			return err
		}

		key := []byte(name)
		value := bucket.Get(key)
		if value == nil {
			return nil
		}

		expiry, fetchedAt, payload, ok := decodeValue(value)
		if !ok || !expiry.After(now) {
			return bucket.Delete(key)
		}

		// bolt values are only valid inside the transaction.
		snap = Snapshot{Name: name, FetchedAt: fetchedAt, Payload: append([]byte(nil), payload...)}
		found = true
		return nil
	})
	return snap, found, err
}

// List returns live snapshots ordered by name, without payloads.
func (b *boltStore) List() ([]Snapshot, error) {
	now := b.now()
	var out []Snapshot
	err := b.db.View(func(tx *bolt.Tx) error {
		bucket, err := snapshots(tx)
		if err != nil {
			return err
		}
		return bucket.ForEach(func(k, v []byte) error {
			expiry, fetchedAt, _, ok := decodeValue(v)
			if !ok || !expiry.After(now) {
				return nil
			}
			out = append(out, Snapshot{Name: string(k), FetchedAt: fetchedAt})
			return nil
		})
	})
	return out, err
}

// Delete removes the snapshot stored under name, if any.
func (b *boltStore) Delete(name string) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		bucket, err := snapshots(tx)
		if err != nil {
			return err
		}
		return bucket.Delete([]byte(name))
	})
}

// maybeCleanupExpired removes expired snapshots on a fixed cadence to avoid unbounded growth.
func (b *boltStore) maybeCleanupExpired(now time.Time) error {
	last := time.Unix(b.lastCleanup.Load(), 0)
	if now.Sub(last) < b.cleanupInterval {
		return nil
	}

	b.cleanupMu.Lock()
	defer b.cleanupMu.Unlock()

	last = time.Unix(b.lastCleanup.Load(), 0)
	if now.Sub(last) < b.cleanupInterval {
		return nil
	}

	err := b.db.Update(func(tx *bolt.Tx) error {
		bucket, err := snapshots(tx)
		if err != nil {
			return err
		}

		cursor := bucket.Cursor()
		for k, v := cursor.First(); k != nil; k, v = cursor.Next() {
			expiry, _, _, ok := decodeValue(v)
			if !ok || !expiry.After(now) {
				if err := cursor.Delete(); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err == nil {
		b.lastCleanup.Store(now.Unix())
	}
	return err
}

func snapshots(tx *bolt.Tx) (*bolt.Bucket, error) {
	bucket := tx.Bucket([]byte(snapshotBucket))
	if bucket == nil {
		return nil, fmt.Errorf("snapshot bucket missing")
	}
	return bucket, nil
}

func encodeValue(expiry, fetchedAt time.Time, payload []byte) []byte {
	buf := make([]byte, headerBytes+len(payload))
	binary.BigEndian.PutUint64(buf[:8], uint64(expiry.Unix()))
	binary.BigEndian.PutUint64(buf[8:headerBytes], uint64(fetchedAt.UnixNano()))
	copy(buf[headerBytes:], payload)
	return buf
}

func decodeValue(value []byte) (expiry, fetchedAt time.Time, payload []byte, ok bool) {
	if len(value) < headerBytes {
		return time.Time{}, time.Time{}, nil, false
	}
	unix := int64(binary.BigEndian.Uint64(value[:8]))
	if unix <= 0 {
		return time.Time{}, time.Time{}, nil, false
	}
	fetched := int64(binary.BigEndian.Uint64(value[8:headerBytes]))
	return time.Unix(unix, 0), time.Unix(0, fetched).UTC(), value[headerBytes:], true
}
