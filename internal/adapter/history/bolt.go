package history

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	"lexis/internal/domain"
	"lexis/internal/port"
)

// SchemaVersion is bumped when the stored entry format changes. A file
// written with another version is cleared on open.
const SchemaVersion = 1

var (
	bucketQueries    = []byte("queries")
	bucketMeta       = []byte("meta")
	keySchemaVersion = []byte("schema_version")
)

// BoltHistory keeps shell queries in a bbolt file, oldest first.
type BoltHistory struct {
	db *bbolt.DB
}

var _ port.History = (*BoltHistory)(nil)

func NewBoltHistory(path string) (*BoltHistory, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open history db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		meta, err := tx.CreateBucketIfNotExists(bucketMeta)
		if err != nil {
			return fmt.Errorf("failed to create bucket %s: %w", bucketMeta, err)
		}

		version := 0
		if data := meta.Get(keySchemaVersion); data != nil {
			if err := json.Unmarshal(data, &version); err != nil {
				version = 0
			}
		}
		if version != SchemaVersion && tx.Bucket(bucketQueries) != nil {
			if err := tx.DeleteBucket(bucketQueries); err != nil {
				return err
			}
		}
		if _, err := tx.CreateBucketIfNotExists(bucketQueries); err != nil {
			return fmt.Errorf("failed to create bucket %s: %w", bucketQueries, err)
		}

		data, err := json.Marshal(SchemaVersion)
		if err != nil {
			return err
		}
		return meta.Put(keySchemaVersion, data)
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &BoltHistory{db: db}, nil
}

func (h *BoltHistory) Append(entry domain.HistoryEntry) error {
	if entry.At.IsZero() {
		entry.At = time.Now()
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	return h.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketQueries)
		seq, err := b.NextSequence()
		if err != nil {
			return err
		}
		return b.Put(sequenceKey(seq), data)
	})
}

// Recent returns up to limit entries, newest first.
func (h *BoltHistory) Recent(limit int) ([]domain.HistoryEntry, error) {
	if limit <= 0 {
		return nil, nil
	}

	var entries []domain.HistoryEntry
	err := h.db.View(func(tx *bbolt.Tx) error {
		c := tx.Bucket(bucketQueries).Cursor()
		for k, v := c.Last(); k != nil && len(entries) < limit; k, v = c.Prev() {
			var entry domain.HistoryEntry
			if err := json.Unmarshal(v, &entry); err != nil {
				return fmt.Errorf("corrupt history entry %x: %w", k, err)
			}
			entries = append(entries, entry)
		}
		return nil
	})
	return entries, err
}

// Clear removes every stored entry.
func (h *BoltHistory) Clear() error {
	return h.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.DeleteBucket(bucketQueries); err != nil {
			return err
		}
		_, err := tx.CreateBucket(bucketQueries)
		return err
	})
}

func (h *BoltHistory) Close() error {
	return h.db.Close()
}

func sequenceKey(seq uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, seq)
	return key
}

// Nop discards everything. It is used when history is disabled.
type Nop struct{}

var _ port.History = Nop{}

func (Nop) Append(domain.HistoryEntry) error { return nil }

func (Nop) Recent(int) ([]domain.HistoryEntry, error) { return nil, nil }

func (Nop) Clear() error { return nil }

func (Nop) Close() error { return nil }
