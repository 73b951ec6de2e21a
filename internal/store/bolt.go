// Package store keeps operator watermarks in an embedded BoltDB file for
// single-node deployments without Redis.
package store

import (
	"context"
	"fmt"
	"time"

	bolt "github.com/boltdb/bolt"
)

const bucketName = "watermarks"

type WatermarkStore struct {
	db *bolt.DB
}

// Open opens (or creates) the database at path and ensures the bucket exists.
func Open(path string) (*WatermarkStore, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bolt %s: %w", path, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketName))
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &WatermarkStore{db: db}, nil
}

func (s *WatermarkStore) Close() error {
	return s.db.Close()
}

func (s *WatermarkStore) GetWatermark(_ context.Context, scope string) (*time.Time, error) {
	var out *time.Time

	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket([]byte(bucketName)).Get([]byte(scope))
		if v == nil {
			return nil
		}
		t, err := time.Parse(time.RFC3339Nano, string(v))
		if err != nil {
			return fmt.Errorf("parse watermark %s: %w", scope, err)
		}
		out = &t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// SetWatermark overwrites the scope's instant. Writing the stored value again
// is skipped.
func (s *WatermarkStore) SetWatermark(_ context.Context, scope string, t time.Time) error {
	data := []byte(t.UTC().Format(time.RFC3339Nano))

	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketName))
		if string(b.Get([]byte(scope))) == string(data) {
			return nil
		}
		return b.Put([]byte(scope), data)
	})
}
