package cache

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/klauspost/compress/zstd"
	bolt "go.etcd.io/bbolt"
)

// Manager provides the main cache interface
type Manager struct {
	db       *bolt.DB
	encoder  *zstd.Encoder
	decoder  *zstd.Decoder
	basePath string

	hits   atomic.Int64
	misses atomic.Int64
	writes atomic.Int64
}

// Open opens or creates a cache at the given path
func Open(basePath string, isDev bool) (*Manager, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	opts := &bolt.Options{
		Timeout:      10 * time.Second,
		FreelistType: bolt.FreelistArrayType,
		NoGrowSync:   isDev,
	}

	dbPath := filepath.Join(basePath, "meta.db")
	db, err := bolt.Open(dbPath, 0644, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open BoltDB: %w", err)
	}

	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create zstd encoder: %w", err)
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		_ = encoder.Close()
		_ = db.Close()
		return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
	}

	m := &Manager{
		db:       db,
		encoder:  encoder,
		decoder:  decoder,
		basePath: basePath,
	}

	if err := m.initSchema(); err != nil {
		_ = m.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return m, nil
}

// Close closes the cache
func (m *Manager) Close() error {
	if m.encoder != nil {
		_ = m.encoder.Close()
	}
	if m.decoder != nil {
		m.decoder.Close()
	}
	if m.db != nil {
		return m.db.Close()
	}
	return nil
}

// initSchema creates all buckets if they don't exist
func (m *Manager) initSchema() error {
	return m.db.Update(func(tx *bolt.Tx) error {
		for _, name := range AllBuckets() {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", name, err)
			}
		}

		meta := tx.Bucket([]byte(BucketMeta))
		if meta.Get([]byte(KeySchemaVersion)) == nil {
			v := make([]byte, 4)
			binary.BigEndian.PutUint32(v, SchemaVersion)
			if err := meta.Put([]byte(KeySchemaVersion), v); err != nil {
				return err
			}
		}
		return nil
	})
}

// GetMath returns memoized markup for a math key.
func (m *Manager) GetMath(key string) (string, bool) {
	art, err := m.loadArtifact(key)
	if err != nil || art == nil {
		m.misses.Add(1)
		return "", false
	}

	data := art.Data
	if art.Compressed {
		data, err = m.decoder.DecodeAll(art.Data, nil)
		if err != nil {
			m.misses.Add(1)
			return "", false
		}
	}
	m.hits.Add(1)
	return string(data), true
}

// PutMath stores rendered markup under its key.
func (m *Manager) PutMath(key, html string) error {
	art := &SSRArtifact{
		Type:      ArtifactMath,
		Size:      len(html),
		CreatedAt: time.Now().Unix(),
		Data:      []byte(html),
	}
	if len(html) >= RawThreshold {
		art.Data = m.encoder.EncodeAll([]byte(html), nil)
		art.Compressed = true
	}

	if err := m.storeArtifact(key, art); err != nil {
		return fmt.Errorf("failed to store artifact: %w", err)
	}
	m.writes.Add(1)
	return nil
}

// loadArtifact returns nil without error when the key is absent.
func (m *Manager) loadArtifact(key string) (*SSRArtifact, error) {
	var art *SSRArtifact
	err := m.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket([]byte(BucketSSR)).Get([]byte(key))
		if data == nil {
			return nil
		}
		art = &SSRArtifact{}
		return Decode(data, art)
	})
	if err != nil {
		return nil, err
	}
	return art, nil
}

// storeArtifact goes through bolt's Batch so concurrent renders share commits.
func (m *Manager) storeArtifact(key string, art *SSRArtifact) error {
	data, err := Encode(art)
	if err != nil {
		return err
	}
	return m.db.Batch(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(BucketSSR)).Put([]byte(key), data)
	})
}

// IncrementBuildCount bumps the persisted build counter.
func (m *Manager) IncrementBuildCount() error {
	return m.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(BucketStats))
		var count uint64
		if v := bucket.Get([]byte(KeyBuildCount)); len(v) == 8 {
			count = binary.BigEndian.Uint64(v)
		}
		v := make([]byte, 8)
		binary.BigEndian.PutUint64(v, count+1)
		return bucket.Put([]byte(KeyBuildCount), v)
	})
}

// Stats reports hit counters and the stored entry count.
func (m *Manager) Stats() (*Stats, error) {
	s := &Stats{
		Hits:   m.hits.Load(),
		Misses: m.misses.Load(),
		Writes: m.writes.Load(),
	}
	err := m.db.View(func(tx *bolt.Tx) error {
		s.Entries = tx.Bucket([]byte(BucketSSR)).Stats().KeyN
		if v := tx.Bucket([]byte(BucketStats)).Get([]byte(KeyBuildCount)); len(v) == 8 {
			s.Builds = binary.BigEndian.Uint64(v)
		}
		return nil
	})
	return s, err
}
