// Package assets loads glTF models off the frame loop and caches the
// parsed documents.
package assets

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/qmuntal/gltf"
	"go.uber.org/zap"

	"github.com/nahome/folio3d/internal/logger"
)

// Manager loads models on background goroutines. Each Load decodes a fresh
// node graph, so callers may animate and move the result freely; only the
// parsed document is shared.
type Manager struct {
	cache       *Cache
	decoderPath string
	log         *zap.Logger

	// done is closed by Close. Opening a file cannot be interrupted, so
	// loads still reading when it closes resolve with ErrClosed.
	done      chan struct{}
	closeOnce sync.Once
}

// ErrClosed is returned for loads requested or still running after Close.
var ErrClosed = errors.New("asset manager closed")

// NewManager creates a new asset manager. decoderPath locates the mesh
// decompression decoder; it is only reported, since the viewer never needs
// decoded geometry.
func NewManager(decoderPath string) *Manager {
	return &Manager{
		cache:       NewCache(),
		decoderPath: decoderPath,
		log:         logger.Named("assets"),
		done:        make(chan struct{}),
	}
}

// Load starts loading path and returns its future. Cancelling ctx makes a
// load that has not finished report ctx.Err().
func (m *Manager) Load(ctx context.Context, path string) *Pending {
	p := newPending(path)
	if m.closed() {
		p.resolve(nil, fmt.Errorf("loading %s: %w", path, ErrClosed))
		return p
	}

	go func() {
		if err := ctx.Err(); err != nil {
			p.resolve(nil, err)
			return
		}
		model, err := m.LoadSync(path)
		if err == nil {
			switch {
			case m.closed():
				model, err = nil, fmt.Errorf("loading %s: %w", path, ErrClosed)
			case ctx.Err() != nil:
				model, err = nil, ctx.Err()
			}
		}
		p.resolve(model, err)
	}()
	return p
}

func (m *Manager) closed() bool {
	select {
	case <-m.done:
		return true
	default:
		return false
	}
}

// LoadSync opens (or reuses) the document for path and decodes it.
func (m *Manager) LoadSync(path string) (*Model, error) {
	key, err := filepath.Abs(path)
	if err != nil {
		key = path
	}

	doc, ok := m.cache.Get(key)
	if !ok {
		doc, err = gltf.Open(path)
		if err != nil {
			m.log.Error("model load failed", zap.String("path", path), zap.Error(err))
			return nil, fmt.Errorf("opening %s: %w", path, err)
		}
		if !m.closed() {
			m.cache.Set(key, doc)
		}
	}

	model, err := Decode(doc, modelName(path))
	if err != nil {
		m.log.Error("model decode failed", zap.String("path", path), zap.Error(err))
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	model.Path = path

	if model.Compressed {
		m.log.Info("model uses compressed geometry; using accessor bounds",
			zap.String("path", path),
			zap.String("decoder", m.decoderPath))
	}
	m.log.Info("model loaded",
		zap.String("path", path),
		zap.Int("nodes", len(model.Nodes)),
		zap.Strings("clips", model.ClipNames()))
	return model, nil
}

// Close drops the cache without waiting for in-flight loads; their futures
// resolve with ErrClosed. Loads requested afterwards fail immediately.
func (m *Manager) Close() {
	m.closeOnce.Do(func() {
		close(m.done)
		m.cache.Clear()
	})
}

// Cache is a simple in-memory cache for parsed documents.
type Cache struct {
	data map[string]*gltf.Document
	mu   sync.Mutex

	// Stats
	hits   int
	misses int
}

// NewCache creates a new cache.
func NewCache() *Cache {
	return &Cache{
		data: make(map[string]*gltf.Document),
	}
}

// Get retrieves a document from cache.
func (c *Cache) Get(key string) (*gltf.Document, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	doc, ok := c.data[key]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return doc, ok
}

// Set stores a document in cache.
func (c *Cache) Set(key string, doc *gltf.Document) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = doc
}

// Len returns the number of cached documents.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.data)
}

// Clear clears the cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[string]*gltf.Document)
	c.hits = 0
	c.misses = 0
}

// Stats returns cache statistics.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}
