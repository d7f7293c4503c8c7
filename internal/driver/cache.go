package driver

import (
	"bytes"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"github.com/natefinch/atomic"
	"github.com/vmihailenco/msgpack/v5"
	"github.com/zeebo/xxh3"

	"bibfmt/internal/engine"
	"bibfmt/internal/version"
)

// Current schema version - increment when CachePayload format changes
const cacheSchemaVersion uint16 = 1

// Digest is the cache key.
type Digest [16]byte

func (d Digest) String() string { return hex.EncodeToString(d[:]) }

// Cache remembers files that are already canonical for a given operation
// and configuration, so that unchanged inputs are not parsed again.
// Thread-safe for concurrent access.
type Cache struct {
	mu  sync.RWMutex
	dir string
}

// CachePayload is what is stored per key.
type CachePayload struct {
	// Schema version for safe invalidation when format changes
	Schema  uint16
	Op      string
	Path    string
	Entries int
	Size    int
}

// OpenCache initializes the cache at $XDG_CACHE_HOME/<app>, falling back to
// ~/.cache/<app>.
func OpenCache(app string) (*Cache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	return OpenCacheAt(filepath.Join(base, app))
}

// OpenCacheAt initializes the cache in dir.
func OpenCacheAt(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Cache{dir: dir}, nil
}

// Dir returns the cache root.
func (c *Cache) Dir() string { return c.dir }

// CacheKey hashes everything that decides the output for a file: the tool
// version, the operation, the configuration fingerprint and the raw bytes.
func CacheKey(op engine.Op, cfg engine.Config, content []byte) Digest {
	h := xxh3.New()
	_, _ = h.WriteString(version.Version)
	_, _ = h.Write([]byte{0})
	_, _ = h.WriteString(op.String())
	_, _ = h.Write([]byte{0})
	_, _ = h.WriteString(cfg.Fingerprint())
	_, _ = h.Write([]byte{0})
	_, _ = h.Write(content)
	return Digest(h.Sum128().Bytes())
}

func (c *Cache) pathFor(key Digest) string {
	hexKey := key.String()
	// Подкаталог по первым двум символам, чтобы не раздувать один каталог.
	return filepath.Join(c.dir, "canon", hexKey[:2], hexKey+".mp")
}

// Put serializes and writes a payload to the cache.
func (c *Cache) Put(key Digest, payload *CachePayload) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	payload.Schema = cacheSchemaVersion
	data, err := msgpack.Marshal(payload)
	if err != nil {
		return err
	}
	return atomic.WriteFile(p, bytes.NewReader(data))
}

// Get reads a payload. A payload written by another schema is a miss.
func (c *Cache) Get(key Digest, out *CachePayload) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	data, err := os.ReadFile(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	if err := msgpack.Unmarshal(data, out); err != nil {
		return false, err
	}
	return out.Schema == cacheSchemaVersion, nil
}

// DropAll removes every cached entry.
func (c *Cache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return os.RemoveAll(filepath.Join(c.dir, "canon"))
}
