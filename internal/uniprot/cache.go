package uniprot

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// DefaultCacheTTL is how long cached UniProt responses stay fresh.
const DefaultCacheTTL = 24 * time.Hour

// DiskCache stores raw UniProt responses on disk so repeated staging runs
// don't refetch the same accession:
//
//	{dir}/{key}.body       (response body)
//	{dir}/{key}.meta.json  (fetch timestamp and URL)
//
// Cache failures are deliberately silent; the client falls back to the
// network.
type DiskCache struct {
	dir string
	ttl time.Duration
}

// NewDiskCache creates a cache rooted at dir. A non-positive ttl falls
// back to DefaultCacheTTL.
func NewDiskCache(dir string, ttl time.Duration) *DiskCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &DiskCache{dir: dir, ttl: ttl}
}

type cacheMeta struct {
	Timestamp int64  `json:"ts"`
	URL       string `json:"url"`
}

func cacheKey(url string) string {
	sum := sha1.Sum([]byte(url))
	return hex.EncodeToString(sum[:])
}

func (c *DiskCache) paths(url string) (body, meta string) {
	key := cacheKey(url)
	return filepath.Join(c.dir, key+".body"), filepath.Join(c.dir, key+".meta.json")
}

// Get returns the cached body for a URL if present and unexpired.
func (c *DiskCache) Get(url string) ([]byte, bool) {
	bodyPath, metaPath := c.paths(url)

	raw, err := os.ReadFile(metaPath)
	if err != nil {
		return nil, false
	}
	var meta cacheMeta
	if err := json.Unmarshal(raw, &meta); err != nil {
		return nil, false
	}
	if time.Since(time.Unix(meta.Timestamp, 0)) > c.ttl {
		return nil, false
	}

	body, err := os.ReadFile(bodyPath)
	if err != nil {
		return nil, false
	}
	return body, true
}

// Put stores a response body for a URL.
func (c *DiskCache) Put(url string, body []byte) {
	if err := os.MkdirAll(c.dir, 0755); err != nil {
		return
	}
	bodyPath, metaPath := c.paths(url)

	if err := os.WriteFile(bodyPath, body, 0644); err != nil {
		return
	}
	meta, err := json.Marshal(cacheMeta{Timestamp: time.Now().Unix(), URL: url})
	if err != nil {
		return
	}
	_ = os.WriteFile(metaPath, meta, 0644)
}
