package lookup

import (
	"encoding/json"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/yllada/vpn-status/common"
)

// Cache keeps the last successful result in a JSON file.
type Cache struct {
	Path string
	TTL  time.Duration

	now func() time.Time
}

type cacheEntry struct {
	Result    Result    `json:"result"`
	FetchedAt time.Time `json:"fetched_at"`
}

// NewCache returns a cache stored in the application cache directory.
func NewCache(ttl time.Duration) (*Cache, error) {
	dir, err := common.GetCacheDir()
	if err != nil {
		return nil, err
	}
	return &Cache{Path: filepath.Join(dir, common.LookupCacheFileName), TTL: ttl}, nil
}

func (c *Cache) clock() time.Time {
	if c.now != nil {
		return c.now()
	}
	return time.Now()
}

// Get returns the cached result if it is younger than TTL and came from
// one of providers.
func (c *Cache) Get(providers []string) (*Result, bool) {
	if c == nil || c.TTL <= 0 {
		return nil, false
	}
	data, err := os.ReadFile(c.Path)
	if err != nil {
		return nil, false
	}
	var entry cacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		common.LogDebug("Ignoring unreadable lookup cache: %v", err)
		return nil, false
	}
	if c.clock().Sub(entry.FetchedAt) >= c.TTL {
		return nil, false
	}
	if !slices.Contains(providers, entry.Result.Provider) {
		return nil, false
	}
	return &entry.Result, true
}

// Put stores res with the current time.
func (c *Cache) Put(res *Result) error {
	if c == nil || c.TTL <= 0 {
		return nil
	}
	data, err := json.Marshal(cacheEntry{Result: *res, FetchedAt: c.clock()})
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(c.Path), 0700); err != nil {
		return err
	}
	return os.WriteFile(c.Path, data, 0600)
}
