package driver

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"stchart/internal/diag"
	"stchart/internal/source"
)

// Current schema version - increment when DiskPayload format changes
const diskCacheSchemaVersion uint16 = 1

// DiskCache хранит результаты анализа по content-hash на диске.
// Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// CachedDiag is one diagnostic flattened for serialization. Line
// numbers are stored raw; lookup re-binds them to the fresh snapshot.
type CachedDiag struct {
	Severity uint8
	Code     uint16
	Message  string
	Steps    []string
	First    uint32
	End      uint32
}

// DiskPayload stores one file's cached analysis.
type DiskPayload struct {
	// Schema version for safe invalidation when format changes
	Schema      uint16
	Name        string
	Diagnostics []CachedDiag
}

// OpenDiskCache initializes and returns a disk cache at the standard location.
func OpenDiskCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	dir := filepath.Join(base, app)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

// cacheKey mixes the content hash with the options that change the
// outcome, so a config flip never serves stale findings.
func cacheKey(snap *source.Snapshot, opts Options) [32]byte {
	fingerprint := fmt.Sprintf("%x|%s|%d|%d|%s|%d",
		snap.Hash, opts.StateVar, opts.MaxBlockScan, opts.MaxNesting,
		opts.TerminalPattern, opts.maxDiagnostics())
	return sha256.Sum256([]byte(fingerprint))
}

func (c *DiskCache) pathFor(key [32]byte) string {
	hexKey := hex.EncodeToString(key[:])
	// подкаталог "checks" — для удобства очистки
	return filepath.Join(c.dir, "checks", hexKey+".mp")
}

// Put serializes and writes a payload to the disk cache.
func (c *DiskCache) Put(key [32]byte, payload *DiskPayload) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		_ = os.Remove(f.Name())
	}()

	if err := msgpack.NewEncoder(f).Encode(payload); err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	// Атомарная замена
	return os.Rename(f.Name(), p)
}

// Get reads and deserializes a payload from the disk cache.
func (c *DiskCache) Get(key [32]byte, out *DiskPayload) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer func() {
		_ = f.Close()
	}()
	if err := msgpack.NewDecoder(f).Decode(out); err != nil {
		return false, err
	}
	return true, nil
}

// DropAll invalidates the cache, useful after format changes.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		return err
	}
	return os.RemoveAll(old)
}

// lookup rebuilds a Result from a cached payload. The chart is
// re-parsed: positions must belong to the fresh snapshot, and parsing
// is the cheap half of the pipeline.
func (c *DiskCache) lookup(snap *source.Snapshot, opts Options) (*Result, bool) {
	var payload DiskPayload
	ok, err := c.Get(cacheKey(snap, opts), &payload)
	if err != nil || !ok || payload.Schema != diskCacheSchemaVersion {
		return nil, false
	}

	res := ParseText(snap.Name, snap.Content, opts)
	res.Snapshot.Flags = snap.Flags
	bag := diag.NewBag(opts.maxDiagnostics())
	for _, cd := range payload.Diagnostics {
		d := diag.Diagnostic{
			Severity: diag.Severity(cd.Severity),
			Code:     diag.Code(cd.Code),
			Message:  cd.Message,
			Steps:    cd.Steps,
			Primary:  res.Snapshot.Range(int(cd.First), int(cd.End)),
		}
		bag.Add(d)
	}
	res.Bag = bag
	res.CacheHit = true
	return res, true
}

// store flattens a Result's diagnostics into the cache.
func (c *DiskCache) store(res *Result, opts Options) error {
	payload := &DiskPayload{
		Schema: diskCacheSchemaVersion,
		Name:   res.Snapshot.Name,
	}
	for _, d := range res.Bag.Items() {
		payload.Diagnostics = append(payload.Diagnostics, CachedDiag{
			Severity: uint8(d.Severity),
			Code:     uint16(d.Code),
			Message:  d.Message,
			Steps:    d.Steps,
			First:    d.Primary.First,
			End:      d.Primary.End,
		})
	}
	return c.Put(cacheKey(res.Snapshot, opts), payload)
}
