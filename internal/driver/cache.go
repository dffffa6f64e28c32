package driver

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"underware/internal/diag"
	"underware/internal/project"
	"underware/internal/source"
	"underware/internal/version"
)

// bump when diskPayload changes shape
const diskCacheSchemaVersion uint16 = 1

// DiskCache stores per-file expansion results keyed by content, tool
// version and registry fingerprint. Safe for concurrent use.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

type diskPayload struct {
	Schema      uint16
	Output      []byte
	Sites       []diskSite
	Diagnostics []diskDiagnostic
}

type diskSite struct {
	Start, End  uint32
	Macro       string
	Original    string
	Replacement string
}

type diskDiagnostic struct {
	Severity   uint8
	Code       uint16
	IDDomain   string
	ID         string
	Message    string
	Start, End uint32
	Notes      []diskNote
	Fixes      []diskFix
}

type diskNote struct {
	Start, End uint32
	Msg        string
}

type diskFix struct {
	ID            string
	Title         string
	Kind          uint8
	Applicability uint8
	IsPreferred   bool
	Edits         []diskEdit
}

type diskEdit struct {
	Start, End uint32
	NewText    string
	OldText    string
}

// OpenDiskCache opens $XDG_CACHE_HOME/<app> (or ~/.cache/<app>).
func OpenDiskCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	return NewDiskCache(filepath.Join(base, app))
}

// NewDiskCache uses dir as the cache root.
func NewDiskCache(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cache: %w", err)
	}
	return &DiskCache{dir: dir}, nil
}

// Dir is the cache root.
func (c *DiskCache) Dir() string { return c.dir }

func (c *DiskCache) pathFor(key project.Digest) string {
	return filepath.Join(c.dir, "files", key.String()+".mp")
}

// Key derives the cache key of file under opts.
func (c *DiskCache) Key(file *source.File, opts Options) project.Digest {
	return project.Combine(file.Hash,
		strconv.Itoa(int(diskCacheSchemaVersion)),
		version.Version,
		opts.Registry.Fingerprint(),
		strconv.Itoa(opts.MaxDiagnostics),
	)
}

func (c *DiskCache) put(key project.Digest, payload *diskPayload) error {
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
	defer func() { _ = os.Remove(f.Name()) }()

	if err := msgpack.NewEncoder(f).Encode(payload); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), p)
}

func (c *DiskCache) get(key project.Digest, out *diskPayload) (bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer f.Close()
	if err := msgpack.NewDecoder(f).Decode(out); err != nil {
		return false, err
	}
	return out.Schema == diskCacheSchemaVersion, nil
}

// DropAll removes every cached entry.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return os.RemoveAll(filepath.Join(c.dir, "files"))
}

// load returns a cached result. Unreadable entries count as misses.
func (c *DiskCache) load(file *source.File, opts Options) (*FileResult, bool) {
	if c == nil {
		return nil, false
	}
	var payload diskPayload
	ok, err := c.get(c.Key(file, opts), &payload)
	if err != nil || !ok {
		return nil, false
	}
	return payload.toResult(file.ID, opts.MaxDiagnostics), true
}

func (c *DiskCache) store(file *source.File, opts Options, res *FileResult) {
	if c == nil {
		return
	}
	// a failed write only costs a future miss
	_ = c.put(c.Key(file, opts), newDiskPayload(res))
}

func newDiskPayload(res *FileResult) *diskPayload {
	p := &diskPayload{
		Schema: diskCacheSchemaVersion,
		Output: res.Output,
	}
	for _, s := range res.Sites {
		p.Sites = append(p.Sites, diskSite{
			Start: s.Span.Start, End: s.Span.End,
			Macro: s.Macro, Original: s.Original, Replacement: s.Replacement,
		})
	}
	for _, d := range res.Bag.Items() {
		dd := diskDiagnostic{
			Severity: uint8(d.Severity),
			Code:     uint16(d.Code),
			IDDomain: d.ID.Domain,
			ID:       d.ID.ID,
			Message:  d.Message,
			Start:    d.Primary.Start,
			End:      d.Primary.End,
		}
		for _, n := range d.Notes {
			dd.Notes = append(dd.Notes, diskNote{Start: n.Span.Start, End: n.Span.End, Msg: n.Msg})
		}
		for _, f := range d.Fixes {
			df := diskFix{
				ID:            f.ID,
				Title:         f.Title,
				Kind:          uint8(f.Kind),
				Applicability: uint8(f.Applicability),
				IsPreferred:   f.IsPreferred,
			}
			for _, e := range f.Edits {
				df.Edits = append(df.Edits, diskEdit{Start: e.Span.Start, End: e.Span.End, NewText: e.NewText, OldText: e.OldText})
			}
			dd.Fixes = append(dd.Fixes, df)
		}
		p.Diagnostics = append(p.Diagnostics, dd)
	}
	return p
}

// toResult rebinds cached spans to the current file id.
func (p *diskPayload) toResult(id source.FileID, maxDiags int) *FileResult {
	span := func(start, end uint32) source.Span {
		return source.Span{File: id, Start: start, End: end}
	}
	res := &FileResult{FileID: id, Output: p.Output, Bag: diag.NewBag(maxDiags), Cached: true}
	for _, s := range p.Sites {
		res.Sites = append(res.Sites, Site{
			Span: span(s.Start, s.End), Macro: s.Macro, Original: s.Original, Replacement: s.Replacement,
		})
	}
	for _, dd := range p.Diagnostics {
		d := &diag.Diagnostic{
			Severity: diag.Severity(dd.Severity),
			Code:     diag.Code(dd.Code),
			ID:       diag.MessageID{Domain: dd.IDDomain, ID: dd.ID},
			Message:  dd.Message,
			Primary:  span(dd.Start, dd.End),
		}
		for _, n := range dd.Notes {
			d.Notes = append(d.Notes, diag.Note{Span: span(n.Start, n.End), Msg: n.Msg})
		}
		for _, df := range dd.Fixes {
			f := diag.Fix{
				ID:            df.ID,
				Title:         df.Title,
				Kind:          diag.FixKind(df.Kind),
				Applicability: diag.FixApplicability(df.Applicability),
				IsPreferred:   df.IsPreferred,
			}
			for _, e := range df.Edits {
				f.Edits = append(f.Edits, diag.TextEdit{Span: span(e.Start, e.End), NewText: e.NewText, OldText: e.OldText})
			}
			d.Fixes = append(d.Fixes, f)
		}
		res.Bag.Add(d)
	}
	return res
}
