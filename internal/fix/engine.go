package fix

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"underware/internal/diag"
	"underware/internal/source"
)

// ErrNoFixes is returned when no fixes were applied.
var ErrNoFixes = errors.New("no applicable fixes found")

// ApplyMode determines the selection strategy.
type ApplyMode uint8

const (
	// ApplyModeOnce applies the first always-safe fix in source order.
	ApplyModeOnce ApplyMode = iota
	// ApplyModeAll applies every always-safe fix.
	ApplyModeAll
	// ApplyModeID applies every fix whose ID equals TargetID.
	ApplyModeID
)

func (m ApplyMode) String() string {
	switch m {
	case ApplyModeOnce:
		return "once"
	case ApplyModeAll:
		return "all"
	case ApplyModeID:
		return "id"
	default:
		return fmt.Sprintf("ApplyMode(%d)", m)
	}
}

type ApplyOptions struct {
	Mode     ApplyMode
	TargetID string
	// DryRun computes the new contents without touching the disk.
	// Virtual files can only be fixed in dry-run mode.
	DryRun bool
}

// AppliedFix records a successfully applied fix.
type AppliedFix struct {
	ID          string
	Title       string
	Code        diag.Code
	Message     string
	PrimaryPath string
	EditCount   int
}

// SkippedFix captures a fix that was not applied, with a reason.
type SkippedFix struct {
	ID     string
	Title  string
	Reason string
}

// FileChange summarises the modifications of one file.
type FileChange struct {
	File      source.FileID
	Path      string
	EditCount int
	Before    []byte
	After     []byte
}

type ApplyResult struct {
	Applied     []AppliedFix
	Skipped     []SkippedFix
	FileChanges []FileChange
}

type candidate struct {
	diag  *diag.Diagnostic
	fix   diag.Fix
	order int
}

// Apply collects fixes from diagnostics, selects a subset according to opts
// and applies them. Unless opts.DryRun is set, changed files are rewritten
// atomically.
func Apply(fs *source.FileSet, diagnostics []*diag.Diagnostic, opts ApplyOptions) (*ApplyResult, error) {
	result := &ApplyResult{}
	if fs == nil {
		return result, fmt.Errorf("fix: FileSet is nil")
	}

	candidates, skips := gatherCandidates(diagnostics)
	result.Skipped = append(result.Skipped, skips...)
	if len(candidates) == 0 {
		return result, ErrNoFixes
	}
	sortCandidates(candidates)

	selected, skips := selectCandidates(candidates, opts)
	result.Skipped = append(result.Skipped, skips...)
	if len(selected) == 0 {
		return result, ErrNoFixes
	}

	p := newPlan(fs, opts.DryRun)
	for _, cand := range selected {
		n, reason := p.stage(cand.fix.Edits)
		if reason != "" {
			result.Skipped = append(result.Skipped, SkippedFix{ID: cand.fix.ID, Title: cand.fix.Title, Reason: reason})
			continue
		}
		result.Applied = append(result.Applied, AppliedFix{
			ID:          cand.fix.ID,
			Title:       cand.fix.Title,
			Code:        cand.diag.Code,
			Message:     cand.diag.Message,
			PrimaryPath: formatFilePath(fs, cand.diag.Primary.File),
			EditCount:   n,
		})
	}
	if len(result.Applied) == 0 {
		return result, ErrNoFixes
	}

	result.FileChanges = p.changes()
	if opts.DryRun {
		return result, nil
	}
	for _, ch := range result.FileChanges {
		if err := WriteFileAtomic(fs.Get(ch.File).Path, ch.After); err != nil {
			return result, err
		}
	}
	return result, nil
}

// Preview is Apply in dry-run mode.
func Preview(fs *source.FileSet, diagnostics []*diag.Diagnostic, opts ApplyOptions) (*ApplyResult, error) {
	opts.DryRun = true
	return Apply(fs, diagnostics, opts)
}

// gatherCandidates flattens the fixes of all diagnostics. Fixes without
// edits are skipped; a missing ID is derived from the code and position.
// The same ID with the same edits is kept once.
func gatherCandidates(diagnostics []*diag.Diagnostic) ([]candidate, []SkippedFix) {
	var cands []candidate
	var skips []SkippedFix
	seen := make(map[string]struct{})

	order := 0
	for _, d := range diagnostics {
		if d == nil {
			continue
		}
		for idx, f := range d.Fixes {
			if len(f.Edits) == 0 {
				skips = append(skips, SkippedFix{ID: f.ID, Title: f.Title, Reason: "fix has no edits"})
				continue
			}
			if f.ID == "" {
				f.ID = fmt.Sprintf("%s-%d-%d-%d", d.Code.ID(), d.Primary.File, d.Primary.Start, idx)
			}
			key := fixKey(f)
			if _, dup := seen[key]; dup {
				skips = append(skips, SkippedFix{ID: f.ID, Title: f.Title, Reason: "duplicate fix"})
				continue
			}
			seen[key] = struct{}{}
			cands = append(cands, candidate{diag: d, fix: f, order: order})
			order++
		}
	}
	return cands, skips
}

func fixKey(f diag.Fix) string {
	var sb strings.Builder
	sb.WriteString(f.ID)
	for _, e := range f.Edits {
		fmt.Fprintf(&sb, "|%s=%q", e.Span, e.NewText)
	}
	return sb.String()
}

// sortCandidates orders by file, span, insertion order, code, preference
// (preferred first), ID and title.
func sortCandidates(candidates []candidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		ci, cj := candidates[i], candidates[j]
		di, dj := ci.diag.Primary, cj.diag.Primary
		if di.File != dj.File {
			return di.File < dj.File
		}
		if di.Start != dj.Start {
			return di.Start < dj.Start
		}
		if di.End != dj.End {
			return di.End < dj.End
		}
		if ci.order != cj.order {
			return ci.order < cj.order
		}
		if ci.diag.Code != cj.diag.Code {
			return ci.diag.Code < cj.diag.Code
		}
		if ci.fix.IsPreferred != cj.fix.IsPreferred {
			return ci.fix.IsPreferred
		}
		if ci.fix.ID != cj.fix.ID {
			return ci.fix.ID < cj.fix.ID
		}
		return ci.fix.Title < cj.fix.Title
	})
}

func selectCandidates(candidates []candidate, opts ApplyOptions) ([]candidate, []SkippedFix) {
	switch opts.Mode {
	case ApplyModeID:
		var selected []candidate
		for _, cand := range candidates {
			if cand.fix.ID == opts.TargetID {
				selected = append(selected, cand)
			}
		}
		if len(selected) == 0 {
			return nil, []SkippedFix{{ID: opts.TargetID, Reason: "fix id not found"}}
		}
		return selected, nil

	case ApplyModeAll:
		selected := make([]candidate, 0, len(candidates))
		var skipped []SkippedFix
		for _, cand := range candidates {
			if cand.fix.Applicability == diag.FixApplicabilityAlwaysSafe {
				selected = append(selected, cand)
				continue
			}
			skipped = append(skipped, SkippedFix{
				ID:     cand.fix.ID,
				Title:  cand.fix.Title,
				Reason: "applicability is " + cand.fix.Applicability.String(),
			})
		}
		return selected, skipped

	case ApplyModeOnce:
		for _, cand := range candidates {
			if cand.fix.Applicability == diag.FixApplicabilityAlwaysSafe {
				return []candidate{cand}, nil
			}
		}
		// nothing always-safe: fall back to the first suggestion
		return candidates[:1], nil
	}
	return nil, nil
}

// plan accumulates edited buffers per file. Spans always refer to the
// original content; offsets shift by the edits applied before them.
type plan struct {
	fs      *source.FileSet
	dryRun  bool
	buffers map[source.FileID][]byte
	applied map[source.FileID][]diag.TextEdit
}

func newPlan(fs *source.FileSet, dryRun bool) *plan {
	return &plan{
		fs:      fs,
		dryRun:  dryRun,
		buffers: make(map[source.FileID][]byte),
		applied: make(map[source.FileID][]diag.TextEdit),
	}
}

// stage applies the edits of one fix or none of them. It returns the number
// of edits, or a skip reason.
func (p *plan) stage(edits []diag.TextEdit) (int, string) {
	byFile := make(map[source.FileID][]diag.TextEdit)
	for _, e := range edits {
		byFile[e.Span.File] = append(byFile[e.Span.File], e)
	}
	staged := make(map[source.FileID][]byte, len(byFile))
	stagedApplied := make(map[source.FileID][]diag.TextEdit, len(byFile))

	for _, fileID := range slices.Sorted(maps.Keys(byFile)) {
		file := p.fs.Get(fileID)
		if file == nil {
			return 0, fmt.Sprintf("unknown file %d", fileID)
		}
		if !p.dryRun && file.Flags&source.FileVirtual != 0 {
			return 0, "target file is virtual"
		}
		fileEdits := byFile[fileID]
		if conflicts(p.applied[fileID], fileEdits) {
			return 0, "conflicts with other edits in " + file.FormatPath("auto", p.fs.BaseDir())
		}

		working := p.buffers[fileID]
		if working == nil {
			working = file.Content
		}
		working = slices.Clone(working)
		done := slices.Clone(p.applied[fileID])

		// back to front so earlier offsets in this fix stay valid
		sort.SliceStable(fileEdits, func(i, j int) bool {
			return fileEdits[i].Span.Start > fileEdits[j].Span.Start
		})
		for _, e := range fileEdits {
			orig := file.Content
			if int(e.Span.End) > len(orig) || e.Span.End < e.Span.Start {
				return 0, "edit span out of range"
			}
			if e.OldText != "" && string(orig[e.Span.Start:e.Span.End]) != e.OldText {
				return 0, "existing text does not match expected content"
			}
			start := int(e.Span.Start) + shift(done, e.Span.Start)
			end := start + int(e.Span.Len())
			working = slices.Concat(working[:start], []byte(e.NewText), working[end:])
			done = insertSorted(done, e)
		}
		staged[fileID] = working
		stagedApplied[fileID] = done
	}

	n := 0
	for fileID, buf := range staged {
		p.buffers[fileID] = buf
		p.applied[fileID] = stagedApplied[fileID]
		n += len(byFile[fileID])
	}
	return n, ""
}

func (p *plan) changes() []FileChange {
	baseDir := p.fs.BaseDir()
	out := make([]FileChange, 0, len(p.buffers))
	for fileID, buf := range p.buffers {
		file := p.fs.Get(fileID)
		out = append(out, FileChange{
			File:      fileID,
			Path:      file.FormatPath("relative", baseDir),
			EditCount: len(p.applied[fileID]),
			Before:    file.Content,
			After:     buf,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// conflicts reports whether any edit overlaps an already applied one or
// another edit of the same fix.
func conflicts(applied, edits []diag.TextEdit) bool {
	for i, e := range edits {
		for _, prev := range applied {
			if spansConflict(prev, e) {
				return true
			}
		}
		for _, other := range edits[i+1:] {
			if spansConflict(e, other) {
				return true
			}
		}
	}
	return false
}

// spansConflict treats spans as half-open. Two insertions never conflict,
// even at the same offset; an insertion conflicts with a span strictly
// containing its position.
func spansConflict(a, b diag.TextEdit) bool {
	aStart, aEnd := a.Span.Start, a.Span.End
	bStart, bEnd := b.Span.Start, b.Span.End
	switch {
	case aStart == aEnd && bStart == bEnd:
		return false
	case aStart == aEnd:
		return bStart < aStart && aStart < bEnd
	case bStart == bEnd:
		return aStart < bStart && bStart < aEnd
	}
	return aStart < bEnd && bStart < aEnd
}

// shift is the byte delta introduced by applied edits ending at or before pos.
func shift(applied []diag.TextEdit, pos uint32) int {
	delta := 0
	for _, e := range applied {
		if e.Span.Start > pos {
			break
		}
		if e.Span.End <= pos {
			delta += len(e.NewText) - int(e.Span.Len())
		}
	}
	return delta
}

func insertSorted(edits []diag.TextEdit, edit diag.TextEdit) []diag.TextEdit {
	i := sort.Search(len(edits), func(i int) bool {
		if edits[i].Span.Start == edit.Span.Start {
			return edits[i].Span.End >= edit.Span.End
		}
		return edits[i].Span.Start > edit.Span.Start
	})
	return slices.Insert(edits, i, edit)
}

// WriteFileAtomic replaces path through a temp file in the same directory,
// keeping the original permissions.
func WriteFileAtomic(path string, data []byte) error {
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	tmpName := tmp.Name()
	cleanup := func(err error) error {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", path, err)
	}
	if _, err := tmp.Write(data); err != nil {
		return cleanup(err)
	}
	if err := tmp.Chmod(mode); err != nil {
		return cleanup(err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func formatFilePath(fs *source.FileSet, fileID source.FileID) string {
	file := fs.Get(fileID)
	if file == nil {
		return ""
	}
	return file.FormatPath("auto", fs.BaseDir())
}
