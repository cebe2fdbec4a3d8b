// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package organize relocates candidate files into the category tree. A
// Coordinator owns the state of one batch: the set of claimed filenames, the
// placement records and the per-file failures.
package organize

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/gofrs/flock"
	"github.com/sourcegraph/conc/pool"

	"github.com/pdiddy/paper-sorter/internal/classify"
	"github.com/pdiddy/paper-sorter/pkg/types"
)

const (
	defaultSuffix = ".pdf"
	lockFile      = ".paper-sorter.lock"
)

var (
	// ErrInvalidPath is returned when the root is missing or not a directory.
	ErrInvalidPath = errors.New("not a valid directory")

	// ErrLocked is returned when another run holds the root.
	ErrLocked = errors.New("root is locked by another run")
)

// MoveFailedError reports a file that could not be relocated. The batch
// continues past it.
type MoveFailedError struct {
	Filename string
	Err      error
}

func (e *MoveFailedError) Error() string {
	return fmt.Sprintf("moving %s: %v", e.Filename, e.Err)
}

func (e *MoveFailedError) Unwrap() error { return e.Err }

// Candidate is a file discovered directly under the root.
type Candidate struct {
	Name string
	Path string
}

// BatchResult holds the outcome of a batch.
type BatchResult struct {
	Moved      int
	Skipped    int
	Failed     int
	Placements []types.Placement
	Failures   []*MoveFailedError
}

// Total returns the number of candidates handled.
func (r BatchResult) Total() int {
	return r.Moved + r.Skipped + r.Failed
}

// HasFailures reports whether any file failed to move.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// CheckRoot verifies that root exists and is a directory.
func CheckRoot(root string) error {
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("%s: %w", root, ErrInvalidPath)
	}
	return nil
}

// Coordinator runs one organize batch over a root directory.
type Coordinator struct {
	root       string
	tax        types.Taxonomy
	cfg        types.SorterConfig
	fallback   string
	classifier *classify.Classifier
	logger     *slog.Logger
	w          io.Writer

	mu         sync.Mutex
	claimed    map[string]struct{}
	placements []types.Placement
	failures   []*MoveFailedError
	skipped    int
}

// NewCoordinator validates root and compiles the classifier for tax.
// Progress lines are written to w.
func NewCoordinator(root string, tax types.Taxonomy, cfg types.SorterConfig, logger *slog.Logger, w io.Writer) (*Coordinator, error) {
	if err := CheckRoot(root); err != nil {
		return nil, err
	}

	c, err := classify.New(tax)
	if err != nil {
		return nil, fmt.Errorf("compiling taxonomy: %w", err)
	}

	if cfg.Suffix == "" {
		cfg.Suffix = defaultSuffix
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if w == nil {
		w = io.Discard
	}

	return &Coordinator{
		root:       root,
		tax:        tax,
		cfg:        cfg,
		fallback:   types.FallbackCategory,
		classifier: c,
		logger:     logger.With(slog.String("component", "organizer"), slog.String("root", root)),
		w:          w,
		claimed:    make(map[string]struct{}),
	}, nil
}

// Claim marks filename as processed. It returns false if the name was
// already claimed in this batch.
func (c *Coordinator) Claim(filename string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.claimed[filename]; ok {
		return false
	}
	c.claimed[filename] = struct{}{}
	return true
}

// Discover lists the regular files directly under the root whose names end
// in the configured suffix. Subdirectories are not descended into.
func (c *Coordinator) Discover() ([]Candidate, error) {
	entries, err := os.ReadDir(c.root)
	if err != nil {
		return nil, fmt.Errorf("reading root %s: %w", c.root, err)
	}

	var out []Candidate
	for _, entry := range entries {
		if !entry.Type().IsRegular() || !strings.HasSuffix(entry.Name(), c.cfg.Suffix) {
			continue
		}
		out = append(out, Candidate{Name: entry.Name(), Path: filepath.Join(c.root, entry.Name())})
	}
	return out, nil
}

// Process classifies and relocates one candidate. A candidate whose name was
// already claimed is skipped. Relocation failures are recorded and returned
// as *MoveFailedError.
func (c *Coordinator) Process(ctx context.Context, cand Candidate) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if !c.Claim(cand.Name) {
		c.mu.Lock()
		c.skipped++
		fmt.Fprintf(c.w, "skipped: %s (already processed)\n", cand.Name)
		c.mu.Unlock()
		return nil
	}

	label := c.classifier.Classify(cand.Name)
	dest, err := Relocate(c.root, cand.Path, label)
	if err != nil {
		mf := &MoveFailedError{Filename: cand.Name, Err: err}
		c.mu.Lock()
		c.failures = append(c.failures, mf)
		fmt.Fprintf(c.w, "failed:  %s (%v)\n", cand.Name, err)
		c.mu.Unlock()
		c.logger.Warn("move failed", slog.String("file", cand.Name), slog.Any("error", err))
		return mf
	}

	p := types.Placement{
		Filename:    cand.Name,
		Source:      cand.Path,
		Destination: dest,
		Expected:    label.Term(),
		Actual:      label.Leaf(),
	}
	c.mu.Lock()
	c.placements = append(c.placements, p)
	fmt.Fprintf(c.w, "moved:   %s -> %s\n", cand.Name, label)
	c.mu.Unlock()
	c.logger.Debug("file relocated",
		slog.String("file", cand.Name),
		slog.String("label", label.String()),
		slog.Bool("matched", label.Matched),
	)
	return nil
}

// Run locks the root, optionally creates the category layout, and processes
// every discovered candidate on a pool of cfg.Workers goroutines.
// Per-file failures do not stop the batch.
func (c *Coordinator) Run(ctx context.Context) (BatchResult, error) {
	lockPath := filepath.Join(c.root, lockFile)
	lock := flock.New(lockPath)
	ok, err := lock.TryLock()
	if err != nil {
		return BatchResult{}, fmt.Errorf("locking %s: %w", lockPath, err)
	}
	if !ok {
		return BatchResult{}, ErrLocked
	}
	// The lock file stays on disk. Removing it after Unlock would let a
	// second run lock a fresh inode while a third still holds the old one.
	defer func() {
		if err := lock.Unlock(); err != nil {
			c.logger.Warn("releasing lock", slog.String("path", lockPath), slog.Any("error", err))
		}
	}()

	if c.cfg.Bootstrap {
		if err := EnsureLayout(c.root, c.tax, c.fallback); err != nil {
			return BatchResult{}, err
		}
	}

	cands, err := c.Discover()
	if err != nil {
		return BatchResult{}, err
	}
	c.logger.Info("batch started", slog.Int("candidates", len(cands)), slog.Int("workers", c.cfg.Workers))

	p := pool.New().WithMaxGoroutines(c.cfg.Workers)
	for _, cand := range cands {
		p.Go(func() {
			_ = c.Process(ctx, cand)
		})
	}
	p.Wait()

	result := c.Result()
	fmt.Fprintf(c.w, "\nBatch summary: %d moved, %d skipped, %d failed (total: %d)\n",
		result.Moved, result.Skipped, result.Failed, result.Total())
	c.logger.Info("batch finished",
		slog.Int("moved", result.Moved),
		slog.Int("skipped", result.Skipped),
		slog.Int("failed", result.Failed),
	)
	return result, ctx.Err()
}

// Result returns everything this coordinator has recorded, with placements
// and failures sorted by filename.
func (c *Coordinator) Result() BatchResult {
	c.mu.Lock()
	defer c.mu.Unlock()

	placements := append([]types.Placement(nil), c.placements...)
	sort.Slice(placements, func(i, j int) bool { return placements[i].Filename < placements[j].Filename })
	failures := append([]*MoveFailedError(nil), c.failures...)
	sort.Slice(failures, func(i, j int) bool { return failures[i].Filename < failures[j].Filename })

	return BatchResult{
		Moved:      len(placements),
		Skipped:    c.skipped,
		Failed:     len(failures),
		Placements: placements,
		Failures:   failures,
	}
}
