// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package organize

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/gofrs/flock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/paper-sorter/internal/taxonomy"
	"github.com/pdiddy/paper-sorter/pkg/types"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4"), 0o644))
}

func newCoordinator(t *testing.T, root string, cfg types.SorterConfig) (*Coordinator, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	c, err := NewCoordinator(root, taxonomy.Default(), cfg, nil, &out)
	require.NoError(t, err)
	return c, &out
}

func TestCheckRoot(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "file.pdf")
	touch(t, file)

	assert.NoError(t, CheckRoot(dir))
	assert.ErrorIs(t, CheckRoot(file), ErrInvalidPath)
	assert.ErrorIs(t, CheckRoot(filepath.Join(dir, "missing")), ErrInvalidPath)

	_, err := NewCoordinator(file, taxonomy.Default(), types.SorterConfig{}, nil, nil)
	assert.ErrorIs(t, err, ErrInvalidPath)
}

func TestRelocate(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "postgresql-intro.pdf")
	touch(t, src)

	label := types.Label{Category: "Database", Subcategory: "PostgreSQL", Matched: true}
	dest, err := Relocate(root, src, label)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(root, "Database", "PostgreSQL", "postgresql-intro.pdf"), dest)
	assert.FileExists(t, dest)
	assert.NoFileExists(t, src)
}

func TestRelocateBareCategory(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "math.pdf")
	touch(t, src)

	dest, err := Relocate(root, src, types.Label{Category: "Math", Subcategory: "Math", Matched: true})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "Math", "math.pdf"), dest)
}

func TestRelocateRefusesOverwrite(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "notes.pdf")
	require.NoError(t, os.WriteFile(src, []byte("incoming"), 0o644))
	existing := filepath.Join(root, "Others", "notes.pdf")
	require.NoError(t, os.MkdirAll(filepath.Dir(existing), 0o755))
	require.NoError(t, os.WriteFile(existing, []byte("already sorted"), 0o644))

	_, err := Relocate(root, src, types.Fallback("Others"))
	assert.ErrorIs(t, err, fs.ErrExist)

	data, err := os.ReadFile(existing)
	require.NoError(t, err)
	assert.Equal(t, "already sorted", string(data))
	data, err = os.ReadFile(src)
	require.NoError(t, err)
	assert.Equal(t, "incoming", string(data))
}

func TestCopyThenRemove(t *testing.T) {
	srcDir, destDir := t.TempDir(), t.TempDir()
	src := filepath.Join(srcDir, "rag-survey.pdf")
	require.NoError(t, os.WriteFile(src, []byte("%PDF-1.7 body"), 0o600))
	require.NoError(t, os.Chmod(src, 0o600))
	dest := filepath.Join(destDir, "rag-survey.pdf")

	require.NoError(t, copyThenRemove(src, dest))

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.7 body", string(data))
	if runtime.GOOS != "windows" {
		info, err := os.Stat(dest)
		require.NoError(t, err)
		assert.Equal(t, fs.FileMode(0o600), info.Mode().Perm())
	}
	assert.NoFileExists(t, src)

	leftovers, err := filepath.Glob(filepath.Join(destDir, ".relocate-*.tmp"))
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}

func TestCopyThenRemoveRefusesOverwrite(t *testing.T) {
	srcDir, destDir := t.TempDir(), t.TempDir()
	src := filepath.Join(srcDir, "notes.pdf")
	require.NoError(t, os.WriteFile(src, []byte("incoming"), 0o644))
	dest := filepath.Join(destDir, "notes.pdf")
	require.NoError(t, os.WriteFile(dest, []byte("already sorted"), 0o644))

	err := copyThenRemove(src, dest)
	assert.ErrorIs(t, err, fs.ErrExist)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "already sorted", string(data))
	assert.FileExists(t, src)

	leftovers, err := filepath.Glob(filepath.Join(destDir, ".relocate-*.tmp"))
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}

func TestCopyThenRemoveMissingDestDir(t *testing.T) {
	src := filepath.Join(t.TempDir(), "notes.pdf")
	touch(t, src)

	err := copyThenRemove(src, filepath.Join(t.TempDir(), "gone", "notes.pdf"))
	assert.Error(t, err)
	assert.FileExists(t, src)
}

func TestEnsureLayout(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, EnsureLayout(root, taxonomy.Default(), "Others"))

	for _, dir := range []string{
		"Others",
		"Programming/Python",
		"AI/Neural_Networks",
		"Security/DDOS_Attacks",
		"Math",
	} {
		assert.DirExists(t, filepath.Join(root, filepath.FromSlash(dir)))
	}
}

func TestDiscover(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "a.pdf"))
	touch(t, filepath.Join(root, "b.PDF"))
	touch(t, filepath.Join(root, "notes.txt"))
	touch(t, filepath.Join(root, "AI", "nested.pdf"))
	require.NoError(t, os.Mkdir(filepath.Join(root, "folder.pdf"), 0o755))

	c, _ := newCoordinator(t, root, types.SorterConfig{})
	cands, err := c.Discover()
	require.NoError(t, err)
	require.Len(t, cands, 1)
	assert.Equal(t, "a.pdf", cands[0].Name)
	assert.Equal(t, filepath.Join(root, "a.pdf"), cands[0].Path)
}

func TestClaim(t *testing.T) {
	c, _ := newCoordinator(t, t.TempDir(), types.SorterConfig{})
	assert.True(t, c.Claim("a.pdf"))
	assert.False(t, c.Claim("a.pdf"))
	assert.True(t, c.Claim("b.pdf"))
}

func TestProcessSkipsClaimedFile(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "java-basics.pdf")
	touch(t, src)

	c, out := newCoordinator(t, root, types.SorterConfig{})
	cand := Candidate{Name: "java-basics.pdf", Path: src}
	require.NoError(t, c.Process(context.Background(), cand))
	require.NoError(t, c.Process(context.Background(), cand))

	res := c.Result()
	assert.Equal(t, 1, res.Moved)
	assert.Equal(t, 1, res.Skipped)
	assert.Contains(t, out.String(), "skipped: java-basics.pdf")
	assert.FileExists(t, filepath.Join(root, "Programming", "Java", "java-basics.pdf"))
}

func TestRun(t *testing.T) {
	for _, workers := range []int{1, 4} {
		t.Run(fmt.Sprintf("workers=%d", workers), func(t *testing.T) {
			root := t.TempDir()
			for _, name := range []string{
				"Python_tutorial.pdf",
				"Pythonic_tutorial.pdf",
				"postgresql-intro.pdf",
				"ddos-attacks-2023.pdf",
				"calculus.pdf",
				"security-handbook.pdf",
				"readme.txt",
			} {
				touch(t, filepath.Join(root, name))
			}

			c, out := newCoordinator(t, root, types.SorterConfig{Workers: workers, Bootstrap: true})
			res, err := c.Run(context.Background())
			require.NoError(t, err)

			assert.Equal(t, 6, res.Moved)
			assert.Equal(t, 0, res.Failed)
			assert.False(t, res.HasFailures())
			assert.Contains(t, out.String(), "Batch summary: 6 moved, 0 skipped, 0 failed (total: 6)")

			for _, rel := range []string{
				"Programming/Python/Python_tutorial.pdf",
				"Others/Pythonic_tutorial.pdf",
				"Database/PostgreSQL/postgresql-intro.pdf",
				"Security/DDOS_Attacks/ddos-attacks-2023.pdf",
				"Math/Calculus/calculus.pdf",
				"Security/security-handbook.pdf",
			} {
				assert.FileExists(t, filepath.Join(root, filepath.FromSlash(rel)))
			}
			assert.FileExists(t, filepath.Join(root, "readme.txt"))
			assert.FileExists(t, filepath.Join(root, lockFile))
			assert.DirExists(t, filepath.Join(root, "AI", "RAG"))

			require.Len(t, res.Placements, 6)
			assert.Equal(t, "Pythonic_tutorial.pdf", res.Placements[1].Filename)
			assert.Equal(t, "", res.Placements[1].Expected)
			assert.Equal(t, "Others", res.Placements[1].Actual)
			assert.Equal(t, "Python_tutorial.pdf", res.Placements[0].Filename)
			assert.Equal(t, "Python", res.Placements[0].Expected)
			assert.Equal(t, "Python", res.Placements[0].Actual)
		})
	}
}

func TestRunIsIdempotent(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "rag-survey.pdf"))
	touch(t, filepath.Join(root, "sql-cookbook.pdf"))

	first, _ := newCoordinator(t, root, types.SorterConfig{})
	res, err := first.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, res.Moved)

	second, _ := newCoordinator(t, root, types.SorterConfig{})
	res, err = second.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, res.Total())
	assert.FileExists(t, filepath.Join(root, "AI", "RAG", "rag-survey.pdf"))
	assert.FileExists(t, filepath.Join(root, "Database", "SQL", "sql-cookbook.pdf"))
}

func TestRunContinuesAfterMoveFailure(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "java.pdf"))
	touch(t, filepath.Join(root, "rag.pdf"))
	// A file where the Java directory should be makes MkdirAll fail.
	touch(t, filepath.Join(root, "Programming", "Java"))

	c, out := newCoordinator(t, root, types.SorterConfig{})
	res, err := c.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, res.Moved)
	assert.Equal(t, 1, res.Failed)
	assert.True(t, res.HasFailures())
	require.Len(t, res.Failures, 1)
	assert.Equal(t, "java.pdf", res.Failures[0].Filename)
	assert.Contains(t, res.Failures[0].Error(), "moving java.pdf")
	assert.Contains(t, out.String(), "failed:  java.pdf")
	assert.FileExists(t, filepath.Join(root, "java.pdf"))
	assert.FileExists(t, filepath.Join(root, "AI", "RAG", "rag.pdf"))
}

func TestRunLocked(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("flock semantics differ on windows")
	}
	root := t.TempDir()
	held := flock.New(filepath.Join(root, lockFile))
	ok, err := held.TryLock()
	require.NoError(t, err)
	require.True(t, ok)
	defer held.Unlock()

	c, _ := newCoordinator(t, root, types.SorterConfig{})
	_, err = c.Run(context.Background())
	assert.ErrorIs(t, err, ErrLocked)
}

func TestRunReleasesLock(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("flock semantics differ on windows")
	}
	root := t.TempDir()
	touch(t, filepath.Join(root, "java.pdf"))

	first, _ := newCoordinator(t, root, types.SorterConfig{})
	_, err := first.Run(context.Background())
	require.NoError(t, err)

	held := flock.New(filepath.Join(root, lockFile))
	ok, err := held.TryLock()
	require.NoError(t, err)
	assert.True(t, ok)
	require.NoError(t, held.Unlock())

	touch(t, filepath.Join(root, "rag.pdf"))
	second, _ := newCoordinator(t, root, types.SorterConfig{})
	res, err := second.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, res.Moved)
}

func TestRunCancelled(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "java.pdf"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c, _ := newCoordinator(t, root, types.SorterConfig{})
	res, err := c.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, res.Moved)
	assert.FileExists(t, filepath.Join(root, "java.pdf"))
}
