package discovery

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestWalkerCollectFindsALFilesRecursively(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "Customer.al"), "table 1 \"Customer\" { }")
	writeFile(t, filepath.Join(root, "sub", "Address.al"), "table 2 \"Address\" { }")
	writeFile(t, filepath.Join(root, "readme.txt"), "not al")

	w := NewWalker()
	files, err := w.Collect(context.Background(), Scope{Root: root})
	require.NoError(t, err)

	sort.Strings(files)
	require.Len(t, files, 2)
	assert.Contains(t, files[0], ".al")
	assert.Contains(t, files[1], ".al")
}

func TestWalkerHonorsExcludePatterns(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "Customer.al"), "table 1 \"Customer\" { }")
	writeFile(t, filepath.Join(root, "Generated.al"), "table 2 \"Generated\" { }")

	w := NewWalker()
	files, err := w.Collect(context.Background(), Scope{
		Root:    root,
		Exclude: []string{"**/Generated.al"},
	})
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Contains(t, files[0], "Customer.al")
}

func TestWalkerMaxFilesCapsResults(t *testing.T) {
	root := t.TempDir()
	for i := 0; i < 5; i++ {
		writeFile(t, filepath.Join(root, string(rune('A'+i))+".al"), "table 1 \"X\" { }")
	}

	w := NewWalker()
	files, err := w.Collect(context.Background(), Scope{Root: root, MaxFiles: 2})
	require.NoError(t, err)
	assert.LessOrEqual(t, len(files), 2)
}

func TestWalkerRejectsMissingRoot(t *testing.T) {
	w := NewWalker()
	_, err := w.Collect(context.Background(), Scope{Root: filepath.Join(t.TempDir(), "nope")})
	assert.Error(t, err)
}
