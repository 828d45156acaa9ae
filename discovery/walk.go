// Package discovery finds AL source files on disk for the indexer to feed
// into core.ParseSource/core.ChunkFile.
package discovery

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
)

// Scope bounds a single discovery run.
type Scope struct {
	Root           string
	Include        []string // glob patterns; default **/*.al when empty
	Exclude        []string // glob patterns, matched against path or basename
	MaxDepth       int      // 0 means unbounded
	MaxFiles       int      // 0 means unbounded
	FollowSymlinks bool
}

// Result is one discovered file, or a discovery-time error for a path the
// walker could not stat.
type Result struct {
	Path string
	Info os.FileInfo
	Err  error
}

// Walker performs parallel, glob-filtered traversal rooted at Scope.Root.
type Walker struct {
	workers    int
	bufferSize int
}

// NewWalker returns a Walker sized for I/O-bound traversal.
func NewWalker() *Walker {
	return &Walker{
		workers:    runtime.NumCPU() * 2,
		bufferSize: 256,
	}
}

// Walk streams every .al file under scope.Root matching its include/exclude
// patterns. The returned channel closes once traversal completes or ctx is
// canceled.
func (w *Walker) Walk(ctx context.Context, scope Scope) (<-chan Result, error) {
	if err := validateScope(scope); err != nil {
		return nil, err
	}
	if len(scope.Include) == 0 {
		scope.Include = []string{"**/*.al"}
	}

	results := make(chan Result, w.bufferSize)
	paths := make(chan string, w.bufferSize)

	var wg sync.WaitGroup
	for i := 0; i < w.workers; i++ {
		wg.Add(1)
		go w.statWorker(ctx, paths, results, &wg)
	}

	go func() {
		defer close(paths)
		processed := 0
		var visited map[string]struct{}
		if scope.FollowSymlinks {
			visited = map[string]struct{}{}
		}
		scanDirectory(ctx, scope.Root, scope, paths, 0, &processed, visited)
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	return results, nil
}

// Collect discovers every matching file and returns their paths unsorted,
// in the order the parallel stat workers report them. Callers who want a
// deterministic cross-run order should sort the result themselves.
func (w *Walker) Collect(ctx context.Context, scope Scope) ([]string, error) {
	results, err := w.Walk(ctx, scope)
	if err != nil {
		return nil, err
	}
	var files []string
	for r := range results {
		if r.Err != nil {
			continue
		}
		files = append(files, r.Path)
	}
	return files, nil
}

func (w *Walker) statWorker(ctx context.Context, paths <-chan string, results chan<- Result, wg *sync.WaitGroup) {
	defer wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case path, ok := <-paths:
			if !ok {
				return
			}
			info, err := os.Stat(path)
			select {
			case <-ctx.Done():
				return
			case results <- Result{Path: path, Info: info, Err: err}:
			}
		}
	}
}

func scanDirectory(
	ctx context.Context,
	dirPath string,
	scope Scope,
	paths chan<- string,
	depth int,
	processed *int,
	visited map[string]struct{},
) {
	if scope.MaxFiles > 0 && *processed >= scope.MaxFiles {
		return
	}
	select {
	case <-ctx.Done():
		return
	default:
	}
	if scope.MaxDepth > 0 && depth > scope.MaxDepth {
		return
	}

	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return
	}

	for _, entry := range entries {
		select {
		case <-ctx.Done():
			return
		default:
		}

		fullPath := filepath.Join(dirPath, entry.Name())
		if matchesAny(fullPath, scope.Exclude) {
			continue
		}

		if entry.Type()&os.ModeSymlink != 0 && scope.FollowSymlinks {
			resolved, err := filepath.EvalSymlinks(fullPath)
			if err != nil {
				continue
			}
			info, err := os.Stat(resolved)
			if err != nil {
				continue
			}
			if info.IsDir() {
				if _, seen := visited[resolved]; seen {
					continue
				}
				visited[resolved] = struct{}{}
				scanDirectory(ctx, fullPath, scope, paths, depth+1, processed, visited)
			}
			continue
		}

		if entry.IsDir() {
			scanDirectory(ctx, fullPath, scope, paths, depth+1, processed, visited)
			continue
		}

		if matchesAny(fullPath, scope.Include) {
			if scope.MaxFiles > 0 && *processed >= scope.MaxFiles {
				return
			}
			select {
			case <-ctx.Done():
				return
			case paths <- fullPath:
				*processed++
			}
		}
	}
}

func matchesAny(path string, patterns []string) bool {
	for _, pattern := range patterns {
		if matched, err := doublestar.Match(pattern, filepath.ToSlash(path)); err == nil && matched {
			return true
		}
		if !strings.Contains(pattern, "/") {
			if matched, err := doublestar.Match(pattern, filepath.Base(path)); err == nil && matched {
				return true
			}
		}
	}
	return false
}

func validateScope(scope Scope) error {
	if scope.Root == "" {
		return fmt.Errorf("discovery: root path is required")
	}
	info, err := os.Stat(scope.Root)
	if err != nil {
		return fmt.Errorf("discovery: cannot access root %s: %w", scope.Root, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("discovery: root %s is not a directory", scope.Root)
	}
	return nil
}
