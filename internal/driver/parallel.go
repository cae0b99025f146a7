package driver

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// Progress is called after each file finishes; done is the running
// count, total the number of files. Called from worker goroutines.
type Progress func(done, total int, res BatchResult)

// BatchResult pairs a path with its pipeline outcome.
type BatchResult struct {
	Path   string
	Result *Result
	Err    error
}

// CollectFiles walks root and returns every .st file, sorted. A root
// that is itself a file is returned as-is.
func CollectFiles(root string) ([]string, error) {
	fi, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !fi.IsDir() {
		return []string{root}, nil
	}
	st, err := filesUnder(root)
	if err != nil {
		return nil, err
	}
	sort.Strings(st)
	return st, nil
}

func filesUnder(root string) ([]string, error) {
	var out []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if strings.EqualFold(filepath.Ext(path), ".st") {
			out = append(out, path)
		}
		return nil
	})
	return out, err
}

// CheckPaths runs the pipeline over files with up to jobs workers.
// jobs <= 0 uses GOMAXPROCS. Results come back in input order; a
// failing file reports its error in its slot instead of aborting the
// batch.
func CheckPaths(ctx context.Context, paths []string, opts Options, jobs int, progress Progress) []BatchResult {
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	results := make([]BatchResult, len(paths))
	var done atomic.Int64

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i] = BatchResult{Path: path, Err: err}
				return nil
			}
			res, err := CheckFile(path, opts)
			results[i] = BatchResult{Path: path, Result: res, Err: err}
			if progress != nil {
				progress(int(done.Add(1)), len(paths), results[i])
			}
			return nil
		})
	}
	// воркеры не возвращают ошибок, ошибки лежат в слотах
	_ = g.Wait()
	return results
}
