// Package corpus loads a directory tree of Markdown files into immutable
// documents for analysis.
//
// Loading fans out across a bounded worker pool because the pipeline is
// I/O-bound, then merges at a join barrier. Results are re-sorted by path so
// downstream output is deterministic regardless of worker completion order.
package corpus

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/jpl-au/mdaudit/internal/document"
)

// DefaultWorkers bounds concurrent file loads when the caller does not
// configure a pool size.
const DefaultWorkers = 8

// Corpus holds every document under one root, sorted by path.
type Corpus struct {
	Root string
	Docs []*document.Document
}

// Load reads all .md files under root. Hidden directories (.git, .mdaudit)
// are skipped. An unreadable root is fatal; an unreadable individual file is
// not expected in practice and fails the load so it never passes silently.
func Load(root string, workers int) (*Corpus, error) {
	if workers <= 0 {
		workers = DefaultWorkers
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("corpus root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("corpus root %s is not a directory", root)
	}

	var paths []string
	err = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") && p != root {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(d.Name(), ".md") {
			paths = append(paths, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", root, err)
	}

	docs := make([]*document.Document, len(paths))
	errs := make([]error, len(paths))

	// Fixed worker count; each worker owns a disjoint slice index, so the
	// merge needs no locking.
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup
	for i, p := range paths {
		wg.Go(func() {
			sem <- struct{}{}
			defer func() { <-sem }()

			doc, err := document.Load(p)
			if err != nil {
				errs[i] = err
				return
			}
			// Report paths relative to the corpus root with forward slashes
			// so findings are stable across machines.
			if rel, relErr := filepath.Rel(root, p); relErr == nil {
				doc.Path = filepath.ToSlash(rel)
			}
			docs[i] = doc
		})
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	sort.Slice(docs, func(a, b int) bool { return docs[a].Path < docs[b].Path })
	return &Corpus{Root: root, Docs: docs}, nil
}

// TotalBlocks counts blocks across the corpus, used by the scorer's
// redundancy penalty denominator.
func (c *Corpus) TotalBlocks() int {
	n := 0
	for _, d := range c.Docs {
		n += len(d.Blocks)
	}
	return n
}
