package docs

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"
)

// Status is the outcome of stamping a single file.
type Status string

const (
	StatusUpdated   Status = "updated"
	StatusCreated   Status = "created"
	StatusUnchanged Status = "unchanged"
	StatusSkipped   Status = "skipped"
)

// Result holds the outcome for one file.
type Result struct {
	Path   string
	Status Status
	Reason string // why the file was skipped
}

// Document represents a text file with managed sections.
type Document struct {
	Path    string
	Content string
}

// StampOptions controls how a Stamper treats files.
type StampOptions struct {
	DryRun bool // report changes without writing
	Create bool // append the section to files that lack it instead of skipping them
}

// Stamper rewrites one managed section across many files.
type Stamper struct {
	marker string
	opts   StampOptions
}

// NewStamper creates a stamper for the section named marker.
func NewStamper(marker string, opts StampOptions) *Stamper {
	return &Stamper{marker: marker, opts: opts}
}

// LoadDocument reads a file.
func LoadDocument(path string) (*Document, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}
	return &Document{Path: path, Content: string(content)}, nil
}

// SaveDocument writes the document back to disk, keeping the file mode.
func SaveDocument(doc *Document) error {
	mode := os.FileMode(0o644)
	if info, err := os.Stat(doc.Path); err == nil {
		mode = info.Mode().Perm()
	}
	return os.WriteFile(doc.Path, []byte(doc.Content), mode)
}

// StampFile replaces the managed section of a single file with content.
// Unbalanced markers anywhere in the file are an ErrMalformedSection error.
func (s *Stamper) StampFile(path, content string) (Result, error) {
	doc, err := LoadDocument(path)
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", path, err)
	}
	if err := CheckManagedSections(doc.Content); err != nil {
		return Result{}, fmt.Errorf("%s: %w", path, err)
	}

	status := StatusUpdated
	var updated string
	if HasManagedSection(doc.Content, s.marker) {
		updated, err = UpdateManagedSection(doc.Content, s.marker, content)
		if err != nil {
			return Result{}, fmt.Errorf("%s: %w", path, err)
		}
		if updated == doc.Content {
			return Result{Path: path, Status: StatusUnchanged}, nil
		}
	} else {
		if !s.opts.Create {
			return Result{Path: path, Status: StatusSkipped, Reason: fmt.Sprintf("no %q section", s.marker)}, nil
		}
		updated = appendSection(doc.Content, CreateManagedSection(s.marker, content))
		status = StatusCreated
	}

	if !s.opts.DryRun {
		doc.Content = updated
		if err := SaveDocument(doc); err != nil {
			return Result{}, fmt.Errorf("%s: writing file: %w", path, err)
		}
	}
	return Result{Path: path, Status: status}, nil
}

// appendSection adds section after existing text, separated by a blank line.
func appendSection(existing, section string) string {
	existing = strings.TrimRight(existing, "\n")
	if existing == "" {
		return section + "\n"
	}
	return existing + "\n\n" + section + "\n"
}

// Stamp updates every file concurrently. Results are returned in the order of
// files; the first failure cancels outstanding work.
func (s *Stamper) Stamp(ctx context.Context, files []string, content string) ([]Result, error) {
	results := make([]Result, len(files))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	for i, path := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := s.StampFile(path, content)
			if err != nil {
				return err
			}
			slog.Debug("Stamped file", "path", path, "status", res.Status)
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// CountByStatus tallies results by status.
func CountByStatus(results []Result) map[Status]int {
	counts := make(map[Status]int)
	for _, r := range results {
		counts[r.Status]++
	}
	return counts
}
