// Package importer collects flashcards from markdown files and directories.
package importer

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/conorfennell/elephant/internal/domain"
	"github.com/conorfennell/elephant/internal/parser"
)

// Result holds the cards found by Collect and the files that failed to parse.
type Result struct {
	Cards  []domain.Card
	Files  int
	Errors []error
}

// Collect parses every path. Directories are walked for *.md files; plain
// files are parsed whatever their extension. A file that fails to parse is
// recorded in Errors and does not stop the walk. A path that cannot be read
// at all is returned as an error.
func Collect(paths ...string) (*Result, error) {
	res := &Result{}
	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", root, err)
		}
		if !info.IsDir() {
			res.parse(root)
			continue
		}

		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && isMarkdown(d.Name()) {
				res.parse(path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", root, err)
		}
	}

	slog.Info("markdown collected", "files", res.Files, "cards", len(res.Cards), "errors", len(res.Errors))
	return res, nil
}

func (r *Result) parse(path string) {
	r.Files++
	entries, err := parser.ParseFile(path)
	if err != nil {
		r.Errors = append(r.Errors, err)
		return
	}
	slog.Debug("parsed markdown", "path", path, "cards", len(entries))
	for _, e := range entries {
		slog.Debug("card found", "path", path, "line", e.Line)
		r.Cards = append(r.Cards, domain.Card{Question: e.Question, Answer: e.Answer})
	}
}

func isMarkdown(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), ".md")
}
