/*
PURPOSE:
  Gives the contract checks read-only access to a project directory.
  Resolves the project root once and serves files relative to it.

REQUIREMENTS:
  User-specified:
  - Read data/*.json and index.html from the project root.
  - Never write to the project.

  Implementation-discovered:
  - Serving through io/fs keeps every lookup inside the root and lets tests
    substitute fstest.MapFS.

ARCHITECTURE INTEGRATION:
  - Called by: internal/engine/runner.go
  - Satisfies: internal/contract.Source

ERROR HANDLING:
  - Open fails if the root is missing or not a directory.
  - Read errors are returned unwrapped; the checks turn them into violations.

IMPLEMENTATION RULES:
  - Names are slash-separated and root-relative.

USAGE:
  p, err := engine.Open(".")
  data, err := p.ReadFile("data/links.json")

SELF-HEALING INSTRUCTIONS:
  - If files are "missing" that exist on disk, check the root passed to Open.

RELATED FILES:
  - internal/contract/checker.go

MAINTENANCE:
  - None.
*/

package engine

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/daryltucker/sitecheck/internal/output"
)

// Project is a read-only view of a project directory.
type Project struct {
	Root string
	fsys fs.FS
}

// Open resolves root to an absolute directory and returns a Project for it.
func Open(root string) (*Project, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve project root %s: %w", root, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("failed to open project root %s: %w", abs, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("project root %s is not a directory", abs)
	}
	return &Project{Root: abs, fsys: os.DirFS(abs)}, nil
}

// ReadFile reads a root-relative file.
func (p *Project) ReadFile(name string) ([]byte, error) {
	output.Logger.Debug("Reading document", "root", p.Root, "name", name)
	return fs.ReadFile(p.fsys, name)
}

// Stat describes a root-relative file.
func (p *Project) Stat(name string) (fs.FileInfo, error) {
	return fs.Stat(p.fsys, name)
}
