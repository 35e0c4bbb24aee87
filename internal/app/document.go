package app

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/dshills/kakmotion/internal/engine"
	"github.com/dshills/kakmotion/internal/session"
)

// Document is an open file with its editor host and selection session.
type Document struct {
	// Path is the absolute file path (empty for scratch buffers).
	Path string

	// Name is the display name (file name or "Untitled").
	Name string

	// Engine is the text buffer and live selections.
	Engine *engine.Engine

	// Store holds the primary index and registers for this document.
	Store *session.Store

	mu    sync.Mutex
	saved engine.RevisionID
}

// NewDocument creates a document over content. The language identifier,
// which selects the unit table, is detected from the path.
func NewDocument(path string, content []byte, opts ...session.Option) *Document {
	name := filepath.Base(path)
	if path == "" {
		name = "Untitled"
	}

	eng := engine.New(
		engine.WithContent(string(content)),
		engine.WithLanguageID(DetectLanguageID(path)),
	)
	return &Document{
		Path:   path,
		Name:   name,
		Engine: eng,
		Store:  session.NewStore(opts...),
		saved:  eng.RevisionID(),
	}
}

// OpenDocument reads path into a new document.
func OpenDocument(path string, opts ...session.Option) (*Document, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	content, err := os.ReadFile(abs)
	if err != nil {
		return nil, err
	}
	return NewDocument(abs, content, opts...), nil
}

// LanguageID returns the document kind used for unit lookup.
func (d *Document) LanguageID() string {
	return d.Engine.LanguageID()
}

// IsScratch returns true if the document has no file path.
func (d *Document) IsScratch() bool {
	return d.Path == ""
}

// IsModified reports whether the text changed since it was read or saved.
func (d *Document) IsModified() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.Engine.RevisionID() != d.saved
}

// Content returns the full document content.
func (d *Document) Content() string {
	return d.Engine.Text()
}

// Save writes the document back to its path, replacing the file through a
// temporary file in the same directory.
func (d *Document) Save() error {
	if d.IsScratch() {
		return fmt.Errorf("save %s: %w", d.Name, ErrNoDocument)
	}
	return d.SaveAs(d.Path)
}

// SaveAs writes the document to path.
func (d *Document) SaveAs(path string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	rev := d.Engine.RevisionID()
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(d.Engine.Text()); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(mode); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return err
	}
	if path == d.Path {
		d.saved = rev
	}
	return nil
}

// languageIDs maps file extensions to language identifiers.
var languageIDs = map[string]string{
	".go":       "go",
	".rs":       "rust",
	".ts":       "typescript",
	".tsx":      "typescriptreact",
	".js":       "javascript",
	".jsx":      "javascriptreact",
	".py":       "python",
	".rb":       "ruby",
	".java":     "java",
	".c":        "c",
	".cpp":      "cpp",
	".cc":       "cpp",
	".h":        "cpp",
	".hpp":      "cpp",
	".cs":       "csharp",
	".lua":      "lua",
	".sh":       "shellscript",
	".bash":     "shellscript",
	".md":       "markdown",
	".markdown": "markdown",
	".json":     "json",
	".yaml":     "yaml",
	".yml":      "yaml",
	".toml":     "toml",
	".html":     "html",
	".css":      "css",
	".sql":      "sql",
	".txt":      "plaintext",
}

// DetectLanguageID returns the language identifier for a file path, or
// "plaintext" when the extension is unknown.
func DetectLanguageID(path string) string {
	if id, ok := languageIDs[strings.ToLower(filepath.Ext(path))]; ok {
		return id
	}
	switch strings.ToLower(filepath.Base(path)) {
	case "makefile":
		return "makefile"
	case "dockerfile":
		return "dockerfile"
	}
	return "plaintext"
}
