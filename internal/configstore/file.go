package configstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/judell/word-replacer/internal/core/wordmap"
	perr "github.com/judell/word-replacer/internal/platform/errors"
)

// File stores the Configuration as a document on disk. The format follows
// the extension: .yaml and .yml are YAML, anything else JSON
type File struct {
	path string
}

// NewFile returns a File store for path
func NewFile(path string) *File { return &File{path: path} }

// Path returns the backing file
func (f *File) Path() string { return f.path }

func (f *File) yaml() bool {
	ext := strings.ToLower(filepath.Ext(f.path))
	return ext == ".yaml" || ext == ".yml"
}

// Load reads the file. A missing file is an empty Configuration
func (f *File) Load(ctx context.Context) (*wordmap.Configuration, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return wordmap.Empty(), nil
	}
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeUnavailable, "read %s", f.path)
	}
	if len(bytes.TrimSpace(b)) == 0 {
		return wordmap.Empty(), nil
	}
	var cfg *wordmap.Configuration
	if f.yaml() {
		cfg, err = wordmap.DecodeYAML(bytes.NewReader(b))
	} else {
		cfg, err = wordmap.Parse(b)
	}
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeInvalidArgument, "decode %s", f.path)
	}
	return cfg, nil
}

// Save writes the file atomically: a temp file in the same directory is
// synced and renamed over the target
func (f *File) Save(ctx context.Context, cfg *wordmap.Configuration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b, err := f.encode(cfg.Document())
	if err != nil {
		return perr.Wrap(err, perr.ErrorCodeInvalidArgument, "encode configuration")
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUnavailable, "mkdir %s", dir)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(f.path)+".*")
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUnavailable, "create temp in %s", dir)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(b); err != nil {
		_ = tmp.Close()
		return perr.Wrap(err, perr.ErrorCodeUnavailable, "write configuration")
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return perr.Wrap(err, perr.ErrorCodeUnavailable, "sync configuration")
	}
	if err := tmp.Close(); err != nil {
		return perr.Wrap(err, perr.ErrorCodeUnavailable, "close configuration")
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUnavailable, "replace %s", f.path)
	}
	return nil
}

func (f *File) encode(doc wordmap.Document) ([]byte, error) {
	if f.yaml() {
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return nil, err
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(b, '\n'), nil
}

// Close is a no-op
func (f *File) Close(context.Context) error { return nil }

// Ping checks that the directory holding the file exists
func (f *File) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	dir := filepath.Dir(f.path)
	fi, err := os.Stat(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return perr.Wrapf(err, perr.ErrorCodeUnavailable, "stat %s", dir)
	}
	if !fi.IsDir() {
		return perr.Unavailablef("%s is not a directory", dir)
	}
	return nil
}
