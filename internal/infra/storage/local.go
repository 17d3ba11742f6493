package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

type Local struct {
	root    string
	baseURL string
}

// NewLocal stores files under root and serves them from publicBaseURL+prefix.
func NewLocal(root, publicBaseURL, prefix string) *Local {
	return &Local{
		root:    root,
		baseURL: strings.TrimRight(publicBaseURL, "/") + "/" + strings.Trim(prefix, "/"),
	}
}

func (l *Local) Root() string {
	return l.root
}

func (l *Local) Store(ctx context.Context, r io.Reader, dir, suggestedName string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	ext := strings.ToLower(filepath.Ext(filepath.Base(suggestedName)))
	ref := path.Join(dir, uuid.NewString()+ext)
	full := filepath.Join(l.root, filepath.FromSlash(ref))

	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload dir: %w", err)
	}

	f, err := os.OpenFile(full, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(full)
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(full)
		return "", fmt.Errorf("failed to close file: %w", err)
	}
	return ref, nil
}

func (l *Local) URL(ref string) string {
	if ref == "" {
		return ""
	}
	return l.baseURL + "/" + strings.TrimLeft(ref, "/")
}

func (l *Local) Delete(ctx context.Context, ref string) error {
	if ref == "" {
		return nil
	}
	clean := path.Clean("/" + ref)
	err := os.Remove(filepath.Join(l.root, filepath.FromSlash(clean)))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete %s: %w", ref, err)
	}
	return nil
}
