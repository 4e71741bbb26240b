package localfs

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	apierrors "ffaudio/internal/pkg/errors"
	"ffaudio/internal/ports"
)

// LocalFS implements ports.ScratchStore on a local directory.
type LocalFS struct {
	root string
}

var _ ports.ScratchStore = (*LocalFS)(nil)

func New(root string) *LocalFS {
	return &LocalFS{root: root}
}

// EnsureRoot creates the scratch directory if needed.
func (l *LocalFS) EnsureRoot() error {
	if err := os.MkdirAll(l.root, 0o750); err != nil {
		return apierrors.Filesystem(err, "localfs.ensure_root", l.root)
	}
	return nil
}

func (l *LocalFS) Root() string { return l.root }

func (l *LocalFS) Provider() string { return "localfs" }

// NewKey returns a random UUID-based name carrying ext.
func (l *LocalFS) NewKey(ext string) string {
	return uuid.NewString() + ext
}

// Path maps a key to its file. Keys must be plain names.
func (l *LocalFS) Path(objectKey string) (string, error) {
	if objectKey == "" || objectKey == "." || objectKey == ".." ||
		strings.ContainsAny(objectKey, `/\`) || filepath.Base(objectKey) != objectKey {
		return "", apierrors.Newf(apierrors.CodeInternal, "invalid scratch key %q", objectKey)
	}
	return filepath.Join(l.root, objectKey), nil
}

func (l *LocalFS) PutObject(ctx context.Context, in ports.PutObjectInput) (ports.PutObjectOutput, error) {
	dst, err := l.Path(in.ObjectKey)
	if err != nil {
		return ports.PutObjectOutput{}, err
	}
	if err := ctx.Err(); err != nil {
		return ports.PutObjectOutput{}, apierrors.Wrap(err, "localfs.put", "request canceled")
	}

	outF, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o640)
	if err != nil {
		return ports.PutObjectOutput{}, apierrors.Filesystem(err, "localfs.put", dst)
	}

	n, err := io.Copy(outF, in.Reader)
	closeErr := outF.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(dst)
		return ports.PutObjectOutput{}, apierrors.Filesystem(err, "localfs.put", dst)
	}

	return ports.PutObjectOutput{ObjectKey: in.ObjectKey, Size: n}, nil
}

func (l *LocalFS) GetObject(ctx context.Context, objectKey string) (rc io.ReadCloser, contentType string, size int64, err error) {
	p, err := l.Path(objectKey)
	if err != nil {
		return nil, "", 0, err
	}
	f, err := os.Open(p)
	if err != nil {
		return nil, "", 0, apierrors.Filesystem(err, "localfs.get", p)
	}

	st, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, "", 0, apierrors.Filesystem(err, "localfs.get", p)
	}
	size = st.Size()

	// Prefer extension-based type. If empty, sniff first bytes.
	contentType = mime.TypeByExtension(filepath.Ext(p))
	if contentType == "" {
		buf := make([]byte, 512)
		n, _ := f.Read(buf)
		_, _ = f.Seek(0, io.SeekStart)
		contentType = http.DetectContentType(buf[:n])
	}

	return f, contentType, size, nil
}

func (l *LocalFS) DeleteObject(ctx context.Context, objectKey string) error {
	p, err := l.Path(objectKey)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return apierrors.Filesystem(err, "localfs.delete", p)
	}
	return nil
}
