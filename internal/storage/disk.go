package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/crypto/blake2b"

	"github.com/openmuseum/inventory/internal/domain"
)

// Logical subtrees under the storage root. Every path handed to the store is
// relative and must live inside one of them.
const (
	AvailableDir = "available"
	AttachedDir  = "attached"
)

// DiskStore implements domain.ImageStore on a local filesystem.
type DiskStore struct {
	root string
}

// NewDiskStore prepares the storage root and both logical subtrees.
func NewDiskStore(root string) (*DiskStore, error) {
	for _, dir := range []string{AvailableDir, AttachedDir} {
		if err := os.MkdirAll(filepath.Join(root, dir), 0o755); err != nil {
			return nil, fmt.Errorf("create storage dir %s: %w", dir, err)
		}
	}
	return &DiskStore{root: root}, nil
}

// AvailablePath builds the logical path of a file in the available pool.
func AvailablePath(name string) string {
	return AvailableDir + "/" + name
}

// AttachedPath builds the logical path of an owned file.
func AttachedPath(name string) string {
	return AttachedDir + "/" + name
}

// resolve maps a logical path onto the disk and rejects anything that would
// escape the storage root.
func (s *DiskStore) resolve(path string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(path))
	if filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: path %q escapes storage root", domain.ErrInvalidInput, path)
	}
	return filepath.Join(s.root, clean), nil
}

// Move copies src to dst, verifies the copy byte-for-byte via a BLAKE2b sum,
// and only then removes the source. A failed verification removes the
// partial destination and reports ErrWriteFailure with the source untouched.
func (s *DiskStore) Move(ctx context.Context, src, dst string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	srcAbs, err := s.resolve(src)
	if err != nil {
		return err
	}
	dstAbs, err := s.resolve(dst)
	if err != nil {
		return err
	}

	srcSum, err := checksumFile(srcAbs)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", domain.ErrFileNotFound, src)
		}
		return fmt.Errorf("read source %s: %w", src, err)
	}

	if err := copyFile(ctx, srcAbs, dstAbs); err != nil {
		os.Remove(dstAbs)
		if ctx.Err() != nil {
			return fmt.Errorf("copy %s to %s: %w", src, dst, ctx.Err())
		}
		return fmt.Errorf("%w: copy %s to %s: %v", domain.ErrWriteFailure, src, dst, err)
	}

	dstSum, err := checksumFile(dstAbs)
	if err != nil || dstSum != srcSum {
		os.Remove(dstAbs)
		return fmt.Errorf("%w: verification failed for %s", domain.ErrWriteFailure, dst)
	}

	if err := os.Remove(srcAbs); err != nil {
		// Destination is verified; a lingering source is preferable to
		// removing the copy, so report rather than undo.
		return fmt.Errorf("remove source %s: %w", src, err)
	}
	return nil
}

func (s *DiskStore) Exists(ctx context.Context, path string) bool {
	if ctx.Err() != nil {
		return false
	}
	abs, err := s.resolve(path)
	if err != nil {
		return false
	}
	info, err := os.Stat(abs)
	return err == nil && !info.IsDir()
}

func (s *DiskStore) Read(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	abs, err := s.resolve(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", domain.ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

func (s *DiskStore) Delete(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	abs, err := s.resolve(path)
	if err != nil {
		return err
	}
	if err := os.Remove(abs); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", domain.ErrFileNotFound, path)
		}
		return fmt.Errorf("delete %s: %w", path, err)
	}
	return nil
}

func (s *DiskStore) Size(ctx context.Context, path string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	abs, err := s.resolve(path)
	if err != nil {
		return 0, err
	}
	info, err := os.Stat(abs)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, fmt.Errorf("%w: %s", domain.ErrFileNotFound, path)
		}
		return 0, fmt.Errorf("stat %s: %w", path, err)
	}
	return info.Size(), nil
}

// WriteNew creates a file that must not already exist. Used by upload
// ingestion; Move covers every transition after that.
func (s *DiskStore) WriteNew(ctx context.Context, path string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	abs, err := s.resolve(path)
	if err != nil {
		return err
	}
	f, err := os.OpenFile(abs, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("%w: %s", domain.ErrDuplicatePath, path)
		}
		return fmt.Errorf("%w: create %s: %v", domain.ErrWriteFailure, path, err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(abs)
		return fmt.Errorf("%w: write %s: %v", domain.ErrWriteFailure, path, err)
	}
	return f.Close()
}

// copyFile copies in fixed-size chunks, checking the context between chunks
// so a canceled request does not keep streaming a large file.
func copyFile(ctx context.Context, srcAbs, dstAbs string) error {
	in, err := os.Open(srcAbs)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dstAbs)
	if err != nil {
		return err
	}

	buf := make([]byte, 32*1024)
	for {
		if err := ctx.Err(); err != nil {
			out.Close()
			return err
		}
		n, rerr := in.Read(buf)
		if n > 0 {
			if _, werr := out.Write(buf[:n]); werr != nil {
				out.Close()
				return werr
			}
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			out.Close()
			return rerr
		}
	}
	return out.Close()
}

func checksumFile(abs string) (string, error) {
	f, err := os.Open(abs)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h, err := blake2b.New256(nil)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return fmt.Sprintf("%x", h.Sum(nil)), nil
}
