package fs

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"

	"lexis/internal/domain"
	"lexis/internal/port"
)

type Walker struct {
	includes []string
	excludes []string
}

var _ port.FileWalker = (*Walker)(nil)

func NewWalker(includes, excludes []string) *Walker {
	if len(includes) == 0 {
		includes = []string{"**/*"}
	}
	return &Walker{
		includes: includes,
		excludes: excludes,
	}
}

// Walk lists the regular files under root that match the include patterns and
// none of the exclude patterns. Returned paths are canonical. Unreadable
// entries below root are skipped.
func (w *Walker) Walk(root string) ([]port.FileInfo, error) {
	var files []port.FileInfo

	root, err := Canonical(root)
	if err != nil {
		return nil, err
	}

	err = filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			if info != nil && info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		relPath = filepath.ToSlash(relPath)

		if info.IsDir() {
			if path != root && w.shouldExclude(relPath+"/") {
				return filepath.SkipDir
			}
			return nil
		}

		if !w.shouldInclude(relPath) || w.shouldExclude(relPath) {
			return nil
		}

		if info.Mode()&os.ModeSymlink != 0 {
			target, err := Canonical(path)
			if err != nil {
				return nil
			}
			if info, err = os.Stat(target); err != nil {
				return nil
			}
			path = target
		}
		if !info.Mode().IsRegular() {
			return nil
		}

		files = append(files, port.FileInfo{
			Path:    path,
			ModTime: info.ModTime().Unix(),
			Size:    info.Size(),
		})
		return nil
	})

	return files, err
}

func (w *Walker) shouldInclude(path string) bool {
	for _, pattern := range w.includes {
		matched, err := doublestar.Match(pattern, path)
		if err == nil && matched {
			return true
		}
	}
	return false
}

func (w *Walker) shouldExclude(path string) bool {
	for _, pattern := range w.excludes {
		matched, err := doublestar.Match(pattern, path)
		if err == nil && matched {
			return true
		}
	}
	return false
}

// Canonical returns the absolute path of path with symlinks resolved. It is
// the identifier a file is indexed under.
func Canonical(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", err
	}
	return resolved, nil
}

// CanonicalOrClean is Canonical for paths that may no longer exist, falling
// back to the cleaned absolute path.
func CanonicalOrClean(path string) string {
	if resolved, err := Canonical(path); err == nil {
		return resolved
	}
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}

// Reader reads regular files as text.
type Reader struct{}

var _ port.FileReader = Reader{}

func (Reader) ReadFile(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", domain.NewLoadError(path, err)
	}
	if !info.Mode().IsRegular() {
		return "", domain.NewLoadError(path, fmt.Errorf("%w: %s", domain.ErrNotRegularFile, info.Mode().Type()))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", domain.NewLoadError(path, err)
	}
	return string(data), nil
}
