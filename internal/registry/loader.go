package registry

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"mediabridge/internal/common/fsutil"
	"mediabridge/pkg/types"
)

var fontFormats = map[string]string{
	".ttf": "ttf",
	".otf": "otf",
	".ttc": "ttc",
}

// FontScanner discovers font files below a directory.
type FontScanner struct{}

func NewFontScanner() *FontScanner { return &FontScanner{} }

// Scan walks dir recursively and returns every .ttf, .otf and .ttc file, sorted
// by ID. ID is the path relative to dir; Path is absolute.
func (s *FontScanner) Scan(dir string) ([]types.Font, error) {
	base, err := fsutil.ExpandHome(dir)
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(base)
	if err != nil {
		return nil, fmt.Errorf("abs path: %w", err)
	}
	if _, err := os.Stat(abs); err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}
	var fonts []types.Font
	err = filepath.WalkDir(abs, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		format, ok := fontFormats[strings.ToLower(filepath.Ext(p))]
		if !ok {
			return nil
		}
		rel, err := filepath.Rel(abs, p)
		if err != nil {
			return err
		}
		var size int64
		if info, err := d.Info(); err == nil {
			size = info.Size()
		}
		name := d.Name()
		fonts = append(fonts, types.Font{
			ID:     filepath.ToSlash(rel),
			Name:   strings.TrimSuffix(name, filepath.Ext(name)),
			Path:   p,
			Format: format,
			Size:   size,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan fonts: %w", err)
	}
	sort.Slice(fonts, func(i, j int) bool { return fonts[i].ID < fonts[j].ID })
	return fonts, nil
}

// LoadFonts scans dir with a FontScanner.
func LoadFonts(dir string) ([]types.Font, error) {
	return NewFontScanner().Scan(dir)
}
