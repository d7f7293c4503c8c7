package driver

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// Ext is the extension of files picked up from directories.
const Ext = ".bib"

// CollectFiles expands paths into a sorted, de-duplicated list of files.
// Directories are walked recursively, skipping hidden directories and
// symlinks to directories. Explicit file arguments are taken whatever their
// extension.
func CollectFiles(ctx context.Context, paths []string) ([]string, error) {
	var files []string
	for _, root := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		info, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("collect: %w", err)
		}
		if !info.IsDir() {
			files = append(files, filepath.Clean(root))
			continue
		}
		found, err := walkBib(ctx, root)
		if err != nil {
			return nil, fmt.Errorf("collect %s: %w", root, err)
		}
		files = append(files, found...)
	}
	slices.Sort(files)
	return slices.Compact(files), nil
}

func walkBib(ctx context.Context, root string) ([]string, error) {
	var out []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		switch {
		case d.IsDir():
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
		case d.Type()&fs.ModeSymlink != 0:
			// WalkDir не заходит в ссылки; ссылку на файл берём, на каталог нет
			if st, err := os.Stat(path); err == nil && !st.IsDir() && hasBibExt(path) {
				out = append(out, filepath.Clean(path))
			}
		case hasBibExt(path):
			out = append(out, filepath.Clean(path))
		}
		return nil
	})
	return out, err
}

func hasBibExt(path string) bool {
	return strings.EqualFold(filepath.Ext(path), Ext)
}
