package pipeline

import (
	"os"
	"path/filepath"
	"strings"
)

// Source represents a discovered PNG file.
type Source struct {
	// AbsPath is the path to the file on disk.
	AbsPath string
	// RelPath is the path relative to the input directory, slash separated.
	RelPath string
	// Key is RelPath without its extension.
	Key string
	// Size is the file size in bytes.
	Size int64
}

// ScanPNGs walks the input directory and returns every .png file in
// lexical order. Hidden directories are skipped.
func ScanPNGs(inputDir string) ([]Source, error) {
	var sources []Source

	err := filepath.Walk(inputDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if path != inputDir && strings.HasPrefix(info.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}

		ext := filepath.Ext(path)
		if !strings.EqualFold(ext, ".png") || !info.Mode().IsRegular() {
			return nil
		}

		relPath, err := filepath.Rel(inputDir, path)
		if err != nil {
			return err
		}
		relPath = filepath.ToSlash(relPath)

		sources = append(sources, Source{
			AbsPath: path,
			RelPath: relPath,
			Key:     strings.TrimSuffix(relPath, ext),
			Size:    info.Size(),
		})
		return nil
	})

	return sources, err
}
