package source

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"sort"

	_ "golang.org/x/image/webp"
)

// ImageDirSource serves a directory of stills as pages, sorted by file
// name, or a single image as a one-page document.
type ImageDirSource struct {
	paths []string
}

func NewImageDirSource(path string) (*ImageDirSource, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	var paths []string
	if fi.IsDir() {
		entries, err := os.ReadDir(path)
		if err != nil {
			return nil, err
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			switch filepath.Ext(entry.Name()) {
			case ".jpg", ".jpeg", ".png", ".webp":
				paths = append(paths, filepath.Join(path, entry.Name()))
			}
		}
		sort.Strings(paths)
		if len(paths) == 0 {
			return nil, fmt.Errorf("no images in %s", path)
		}
	} else {
		paths = []string{path}
	}

	return &ImageDirSource{paths: paths}, nil
}

func (s *ImageDirSource) PageCount() int {
	return len(s.paths)
}

func (s *ImageDirSource) PageDimensions(index int) (float64, float64, error) {
	if err := s.checkPage(index); err != nil {
		return 0, 0, err
	}
	f, err := os.Open(s.paths[index])
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, err
	}
	return float64(cfg.Width), float64(cfg.Height), nil
}

func (s *ImageDirSource) RenderPage(index int, dpi int) (image.Image, error) {
	if err := s.checkPage(index); err != nil {
		return nil, err
	}
	f, err := os.Open(s.paths[index])
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, err
	}
	return img, nil
}

func (s *ImageDirSource) checkPage(index int) error {
	if index < 0 || index >= len(s.paths) {
		return fmt.Errorf("page %d out of range, directory has %d", index, len(s.paths))
	}
	return nil
}

func (s *ImageDirSource) Close() error {
	return nil
}
