package source

import (
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/gen2brain/go-fitz"
)

// Source is a paged input: a PDF document, an image directory or a
// single still.
type Source interface {
	PageCount() int
	PageDimensions(index int) (width, height float64, err error)
	RenderPage(index int, dpi int) (image.Image, error)
	Close() error
}

var ErrUnsupported = errors.New("unsupported input type")

// Open picks a Source for the path: directories and plain images become
// an ImageDirSource, everything fitz can open becomes a PDFSource.
func Open(path string) (Source, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if fi.IsDir() {
		return NewImageDirSource(path)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf", ".xps", ".epub":
		return NewPDFSource(path)
	case ".png", ".jpg", ".jpeg", ".webp":
		return NewImageDirSource(path)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupported, filepath.Ext(path))
}

// PDFSource reads pages through go-fitz. Renders reopen the document so
// concurrent page bakes never share fitz state.
type PDFSource struct {
	doc  *fitz.Document
	path string
}

func NewPDFSource(path string) (*PDFSource, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	return &PDFSource{doc: doc, path: path}, nil
}

func (s *PDFSource) PageCount() int {
	return s.doc.NumPage()
}

func (s *PDFSource) PageDimensions(index int) (float64, float64, error) {
	if err := s.checkPage(index); err != nil {
		return 0, 0, err
	}
	rect, err := s.doc.Bound(index)
	if err != nil {
		return 0, 0, err
	}
	return float64(rect.Dx()), float64(rect.Dy()), nil
}

func (s *PDFSource) RenderPage(index int, dpi int) (image.Image, error) {
	if err := s.checkPage(index); err != nil {
		return nil, err
	}
	doc, err := fitz.New(s.path)
	if err != nil {
		return nil, err
	}
	defer doc.Close()
	return doc.ImageDPI(index, float64(dpi))
}

func (s *PDFSource) checkPage(index int) error {
	if index < 0 || index >= s.PageCount() {
		return fmt.Errorf("page %d out of range, document has %d", index, s.PageCount())
	}
	return nil
}

func (s *PDFSource) Close() error {
	return s.doc.Close()
}
