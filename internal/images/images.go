// Package images stores wall pictures on disk. Every wall has a full image
// and a thumbnail saved under the same generated file name:
//
//	<root>/<place>/images/<uuid>.jpg
//	<root>/<place>/thumbnails/<uuid>.jpg
//
// Inputs in any supported format are re-encoded to JPEG.
package images

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/google/uuid"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// Kind selects the sub directory of a stored file.
type Kind string

const (
	KindImage     Kind = "images"
	KindThumbnail Kind = "thumbnails"
)

const jpegQuality = 90

// ErrUndecodable is returned when bytes are not an image in a supported
// format.
var ErrUndecodable = errors.New("image data could not be decoded")

type Store struct {
	root string
}

func New(root string) *Store {
	return &Store{root: root}
}

// Save decodes both images, then writes them and returns the shared file
// name. Nothing is written when either input does not decode. If the
// thumbnail cannot be written the main image is removed again.
func (s *Store) Save(placeName string, img, thumb []byte) (string, error) {
	full, err := decode(img)
	if err != nil {
		return "", fmt.Errorf("image: %w", err)
	}
	small, err := decode(thumb)
	if err != nil {
		return "", fmt.Errorf("thumbnail: %w", err)
	}

	filename := uuid.NewString() + ".jpg"

	if err := s.write(s.Path(placeName, KindImage, filename), full); err != nil {
		return "", err
	}
	if err := s.write(s.Path(placeName, KindThumbnail, filename), small); err != nil {
		_ = os.Remove(s.Path(placeName, KindImage, filename))
		return "", err
	}

	return filename, nil
}

// Remove deletes both files of filename. Missing files are not an error.
func (s *Store) Remove(placeName, filename string) error {
	var errs []error
	for _, k := range []Kind{KindImage, KindThumbnail} {
		if err := os.Remove(s.Path(placeName, k, filename)); err != nil && !errors.Is(err, os.ErrNotExist) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Path rebuilds the location of a stored file from the place name.
func (s *Store) Path(placeName string, kind Kind, filename string) string {
	return filepath.Join(s.root, Sanitize(placeName), string(kind), filepath.Base(filename))
}

// Sanitize keeps letters, digits, spaces, hyphens and underscores of name
// and drops everything else, path separators and dots included.
func Sanitize(name string) string {
	var b strings.Builder
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' || r == '-' || r == '_' {
			b.WriteRune(r)
		}
	}

	out := strings.TrimSpace(b.String())
	if out == "" {
		return "_"
	}
	return out
}

func decode(b []byte) (image.Image, error) {
	if len(b) == 0 {
		return nil, ErrUndecodable
	}
	img, _, err := image.Decode(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUndecodable, err)
	}
	return img, nil
}

// write encodes img as JPEG into a temp file next to path and renames it
// into place.
func (s *Store) write(path string, img image.Image) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create image dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".upload-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if err := jpeg.Encode(tmp, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("encode jpeg: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("move image into place: %w", err)
	}

	return nil
}
