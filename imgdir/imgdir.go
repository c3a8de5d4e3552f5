// Package imgdir loads an ordered image set from a directory and writes
// hidden images back losslessly.
package imgdir

import (
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	stego "github.com/yyyoichi/stego_zero"
	"golang.org/x/image/bmp"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported image format")
	ErrNameCollision     = errors.New("images would be saved under the same name")
)

// SupportedFormats lists the extensions Load picks up, without the dot.
var SupportedFormats = []string{"jpg", "jpeg", "png", "bmp"}

// OutputExt is the extension of every saved image.
const OutputExt = ".png"

// Supported reports whether name has one of SupportedFormats as extension.
// The comparison ignores case.
func Supported(name string) bool {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
	for _, f := range SupportedFormats {
		if ext == f {
			return true
		}
	}
	return false
}

// Load decodes every supported image in dir, sorted by file name, and
// converts it to RGB. Other files and subdirectories are skipped.
func Load(dir string) ([]stego.Image, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read image directory: %w", err)
	}
	// os.ReadDir returns entries sorted by file name.
	var images []stego.Image
	for _, e := range entries {
		if e.IsDir() || !Supported(e.Name()) {
			continue
		}
		img, err := LoadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, err
		}
		images = append(images, img)
	}
	return images, nil
}

// LoadFile decodes a single image. The Image is named after the file's
// base name.
func LoadFile(path string) (stego.Image, error) {
	if !Supported(path) {
		return stego.Image{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Base(path))
	}
	f, err := os.Open(path)
	if err != nil {
		return stego.Image{}, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	src, err := decode(f, strings.ToLower(filepath.Ext(path)))
	if err != nil {
		return stego.Image{}, fmt.Errorf("failed to decode %s: %w", filepath.Base(path), err)
	}
	return stego.NewImage(filepath.Base(path), src), nil
}

func decode(r io.Reader, ext string) (image.Image, error) {
	switch ext {
	case ".jpg", ".jpeg":
		return jpeg.Decode(r)
	case ".png":
		return png.Decode(r)
	case ".bmp":
		return bmp.Decode(r)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
}

// OutputName returns the file name an image is saved under: its base name
// with the extension replaced by OutputExt.
func OutputName(name string) string {
	base := filepath.Base(name)
	return strings.TrimSuffix(base, filepath.Ext(base)) + OutputExt
}

// Save writes images to dir as uncompressed PNG, creating dir if needed.
// Nothing is written when two images map to the same output name.
// It returns the written paths in order.
func Save(dir string, images []stego.Image) ([]string, error) {
	paths := make([]string, len(images))
	seen := make(map[string]string, len(images))
	for i, img := range images {
		name := OutputName(img.Name)
		if prev, ok := seen[name]; ok {
			return nil, fmt.Errorf("%w: %s and %s -> %s", ErrNameCollision, prev, img.Name, name)
		}
		seen[name] = img.Name
		paths[i] = filepath.Join(dir, name)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	enc := png.Encoder{CompressionLevel: png.NoCompression}
	for i, img := range images {
		if err := save(paths[i], img, &enc); err != nil {
			return nil, err
		}
	}
	return paths, nil
}

func save(path string, img stego.Image, enc *png.Encoder) error {
	src, err := img.Build()
	if err != nil {
		return fmt.Errorf("failed to build %s: %w", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := enc.Encode(f, src); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return f.Close()
}
