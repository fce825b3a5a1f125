package content

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// ImageOptions controls how image files are loaded
type ImageOptions struct {
	// Height scales the image to this many rows, keeping its aspect ratio.
	// Zero keeps the decoded size. SVG files are always rasterised at
	// Height when it is set.
	Height int
}

// LoadImage decodes a BMP, PNG, GIF, JPEG, WebP or SVG file
func LoadImage(path string, opts ImageOptions) (*Bitmap, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var img image.Image
	if strings.EqualFold(filepath.Ext(path), ".svg") {
		img, err = rasterizeSVG(file, opts.Height)
	} else {
		img, _, err = image.Decode(file)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}

	if opts.Height > 0 && img.Bounds().Dy() != opts.Height {
		img = scaleToHeight(img, opts.Height)
	}
	return NewBitmap(img), nil
}

// scaleToHeight resizes img with nearest neighbour sampling
func scaleToHeight(img image.Image, height int) image.Image {
	b := img.Bounds()
	if b.Dy() == 0 {
		return img
	}
	width := max(b.Dx()*height/b.Dy(), 1)
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), img, b, xdraw.Over, nil)
	return dst
}
