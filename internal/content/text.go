package content

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"strings"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"
)

// Built-in font names
const (
	FontProggy = "proggy"
	FontBasic  = "basic"
)

// DefaultTextColor is the teal used for marquee messages
var DefaultTextColor = color.RGBA{R: 20, G: 100, B: 130, A: 255}

// TextStyle describes how text is rendered
type TextStyle struct {
	// Font is "proggy", "basic" or the path of a TrueType file
	Font string
	// Size is the point size for TrueType fonts
	Size  float64
	Color color.RGBA
	// Height fixes the bitmap height; zero fits the ink plus the top margin
	Height int
}

// topMargin is the number of blank rows above the text
const topMargin = 1

// TextRenderer renders strings in one style. The font is loaded once.
type TextRenderer struct {
	style TextStyle
	face  font.Face
	tiny  tinyfont.Fonter
}

// NewTextRenderer loads the font of the given style
func NewTextRenderer(style TextStyle) (*TextRenderer, error) {
	if style.Color == (color.RGBA{}) {
		style.Color = DefaultTextColor
	}
	r := &TextRenderer{style: style}

	switch style.Font {
	case "", FontProggy:
		r.tiny = &proggy.TinySZ8pt7b
	case FontBasic:
		r.face = basicfont.Face7x13
	default:
		face, err := loadTrueType(style.Font, style.Size)
		if err != nil {
			return nil, err
		}
		r.face = face
	}
	return r, nil
}

func loadTrueType(path string, size float64) (font.Face, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read font: %w", err)
	}
	f, err := truetype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font %s: %w", path, err)
	}
	if size <= 0 {
		size = 12
	}
	return truetype.NewFace(f, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	}), nil
}

// Render draws s into a new bitmap
func (r *TextRenderer) Render(s string) *Bitmap {
	var img *image.RGBA
	if r.tiny != nil {
		img = r.renderTiny(s)
	} else {
		img = r.renderFace(s)
	}
	return NewBitmap(fitRows(img, r.style.Height))
}

// RenderAll renders every string
func (r *TextRenderer) RenderAll(lines []string) []*Bitmap {
	out := make([]*Bitmap, len(lines))
	for i, s := range lines {
		out[i] = r.Render(s)
	}
	return out
}

// capture collects tinyfont output into an image
type capture struct {
	img *image.RGBA
}

func (c *capture) Size() (x, y int16) {
	b := c.img.Bounds()
	return int16(b.Dx()), int16(b.Dy())
}

func (c *capture) SetPixel(x, y int16, col color.RGBA) {
	c.img.SetRGBA(int(x), int(y), col)
}

func (c *capture) Display() error {
	return nil
}

func (r *TextRenderer) renderTiny(s string) *image.RGBA {
	_, width := tinyfont.LineWidth(r.tiny, s)
	advance := int(r.tiny.GetYAdvance())
	c := &capture{img: image.NewRGBA(image.Rect(0, 0, int(width), 2*advance))}
	tinyfont.WriteLine(c, r.tiny, 0, int16(advance), s, r.style.Color)
	return c.img
}

func (r *TextRenderer) renderFace(s string) *image.RGBA {
	m := r.face.Metrics()
	ascent := m.Ascent.Ceil()
	width := font.MeasureString(r.face, s).Ceil()
	img := image.NewRGBA(image.Rect(0, 0, width, ascent+m.Descent.Ceil()))

	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(r.style.Color),
		Face: r.face,
		Dot:  fixed.P(0, ascent),
	}
	d.DrawString(s)
	return img
}

// fitRows crops img vertically to its inked rows, placed topMargin rows down.
// A positive height fixes the output height, cutting or padding at the bottom.
func fitRows(img *image.RGBA, height int) *image.RGBA {
	b := img.Bounds()
	first, last := -1, -1
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if img.RGBAAt(x, y).A != 0 {
				if first < 0 {
					first = y
				}
				last = y
				break
			}
		}
	}

	ink := 0
	if first >= 0 {
		ink = last - first + 1
	}
	if height <= 0 {
		height = ink + topMargin
	}

	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), height))
	for y := 0; y < ink && y+topMargin < height; y++ {
		src := img.Pix[img.PixOffset(b.Min.X, first+y):img.PixOffset(b.Min.X, first+y)+4*b.Dx()]
		copy(out.Pix[out.PixOffset(0, y+topMargin):], src)
	}
	return out
}

// ParseColor parses "#rrggbb", "rrggbb" or "r,g,b"
func ParseColor(s string) (color.RGBA, error) {
	s = strings.TrimSpace(s)
	if strings.Contains(s, ",") {
		var r, g, b uint8
		if _, err := fmt.Sscanf(s, "%d,%d,%d", &r, &g, &b); err != nil {
			return color.RGBA{}, fmt.Errorf("invalid colour %q: %w", s, err)
		}
		return color.RGBA{R: r, G: g, B: b, A: 255}, nil
	}

	s = strings.TrimPrefix(s, "#")
	var r, g, b uint8
	if len(s) != 6 {
		return color.RGBA{}, fmt.Errorf("invalid colour %q", s)
	}
	if _, err := fmt.Sscanf(s, "%02x%02x%02x", &r, &g, &b); err != nil {
		return color.RGBA{}, fmt.Errorf("invalid colour %q: %w", s, err)
	}
	return color.RGBA{R: r, G: g, B: b, A: 255}, nil
}
