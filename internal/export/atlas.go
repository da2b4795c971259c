package export

import (
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"os"

	xdraw "golang.org/x/image/draw"

	"github.com/piwi3910/tilepack/internal/model"
)

// ExportAtlas composes the source images of all placed items into one PNG
// the size of the used bounding box. Flipped items are drawn rotated 90
// degrees clockwise. Items without a source image are filled with a flat
// color, and images whose size differs from the item are scaled to fit.
func ExportAtlas(path string, result model.PackResult) error {
	img, err := ComposeAtlas(result)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create atlas file: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode atlas: %w", err)
	}
	return f.Close()
}

// ComposeAtlas renders the atlas image without writing it.
func ComposeAtlas(result model.PackResult) (*image.NRGBA, error) {
	if result.Size.Width <= 0 || result.Size.Height <= 0 {
		return nil, fmt.Errorf("no placed items to compose")
	}

	atlas := image.NewNRGBA(image.Rect(0, 0, result.Size.Width, result.Size.Height))
	cache := make(map[string]image.Image)

	for i, it := range result.Placed {
		dst := image.Rect(it.X, it.Y, it.X+it.Width, it.Y+it.Height)
		if dst.Empty() {
			continue
		}

		if it.Source == "" {
			col := itemColors[i%len(itemColors)]
			fill := image.NewUniform(color.NRGBA{R: uint8(col.R), G: uint8(col.G), B: uint8(col.B), A: 255})
			xdraw.Draw(atlas, dst, fill, image.Point{}, xdraw.Src)
			continue
		}

		src, ok := cache[it.Source]
		if !ok {
			loaded, err := loadImage(it.Source)
			if err != nil {
				return nil, fmt.Errorf("item %q: %w", it.Label, err)
			}
			cache[it.Source] = loaded
			src = loaded
		}

		if it.Flipped {
			src = rotateClockwise(src)
		}

		if src.Bounds().Dx() == dst.Dx() && src.Bounds().Dy() == dst.Dy() {
			xdraw.Draw(atlas, dst, src, src.Bounds().Min, xdraw.Src)
		} else {
			xdraw.CatmullRom.Scale(atlas, dst, src, src.Bounds(), xdraw.Src, nil)
		}
	}

	return atlas, nil
}

func loadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}

// rotateClockwise returns src turned 90 degrees clockwise.
func rotateClockwise(src image.Image) *image.NRGBA {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	dst := image.NewNRGBA(image.Rect(0, 0, h, w))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dst.Set(h-1-y, x, src.At(b.Min.X+x, b.Min.Y+y))
		}
	}
	return dst
}
