package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/gif"
	"image/png"
	"os"
	"path/filepath"
)

// Native screen and bordered frame dimensions.
const (
	ScreenWidth  = 240
	ScreenHeight = 136

	borderedWidth  = 256
	borderedHeight = 144
	borderX        = 8
	borderY        = 4
)

// NormalizeToPNG decodes a GIF or PNG cover and returns it PNG-encoded after
// shape normalization. Animated GIFs contribute only their first frame.
func NormalizeToPNG(data []byte) ([]byte, error) {
	img, err := decodeFirstFrame(data)
	if err != nil {
		return nil, err
	}

	img = Normalize(img)

	var out bytes.Buffer
	if err := png.Encode(&out, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return out.Bytes(), nil
}

// ConvertFile normalizes data and writes the PNG to path.
func ConvertFile(data []byte, path string) error {
	encoded, err := NormalizeToPNG(data)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, encoded, 0o644)
}

func decodeFirstFrame(data []byte) (image.Image, error) {
	if g, err := gif.DecodeAll(bytes.NewReader(data)); err == nil && len(g.Image) > 0 {
		return g.Image[0], nil
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return img, nil
}

// Normalize applies the shape rules: integer upscales of 240x136 shrink back
// to native size, and integer upscales of the 256x144 bordered frame shrink
// then lose the border. Anything else is returned untouched.
func Normalize(img image.Image) image.Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	if scale, ok := integerScale(w, h, ScreenWidth, ScreenHeight); ok {
		if scale > 1 {
			img = downscaleNearest(img, ScreenWidth, ScreenHeight)
		}
		return img
	}

	if scale, ok := integerScale(w, h, borderedWidth, borderedHeight); ok {
		if scale > 1 {
			img = downscaleNearest(img, borderedWidth, borderedHeight)
		}
		return cropBorder(img)
	}

	return img
}

func integerScale(w, h, baseW, baseH int) (int, bool) {
	if w <= 0 || h <= 0 || w%baseW != 0 || h%baseH != 0 {
		return 0, false
	}
	scaleW := w / baseW
	scaleH := h / baseH
	if scaleW != scaleH || scaleW < 1 {
		return 0, false
	}
	return scaleW, true
}

// downscaleNearest samples one source pixel per target pixel, preserving
// hard pixel-art edges.
func downscaleNearest(img image.Image, targetW, targetH int) image.Image {
	bounds := img.Bounds()
	scaleX := bounds.Dx() / targetW
	scaleY := bounds.Dy() / targetH

	out := image.NewRGBA(image.Rect(0, 0, targetW, targetH))
	for y := 0; y < targetH; y++ {
		srcY := bounds.Min.Y + y*scaleY
		for x := 0; x < targetW; x++ {
			srcX := bounds.Min.X + x*scaleX
			out.Set(x, y, img.At(srcX, srcY))
		}
	}
	return out
}

func cropBorder(img image.Image) image.Image {
	bounds := img.Bounds()
	rect := image.Rect(0, 0, ScreenWidth, ScreenHeight)
	out := image.NewRGBA(rect)
	src := image.Pt(bounds.Min.X+borderX, bounds.Min.Y+borderY)
	draw.Draw(out, rect, img, src, draw.Src)
	return out
}
