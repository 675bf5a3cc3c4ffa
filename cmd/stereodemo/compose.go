package main

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"

	"github.com/gogpu/stereo"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

const (
	gap         = 8  // pixels between screens
	labelHeight = 18 // caption strip above each screen
)

var background = color.NRGBA{R: 32, G: 32, B: 32, A: 255}

// pixelReader is implemented by GPU devices whose targets live off the CPU.
type pixelReader interface {
	ReadPixels(target stereo.TargetHandle) (*image.RGBA, error)
}

// snapshot returns the pixels of a render target.
func snapshot(dev any, rt *stereo.RenderTarget) (image.Image, error) {
	if img, ok := rt.Handle().(image.Image); ok {
		return img, nil
	}
	if pr, ok := dev.(pixelReader); ok {
		return pr.ReadPixels(rt.Handle())
	}
	return nil, fmt.Errorf("cannot read %s/%s target of %T", rt.Screen(), rt.Eye(), dev)
}

// compose lays the top screen targets side by side with the bottom screen
// centered below them, each under a caption.
func compose(dev any, targets []*stereo.RenderTarget) (*image.NRGBA, error) {
	var top, bottom []*stereo.RenderTarget
	for _, rt := range targets {
		if rt.Screen() == stereo.ScreenTop {
			top = append(top, rt)
		} else {
			bottom = append(bottom, rt)
		}
	}

	width := gap
	for _, rt := range top {
		width += rt.Width() + gap
	}
	height := gap
	for _, row := range [][]*stereo.RenderTarget{top, bottom} {
		if len(row) > 0 {
			height += labelHeight + row[0].Height() + gap
		}
	}

	out := image.NewNRGBA(image.Rect(0, 0, width, height))
	draw.Draw(out, out.Bounds(), image.NewUniform(background), image.Point{}, draw.Src)

	face, err := labelFace()
	if err != nil {
		return nil, err
	}
	defer face.Close()

	y := gap
	for _, row := range [][]*stereo.RenderTarget{top, bottom} {
		if len(row) == 0 {
			continue
		}
		rowWidth := -gap
		for _, rt := range row {
			rowWidth += rt.Width() + gap
		}
		x := (width - rowWidth) / 2
		for _, rt := range row {
			img, err := snapshot(dev, rt)
			if err != nil {
				return nil, err
			}
			label(out, face, x, y+labelHeight-5, fmt.Sprintf("%s / %s", rt.Screen(), rt.Eye()))
			r := image.Rect(x, y+labelHeight, x+rt.Width(), y+labelHeight+rt.Height())
			draw.Draw(out, r, img, img.Bounds().Min, draw.Src)
			x += rt.Width() + gap
		}
		y += labelHeight + row[0].Height() + gap
	}
	return out, nil
}

func labelFace() (font.Face, error) {
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse label font: %w", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: 12, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return nil, fmt.Errorf("create label face: %w", err)
	}
	return face, nil
}

func label(dst draw.Image, face font.Face, x, y int, text string) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.White,
		Face: face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}

// scale returns img resized by factor with nearest-neighbor sampling, which
// keeps hard pixel edges.
func scale(img image.Image, factor int) image.Image {
	if factor <= 1 {
		return img
	}
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx()*factor, b.Dy()*factor))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

func savePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
