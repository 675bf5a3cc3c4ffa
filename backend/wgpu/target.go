package wgpu

import (
	"fmt"
	"image"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/stereo"
	"github.com/gogpu/wgpu/hal"
)

// MaxTargetSize is the largest width or height of a screen target.
const MaxTargetSize = 4096

// copyPitchAlignment is the required BytesPerRow alignment of
// texture-to-buffer copies.
const copyPitchAlignment = 256

// Target is an offscreen screen target: a 2D texture and its render view.
type Target struct {
	tex       hal.Texture
	view      hal.TextureView
	width     int
	height    int
	screen    stereo.Screen
	eye       stereo.Eye
	destroyed bool
}

// Size implements stereo.TargetHandle.
func (t *Target) Size() (width, height int) { return t.width, t.height }

// Screen returns the screen the target belongs to.
func (t *Target) Screen() stereo.Screen { return t.screen }

// Eye returns the eye the target is rendered for.
func (t *Target) Eye() stereo.Eye { return t.eye }

// CreateScreenTarget implements stereo.TargetFactory.
func (d *Device) CreateScreenTarget(screen stereo.Screen, eye stereo.Eye, width, height int) (stereo.TargetHandle, error) {
	if err := d.checkOpen(); err != nil {
		return nil, err
	}
	if width > MaxTargetSize || height > MaxTargetSize {
		return nil, fmt.Errorf("wgpu: target %dx%d exceeds %d", width, height, MaxTargetSize)
	}
	label := fmt.Sprintf("stereo_%s_%s", screen, eye)
	tex, err := d.device.CreateTexture(&hal.TextureDescriptor{
		Label: label,
		Size: hal.Extent3D{
			Width:              uint32(width),
			Height:             uint32(height),
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        d.format,
		Usage:         gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageCopySrc,
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create target texture: %w", err)
	}
	view, err := d.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label: label + "_view",
	})
	if err != nil {
		d.device.DestroyTexture(tex)
		return nil, fmt.Errorf("wgpu: create target view: %w", err)
	}

	t := &Target{tex: tex, view: view, width: width, height: height, screen: screen, eye: eye}
	d.targets[t] = struct{}{}
	slogger().Info("wgpu: target created",
		"screen", screen, "eye", eye, "width", width, "height", height, "format", d.format)
	return t, nil
}

// ClearTarget implements stereo.TargetFactory. The clear is submitted and
// waited on before returning.
func (d *Device) ClearTarget(target stereo.TargetHandle, c stereo.Color) error {
	if err := d.checkOpen(); err != nil {
		return err
	}
	t, err := d.target(target)
	if err != nil {
		return err
	}

	encoder, err := d.beginEncoding("stereo_clear")
	if err != nil {
		return fmt.Errorf("wgpu: %w", err)
	}
	rp := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: "stereo_clear_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{{
			View:       t.view,
			LoadOp:     gputypes.LoadOpClear,
			StoreOp:    gputypes.StoreOpStore,
			ClearValue: premultiplied(c),
		}},
	})
	rp.End()

	if err := d.submit(encoder); err != nil {
		return fmt.Errorf("wgpu: clear %s/%s: %w", t.screen, t.eye, err)
	}
	return nil
}

// premultiplied returns c as a premultiplied clear value, matching what the
// shape shader writes.
func premultiplied(c stereo.Color) gputypes.Color {
	g := c.GPU()
	return gputypes.Color{R: g.R * g.A, G: g.G * g.A, B: g.B * g.A, A: g.A}
}

// DestroyTarget implements stereo.TargetFactory.
func (d *Device) DestroyTarget(target stereo.TargetHandle) {
	if target == nil {
		return
	}
	if t, ok := target.(*Target); ok && t.destroyed {
		return
	}
	t, err := d.target(target)
	if err != nil {
		slogger().Warn("wgpu: destroy target", "err", err)
		return
	}
	d.device.DestroyTextureView(t.view)
	d.device.DestroyTexture(t.tex)
	t.view = nil
	t.tex = nil
	t.destroyed = true
	delete(d.targets, t)
}

func (d *Device) target(target stereo.TargetHandle) (*Target, error) {
	t, ok := target.(*Target)
	if !ok {
		return nil, fmt.Errorf("%w: target %T", ErrForeignHandle, target)
	}
	if t.destroyed {
		return nil, fmt.Errorf("%w: %s/%s", ErrTargetDestroyed, t.screen, t.eye)
	}
	if _, live := d.targets[t]; !live {
		return nil, fmt.Errorf("%w: target %s/%s", ErrForeignHandle, t.screen, t.eye)
	}
	return t, nil
}

// ReadPixels copies the target into CPU memory. The result holds
// premultiplied RGBA regardless of the target format.
func (d *Device) ReadPixels(target stereo.TargetHandle) (*image.RGBA, error) {
	if err := d.checkOpen(); err != nil {
		return nil, err
	}
	t, err := d.target(target)
	if err != nil {
		return nil, err
	}
	if d.format != gputypes.TextureFormatBGRA8Unorm && d.format != gputypes.TextureFormatRGBA8Unorm {
		return nil, fmt.Errorf("wgpu: readback of format %v not supported", d.format)
	}

	w, h := uint32(t.width), uint32(t.height)
	bytesPerRow := w * 4
	alignedBytesPerRow := (bytesPerRow + copyPitchAlignment - 1) &^ (copyPitchAlignment - 1)
	stagingSize := uint64(alignedBytesPerRow) * uint64(h)

	staging, err := d.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "stereo_readback",
		Size:  stagingSize,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create staging buffer: %w", err)
	}
	defer d.device.DestroyBuffer(staging)

	encoder, err := d.beginEncoding("stereo_readback")
	if err != nil {
		return nil, fmt.Errorf("wgpu: %w", err)
	}
	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: t.tex,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageRenderAttachment,
			NewUsage: gputypes.TextureUsageCopySrc,
		},
	}})
	encoder.CopyTextureToBuffer(t.tex, staging, []hal.BufferTextureCopy{{
		BufferLayout: hal.ImageDataLayout{Offset: 0, BytesPerRow: alignedBytesPerRow, RowsPerImage: h},
		TextureBase:  hal.ImageCopyTexture{Texture: t.tex, MipLevel: 0},
		Size:         hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
	}})
	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: t.tex,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageCopySrc,
			NewUsage: gputypes.TextureUsageRenderAttachment,
		},
	}})
	if err := d.submit(encoder); err != nil {
		return nil, fmt.Errorf("wgpu: readback %s/%s: %w", t.screen, t.eye, err)
	}

	readback := make([]byte, stagingSize)
	if err := d.queue.ReadBuffer(staging, 0, readback); err != nil {
		return nil, fmt.Errorf("wgpu: read staging buffer: %w", err)
	}

	img := image.NewRGBA(image.Rect(0, 0, t.width, t.height))
	for row := 0; row < t.height; row++ {
		src := readback[row*int(alignedBytesPerRow) : row*int(alignedBytesPerRow)+int(bytesPerRow)]
		dst := img.Pix[row*img.Stride : row*img.Stride+int(bytesPerRow)]
		copy(dst, src)
		if d.format == gputypes.TextureFormatBGRA8Unorm {
			swapRedBlue(dst)
		}
	}
	return img, nil
}

// swapRedBlue converts BGRA pixels to RGBA in place.
func swapRedBlue(pix []byte) {
	for i := 0; i+3 < len(pix); i += 4 {
		pix[i], pix[i+2] = pix[i+2], pix[i]
	}
}
