// Command stereodemo renders an animated dual-screen scene and saves the
// last frame of every screen and eye as one PNG.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"

	"github.com/gogpu/stereo"
	"github.com/gogpu/stereo/backend"
	_ "github.com/gogpu/stereo/backend/wgpu" // registers the GPU backend
	"github.com/gogpu/stereo/frame"
)

func main() {
	var (
		output    = flag.String("output", "stereo.png", "output file")
		frames    = flag.Int("frames", 30, "number of frames to render")
		slider    = flag.Float64("slider", 1, "3D depth slider in [0, 1]")
		disparity = flag.Float64("disparity", 12, "eye separation in pixels at full slider")
		mono      = flag.Bool("mono", false, "render the top screen for one eye only")
		name      = flag.String("backend", backend.BackendSoftware, "render backend: software, wgpu or auto")
		zoom      = flag.Int("scale", 1, "output magnification")
		verbose   = flag.Bool("v", false, "log backend activity")
	)
	flag.Parse()

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	stereo.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	dev, err := openBackend(*name)
	if err != nil {
		log.Fatalf("Failed to open backend: %v", err)
	}
	defer dev.Close()

	cfg := frame.DefaultConfig()
	cfg.Stereo = !*mono
	cfg.Slider = float32(*slider)
	cfg.Disparity = float32(*disparity)
	cfg.FrameInterval = 0

	if err := run(dev, cfg, *frames, *zoom, *output); err != nil {
		log.Fatalf("Failed to render: %v", err)
	}
	log.Printf("Demo saved to %s (%d frames, %s backend)\n", *output, *frames, dev.Name())
}

// openBackend initializes the named backend. "auto" tries the registry
// default and falls back to software when the GPU cannot be opened.
func openBackend(name string) (backend.RenderBackend, error) {
	if name == "auto" {
		b, err := backend.InitDefault()
		if err == nil {
			return b, nil
		}
		stereo.Logger().Warn("default backend unavailable, using software", "err", err)
		name = backend.BackendSoftware
	}
	return backend.Open(name)
}

func run(dev backend.RenderBackend, cfg frame.Config, frames, zoom int, output string) error {
	drv, err := frame.New(dev, cfg)
	if err != nil {
		return err
	}
	defer drv.Close()

	sc := newScene(dev)
	defer sc.destroy()
	sc.attach(drv)

	err = drv.Run(context.Background(), func(d *frame.Driver) error {
		if frames--; frames <= 0 {
			d.Exit()
		}
		return sc.update(d.CurrentFrame())
	})
	if err != nil {
		return err
	}

	img, err := compose(dev, drv.Targets())
	if err != nil {
		return err
	}
	return savePNG(output, scale(img, zoom))
}
