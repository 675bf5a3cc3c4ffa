// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package frame

import (
	"errors"
	"fmt"
	"time"

	"github.com/gogpu/stereo"
)

// FrameRate is the nominal number of frames per second. CurrentFrame counts
// modulo FrameRate.
const FrameRate = 60

// Config configures a Driver.
type Config struct {
	// Stereo enables the right-eye target of the top screen.
	Stereo bool

	// Disparity is the eye separation in pixels at full slider for geometry
	// at depth 0.
	Disparity float32

	// Slider scales the disparity, from 0 (flat) to 1 (full depth).
	Slider float32

	// ClearColor is the color every target is cleared to each frame.
	ClearColor stereo.Color

	// Uniforms names the program locations the shapes read.
	Uniforms stereo.Uniforms

	// FrameInterval paces Run. Zero runs frames back to back.
	FrameInterval time.Duration
}

// DefaultConfig returns the configuration used when nothing is customized:
// stereo enabled, 10 pixels of disparity at full slider, opaque black
// clears and the default uniform locations, at 60 frames per second.
func DefaultConfig() Config {
	return Config{
		Stereo:        true,
		Disparity:     10,
		Slider:        1,
		ClearColor:    stereo.DefaultClearColor,
		Uniforms:      stereo.DefaultUniforms,
		FrameInterval: time.Second / FrameRate,
	}
}

// ErrInvalidConfig is returned by New for out-of-range settings.
var ErrInvalidConfig = errors.New("frame: invalid config")

func (c Config) validate() error {
	if c.Disparity < 0 {
		return fmt.Errorf("%w: negative disparity %v", ErrInvalidConfig, c.Disparity)
	}
	if c.Slider < 0 || c.Slider > 1 {
		return fmt.Errorf("%w: slider %v outside [0, 1]", ErrInvalidConfig, c.Slider)
	}
	if c.FrameInterval < 0 {
		return fmt.Errorf("%w: negative frame interval %v", ErrInvalidConfig, c.FrameInterval)
	}
	if err := c.Uniforms.Validate(); err != nil {
		return fmt.Errorf("%w: uniforms: %w", ErrInvalidConfig, err)
	}
	return nil
}
