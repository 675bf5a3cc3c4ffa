package stereo

import (
	"fmt"

	"golang.org/x/image/math/f32"
)

// Register file sizes of a Program.
const (
	// MaxFloatUniforms is the number of vec4 float registers.
	MaxFloatUniforms = 96

	// MaxBoolUniforms is the number of bool registers.
	MaxBoolUniforms = 16
)

// UniformLocation addresses a register in a Program. Float registers and
// bool registers have separate address spaces. A matrix occupies four
// consecutive float registers starting at its location.
type UniformLocation int

// Uniforms carries the shader uniform locations a drawable feeds into its
// draw call. The frame driver owns the values behind them.
type Uniforms struct {
	// Projection is the float location of the projection matrix.
	Projection UniformLocation

	// Transform is the float location of the per-eye transform matrix.
	Transform UniformLocation

	// UseTransform is the bool location of the transform-enable flag.
	UseTransform UniformLocation
}

// DefaultUniforms is the location assignment used by the bundled shader:
// projection in registers 0-3, transform in registers 4-7, flag in bool 0.
var DefaultUniforms = Uniforms{Projection: 0, Transform: 4, UseTransform: 0}

// Validate reports whether every location fits the register file: both
// matrices need four float registers, the flag one bool register.
func (u Uniforms) Validate() error {
	for _, m := range []struct {
		name string
		loc  UniformLocation
	}{{"projection", u.Projection}, {"transform", u.Transform}} {
		if m.loc < 0 || m.loc > MaxFloatUniforms-4 {
			return fmt.Errorf("%s: %w: matrix at float register %d", m.name, ErrInvalidLocation, m.loc)
		}
	}
	if u.UseTransform < 0 || u.UseTransform >= MaxBoolUniforms {
		return fmt.Errorf("use transform: %w: bool register %d", ErrInvalidLocation, u.UseTransform)
	}
	return nil
}

// ShaderState is the resolved uniform state for one draw call.
type ShaderState struct {
	Projection   Matrix
	Transform    Matrix
	UseTransform bool
}

// Apply runs the vertex stage on a position and returns clip coordinates.
func (s *ShaderState) Apply(x, y, z float32) [4]float32 {
	p := [4]float32{x, y, z, 1}
	if s.UseTransform {
		p = s.Transform.Transform(p)
	}
	return s.Projection.Transform(p)
}

// Program holds the uniform values of the shape shader, addressed by
// location. It is owned by the frame driver; drawables only name locations.
//
// Program is not safe for concurrent use.
type Program struct {
	floats [MaxFloatUniforms]f32.Vec4
	bools  uint16
}

// NewProgram returns a program whose float registers are zero and whose
// bool registers are false.
func NewProgram() *Program {
	return &Program{}
}

// SetFloat4 stores a vec4 at loc.
func (p *Program) SetFloat4(loc UniformLocation, v f32.Vec4) error {
	if loc < 0 || loc >= MaxFloatUniforms {
		return fmt.Errorf("%w: float register %d", ErrInvalidLocation, loc)
	}
	p.floats[loc] = v
	return nil
}

// Float4 returns the vec4 stored at loc.
func (p *Program) Float4(loc UniformLocation) (f32.Vec4, error) {
	if loc < 0 || loc >= MaxFloatUniforms {
		return f32.Vec4{}, fmt.Errorf("%w: float register %d", ErrInvalidLocation, loc)
	}
	return p.floats[loc], nil
}

// SetMatrix stores m in the four float registers starting at loc.
func (p *Program) SetMatrix(loc UniformLocation, m Matrix) error {
	if loc < 0 || loc+3 >= MaxFloatUniforms {
		return fmt.Errorf("%w: matrix at float register %d", ErrInvalidLocation, loc)
	}
	for i := 0; i < 4; i++ {
		p.floats[int(loc)+i] = m.Row(i)
	}
	return nil
}

// Matrix returns the matrix stored in the four float registers at loc.
func (p *Program) Matrix(loc UniformLocation) (Matrix, error) {
	if loc < 0 || loc+3 >= MaxFloatUniforms {
		return Matrix{}, fmt.Errorf("%w: matrix at float register %d", ErrInvalidLocation, loc)
	}
	var m Matrix
	for i := 0; i < 4; i++ {
		copy(m[i*4:i*4+4], p.floats[int(loc)+i][:])
	}
	return m, nil
}

// SetBool stores v in the bool register at loc.
func (p *Program) SetBool(loc UniformLocation, v bool) error {
	if loc < 0 || loc >= MaxBoolUniforms {
		return fmt.Errorf("%w: bool register %d", ErrInvalidLocation, loc)
	}
	if v {
		p.bools |= 1 << uint(loc)
	} else {
		p.bools &^= 1 << uint(loc)
	}
	return nil
}

// Bool returns the bool register at loc.
func (p *Program) Bool(loc UniformLocation) (bool, error) {
	if loc < 0 || loc >= MaxBoolUniforms {
		return false, fmt.Errorf("%w: bool register %d", ErrInvalidLocation, loc)
	}
	return p.bools&(1<<uint(loc)) != 0, nil
}

// Resolve reads the values behind u.
func (p *Program) Resolve(u Uniforms) (ShaderState, error) {
	var s ShaderState
	var err error
	if s.Projection, err = p.Matrix(u.Projection); err != nil {
		return ShaderState{}, fmt.Errorf("projection: %w", err)
	}
	if s.Transform, err = p.Matrix(u.Transform); err != nil {
		return ShaderState{}, fmt.Errorf("transform: %w", err)
	}
	if s.UseTransform, err = p.Bool(u.UseTransform); err != nil {
		return ShaderState{}, fmt.Errorf("use transform: %w", err)
	}
	return s, nil
}
