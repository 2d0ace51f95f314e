package procgen

import "github.com/ojrac/opensimplex-go"

// Field samples coherent 3D noise. The third coordinate is typically a slowly
// advancing phase, giving each 2D slice smooth temporal drift.
type Field struct {
	noise opensimplex.Noise
}

// NewField creates a seeded noise field. Identical seeds produce identical
// fields.
func NewField(seed int64) *Field {
	return &Field{noise: opensimplex.NewNormalized(seed)}
}

// At returns a sample in [0, 1].
func (f *Field) At(x, y, z float64) float64 {
	return f.noise.Eval3(x, y, z)
}

// AtSigned returns a sample in [-1, 1].
func (f *Field) AtSigned(x, y, z float64) float64 {
	return f.noise.Eval3(x, y, z)*2 - 1
}
