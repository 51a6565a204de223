package engine

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Vector3 is three sequential float32s. It is the wire format for every
// position, rotation and scale crossing the host boundary.
type Vector3 = rl.Vector3

// Vector4 is four sequential float32s.
type Vector4 = rl.Vector4

// Matrix4 carries a transform as four rows. Rows are semantic, not a 4x4
// affine matrix: Position, Rotation and Scale hold the matching transform
// vector in X/Y/Z, W is unused by the host.
type Matrix4 struct {
	Position Vector4
	Rotation Vector4
	Scale    Vector4
	W        Vector4
}

func Vec3(x, y, z float32) Vector3 {
	return Vector3{X: x, Y: y, Z: z}
}

func Vec4(x, y, z, w float32) Vector4 {
	return Vector4{X: x, Y: y, Z: z, W: w}
}

func Add(a, b Vector3) Vector3 { return rl.Vector3Add(a, b) }

func Sub(a, b Vector3) Vector3 { return rl.Vector3Subtract(a, b) }

func Scale(v Vector3, s float32) Vector3 { return rl.Vector3Scale(v, s) }

// Mul multiplies component-wise.
func Mul(a, b Vector3) Vector3 { return rl.Vector3Multiply(a, b) }

func Negate(v Vector3) Vector3 { return rl.Vector3Negate(v) }

func Dot(a, b Vector3) float32 { return rl.Vector3DotProduct(a, b) }

func Cross(a, b Vector3) Vector3 { return rl.Vector3CrossProduct(a, b) }

func Length(v Vector3) float32 { return rl.Vector3Length(v) }

// Normalize returns v scaled to unit length. The zero vector is returned
// unchanged.
func Normalize(v Vector3) Vector3 {
	l := Length(v)
	if l == 0 {
		return v
	}
	return Scale(v, 1/l)
}

// Equal reports whether a and b are bit-for-bit equal. NaN components
// compare equal to themselves.
func Equal(a, b Vector3) bool {
	return math.Float32bits(a.X) == math.Float32bits(b.X) &&
		math.Float32bits(a.Y) == math.Float32bits(b.Y) &&
		math.Float32bits(a.Z) == math.Float32bits(b.Z)
}

func Add4(a, b Vector4) Vector4 {
	return Vector4{X: a.X + b.X, Y: a.Y + b.Y, Z: a.Z + b.Z, W: a.W + b.W}
}

func Sub4(a, b Vector4) Vector4 {
	return Vector4{X: a.X - b.X, Y: a.Y - b.Y, Z: a.Z - b.Z, W: a.W - b.W}
}

func Scale4(v Vector4, s float32) Vector4 {
	return Vector4{X: v.X * s, Y: v.Y * s, Z: v.Z * s, W: v.W * s}
}

// XYZ drops the W component.
func XYZ(v Vector4) Vector3 {
	return Vector3{X: v.X, Y: v.Y, Z: v.Z}
}

// Extend widens v to a Vector4 with the given w.
func Extend(v Vector3, w float32) Vector4 {
	return Vector4{X: v.X, Y: v.Y, Z: v.Z, W: w}
}

// NewMatrix4 packs a transform into its row form.
func NewMatrix4(position, rotation, scale Vector3) Matrix4 {
	return Matrix4{
		Position: Extend(position, 0),
		Rotation: Extend(rotation, 0),
		Scale:    Extend(scale, 0),
	}
}

// Rows returns the rows in host order.
func (m Matrix4) Rows() [4]Vector4 {
	return [4]Vector4{m.Position, m.Rotation, m.Scale, m.W}
}
