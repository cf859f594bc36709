package math

// Affine is a row-major 2x3 affine transform:
//
//	| A  B  TX |
//	| C  D  TY |
type Affine struct {
	A, B, TX float32
	C, D, TY float32
}

// AffineIdentity returns the identity transform.
func AffineIdentity() Affine {
	return Affine{A: 1, D: 1}
}

// AffineTRS composes translation, rotation and scale into one transform.
func AffineTRS(pos Vec2, rot float32, scale Vec2) Affine {
	sin := Sin(rot)
	cos := Cos(rot)
	return Affine{
		A: cos * scale.X, B: -sin * scale.Y, TX: pos.X,
		C: sin * scale.X, D: cos * scale.Y, TY: pos.Y,
	}
}

// Mul returns m * n (n applied first).
func (m Affine) Mul(n Affine) Affine {
	return Affine{
		A: m.A*n.A + m.B*n.C, B: m.A*n.B + m.B*n.D, TX: m.A*n.TX + m.B*n.TY + m.TX,
		C: m.C*n.A + m.D*n.C, D: m.C*n.B + m.D*n.D, TY: m.C*n.TX + m.D*n.TY + m.TY,
	}
}

// Apply transforms a point.
func (m Affine) Apply(v Vec2) Vec2 {
	return Vec2{
		X: m.A*v.X + m.B*v.Y + m.TX,
		Y: m.C*v.X + m.D*v.Y + m.TY,
	}
}

// Write stores the transform into a flat buffer as 6 floats in row-major
// order. The slice must have room for 6 elements at offset.
func (m Affine) Write(out []float32, offset int) {
	out[offset+0] = m.A
	out[offset+1] = m.B
	out[offset+2] = m.TX
	out[offset+3] = m.C
	out[offset+4] = m.D
	out[offset+5] = m.TY
}
