package math

// Perlin is seeded gradient noise, used for procedural idle motion.
// Output is deterministic for a given seed.
type Perlin struct {
	perm [512]int
}

// NewPerlin creates a noise generator with a permutation table derived
// from seed via an xorshift shuffle.
func NewPerlin(seed uint64) *Perlin {
	p := &Perlin{}
	var table [256]int
	for i := range table {
		table[i] = i
	}
	s := seed
	if s == 0 {
		s = 0x9e3779b97f4a7c15
	}
	for i := 255; i > 0; i-- {
		s ^= s << 13
		s ^= s >> 7
		s ^= s << 17
		j := int(s % uint64(i+1))
		table[i], table[j] = table[j], table[i]
	}
	for i := 0; i < 512; i++ {
		p.perm[i] = table[i&255]
	}
	return p
}

func fade(t float32) float32 {
	return t * t * t * (t*(t*6-15) + 10)
}

func grad1(hash int, x float32) float32 {
	if hash&1 == 0 {
		return x
	}
	return -x
}

func grad2(hash int, x, y float32) float32 {
	switch hash & 3 {
	case 0:
		return x + y
	case 1:
		return -x + y
	case 2:
		return x - y
	default:
		return -x - y
	}
}

// Noise1D returns 1D noise at x, in roughly [-1, 1].
func (p *Perlin) Noise1D(x float32) float32 {
	xi := int(floor(x)) & 255
	xf := x - floor(x)
	u := fade(xf)
	a := grad1(p.perm[xi], xf)
	b := grad1(p.perm[xi+1], xf-1)
	return Lerp(a, b, u) * 2
}

// Noise2D returns 2D noise at (x, y), in roughly [-1, 1].
func (p *Perlin) Noise2D(x, y float32) float32 {
	xi := int(floor(x)) & 255
	yi := int(floor(y)) & 255
	xf := x - floor(x)
	yf := y - floor(y)
	u := fade(xf)
	v := fade(yf)

	aa := p.perm[p.perm[xi]+yi]
	ab := p.perm[p.perm[xi]+yi+1]
	ba := p.perm[p.perm[xi+1]+yi]
	bb := p.perm[p.perm[xi+1]+yi+1]

	x1 := Lerp(grad2(aa, xf, yf), grad2(ba, xf-1, yf), u)
	x2 := Lerp(grad2(ab, xf, yf-1), grad2(bb, xf-1, yf-1), u)
	return Lerp(x1, x2, v)
}

func floor(v float32) float32 {
	i := float32(int(v))
	if v < i {
		return i - 1
	}
	return i
}
