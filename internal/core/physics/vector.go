package physics

import "math"

// Vec2 is a 2D vector in world units, Y pointing up.
type Vec2 struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

func (v Vec2) Scale(s float64) Vec2 { return Vec2{v.X * s, v.Y * s} }

func (v Vec2) Neg() Vec2 { return Vec2{-v.X, -v.Y} }

func (v Vec2) Dot(o Vec2) float64 { return v.X*o.X + v.Y*o.Y }

func (v Vec2) LenSq() float64 { return v.X*v.X + v.Y*v.Y }

func (v Vec2) Len() float64 { return math.Hypot(v.X, v.Y) }

func (v Vec2) IsZero() bool { return v.X == 0 && v.Y == 0 }

// IsFinite reports whether neither component is NaN or infinite.
func (v Vec2) IsFinite() bool {
	return !math.IsNaN(v.X) && !math.IsNaN(v.Y) && !math.IsInf(v.X, 0) && !math.IsInf(v.Y, 0)
}

// Normalize returns the unit vector in v's direction, or the zero vector for zero input.
func (v Vec2) Normalize() Vec2 {
	l := v.Len()
	if l == 0 {
		return Vec2{}
	}
	return Vec2{v.X / l, v.Y / l}
}

// Reflect mirrors v about the unit normal n: v - 2(v·n)n.
func (v Vec2) Reflect(n Vec2) Vec2 {
	return v.Sub(n.Scale(2 * v.Dot(n)))
}

// WithLength rescales v to length l, keeping its direction.
func (v Vec2) WithLength(l float64) Vec2 {
	return v.Normalize().Scale(l)
}

// Distance computes the Euclidean distance between two points.
func Distance(a, b Vec2) float64 { return b.Sub(a).Len() }

// Bounds is an axis-aligned box given by its min and max corners.
type Bounds struct {
	Min Vec2 `json:"min" yaml:"min"`
	Max Vec2 `json:"max" yaml:"max"`
}

// BoundsFromCenter builds bounds around center with the given full size.
func BoundsFromCenter(center, size Vec2) Bounds {
	half := size.Scale(0.5)
	return Bounds{Min: center.Sub(half), Max: center.Add(half)}
}

// CircleBounds returns the box enclosing a circle.
func CircleBounds(center Vec2, radius float64) Bounds {
	r := Vec2{radius, radius}
	return Bounds{Min: center.Sub(r), Max: center.Add(r)}
}

func (b Bounds) Center() Vec2 { return b.Min.Add(b.Max).Scale(0.5) }

func (b Bounds) HalfExtents() Vec2 { return b.Max.Sub(b.Min).Scale(0.5) }

func (b Bounds) Size() Vec2 { return b.Max.Sub(b.Min) }

// Empty reports whether the bounds enclose no area.
func (b Bounds) Empty() bool { return b.Max.X <= b.Min.X || b.Max.Y <= b.Min.Y }

func (b Bounds) Contains(p Vec2) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X && p.Y >= b.Min.Y && p.Y <= b.Max.Y
}

// Translate moves the bounds by d.
func (b Bounds) Translate(d Vec2) Bounds {
	return Bounds{Min: b.Min.Add(d), Max: b.Max.Add(d)}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
