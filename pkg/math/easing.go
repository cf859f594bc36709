package math

// EaseFunc maps a normalized progress value in [0, 1] to an eased value.
type EaseFunc func(t float32) float32

// Easing functions. All accept t in [0, 1] and return 0 at 0 and 1 at 1.
var (
	EaseLinear EaseFunc = func(t float32) float32 { return t }

	EaseInQuad    EaseFunc = func(t float32) float32 { return t * t }
	EaseOutQuad   EaseFunc = func(t float32) float32 { return t * (2 - t) }
	EaseInOutQuad EaseFunc = func(t float32) float32 {
		if t < 0.5 {
			return 2 * t * t
		}
		return -1 + (4-2*t)*t
	}

	EaseInCubic  EaseFunc = func(t float32) float32 { return t * t * t }
	EaseOutCubic EaseFunc = func(t float32) float32 {
		u := t - 1
		return u*u*u + 1
	}
	EaseInOutCubic EaseFunc = func(t float32) float32 {
		if t < 0.5 {
			return 4 * t * t * t
		}
		u := 2*t - 2
		return 0.5*u*u*u + 1
	}

	EaseInSine    EaseFunc = func(t float32) float32 { return 1 - Cos(t*Pi/2) }
	EaseOutSine   EaseFunc = func(t float32) float32 { return Sin(t * Pi / 2) }
	EaseInOutSine EaseFunc = func(t float32) float32 {
		return -(Cos(Pi*t) - 1) / 2
	}

	EaseOutElastic EaseFunc = func(t float32) float32 {
		if t == 0 || t == 1 {
			return t
		}
		const c = 2 * Pi / 3
		return Pow(2, -10*t)*Sin((t*10-0.75)*c) + 1
	}

	EaseOutBounce EaseFunc = func(t float32) float32 {
		const n, d = 7.5625, 2.75
		switch {
		case t < 1/d:
			return n * t * t
		case t < 2/d:
			t -= 1.5 / d
			return n*t*t + 0.75
		case t < 2.5/d:
			t -= 2.25 / d
			return n*t*t + 0.9375
		default:
			t -= 2.625 / d
			return n*t*t + 0.984375
		}
	}
)

var easings = map[string]EaseFunc{
	"linear":         EaseLinear,
	"ease_in":        EaseInQuad,
	"ease_out":       EaseOutQuad,
	"ease_in_out":    EaseInOutQuad,
	"cubic_in":       EaseInCubic,
	"cubic_out":      EaseOutCubic,
	"cubic_in_out":   EaseInOutCubic,
	"sine_in":        EaseInSine,
	"sine_out":       EaseOutSine,
	"sine_in_out":    EaseInOutSine,
	"elastic_out":    EaseOutElastic,
	"bounce_out":     EaseOutBounce,
}

// Easing looks up an easing function by name. Unknown or empty names
// resolve to linear so malformed clip data degrades gracefully.
func Easing(name string) EaseFunc {
	if fn, ok := easings[name]; ok {
		return fn
	}
	return EaseLinear
}

// EasingNames returns the registered easing names, unordered.
func EasingNames() []string {
	names := make([]string, 0, len(easings))
	for name := range easings {
		names = append(names, name)
	}
	return names
}
