package math

// FPSTracker keeps a rolling window of frame times and reports the
// current frame rate and average frame duration.
type FPSTracker struct {
	samples []float32
	next    int
	filled  int
}

// NewFPSTracker creates a tracker with the given window size.
// A window of 0 defaults to 60 samples.
func NewFPSTracker(window int) *FPSTracker {
	if window <= 0 {
		window = 60
	}
	return &FPSTracker{samples: make([]float32, window)}
}

// Tick records one frame duration in seconds.
func (f *FPSTracker) Tick(dt float32) {
	if dt <= 0 {
		return
	}
	f.samples[f.next] = dt
	f.next = (f.next + 1) % len(f.samples)
	if f.filled < len(f.samples) {
		f.filled++
	}
}

// AverageFrameTime returns the mean frame duration in seconds over the window.
func (f *FPSTracker) AverageFrameTime() float32 {
	if f.filled == 0 {
		return 0
	}
	var sum float32
	for i := 0; i < f.filled; i++ {
		sum += f.samples[i]
	}
	return sum / float32(f.filled)
}

// FPS returns the average frames per second over the window.
func (f *FPSTracker) FPS() float32 {
	avg := f.AverageFrameTime()
	if avg == 0 {
		return 0
	}
	return 1 / avg
}
