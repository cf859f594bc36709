// Package config handles engine configuration loading and management.
package config

// Config holds all engine tuning settings.
type Config struct {
	Animation AnimationConfig `yaml:"animation"`
	Physics   PhysicsConfig   `yaml:"physics"`
	Rigging   RiggingConfig   `yaml:"rigging"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// AnimationConfig holds layer and blending settings.
type AnimationConfig struct {
	// MaxLayers caps the number of simultaneous animation layers.
	MaxLayers int `yaml:"max_layers"`
	// DefaultFade is the cross-fade duration in seconds when the caller
	// does not give one.
	DefaultFade float32 `yaml:"default_fade"`
	// IKIterations caps FABRIK passes per constraint per frame.
	IKIterations int `yaml:"ik_iterations"`
	// IKTolerance is the end-effector distance considered converged.
	IKTolerance float32 `yaml:"ik_tolerance"`
}

// PhysicsConfig holds simulation settings.
type PhysicsConfig struct {
	// Timestep is the fixed sub-step duration in seconds.
	Timestep float32 `yaml:"timestep"`
	// MaxSubSteps bounds the sub-steps run per Step call.
	MaxSubSteps int     `yaml:"max_substeps"`
	GravityX    float32 `yaml:"gravity_x"`
	GravityY    float32 `yaml:"gravity_y"`
	// Iterations is the solver pass count per sub-step.
	Iterations int `yaml:"iterations"`
	// CellSize is the spatial-hash broadphase grid cell size.
	CellSize float32 `yaml:"cell_size"`
	// SleepThreshold is the kinetic energy below which a body may sleep.
	SleepThreshold float32 `yaml:"sleep_threshold"`
	// SleepTime is how long a body must stay under the threshold.
	SleepTime float32 `yaml:"sleep_time"`
}

// RiggingConfig holds automatic rigger settings.
type RiggingConfig struct {
	// GridCols and GridRows size the generated mesh grid.
	GridCols int `yaml:"grid_cols"`
	GridRows int `yaml:"grid_rows"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Animation: AnimationConfig{
			MaxLayers:    8,
			DefaultFade:  0.25,
			IKIterations: 10,
			IKTolerance:  0.01,
		},
		Physics: PhysicsConfig{
			Timestep:       1.0 / 120.0,
			MaxSubSteps:    8,
			GravityX:       0,
			GravityY:       -9.81,
			Iterations:     4,
			CellSize:       25,
			SleepThreshold: 0.001,
			SleepTime:      0.5,
		},
		Rigging: RiggingConfig{
			GridCols: 16,
			GridRows: 16,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
