package config

import "flag"

var (
	flagConfig   = flag.String("config", "", "Path to config file")
	flagDebug    = flag.Bool("debug", false, "Enable debug logging")
	flagLogFile  = flag.String("logfile", "", "Log file path")
	flagTimestep = flag.Float64("timestep", 0, "Physics sub-step duration in seconds")
	flagGravity  = flag.Float64("gravity", 0, "Vertical gravity override (negative is down)")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagLogFile != "" {
		cfg.Logging.LogFile = *flagLogFile
	}
	if *flagTimestep > 0 {
		cfg.Physics.Timestep = float32(*flagTimestep)
	}
	if *flagGravity != 0 {
		cfg.Physics.GravityY = float32(*flagGravity)
	}
}
