// rigsim runs a headless animation and physics simulation of an
// auto-rigged character and reports timing statistics.
package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/rigcore/internal/assets"
	"github.com/Faultbox/rigcore/internal/config"
	"github.com/Faultbox/rigcore/internal/engine/animation"
	"github.com/Faultbox/rigcore/internal/engine/physics"
	"github.com/Faultbox/rigcore/internal/engine/rig"
	"github.com/Faultbox/rigcore/internal/engine/skeleton"
	"github.com/Faultbox/rigcore/internal/logger"
	"github.com/Faultbox/rigcore/pkg/math"
)

var (
	flagFrames  = flag.Int("frames", 600, "Number of frames to simulate")
	flagDT      = flag.Float64("dt", 1.0/60.0, "Frame delta time in seconds")
	flagRigFile = flag.String("rig", "", "Rig document to load instead of the synthetic character")
)

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== rigsim ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	skel, err := loadSkeleton(*flagRigFile, cfg)
	if err != nil {
		logger.Error("failed to build character", zap.Error(err))
		os.Exit(1)
	}
	logger.Info("character ready", zap.Int("bones", skel.Count()))

	anim, world, err := buildScene(skel, cfg)
	if err != nil {
		logger.Error("failed to build scene", zap.Error(err))
		os.Exit(1)
	}

	dt := float32(*flagDT)
	tracker := math.NewFPSTracker(0)
	palette := make([]float32, skeleton.PaletteSize(skel))

	for frame := 0; frame < *flagFrames; frame++ {
		anim.Update(dt)
		world.Step(dt)
		anim.WritePalette(palette)
		tracker.Tick(dt)
	}

	logger.Info("simulation finished",
		zap.Int("frames", *flagFrames),
		zap.Int("bodies", world.Bodies()),
		zap.Int("contacts", len(world.Contacts())),
	)
	fmt.Printf("Frames:   %d\n", *flagFrames)
	fmt.Printf("Sim time: %.2fs at dt=%.4fs\n", float64(dt)*float64(*flagFrames), dt)
	fmt.Printf("Avg rate: %.1f fps (simulated)\n", tracker.FPS())
}

// loadSkeleton loads a rig document if one was given, and otherwise
// auto-rigs a synthetic 100x150 character.
func loadSkeleton(path string, cfg *config.Config) (*skeleton.Skeleton, error) {
	if path != "" {
		skel, _, err := assets.LoadRig(path)
		return skel, err
	}
	r, err := rig.Build(rig.Landmarks{
		HeadOutline: []math.Vec2{
			{X: 30, Y: 20}, {X: 70, Y: 20}, {X: 70, Y: 60}, {X: 30, Y: 60},
		},
		LeftEye:  math.Vec2{X: 40, Y: 35},
		RightEye: math.Vec2{X: 60, Y: 35},
		Mouth:    math.Vec2{X: 50, Y: 52},
	}, 100, 150, rig.Options{
		GridCols: cfg.Rigging.GridCols,
		GridRows: cfg.Rigging.GridRows,
	})
	if err != nil {
		return nil, err
	}
	return r.Skeleton, nil
}

// buildScene wires an animator playing generated idle and blink clips,
// plus a physics world with one dynamic body per shoulder hanging from
// the character by distance constraints.
func buildScene(skel *skeleton.Skeleton, cfg *config.Config) (*animation.Animator, *physics.World, error) {
	anim := animation.NewAnimator(skel, animation.Options{
		MaxLayers:    cfg.Animation.MaxLayers,
		IKIterations: cfg.Animation.IKIterations,
		IKTolerance:  cfg.Animation.IKTolerance,
		DefaultFade:  cfg.Animation.DefaultFade,
	})

	idle, err := assets.GenerateIdleClip("idle", skel, assets.DefaultIdleOptions())
	if err != nil {
		return nil, nil, err
	}
	if err := anim.AddClip(idle); err != nil {
		return nil, nil, err
	}
	blink, err := assets.GenerateBlinkClip("blink", skel, []string{rig.BoneLeftEye, rig.BoneRightEye})
	if err != nil {
		return nil, nil, err
	}
	if err := anim.AddClip(blink); err != nil {
		return nil, nil, err
	}

	if _, err := anim.CreateLayer("base", 1, animation.Override); err != nil {
		return nil, nil, err
	}
	if _, err := anim.CreateLayer("face", 0.8, animation.Override); err != nil {
		return nil, nil, err
	}
	anim.Play("base", "idle", 1)
	anim.Play("face", "blink", 1)

	world := physics.NewWorld(physics.Options{
		Gravity:        math.Vec2{X: cfg.Physics.GravityX, Y: cfg.Physics.GravityY},
		Timestep:       cfg.Physics.Timestep,
		MaxSubSteps:    cfg.Physics.MaxSubSteps,
		Iterations:     cfg.Physics.Iterations,
		CellSize:       cfg.Physics.CellSize,
		SleepThreshold: cfg.Physics.SleepThreshold,
		SleepTime:      cfg.Physics.SleepTime,
	})

	if _, err := world.CreateBody(physics.BodyDef{
		Name:     "ground",
		Static:   true,
		Position: math.Vec2{X: 50, Y: 200},
		Shape:    physics.Box(200, 5),
	}); err != nil {
		return nil, nil, err
	}
	for _, name := range []string{rig.BoneLeftShoulder, rig.BoneRightShoulder} {
		idx, ok := skel.Index(name)
		if !ok {
			continue
		}
		b := skel.Bone(idx)
		pin, err := world.CreateBody(physics.BodyDef{
			Name:     name + "_pin",
			Static:   true,
			Position: b.Position,
			Shape:    physics.Sphere(0.5),
		})
		if err != nil {
			return nil, nil, err
		}
		tassel, err := world.CreateBody(physics.BodyDef{
			Name:        name + "_tassel",
			Position:    b.Position.Add(math.Vec2{Y: 12}),
			Mass:        0.2,
			Damping:     0.98,
			Restitution: 0.2,
			Friction:    0.4,
			Shape:       physics.Sphere(2),
		})
		if err != nil {
			return nil, nil, err
		}
		if _, err := world.CreateConstraint(physics.Constraint{
			Name:       name + "_hang",
			Kind:       physics.ConstraintDistance,
			BodyA:      pin,
			BodyB:      tassel,
			RestLength: 12,
		}); err != nil {
			return nil, nil, err
		}
	}

	return anim, world, nil
}
