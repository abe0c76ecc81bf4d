// Package main runs a simulated inspection sequence on the motion core: it
// loads (or defaults) the arm configuration and a scene of recorded poses,
// plays the scene back with a simulated inspection capturer, and logs progress.
package main

import (
	"context"
	"flag"

	"github.com/edaniels/golog"
	goutils "go.viam.com/utils"

	"github.com/sightworks/armcore/arm"
	"github.com/sightworks/armcore/config"
	"github.com/sightworks/armcore/inspection"
	"github.com/sightworks/armcore/safety"
	"github.com/sightworks/armcore/scene"
	"github.com/sightworks/armcore/utils"
)

var logger = golog.NewDevelopmentLogger("armsim")

func main() {
	goutils.ContextualMain(mainWithArgs, logger)
}

func mainWithArgs(ctx context.Context, args []string, logger golog.Logger) error {
	flags := flag.NewFlagSet(args[0], flag.ContinueOnError)
	configPath := flags.String("config", "", "path to arm config JSON (default: built-in six axis arm)")
	scenePath := flags.String("scene", "", "path to scene JSON (default: built-in demo scene)")
	steps := flags.Int("steps", 0, "interpolation steps per segment (default: from config)")
	if err := flags.Parse(args[1:]); err != nil {
		return err
	}

	cfg := config.DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = config.ReadConfigFromFile(*configPath); err != nil {
			return err
		}
	}
	stepsPerSegment := cfg.Playback.StepsPerSegment
	if *steps > 0 {
		stepsPerSegment = *steps
	}

	interlock := safety.NewInterlock(logger)
	controller, err := arm.NewController(cfg, interlock, logger)
	if err != nil {
		return err
	}

	sc := demoScene()
	if *scenePath != "" {
		if sc, err = scene.ReadSceneFromFile(*scenePath); err != nil {
			return err
		}
	}

	logger.Infow("starting playback", "scene", sc.Name, "poses", sc.Len(), "steps_per_segment", stepsPerSegment)
	result, err := controller.PlaySequence(ctx, sc, stepsPerSegment,
		arm.WithCapturer(inspection.NewSimCapturer(logger)),
		arm.WithProgress(func(completed, total, nearest int) {
			logger.Debugw("playback progress", "completed", completed, "total", total, "nearest_pose", nearest)
		}),
	)
	if err != nil {
		return err
	}
	if result.Blocked {
		logger.Warnw("playback blocked", "state", result.HaltState.String(), "completed", result.StepsCompleted)
		return nil
	}

	pose := controller.CurrentPose()
	pt := pose.Point()
	o := pose.Orientation()
	logger.Infow("playback complete",
		"steps", result.StepsCompleted,
		"captures", len(result.Captures),
		"x", pt.X, "y", pt.Y, "z", pt.Z,
		"roll_deg", utils.RadToDeg(o.Roll),
		"pitch_deg", utils.RadToDeg(o.Pitch),
		"yaw_deg", utils.RadToDeg(o.Yaw),
	)
	return nil
}

// demoScene is a three pose scan used when no scene file is supplied.
func demoScene() *scene.Scene {
	sc := &scene.Scene{Name: "demo", Description: "built-in three pose scan"}
	topDown := scene.InspectionConfig{InspectionType: "surface_quality", ViewType: "top_view", Lighting: "standard", CameraProfile: "default"}
	angled := scene.InspectionConfig{InspectionType: "scratches_small", ViewType: "front_view", Lighting: "low_angle", CameraProfile: "default"}
	sc.Append(scene.RecordedPose{Name: "home", Joints: []float64{0, 0, 0, 0, 0, 0}, Config: topDown})
	sc.Append(scene.RecordedPose{Name: "left", Joints: []float64{0.6, -0.4, 0.5, 0.2, -0.3, 0.1}, Config: angled})
	sc.Append(scene.RecordedPose{Name: "right", Joints: []float64{-0.6, -0.4, 0.5, -0.2, 0.3, -0.1}, Config: angled})
	return sc
}
