package config

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"testing"

	"go.viam.com/test"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	test.That(t, cfg.Validate(), test.ShouldBeNil)
	test.That(t, len(cfg.Joints), test.ShouldEqual, 6)
	test.That(t, cfg.Playback.StepsPerSegment, test.ShouldEqual, 8)

	m, err := cfg.Model()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, len(m.DoF()), test.ShouldEqual, 6)
	test.That(t, m.DoF()[1].Max, test.ShouldAlmostEqual, math.Pi/2)
}

func TestValidateFailures(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Name = ""
	test.That(t, cfg.Validate(), test.ShouldNotBeNil)

	cfg = DefaultConfig()
	cfg.Joints[2].Limit.Min = cfg.Joints[2].Limit.Max
	test.That(t, cfg.Validate(), test.ShouldNotBeNil)

	cfg = DefaultConfig()
	cfg.Joints[0].PID.MaxStep = 0
	test.That(t, cfg.Validate(), test.ShouldNotBeNil)

	cfg = DefaultConfig()
	cfg.Playback.StepsPerSegment = 0
	test.That(t, cfg.Validate(), test.ShouldNotBeNil)

	cfg = DefaultConfig()
	cfg.Playback.Easing = "bounce"
	test.That(t, cfg.Validate(), test.ShouldNotBeNil)

	cfg = DefaultConfig()
	cfg.Solver.Tolerance = 0
	test.That(t, cfg.Validate(), test.ShouldNotBeNil)

	cfg = DefaultConfig()
	cfg.SettleTolerance = 0
	test.That(t, cfg.Validate(), test.ShouldNotBeNil)

	cfg = DefaultConfig()
	cfg.Joints = nil
	test.That(t, cfg.Validate(), test.ShouldNotBeNil)
}

func TestReadConfigFromFile(t *testing.T) {
	cfg := DefaultConfig()
	data, err := json.MarshalIndent(cfg, "", "  ")
	test.That(t, err, test.ShouldBeNil)

	path := filepath.Join(t.TempDir(), "arm.json")
	test.That(t, os.WriteFile(path, data, 0o644), test.ShouldBeNil)

	loaded, err := ReadConfigFromFile(path)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, loaded, test.ShouldResemble, cfg)

	// invalid configs are rejected at load time
	bad := DefaultConfig()
	bad.Playback.StepsPerSegment = -1
	data, err = json.Marshal(bad)
	test.That(t, err, test.ShouldBeNil)
	badPath := filepath.Join(t.TempDir(), "bad.json")
	test.That(t, os.WriteFile(badPath, data, 0o644), test.ShouldBeNil)
	_, err = ReadConfigFromFile(badPath)
	test.That(t, err, test.ShouldNotBeNil)

	_, err = ReadConfigFromFile(filepath.Join(t.TempDir(), "missing.json"))
	test.That(t, err, test.ShouldNotBeNil)
}
