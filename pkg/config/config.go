// Package config loads scene descriptions from YAML files.
package config

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// Scene describes a complete scene: render settings, camera
// parameters, input tuning and the objects to draw.
type Scene struct {
	FPS        int      `yaml:"fps"`
	Background RGB      `yaml:"background"`
	Camera     Camera   `yaml:"camera"`
	Input      Input    `yaml:"input"`
	Objects    []Object `yaml:"objects"`
}

// RGB is an 8-bit color triple.
type RGB struct {
	R uint8 `yaml:"r"`
	G uint8 `yaml:"g"`
	B uint8 `yaml:"b"`
}

// Camera holds the projection and view parameters.
type Camera struct {
	FOV          float64 `yaml:"fov"`
	Near         float64 `yaml:"near"`
	Far          float64 `yaml:"far"`
	ViewDistance float64 `yaml:"view_distance"`
}

// Input tunes how fast keyboard and mouse impulses turn the scene.
type Input struct {
	KeyStep          float64 `yaml:"key_step"`
	MouseSensitivity float64 `yaml:"mouse_sensitivity"`
}

// Object describes one thing to draw. Mesh is either a file path
// (.obj or .glb) or one of the builtin names "sphere" and "box".
type Object struct {
	Name        string  `yaml:"name"`
	Mesh        string  `yaml:"mesh"`
	Texture     string  `yaml:"texture"`
	Scale       float64 `yaml:"scale"`
	Tilt        float64 `yaml:"tilt"`
	Spin        float64 `yaml:"spin"`
	OrbitRadius float64 `yaml:"orbit_radius"`
}

// Default returns the built-in two-body scene: a spinning primary
// with a small moon orbiting it.
func Default() Scene {
	return Scene{
		FPS:        30,
		Background: RGB{R: 16, G: 16, B: 32},
		Camera: Camera{
			FOV:          math.Pi / 3,
			Near:         0.1,
			Far:          100,
			ViewDistance: 3,
		},
		Input: Input{
			KeyStep:          0.05,
			MouseSensitivity: 0.03,
		},
		Objects: []Object{
			{
				Name:  "primary",
				Mesh:  "box",
				Scale: 1.5,
				Tilt:  10 * math.Pi / 100,
				Spin:  1,
			},
			{
				Name:        "moon",
				Mesh:        "sphere",
				Scale:       0.4,
				Tilt:        5 * math.Pi / 100,
				OrbitRadius: 0.8,
			},
		},
	}
}

// Load reads a scene config from path, filling unset camera and
// input fields with the defaults.
func Load(path string) (Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Scene{}, fmt.Errorf("read config: %w", err)
	}

	cfg := Scene{}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Scene{}, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return Scene{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Scene) applyDefaults() {
	def := Default()
	if c.FPS == 0 {
		c.FPS = def.FPS
	}
	if c.Camera.FOV == 0 {
		c.Camera.FOV = def.Camera.FOV
	}
	if c.Camera.Near == 0 {
		c.Camera.Near = def.Camera.Near
	}
	if c.Camera.Far == 0 {
		c.Camera.Far = def.Camera.Far
	}
	if c.Camera.ViewDistance == 0 {
		c.Camera.ViewDistance = def.Camera.ViewDistance
	}
	if c.Input.KeyStep == 0 {
		c.Input.KeyStep = def.Input.KeyStep
	}
	if c.Input.MouseSensitivity == 0 {
		c.Input.MouseSensitivity = def.Input.MouseSensitivity
	}
	for i := range c.Objects {
		if c.Objects[i].Scale == 0 {
			c.Objects[i].Scale = 1
		}
	}
}

func (c *Scene) validate() error {
	if c.FPS < 1 || c.FPS > 240 {
		return fmt.Errorf("fps %d out of range [1, 240]", c.FPS)
	}
	if c.Camera.FOV <= 0 || c.Camera.FOV >= math.Pi {
		return fmt.Errorf("fov %v out of range (0, pi)", c.Camera.FOV)
	}
	if c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near {
		return fmt.Errorf("near/far planes %v/%v invalid", c.Camera.Near, c.Camera.Far)
	}
	if len(c.Objects) == 0 {
		return fmt.Errorf("no objects defined")
	}
	for i, o := range c.Objects {
		if o.Mesh == "" {
			return fmt.Errorf("object %d (%s) has no mesh", i, o.Name)
		}
		if o.Scale <= 0 {
			return fmt.Errorf("object %d (%s) scale %v must be positive", i, o.Name, o.Scale)
		}
		if o.OrbitRadius < 0 {
			return fmt.Errorf("object %d (%s) orbit_radius %v must not be negative", i, o.Name, o.OrbitRadius)
		}
	}
	return nil
}
