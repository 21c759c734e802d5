// Package config loads the engine settings from YAML.
package config

import (
	"bytes"
	"io"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/mogaika/sharpscene/logx"
	"github.com/mogaika/sharpscene/r3d"
)

type Window struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
	VSync  bool   `yaml:"vsync"`
}

type Shader struct {
	Vertex   string `yaml:"vertex"`
	Fragment string `yaml:"fragment"`
}

type Shaders struct {
	Lighting Shader `yaml:"lighting"`
	Lamp     Shader `yaml:"lamp"`
	UI       Shader `yaml:"ui"`
}

type Camera struct {
	Position    [3]float32 `yaml:"position,flow"`
	Yaw         float32    `yaml:"yaw"`
	Pitch       float32    `yaml:"pitch"`
	Fov         float32    `yaml:"fov"`
	Sensitivity float32    `yaml:"sensitivity"`
	MoveSpeed   float32    `yaml:"move_speed"`
}

type Config struct {
	Window  Window  `yaml:"window"`
	Assets  string  `yaml:"assets"`
	Scene   string  `yaml:"scene"`
	Shaders Shaders `yaml:"shaders"`
	Camera  Camera  `yaml:"camera"`
	// Inspector is the listen address of the debug server; empty disables it.
	Inspector string `yaml:"inspector"`
	LogLevel  string `yaml:"log_level"`
}

func Default() *Config {
	return &Config{
		Window: Window{Width: 1280, Height: 720, Title: "sharpscene", VSync: true},
		Assets: "assets",
		Shaders: Shaders{
			Lighting: Shader{Vertex: "shaders/lighting.vert", Fragment: "shaders/lighting.frag"},
			Lamp:     Shader{Vertex: "shaders/lamp.vert", Fragment: "shaders/lamp.frag"},
			UI:       Shader{Vertex: "shaders/ui.vert", Fragment: "shaders/ui.frag"},
		},
		Camera: Camera{
			Position:    [3]float32{0, 1, 6},
			Yaw:         r3d.DefaultYaw,
			Fov:         r3d.DefaultFov,
			Sensitivity: r3d.DefaultSensitivity,
			MoveSpeed:   2.5,
		},
		LogLevel: "info",
	}
}

// Parse overlays YAML data on the defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	c := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && err != io.EOF {
		return nil, errors.Wrapf(err, "Failed to unmarshal config")
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "Cannot read config %q", path)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "Invalid config %q", path)
	}
	return c, nil
}

func (c *Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return errors.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height)
	}
	if c.Camera.Fov < r3d.MinFov || c.Camera.Fov > r3d.MaxFov {
		return errors.Errorf("camera fov %v outside [%v, %v]", c.Camera.Fov, r3d.MinFov, r3d.MaxFov)
	}
	if c.Camera.Pitch < -r3d.MaxPitch || c.Camera.Pitch > r3d.MaxPitch {
		return errors.Errorf("camera pitch %v outside [%v, %v]", c.Camera.Pitch, -r3d.MaxPitch, r3d.MaxPitch)
	}
	if c.Camera.Sensitivity <= 0 {
		return errors.Errorf("camera sensitivity must be positive, got %v", c.Camera.Sensitivity)
	}
	if c.Camera.MoveSpeed < 0 {
		return errors.Errorf("camera move speed must not be negative, got %v", c.Camera.MoveSpeed)
	}
	if _, err := logx.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// Write encodes the config as YAML.
func (c *Config) Write(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return errors.Wrapf(err, "Failed to marshal yaml")
	}
	if err := enc.Close(); err != nil {
		return errors.Wrapf(err, "Failed to close yaml encoder")
	}
	return nil
}
