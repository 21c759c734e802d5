package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"runtime"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	"github.com/mogaika/sharpscene/assets"
	"github.com/mogaika/sharpscene/config"
	"github.com/mogaika/sharpscene/editor"
	"github.com/mogaika/sharpscene/gfx/glgfx"
	"github.com/mogaika/sharpscene/inspect"
	"github.com/mogaika/sharpscene/logx"
	"github.com/mogaika/sharpscene/r3d"
	"github.com/mogaika/sharpscene/render"
	"github.com/mogaika/sharpscene/resources"
	"github.com/mogaika/sharpscene/scene"
	"github.com/mogaika/sharpscene/window"
	"github.com/mogaika/sharpscene/window/glfwhost"
)

func init() {
	// GL and glfw calls must stay on the main thread
	runtime.LockOSThread()
}

func main() {
	var configPath, scenePath, assetsDir, addr, logLevel string
	var save, dumpConfig bool
	flag.StringVar(&configPath, "config", "", "Path to yaml config")
	flag.StringVar(&scenePath, "scene", "", "Scene file to open, demo scene if empty")
	flag.StringVar(&assetsDir, "assets", "", "Assets directory override")
	flag.StringVar(&addr, "i", "", "Address of inspector server, disabled if empty")
	flag.StringVar(&logLevel, "loglevel", "", "Log level override (debug, info, warn, error)")
	flag.BoolVar(&save, "save", false, "Save scene on exit")
	flag.BoolVar(&dumpConfig, "dumpconfig", false, "Print effective config and exit")
	flag.Parse()

	cfg := config.Default()
	if configPath != "" {
		var err error
		if cfg, err = config.Load(configPath); err != nil {
			log.Fatal(err)
		}
	}
	if scenePath != "" {
		cfg.Scene = scenePath
	}
	if assetsDir != "" {
		cfg.Assets = assetsDir
	}
	if addr != "" {
		cfg.Inspector = addr
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	if dumpConfig {
		if err := cfg.Write(os.Stdout); err != nil {
			log.Fatal(err)
		}
		return
	}

	level, _ := logx.ParseLevel(cfg.LogLevel)
	logx.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if err := run(cfg, save); err != nil {
		log.Fatal(err)
	}
}

func run(cfg *config.Config, save bool) error {
	host, err := glfwhost.New(glfwhost.Options{
		Width:  cfg.Window.Width,
		Height: cfg.Window.Height,
		Title:  cfg.Window.Title,
		VSync:  cfg.Window.VSync,
	})
	if err != nil {
		return errors.Wrap(err, "create window")
	}
	defer host.Close()

	dev, err := glgfx.New()
	if err != nil {
		return errors.Wrap(err, "init gl")
	}
	defer dev.Destroy()

	res := resources.NewServices(dev, assets.NewDir(cfg.Assets))
	lighting := res.Shaders.Load("lighting", cfg.Shaders.Lighting.Vertex, cfg.Shaders.Lighting.Fragment)
	lamp := res.Shaders.Load("lamp", cfg.Shaders.Lamp.Vertex, cfg.Shaders.Lamp.Fragment)
	ui := res.Shaders.Load("ui", cfg.Shaders.UI.Vertex, cfg.Shaders.UI.Fragment)

	var s *scene.Scene
	if cfg.Scene != "" {
		s = scene.LoadScene(cfg.Scene, res)
	} else if s, err = demoScene(res); err != nil {
		return errors.Wrap(err, "build demo scene")
	}

	win := window.New(host, dev, newCamera(cfg.Camera), s)
	win.MoveSpeed = cfg.Camera.MoveSpeed
	win.AddRenderer(
		render.NewObjectRenderer(lighting),
		render.NewLampRenderer(lamp, res.Meshes.Primitive(resources.MeshCube)),
		render.NewUIRenderer(ui),
	)
	editor.Attach(win, res)

	if cfg.Inspector != "" {
		srv := inspect.NewServer(os.Stdout)
		win.OnAfterRender(srv.Publish)
		go func() {
			if err := srv.ListenAndServe(cfg.Inspector); err != nil {
				log.Printf("[inspect] Server stopped: %v", err)
			}
		}()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	log.Printf("[engine] Running scene %q", s.Name)
	if err := win.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	log.Printf("[engine] Stopped after %d frames", win.FrameNumber())

	if save {
		path := cfg.Scene
		if path == "" {
			path = s.Name
		}
		saved, err := scene.Save(s, path)
		if err != nil {
			return err
		}
		log.Printf("[engine] Scene saved to %s", saved)
	}
	return nil
}

func newCamera(c config.Camera) *r3d.CameraView {
	cam := r3d.NewCameraView(mgl32.Vec3(c.Position), 1)
	cam.SetYaw(c.Yaw)
	cam.SetPitch(c.Pitch)
	cam.SetFov(c.Fov)
	cam.Sensitivity = c.Sensitivity
	return cam
}
