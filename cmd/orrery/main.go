// orrery - a small solar system in your terminal.
//
// Renders a configurable set of spinning and orbiting bodies with
// software 3D rendering, keyboard steering and mouse-driven lighting.
//
// Controls:
//
//	Arrow keys / WASD - Rotate the scene (yaw/pitch)
//	Mouse drag        - Steer the light
//	R                 - Reset rotation
//	Esc / Ctrl+C      - Quit
package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	uv "github.com/charmbracelet/ultraviolet"

	"github.com/arvidh/orrery/pkg/config"
	"github.com/arvidh/orrery/pkg/input"
	"github.com/arvidh/orrery/pkg/models"
	"github.com/arvidh/orrery/pkg/render"
	"github.com/arvidh/orrery/pkg/scene"
)

var (
	targetFPS = flag.Int("fps", 0, "Target FPS (overrides scene config)")
	bgColor   = flag.String("bg", "", "Background color R,G,B (overrides scene config)")
	logPath   = flag.String("log", "", "Write debug logs to this file")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "orrery - terminal solar system\n\n")
		fmt.Fprintf(os.Stderr, "Usage: orrery [options] [scene.yml]\n\n")
		fmt.Fprintf(os.Stderr, "Runs the built-in two-body scene when no scene file is given.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nControls:\n")
		fmt.Fprintf(os.Stderr, "  Arrows/WASD - Rotate the scene\n")
		fmt.Fprintf(os.Stderr, "  Mouse drag  - Steer the light\n")
		fmt.Fprintf(os.Stderr, "  R           - Reset rotation\n")
		fmt.Fprintf(os.Stderr, "  Esc         - Quit\n")
	}
	flag.Parse()

	scenePath := ""
	if flag.NArg() > 0 {
		scenePath = flag.Arg(0)
	}

	if err := run(scenePath); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// setupLogging routes slog output to the -log file, or nowhere. The
// terminal owns stdout, so logs never go there.
func setupLogging() (func(), error) {
	if *logPath == "" {
		slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
		return func() {}, nil
	}

	f, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug})))
	return func() { f.Close() }, nil
}

// body pairs loaded geometry with its texture for drawing.
type body struct {
	mesh *models.Mesh
	tex  *render.Texture
}

// loadBody resolves one config object into renderable geometry.
// Builtin names generate procedural shapes; paths load model files.
func loadBody(o config.Object) (body, error) {
	var (
		mesh     *models.Mesh
		embedded image.Image
		err      error
	)

	switch strings.ToLower(o.Mesh) {
	case "sphere":
		mesh = models.Sphere(1, 32)
	case "box":
		mesh = models.Box(1, 1, 1)
	default:
		switch ext := strings.ToLower(filepath.Ext(o.Mesh)); ext {
		case ".obj":
			mesh, err = models.LoadOBJ(o.Mesh)
		case ".glb", ".gltf":
			mesh, embedded, err = models.LoadGLB(o.Mesh)
		default:
			err = fmt.Errorf("unsupported mesh format %q", ext)
		}
		if err != nil {
			return body{}, fmt.Errorf("object %s: %w", o.Name, err)
		}
	}

	mesh.FitUnit(o.Scale)

	var tex *render.Texture
	if o.Texture != "" {
		tex, err = render.LoadTexture(o.Texture)
		if err != nil {
			return body{}, fmt.Errorf("object %s: %w", o.Name, err)
		}
	}
	if tex == nil && embedded != nil {
		tex = render.TextureFromImage(embedded)
	}
	if tex == nil {
		tex = render.NewCheckerTexture(64, 64, 8, render.RGB(200, 200, 200), render.RGB(100, 100, 100))
	}

	slog.Info("loaded body",
		"name", o.Name,
		"vertices", mesh.VertexCount(),
		"triangles", mesh.TriangleCount(),
		"orbits", o.OrbitRadius > 0)

	return body{mesh: mesh, tex: tex}, nil
}

// hud draws a minimal status line over the rendered frame.
type hud struct {
	fps       float64
	fpsFrames int
	fpsTime   time.Time
}

func newHUD() *hud {
	return &hud{fpsTime: time.Now()}
}

func (h *hud) updateFPS() {
	h.fpsFrames++
	if elapsed := time.Since(h.fpsTime); elapsed >= time.Second {
		h.fps = float64(h.fpsFrames) / elapsed.Seconds()
		h.fpsFrames = 0
		h.fpsTime = time.Now()
	}
}

func (h *hud) render() {
	const (
		reset   = "\x1b[0m"
		bgBlack = "\x1b[40m"
		fgGreen = "\x1b[92m"
	)
	fmt.Printf("\x1b[1;1H%s%s %.0f FPS %s", bgBlack, fgGreen, h.fps, reset)
}

func run(scenePath string) error {
	closeLog, err := setupLogging()
	if err != nil {
		return err
	}
	defer closeLog()

	cfg := config.Default()
	if scenePath != "" {
		cfg, err = config.Load(scenePath)
		if err != nil {
			return err
		}
	}
	if *targetFPS > 0 {
		cfg.FPS = *targetFPS
	}
	if *bgColor != "" {
		fmt.Sscanf(*bgColor, "%d,%d,%d", &cfg.Background.R, &cfg.Background.G, &cfg.Background.B)
	}
	bg := render.RGB(cfg.Background.R, cfg.Background.G, cfg.Background.B)

	// Load all geometry before touching the terminal so errors print
	// normally.
	bodies := make([]body, len(cfg.Objects))
	sceneObjects := make([]scene.Object, len(cfg.Objects))
	for i, o := range cfg.Objects {
		if bodies[i], err = loadBody(o); err != nil {
			return err
		}
		sceneObjects[i] = scene.Object{
			Name:        o.Name,
			Tilt:        o.Tilt,
			Spin:        o.Spin,
			OrbitRadius: o.OrbitRadius,
		}
	}

	composer := scene.New(sceneObjects...)
	composer.FOV = cfg.Camera.FOV
	composer.Near = cfg.Camera.Near
	composer.Far = cfg.Camera.Far
	composer.ViewDistance = cfg.Camera.ViewDistance

	keyRot := input.NewKeyRotator(cfg.FPS)
	keyRot.Step = cfg.Input.KeyStep
	mouseRot := input.NewMouseRotator(cfg.FPS)
	mouseRot.Sensitivity = cfg.Input.MouseSensitivity

	// Terminal setup
	term := uv.DefaultTerminal()

	width, height, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}

	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}

	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(width, height)

	// Enable mouse mode
	fmt.Fprint(os.Stdout, "\x1b[?1003h") // Enable any-event mouse tracking
	fmt.Fprint(os.Stdout, "\x1b[?1006h") // Enable SGR extended mouse mode

	termRenderer := render.NewTerminalRenderer(term, width, height)
	fbWidth, fbHeight := termRenderer.FramebufferSize()
	fb := render.NewFramebuffer(fbWidth, fbHeight)

	prog := render.NewProgram(render.UniformModelView, render.UniformProjection, render.UniformIllumination)
	locMV := prog.UniformLocation(render.UniformModelView)
	locP := prog.UniformLocation(render.UniformProjection)
	locT := prog.UniformLocation(render.UniformIllumination)

	pipeline := render.NewPipeline(prog, fb)

	// Context for clean shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	// Mouse state
	var mouseDown bool
	var lastMouseX, lastMouseY int

	// Event handler
	go func() {
		for ev := range term.Events() {
			switch ev := ev.(type) {
			case uv.WindowSizeEvent:
				width, height = ev.Width, ev.Height
				term.Erase()
				term.Resize(width, height)
				termRenderer = render.NewTerminalRenderer(term, width, height)
				fbWidth, fbHeight = termRenderer.FramebufferSize()
				fb = render.NewFramebuffer(fbWidth, fbHeight)
				pipeline = render.NewPipeline(prog, fb)
				slog.Debug("resized", "width", width, "height", height)

			case uv.KeyPressEvent:
				switch {
				case ev.MatchString("escape"), ev.MatchString("ctrl+c"):
					cancel()
					return
				case ev.MatchString("r"):
					keyRot.Reset()
					mouseRot.Reset()
				case ev.MatchString("left", "a"):
					keyRot.Steer(-1, 0)
				case ev.MatchString("right", "d"):
					keyRot.Steer(1, 0)
				case ev.MatchString("up", "w"):
					keyRot.Steer(0, 1)
				case ev.MatchString("down", "s"):
					keyRot.Steer(0, -1)
				}

			case uv.MouseClickEvent:
				mouseDown = true
				lastMouseX, lastMouseY = ev.X, ev.Y

			case uv.MouseReleaseEvent:
				mouseDown = false

			case uv.MouseMotionEvent:
				if mouseDown {
					mouseRot.Drag(ev.X-lastMouseX, ev.Y-lastMouseY)
					lastMouseX, lastMouseY = ev.X, ev.Y
				}
			}
		}
	}()

	// Main loop
	targetDuration := time.Second / time.Duration(cfg.FPS)
	start := time.Now()
	statusLine := newHUD()

	cleanup := func() {
		fmt.Fprint(os.Stdout, "\x1b[?1003l")
		fmt.Fprint(os.Stdout, "\x1b[?1006l")
		term.ExitAltScreen()
		term.ShowCursor()
		term.Shutdown(context.Background())
	}

	// Uniforms keep their last value between frames; seed the shared
	// matrices so the first frame doesn't render with identities.
	first := composer.Compose(scene.Input{Aspect: float64(fbWidth) / float64(fbHeight)})
	prog.SetMatrix4(locT, first.Illumination)
	prog.SetMatrix4(locP, first.Projection)

	for {
		select {
		case <-ctx.Done():
			cleanup()
			return nil
		default:
		}

		frameStart := time.Now()

		// Angles advance only here, so they hold still for the whole
		// frame no matter when input events arrive.
		keyRot.Poll()
		mouseRot.Poll()

		frame := composer.Compose(scene.Input{
			Time:   time.Since(start).Seconds(),
			Key:    scene.Angles{Phi: keyRot.Phi(), Theta: keyRot.Theta()},
			Mouse:  scene.Angles{Phi: mouseRot.Phi(), Theta: mouseRot.Theta()},
			Aspect: float64(fb.Width) / float64(fb.Height),
		})

		fb.Clear(bg)
		pipeline.ClearDepth()

		for i, b := range bodies {
			prog.SetMatrix4(locMV, frame.ModelView[i])
			pipeline.DrawMesh(b.mesh, b.tex)
		}

		// These land after the draws, so they take effect next frame.
		prog.SetMatrix4(locT, frame.Illumination)
		prog.SetMatrix4(locP, frame.Projection)

		termRenderer.Render(fb)
		if err := termRenderer.Flush(); err != nil {
			cleanup()
			return fmt.Errorf("flush: %w", err)
		}

		statusLine.updateFPS()
		statusLine.render()

		if elapsed := time.Since(frameStart); elapsed < targetDuration {
			time.Sleep(targetDuration - elapsed)
		}
	}
}
