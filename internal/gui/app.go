package gui

import (
	"fmt"
	"log"
	"math/rand"
	"sort"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/san-kum/backdrop/internal/config"
	"github.com/san-kum/backdrop/internal/dynamo"
	"github.com/san-kum/backdrop/internal/input"
	"github.com/san-kum/backdrop/internal/scene"
	"github.com/san-kum/backdrop/internal/scheduler"
	"github.com/san-kum/backdrop/internal/tier"
)

var (
	ColBg      = rl.NewColor(10, 10, 10, 255)
	ColSelect  = rl.NewColor(255, 255, 255, 255)
	ColText    = rl.NewColor(180, 180, 180, 255)
	ColTextDim = rl.NewColor(90, 90, 90, 255)
	ColPanel   = rl.NewColor(0, 0, 0, 150)
)

// App hosts a scene in a raylib window.
type App struct {
	Scene *scene.Scene
	Loop  *scheduler.Loop
	Hub   *input.Hub

	Field   *layer
	Bubbles *layer
	Font    rl.Font

	Width, Height int
	ShowHUD       bool
	Quit          bool

	Params        map[string]float64
	InitialParams map[string]float64
	ParamKeys     []string
	ParamSel      int

	lastMouse rl.Vector2
}

func initWindow(cfg *config.Config) {
	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	rl.InitWindow(int32(cfg.Window.Width), int32(cfg.Window.Height), "backdrop")
	rl.SetTargetFPS(int32(cfg.Scheduler.RefreshHz))
	rl.SetExitKey(0)
}

// NewApp builds the scene on display-list layers. The window must already
// be open.
func NewApp(cfg *config.Config, t tier.Tier, rng *rand.Rand) (*App, error) {
	w, h := cfg.Window.Width, cfg.Window.Height
	a := &App{
		Loop:    scheduler.NewLoop(scheduler.SystemClock{}),
		Hub:     input.NewHub(dynamo.Bounds{Width: float64(w), Height: float64(h)}),
		Field:   newLayer(w, h),
		Bubbles: newLayer(w, h),
		Font:    rl.GetFontDefault(),
		Width:   w,
		Height:  h,
		ShowHUD: true,
	}

	sc, err := scene.New(cfg, t, scene.Layers{Field: a.Field.list, Bubbles: a.Bubbles.list}, a.Loop, a.Hub, rng)
	if err != nil {
		return nil, err
	}
	a.Scene = sc

	a.Params = sc.Simulator().GetParams()
	a.InitialParams = make(map[string]float64, len(a.Params))
	a.ParamKeys = make([]string, 0, len(a.Params))
	for k, v := range a.Params {
		a.InitialParams[k] = v
		a.ParamKeys = append(a.ParamKeys, k)
	}
	sort.Strings(a.ParamKeys)
	return a, nil
}

// Run opens a window and hosts the scene until it is closed.
func Run(cfg *config.Config, t tier.Tier, rng *rand.Rand) error {
	initWindow(cfg)
	defer rl.CloseWindow()

	app, err := NewApp(cfg, t, rng)
	if err != nil {
		return err
	}
	if err := app.Scene.Mount(); err != nil {
		return err
	}
	log.Printf("backdrop: window host mounted, tier %s", t)

	app.RunLoop()
	app.Close()
	return nil
}

func (a *App) RunLoop() {
	for !rl.WindowShouldClose() && !a.Quit {
		a.Update()
		a.Draw()
	}
}

// Close disposes the scene and releases GPU textures.
func (a *App) Close() {
	a.Scene.Dispose()
	a.Field.unload()
	a.Bubbles.unload()
}

func (a *App) Update() {
	if rl.IsKeyPressed(rl.KeyQ) || rl.IsKeyPressed(rl.KeyEscape) {
		a.Quit = true
		return
	}

	if rl.IsWindowResized() {
		a.Width, a.Height = rl.GetScreenWidth(), rl.GetScreenHeight()
		if err := a.Scene.Resize(a.Width, a.Height); err != nil {
			log.Printf("backdrop: resize: %v", err)
		}
	}

	mouse := rl.GetMousePosition()
	if mouse != a.lastMouse {
		a.Hub.Move(float64(mouse.X), float64(mouse.Y))
		a.lastMouse = mouse
	}
	if rl.IsMouseButtonPressed(rl.MouseLeftButton) {
		a.Hub.Press(float64(mouse.X), float64(mouse.Y))
	}

	if rl.IsKeyPressed(rl.KeyH) {
		a.ShowHUD = !a.ShowHUD
	}
	a.updateParams()

	a.Loop.Pump(time.Now())
}

func (a *App) updateParams() {
	if len(a.ParamKeys) == 0 {
		return
	}
	if rl.IsKeyPressed(rl.KeyTab) || rl.IsKeyPressed(rl.KeyJ) {
		a.ParamSel = (a.ParamSel + 1) % len(a.ParamKeys)
	}
	if rl.IsKeyPressed(rl.KeyK) {
		a.ParamSel--
		if a.ParamSel < 0 {
			a.ParamSel = len(a.ParamKeys) - 1
		}
	}

	key := a.ParamKeys[a.ParamSel]
	step := 0.05
	if rl.IsKeyDown(rl.KeyLeftShift) {
		step = 0.25
	}
	factor := 1.0
	if rl.IsKeyPressed(rl.KeyUp) || rl.IsKeyPressed(rl.KeyRight) {
		factor += step
	}
	if rl.IsKeyPressed(rl.KeyDown) || rl.IsKeyPressed(rl.KeyLeft) {
		factor -= step
	}
	if factor != 1 {
		sim := a.Scene.Simulator()
		if err := sim.SetParam(key, a.Params[key]*factor); err != nil {
			log.Printf("backdrop: %v", err)
		}
		a.Params[key] = sim.GetParams()[key]
	}

	if rl.IsKeyPressed(rl.KeyR) {
		for k, v := range a.InitialParams {
			if err := a.Scene.Simulator().SetParam(k, v); err == nil {
				a.Params[k] = v
			}
		}
	}
}

func (a *App) Draw() {
	a.Field.sync(a.Font)
	a.Bubbles.sync(a.Font)

	rl.BeginDrawing()
	rl.ClearBackground(ColBg)
	a.Field.draw()
	a.Bubbles.draw()
	if a.ShowHUD {
		a.DrawHUD()
	}
	rl.EndDrawing()
}

func (a *App) DrawHUD() {
	st := a.Scene.Stats()
	rl.DrawRectangle(16, 16, 300, 120, ColPanel)

	a.drawText("backdrop", 28, 24, 20, ColSelect)
	a.drawText(fmt.Sprintf("tier %s  %d FPS", st.Tier, rl.GetFPS()), 28, 50, 14, ColText)
	a.drawText(fmt.Sprintf("field %d/%d  bubbles %d/%d", st.FieldFrames, st.FieldSkipped, st.BubbleFrames, st.BubbleSkipped), 28, 68, 14, ColText)
	a.drawText(fmt.Sprintf("step %s  pulses %d", st.LastBubbleStep.Round(time.Microsecond), st.ActivePulses), 28, 86, 14, ColText)

	if len(a.ParamKeys) > 0 {
		k := a.ParamKeys[a.ParamSel]
		a.drawText(fmt.Sprintf("%s = %.3g", k, a.Params[k]), 28, 108, 14, ColSelect)
	}

	a.drawText("[TAB] PARAM  [UP/DOWN] ADJUST  [R] RESET  [H] HUD  [Q] QUIT", 28, a.Height-28, 14, ColTextDim)
}

func (a *App) drawText(text string, x, y int, size int, color rl.Color) {
	rl.DrawTextEx(a.Font, text, rl.NewVector2(float32(x), float32(y)), float32(size), 1, color)
}
