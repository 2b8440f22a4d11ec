package main

import (
	"context"
	"fmt"
	"image/color"
	"math"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/font/basicfont"

	"github.com/signalsfoundry/orbital-simulator/core"
	"github.com/signalsfoundry/orbital-simulator/internal/logging"
	"github.com/signalsfoundry/orbital-simulator/model"
	"github.com/signalsfoundry/orbital-simulator/timectrl"
)

const (
	screenWidth  = 1200
	screenHeight = 900

	minZoom = 0.2
	maxZoom = 8.0
	panBase = 8.0
)

var (
	earthColor     = color.RGBA{60, 120, 255, 255}
	satColor       = color.RGBA{255, 80, 80, 255}
	predictedColor = color.RGBA{200, 200, 255, 120}

	trailHead = colorful.Color{R: 0.2, G: 1.0, B: 0.3}
	trailTail = colorful.Color{R: 0.0, G: 0.25, B: 0.05}
)

// Game is the thin interactive shell around the engine: it maps input to
// spawn requests and camera moves, advances one tick per frame, and draws
// whatever the tick returned. All physics stays in core.
type Game struct {
	engine *core.Engine
	params model.Params
	clock  *timectrl.FrameClock

	camX, camY float64
	zoom       float64

	last      core.TickResult
	predicted []model.Vec2
}

func NewGame() *Game {
	params := model.DefaultParams()
	engine := core.NewEngine(params, logging.NewFromEnv())

	// Starter satellite on the classic orbit.
	engine.Spawn(context.Background(), model.Vec2{X: 350, Y: 0})

	return &Game{
		engine: engine,
		params: params,
		clock:  timectrl.NewFrameClock(),
		camX:   params.Center.X,
		camY:   params.Center.Y,
		zoom:   1.0,
	}
}

func (g *Game) Update() error {
	ctx := context.Background()

	// Camera pan; scale by zoom so movement feels consistent.
	pan := panBase / g.zoom
	if ebiten.IsKeyPressed(ebiten.KeyA) {
		g.camX -= pan
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) {
		g.camX += pan
	}
	if ebiten.IsKeyPressed(ebiten.KeyW) {
		g.camY -= pan
	}
	if ebiten.IsKeyPressed(ebiten.KeyS) {
		g.camY += pan
	}

	// Zoom on the mouse wheel, clamped so it cannot run away.
	if _, wy := ebiten.Wheel(); wy != 0 {
		if wy > 0 {
			g.zoom *= 1.1
		} else {
			g.zoom *= 0.9
		}
		g.zoom = math.Min(math.Max(g.zoom, minZoom), maxZoom)
	}

	// Left click spawns a satellite at the cursor's world position. The
	// engine applies the clearance rule, so clicks on the planet do
	// nothing.
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		mx, my := ebiten.CursorPosition()
		g.engine.Spawn(ctx, g.screenToWorld(float64(mx), float64(my)))
	}

	g.last = g.engine.Tick(ctx, g.clock.Delta())
	g.predicted = g.engine.PredictedPath()
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.Black)

	// Central body.
	cx, cy := g.worldToScreen(g.params.Center.X, g.params.Center.Y)
	drawCircle(screen, cx, cy, g.params.CentralRadius*g.zoom, earthColor)

	// Predicted path for the primary satellite.
	g.drawPolyline(screen, g.predicted, predictedColor)

	// Satellites and their trails.
	for _, b := range g.last.Bodies {
		g.drawTrail(screen, b.Trail)
		sx, sy := g.worldToScreen(b.Position.X, b.Position.Y)
		drawCircle(screen, sx, sy, math.Max(2, 5*g.zoom), satColor)
	}

	hud := fmt.Sprintf("bodies: %d  zoom: %.2f  (WASD pan, wheel zoom, click spawn)",
		len(g.last.Bodies), g.zoom)
	text.Draw(screen, hud, basicfont.Face7x13, 12, 20, color.RGBA{220, 220, 220, 200})
}

func (g *Game) Layout(_, _ int) (int, int) {
	return screenWidth, screenHeight
}

func (g *Game) worldToScreen(x, y float64) (float64, float64) {
	return (x-g.camX)*g.zoom + screenWidth/2, (y-g.camY)*g.zoom + screenHeight/2
}

func (g *Game) screenToWorld(x, y float64) model.Vec2 {
	return model.Vec2{
		X: (x-screenWidth/2)/g.zoom + g.camX,
		Y: (y-screenHeight/2)/g.zoom + g.camY,
	}
}

func (g *Game) drawPolyline(screen *ebiten.Image, pts []model.Vec2, clr color.RGBA) {
	for i := 1; i < len(pts); i++ {
		x0, y0 := g.worldToScreen(pts[i-1].X, pts[i-1].Y)
		x1, y1 := g.worldToScreen(pts[i].X, pts[i].Y)
		drawLine(screen, x0, y0, x1, y1, clr)
	}
}

// drawTrail fades the trail from a dim tail to a bright head.
func (g *Game) drawTrail(screen *ebiten.Image, pts []model.Vec2) {
	if len(pts) < 2 {
		return
	}
	n := float64(len(pts) - 1)
	for i := 1; i < len(pts); i++ {
		c := trailTail.BlendRgb(trailHead, float64(i)/n)
		r, gr, b := c.RGB255()
		x0, y0 := g.worldToScreen(pts[i-1].X, pts[i-1].Y)
		x1, y1 := g.worldToScreen(pts[i].X, pts[i].Y)
		drawLine(screen, x0, y0, x1, y1, color.RGBA{r, gr, b, 255})
	}
}

// drawLine is a plain Bresenham; the segments we draw are short, so no
// anti-aliasing is needed.
func drawLine(img *ebiten.Image, x0, y0, x1, y1 float64, clr color.RGBA) {
	ix0 := int(math.Round(x0))
	iy0 := int(math.Round(y0))
	ix1 := int(math.Round(x1))
	iy1 := int(math.Round(y1))
	dx := int(math.Abs(float64(ix1 - ix0)))
	sx := 1
	if ix0 >= ix1 {
		sx = -1
	}
	dy := -int(math.Abs(float64(iy1 - iy0)))
	sy := 1
	if iy0 >= iy1 {
		sy = -1
	}
	err := dx + dy
	for {
		if ix0 >= 0 && iy0 >= 0 && ix0 < screenWidth && iy0 < screenHeight {
			img.Set(ix0, iy0, clr)
		}
		if ix0 == ix1 && iy0 == iy1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			ix0 += sx
		}
		if e2 <= dx {
			err += dx
			iy0 += sy
		}
	}
}

// drawCircle fills a circle span by span; fine for the small radii we use.
func drawCircle(screen *ebiten.Image, cx, cy, r float64, clr color.RGBA) {
	ir := int(math.Ceil(r))
	rr := r * r
	for dy := -ir; dy <= ir; dy++ {
		y := int(math.Round(cy)) + dy
		if y < 0 || y >= screenHeight {
			continue
		}
		xspan := math.Sqrt(math.Max(0, rr-float64(dy*dy)))
		xmin := int(math.Round(cx - xspan))
		xmax := int(math.Round(cx + xspan))
		if xmin < 0 {
			xmin = 0
		}
		if xmax >= screenWidth {
			xmax = screenWidth - 1
		}
		for x := xmin; x <= xmax; x++ {
			screen.Set(x, y, clr)
		}
	}
}

func main() {
	ebiten.SetWindowSize(screenWidth, screenHeight)
	ebiten.SetWindowTitle("Orbital Simulator")

	if err := ebiten.RunGame(NewGame()); err != nil {
		fmt.Fprintf(os.Stderr, "orbitview: %v\n", err)
		os.Exit(1)
	}
}
