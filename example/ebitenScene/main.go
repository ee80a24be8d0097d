package main

import (
	"fmt"
	"image/color"
	"log"
	"math"

	"github.com/akmonengine/feather2d"
	"github.com/akmonengine/feather2d/actor"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

const (
	screenWidth  = 1200
	screenHeight = 720

	// pixels per world unit
	scale = 40.0

	circleSegments = 24
)

var (
	kinematicColor = color.RGBA{128, 128, 128, 255}
	dynamicColor   = color.RGBA{0, 255, 0, 255}
	contactColor   = color.RGBA{255, 64, 64, 255}
)

type Game struct {
	world         *feather2d.World
	physicsActive bool
	contacts      []mgl64.Vec2
}

func NewGame() *Game {
	g := &Game{}
	g.reset()
	return g
}

func (g *Game) reset() {
	world := feather2d.NewWorld(mgl64.Vec2{0, -9.81})
	world.SpatialGrid = feather2d.NewSpatialGrid(2.0, 256)

	floor := actor.NewBody(actor.Transform{Position: mgl64.Vec2{0, 0.5}, Rotation: (math.Pi / 180) * 3}, actor.NewBox(12, 0.5), actor.BodyTypeKinematic, 0)
	world.CreateBody(floor)

	for i := 0; i < 6; i++ {
		box := actor.NewBody(
			actor.Transform{Position: mgl64.Vec2{-5 + float64(i)*1.8, 4 + float64(i%3)}},
			actor.NewBox(0.5, 0.5),
			actor.BodyTypeDynamic,
			1.0,
		)
		world.CreateBody(box)
	}
	for i := 0; i < 4; i++ {
		circle := actor.NewBody(
			actor.Transform{Position: mgl64.Vec2{-4 + float64(i)*2.5, 8}},
			&actor.Circle{Radius: 0.4 + 0.1*float64(i)},
			actor.BodyTypeDynamic,
			1.0,
		)
		world.CreateBody(circle)
	}
	hexagon := actor.NewBody(actor.Transform{Position: mgl64.Vec2{1, 11}}, actor.NewRegularPolygon(0.8, 6, 0), actor.BodyTypeDynamic, 1.0)
	world.CreateBody(hexagon)

	world.Events.Subscribe(feather2d.CONTACT, func(event feather2d.Event) {
		e := event.(feather2d.ContactEvent)
		g.contacts = append(g.contacts, e.Info.Point1)
	})

	g.world = world
}

func (g *Game) Update() error {
	touches := inpututil.AppendJustPressedTouchIDs(nil)
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) ||
		inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) ||
		len(touches) > 0 {

		g.physicsActive = !g.physicsActive
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.reset()
	}

	if g.physicsActive {
		g.contacts = g.contacts[:0]
		if err := g.world.Advance(1.0 / float64(ebiten.MaxTPS())); err != nil {
			return err
		}
	}

	return nil
}

// toScreen maps world coordinates (y up, origin at the bottom center) to pixels
func toScreen(p mgl64.Vec2) (float64, float64) {
	return screenWidth/2 + p.X()*scale, screenHeight - p.Y()*scale
}

func drawOutline(screen *ebiten.Image, body *actor.Body, clr color.Color) {
	var vertices []mgl64.Vec2

	switch shape := body.Shape.(type) {
	case *actor.Polygon:
		for _, v := range shape.Vertices {
			vertices = append(vertices, body.Transform.ToWorld(v))
		}
	case *actor.Circle:
		for i := 0; i < circleSegments; i++ {
			angle := 2 * math.Pi * float64(i) / circleSegments
			local := mgl64.Vec2{shape.Radius * math.Cos(angle), shape.Radius * math.Sin(angle)}
			vertices = append(vertices, body.Transform.ToWorld(local))
		}
		// Radius line to show the rotation
		x1, y1 := toScreen(body.Transform.Position)
		x2, y2 := toScreen(vertices[0])
		ebitenutil.DrawLine(screen, x1, y1, x2, y2, clr)
	}

	for j := range vertices {
		x1, y1 := toScreen(vertices[j])
		x2, y2 := toScreen(vertices[(j+1)%len(vertices)])
		ebitenutil.DrawLine(screen, x1, y1, x2, y2, clr)
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	for _, body := range g.world.Bodies() {
		clr := dynamicColor
		if body.IsKinematic() {
			clr = kinematicColor
		}
		drawOutline(screen, body, clr)
	}

	for _, contact := range g.contacts {
		x, y := toScreen(contact)
		ebitenutil.DrawRect(screen, x-2, y-2, 4, 4, contactColor)
	}

	ebitenutil.DebugPrint(screen, fmt.Sprintf(
		"Press <space> or click to start/stop, <r> to reset\nbodies: %d  manifolds: %d  TPS: %0.1f",
		len(g.world.Bodies()), g.world.ManifoldCount(), ebiten.CurrentTPS(),
	))
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return screenWidth, screenHeight
}

func main() {
	ebiten.SetWindowSize(screenWidth, screenHeight)
	ebiten.SetWindowTitle("feather2d demo")

	if err := ebiten.RunGame(NewGame()); err != nil {
		log.Fatal(err)
	}
}
