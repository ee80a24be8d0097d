package main

import (
	"fmt"
	"log"

	"github.com/akmonengine/feather2d"
	"github.com/akmonengine/feather2d/actor"
	"github.com/go-gl/mathgl/mgl64"
)

// SetupScene creates a kinematic floor and a tilted box above it
func SetupScene() (*feather2d.World, actor.Handle, actor.Handle) {
	world := feather2d.NewWorld(mgl64.Vec2{0, -9.81})

	floor := world.CreateBody(actor.NewBody(
		actor.Transform{Position: mgl64.Vec2{0, 0}},
		actor.NewBox(10, 0.5),
		actor.BodyTypeKinematic,
		0.0,
	))

	box := world.CreateBody(actor.NewBody(
		actor.Transform{Position: mgl64.Vec2{0, 3}, Rotation: 0.4},
		actor.NewBox(0.5, 0.5),
		actor.BodyTypeDynamic,
		1.0,
	))

	world.Events.Subscribe(feather2d.COLLISION_ENTER, func(event feather2d.Event) {
		e := event.(feather2d.CollisionEnterEvent)
		fmt.Printf("  >> collision enter between %v and %v\n", e.BodyA, e.BodyB)
	})
	world.Events.Subscribe(feather2d.CONTACT, func(event feather2d.Event) {
		e := event.(feather2d.ContactEvent)
		fmt.Printf("  >> contact normal=%v depth=%.4f\n", e.Info.Normal, e.Info.Depth)
	})

	return world, floor, box
}

func main() {
	fmt.Println("Box falling on a kinematic floor")
	fmt.Println("================================")

	world, floor, box := SetupScene()

	fmt.Printf("Floor: position %v\n", world.Body(floor).Transform.Position)
	fmt.Printf("Box: position %v, rotation %.3f\n", world.Body(box).Transform.Position, world.Body(box).Transform.Rotation)
	fmt.Printf("Gravity: %v\n\n", world.Gravity)

	const dt float64 = 1.0 / 60.0
	const maxSteps int = 180

	for step := 0; step < maxSteps; step++ {
		if err := world.Advance(dt); err != nil {
			log.Fatal(err)
		}

		body := world.Body(box)
		fmt.Printf("step %3d: position=(%.4f, %.4f) rotation=%.4f velocity=(%.4f, %.4f) manifolds=%d\n",
			step+1,
			body.Transform.Position.X(), body.Transform.Position.Y(),
			body.Transform.Rotation,
			body.Velocity.X(), body.Velocity.Y(),
			world.ManifoldCount(),
		)
	}

	fmt.Println("Done!")
}
