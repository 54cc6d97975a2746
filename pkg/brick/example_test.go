package brick_test

import (
	"fmt"

	"github.com/matzehuels/brickfall/pkg/brick"
)

func ExampleParseLine() {
	b, err := brick.ParseLine(0, "1,0,1~1,2,1")
	if err != nil {
		panic(err)
	}
	fmt.Println("Lo:", b.Lo)
	fmt.Println("Hi:", b.Hi)
	fmt.Println("Span:", b.Span())
	fmt.Println("Volume:", b.Volume())
	// Output:
	// Lo: 1,0,1
	// Hi: 1,2,1
	// Span: y
	// Volume: 3
}

func ExampleBrick_Cells() {
	b := brick.New(6, brick.Coord{X: 1, Y: 1, Z: 8}, brick.Coord{X: 1, Y: 1, Z: 9})
	for c := range b.Cells() {
		fmt.Println(c)
	}
	// Output:
	// 1,1,8
	// 1,1,9
}

func ExampleBrick_ShiftedDown() {
	b := brick.New(0, brick.Coord{X: 0, Y: 0, Z: 4}, brick.Coord{X: 0, Y: 2, Z: 4})
	probe := b.ShiftedDown(1)
	fmt.Println(b)
	fmt.Println(probe)
	// Output:
	// 0,0,4~0,2,4
	// 0,0,3~0,2,3
}
