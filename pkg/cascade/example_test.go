package cascade_test

import (
	"context"
	"fmt"

	"github.com/matzehuels/brickfall/pkg/cascade"
	"github.com/matzehuels/brickfall/pkg/support"
)

func ExampleAnalyzer_Fall() {
	// 1 and 2 rest on 0; 3 rests on both 1 and 2.
	g := support.New(4)
	_ = g.AddEdge(1, 0)
	_ = g.AddEdge(2, 0)
	_ = g.AddEdge(3, 1)
	_ = g.AddEdge(3, 2)

	a := cascade.New(g)
	fall, _ := a.Fall(0)
	fmt.Println("remove 0:", fall)
	fall, _ = a.Fall(1)
	fmt.Println("remove 1:", fall)
	// Output:
	// remove 0: [0 1 2 3]
	// remove 1: [1]
}

func ExampleAnalyzer_Summarize() {
	g := support.New(3)
	_ = g.AddEdge(1, 0)
	_ = g.AddEdge(2, 1)

	s, _ := cascade.New(g).Summarize(context.Background(), 1)
	fmt.Println("safe:", s.SafeCount)
	fmt.Println("total:", s.CascadeTotal)
	// Output:
	// safe: 1
	// total: 3
}
