// Package pkg provides the core libraries for brickfall.
//
// # Overview
//
// Brickfall drops axis-aligned bricks onto a floor until each rests on the
// floor or on another brick, derives which bricks support which, and answers
// "if this brick is removed, what falls?" for every brick. The pkg directory
// is organized into three areas:
//
//  1. Core model: [brick], [settle], [support], [cascade]
//  2. Orchestration: [pipeline], [report]
//  3. Infrastructure: [cache], [store], [config], [io], [render], [observability]
//
// # Architecture
//
// Data flows strictly forward:
//
//	Snapshot (lines or JSON)
//	         ↓
//	    [io] package (parse into bricks, ids by position)
//	         ↓
//	    [settle] package (lower each brick, fill the occupancy index)
//	         ↓
//	    [support] package (rests-on graph from the frozen occupancy)
//	         ↓
//	    [cascade] package (falling set per brick, sharded summary)
//	         ↓
//	    [report] package (JSON/YAML document, cached and stored)
//
// # Quick Start
//
//	bricks, _ := io.ReadBricks(os.Stdin)
//	runner := pipeline.NewRunner(nil, nil, logger)
//	result, _ := runner.Execute(ctx, pipeline.Options{Bricks: bricks})
//	fmt.Println(result.Report.SafeCount, result.Report.CascadeTotal)
//
// The stages can also be driven by hand:
//
//	res, _ := settle.Settle(bricks)
//	g, _ := support.Build(res.Bricks, res.Occupancy)
//	sum, _ := cascade.New(g).Summarize(ctx, 0)
//
// # Testing
//
//	go test ./pkg/...          # All tests
//	go test -run Example ./... # Examples only
//
// [brick]: https://pkg.go.dev/github.com/matzehuels/brickfall/pkg/brick
// [settle]: https://pkg.go.dev/github.com/matzehuels/brickfall/pkg/settle
// [support]: https://pkg.go.dev/github.com/matzehuels/brickfall/pkg/support
// [cascade]: https://pkg.go.dev/github.com/matzehuels/brickfall/pkg/cascade
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/brickfall/pkg/pipeline
// [report]: https://pkg.go.dev/github.com/matzehuels/brickfall/pkg/report
// [cache]: https://pkg.go.dev/github.com/matzehuels/brickfall/pkg/cache
// [store]: https://pkg.go.dev/github.com/matzehuels/brickfall/pkg/store
// [config]: https://pkg.go.dev/github.com/matzehuels/brickfall/pkg/config
// [io]: https://pkg.go.dev/github.com/matzehuels/brickfall/pkg/io
// [render]: https://pkg.go.dev/github.com/matzehuels/brickfall/pkg/render
// [observability]: https://pkg.go.dev/github.com/matzehuels/brickfall/pkg/observability
package pkg
