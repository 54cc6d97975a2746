package pipeline

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/brickfall/pkg/brick"
	"github.com/matzehuels/brickfall/pkg/cache"
	errs "github.com/matzehuels/brickfall/pkg/errors"
	bio "github.com/matzehuels/brickfall/pkg/io"
	"github.com/matzehuels/brickfall/pkg/observability"
)

const sample = `1,0,1~1,2,1
0,0,2~2,0,2
0,2,3~2,2,3
0,0,4~0,2,4
2,0,5~2,2,5
0,1,6~2,1,6
1,1,8~1,1,9
`

func sampleBricks(t *testing.T) []brick.Brick {
	t.Helper()
	bricks, err := bio.ReadBricks(strings.NewReader(sample))
	if err != nil {
		t.Fatal(err)
	}
	return bricks
}

// memCache is an in-memory cache.Cache for tests.
type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
	sets int
}

func newMemCache() *memCache { return &memCache{data: make(map[string][]byte)} }

func (c *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	d, ok := c.data[key]
	return d, ok, nil
}

func (c *memCache) Set(_ context.Context, key string, data []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
	c.sets++
	return nil
}

func (c *memCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *memCache) Close() error { return nil }

func quietRunner(c cache.Cache) *Runner {
	return NewRunner(c, nil, log.NewWithOptions(io.Discard, log.Options{}))
}

func TestExecute(t *testing.T) {
	ctx := context.Background()
	r := quietRunner(newMemCache())

	for _, workers := range []int{1, 4} {
		res, err := r.Execute(ctx, Options{Bricks: sampleBricks(t), Workers: workers, Refresh: true})
		if err != nil {
			t.Fatalf("Execute(workers=%d): %v", workers, err)
		}
		if res.Report.SafeCount != 5 || res.Report.CascadeTotal != 7 {
			t.Errorf("workers=%d: safe/total = %d/%d, want 5/7",
				workers, res.Report.SafeCount, res.Report.CascadeTotal)
		}
		want := Stats{BrickCount: 7, EdgeCount: 9, Moved: 5}
		got := res.Stats
		got.SettleTime, got.BuildTime, got.AnalyzeTime = 0, 0, 0
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("stats mismatch (-want +got):\n%s", diff)
		}
		if res.CacheInfo.ReportHit {
			t.Error("Refresh run reported a cache hit")
		}
	}
}

func TestExecuteCaches(t *testing.T) {
	ctx := context.Background()
	c := newMemCache()
	r := quietRunner(c)

	first, err := r.Execute(ctx, Options{Bricks: sampleBricks(t)})
	if err != nil {
		t.Fatal(err)
	}
	if first.CacheInfo.ReportHit {
		t.Error("first run should miss")
	}
	if c.sets != 1 {
		t.Errorf("cache sets = %d, want 1", c.sets)
	}

	second, err := r.Execute(ctx, Options{Bricks: sampleBricks(t)})
	if err != nil {
		t.Fatal(err)
	}
	if !second.CacheInfo.ReportHit {
		t.Error("second run should hit")
	}
	if second.Report.ID == first.Report.ID {
		t.Error("cached report should get a fresh ID")
	}
	if second.Report.SafeCount != 5 || second.Report.CascadeTotal != 7 {
		t.Errorf("cached safe/total = %d/%d", second.Report.SafeCount, second.Report.CascadeTotal)
	}
	if diff := cmp.Diff(first.Settled, second.Settled); diff != "" {
		t.Errorf("settled mismatch (-first +second):\n%s", diff)
	}
	if second.Graph.EdgeCount() != 9 {
		t.Errorf("cached graph edges = %d, want 9", second.Graph.EdgeCount())
	}
}

func TestExecuteIgnoresCorruptCache(t *testing.T) {
	ctx := context.Background()
	c := newMemCache()
	r := quietRunner(c)

	bricks := sampleBricks(t)
	hash, err := InputHash(bricks)
	if err != nil {
		t.Fatal(err)
	}
	opts := Options{Bricks: bricks}
	c.data[r.Keyer.ReportKey(hash, opts.ReportKeyOpts())] = []byte("{not json")

	res, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if res.CacheInfo.ReportHit || res.Report.CascadeTotal != 7 {
		t.Errorf("corrupt entry: hit=%v total=%d", res.CacheInfo.ReportHit, res.Report.CascadeTotal)
	}
}

func TestExecuteErrors(t *testing.T) {
	ctx := context.Background()
	r := quietRunner(nil)

	overlap := []brick.Brick{
		brick.New(0, brick.Coord{X: 0, Y: 0, Z: 1}, brick.Coord{X: 2, Y: 0, Z: 1}),
		brick.New(1, brick.Coord{X: 1, Y: 0, Z: 1}, brick.Coord{X: 1, Y: 2, Z: 1}),
	}
	if _, err := r.Execute(ctx, Options{Bricks: overlap}); !errs.Is(err, errs.ErrCodeInvariant) {
		t.Errorf("overlap error = %v, want INVARIANT_VIOLATION", err)
	}

	tooMany := Options{Bricks: make([]brick.Brick, MaxBricks+1)}
	if _, err := r.Execute(ctx, tooMany); !errs.Is(err, errs.ErrCodeInvalidInput) {
		t.Errorf("oversized error = %v, want INVALID_INPUT", err)
	}
}

func TestValidateExtent(t *testing.T) {
	line := func(x2, z int) brick.Brick {
		return brick.New(0, brick.Coord{X: 0, Y: 0, Z: z}, brick.Coord{X: x2, Y: 0, Z: z})
	}
	tall := brick.New(0, brick.Coord{X: 0, Y: 0, Z: 1}, brick.Coord{X: 0, Y: 0, Z: MaxHeight + 1})

	half := MaxCells/2 - 1
	tests := []struct {
		name    string
		bricks  []brick.Brick
		wantErr bool
	}{
		{"sample sized", []brick.Brick{line(2, 1)}, false},
		{"at height limit", []brick.Brick{line(0, MaxHeight)}, false},
		{"above height limit", []brick.Brick{line(0, MaxHeight + 1)}, true},
		{"tall column", []brick.Brick{tall}, true},
		{"long brick", []brick.Brick{line(30_000_000, 1)}, true},
		{"at cell limit", []brick.Brick{line(MaxCells-1, 1)}, false},
		{"total over cell limit", []brick.Brick{line(half, 1), brick.New(1, brick.Coord{X: 0, Y: 1, Z: 1}, brick.Coord{X: half + 2, Y: 1, Z: 1})}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := Options{Bricks: tt.bricks}
			err := opts.ValidateAndSetDefaults()
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateAndSetDefaults() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !errs.Is(err, errs.ErrCodeInvalidInput) {
				t.Errorf("code = %s, want %s", errs.GetCode(err), errs.ErrCodeInvalidInput)
			}
		})
	}
}

func TestExecuteCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	bricks := []brick.Brick{brick.New(0, brick.Coord{X: 0, Y: 0, Z: 5}, brick.Coord{X: 0, Y: 0, Z: 5})}
	if _, err := quietRunner(nil).Execute(ctx, Options{Bricks: bricks, Refresh: true}); !errors.Is(err, context.Canceled) {
		t.Errorf("Execute(cancelled) error = %v, want context.Canceled", err)
	}
}

func TestExecuteEmpty(t *testing.T) {
	res, err := quietRunner(nil).Execute(context.Background(), Options{})
	if err != nil {
		t.Fatal(err)
	}
	if res.Report.SafeCount != 0 || res.Report.CascadeTotal != 0 {
		t.Errorf("empty input: %d/%d, want 0/0", res.Report.SafeCount, res.Report.CascadeTotal)
	}
}

type recordingHooks struct {
	observability.NoopPipelineHooks
	mu     sync.Mutex
	events []string
}

func (h *recordingHooks) record(e string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, e)
}

func (h *recordingHooks) OnSettleStart(context.Context, int) { h.record("settle") }
func (h *recordingHooks) OnBuildStart(context.Context, int)  { h.record("build") }
func (h *recordingHooks) OnAnalyzeComplete(_ context.Context, safe, total int, _ time.Duration, _ error) {
	h.record("analyzed")
}

func TestExecuteCallsHooks(t *testing.T) {
	observability.Reset()
	defer observability.Reset()

	h := &recordingHooks{}
	observability.SetPipelineHooks(h)

	if _, err := quietRunner(nil).Execute(context.Background(), Options{Bricks: sampleBricks(t)}); err != nil {
		t.Fatal(err)
	}
	want := []string{"settle", "build", "analyzed"}
	if diff := cmp.Diff(want, h.events); diff != "" {
		t.Errorf("hook events mismatch (-want +got):\n%s", diff)
	}
}

func TestSettleSnapshot(t *testing.T) {
	ctx := context.Background()
	r := quietRunner(newMemCache())

	first, hit, err := r.SettleSnapshot(ctx, Options{Bricks: sampleBricks(t)})
	if err != nil {
		t.Fatal(err)
	}
	if hit {
		t.Error("first settle should miss")
	}
	second, hit, err := r.SettleSnapshot(ctx, Options{Bricks: sampleBricks(t)})
	if err != nil {
		t.Fatal(err)
	}
	if !hit {
		t.Error("second settle should hit")
	}
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("snapshot mismatch (-first +second):\n%s", diff)
	}
	if first[6].MinZ() != 5 {
		t.Errorf("brick 6 settled at z=%d, want 5", first[6].MinZ())
	}
}

func TestOptionsDefaults(t *testing.T) {
	opts := Options{}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if opts.TTL != cache.TTLReport {
		t.Errorf("TTL = %v, want %v", opts.TTL, cache.TTLReport)
	}
	if opts.Logger == nil {
		t.Error("Logger default not set")
	}
}
