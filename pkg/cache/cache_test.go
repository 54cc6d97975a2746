package cache

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	errs "github.com/matzehuels/brickfall/pkg/errors"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	// Get always returns miss
	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("NullCache.Get should always return miss")
	}
	if data != nil {
		t.Error("NullCache.Get should return nil data")
	}

	// Set does nothing (no error)
	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}

	// Still a miss after Set
	_, hit, _ = c.Get(ctx, "key")
	if hit {
		t.Error("NullCache should not store data")
	}

	// Delete does nothing (no error)
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestHash(t *testing.T) {
	// Test determinism
	h1 := Hash([]byte("hello"))
	h2 := Hash([]byte("hello"))
	if h1 != h2 {
		t.Error("Hash should be deterministic")
	}

	// Test different inputs produce different hashes
	h3 := Hash([]byte("world"))
	if h1 == h3 {
		t.Error("Different inputs should produce different hashes")
	}

	// Test hash length (SHA-256 produces 64 hex chars)
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	rk1 := k.ReportKey("abc", ReportKeyOpts{Version: 1})
	rk2 := k.ReportKey("abc", ReportKeyOpts{Version: 2})
	if rk1 == rk2 {
		t.Error("Different ReportKeyOpts should produce different keys")
	}
	if rk1 != k.ReportKey("abc", ReportKeyOpts{Version: 1}) {
		t.Error("ReportKey should be deterministic")
	}
	if !strings.HasPrefix(rk1, "report:") {
		t.Errorf("ReportKey unexpected: %s", rk1)
	}

	if sk := k.SnapshotKey("abc"); sk != "snapshot:abc" {
		t.Errorf("SnapshotKey unexpected: %s", sk)
	}
}

func TestScopedKeyer(t *testing.T) {
	inner := NewDefaultKeyer()
	scoped := NewScopedKeyer(inner, "tenant:7:")

	if key := scoped.SnapshotKey("abc"); key != "tenant:7:snapshot:abc" {
		t.Errorf("ScopedKeyer SnapshotKey unexpected: %s", key)
	}

	reportKey := scoped.ReportKey("abc", ReportKeyOpts{})
	if reportKey != "tenant:7:"+inner.ReportKey("abc", ReportKeyOpts{}) {
		t.Errorf("ScopedKeyer ReportKey should be prefixed: %s", reportKey)
	}
}

func TestScopedKeyerNilInner(t *testing.T) {
	scoped := NewScopedKeyer(nil, "prefix:")
	key := scoped.SnapshotKey("h")
	if key != "prefix:snapshot:h" {
		t.Errorf("Unexpected key with nil inner: %s", key)
	}
}

func TestFileCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	defer c.Close()

	payload := []byte(strings.Repeat(`{"id":1,"below":[0],"above":[2]}`, 50))
	if err := c.Set(ctx, "report:x", payload, time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}

	got, hit, err := c.Get(ctx, "report:x")
	if err != nil || !hit {
		t.Fatalf("Get = hit %v, err %v; want hit", hit, err)
	}
	if !bytes.Equal(got, payload) {
		t.Error("Get returned different bytes than Set stored")
	}

	if err := c.Delete(ctx, "report:x"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "report:x"); hit {
		t.Error("Get after Delete should miss")
	}
	if err := c.Delete(ctx, "report:x"); err != nil {
		t.Errorf("Delete of missing key: %v", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}

	if err := c.Set(ctx, "k", []byte("v"), time.Nanosecond); err != nil {
		t.Fatalf("Set: %v", err)
	}
	time.Sleep(5 * time.Millisecond)
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("expired entry should miss")
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	c, err := NewFileCache(dir)
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}

	path := c.path("k")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("\x00\x00\x00\x00\x00\x00\x00\x00not zstd"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, hit, err := c.Get(ctx, "k"); hit || err != nil {
		t.Errorf("corrupt entry: hit %v, err %v; want clean miss", hit, err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("corrupt entry should be removed")
	}
}

func TestCompressRoundTrip(t *testing.T) {
	in := []byte(strings.Repeat("1,0,1~1,2,1\n", 100))
	packed := compress(in)
	if len(packed) >= len(in) {
		t.Errorf("compress did not shrink repetitive input: %d >= %d", len(packed), len(in))
	}
	out, err := decompress(packed)
	if err != nil {
		t.Fatalf("decompress: %v", err)
	}
	if !bytes.Equal(in, out) {
		t.Error("round trip changed data")
	}
	if _, err := decompress([]byte("garbage")); err == nil {
		t.Error("decompress should reject garbage")
	}
}

func TestFileCacheShortEntry(t *testing.T) {
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	path := c.path("k")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte{1, 2}, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, hit, err := c.Get(context.Background(), "k"); hit || err != nil {
		t.Errorf("short entry: hit %v, err %v; want clean miss", hit, err)
	}
}

func TestFileCacheNoTTL(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	if err := c.Set(ctx, "k", []byte("forever"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, hit, err := c.Get(ctx, "k")
	if err != nil || !hit || string(got) != "forever" {
		t.Errorf("Get = %q, %v, %v; want forever, true, nil", got, hit, err)
	}
}

func TestNewRedisCacheRequiresAddr(t *testing.T) {
	_, err := NewRedisCache(context.Background(), RedisConfig{})
	if !errs.Is(err, errs.ErrCodeInvalidConfig) {
		t.Errorf("NewRedisCache with empty address error = %v, want INVALID_CONFIG", err)
	}
}

var (
	errTransient = errors.New("connection reset")
	errPermanent = errors.New("wrong type")
)

func TestRetryableError(t *testing.T) {
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should return nil")
	}

	err := Retryable(errTransient)
	if !IsRetryable(err) {
		t.Error("IsRetryable should return true for wrapped error")
	}
	if err.Error() != errTransient.Error() {
		t.Errorf("Error() = %q, want %q", err.Error(), errTransient.Error())
	}
	if !errors.Is(err, errTransient) {
		t.Error("wrapped error should unwrap to the cause")
	}
	if IsRetryable(errPermanent) {
		t.Error("IsRetryable should return false for unwrapped error")
	}
}

func TestRetryWithBackoff(t *testing.T) {
	ctx := context.Background()
	defer func(d time.Duration) { retryDelay = d }(retryDelay)
	retryDelay = time.Millisecond

	tests := []struct {
		name      string
		fail      int   // calls that fail before success
		err       error // error returned by failing calls
		wantCalls int
		wantErr   error
	}{
		{"first try", 0, nil, 1, nil},
		{"permanent", 5, errPermanent, 1, errPermanent},
		{"one retry", 1, Retryable(errTransient), 2, nil},
		{"exhausted", 5, Retryable(errTransient), retryAttempts, errTransient},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := RetryWithBackoff(ctx, func() error {
				calls++
				if calls <= tt.fail {
					return tt.err
				}
				return nil
			})
			if err != tt.wantErr {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
			if calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", calls, tt.wantCalls)
			}
		})
	}
}

func TestNetworkError(t *testing.T) {
	err := networkError(errTransient, "get")
	if !IsRetryable(err) {
		t.Error("network errors should be retryable")
	}
	if !errs.Is(err, errs.ErrCodeNetwork) {
		t.Errorf("networkError code = %s, want NETWORK_ERROR", errs.GetCode(err))
	}
}

func TestRetryWithBackoffContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := RetryWithBackoff(ctx, func() error {
		return Retryable(errTransient)
	})
	if err != context.Canceled {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}
