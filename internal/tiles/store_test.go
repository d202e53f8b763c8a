package tiles

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// tilePNG encodes a solid-color TileSize×TileSize tile.
func tilePNG(t *testing.T, c color.Color) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, TileSize, TileSize))
	for y := 0; y < TileSize; y++ {
		for x := 0; x < TileSize; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func newTestStore(t *testing.T, handler http.Handler) (*Store, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	store, err := NewStore(t.TempDir(), srv.URL+"/{z}/{x}/{y}.png", 1000)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return store, srv
}

func TestGet_FetchesOnceThenServesFromDisk(t *testing.T) {
	var hits atomic.Int32
	body := tilePNG(t, color.RGBA{R: 10, G: 20, B: 30, A: 255})
	store, _ := newTestStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write(body)
	}))

	key := Key{Zoom: 16, X: 34895, Y: 22822}
	first, err := store.Get(context.Background(), key)
	if err != nil {
		t.Fatalf("first get: %v", err)
	}
	second, err := store.Get(context.Background(), key)
	if err != nil {
		t.Fatalf("second get: %v", err)
	}

	if got := hits.Load(); got != 1 {
		t.Errorf("expected exactly 1 upstream fetch, got %d", got)
	}
	if !bytes.Equal(first, second) {
		t.Error("cached bytes differ from fetched bytes")
	}

	// The cache file must exist under the deterministic name, fully
	// written.
	cached, err := os.ReadFile(filepath.Join(store.dir, key.filename()))
	if err != nil {
		t.Fatalf("cache file missing: %v", err)
	}
	if !bytes.Equal(cached, body) {
		t.Error("cache file content differs from upstream body")
	}
}

func TestGet_CoalescesConcurrentMisses(t *testing.T) {
	var hits atomic.Int32
	body := tilePNG(t, color.RGBA{A: 255})
	store, _ := newTestStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		time.Sleep(50 * time.Millisecond) // keep the flight open so all callers pile on
		w.Write(body)
	}))

	const n = 16
	key := Key{Zoom: 10, X: 5, Y: 7}
	results := make([][]byte, n)
	errs := make([]error, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = store.Get(context.Background(), key)
		}(i)
	}
	wg.Wait()

	for i := 0; i < n; i++ {
		if errs[i] != nil {
			t.Fatalf("caller %d: %v", i, errs[i])
		}
		if !bytes.Equal(results[i], body) {
			t.Errorf("caller %d got inconsistent bytes", i)
		}
	}
	if got := hits.Load(); got != 1 {
		t.Errorf("expected 1 coalesced upstream fetch for %d callers, got %d", n, got)
	}
}

func TestGet_DifferentKeysFetchIndependently(t *testing.T) {
	var hits atomic.Int32
	body := tilePNG(t, color.RGBA{A: 255})
	store, _ := newTestStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write(body)
	}))

	if _, err := store.Get(context.Background(), Key{Zoom: 3, X: 1, Y: 1}); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Get(context.Background(), Key{Zoom: 3, X: 2, Y: 1}); err != nil {
		t.Fatal(err)
	}
	if got := hits.Load(); got != 2 {
		t.Errorf("expected 2 fetches for 2 distinct keys, got %d", got)
	}
}

func TestGet_RefetchesWhenCacheFileVanishes(t *testing.T) {
	var hits atomic.Int32
	body := tilePNG(t, color.RGBA{A: 255})
	store, _ := newTestStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write(body)
	}))

	key := Key{Zoom: 5, X: 3, Y: 4}
	if _, err := store.Get(context.Background(), key); err != nil {
		t.Fatal(err)
	}

	// Simulate external eviction between requests.
	if err := os.Remove(filepath.Join(store.dir, key.filename())); err != nil {
		t.Fatal(err)
	}

	if _, err := store.Get(context.Background(), key); err != nil {
		t.Fatalf("get after eviction: %v", err)
	}
	if got := hits.Load(); got != 2 {
		t.Errorf("expected a re-fetch after eviction, got %d total fetches", got)
	}
}

func TestGet_UpstreamErrorStatus(t *testing.T) {
	store, _ := newTestStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))

	if _, err := store.Get(context.Background(), Key{Zoom: 1, X: 0, Y: 0}); err == nil {
		t.Fatal("expected error for upstream 500")
	}
}

func TestGet_RejectsMalformedTile(t *testing.T) {
	store, _ := newTestStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("this is not an image"))
	}))

	key := Key{Zoom: 1, X: 0, Y: 0}
	if _, err := store.Get(context.Background(), key); err == nil {
		t.Fatal("expected error for malformed tile body")
	}
	if _, err := os.Stat(filepath.Join(store.dir, key.filename())); !os.IsNotExist(err) {
		t.Error("malformed tile must not be persisted")
	}
}

func TestGet_CancelledCallerDoesNotKillSharedFetch(t *testing.T) {
	var hits atomic.Int32
	body := tilePNG(t, color.RGBA{A: 255})
	release := make(chan struct{})
	store, _ := newTestStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		<-release
		w.Write(body)
	}))

	key := Key{Zoom: 2, X: 1, Y: 1}

	cancelCtx, cancel := context.WithCancel(context.Background())
	cancelled := make(chan error, 1)
	go func() {
		_, err := store.Get(cancelCtx, key)
		cancelled <- err
	}()

	survivor := make(chan error, 1)
	go func() {
		_, err := store.Get(context.Background(), key)
		survivor <- err
	}()

	// Let both callers join the flight, cancel one, then let the fetch
	// finish.
	time.Sleep(50 * time.Millisecond)
	cancel()
	if err := <-cancelled; err == nil {
		t.Error("cancelled caller should get its context error")
	}
	close(release)

	if err := <-survivor; err != nil {
		t.Errorf("surviving caller should still get the tile: %v", err)
	}
	if got := hits.Load(); got != 1 {
		t.Errorf("expected the shared fetch to run once, got %d", got)
	}
}
