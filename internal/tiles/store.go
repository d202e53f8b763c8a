package tiles

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"
)

// Key identifies one map tile. Equality is by value, so a Key doubles as
// the single-flight and cache key.
type Key struct {
	Zoom int
	X    int
	Y    int
}

func (k Key) String() string {
	return fmt.Sprintf("%d/%d/%d", k.Zoom, k.X, k.Y)
}

func (k Key) filename() string {
	return fmt.Sprintf("%d_%d_%d.png", k.Zoom, k.X, k.Y)
}

// Store is the disk-backed tile cache shared by all in-flight requests.
// Misses are fetched from the tile provider, coalesced per key so N
// concurrent requests for the same tile cost one upstream fetch, and
// persisted atomically (temp file + rename) so a concurrent reader never
// sees a partial file.
type Store struct {
	dir         string
	urlTemplate string
	client      *http.Client
	limiter     *rate.Limiter
	group       singleflight.Group
}

// NewStore creates the cache directory if absent. urlTemplate uses
// {z}/{x}/{y} placeholders; fetchesPerSecond bounds upstream load.
func NewStore(dir, urlTemplate string, fetchesPerSecond float64) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create tile cache dir %s: %w", dir, err)
	}

	burst := int(fetchesPerSecond)
	if burst < 1 {
		burst = 1
	}

	return &Store{
		dir:         dir,
		urlTemplate: urlTemplate,
		client: &http.Client{
			Timeout: 12 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 32,
				MaxConnsPerHost:     32,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		limiter: rate.NewLimiter(rate.Limit(fetchesPerSecond), burst),
	}, nil
}

// Get returns the tile bytes for key, from disk if cached, otherwise from
// the provider. A cached file that disappears between existence-check and
// read simply counts as a miss.
//
// The fetch itself runs on a context detached from the caller: other
// requests may be waiting on the same single-flight result, so one
// consumer's cancellation must not kill the shared fetch. The cancelled
// caller stops waiting; the fetch completes and lands in the cache.
func (s *Store) Get(ctx context.Context, key Key) ([]byte, error) {
	path := filepath.Join(s.dir, key.filename())
	if data, err := os.ReadFile(path); err == nil {
		return data, nil
	}

	fetchCtx := context.WithoutCancel(ctx)
	ch := s.group.DoChan(key.String(), func() (interface{}, error) {
		return s.fetch(fetchCtx, key, path)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]byte), nil
	}
}

func (s *Store) fetch(ctx context.Context, key Key, path string) ([]byte, error) {
	// A previous flight may have persisted the tile while we queued.
	if data, err := os.ReadFile(path); err == nil {
		return data, nil
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.urlFor(key), nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch tile %s: %w", key, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch tile %s: status %s", key, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read tile %s: %w", key, err)
	}

	// Caching an undecodable body would poison every later request for
	// this key, so reject it before it reaches the disk.
	if _, _, err := image.Decode(bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("tile %s is not a valid image: %w", key, err)
	}

	if err := s.persist(path, data); err != nil {
		// The response is still good; only the cache is degraded.
		log.Printf("Failed to persist tile %s: %v", key, err)
	}
	return data, nil
}

func (s *Store) persist(path string, data []byte) error {
	tmp, err := os.CreateTemp(s.dir, "tile-*.tmp")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func (s *Store) urlFor(key Key) string {
	return strings.NewReplacer(
		"{z}", strconv.Itoa(key.Zoom),
		"{x}", strconv.Itoa(key.X),
		"{y}", strconv.Itoa(key.Y),
	).Replace(s.urlTemplate)
}
