package tiles

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/maptile"
	"golang.org/x/sync/errgroup"
)

// TileSize is the edge length of one provider tile in pixels.
const TileSize = 256

// Background fills canvas regions the tile grid cannot cover (clamped off
// the edge of the projection near the poles).
var background = color.RGBA{R: 0xE0, G: 0xE0, B: 0xE0, A: 0xFF}

// Compositor stitches provider tiles into a canvas centered on a
// coordinate.
type Compositor struct {
	store *Store
}

func NewCompositor(store *Store) *Compositor {
	return &Compositor{store: store}
}

// ZoomForType picks a zoom level appropriate for the footprint of a
// location type. Unknown types render at building scale.
func ZoomForType(locType string) int {
	switch locType {
	case "campus":
		return 14
	case "site", "area":
		return 15
	case "room", "virtual_room", "poi":
		return 17
	default:
		return 16
	}
}

// Compose projects (lat, lon) to the tile grid at zoom, fetches the minimal
// set of tiles covering a width×height viewport around it, and blits them
// so the coordinate lands at the canvas center. Tiles are fetched
// concurrently; any fetch failure aborts the whole composite.
//
// Grid indices are clamped to [0, 2^zoom) per axis — no wraparound across
// the antimeridian. Cells clamped away stay background-colored.
func (c *Compositor) Compose(ctx context.Context, lat, lon float64, zoom, width, height int) (*image.RGBA, error) {
	frac := maptile.Fraction(orb.Point{lon, lat}, maptile.Zoom(zoom))

	// Viewport origin in global pixel coordinates at this zoom.
	originX := int(math.Round(frac.X()*TileSize - float64(width)/2))
	originY := int(math.Round(frac.Y()*TileSize - float64(height)/2))

	minCol := floorDiv(originX, TileSize)
	maxCol := floorDiv(originX+width-1, TileSize)
	minRow := floorDiv(originY, TileSize)
	maxRow := floorDiv(originY+height-1, TileSize)

	cols := maxCol - minCol + 1
	rows := maxRow - minRow + 1
	n := 1 << zoom

	fetched := make([][]byte, cols*rows)
	g, gctx := errgroup.WithContext(ctx)
	for row := minRow; row <= maxRow; row++ {
		for col := minCol; col <= maxCol; col++ {
			if col < 0 || col >= n || row < 0 || row >= n {
				continue
			}
			idx := (row-minRow)*cols + (col - minCol)
			key := Key{Zoom: zoom, X: col, Y: row}
			g.Go(func() error {
				data, err := c.store.Get(gctx, key)
				if err != nil {
					return err
				}
				fetched[idx] = data
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	canvas := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(background), image.Point{}, draw.Src)

	for row := minRow; row <= maxRow; row++ {
		for col := minCol; col <= maxCol; col++ {
			data := fetched[(row-minRow)*cols+(col-minCol)]
			if data == nil {
				continue
			}
			tile, _, err := image.Decode(bytes.NewReader(data))
			if err != nil {
				return nil, fmt.Errorf("decode tile %d/%d/%d: %w", zoom, col, row, err)
			}
			dx := col*TileSize - originX
			dy := row*TileSize - originY
			dst := image.Rect(dx, dy, dx+TileSize, dy+TileSize)
			draw.Draw(canvas, dst, tile, tile.Bounds().Min, draw.Src)
		}
	}

	return canvas, nil
}

// floorDiv is integer division rounding toward negative infinity, so tile
// indices left of the origin come out right.
func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
