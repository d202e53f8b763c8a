package preview

import (
	"bytes"
	"embed"
	"fmt"
	"image"
	"image/png"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
)

//go:embed assets
var assetsFS embed.FS

const (
	nameFontSize     = 40
	categoryFontSize = 28
	fontDPI          = 72
)

// Assets bundles every static resource a render needs, decoded exactly
// once. A malformed asset is a packaging defect, so LoadAssets failing
// must abort startup instead of surfacing per request.
type Assets struct {
	Pin  image.Image
	Logo image.Image

	// DefaultCard is the pre-encoded PNG served whenever map rendering
	// fails.
	DefaultCard []byte

	Bold    font.Face
	Regular font.Face
}

// LoadAssets decodes the embedded pin, logo, default card and fonts.
func LoadAssets() (*Assets, error) {
	pin, err := loadPNG("assets/pin.png")
	if err != nil {
		return nil, err
	}
	logo, err := loadPNG("assets/logo.png")
	if err != nil {
		return nil, err
	}

	card, err := loadPNG("assets/logo-card.png")
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, card); err != nil {
		return nil, fmt.Errorf("encode default card: %w", err)
	}

	bold, err := loadFace("assets/fonts/DejaVuSans-Bold.ttf", nameFontSize)
	if err != nil {
		return nil, err
	}
	regular, err := loadFace("assets/fonts/DejaVuSans.ttf", categoryFontSize)
	if err != nil {
		return nil, err
	}

	return &Assets{
		Pin:         pin,
		Logo:        logo,
		DefaultCard: buf.Bytes(),
		Bold:        bold,
		Regular:     regular,
	}, nil
}

func loadPNG(name string) (image.Image, error) {
	raw, err := assetsFS.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("read asset %s: %w", name, err)
	}
	img, err := png.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decode asset %s: %w", name, err)
	}
	return img, nil
}

func loadFace(name string, size float64) (font.Face, error) {
	raw, err := assetsFS.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("read font %s: %w", name, err)
	}
	parsed, err := opentype.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse font %s: %w", name, err)
	}
	face, err := opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    size,
		DPI:     fontDPI,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("create face for %s: %w", name, err)
	}
	return face, nil
}
