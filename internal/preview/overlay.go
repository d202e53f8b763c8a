package preview

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// FooterHeight is the labeled band at the bottom of every preview.
const FooterHeight = 125

const (
	logoMarginX  = 15
	textGap      = 25
	nameBaseline = 55 // from the top of the footer band
	categoryGap  = 45 // baseline distance between name and category
)

var (
	footerFill = image.NewUniform(color.White)
	textColor  = image.NewUniform(color.RGBA{R: 0x21, G: 0x27, B: 0x2E, A: 0xFF})
)

// DrawPin blits the pin glyph horizontally centered with its tip touching
// the midpoint of the map region (the canvas minus the footer band). The
// pin anchors at its bottom center, not its top-left corner.
func (a *Assets) DrawPin(canvas *image.RGBA) {
	cb := canvas.Bounds()
	pb := a.Pin.Bounds()

	x := cb.Dx()/2 - pb.Dx()/2
	y := (cb.Dy()-FooterHeight)/2 - pb.Dy()
	draw.Draw(canvas, image.Rect(x, y, x+pb.Dx(), y+pb.Dy()), a.Pin, pb.Min, draw.Over)
}

// DrawFooter paints the white footer band with the logo on the left and
// the location name (bold) stacked above its category label.
func (a *Assets) DrawFooter(canvas *image.RGBA, name, category string) {
	cb := canvas.Bounds()
	w, h := cb.Dx(), cb.Dy()

	draw.Draw(canvas, image.Rect(0, h-FooterHeight, w, h), footerFill, image.Point{}, draw.Src)

	lb := a.Logo.Bounds()
	ly := h - FooterHeight/2 - lb.Dy()/2
	draw.Draw(canvas, image.Rect(logoMarginX, ly, logoMarginX+lb.Dx(), ly+lb.Dy()), a.Logo, lb.Min, draw.Over)

	textX := logoMarginX + lb.Dx() + textGap
	footerTop := h - FooterHeight
	drawText(canvas, a.Bold, truncateName(name), textX, footerTop+nameBaseline)
	drawText(canvas, a.Regular, category, textX, footerTop+nameBaseline+categoryGap)
}

func drawText(dst draw.Image, face font.Face, s string, x, y int) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  textColor,
		Face: face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}
