package kiosk

import (
	"bytes"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/goregular"
)

// whitePixel is a 1x1 white image scaled and tinted to draw solid rects.
var whitePixel *ebiten.Image

func solidPixel() *ebiten.Image {
	if whitePixel == nil {
		whitePixel = ebiten.NewImage(1, 1)
		whitePixel.Fill(ColorWhite.RGBA())
	}
	return whitePixel
}

// labelFace is the shared source for text nodes, parsed on first use.
var labelFace *text.GoTextFaceSource

func labelSource() (*text.GoTextFaceSource, error) {
	if labelFace != nil {
		return labelFace, nil
	}
	src, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		return nil, err
	}
	labelFace = src
	return src, nil
}

// drawTree walks the node tree depth-first in painter order and draws every
// visible node onto dst.
func drawTree(dst *ebiten.Image, n *Node, parentX, parentY, parentAlpha float64) {
	if !n.Visible || n.disposed {
		return
	}
	x, y := parentX+n.X, parentY+n.Y
	alpha := parentAlpha * n.Alpha
	if alpha <= 0 {
		return
	}

	switch n.Type {
	case NodeTypeSprite:
		drawSprite(dst, n, x, y, alpha)
	case NodeTypeRect:
		drawRect(dst, n, x, y, alpha)
	case NodeTypeText:
		drawText(dst, n, x, y, alpha)
	}

	for _, child := range n.sorted() {
		drawTree(dst, child, x, y, alpha)
	}
}

func drawSprite(dst *ebiten.Image, n *Node, x, y, alpha float64) {
	if n.Image == nil {
		return
	}
	b := n.Image.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return
	}
	op := &ebiten.DrawImageOptions{}
	w, h := n.Width, n.Height
	if w == 0 && h == 0 {
		w, h = float64(b.Dx()), float64(b.Dy())
	}
	op.GeoM.Scale(w/float64(b.Dx()), h/float64(b.Dy()))
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(n.Color.RGBA())
	op.ColorScale.ScaleAlpha(float32(alpha))
	op.Filter = ebiten.FilterLinear
	dst.DrawImage(n.Image, op)
}

func drawRect(dst *ebiten.Image, n *Node, x, y, alpha float64) {
	if n.Width <= 0 || n.Height <= 0 {
		return
	}
	c := n.Color
	if n.Disabled {
		c.A *= 0.4
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(n.Width, n.Height)
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(c.RGBA())
	op.ColorScale.ScaleAlpha(float32(alpha))
	dst.DrawImage(solidPixel(), op)
}

func drawText(dst *ebiten.Image, n *Node, x, y, alpha float64) {
	if n.Text == "" {
		return
	}
	src, err := labelSource()
	if err != nil {
		return
	}
	size := n.TextSize
	if size <= 0 {
		size = 24
	}
	face := &text.GoTextFace{Source: src, Size: size}
	op := &text.DrawOptions{}
	op.LineSpacing = size * 1.3
	op.SecondaryAlign = text.AlignCenter
	ty := y + n.Height/2
	switch n.TextAlign {
	case TextAlignCenter:
		op.PrimaryAlign = text.AlignCenter
		op.GeoM.Translate(x+n.Width/2, ty)
	case TextAlignRight:
		op.PrimaryAlign = text.AlignEnd
		op.GeoM.Translate(x+n.Width, ty)
	default:
		op.PrimaryAlign = text.AlignStart
		op.GeoM.Translate(x, ty)
	}
	op.ColorScale.ScaleWithColor(n.Color.RGBA())
	op.ColorScale.ScaleAlpha(float32(alpha))
	text.Draw(dst, n.Text, face, op)
}
