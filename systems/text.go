package systems

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text" //nolint:staticcheck // TODO: migrate to text/v2
	"golang.org/x/image/font"
)

// drawCentered draws s horizontally centred on a screen of width w with its
// baseline at y.
func drawCentered(screen *ebiten.Image, s string, face font.Face, w float64, y int, c color.Color) {
	tw := text.BoundString(face, s).Dx()
	text.Draw(screen, s, face, int(w)/2-tw/2, y, c)
}
