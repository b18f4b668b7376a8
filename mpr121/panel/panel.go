// Package panel draws MPR121 electrode state on a small pixel display, such as the
// SSD1306 or a HUB75 matrix.
//
// Each electrode gets a column holding its number, a cell that is filled while it is
// touched, and a bar showing how far the filtered data has dropped below the baseline.
package panel // import "github.com/ajanata/touch/mpr121/panel"

import (
	"errors"
	"image/color"
	"strconv"

	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"

	"github.com/ajanata/touch/mpr121"
)

// ErrTooSmall is returned when the display cannot fit a column per electrode.
var ErrTooSmall = errors.New("panel: display too small")

const (
	labelBaseline = 6
	cellTop       = 8
	cellHeight    = 6
	barTop        = cellTop + cellHeight + 2
	minColumn     = 5
	minHeight     = barTop + 4
)

// Panel renders to a display. Fg and Bg may be changed between draws.
type Panel struct {
	display drivers.Displayer
	Fg, Bg  color.RGBA
	// MaxDelta is the baseline minus filtered difference drawn as a full bar.
	MaxDelta uint16
}

func New(display drivers.Displayer) *Panel {
	return &Panel{
		display:  display,
		Fg:       color.RGBA{R: 255, G: 255, B: 255, A: 255},
		Bg:       color.RGBA{A: 255},
		MaxDelta: 64,
	}
}

// Draw renders the touch status and data last read by dev and shows it.
func (p *Panel) Draw(dev *mpr121.Device) error {
	w, h := p.display.Size()
	col := w / mpr121.ElectrodeCount
	if col < minColumn || h < minHeight {
		return ErrTooSmall
	}
	p.fill(0, 0, w, h, p.Bg)

	status := dev.Status()
	for e := uint8(0); e < mpr121.ElectrodeCount; e++ {
		x := int16(e) * col
		tinyfont.WriteLine(p.display, &tinyfont.TomThumb, x+1, labelBaseline, strconv.Itoa(int(e)), p.Fg)

		if status.Touched(e) {
			p.fill(x+1, cellTop, col-2, cellHeight, p.Fg)
		} else {
			p.outline(x+1, cellTop, col-2, cellHeight)
		}

		if bar := p.barHeight(dev, e, h-barTop); bar > 0 {
			p.fill(x+1, h-bar, col-2, bar, p.Fg)
		}
	}
	return p.display.Display()
}

func (p *Panel) barHeight(dev *mpr121.Device, e uint8, full int16) int16 {
	baseline, err := dev.Baseline(e)
	if err != nil {
		return 0
	}
	filtered, _ := dev.Filtered(e)
	if filtered >= baseline || p.MaxDelta == 0 {
		return 0
	}
	delta := baseline - filtered
	if delta >= p.MaxDelta {
		return full
	}
	return int16(int32(delta) * int32(full) / int32(p.MaxDelta))
}

func (p *Panel) fill(x, y, w, h int16, c color.RGBA) {
	for i := x; i < x+w; i++ {
		for j := y; j < y+h; j++ {
			p.display.SetPixel(i, j, c)
		}
	}
}

func (p *Panel) outline(x, y, w, h int16) {
	for i := x; i < x+w; i++ {
		p.display.SetPixel(i, y, p.Fg)
		p.display.SetPixel(i, y+h-1, p.Fg)
	}
	for j := y; j < y+h; j++ {
		p.display.SetPixel(x, j, p.Fg)
		p.display.SetPixel(x+w-1, j, p.Fg)
	}
}
