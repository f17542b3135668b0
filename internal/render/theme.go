package render

import "image/color"

var (
	colBackground = color.RGBA{12, 12, 16, 255}
	colTrack      = color.RGBA{70, 70, 80, 255}
	colTick       = color.RGBA{130, 130, 140, 255}
	colReference  = color.RGBA{40, 220, 90, 255}
	colMarker     = color.RGBA{0, 200, 255, 255}
	colHand       = color.RGBA{255, 210, 0, 255}
	colFlash      = color.RGBA{255, 255, 255, 255}
	colCountdown  = color.RGBA{220, 220, 220, 255}

	colHUDText     = color.RGBA{200, 200, 200, 255}
	colOffsetZero  = color.RGBA{160, 160, 160, 255}
	colOffsetLate  = color.RGBA{255, 140, 40, 255}
	colOffsetEarly = color.RGBA{60, 180, 255, 255}
	colWarning     = color.RGBA{230, 60, 60, 255}
)

// OffsetColor is neutral for 0, warm when audio is delayed and cool when it is advanced.
func OffsetColor(ms int) color.RGBA {
	switch {
	case ms > 0:
		return colOffsetLate
	case ms < 0:
		return colOffsetEarly
	default:
		return colOffsetZero
	}
}
