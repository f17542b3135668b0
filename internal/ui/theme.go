package ui

import "image/color"

var (
	colBar          = color.RGBA{15, 15, 15, 255}
	colButtonBorder = color.RGBA{240, 240, 240, 255}
	colPlayButton   = color.RGBA{40, 200, 40, 255}
	colStopButton   = color.RGBA{200, 40, 40, 255}
	colStepButton   = color.RGBA{40, 40, 40, 255}
	colPattern      = color.RGBA{40, 40, 40, 255}
	colPatternOn    = color.RGBA{0, 200, 255, 255}
	colSliderTrack  = color.RGBA{80, 80, 80, 255}
	colSliderKnob   = color.RGBA{200, 200, 200, 255}
	colSliderZero   = color.RGBA{40, 220, 90, 255}
)
