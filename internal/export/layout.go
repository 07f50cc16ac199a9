package export

import (
	"regexp"
	"strings"
)

// A4 portrait page size and margin, in PDF points.
const (
	PageWidthPt  = 595.28
	PageHeightPt = 841.89
	MarginPt     = 20.0
)

// Placement is the position and size of the image on the page, in points from the top-left corner.
type Placement struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// FitToPage scales an image of imgW x imgH pixels to fit inside the page margins, keeping its
// aspect ratio, and centers it. An image relatively wider than the page is fitted to the
// available width; otherwise it is fitted to the available height.
func FitToPage(imgW, imgH float64) Placement {
	availW := PageWidthPt - 2*MarginPt
	availH := PageHeightPt - 2*MarginPt
	if imgW <= 0 || imgH <= 0 {
		return Placement{X: MarginPt, Y: MarginPt}
	}

	var w, h float64
	if imgW/imgH > PageWidthPt/PageHeightPt {
		w = availW
		h = w * imgH / imgW
	} else {
		h = availH
		w = h * imgW / imgH
	}

	return Placement{
		X:      (PageWidthPt - w) / 2,
		Y:      (PageHeightPt - h) / 2,
		Width:  w,
		Height: h,
	}
}

var fileNameUnsafe = regexp.MustCompile(`[^A-Za-z0-9]`)

// SanitizeFileName builds the PDF file name for a persona: "persona_" followed by the
// lower-cased name with every character other than a-z and 0-9 replaced by "_".
func SanitizeFileName(name string) string {
	return "persona_" + strings.ToLower(fileNameUnsafe.ReplaceAllString(name, "_")) + ".pdf"
}
