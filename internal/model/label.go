package model

import "image/color"

// Label is the outcome of classifying one face region.
type Label int

const (
	// Unknown is used when no classifier is configured.
	Unknown Label = iota
	Mask
	NoMask
	// Error marks a region whose classification failed.
	Error
)

var labelNames = map[Label]string{
	Unknown: "Unknown",
	Mask:    "Mask",
	NoMask:  "No Mask",
	Error:   "Error",
}

func (l Label) String() string {
	if name, ok := labelNames[l]; ok {
		return name
	}
	return "Unknown"
}

// Color returns the render colour for the label.
func (l Label) Color() color.RGBA {
	switch l {
	case Mask:
		return color.RGBA{R: 0, G: 255, B: 0, A: 0}
	case NoMask:
		return color.RGBA{R: 255, G: 0, B: 0, A: 0}
	case Error:
		return color.RGBA{R: 255, G: 165, B: 0, A: 0}
	default:
		return color.RGBA{R: 0, G: 255, B: 255, A: 0}
	}
}

// Classification is the label assigned to a region together with the
// classifier confidence for that label, when one is available.
type Classification struct {
	Label         Label
	Confidence    float64
	HasConfidence bool
}

// ClassifyScore thresholds the positive-class score of a binary classifier.
// Scores strictly above threshold are Mask, everything else NoMask.
func ClassifyScore(score, threshold float64) Classification {
	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}

	if score > threshold {
		return Classification{Label: Mask, Confidence: score, HasConfidence: true}
	}
	return Classification{Label: NoMask, Confidence: 1 - score, HasConfidence: true}
}
