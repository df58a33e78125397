package dto

import (
	"image"

	"maskify/internal/model"
)

// RegionResult describes one detected region of a processed frame.
type RegionResult struct {
	Index          int             // 1-based display index, in detector order
	Detected       image.Rectangle // as returned by the detector
	Box            image.Rectangle // clamped to the frame
	Skipped        bool            // degenerate after clamping; not classified or drawn
	Classification model.Classification
}

// FrameResult is the outcome of processing a single frame.
type FrameResult struct {
	RegionCount     int
	ClassifiedCount int
	Regions         []RegionResult
}

// Labels returns the labels of all rendered regions, in order.
func (r FrameResult) Labels() []model.Label {
	labels := make([]model.Label, 0, len(r.Regions))
	for _, region := range r.Regions {
		if region.Skipped {
			continue
		}
		labels = append(labels, region.Classification.Label)
	}
	return labels
}
