package model

import "image"

// ClampRegion normalises r and clips it to a width x height frame, so that
// 0 <= Min.X <= Max.X <= width and 0 <= Min.Y <= Max.Y <= height.
// A region entirely outside the frame clamps to the zero rectangle.
func ClampRegion(r image.Rectangle, width, height int) image.Rectangle {
	return r.Canon().Intersect(image.Rect(0, 0, width, height))
}

// IsDegenerate reports whether r has zero width or height.
func IsDegenerate(r image.Rectangle) bool {
	return r.Dx() <= 0 || r.Dy() <= 0
}
