package image_variant

// FitWithin returns the largest dimensions that keep the aspect ratio of
// width x height and fit inside maxWidth x maxHeight. Images already inside
// the bounds are returned unchanged; nothing is ever upscaled.
func FitWithin(width, height, maxWidth, maxHeight int) (int, int) {
	if width <= 0 || height <= 0 {
		return width, height
	}
	if width <= maxWidth && height <= maxHeight {
		return width, height
	}

	var w, h int
	// Compare maxWidth/width with maxHeight/height without floating point.
	if width*maxHeight >= height*maxWidth {
		w = maxWidth
		h = (height*maxWidth + width/2) / width
	} else {
		h = maxHeight
		w = (width*maxHeight + height/2) / height
	}

	return max(w, 1), max(h, 1)
}
