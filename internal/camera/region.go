package camera

import (
	"image"
	"image/draw"
)

// Viewport crops b to the centered rectangle with the given aspect ratio
// (width / height).
func Viewport(b image.Rectangle, aspect float64) image.Rectangle {
	if aspect <= 0 || b.Empty() {
		return b
	}

	w, h := b.Dx(), b.Dy()

	if float64(w)/float64(h) > aspect {
		w = int(float64(h) * aspect)
	} else {
		h = int(float64(w) / aspect)
	}

	return centered(b, w, h)
}

// Zoom crops b to its central 1/zoom part. Zoom levels below 1 are ignored.
func Zoom(b image.Rectangle, zoom float64) image.Rectangle {
	if zoom <= 1 || b.Empty() {
		return b
	}

	return centered(b, int(float64(b.Dx())/zoom), int(float64(b.Dy())/zoom))
}

// Box returns the centered detection box, clamped to b. width and height
// are in viewfinder units and scale by b.Dx() / viewfinder; a viewfinder of
// zero takes them as pixels.
func Box(b image.Rectangle, width, height, viewfinder int) image.Rectangle {
	if viewfinder > 0 {
		width = width * b.Dx() / viewfinder
		height = height * b.Dx() / viewfinder
	}

	if width <= 0 || height <= 0 {
		return b
	}

	if width > b.Dx() {
		width = b.Dx()
	}

	if height > b.Dy() {
		height = b.Dy()
	}

	return centered(b, width, height)
}

func centered(b image.Rectangle, w, h int) image.Rectangle {
	x := b.Min.X + (b.Dx()-w)/2
	y := b.Min.Y + (b.Dy()-h)/2

	return image.Rect(x, y, x+w, y+h)
}

type subImager interface {
	SubImage(r image.Rectangle) image.Image
}

// Crop returns the part of img inside r, sharing pixels when possible.
func Crop(img image.Image, r image.Rectangle) image.Image {
	r = r.Intersect(img.Bounds())
	if r == img.Bounds() {
		return img
	}

	if si, ok := img.(subImager); ok {
		return si.SubImage(r)
	}

	dst := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	draw.Draw(dst, dst.Bounds(), img, r.Min, draw.Src)

	return dst
}
