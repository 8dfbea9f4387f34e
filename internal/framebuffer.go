package internal

// Framebuffer is the monochrome 64x32 display, stored row-major.
type Framebuffer [ScreenWidth * ScreenHeight]bool

// At returns whether the pixel at x, y is lit. Coordinates outside the
// screen report an unlit pixel.
func (fb *Framebuffer) At(x, y int) bool {
	if x < 0 || x >= ScreenWidth || y < 0 || y >= ScreenHeight {
		return false
	}
	return fb[x+ScreenWidth*y]
}

// flip XORs the pixel at the wrapped position and reports whether it was lit before.
func (fb *Framebuffer) flip(x, y int) bool {
	idx := x%ScreenWidth + ScreenWidth*(y%ScreenHeight)
	wasSet := fb[idx]
	fb[idx] = !wasSet
	return wasSet
}

func (fb *Framebuffer) clear() {
	*fb = Framebuffer{}
}
