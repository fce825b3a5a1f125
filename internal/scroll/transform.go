// Package scroll translates drawn content horizontally, either looping it
// across a logical content width or sliding it off the edge of the panel.
package scroll

// Remap maps a source x coordinate into destination space.
//
// With wrap set the result is (x+offset) modulo width and always lies in
// [0, width). Without wrap the result is x+offset, unclamped; pixels that land
// outside the panel are dropped later by the frame. A non-positive width has
// no modulus and behaves as if wrap were off.
func Remap(x, offset, width int, wrap bool) int {
	if !wrap || width <= 0 {
		return x + offset
	}
	return mod(x+offset, width)
}

// mod returns the non-negative remainder of a divided by m
func mod(a, m int) int {
	return (a%m + m) % m
}
