/*
 * colors.go, part of aLENS-analysis.
 *
 * Copyright 2024 The aLENS-analysis authors
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package nemplot

import (
	"image/color"
	"math"
)

// hsv2rgb takes a hue in [0,360) and a value and saturation in [0,1].
func hsv2rgb(h, v, s float64) color.RGBA {
	if s == 0 {
		g := uint8(255 * v)
		return color.RGBA{R: g, G: g, B: g, A: 255}
	}
	h /= 60
	i := math.Floor(h)
	f := h - i
	p := v * (1 - s)
	q := v * (1 - s*f)
	t := v * (1 - s*(1-f))
	var r, g, b float64
	switch int(i) {
	case 0:
		r, g, b = v, t, p
	case 1:
		r, g, b = q, v, p
	case 2:
		r, g, b = p, v, t
	case 3:
		r, g, b = p, q, v
	case 4:
		r, g, b = t, p, v
	default:
		r, g, b = v, p, q
	}
	return color.RGBA{R: uint8(255 * r), G: uint8(255 * g), B: uint8(255 * b), A: 255}
}

// hue returns the color for the key-th of steps curves. The hues go from
// red to violet, skipping the yellows, which are hard to see on white.
func hue(key, steps int) color.RGBA {
	hp := float64(key)*260/float64(max(steps, 1)) + 20
	h := hp + 20
	if hp < 55 {
		h = hp - 20
	}
	return hsv2rgb(h, 0.9, 1)
}
