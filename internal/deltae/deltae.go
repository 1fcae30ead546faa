// Package deltae computes perceptual color differences between CIELAB colors.
package deltae

import (
	"math"

	"github.com/maax3v3/swatchmatch/internal/color"
)

// pow25To7 is 25^7, the chroma normalisation constant of CIEDE2000.
const pow25To7 = 6103515625.0

// hueTolerance absorbs atan2 rounding so that exactly opposite hues are not
// treated as more than π apart.
const hueTolerance = 1e-12

// DeltaE76 is the CIE76 difference: the Euclidean distance in CIELAB space.
func DeltaE76(x, y color.LAB) float64 {
	dl := x.L - y.L
	da := x.A - y.A
	db := x.B - y.B
	return math.Sqrt(dl*dl + da*da + db*db)
}

// DeltaE00 is the CIEDE2000 difference (Sharma, Wu and Dalal formulation)
// with unit parametric factors kL = kC = kH = 1.
func DeltaE00(x, y color.LAB) float64 {
	avgL := (x.L + y.L) / 2

	c1 := math.Hypot(x.A, x.B)
	c2 := math.Hypot(y.A, y.B)
	avgC7 := math.Pow((c1+c2)/2, 7)
	g := 0.5 * (1 - math.Sqrt(avgC7/(avgC7+pow25To7)))

	a1p := (1 + g) * x.A
	a2p := (1 + g) * y.A
	c1p := math.Hypot(a1p, x.B)
	c2p := math.Hypot(a2p, y.B)
	avgCp := (c1p + c2p) / 2

	h1p := hueAngle(a1p, x.B)
	h2p := hueAngle(a2p, y.B)

	dLp := y.L - x.L
	dCp := c2p - c1p

	achromatic := c1p*c2p == 0

	var dhp float64
	if !achromatic {
		dhp = h2p - h1p
		switch {
		case dhp > math.Pi+hueTolerance:
			dhp -= 2 * math.Pi
		case dhp < -math.Pi-hueTolerance:
			dhp += 2 * math.Pi
		}
	}
	dHp := 2 * math.Sqrt(c1p*c2p) * math.Sin(dhp/2)

	var avgHp float64
	switch {
	case achromatic:
		avgHp = h1p + h2p
	case math.Abs(h1p-h2p) > math.Pi+hueTolerance:
		avgHp = (h1p + h2p + 2*math.Pi) / 2
	default:
		avgHp = (h1p + h2p) / 2
	}

	t := 1 -
		0.17*math.Cos(avgHp-math.Pi/6) +
		0.24*math.Cos(2*avgHp) +
		0.32*math.Cos(3*avgHp+math.Pi/30) -
		0.20*math.Cos(4*avgHp-63*math.Pi/180)

	// Rotation of the blue region, in degrees.
	dTheta := 30 * math.Exp(-math.Pow((radToDeg(avgHp)-275)/25, 2))

	avgCp7 := math.Pow(avgCp, 7)
	rc := 2 * math.Sqrt(avgCp7/(avgCp7+pow25To7))
	rt := -math.Sin(2*degToRad(dTheta)) * rc

	lm50 := (avgL - 50) * (avgL - 50)
	sl := 1 + 0.015*lm50/math.Sqrt(20+lm50)
	sc := 1 + 0.045*avgCp
	sh := 1 + 0.015*avgCp*t

	lTerm := dLp / sl
	cTerm := dCp / sc
	hTerm := dHp / sh

	return math.Sqrt(lTerm*lTerm + cTerm*cTerm + hTerm*hTerm + rt*cTerm*hTerm)
}

// hueAngle returns atan2(b, a) normalised to [0, 2π), with zero for a
// zero-chroma vector.
func hueAngle(a, b float64) float64 {
	if a == 0 && b == 0 {
		return 0
	}
	h := math.Atan2(b, a)
	if h < 0 {
		h += 2 * math.Pi
	}
	return h
}

func degToRad(deg float64) float64 {
	return deg * math.Pi / 180
}

func radToDeg(rad float64) float64 {
	return rad * 180 / math.Pi
}
