// Public domain.

package propbin

import "math"

// DefaultBins is the number of bins used for a listed property when no
// other binning is configured.
const DefaultBins = 10

// Mag converts a flux in nanomaggies to an AB magnitude.
func Mag(f float64) float64 {
	return 22.5 - 2.5*math.Log10(f)
}

// Photo holds the true g, r, z fluxes of one galaxy, in nanomaggies.
type Photo struct {
	G, R, Z float64
}

// PList represents the galaxy observables that population fits can be
// binned by.  Lo and Hi give the default binning range.
var PList = []struct {
	Abbr, Heading string
	Lo, Hi        float64
	Value         func(p Photo) float64
}{
	{"rmag", "r magnitude", 19, 20, rMag},
	{"g-r", "g - r color", 0, 2, gMinusR},
	{"r-z", "r - z color", 0, 1, rMinusZ},
}

func rMag(p Photo) float64 {
	return Mag(p.R)
}

func gMinusR(p Photo) float64 {
	return Mag(p.G) - Mag(p.R)
}

func rMinusZ(p Photo) float64 {
	return Mag(p.R) - Mag(p.Z)
}

// Lookup returns the PList index of the property with the given
// abbreviation or heading.
func Lookup(name string) (px int, ok bool) {
	for px, p := range PList {
		if name == p.Abbr || name == p.Heading {
			return px, true
		}
	}
	return -1, false
}

// DefaultEdges returns the default edges for PList entry px.
func DefaultEdges(px int) Edges {
	p := PList[px]
	return Linspace(p.Lo, p.Hi, DefaultBins+1)
}

// Values evaluates PList entry px for each galaxy.
func Values(px int, photo []Photo) []float64 {
	v := make([]float64, len(photo))
	f := PList[px].Value
	for i, p := range photo {
		v[i] = f(p)
	}
	return v
}
