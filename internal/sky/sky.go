// Public domain.

// Package sky places survey positions on an all-sky Mollweide map.
package sky

import (
	"fmt"
	"math"

	"github.com/soniakeys/meeus/v3/coord"
	sexa "github.com/soniakeys/sexagesimal"
	"github.com/soniakeys/unit"
)

// Position is an equatorial position.
type Position struct {
	RA  unit.RA
	Dec unit.Angle
}

// FromDeg constructs a Position from right ascension and declination in
// degrees.
func FromDeg(ra, dec float64) Position {
	return Position{unit.RAFromDeg(ra), unit.AngleFromDeg(dec)}
}

func (p Position) String() string {
	return fmt.Sprintf("%.1s %.0s", sexa.FmtRA(p.RA), sexa.FmtAngle(p.Dec))
}

// Lon returns the map longitude in radians, RA - 180° in [-π, π).
func (p Position) Lon() float64 {
	ra := math.Mod(p.RA.Rad(), 2*math.Pi)
	if ra < 0 {
		ra += 2 * math.Pi
	}
	return ra - math.Pi
}

// Project returns map coordinates of p.
func (p Position) Project() (x, y float64) {
	return Mollweide(p.Lon(), p.Dec.Rad())
}

// Mollweide projects longitude and latitude, in radians, to the
// equal-area ellipse |x| ≤ 2√2, |y| ≤ √2.
func Mollweide(lon, lat float64) (x, y float64) {
	θ := auxiliary(lat)
	return 2 * math.Sqrt2 / math.Pi * lon * math.Cos(θ), math.Sqrt2 * math.Sin(θ)
}

// auxiliary solves 2θ + sin 2θ = π sin φ by Newton iteration.
func auxiliary(φ float64) float64 {
	if math.Abs(φ) >= math.Pi/2 {
		return math.Copysign(math.Pi/2, φ)
	}
	k := math.Pi * math.Sin(φ)
	θ := φ
	for i := 0; i < 50; i++ {
		d := (2*θ + math.Sin(2*θ) - k) / (2 + 2*math.Cos(2*θ))
		θ -= d
		if math.Abs(d) < 1e-12 {
			break
		}
	}
	return θ
}

// Field is a rectangular survey field in RA and Dec.
type Field struct {
	Name           string
	RAMin, RAMax   unit.RA
	DecMin, DecMax unit.Angle
}

func field(name string, raMin, raMax, decMin, decMax float64) Field {
	return Field{name,
		unit.RAFromDeg(raMin), unit.RAFromDeg(raMax),
		unit.AngleFromDeg(decMin), unit.AngleFromDeg(decMax)}
}

// GAMA fields.
var GAMA = []Field{
	field("g02", 30.2, 38.8, -10.25, -3.72),
	field("g09", 129, 141, -2, 3),
	field("g12", 174, 186, -3, 2),
	field("g15", 211.5, 223.5, -2, 3),
	field("g23", 339, 351, -35, -30),
}

// Contains reports whether p is inside f.
func (f Field) Contains(p Position) bool {
	return p.RA >= f.RAMin && p.RA <= f.RAMax &&
		p.Dec >= f.DecMin && p.Dec <= f.DecMax
}

// Outline returns the projected boundary of f with n points per side,
// as a closed ring.
func (f Field) Outline(n int) (x, y []float64) {
	if n < 2 {
		n = 2
	}
	corner := []Position{
		{f.RAMin, f.DecMin}, {f.RAMax, f.DecMin},
		{f.RAMax, f.DecMax}, {f.RAMin, f.DecMax},
	}
	for c := range corner {
		a, b := corner[c], corner[(c+1)%4]
		for i := 0; i < n-1; i++ {
			t := float64(i) / float64(n-1)
			px, py := Position{
				a.RA + unit.RA(t*float64(b.RA-a.RA)),
				a.Dec + unit.Angle(t*float64(b.Dec-a.Dec)),
			}.Project()
			x = append(x, px)
			y = append(y, py)
		}
	}
	return append(x, x[0]), append(y, y[0])
}

// GalacticPlane returns n points along galactic latitude 0, referred to
// the equinox of B1950.
func GalacticPlane(n int) []Position {
	p := make([]Position, n)
	for i := range p {
		l := unit.AngleFromDeg(360 * float64(i) / float64(n))
		p[i].RA, p[i].Dec = coord.GalToEq(l, 0)
	}
	return p
}

// Segments projects a path of positions and splits it where it wraps
// around the map edge.
func Segments(path []Position) (xs, ys [][]float64) {
	var x, y []float64
	lastLon := math.NaN()
	for _, p := range path {
		lon := p.Lon()
		if math.Abs(lon-lastLon) > math.Pi && len(x) > 0 {
			xs, ys = append(xs, x), append(ys, y)
			x, y = nil, nil
		}
		px, py := p.Project()
		x, y = append(x, px), append(y, py)
		lastLon = lon
	}
	if len(x) > 0 {
		xs, ys = append(xs, x), append(ys, y)
	}
	return
}
