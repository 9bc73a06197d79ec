// Public domain.

package chain

import (
	"fmt"
	"path/filepath"
)

// Obs is the kind of observation a chain was fit to.
type Obs string

const (
	Spec      Obs = "spec"
	Photo     Obs = "photo"
	SpecPhoto Obs = "specphoto"
)

// ParseObs validates an observation name.
func ParseObs(s string) (Obs, error) {
	switch o := Obs(s); o {
	case Spec, Photo, SpecPhoto:
		return o, nil
	}
	return "", fmt.Errorf("chain: unknown observation %q", s)
}

// Parameter names with simulation counterparts.  Offsets are taken for
// LogMStar and LogSFR.
const (
	LogMStar   = "logmstar"
	LogSFR     = "logsfr.100myr"
	LogSFR1Gyr = "logsfr.1gyr"
	LogZMW     = "logz.mw" // log10 of mass weighted metallicity
	TAgeMW     = "tage.mw" // mass weighted age, Gyr
)

// BestFit identifies a family of per-galaxy chain files.
type BestFit struct {
	Dir    string // root of the best-fit tree
	Method string // fitting method, also the subdirectory
	Sim    string // simulation, "lgal" or "tng"
	Obs    Obs
	Noise  string // noise model, "bgs0", "legacy", "bgs0_legacy", ...
	Model  string // "vanilla", "vanilla_complexdust", ...
}

// Path returns the chain file name of galaxy igal.
func (b BestFit) Path(igal int) string {
	return filepath.Join(b.Dir, b.Method,
		fmt.Sprintf("%s.%s.noise_%s.%s.%d.hdf5",
			b.Sim, b.Obs, b.Noise, b.Model, igal))
}

func (b BestFit) String() string {
	return fmt.Sprintf("%s/%s.%s.noise_%s.%s", b.Method, b.Sim, b.Obs, b.Noise, b.Model)
}
