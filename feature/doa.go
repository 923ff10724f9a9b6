package feature

import "math"

// DOA is one direction-of-arrival label for a track in a label frame.
// Angles are in degrees; azimuth is counter-clockwise from the x axis and
// elevation is positive above the horizontal plane.
type DOA struct {
	Frame     int
	Track     int
	Azimuth   float64
	Elevation float64
}

// DOAFromCartesian converts a direction vector to azimuth/elevation degrees.
// The vector need not be normalized; a zero vector maps to (0, 0).
func DOAFromCartesian(frame, track int, x, y, z float64) DOA {
	d := DOA{Frame: frame, Track: track}
	r := math.Sqrt(x*x + y*y + z*z)
	if r == 0 {
		return d
	}
	d.Azimuth = WrapAzimuth(math.Atan2(y, x) * 180 / math.Pi)
	d.Elevation = math.Asin(z/r) * 180 / math.Pi
	return d
}

// Cartesian returns the unit direction vector of d.
func (d DOA) Cartesian() (x, y, z float64) {
	az := d.Azimuth * math.Pi / 180
	el := d.Elevation * math.Pi / 180
	cosEl := math.Cos(el)
	return math.Cos(az) * cosEl, math.Sin(az) * cosEl, math.Sin(el)
}

// WrapAzimuth maps deg into [-180, 180).
func WrapAzimuth(deg float64) float64 {
	w := math.Mod(deg+180, 360)
	if w < 0 {
		w += 360
	}
	return w - 180
}

// CloneDOAs returns a copy of labels.
func CloneDOAs(labels []DOA) []DOA {
	if labels == nil {
		return nil
	}
	out := make([]DOA, len(labels))
	copy(out, labels)
	return out
}
