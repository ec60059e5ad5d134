// Package geofence validates attendance check-ins against the fixed
// set of store locations.
package geofence

import "math"

const earthRadiusMeters = 6371e3

type Location struct {
	Name      string
	Latitude  float64
	Longitude float64
	RadiusM   float64
}

// StoreLocations is the check-in allow-list. Radii are generous on
// purpose: GPS drift inside the buildings regularly exceeds 100 m.
var StoreLocations = []Location{
	{Name: "FRENZ BENDUL MERISI", Latitude: -7.306016, Longitude: 112.748307, RadiusM: 500},
	{Name: "TESTING", Latitude: -7.327654, Longitude: 112.809637, RadiusM: 500},
	{Name: "UPN Veteran Jawa Timur (Gunung Anyar)", Latitude: -7.333409, Longitude: 112.788396, RadiusM: 500},
}

// Result is the verdict for one coordinate pair: whether any location
// admits it, and the nearest location with its distance either way.
type Result struct {
	Allowed   bool
	Nearest   Location
	DistanceM float64
}

// Evaluate checks the coordinates against every allowed location and
// returns the verdict for the nearest one.
func Evaluate(latitude float64, longitude float64) Result {
	return evaluate(latitude, longitude, StoreLocations)
}

func evaluate(latitude float64, longitude float64, locations []Location) Result {
	result := Result{DistanceM: math.Inf(1)}
	for _, loc := range locations {
		d := Distance(latitude, longitude, loc.Latitude, loc.Longitude)
		if d < result.DistanceM {
			result.Nearest = loc
			result.DistanceM = d
		}
		if d <= loc.RadiusM {
			result.Allowed = true
		}
	}
	return result
}

// Distance returns the Haversine great-circle distance in meters.
func Distance(lat1 float64, lon1 float64, lat2 float64, lon2 float64) float64 {
	phi1 := lat1 * math.Pi / 180
	phi2 := lat2 * math.Pi / 180
	dPhi := (lat2 - lat1) * math.Pi / 180
	dLambda := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusMeters * c
}

// ValidCoordinates rejects zero-island and out-of-range inputs before
// any distance math runs.
func ValidCoordinates(latitude float64, longitude float64) bool {
	if latitude == 0 && longitude == 0 {
		return false
	}
	return latitude >= -90 && latitude <= 90 && longitude >= -180 && longitude <= 180
}
