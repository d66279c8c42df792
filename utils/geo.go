package utils

import "math"

const earthRadiusMiles = 3959

// DistanceMiles computes the haversine distance between two coordinates.
func DistanceMiles(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := (lat2 - lat1) * math.Pi / 180
	dLng := (lng2 - lng1) * math.Pi / 180
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*math.Pi/180)*math.Cos(lat2*math.Pi/180)*
			math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusMiles * c
}

// MilesToMeters converts a radius in miles to meters.
func MilesToMeters(miles float64) int {
	return int(math.Round(miles * 1609.34))
}
