package controllers

import (
	"net/http"
	"strconv"

	"platepick_server/models"
)

// parseLatLng reads lat/lng query parameters into a default 5-mile search.
func parseLatLng(w http.ResponseWriter, r *http.Request) (models.SearchQuery, bool) {
	lat, errLat := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	lng, errLng := strconv.ParseFloat(r.URL.Query().Get("lng"), 64)
	if errLat != nil || errLng != nil {
		http.Error(w, `{"error": "lat and lng are required"}`, http.StatusBadRequest)
		return models.SearchQuery{}, false
	}
	return models.SearchQuery{Lat: lat, Lng: lng, Miles: 5}, true
}

func parsePositiveInt(v string) (int, error) {
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, err
	}
	if n < 1 {
		n = 1
	}
	return n, nil
}
