package booking

import (
	"fmt"
	"math"
	"sort"

	technicianRepo "fieldserve/database/repository/technician"
	"fieldserve/models"
	"fieldserve/utils"

	"go.uber.org/zap"
)

const (
	// DefaultRadiusKm bounds a discovery query when the caller gives none.
	DefaultRadiusKm = 10.0
	// DefaultLimit caps a discovery result when the caller gives none.
	DefaultLimit = 20
	// avgSpeedKmh is the assumed travel speed for arrival estimates.
	avgSpeedKmh = 30.0
)

// MatchCriteria is a discovery query: an origin point plus constraints.
type MatchCriteria struct {
	Lat         float64
	Lng         float64
	RadiusKm    float64
	Limit       int
	ServiceType string
}

// MatchingService ranks eligible technicians by distance from an origin.
type MatchingService interface {
	FindNearby(criteria MatchCriteria) ([]models.NearbyTechnician, error)
}

// DefaultMatchingService implements MatchingService against the technician
// directory. It performs no writes and keeps no state.
type DefaultMatchingService struct {
	TechRepo technicianRepo.TechnicianRepository
}

// FindNearby returns eligible technicians within the radius, ranked by
// ascending great-circle distance with an arrival estimate each. When nothing
// matches it returns an empty list rather than an error.
func (s *DefaultMatchingService) FindNearby(criteria MatchCriteria) ([]models.NearbyTechnician, error) {
	if criteria.RadiusKm <= 0 {
		criteria.RadiusKm = DefaultRadiusKm
	}
	if criteria.Limit <= 0 {
		criteria.Limit = DefaultLimit
	}

	technicians, err := s.TechRepo.FindEligible(technicianRepo.EligibilityCriteria{
		ServiceType: criteria.ServiceType,
	})
	if err != nil {
		utils.GetLogger().Error("eligible technician lookup failed", zap.Error(err))
		return nil, NewUpstreamError(err)
	}

	results := []models.NearbyTechnician{}
	for _, t := range technicians {
		if !t.Eligible() {
			continue
		}
		distance := Haversine(criteria.Lat, criteria.Lng, *t.Latitude, *t.Longitude)
		if distance > criteria.RadiusKm {
			continue
		}
		results = append(results, models.NearbyTechnician{
			ID:               t.ID,
			Name:             t.Name,
			Specialization:   t.Specialization,
			Rate:             t.Rate,
			Experience:       t.Experience,
			ProfileImage:     t.ProfileImage,
			Latitude:         *t.Latitude,
			Longitude:        *t.Longitude,
			DistanceKm:       math.Round(distance*100) / 100,
			EstimatedArrival: FormatArrival(distance),
		})
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].DistanceKm < results[j].DistanceKm
	})
	if len(results) > criteria.Limit {
		results = results[:criteria.Limit]
	}
	return results, nil
}

// Haversine computes the great-circle distance in kilometres between two
// points given in degrees.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	const R = 6371
	dLat := (lat2 - lat1) * (math.Pi / 180)
	dLon := (lon2 - lon1) * (math.Pi / 180)
	lat1Rad := lat1 * (math.Pi / 180)
	lat2Rad := lat2 * (math.Pi / 180)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return R * c
}

// FormatArrival renders a travel-time estimate at the assumed average speed:
// "N min" under an hour, "H hr M min" beyond.
func FormatArrival(distanceKm float64) string {
	minutes := int(math.Round(distanceKm / avgSpeedKmh * 60))
	if minutes < 60 {
		return fmt.Sprintf("%d min", minutes)
	}
	return fmt.Sprintf("%d hr %d min", minutes/60, minutes%60)
}
