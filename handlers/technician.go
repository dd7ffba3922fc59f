package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"fieldserve/config"
	technicianRepo "fieldserve/database/repository/technician"
	"fieldserve/middleware"
	"fieldserve/services/booking"
	"fieldserve/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// TechnicianHandler exposes technician discovery and self-service endpoints.
type TechnicianHandler struct {
	Matching booking.MatchingService
	TechRepo technicianRepo.TechnicianRepository
	Cache    *redis.Client
}

func NewTechnicianHandler(matching booking.MatchingService, techRepo technicianRepo.TechnicianRepository, cache *redis.Client) *TechnicianHandler {
	return &TechnicianHandler{Matching: matching, TechRepo: techRepo, Cache: cache}
}

// Nearby handles GET /technicians/nearby. Public, read-only; responses are
// cached briefly since discovery tolerates slightly stale data.
func (h *TechnicianHandler) Nearby(c *gin.Context) {
	lat, latErr := strconv.ParseFloat(c.Query("lat"), 64)
	lng, lngErr := strconv.ParseFloat(c.Query("lng"), 64)
	if latErr != nil || lngErr != nil {
		utils.JSONError(c, http.StatusBadRequest, booking.CodeValidation, "lat and lng are required numeric parameters")
		return
	}
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		utils.JSONError(c, http.StatusBadRequest, booking.CodeValidation, "lat/lng out of range")
		return
	}

	radius, _ := strconv.ParseFloat(c.DefaultQuery("radius", "10"), 64)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	serviceType := c.Query("serviceType")

	cacheKey := fmt.Sprintf("nearby:%.4f:%.4f:%.1f:%d:%s", lat, lng, radius, limit, serviceType)
	if h.Cache != nil {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		cached, err := h.Cache.Get(ctx, cacheKey).Result()
		cancel()
		if err == nil {
			c.Data(http.StatusOK, "application/json", []byte(cached))
			return
		}
	}

	results, err := h.Matching.FindNearby(booking.MatchCriteria{
		Lat:         lat,
		Lng:         lng,
		RadiusKm:    radius,
		Limit:       limit,
		ServiceType: serviceType,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	body, err := json.Marshal(gin.H{"technicians": results, "count": len(results)})
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, booking.CodeUpstream, "failed to encode response")
		return
	}

	if h.Cache != nil {
		ttl := time.Duration(config.AppConfig.DiscoveryCacheTTL) * time.Second
		if ttl <= 0 {
			ttl = 30 * time.Second
		}
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		if err := h.Cache.Set(ctx, cacheKey, body, ttl).Err(); err != nil {
			utils.GetLogger().Warn("failed to cache discovery response", zap.Error(err))
		}
		cancel()
	}
	c.Data(http.StatusOK, "application/json", body)
}

// UpdateLocation handles PUT /technicians/me/location. Technicians report
// fresh coordinates here; without them they are excluded from matching.
func (h *TechnicianHandler) UpdateLocation(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	var input struct {
		Latitude  *float64 `json:"latitude" binding:"required"`
		Longitude *float64 `json:"longitude" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, booking.CodeValidation, "latitude and longitude are required")
		return
	}
	if *input.Latitude < -90 || *input.Latitude > 90 || *input.Longitude < -180 || *input.Longitude > 180 {
		utils.JSONError(c, http.StatusBadRequest, booking.CodeValidation, "latitude/longitude out of range")
		return
	}

	technician, err := h.TechRepo.UpdateLocation(principal.ID, *input.Latitude, *input.Longitude)
	if err != nil {
		if errors.Is(err, technicianRepo.ErrNotFound) {
			utils.JSONError(c, http.StatusNotFound, booking.CodeNotFound, "no technician profile for this user")
			return
		}
		utils.GetLogger().Error("location update failed", zap.String("userId", principal.ID), zap.Error(err))
		utils.JSONError(c, http.StatusBadGateway, booking.CodeUpstream, "could not update location")
		return
	}
	c.JSON(http.StatusOK, gin.H{"technician": technician})
}

// SetAvailability handles PUT /technicians/me/availability.
func (h *TechnicianHandler) SetAvailability(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	var input struct {
		IsAvailable *bool `json:"isAvailable" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, booking.CodeValidation, "isAvailable is required")
		return
	}

	technician, err := h.TechRepo.SetAvailability(principal.ID, *input.IsAvailable)
	if err != nil {
		if errors.Is(err, technicianRepo.ErrNotFound) {
			utils.JSONError(c, http.StatusNotFound, booking.CodeNotFound, "no technician profile for this user")
			return
		}
		utils.GetLogger().Error("availability update failed", zap.String("userId", principal.ID), zap.Error(err))
		utils.JSONError(c, http.StatusBadGateway, booking.CodeUpstream, "could not update availability")
		return
	}
	c.JSON(http.StatusOK, gin.H{"technician": technician})
}
