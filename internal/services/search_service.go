package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/swiftrail/train-reservation-backend/internal/database"
	"github.com/swiftrail/train-reservation-backend/internal/models"
	"github.com/swiftrail/train-reservation-backend/internal/utils"
)

// SearchService handles business logic for train search
type SearchService struct {
	repo     *database.SearchRepository
	cache    *redis.Client // nil disables caching
	cacheTTL time.Duration
	logger   *logrus.Logger
}

// NewSearchService creates a new search service
func NewSearchService(repo *database.SearchRepository, cache *redis.Client, cacheTTL time.Duration, logger *logrus.Logger) *SearchService {
	return &SearchService{
		repo:     repo,
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   logger,
	}
}

// SearchTrains finds trains between two stations on a date, optionally
// filtered to one class. Results are cached briefly; every search is
// recorded in the audit log with its device type.
func (s *SearchService) SearchTrains(ctx context.Context, req *models.SearchRequest, userAgent, ipAddress string) ([]models.TrainSearchResult, error) {
	startTime := time.Now()

	if err := req.Validate(); err != nil {
		return nil, err
	}

	journeyDate, _ := time.Parse("2006-01-02", req.JourneyDate)

	cacheKey := fmt.Sprintf("search:%s:%s:%s:%s",
		req.SourceStation, req.DestinationStation, req.JourneyDate, req.ClassType)

	if cached, ok := s.cacheGet(ctx, cacheKey); ok {
		s.logSearch(req, journeyDate, len(cached), userAgent, ipAddress, startTime)
		return cached, nil
	}

	results, err := s.repo.SearchTrains(req.SourceStation, req.DestinationStation, journeyDate, req.ClassType)
	if err != nil {
		s.logger.WithError(err).Error("Train search failed")
		return nil, err
	}

	s.cacheSet(ctx, cacheKey, results)
	s.logSearch(req, journeyDate, len(results), userAgent, ipAddress, startTime)

	s.logger.WithFields(logrus.Fields{
		"source":      req.SourceStation,
		"destination": req.DestinationStation,
		"date":        req.JourneyDate,
		"results":     len(results),
	}).Info("Train search completed")

	return results, nil
}

// AutocompleteStations suggests stations matching a prefix
func (s *SearchService) AutocompleteStations(prefix string, limit int) ([]models.StationSuggestion, error) {
	if prefix == "" {
		return nil, models.ValidationError{Field: "q", Msg: "query prefix is required"}
	}
	if limit <= 0 || limit > 25 {
		limit = 10
	}
	return s.repo.AutocompleteStations(prefix, limit)
}

// PopularRoutes returns the most searched routes over the last days
func (s *SearchService) PopularRoutes(days, limit int) ([]models.PopularRoute, error) {
	if days <= 0 {
		days = 30
	}
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	return s.repo.PopularRoutes(days, limit)
}

func (s *SearchService) cacheGet(ctx context.Context, key string) ([]models.TrainSearchResult, bool) {
	if s.cache == nil {
		return nil, false
	}

	data, err := s.cache.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			s.logger.WithError(err).Warn("Search cache read failed")
		}
		return nil, false
	}

	var results []models.TrainSearchResult
	if err := json.Unmarshal(data, &results); err != nil {
		return nil, false
	}
	return results, true
}

func (s *SearchService) cacheSet(ctx context.Context, key string, results []models.TrainSearchResult) {
	if s.cache == nil {
		return
	}

	data, err := json.Marshal(results)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, data, s.cacheTTL).Err(); err != nil {
		s.logger.WithError(err).Warn("Search cache write failed")
	}
}

// logSearch records the search in the audit trail. Logging failures never
// fail the search itself.
func (s *SearchService) logSearch(req *models.SearchRequest, journeyDate time.Time, results int, userAgent, ipAddress string, startTime time.Time) {
	device := utils.DeviceType(userAgent)

	log := &models.SearchLog{
		SourceInput:      req.SourceStation,
		DestinationInput: req.DestinationStation,
		JourneyDate:      &journeyDate,
		ResultsCount:     results,
		ResponseTimeMS:   int(time.Since(startTime).Milliseconds()),
		DeviceType:       &device,
	}
	if req.ClassType != "" {
		log.ClassType = &req.ClassType
	}
	if ipAddress != "" {
		log.IPAddress = &ipAddress
	}

	if err := s.repo.LogSearch(log); err != nil {
		s.logger.WithError(err).Warn("Failed to log search")
	}
}
