package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"aduan-portal/internal/model"

	"github.com/redis/go-redis/v9"
)

const (
	statsCacheTTL = 60 * time.Second
	statsDays     = 7
)

// StatsStore is the aggregation surface of the complaint repository.
type StatsStore interface {
	DailyCounts(since time.Time, pelaporID *int64) ([]model.DailyCount, error)
	StatusDistribution(pelaporID *int64) ([]model.StatusCount, error)
	CategoryDistribution(pelaporID *int64) ([]model.CategoryCount, error)
	CountAduan(pelaporID *int64) (int, error)
}

// StatsService derives the dashboard numbers. Results are cached in Redis
// for a short window; any cache failure falls back to direct queries.
type StatsService struct {
	store StatsStore
	redis *redis.Client
}

func NewStatsService(store StatsStore, rdb *redis.Client) *StatsService {
	return &StatsService{store: store, redis: rdb}
}

// Statistics aggregates over every complaint (admin/petugas dashboard).
func (s *StatsService) Statistics(ctx context.Context) (*model.Statistics, error) {
	return s.cached(ctx, "stats:all", nil)
}

// MyStatistics aggregates over the caller's own filings.
func (s *StatsService) MyStatistics(ctx context.Context, userID int64) (*model.Statistics, error) {
	return s.cached(ctx, fmt.Sprintf("stats:user:%d", userID), &userID)
}

func (s *StatsService) cached(ctx context.Context, key string, pelaporID *int64) (*model.Statistics, error) {
	if s.redis != nil {
		raw, err := s.redis.Get(ctx, key).Result()
		if err == nil {
			var stats model.Statistics
			if err := json.Unmarshal([]byte(raw), &stats); err == nil {
				return &stats, nil
			}
		}
	}

	stats, err := s.compute(pelaporID)
	if err != nil {
		return nil, err
	}

	if s.redis != nil {
		if raw, err := json.Marshal(stats); err == nil {
			if err := s.redis.Set(ctx, key, raw, statsCacheTTL).Err(); err != nil {
				log.Printf("stats: cache set %s: %v", key, err)
			}
		}
	}

	return stats, nil
}

func (s *StatsService) compute(pelaporID *int64) (*model.Statistics, error) {
	// Today plus the six previous days.
	since := time.Now().AddDate(0, 0, -(statsDays - 1)).Truncate(24 * time.Hour)

	daily, err := s.store.DailyCounts(since, pelaporID)
	if err != nil {
		return nil, err
	}

	statuses, err := s.store.StatusDistribution(pelaporID)
	if err != nil {
		return nil, err
	}

	categories, err := s.store.CategoryDistribution(pelaporID)
	if err != nil {
		return nil, err
	}

	total, err := s.store.CountAduan(pelaporID)
	if err != nil {
		return nil, err
	}

	return &model.Statistics{
		DailyCounts:          daily,
		StatusDistribution:   statuses,
		CategoryDistribution: categories,
		TotalAduan:           total,
	}, nil
}
