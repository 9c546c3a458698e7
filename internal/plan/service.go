package plan

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"metalscale/internal/cache"
	"metalscale/internal/observability"
	"metalscale/internal/utils"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

var ErrInvalidPlan = errors.New("invalid plan")

type PlanServiceInterface interface {
	ListPlans() ([]*Plan, error)
	CreatePlan(plan *Plan) (*Plan, error)
	UpdatePlan(id int, plan *Plan) (*Plan, error)
	DeletePlan(id int) error
}

type PlanService struct {
	repo  PlanRepositoryInterface
	db    *sql.DB
	cache *cache.PlanCache
}

func NewPlanService(repo PlanRepositoryInterface, db *sql.DB, redisClient *redis.Client) PlanServiceInterface {
	return &PlanService{
		repo:  repo,
		db:    db,
		cache: cache.NewPlanCache(redisClient),
	}
}

// ListPlans returns the catalog ordered ascending by price, served from the
// redis cache when warm.
func (s *PlanService) ListPlans() ([]*Plan, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	cachedData, err := s.cache.GetCatalog(ctx)
	if err == nil && cachedData != nil {
		var plans []*Plan
		if json.Unmarshal(cachedData, &plans) == nil {
			recordCacheHit()
			return plans, nil
		}
	}
	recordCacheMiss()

	plans, err := s.repo.List(s.db)
	if err != nil {
		return nil, err
	}
	if plans == nil {
		plans = []*Plan{}
	}

	// Cache errors are not critical, the next list just hits the database
	if err := s.cache.SetCatalog(ctx, plans); err != nil {
		logrus.WithError(err).Warn("Failed to cache plan catalog")
	}

	return plans, nil
}

// CreatePlan persists a new plan and returns it with generated fields filled in
func (s *PlanService) CreatePlan(plan *Plan) (*Plan, error) {
	if err := validatePlan(plan); err != nil {
		return nil, err
	}

	if err := utils.WithTransaction(s.db, func(tx *sql.Tx) error {
		id, err := s.repo.Create(tx, plan)
		if err != nil {
			return err
		}
		plan.ID = id
		return nil
	}); err != nil {
		return nil, err
	}

	s.invalidateCatalog()
	recordMutation("create")

	return s.repo.GetByID(s.db, plan.ID)
}

// UpdatePlan fully replaces all mutable fields of an existing plan
func (s *PlanService) UpdatePlan(id int, plan *Plan) (*Plan, error) {
	if err := validatePlan(plan); err != nil {
		return nil, err
	}
	plan.ID = id

	if err := utils.WithTransaction(s.db, func(tx *sql.Tx) error {
		return s.repo.Update(tx, plan)
	}); err != nil {
		return nil, err
	}

	s.invalidateCatalog()
	recordMutation("update")

	return s.repo.GetByID(s.db, id)
}

// DeletePlan removes a plan
func (s *PlanService) DeletePlan(id int) error {
	if err := utils.WithTransaction(s.db, func(tx *sql.Tx) error {
		return s.repo.Delete(tx, id)
	}); err != nil {
		return err
	}

	s.invalidateCatalog()
	recordMutation("delete")

	return nil
}

func validatePlan(plan *Plan) error {
	if strings.TrimSpace(plan.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidPlan)
	}
	if plan.Price < 0 {
		return fmt.Errorf("%w: price must not be negative", ErrInvalidPlan)
	}
	if plan.CPU < 0 || plan.RAM < 0 || plan.Storage < 0 || plan.Backups < 0 {
		return fmt.Errorf("%w: resource amounts must not be negative", ErrInvalidPlan)
	}
	return nil
}

func (s *PlanService) invalidateCatalog() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := s.cache.InvalidateCatalog(ctx); err != nil {
		logrus.WithError(err).Warn("Failed to invalidate plan catalog cache")
	}
}

func recordCacheHit() {
	if m := observability.GlobalMetrics; m != nil {
		m.CacheHitsTotal.WithLabelValues("plans").Inc()
	}
}

func recordCacheMiss() {
	if m := observability.GlobalMetrics; m != nil {
		m.CacheMissesTotal.WithLabelValues("plans").Inc()
	}
}

func recordMutation(operation string) {
	if m := observability.GlobalMetrics; m != nil {
		m.PlanMutationsTotal.WithLabelValues(operation).Inc()
	}
}
