package plan

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type PlanController struct {
	service PlanServiceInterface
}

func NewPlanController(service PlanServiceInterface) *PlanController {
	return &PlanController{
		service: service,
	}
}

// planRequest carries plan fields for create and update. Pointer fields
// distinguish "absent" from a legitimate zero (a free plan has price 0).
type planRequest struct {
	Name        string   `json:"name" binding:"required"`
	Price       *float64 `json:"price" binding:"required"`
	CPU         *int     `json:"cpu" binding:"required"`
	RAM         *int     `json:"ram" binding:"required"`
	Storage     *int     `json:"storage" binding:"required"`
	Backups     *int     `json:"backups"`
	Description string   `json:"description"`
	Features    []string `json:"features"`
}

func (req *planRequest) toPlan() *Plan {
	backups := 0
	if req.Backups != nil {
		backups = *req.Backups
	}
	features := req.Features
	if features == nil {
		features = []string{}
	}

	return &Plan{
		Name:        req.Name,
		Price:       *req.Price,
		CPU:         *req.CPU,
		RAM:         *req.RAM,
		Storage:     *req.Storage,
		Backups:     backups,
		Description: req.Description,
		Features:    features,
	}
}

// ListPlans returns the public catalog
func (pc *PlanController) ListPlans(c *gin.Context) {
	plans, err := pc.service.ListPlans()
	if err != nil {
		logrus.WithError(err).Error("Failed to list plans")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list plans"})
		return
	}

	c.JSON(http.StatusOK, plans)
}

// CreatePlan handles plan creation
func (pc *PlanController) CreatePlan(c *gin.Context) {
	var req planRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
		return
	}

	created, err := pc.service.CreatePlan(req.toPlan())
	if err != nil {
		if errors.Is(err, ErrInvalidPlan) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logrus.WithError(err).Error("Failed to create plan")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create plan"})
		return
	}

	c.JSON(http.StatusCreated, created)
}

// UpdatePlan handles full replacement of a plan
func (pc *PlanController) UpdatePlan(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid plan ID"})
		return
	}

	var req planRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
		return
	}

	updated, err := pc.service.UpdatePlan(id, req.toPlan())
	if err != nil {
		switch {
		case errors.Is(err, ErrPlanNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Plan not found"})
		case errors.Is(err, ErrInvalidPlan):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logrus.WithError(err).Error("Failed to update plan")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update plan"})
		}
		return
	}

	c.JSON(http.StatusOK, updated)
}

// DeletePlan handles plan deletion
func (pc *PlanController) DeletePlan(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid plan ID"})
		return
	}

	if err := pc.service.DeletePlan(id); err != nil {
		if errors.Is(err, ErrPlanNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Plan not found"})
			return
		}
		logrus.WithError(err).Error("Failed to delete plan")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete plan"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Plan deleted successfully"})
}
