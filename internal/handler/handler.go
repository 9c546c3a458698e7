package handler

import (
	"database/sql"
	"metalscale/internal/config"
	"metalscale/internal/middleware"
	"metalscale/internal/observability"
	"metalscale/internal/plan"
	"metalscale/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

// SetupHandler initializes all dependencies and routes
func SetupHandler(db *sql.DB, redisClient *redis.Client, cfg *config.Config) *gin.Engine {

	r := gin.Default()
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))
	if observability.GlobalMetrics != nil {
		r.Use(middleware.PrometheusMiddleware(observability.GlobalMetrics))
	}

	// Initialize repositories
	userRepo := user.NewUserRepository()
	planRepo := plan.NewPlanRepository()

	// Initialize services
	userService := user.NewUserService(userRepo, db)
	planService := plan.NewPlanService(planRepo, db, redisClient)

	// Initialize controllers
	userController := user.NewUserController(userService, cfg.JWT.Secret)
	planController := plan.NewPlanController(planService)

	// Setup routes
	setupRoutes(r, userController, planController, redisClient, cfg.JWT.Secret)

	return r
}

// setupRoutes configures all application routes
func setupRoutes(r *gin.Engine, userCtrl *user.UserController, planCtrl *plan.PlanController, redisClient *redis.Client, jwtSecret string) {
	api := r.Group("/api")

	// Credential endpoints are throttled per client IP to slow down
	// online password guessing.
	credentialLimiter := middleware.RateLimiterMiddleware(redisClient, middleware.StrictRateLimiter())

	authGroup := api.Group("/auth")
	{
		authGroup.GET("/check-setup", userCtrl.CheckSetup)
		authGroup.POST("/setup", credentialLimiter, userCtrl.Setup)
		authGroup.POST("/login", credentialLimiter, userCtrl.Login)
		authGroup.GET("/verify", middleware.AuthMiddleware(jwtSecret), userCtrl.Verify)
	}

	// Public catalog
	api.GET("/plans", planCtrl.ListPlans)

	// Protected plan mutations
	admin := api.Group("/plans")
	admin.Use(middleware.AuthMiddleware(jwtSecret))
	{
		admin.POST("", planCtrl.CreatePlan)
		admin.PUT("/:id", planCtrl.UpdatePlan)
		admin.DELETE("/:id", planCtrl.DeletePlan)
	}
}
