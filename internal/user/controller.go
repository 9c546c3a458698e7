package user

import (
	"errors"
	"net/http"

	"metalscale/internal/auth"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type UserController struct {
	userService UserServiceInterface
	jwtSecret   string
}

func NewUserController(userService UserServiceInterface, jwtSecret string) *UserController {
	return &UserController{
		userService: userService,
		jwtSecret:   jwtSecret,
	}
}

// CheckSetup reports whether the first-time setup flow should run
func (a *UserController) CheckSetup(c *gin.Context) {
	isFirstTime, err := a.userService.IsFirstTime()
	if err != nil {
		logrus.WithError(err).Error("Failed to check setup state")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check setup state"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"isFirstTime": isFirstTime})
}

// Setup handles first-time administrator creation
func (a *UserController) Setup(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
		return
	}

	token, err := a.userService.Setup(req.Username, req.Password, a.jwtSecret)
	if err != nil {
		if errors.Is(err, ErrAdminExists) {
			c.JSON(http.StatusForbidden, gin.H{"error": "An administrator already exists"})
			return
		}
		logrus.WithError(err).Error("Failed to run first-time setup")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to run first-time setup"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Administrator created successfully",
		"token":   token,
	})
}

// Login handles administrator login and returns a session token
func (a *UserController) Login(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
		return
	}

	token, err := a.userService.Login(req.Username, req.Password, a.jwtSecret)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		logrus.WithError(err).Error("Failed to log in")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to log in"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}

// Verify confirms the bearer token and echoes its username claim.
// Runs behind the auth middleware, so reaching here means the token is valid.
func (a *UserController) Verify(c *gin.Context) {
	username, err := auth.GetUsernameFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"username": username})
}
