package user

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"metalscale/internal/auth"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-for-controller-testing"

// MockUserService is a mock implementation of UserServiceInterface
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) IsFirstTime() (bool, error) {
	args := m.Called()
	return args.Bool(0), args.Error(1)
}

func (m *MockUserService) Setup(username, password, jwtSecret string) (string, error) {
	args := m.Called(username, password, jwtSecret)
	return args.String(0), args.Error(1)
}

func (m *MockUserService) Login(username, password, jwtSecret string) (string, error) {
	args := m.Called(username, password, jwtSecret)
	return args.String(0), args.Error(1)
}

func setupTestRouter(service UserServiceInterface) (*gin.Engine, *UserController) {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	controller := NewUserController(service, testSecret)

	return router, controller
}

func TestCheckSetup_FirstTime(t *testing.T) {
	mockService := new(MockUserService)
	router, controller := setupTestRouter(mockService)

	mockService.On("IsFirstTime").Return(true, nil)

	router.GET("/auth/check-setup", controller.CheckSetup)

	req := httptest.NewRequest("GET", "/auth/check-setup", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)
	assert.Equal(t, true, response["isFirstTime"])

	mockService.AssertExpectations(t)
}

func TestCheckSetup_AdminExists(t *testing.T) {
	mockService := new(MockUserService)
	router, controller := setupTestRouter(mockService)

	mockService.On("IsFirstTime").Return(false, nil)

	router.GET("/auth/check-setup", controller.CheckSetup)

	req := httptest.NewRequest("GET", "/auth/check-setup", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)
	assert.Equal(t, false, response["isFirstTime"])

	mockService.AssertExpectations(t)
}

func TestCheckSetup_DatabaseError(t *testing.T) {
	mockService := new(MockUserService)
	router, controller := setupTestRouter(mockService)

	mockService.On("IsFirstTime").Return(false, errors.New("connection refused"))

	router.GET("/auth/check-setup", controller.CheckSetup)

	req := httptest.NewRequest("GET", "/auth/check-setup", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)
	assert.NotContains(t, response["error"], "connection refused")

	mockService.AssertExpectations(t)
}

func TestSetup_Success(t *testing.T) {
	mockService := new(MockUserService)
	router, controller := setupTestRouter(mockService)

	mockService.On("Setup", "admin", "secret1", testSecret).Return("signed-token", nil)

	router.POST("/auth/setup", controller.Setup)

	reqBody := `{"username":"admin","password":"secret1"}`
	req := httptest.NewRequest("POST", "/auth/setup", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)
	assert.Equal(t, "signed-token", response["token"])
	assert.Contains(t, response["message"], "Administrator created")

	mockService.AssertExpectations(t)
}

func TestSetup_AdminAlreadyExists(t *testing.T) {
	mockService := new(MockUserService)
	router, controller := setupTestRouter(mockService)

	mockService.On("Setup", "intruder", "whatever", testSecret).Return("", ErrAdminExists)

	router.POST("/auth/setup", controller.Setup)

	reqBody := `{"username":"intruder","password":"whatever"}`
	req := httptest.NewRequest("POST", "/auth/setup", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)
	assert.Contains(t, response["error"], "administrator already exists")

	mockService.AssertExpectations(t)
}

func TestSetup_MissingFields(t *testing.T) {
	mockService := new(MockUserService)
	router, controller := setupTestRouter(mockService)

	router.POST("/auth/setup", controller.Setup)

	tests := []struct {
		name string
		body string
	}{
		{"No username", `{"password":"secret1"}`},
		{"No password", `{"username":"admin"}`},
		{"Empty body", `{}`},
		{"Empty strings", `{"username":"","password":""}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/auth/setup", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}

	mockService.AssertNotCalled(t, "Setup")
}

func TestLogin_Success(t *testing.T) {
	mockService := new(MockUserService)
	router, controller := setupTestRouter(mockService)

	mockService.On("Login", "admin", "secret1", testSecret).Return("signed-token", nil)

	router.POST("/auth/login", controller.Login)

	reqBody := `{"username":"admin","password":"secret1"}`
	req := httptest.NewRequest("POST", "/auth/login", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)
	assert.Equal(t, "signed-token", response["token"])

	mockService.AssertExpectations(t)
}

// Unknown user and wrong password must produce the same response
func TestLogin_InvalidCredentials_SameMessage(t *testing.T) {
	mockService := new(MockUserService)
	router, controller := setupTestRouter(mockService)

	mockService.On("Login", "nobody", "secret1", testSecret).Return("", ErrInvalidCredentials)
	mockService.On("Login", "admin", "wrong", testSecret).Return("", ErrInvalidCredentials)

	router.POST("/auth/login", controller.Login)

	bodies := []string{
		`{"username":"nobody","password":"secret1"}`,
		`{"username":"admin","password":"wrong"}`,
	}

	var messages []string
	for _, body := range bodies {
		req := httptest.NewRequest("POST", "/auth/login", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)

		var response map[string]interface{}
		err := json.Unmarshal(w.Body.Bytes(), &response)
		require.NoError(t, err)
		messages = append(messages, response["error"].(string))
	}

	assert.Equal(t, messages[0], messages[1])

	mockService.AssertExpectations(t)
}

func TestLogin_MissingFields(t *testing.T) {
	mockService := new(MockUserService)
	router, controller := setupTestRouter(mockService)

	router.POST("/auth/login", controller.Login)

	reqBody := `{"username":"admin"}`
	req := httptest.NewRequest("POST", "/auth/login", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	mockService.AssertNotCalled(t, "Login")
}

func TestVerify_Success(t *testing.T) {
	router, controller := setupTestRouter(new(MockUserService))

	router.GET("/auth/verify", func(c *gin.Context) {
		c.Set(auth.UsernameKey, "admin")
		controller.Verify(c)
	})

	req := httptest.NewRequest("GET", "/auth/verify", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)
	assert.Equal(t, "admin", response["username"])
}

func TestVerify_NoUserInContext(t *testing.T) {
	router, controller := setupTestRouter(new(MockUserService))

	// No auth middleware, nothing set in context
	router.GET("/auth/verify", controller.Verify)

	req := httptest.NewRequest("GET", "/auth/verify", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
