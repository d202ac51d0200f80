package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"taskboard/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.Identity())

	r.GET("/whoami", func(c *gin.Context) {
		userID, exists := c.Get(middleware.UserIDKey)
		if !exists {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "User ID not found in context"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"user_id": userID})
	})

	return r
}

func whoami(t *testing.T, router *gin.Engine, req *http.Request) (int, string) {
	t.Helper()
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	var body map[string]string
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	if resp.Code != http.StatusOK {
		return resp.Code, body["error"]
	}
	return resp.Code, body["user_id"]
}

func TestIdentity_Header(t *testing.T) {
	// Arrange
	router := setupRouter()
	req, _ := http.NewRequest(http.MethodGet, "/whoami?userId=user-sarah", nil)
	req.Header.Set(middleware.UserIDHeader, " user-john ")

	// Act
	code, userID := whoami(t, router, req)

	// Assert
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "user-john", userID)
}

func TestIdentity_QueryParam(t *testing.T) {
	// Arrange
	router := setupRouter()
	req, _ := http.NewRequest(http.MethodGet, "/whoami?userId=user-sarah", nil)

	// Act
	code, userID := whoami(t, router, req)

	// Assert
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "user-sarah", userID)
}

func TestIdentity_GuestGetsUUID(t *testing.T) {
	// Arrange
	router := setupRouter()
	req, _ := http.NewRequest(http.MethodGet, "/whoami", nil)

	// Act
	code, userID := whoami(t, router, req)

	// Assert
	assert.Equal(t, http.StatusOK, code)
	_, err := uuid.Parse(userID)
	assert.NoError(t, err)
}

func TestIdentity_TooLong(t *testing.T) {
	// Arrange
	router := setupRouter()
	req, _ := http.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set(middleware.UserIDHeader, strings.Repeat("x", 200))

	// Act
	code, msg := whoami(t, router, req)

	// Assert
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "User ID is too long", msg)
}
