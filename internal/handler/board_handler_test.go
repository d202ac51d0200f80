package handler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"taskboard/internal/handler"
	"taskboard/internal/middleware"
	"taskboard/internal/protocol"
	"taskboard/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockSession struct {
	mock.Mock
}

func (m *MockSession) Connect(userID string) (*session.Subscriber, error) {
	args := m.Called(userID)
	sub := args.Get(0)
	if sub == nil {
		return nil, args.Error(1)
	}
	return sub.(*session.Subscriber), args.Error(1)
}

func (m *MockSession) Disconnect(sub *session.Subscriber) {
	m.Called(sub)
}

func (m *MockSession) HandleFrame(ctx context.Context, sub *session.Subscriber, frame []byte) error {
	return m.Called(ctx, sub, frame).Error(0)
}

func (m *MockSession) InitialData() protocol.InitialData {
	return m.Called().Get(0).(protocol.InitialData)
}

func setupMockRouter() (*gin.Engine, *MockSession) {
	gin.SetMode(gin.TestMode)
	mockSess := new(MockSession)
	boardHandler := handler.NewBoardHandler(mockSess)
	wsHandler := handler.NewWSHandler(mockSess, nil, []string{"http://localhost:3000"})

	r := gin.New()
	r.Use(middleware.Identity())
	r.GET("/board", boardHandler.GetBoard)
	r.GET("/health", boardHandler.Health)
	r.GET("/ws", wsHandler.Serve)
	return r, mockSess
}

func TestGetBoard_ReturnsSnapshot(t *testing.T) {
	// Arrange
	router, mockSess := setupMockRouter()
	mockSess.On("InitialData").Return(protocol.InitialData{
		ColumnOrder:   []string{"column-1"},
		OnlineUsers:   3,
		HistoryLength: 2,
		CanUndo:       true,
	})
	req, _ := http.NewRequest(http.MethodGet, "/board", nil)

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"columnOrder":["column-1"]`)
	assert.Contains(t, resp.Body.String(), `"onlineUsers":3`)
	assert.Contains(t, resp.Body.String(), `"canUndo":true`)
	mockSess.AssertExpectations(t)
}

func TestHealth_ReportsOnlineUsers(t *testing.T) {
	// Arrange
	router, mockSess := setupMockRouter()
	mockSess.On("InitialData").Return(protocol.InitialData{OnlineUsers: 2})
	req, _ := http.NewRequest(http.MethodGet, "/health", nil)

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `{"status":"ok","onlineUsers":2}`, resp.Body.String())
	mockSess.AssertExpectations(t)
}

func TestWS_PlainRequestIsNotUpgraded(t *testing.T) {
	// Arrange
	router, mockSess := setupMockRouter()
	req, _ := http.NewRequest(http.MethodGet, "/ws?userId=user-john", nil)

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	mockSess.AssertNotCalled(t, "Connect", mock.Anything)
}

func TestWS_ForeignOriginRefused(t *testing.T) {
	// Arrange
	router, mockSess := setupMockRouter()
	req, _ := http.NewRequest(http.MethodGet, "/ws?userId=user-john", nil)
	req.Header.Set("Connection", "upgrade")
	req.Header.Set("Upgrade", "websocket")
	req.Header.Set("Sec-WebSocket-Version", "13")
	req.Header.Set("Sec-WebSocket-Key", "dGhlIHNhbXBsZSBub25jZQ==")
	req.Header.Set("Origin", "https://evil.example.com")

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusForbidden, resp.Code)
	mockSess.AssertNotCalled(t, "Connect", mock.Anything)
}
