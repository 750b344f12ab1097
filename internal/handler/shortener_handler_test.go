package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/HrustakV/kratky-link/internal/domain"
	"github.com/HrustakV/kratky-link/tests/mocks"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func TestShorten_Success(t *testing.T) {
	mockService := new(mocks.MockShortenerService)
	h := NewShortenerHandler(mockService, "https://kratky.link")
	router := setupTestRouter()
	router.POST("/api/shorten", h.Shorten)

	reqBody := `{"url": "https://example.com/x"}`
	req := httptest.NewRequest("POST", "/api/shorten", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	mockService.On("Shorten", mock.Anything, mock.MatchedBy(func(req *domain.CreateLinkRequest) bool {
		return req.OriginalURL == "https://example.com/x"
	})).Return(&domain.Link{
		ID:          1,
		ShortCode:   "abc123",
		OriginalURL: "https://example.com/x",
		IsActive:    true,
	}, nil).Once()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var response struct {
		Success bool                   `json:"success"`
		Data    map[string]interface{} `json:"data"`
	}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.True(t, response.Success)
	assert.Equal(t, "abc123", response.Data["short_code"])
	assert.Equal(t, "https://kratky.link/abc123", response.Data["short_url"])
	assert.Equal(t, "https://example.com/x", response.Data["original_url"])

	mockService.AssertExpectations(t)
}

func TestShorten_CustomAliasInShortURL(t *testing.T) {
	mockService := new(mocks.MockShortenerService)
	h := NewShortenerHandler(mockService, "https://kratky.link/")
	router := setupTestRouter()
	router.POST("/api/shorten", h.Shorten)

	custom := "my-link"
	reqBody := `{"url": "https://example.com", "custom_code": "my-link"}`
	req := httptest.NewRequest("POST", "/api/shorten", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	mockService.On("Shorten", mock.Anything, mock.MatchedBy(func(req *domain.CreateLinkRequest) bool {
		return req.CustomCode == "my-link"
	})).Return(&domain.Link{
		ID:          2,
		ShortCode:   "abc123",
		CustomCode:  &custom,
		OriginalURL: "https://example.com",
		IsActive:    true,
	}, nil).Once()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var response struct {
		Data map[string]interface{} `json:"data"`
	}
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, "https://kratky.link/my-link", response.Data["short_url"])
	assert.Equal(t, "my-link", response.Data["custom_code"])

	mockService.AssertExpectations(t)
}

func TestShorten_InvalidJSON(t *testing.T) {
	mockService := new(mocks.MockShortenerService)
	h := NewShortenerHandler(mockService, "https://kratky.link")
	router := setupTestRouter()
	router.POST("/api/shorten", h.Shorten)

	req := httptest.NewRequest("POST", "/api/shorten", strings.NewReader(`{invalid json}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "Shorten")
}

func TestShorten_MissingURL(t *testing.T) {
	mockService := new(mocks.MockShortenerService)
	h := NewShortenerHandler(mockService, "https://kratky.link")
	router := setupTestRouter()
	router.POST("/api/shorten", h.Shorten)

	reqBody := `{"custom_code": "my-link"}`
	req := httptest.NewRequest("POST", "/api/shorten", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, "Validation failed", response["message"])

	mockService.AssertNotCalled(t, "Shorten")
}

func TestShorten_InvalidAliasSyntax(t *testing.T) {
	mockService := new(mocks.MockShortenerService)
	h := NewShortenerHandler(mockService, "https://kratky.link")
	router := setupTestRouter()
	router.POST("/api/shorten", h.Shorten)

	reqBody := `{"url": "https://example.com", "custom_code": "a b"}`
	req := httptest.NewRequest("POST", "/api/shorten", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "Shorten")
}

func TestShorten_ErrorMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"invalid url", domain.ErrInvalidURL, http.StatusBadRequest},
		{"loop url", domain.ErrLoopURL, http.StatusBadRequest},
		{"alias taken", domain.ErrAliasTaken, http.StatusConflict},
		{"generation exhausted", domain.ErrGenerationExhausted, http.StatusInternalServerError},
		{"store failure", errors.New("connection refused"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mockService := new(mocks.MockShortenerService)
			h := NewShortenerHandler(mockService, "https://kratky.link")
			router := setupTestRouter()
			router.POST("/api/shorten", h.Shorten)

			mockService.On("Shorten", mock.Anything, mock.Anything).Return(nil, tc.err).Once()

			req := httptest.NewRequest("POST", "/api/shorten", strings.NewReader(`{"url": "https://example.com"}`))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			assert.Equal(t, tc.status, w.Code)
			mockService.AssertExpectations(t)
		})
	}
}

func TestShorten_PassesClientIP(t *testing.T) {
	mockService := new(mocks.MockShortenerService)
	h := NewShortenerHandler(mockService, "https://kratky.link")
	router := setupTestRouter()
	router.POST("/api/shorten", h.Shorten)

	mockService.On("Shorten", mock.Anything, mock.MatchedBy(func(req *domain.CreateLinkRequest) bool {
		return req.CreatorIP == "203.0.113.7"
	})).Return(&domain.Link{ID: 1, ShortCode: "abc123", OriginalURL: "https://example.com"}, nil).Once()

	req := httptest.NewRequest("POST", "/api/shorten", strings.NewReader(`{"url": "https://example.com"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	mockService.AssertExpectations(t)
}

func TestRedirect_Success(t *testing.T) {
	mockService := new(mocks.MockShortenerService)
	h := NewShortenerHandler(mockService, "https://kratky.link")
	router := setupTestRouter()
	router.GET("/:code", h.Redirect)

	req := httptest.NewRequest("GET", "/abc123", nil)
	req.Header.Set("User-Agent", "test-agent")
	req.Header.Set("Referer", "https://referrer.example")
	req.Header.Set("X-Real-IP", "203.0.113.7")
	w := httptest.NewRecorder()

	mockService.On("Resolve", mock.Anything, "abc123", mock.MatchedBy(func(visit domain.Visit) bool {
		return visit.UserAgent == "test-agent" &&
			visit.Referer == "https://referrer.example" &&
			visit.IPAddress == "203.0.113.7"
	})).Return(&domain.Link{
		ID:          1,
		ShortCode:   "abc123",
		OriginalURL: "https://example.com/x",
		IsActive:    true,
	}, nil).Once()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "https://example.com/x", w.Header().Get("Location"))

	mockService.AssertExpectations(t)
}

func TestRedirect_NotFound(t *testing.T) {
	mockService := new(mocks.MockShortenerService)
	h := NewShortenerHandler(mockService, "https://kratky.link")
	router := setupTestRouter()
	router.GET("/:code", h.Redirect)

	req := httptest.NewRequest("GET", "/missing", nil)
	w := httptest.NewRecorder()

	mockService.On("Resolve", mock.Anything, "missing", mock.Anything).
		Return(nil, domain.ErrNotFound).Once()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	mockService.AssertExpectations(t)
}

func TestRedirect_StoreErrorCollapsesToNotFound(t *testing.T) {
	// Visitors cannot distinguish a store outage from a missing code.
	mockService := new(mocks.MockShortenerService)
	h := NewShortenerHandler(mockService, "https://kratky.link")
	router := setupTestRouter()
	router.GET("/:code", h.Redirect)

	req := httptest.NewRequest("GET", "/abc123", nil)
	w := httptest.NewRecorder()

	mockService.On("Resolve", mock.Anything, "abc123", mock.Anything).
		Return(nil, errors.New("database connection failed")).Once()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	mockService.AssertExpectations(t)
}
