package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func TestRequestID_Generated(t *testing.T) {
	router := gin.New()
	router.Use(RequestID())
	router.GET("/test", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	router.ServeHTTP(w, req)

	id := w.Header().Get(RequestIDHeader)
	if id == "" {
		t.Fatal("Expected a generated request id header")
	}
	if _, err := uuid.Parse(id); err != nil {
		t.Errorf("Expected a uuid request id, got %q", id)
	}
}

func TestRequestID_ClientSupplied(t *testing.T) {
	router := gin.New()
	router.Use(RequestID())

	var seen string
	router.GET("/test", func(c *gin.Context) {
		seen = c.GetString(RequestIDKey)
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set(RequestIDHeader, "trace-123")
	router.ServeHTTP(w, req)

	if w.Header().Get(RequestIDHeader) != "trace-123" {
		t.Errorf("Expected supplied id to be echoed, got %q", w.Header().Get(RequestIDHeader))
	}
	if seen != "trace-123" {
		t.Errorf("Expected supplied id in context, got %q", seen)
	}
}
