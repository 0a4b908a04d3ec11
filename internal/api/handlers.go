package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/medvertical/records-sub015/internal/backend"
	"github.com/medvertical/records-sub015/internal/domain"
	"github.com/medvertical/records-sub015/internal/fhir"
)

// HealthResponse is the body of GET /api/health
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Services  map[string]string `json:"services"`
}

// Handlers aggregates all HTTP handlers
type Handlers struct {
	store  backend.Backend
	fhir   *fhir.Client
	logger *zap.Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(store backend.Backend, fhirClient *fhir.Client, logger *zap.Logger) *Handlers {
	return &Handlers{
		store:  store,
		fhir:   fhirClient,
		logger: logger.Named("handlers"),
	}
}

// ListFhirServers handles GET /api/fhir/servers
func (h *Handlers) ListFhirServers(c *gin.Context) {
	servers, err := h.store.GetAll(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to fetch FHIR servers", zap.Error(err))
		c.JSON(500, gin.H{"error": "Failed to fetch FHIR servers"})
		return
	}

	c.JSON(200, servers)
}

// RegisterFhirServer handles POST /api/fhir/servers.
// Success is 200, not 201 - existing clients depend on it.
func (h *Handlers) RegisterFhirServer(c *gin.Context) {
	var req domain.RegisterServerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		// Unparseable bodies fall through to the required-fields check
		req = domain.RegisterServerRequest{}
	}

	if req.Name == "" || req.URL == "" {
		c.JSON(400, gin.H{"error": "Name and URL are required"})
		return
	}

	server := &domain.FhirServer{
		Name: req.Name,
		URL:  req.URL,
	}
	if err := h.store.Create(c.Request.Context(), server); err != nil {
		h.logger.Error("Failed to add FHIR server", zap.Error(err))
		c.JSON(500, gin.H{"error": "Failed to add FHIR server"})
		return
	}

	c.JSON(200, server)
}

// Health handles GET /api/health. It is a readiness stub: the reported
// service states are static and no collaborator is probed.
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(200, HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Services: map[string]string{
			"database":   "connected",
			"fhirClient": "initialized",
		},
	})
}
