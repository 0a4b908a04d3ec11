// Package fhir provides a minimal client for upstream FHIR endpoints.
// The registry itself does not speak FHIR; the client is constructed at
// startup and carried as a collaborator for capability discovery.
package fhir

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/medvertical/records-sub015/pkg/config"
)

// CapabilityStatement is the subset of a FHIR CapabilityStatement the
// client decodes from {base}/metadata.
type CapabilityStatement struct {
	ResourceType string `json:"resourceType"`
	Status       string `json:"status"`
	FhirVersion  string `json:"fhirVersion"`
	Software     struct {
		Name    string `json:"name"`
		Version string `json:"version"`
	} `json:"software"`
}

// Client fetches capability metadata from a FHIR server
type Client struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

// NewClient creates a new FHIR client
func NewClient(cfg *config.FHIRConfig, logger *zap.Logger) *Client {
	timeout := time.Duration(cfg.Timeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		logger:  logger.Named("fhir"),
	}
}

// BaseURL returns the configured upstream base URL (may be empty)
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Metadata fetches the CapabilityStatement from {base}/metadata
func (c *Client) Metadata(ctx context.Context) (*CapabilityStatement, error) {
	if c.baseURL == "" {
		return nil, fmt.Errorf("no FHIR base URL configured")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/metadata", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/fhir+json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch metadata: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("metadata request returned status %d", resp.StatusCode)
	}

	var cs CapabilityStatement
	if err := json.NewDecoder(resp.Body).Decode(&cs); err != nil {
		return nil, fmt.Errorf("failed to decode capability statement: %w", err)
	}

	if cs.ResourceType != "CapabilityStatement" {
		return nil, fmt.Errorf("unexpected resource type %q", cs.ResourceType)
	}

	c.logger.Debug("Fetched capability statement",
		zap.String("fhir_version", cs.FhirVersion),
		zap.String("software", cs.Software.Name))

	return &cs, nil
}
