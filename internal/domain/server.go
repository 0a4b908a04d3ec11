package domain

import (
	"time"
)

// FhirServer is a registered FHIR endpoint.
type FhirServer struct {
	ID        string    `json:"id" bson:"_id,omitempty"`
	Name      string    `json:"name" bson:"name"`
	URL       string    `json:"url" bson:"url"`
	CreatedAt time.Time `json:"createdAt" bson:"created_at"`
}

// RegisterServerRequest is the body of POST /api/fhir/servers.
// Both fields are validated in the handler rather than via binding tags:
// the contract requires a fixed 400 message, not gin's validator output.
type RegisterServerRequest struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}
