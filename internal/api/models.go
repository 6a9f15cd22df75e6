package api

import "github.com/smazurov/lightnode/internal/version"

// HealthData is the health check payload.
type HealthData struct {
	Status string `json:"status" example:"ok" doc:"Health status"`
}

// HealthResponse wraps HealthData for Huma.
type HealthResponse struct {
	Body HealthData
}

// VersionResponse wraps version info for Huma.
type VersionResponse struct {
	Body version.Info
}
