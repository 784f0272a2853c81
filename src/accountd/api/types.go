package api

import (
	"github.com/castelan/accountd/src/accountd/account"
	"github.com/castelan/accountd/src/accountd/db"
	"github.com/castelan/accountd/src/accountd/guard"
)

// API holds all handler instances and dependencies
type API struct {
	Accounts *account.Handler

	tokens   *account.TokenService
	registry *guard.Registry
}

// Config contains API configuration options
type Config struct {
	Database     *db.Database
	AccountStore *account.Store
	TokenService *account.TokenService
	BcryptCost   int
}

// APIInfo represents the root API discovery response
type APIInfo struct {
	Name        string           `json:"name" example:"accountd"`
	Description string           `json:"description" example:"Account and access-control API server"`
	Version     string           `json:"version" example:"1.0.0"`
	APIVersions []string         `json:"api_versions" example:"v1"`
	Endpoints   APIInfoEndpoints `json:"endpoints"`
}

// APIInfoEndpoints contains the available API endpoints
type APIInfoEndpoints struct {
	Health  string `json:"health" example:"/v1/health"`
	Version string `json:"version" example:"/v1/version"`
	Signup  string `json:"signup" example:"/signup"`
	Login   string `json:"login" example:"/login"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string `json:"status" example:"healthy"`
	Timestamp string `json:"timestamp" example:"2026-01-15T10:30:00Z"`
}

// VersionResponse represents the version information response
type VersionResponse struct {
	Version        string `json:"version" example:"v1.0.0-4f9f297"`
	ReleaseVersion string `json:"release_version" example:"1.0.0"`
	BuildDate      string `json:"build_date" example:"2026-01-15T10:30:00Z"`
	GitCommit      string `json:"git_commit" example:"4f9f297"`
	GoVersion      string `json:"go_version" example:"go1.24"`
}
