package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/castelan/accountd/src/common/version"
)

// handleRoot returns API discovery information
// @Summary      API discovery
// @Description  Returns the server identity and available endpoints
// @Tags         Base
// @Produce      json
// @Success      200  {object}  APIInfo
// @Router       / [get]
func (a *API) handleRoot(c *gin.Context) {
	info := APIInfo{
		Name:        "accountd",
		Description: "Account and access-control API server",
		Version:     VersionInfo.Version,
		APIVersions: []string{"v1"},
		Endpoints: APIInfoEndpoints{
			Health:  "/v1/health",
			Version: "/v1/version",
			Signup:  "/signup",
			Login:   "/login",
		},
	}

	c.JSON(http.StatusOK, info)
}

// handleHealth returns the current health status of the server
// @Summary      Health check
// @Description  Returns the current health status of the server
// @Tags         Base
// @Produce      json
// @Success      200  {object}  HealthResponse
// @Router       /v1/health [get]
func (a *API) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// handleVersion returns version and build information for the server
// @Summary      Version information
// @Description  Returns version and build information for the server
// @Tags         Base
// @Produce      json
// @Success      200  {object}  VersionResponse
// @Router       /v1/version [get]
func (a *API) handleVersion(c *gin.Context) {
	c.JSON(http.StatusOK, VersionResponse{
		Version:        VersionInfo.Version,
		ReleaseVersion: VersionInfo.ReleaseVersion,
		BuildDate:      VersionInfo.BuildDate,
		GitCommit:      VersionInfo.GitCommit,
		GoVersion:      version.GoVersion(),
	})
}
