package api

import (
	"github.com/castelan/accountd/src/accountd/account"
	"github.com/castelan/accountd/src/accountd/guard"
	"github.com/castelan/accountd/src/common/logs"
	"github.com/castelan/accountd/src/common/version"
)

// VersionInfo is set by the server at startup
var VersionInfo *version.Info

// SetLogger sets the logger for the api package and subpackages
func SetLogger(l *logs.Logger) {
	account.SetLogger(l)
	guard.SetLogger(l)
}

// SetVersionInfo sets the version info for the api package
func SetVersionInfo(v *version.Info) {
	VersionInfo = v
}

// New creates a new API instance with all handlers and the access-control
// registry. Role requirements are declared here, at construction time, so
// the full access map of the server is visible in one place.
func New(cfg Config) *API {
	registry := guard.NewRegistry()

	// The users group is admin-only; the stats operation declares its own
	// requirement, which replaces the group one during enforcement.
	registry.RequireGroup("users", account.RoleAdmin)
	registry.RequireOperation("users.stats", account.RoleAdmin)

	return &API{
		Accounts: account.NewHandler(account.Config{
			Store:      cfg.AccountStore,
			Tokens:     cfg.TokenService,
			BcryptCost: cfg.BcryptCost,
		}),

		tokens:   cfg.TokenService,
		registry: registry,
	}
}

// Registry exposes the access-control registry, mainly for tests
func (a *API) Registry() *guard.Registry {
	return a.registry
}
