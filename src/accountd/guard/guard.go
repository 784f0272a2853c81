// Package guard implements declarative role-based access control for HTTP
// routes. Role requirements are declared at registration time in an explicit
// Registry, either for a whole handler group or for a single operation; an
// operation-level declaration always replaces the group-level one. The check
// itself is a pure predicate over the declared requirement and the caller's
// principal, so it can be evaluated and tested without any HTTP machinery.
package guard

import (
	"strings"

	"github.com/castelan/accountd/src/common/logs"
)

// Package-level logger, must be initialized via SetLogger
var log *logs.Logger

// SetLogger sets the package-level logger
func SetLogger(l *logs.Logger) {
	log = l
}

// Principal is the authenticated caller identity a requirement is checked
// against. A nil Principal means the request carried no valid token.
type Principal struct {
	ID    string
	Email string
	Role  string
}

// Requirement is the set of roles declared for a group or operation.
// Any single match grants access.
type Requirement struct {
	Roles []string
}

// Registry holds role requirements declared at route-registration time.
// Lookups never fall back to reflection or runtime metadata: what was
// registered is all there is.
type Registry struct {
	groups     map[string]Requirement
	operations map[string]Requirement
}

// NewRegistry creates an empty requirement registry
func NewRegistry() *Registry {
	return &Registry{
		groups:     make(map[string]Requirement),
		operations: make(map[string]Requirement),
	}
}

// RequireGroup declares the roles required for every operation in a group
func (r *Registry) RequireGroup(group string, roles ...string) {
	r.groups[group] = Requirement{Roles: roles}
	if log != nil {
		log.Debug("Registered group requirement", "group", group, "roles", roles)
	}
}

// RequireOperation declares the roles required for a single operation,
// overriding any group-level declaration
func (r *Registry) RequireOperation(operation string, roles ...string) {
	r.operations[operation] = Requirement{Roles: roles}
	if log != nil {
		log.Debug("Registered operation requirement", "operation", operation, "roles", roles)
	}
}

// RolesFor resolves the effective requirement for an operation within a
// group. The operation-level declaration wins; absent both, there is no
// requirement and the second return value is false.
func (r *Registry) RolesFor(operation, group string) (Requirement, bool) {
	if req, ok := r.operations[operation]; ok {
		return req, true
	}
	if req, ok := r.groups[group]; ok {
		return req, true
	}
	return Requirement{}, false
}

// Check evaluates a requirement against a principal.
//
// No requirement means the route is open. A requirement with no principal is
// always denied. Otherwise the principal's role must contain or equal at
// least one of the required roles; an empty role never matches anything.
func Check(required []string, principal *Principal) bool {
	if len(required) == 0 {
		return true
	}
	if principal == nil || principal.Role == "" {
		return false
	}
	for _, role := range required {
		if role == "" {
			continue
		}
		if strings.Contains(principal.Role, role) {
			return true
		}
	}
	return false
}
