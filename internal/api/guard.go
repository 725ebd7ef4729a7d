package api

import (
	"net/http"
	"strings"

	"github.com/seantiz/catsapi/internal/model"
)

// rolesHeader carries the caller's comma-separated roles. There is no
// authentication; the header is trusted as-is.
const rolesHeader = "X-Roles"

const adminRole = model.RoleAdmin

// requestRoles returns the roles asserted by the request.
func requestRoles(r *http.Request) []string {
	var roles []string
	for _, part := range strings.Split(r.Header.Get(rolesHeader), ",") {
		if role := strings.ToLower(strings.TrimSpace(part)); role != "" {
			roles = append(roles, role)
		}
	}
	return roles
}

// rolesGuard rejects requests that hold none of the given roles with 403.
// An empty role list lets every request through.
func rolesGuard(roles ...string) Interceptor {
	return func(next Endpoint) Endpoint {
		return func(r *http.Request) (any, error) {
			if len(roles) == 0 {
				return next(r)
			}
			for _, have := range requestRoles(r) {
				for _, want := range roles {
					if have == want {
						return next(r)
					}
				}
			}
			return nil, errForbidden()
		}
	}
}
