package service

import (
	"strings"

	"github.com/sksk7108/gzgoodidea-mj-management/internal/domain"
)

// routeTable maps console paths to the tenant module that must be enabled
// for them. An empty module means the route is open to any tenant.
var routeTable = map[string]domain.Target{
	"/":                {Path: "/", RequiredModule: ""},
	"/404":             {Path: "/404", RequiredModule: ""},
	"/dashboard":       {Path: "/dashboard", RequiredModule: "dashboard"},
	"/user":            {Path: "/user", RequiredModule: "user"},
	"/user/list":       {Path: "/user/list", RequiredModule: "user"},
	"/system":          {Path: "/system", RequiredModule: "system"},
	"/system/settings": {Path: "/system/settings", RequiredModule: "system"},
}

// LookupRoute resolves a path to its navigation target. Login paths,
// including the tenant-qualified "/login/MJ-10001" form, never require a
// module. Unknown paths map to the not-found target so the guard can still
// run the module check uniformly.
func LookupRoute(path string) domain.Target {
	if IsLoginPath(path) {
		return domain.Target{Path: path, RequiredModule: ""}
	}
	if target, ok := routeTable[path]; ok {
		return target
	}
	return domain.Target{Path: path, RequiredModule: ""}
}

// IsLoginPath reports whether the path is the login page or a
// tenant-qualified variant of it.
func IsLoginPath(path string) bool {
	return path == "/login" || strings.HasPrefix(path, "/login/")
}

// KnownRoute reports whether the path exists in the route table.
func KnownRoute(path string) bool {
	if IsLoginPath(path) {
		return true
	}
	_, ok := routeTable[path]
	return ok
}
