package domain

// Theme holds the four per-tenant colors projected into the UI as CSS custom
// properties.
type Theme struct {
	PrimaryColor        string `json:"primaryColor"`
	MenuBgColor         string `json:"menuBgColor"`
	MenuTextColor       string `json:"menuTextColor"`
	MenuActiveTextColor string `json:"menuActiveTextColor"`
}

// TenantConfig is the branding and module configuration of one tenant
// (an "MJ-NNNNN" company). It is fetched once per process from
// GET /config/company/{tenantId}, merged over the defaults and persisted.
type TenantConfig struct {
	TenantID string   `json:"companyId,omitempty"`
	Logo     string   `json:"logo"`
	Title    string   `json:"title"`
	LoginBg  string   `json:"loginBg"`
	Theme    Theme    `json:"theme"`
	Modules  []string `json:"modules"`
}

// HasModule reports whether the named feature area is enabled for the tenant.
func (c *TenantConfig) HasModule(module string) bool {
	for _, m := range c.Modules {
		if m == module {
			return true
		}
	}
	return false
}

// DefaultTenantConfig returns the hardcoded fallback configuration used until
// a tenant is resolved, and as the merge base for every remote config.
func DefaultTenantConfig() TenantConfig {
	return TenantConfig{
		Logo:    "/admin/management.svg",
		Title:   "后台管理系统",
		LoginBg: "/admin/bg4.jpg",
		Theme: Theme{
			PrimaryColor:        "#409EFF",
			MenuBgColor:         "#304156",
			MenuTextColor:       "#bfcbd9",
			MenuActiveTextColor: "#409EFF",
		},
		Modules: []string{"user"},
	}
}
