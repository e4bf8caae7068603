package service

import (
	"fmt"
	"sync"

	"github.com/sksk7108/gzgoodidea-mj-management/internal/domain"
)

// ThemeSheet projects the active tenant theme into CSS custom properties,
// the same four variables the console shell consumes. Apply is idempotent.
type ThemeSheet struct {
	mu    sync.RWMutex
	theme domain.Theme
}

func NewThemeSheet() *ThemeSheet {
	return &ThemeSheet{theme: domain.DefaultTenantConfig().Theme}
}

// Apply replaces the active theme. Empty fields keep their current value so
// a partial theme never blanks a variable.
func (s *ThemeSheet) Apply(theme domain.Theme) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if theme.PrimaryColor != "" {
		s.theme.PrimaryColor = theme.PrimaryColor
	}
	if theme.MenuBgColor != "" {
		s.theme.MenuBgColor = theme.MenuBgColor
	}
	if theme.MenuTextColor != "" {
		s.theme.MenuTextColor = theme.MenuTextColor
	}
	if theme.MenuActiveTextColor != "" {
		s.theme.MenuActiveTextColor = theme.MenuActiveTextColor
	}
}

// Theme returns the active theme.
func (s *ThemeSheet) Theme() domain.Theme {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.theme
}

// CSS renders the theme as a :root rule, ready to serve as a stylesheet.
func (s *ThemeSheet) CSS() string {
	s.mu.RLock()
	t := s.theme
	s.mu.RUnlock()
	return fmt.Sprintf(
		":root {\n  --el-color-primary: %s;\n  --menu-bg-color: %s;\n  --menu-text-color: %s;\n  --menu-active-text-color: %s;\n}\n",
		t.PrimaryColor, t.MenuBgColor, t.MenuTextColor, t.MenuActiveTextColor,
	)
}
