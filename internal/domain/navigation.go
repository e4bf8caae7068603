package domain

// Target is what a navigation attempt resolves to: the destination path and,
// when the route belongs to a gated feature area, the module that must be
// enabled for the tenant. Targets are produced per navigation by the routing
// table and never persisted.
type Target struct {
	Path           string `json:"path"`
	RequiredModule string `json:"requiredModule,omitempty"`
}

// Outcome is the terminal result of one route-guard evaluation.
type Outcome string

const (
	OutcomeProceed          Outcome = "proceed"
	OutcomeRedirectLogin    Outcome = "redirect_login"
	OutcomeRedirectNotFound Outcome = "redirect_not_found"
	OutcomeRedirectHome     Outcome = "redirect_home"
)

// Decision is the guard verdict for a single navigation. Location is the
// redirect destination and is empty when the navigation proceeds.
type Decision struct {
	Outcome  Outcome `json:"outcome"`
	Location string  `json:"location,omitempty"`
}

// Proceeds reports whether the navigation may render its target.
func (d Decision) Proceeds() bool {
	return d.Outcome == OutcomeProceed
}
