package access

import "github.com/TheRoboticsClubNstRishihood/newtonbotics-admin-pannel-sub000/internal/model"

// NavEntry is a navigation item as rendered. Disabled entries stay visible.
type NavEntry struct {
	Name     string `json:"name"`
	Icon     string `json:"icon"`
	Href     string `json:"href"`
	Enabled  bool   `json:"enabled"`
	Active   bool   `json:"active"`
	Tooltip  string `json:"tooltip,omitempty"`
	Required string `json:"required,omitempty"`
}

type Decision struct {
	EnabledRoutes map[string]bool `json:"enabledRoutes"`
	Restricted    bool            `json:"restricted"`
	Navigation    []NavEntry      `json:"navigation"`
}

// Allowed reports whether role and leadership satisfy the route.
func (r Route) Allowed(role string, isProjectLeader bool) bool {
	switch role {
	case model.RoleAdmin:
		return true
	case model.RoleTeamMember:
		if r.MinRole != model.RoleTeamMember {
			return false
		}
		if r.Capability == CapProjectLeader {
			return isProjectLeader
		}
		return true
	default:
		return false
	}
}

// Resolve evaluates the access table for one request. Admins see every
// route enabled and are never restricted. For anyone else a page body is
// restricted when the path falls under an admin-only route and under no
// team-member route. Capability-gated team routes such as /media are only
// disabled in the navigation; undeclared paths are not restricted.
func Resolve(role string, isProjectLeader bool, path string) Decision {
	enabled := make(map[string]bool, len(Routes))
	nav := make([]NavEntry, 0, len(Routes))
	for _, r := range Routes {
		ok := r.Allowed(role, isProjectLeader)
		if ok {
			enabled[r.Href] = true
		}
		entry := NavEntry{
			Name:    r.Name,
			Icon:    r.Icon,
			Href:    r.Href,
			Enabled: ok,
			Active:  MatchPrefix(path, r.Href),
		}
		if !ok {
			entry.Tooltip = tooltip(r)
			entry.Required = r.MinRole
		}
		nav = append(nav, entry)
	}

	restricted := role != model.RoleAdmin &&
		matchesAny(path, AdminOnlyRoutes()) &&
		!matchesAny(path, TeamMemberAllowedRoutes())

	return Decision{EnabledRoutes: enabled, Restricted: restricted, Navigation: nav}
}

func matchesAny(path string, hrefs []string) bool {
	for _, href := range hrefs {
		if MatchPrefix(path, href) {
			return true
		}
	}
	return false
}

func tooltip(r Route) string {
	if r.Capability == CapProjectLeader {
		return "Available to project leaders"
	}
	if r.MinRole == model.RoleAdmin {
		return "Admin access required"
	}
	return "Not available for your role"
}
