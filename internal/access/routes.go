package access

import (
	"strings"

	"github.com/TheRoboticsClubNstRishihood/newtonbotics-admin-pannel-sub000/internal/model"
)

// Capability is an extra requirement on top of the minimum role.
type Capability string

const (
	CapNone          Capability = ""
	CapProjectLeader Capability = "project_leader"
)

// Route is one admin section. The navigation menu, the admin-only list and
// the team-member list are all derived from this table, so a new page is
// declared exactly once.
type Route struct {
	Name       string
	Icon       string
	Href       string
	MinRole    string
	Capability Capability
}

var Routes = []Route{
	{Name: "Dashboard", Icon: "home", Href: "/dashboard", MinRole: model.RoleAdmin},
	{Name: "Users", Icon: "users", Href: "/users", MinRole: model.RoleAdmin},
	{Name: "Projects", Icon: "folder", Href: "/projects", MinRole: model.RoleTeamMember},
	{Name: "Media", Icon: "photo", Href: "/media", MinRole: model.RoleTeamMember, Capability: CapProjectLeader},
	{Name: "Events", Icon: "calendar", Href: "/events", MinRole: model.RoleAdmin},
	{Name: "News", Icon: "newspaper", Href: "/news", MinRole: model.RoleAdmin},
	{Name: "Newsletter", Icon: "mail", Href: "/newsletter", MinRole: model.RoleAdmin},
	{Name: "Inventory", Icon: "cube", Href: "/inventory", MinRole: model.RoleAdmin},
	{Name: "Research Areas", Icon: "beaker", Href: "/research-areas", MinRole: model.RoleAdmin},
	{Name: "Reports", Icon: "chart", Href: "/reports", MinRole: model.RoleAdmin},
	{Name: "Settings", Icon: "cog", Href: "/settings", MinRole: model.RoleAdmin},
	{Name: "Documentation", Icon: "book", Href: "/docs", MinRole: model.RoleAdmin},
}

// AdminOnlyRoutes lists hrefs whose minimum role is admin.
func AdminOnlyRoutes() []string {
	var out []string
	for _, r := range Routes {
		if r.MinRole == model.RoleAdmin {
			out = append(out, r.Href)
		}
	}
	return out
}

// TeamMemberAllowedRoutes lists hrefs a team member may reach, including
// those that need an extra capability.
func TeamMemberAllowedRoutes() []string {
	var out []string
	for _, r := range Routes {
		if r.MinRole == model.RoleTeamMember {
			out = append(out, r.Href)
		}
	}
	return out
}

// MatchPrefix reports whether path is href or one of its sub-paths.
// "/projects/edit/1" matches "/projects"; "/projectsx" does not.
func MatchPrefix(path, href string) bool {
	path = cleanPath(path)
	if path == href {
		return true
	}
	return strings.HasPrefix(path, href+"/")
}

func cleanPath(path string) string {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
	}
	return path
}
