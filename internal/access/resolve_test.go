package access

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/TheRoboticsClubNstRishihood/newtonbotics-admin-pannel-sub000/internal/model"
	"github.com/TheRoboticsClubNstRishihood/newtonbotics-admin-pannel-sub000/internal/staging"
)

func TestNonAdminRestrictedOnAdminRoutes(t *testing.T) {
	teamAllowed := TeamMemberAllowedRoutes()
	roles := []string{model.RoleTeamMember, model.RoleModerator, model.RoleStudent, "", "guest"}
	for _, role := range roles {
		for _, leader := range []bool{false, true} {
			for _, href := range AdminOnlyRoutes() {
				for _, path := range []string{href, href + "/edit/123"} {
					covered := false
					for _, allowed := range teamAllowed {
						if MatchPrefix(path, allowed) {
							covered = true
						}
					}
					d := Resolve(role, leader, path)
					if !covered && !d.Restricted {
						t.Fatalf("role %q leader=%v path %q: expected restricted", role, leader, path)
					}
				}
			}
		}
	}
}

func TestAdminNeverRestricted(t *testing.T) {
	for _, r := range Routes {
		for _, path := range []string{r.Href, r.Href + "/create", r.Href + "/edit/42"} {
			d := Resolve(model.RoleAdmin, false, path)
			if d.Restricted {
				t.Fatalf("admin restricted on %q", path)
			}
		}
	}
	d := Resolve(model.RoleAdmin, false, "/dashboard")
	if len(d.EnabledRoutes) != len(Routes) {
		t.Fatalf("expected all %d routes enabled for admin, got %d", len(Routes), len(d.EnabledRoutes))
	}
}

func TestTeamMemberEnabledRoutes(t *testing.T) {
	cases := []struct {
		leader bool
		want   []string
	}{
		{leader: false, want: []string{"/projects"}},
		{leader: true, want: []string{"/projects", "/media"}},
	}
	for _, tc := range cases {
		d := Resolve(model.RoleTeamMember, tc.leader, "/projects")
		if len(d.EnabledRoutes) != len(tc.want) {
			t.Fatalf("leader=%v: expected %v, got %v", tc.leader, tc.want, d.EnabledRoutes)
		}
		for _, href := range tc.want {
			if !d.EnabledRoutes[href] {
				t.Fatalf("leader=%v: expected %s enabled", tc.leader, href)
			}
		}
	}
}

func TestMediaDisabledButNotRestricted(t *testing.T) {
	d := Resolve(model.RoleTeamMember, false, "/media")
	if d.Restricted {
		t.Fatalf("expected /media body open for team member")
	}
	if d.EnabledRoutes["/media"] {
		t.Fatalf("expected /media disabled in navigation for non-leader")
	}
	if Resolve(model.RoleTeamMember, true, "/media/upload").Restricted {
		t.Fatalf("expected /media/upload open for leader")
	}
	if Resolve(model.RoleTeamMember, false, "/projects/edit/123").Restricted {
		t.Fatalf("expected project sub-path open for team member")
	}
}

// Restricted must equal: not admin, under an admin-only route, under no
// team-member route.
func TestRestrictedMatchesAllowLists(t *testing.T) {
	under := func(path string, hrefs []string) bool {
		for _, href := range hrefs {
			if MatchPrefix(path, href) {
				return true
			}
		}
		return false
	}
	roles := []string{model.RoleAdmin, model.RoleTeamMember, model.RoleModerator, model.RoleStudent, ""}
	var paths []string
	for _, r := range Routes {
		paths = append(paths, r.Href, r.Href+"/", r.Href+"/edit/42", r.Href+"x")
	}
	paths = append(paths, "/", "/profile")
	for _, role := range roles {
		for _, leader := range []bool{false, true} {
			for _, path := range paths {
				want := role != model.RoleAdmin && under(path, AdminOnlyRoutes()) && !under(path, TeamMemberAllowedRoutes())
				if got := Resolve(role, leader, path).Restricted; got != want {
					t.Fatalf("role %q leader=%v path %q: restricted=%v, want %v", role, leader, path, got, want)
				}
			}
		}
	}
}

func TestDisabledEntriesStayVisible(t *testing.T) {
	d := Resolve(model.RoleTeamMember, false, "/projects/7")
	if len(d.Navigation) != len(Routes) {
		t.Fatalf("expected %d nav entries, got %d", len(Routes), len(d.Navigation))
	}
	for _, entry := range d.Navigation {
		switch entry.Href {
		case "/projects":
			if !entry.Enabled || !entry.Active {
				t.Fatalf("expected projects enabled and active: %+v", entry)
			}
		default:
			if entry.Enabled {
				t.Fatalf("expected %s disabled", entry.Href)
			}
			if entry.Tooltip == "" {
				t.Fatalf("expected tooltip on %s", entry.Href)
			}
		}
	}
}

func TestMatchPrefix(t *testing.T) {
	cases := []struct {
		path, href string
		want       bool
	}{
		{"/projects", "/projects", true},
		{"/projects/", "/projects", true},
		{"/projects/edit/123", "/projects", true},
		{"/projects?tab=mine", "/projects", true},
		{"/projectsx", "/projects", false},
		{"/news", "/newsletter", false},
		{"/newsletter/campaigns/1", "/newsletter", true},
	}
	for _, tc := range cases {
		if got := MatchPrefix(tc.path, tc.href); got != tc.want {
			t.Fatalf("MatchPrefix(%q, %q) = %v, want %v", tc.path, tc.href, got, tc.want)
		}
	}
}

func TestUndeclaredPathNotRestricted(t *testing.T) {
	if Resolve(model.RoleTeamMember, false, "/profile").Restricted {
		t.Fatalf("undeclared paths should not be restricted")
	}
}

func TestAllowListsDerivedFromTable(t *testing.T) {
	admin := AdminOnlyRoutes()
	team := TeamMemberAllowedRoutes()
	if len(admin)+len(team) != len(Routes) {
		t.Fatalf("every route must appear in exactly one list: %d + %d != %d", len(admin), len(team), len(Routes))
	}
}

type stubLookup struct {
	calls  int
	leader bool
	err    error
}

func (s *stubLookup) IsProjectLeader(_ context.Context, _, _ string) (bool, error) {
	s.calls++
	return s.leader, s.err
}

func TestLeaderResolverCaches(t *testing.T) {
	lookup := &stubLookup{leader: true}
	r := NewLeaderResolver(lookup, staging.NewMemory(), time.Minute, nil)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if !r.IsProjectLeader(ctx, "tok", "u1") {
			t.Fatalf("expected leader")
		}
	}
	if lookup.calls != 1 {
		t.Fatalf("expected one backend lookup, got %d", lookup.calls)
	}
}

func TestLeaderResolverFailsClosed(t *testing.T) {
	lookup := &stubLookup{leader: true, err: errors.New("boom")}
	r := NewLeaderResolver(lookup, staging.NewMemory(), time.Minute, nil)
	ctx := context.Background()

	if r.IsProjectLeader(ctx, "tok", "u1") {
		t.Fatalf("expected false on lookup failure")
	}
	lookup.err = nil
	if !r.IsProjectLeader(ctx, "tok", "u1") {
		t.Fatalf("failures must not be cached")
	}
	if r.IsProjectLeader(ctx, "", "u2") {
		t.Fatalf("expected false without token")
	}
}
