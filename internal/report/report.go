package report

import (
	"sort"
	"strconv"
	"strings"

	"github.com/TheRoboticsClubNstRishihood/newtonbotics-admin-pannel-sub000/internal/model"
)

// StudentReport joins one user with the projects they lead or belong to.
// It is derived on demand and never written back.
type StudentReport struct {
	UserID      string
	Name        string
	Email       string
	Role        string
	Department  string
	StudentID   string
	YearOfStudy int
	IsActive    bool
	LeaderOf    []string
	MemberOf    []string
}

func (r StudentReport) ProjectCount() int {
	return len(r.LeaderOf) + len(r.MemberOf)
}

// Build joins users with project membership. A leader listed again among
// the team members is only counted as leader.
func Build(users []model.UserSummary, projects []model.Project) []StudentReport {
	leads := map[string][]string{}
	members := map[string][]string{}
	for _, p := range projects {
		if p.TeamLeaderID != "" {
			leads[p.TeamLeaderID] = append(leads[p.TeamLeaderID], p.Title)
		}
		seen := map[string]bool{p.TeamLeaderID: true}
		for _, m := range p.TeamMembers {
			if m.UserID == "" || seen[m.UserID] {
				continue
			}
			seen[m.UserID] = true
			members[m.UserID] = append(members[m.UserID], p.Title)
		}
	}

	out := make([]StudentReport, 0, len(users))
	for _, u := range users {
		out = append(out, StudentReport{
			UserID:      u.ID,
			Name:        u.FullName(),
			Email:       u.Email,
			Role:        u.Role,
			Department:  u.Department,
			StudentID:   u.StudentID,
			YearOfStudy: u.YearOfStudy,
			IsActive:    u.IsActive,
			LeaderOf:    leads[u.ID],
			MemberOf:    members[u.ID],
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out
}

type Criteria struct {
	Role       string
	Department string
	Search     string
	// Involvement is "leader", "member", "any" or "none"; empty means all.
	Involvement string
}

func Filter(rows []StudentReport, c Criteria) []StudentReport {
	q := strings.ToLower(strings.TrimSpace(c.Search))
	out := make([]StudentReport, 0, len(rows))
	for _, r := range rows {
		if c.Role != "" && r.Role != c.Role {
			continue
		}
		if c.Department != "" && !strings.EqualFold(r.Department, c.Department) {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(r.Name+" "+r.Email+" "+r.StudentID), q) {
			continue
		}
		switch c.Involvement {
		case "leader":
			if len(r.LeaderOf) == 0 {
				continue
			}
		case "member":
			if len(r.MemberOf) == 0 {
				continue
			}
		case "any":
			if r.ProjectCount() == 0 {
				continue
			}
		case "none":
			if r.ProjectCount() != 0 {
				continue
			}
		}
		out = append(out, r)
	}
	return out
}

// Departments lists the distinct departments in rows, sorted.
func Departments(rows []StudentReport) []string {
	set := map[string]bool{}
	for _, r := range rows {
		if r.Department != "" {
			set[r.Department] = true
		}
	}
	out := make([]string, 0, len(set))
	for d := range set {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}

type Variant string

const (
	VariantBasic Variant = "basic"
	VariantFull  Variant = "full"
)

func ParseVariant(s string) Variant {
	if s == string(VariantBasic) {
		return VariantBasic
	}
	return VariantFull
}

func Header(v Variant) []string {
	if v == VariantBasic {
		return []string{"Name", "Email"}
	}
	return []string{"Name", "Email", "Role", "Department", "Student ID", "Year", "Active", "Leading", "Member Of", "Total Projects"}
}

func (r StudentReport) Record(v Variant) []string {
	if v == VariantBasic {
		return []string{r.Name, r.Email}
	}
	year := ""
	if r.YearOfStudy > 0 {
		year = strconv.Itoa(r.YearOfStudy)
	}
	active := "No"
	if r.IsActive {
		active = "Yes"
	}
	return []string{
		r.Name,
		r.Email,
		r.Role,
		r.Department,
		r.StudentID,
		year,
		active,
		strings.Join(r.LeaderOf, "; "),
		strings.Join(r.MemberOf, "; "),
		strconv.Itoa(r.ProjectCount()),
	}
}

func Records(rows []StudentReport, v Variant) [][]string {
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.Record(v))
	}
	return out
}
