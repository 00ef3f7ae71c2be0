package domain

import "strings"

// Member is one person in a directory group. FullName may be set explicitly
// by the provider; otherwise it is derived from FirstName and LastName.
type Member struct {
	FirstName string
	LastName  string
	FullName  string
}

// DisplayName returns the name members are matched by: the explicit full
// name when present, otherwise "First Last".
func (m Member) DisplayName() string {
	if m.FullName != "" {
		return m.FullName
	}
	return strings.TrimSpace(m.FirstName + " " + m.LastName)
}

// Group is a named set of members with a store-assigned ID.
type Group struct {
	ID      string
	Name    string
	Members []Member
}

// Directory is the read-only group/member snapshot fetched once per run.
// It is never mutated after construction.
type Directory struct {
	Groups []Group
}

// ResolveGroup finds the first group containing a member whose display name
// equals the executor string. Directory order decides ties when a person
// appears in more than one group; that order is whatever the provider
// returned and is not guaranteed stable across runs.
func (d *Directory) ResolveGroup(executor string) (*Group, bool) {
	if d == nil {
		return nil, false
	}
	for i := range d.Groups {
		g := &d.Groups[i]
		for _, m := range g.Members {
			if m.DisplayName() == executor {
				return g, true
			}
		}
	}
	return nil, false
}
