// Package aggregate turns classified activity rows into per-participant and
// per-group slot-count aggregates. It is pure computation over an injected
// directory snapshot; all I/O stays in the service layer.
package aggregate

import (
	"sort"

	"github.com/avoronova/tally/internal/domain"
	"github.com/avoronova/tally/internal/importer"
)

// Batch holds every aggregate produced from one upload, indexed by
// (date, identity). Group aggregates are keyed by group ID rather than
// name so two groups sharing a display name cannot collide in memory.
type Batch struct {
	users  map[string]*domain.Aggregate
	groups map[string]*domain.Aggregate
}

// Build aggregates the accepted rows into 10-minute activity buckets.
// Every row increments the executor's individual aggregate; when the
// executor resolves to a directory group, the same increment is mirrored
// into that group's aggregate for the same date. A nil directory disables
// group aggregation (directory fetch failure is non-fatal upstream).
func Build(rows []importer.Row, dir *domain.Directory) *Batch {
	b := &Batch{
		users:  make(map[string]*domain.Aggregate),
		groups: make(map[string]*domain.Aggregate),
	}

	// One directory lookup per distinct executor name.
	resolved := make(map[string]*domain.Group)
	lookup := func(executor string) *domain.Group {
		if g, seen := resolved[executor]; seen {
			return g
		}
		g, ok := dir.ResolveGroup(executor)
		if !ok {
			g = nil
		}
		resolved[executor] = g
		return g
	}

	for _, row := range rows {
		slot, err := domain.RoundToSlot(row.Time)
		if err != nil {
			continue
		}

		user := b.user(row.Date, row.Executor)
		user.Slots.Increment(slot)

		if g := lookup(row.Executor); g != nil {
			grp := b.group(row.Date, g)
			grp.Slots.Increment(slot)
		}
	}

	return b
}

func (b *Batch) user(date, executor string) *domain.Aggregate {
	key := date + "\x00" + executor
	a, ok := b.users[key]
	if !ok {
		a = domain.NewAggregate(date, executor, domain.KindUser)
		b.users[key] = a
	}
	return a
}

func (b *Batch) group(date string, g *domain.Group) *domain.Aggregate {
	key := date + "\x00" + g.ID
	a, ok := b.groups[key]
	if !ok {
		a = domain.NewAggregate(date, g.Name, domain.KindGroup)
		a.GroupID = g.ID
		b.groups[key] = a
	}
	return a
}

// Users returns the individual aggregates sorted by date then name.
func (b *Batch) Users() []*domain.Aggregate { return sorted(b.users) }

// Groups returns the group aggregates sorted by date then name.
func (b *Batch) Groups() []*domain.Aggregate { return sorted(b.groups) }

// All returns every aggregate in the batch, individuals first.
func (b *Batch) All() []*domain.Aggregate {
	return append(b.Users(), b.Groups()...)
}

// Dates returns the distinct calendar dates touched by the batch, sorted.
func (b *Batch) Dates() []string {
	seen := make(map[string]bool)
	for _, a := range b.users {
		seen[a.Date] = true
	}
	for _, a := range b.groups {
		seen[a.Date] = true
	}
	dates := make([]string, 0, len(seen))
	for d := range seen {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	return dates
}

func sorted(m map[string]*domain.Aggregate) []*domain.Aggregate {
	out := make([]*domain.Aggregate, 0, len(m))
	for _, a := range m {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].Name < out[j].Name
	})
	return out
}
