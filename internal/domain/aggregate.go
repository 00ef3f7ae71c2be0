package domain

import "fmt"

// RecordKind distinguishes individual aggregates from group aggregates in
// the record store.
type RecordKind string

const (
	KindUser  RecordKind = "User"
	KindGroup RecordKind = "Group"
)

// Aggregate is the per-(date, participant-or-group) activity record built
// from one uploaded batch. Date is an ISO calendar date (YYYY-MM-DD); Name
// is the participant display name for KindUser or the group name for
// KindGroup. Aggregates live only for the duration of an upload run.
type Aggregate struct {
	Date    string
	Name    string
	Kind    RecordKind
	GroupID string // set only for KindGroup
	Slots   SlotMap
}

// NewAggregate creates an empty aggregate for the given identity.
func NewAggregate(date, name string, kind RecordKind) *Aggregate {
	return &Aggregate{
		Date:  date,
		Name:  name,
		Kind:  kind,
		Slots: make(SlotMap),
	}
}

// NaturalKey is the deterministic identity used for duplicate detection
// during upsert.
func (a *Aggregate) NaturalKey() string {
	return fmt.Sprintf("%s - %s", a.Date, a.Name)
}

// Duration returns the derived active minutes for the aggregate.
func (a *Aggregate) Duration() int {
	return a.Slots.Duration()
}
