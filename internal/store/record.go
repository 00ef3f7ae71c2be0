package store

import (
	"encoding/json"
	"fmt"

	"github.com/avoronova/tally/internal/domain"
)

// Record is the persisted shape of one aggregate, mirroring the store's
// field names. Activity carries the slot-count map as an opaque JSON blob;
// the store never interprets it.
type Record struct {
	ID               string `json:"id,omitempty"`
	Name             string `json:"Name"`
	Date             string `json:"Date"`
	Participant      string `json:"Participant"`
	Activity         string `json:"Activity"`
	ActivityDuration int    `json:"Activity_Duration"`
	RecordType       string `json:"Record_Type"`
	GroupID          string `json:"Group_ID,omitempty"`
}

// DedupField is the natural-key field the store uses for duplicate
// detection during upsert.
const DedupField = "Name"

// EncodeSlots serializes a slot map into the Activity blob. Keys are
// emitted in sorted order, so equal maps encode identically.
func EncodeSlots(m domain.SlotMap) string {
	if len(m) == 0 {
		return "{}"
	}
	data, err := json.Marshal(map[string]int(m))
	if err != nil {
		// A map[string]int cannot fail to marshal.
		panic(err)
	}
	return string(data)
}

// DecodeSlots parses an Activity blob back into a slot map. An empty blob
// decodes to an empty map.
func DecodeSlots(blob string) (domain.SlotMap, error) {
	if blob == "" {
		return domain.SlotMap{}, nil
	}
	var m map[string]int
	if err := json.Unmarshal([]byte(blob), &m); err != nil {
		return nil, fmt.Errorf("decoding activity blob: %w", err)
	}
	return domain.SlotMap(m), nil
}

// FromAggregate builds a fresh record for an aggregate with no persisted
// counterpart.
func FromAggregate(a *domain.Aggregate) Record {
	return Record{
		Name:             a.NaturalKey(),
		Date:             a.Date,
		Participant:      a.Name,
		Activity:         EncodeSlots(a.Slots),
		ActivityDuration: a.Duration(),
		RecordType:       string(a.Kind),
		GroupID:          a.GroupID,
	}
}

// MergeAggregate sums the aggregate's slot counts into the record's
// existing blob and recomputes the duration. The store ID and natural-key
// Name are preserved so the upsert updates the record in place.
func (r *Record) MergeAggregate(a *domain.Aggregate) error {
	existing, err := DecodeSlots(r.Activity)
	if err != nil {
		return err
	}
	merged := existing.Merge(a.Slots)
	r.Activity = EncodeSlots(merged)
	r.ActivityDuration = merged.Duration()
	return nil
}
