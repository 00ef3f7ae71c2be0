package domain

import (
	"fmt"
	"sort"
	"strconv"
)

// SlotMinutes is the width of one activity slot.
const SlotMinutes = 10

// SlotsPerDay is the number of canonical slot keys in a calendar day.
const SlotsPerDay = 24 * 60 / SlotMinutes

// SlotMap counts actions per 10-minute slot of a day. Keys are "HH:MM"
// strings on a 10-minute boundary ("09:00", "09:10", ...).
type SlotMap map[string]int

// RoundToSlot rounds an "HH:MM" time-of-day down to its 10-minute slot key.
// The input must be exactly five characters with a colon separator; anything
// else is rejected so malformed rows can be skipped by the caller.
func RoundToSlot(hhmm string) (string, error) {
	if len(hhmm) != 5 || hhmm[2] != ':' {
		return "", fmt.Errorf("invalid time %q (expected HH:MM)", hhmm)
	}
	hour, err := strconv.Atoi(hhmm[:2])
	if err != nil || hour < 0 || hour > 23 {
		return "", fmt.Errorf("invalid hour in %q", hhmm)
	}
	minute, err := strconv.Atoi(hhmm[3:])
	if err != nil || minute < 0 || minute > 59 {
		return "", fmt.Errorf("invalid minute in %q", hhmm)
	}
	minute -= minute % SlotMinutes
	return fmt.Sprintf("%02d:%02d", hour, minute), nil
}

// Increment adds one action to the given slot key.
func (m SlotMap) Increment(slot string) {
	m[slot]++
}

// Merge sums the counts of other into a copy of m and returns it. Neither
// argument is mutated. Merge is commutative and associative, and merging
// with an empty map returns an equal map.
func (m SlotMap) Merge(other SlotMap) SlotMap {
	merged := make(SlotMap, len(m)+len(other))
	for k, v := range m {
		merged[k] += v
	}
	for k, v := range other {
		merged[k] += v
	}
	return merged
}

// Duration returns the active minutes represented by the map: the number of
// occupied slots times the slot width. Always derived, never stored.
func (m SlotMap) Duration() int {
	occupied := 0
	for _, v := range m {
		if v > 0 {
			occupied++
		}
	}
	return occupied * SlotMinutes
}

// Keys returns the slot keys in ascending order, for stable output.
func (m SlotMap) Keys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
