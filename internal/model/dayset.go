package model

import "sort"

// DaySet is a set of calendar days keyed by Day equality.
type DaySet map[Day]struct{}

func NewDaySet(days ...Day) DaySet {
	s := make(DaySet, len(days))
	for _, d := range days {
		s.Add(d)
	}
	return s
}

func (s DaySet) Has(d Day) bool {
	_, ok := s[d]
	return ok
}

func (s DaySet) Add(d Day) {
	if d.IsZero() {
		return
	}
	s[d] = struct{}{}
}

func (s DaySet) Remove(d Day) bool {
	if _, ok := s[d]; !ok {
		return false
	}
	delete(s, d)
	return true
}

func (s DaySet) Len() int { return len(s) }

// Sorted returns the days in ascending order.
func (s DaySet) Sorted() []Day {
	out := make([]Day, 0, len(s))
	for d := range s {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

func (s DaySet) Clone() DaySet {
	out := make(DaySet, len(s))
	for d := range s {
		out[d] = struct{}{}
	}
	return out
}

func (s DaySet) Equal(other DaySet) bool {
	if len(s) != len(other) {
		return false
	}
	for d := range s {
		if !other.Has(d) {
			return false
		}
	}
	return true
}

func (s DaySet) Union(other DaySet) DaySet {
	out := s.Clone()
	for d := range other {
		out[d] = struct{}{}
	}
	return out
}

// Intersects reports whether any day is in both sets.
func (s DaySet) Intersects(other DaySet) bool {
	small, large := s, other
	if len(small) > len(large) {
		small, large = large, small
	}
	for d := range small {
		if large.Has(d) {
			return true
		}
	}
	return false
}

// Strings returns the sorted days in DayLayout form.
func (s DaySet) Strings() []string {
	days := s.Sorted()
	out := make([]string, 0, len(days))
	for _, d := range days {
		out = append(out, d.String())
	}
	return out
}
