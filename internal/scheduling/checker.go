package scheduling

// Slot is a resolved slot start time annotated with its booking state. Slots
// are derived per query and never persisted.
type Slot struct {
	Time      TimeOfDay `json:"slotTime"`
	Available bool      `json:"isAvailable"`
}

// Annotate marks each resolved slot as available unless its start time
// appears in the booked set. The booked set must contain exactly the times of
// existing BOOKED appointments for the doctor and date being queried; the
// checker itself performs no lookups.
func Annotate(slots []TimeOfDay, booked map[TimeOfDay]struct{}) []Slot {
	annotated := make([]Slot, 0, len(slots))
	for _, at := range slots {
		_, taken := booked[at]
		annotated = append(annotated, Slot{Time: at, Available: !taken})
	}
	return annotated
}

// BookedSet builds the lookup set Annotate expects from a list of booked
// appointment times.
func BookedSet(times []TimeOfDay) map[TimeOfDay]struct{} {
	set := make(map[TimeOfDay]struct{}, len(times))
	for _, at := range times {
		set[at] = struct{}{}
	}
	return set
}
