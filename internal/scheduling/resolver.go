package scheduling

import "time"

// Rule is one weekly recurring availability window for a doctor.
type Rule struct {
	Weekday     time.Weekday
	Start       TimeOfDay
	End         TimeOfDay
	SlotMinutes int
	Active      bool
}

// ResolveSlots converts a doctor's weekly availability rules and leave
// calendar into the concrete slot start times for one date.
//
// A leave entry blocks the whole day and takes precedence over any rule.
// Otherwise the first active rule matching the date's weekday is used; rules
// are not structurally deduplicated, so callers must pass them in a
// deterministic order. Slots step from Start by SlotMinutes and stop strictly
// before End (half-open interval): a final slot whose start is still before
// End is emitted even if it would run past it.
//
// The result is ascending and the function is pure; identical inputs always
// produce identical output.
func ResolveSlots(rules []Rule, leaves map[time.Time]struct{}, date time.Time) []TimeOfDay {
	if _, onLeave := leaves[DateOf(date)]; onLeave {
		return nil
	}

	var rule *Rule
	for i := range rules {
		if rules[i].Active && rules[i].Weekday == date.Weekday() {
			rule = &rules[i]
			break
		}
	}
	if rule == nil || rule.SlotMinutes <= 0 {
		return nil
	}

	var slots []TimeOfDay
	for at := rule.Start; at < rule.End; at = at.Add(rule.SlotMinutes) {
		slots = append(slots, at)
	}
	return slots
}
