package challenge

import "time"

// completionThreshold is the fraction of scheduled submissions a participant
// must have verified to count as a completer. At 1.0 every scheduled
// submission is required.
const completionThreshold = 1.0

// RequiredSubmissions returns the number of proof submissions a participant
// is expected to make over the life of the challenge.
//
// Daily challenges expect one submission per day. Weekly and custom
// challenges expect frequencyCount submissions per week, with a partial
// trailing week counting as a full one.
func RequiredSubmissions(frequency Frequency, frequencyCount, durationDays int) int {
	switch frequency {
	case FrequencyDaily:
		return durationDays
	default:
		weeks := (durationDays + 6) / 7
		return weeks * frequencyCount
	}
}

// CompletionTarget returns the minimum number of verified submissions needed
// to qualify as a completer at settlement.
func CompletionTarget(required int) int {
	// ceil(required * threshold) without drifting through floats at 1.0
	if completionThreshold == 1.0 {
		return required
	}
	target := int(float64(required) * completionThreshold)
	if float64(target) < float64(required)*completionThreshold {
		target++
	}
	return target
}

// Required returns the schedule numbers for the challenge.
func (c *Challenge) Required() (required, target int) {
	required = RequiredSubmissions(c.Frequency, c.FrequencyCount, c.Duration)
	return required, CompletionTarget(required)
}

// ExpectedToDate returns how many submissions the schedule expects by now.
// Before the start date it is zero; after the end date it equals the full
// requirement.
func (c *Challenge) ExpectedToDate(now time.Time) int {
	if now.Before(c.StartDate) {
		return 0
	}
	required, _ := c.Required()
	daysIn := int(now.Sub(c.StartDate).Hours()/24) + 1
	if daysIn >= c.Duration {
		return required
	}

	switch c.Frequency {
	case FrequencyDaily:
		return daysIn
	default:
		weeksIn := (daysIn + 6) / 7
		expected := weeksIn * c.FrequencyCount
		if expected > required {
			expected = required
		}
		return expected
	}
}

// CompletionPercent returns verified progress against the schedule, capped
// at 100.
func CompletionPercent(verified, required int) int {
	if required <= 0 {
		return 0
	}
	pct := verified * 100 / required
	if pct > 100 {
		pct = 100
	}
	return pct
}
