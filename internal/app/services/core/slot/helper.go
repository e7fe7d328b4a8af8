package slot

import (
	"fmt"
	"medibook-service/internal/app/contracts"
	"time"
)

const (
	dateLayout  = "2006-01-02"
	clockLayout = "15:04"
)

// clockTime is a wall-clock time of day with no date attached.
type clockTime struct {
	Hour   int
	Minute int
}

func (c clockTime) minutesOfDay() int {
	return c.Hour*60 + c.Minute
}

func parseClock(value string) (clockTime, error) {
	t, err := time.Parse(clockLayout, value)
	if err != nil {
		return clockTime{}, fmt.Errorf("invalid clock time '%s': must be HH:MM", value)
	}
	return clockTime{Hour: t.Hour(), Minute: t.Minute()}, nil
}

// atClock builds an instant from a calendar day and a wall-clock time in loc.
func atClock(day time.Time, c clockTime, loc *time.Location) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), c.Hour, c.Minute, 0, 0, loc)
}

// interval is a half-open [Start, End) candidate slot span.
type interval struct {
	Start time.Time
	End   time.Time
}

// overlaps reports whether two spans share any time. The comparison covers all
// four relative positions: contained, containing, and the two partial overlaps.
func overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

type breakSpan struct {
	Start clockTime
	End   clockTime
}

// validateTemplate checks everything that can be rejected before any store call.
func validateTemplate(template contracts.SlotTemplate) ([]breakSpan, clockTime, clockTime, time.Time, time.Time, error) {
	var zero clockTime
	var zeroDay time.Time

	startDate, err := time.Parse(dateLayout, template.StartDate)
	if err != nil {
		return nil, zero, zero, zeroDay, zeroDay, fmt.Errorf("invalid start date '%s': must be YYYY-MM-DD", template.StartDate)
	}
	endDate, err := time.Parse(dateLayout, template.EndDate)
	if err != nil {
		return nil, zero, zero, zeroDay, zeroDay, fmt.Errorf("invalid end date '%s': must be YYYY-MM-DD", template.EndDate)
	}
	if endDate.Before(startDate) {
		return nil, zero, zero, zeroDay, zeroDay, fmt.Errorf("end date %s precedes start date %s", template.EndDate, template.StartDate)
	}

	if len(template.DaysOfWeek) == 0 {
		return nil, zero, zero, zeroDay, zeroDay, fmt.Errorf("at least one weekday is required")
	}
	for _, day := range template.DaysOfWeek {
		if day < 0 || day > 6 {
			return nil, zero, zero, zeroDay, zeroDay, fmt.Errorf("invalid weekday %d: must be 0 (Sunday) to 6 (Saturday)", day)
		}
	}

	dayStart, err := parseClock(template.StartTime)
	if err != nil {
		return nil, zero, zero, zeroDay, zeroDay, err
	}
	dayEnd, err := parseClock(template.EndTime)
	if err != nil {
		return nil, zero, zero, zeroDay, zeroDay, err
	}
	if dayStart.minutesOfDay() >= dayEnd.minutesOfDay() {
		return nil, zero, zero, zeroDay, zeroDay, fmt.Errorf("start time %s must be before end time %s", template.StartTime, template.EndTime)
	}

	if template.SlotDurationMinutes <= 0 {
		return nil, zero, zero, zeroDay, zeroDay, fmt.Errorf("slot duration must be positive, got %d", template.SlotDurationMinutes)
	}

	breakSpans := make([]breakSpan, 0, len(template.Breaks))
	for _, b := range template.Breaks {
		bStart, err := parseClock(b.Start)
		if err != nil {
			return nil, zero, zero, zeroDay, zeroDay, err
		}
		bEnd, err := parseClock(b.End)
		if err != nil {
			return nil, zero, zero, zeroDay, zeroDay, err
		}
		if bStart.minutesOfDay() >= bEnd.minutesOfDay() {
			return nil, zero, zero, zeroDay, zeroDay, fmt.Errorf("break start %s must be before break end %s", b.Start, b.End)
		}
		if bStart.minutesOfDay() < dayStart.minutesOfDay() || bEnd.minutesOfDay() > dayEnd.minutesOfDay() {
			return nil, zero, zero, zeroDay, zeroDay, fmt.Errorf("break %s-%s falls outside the working window %s-%s", b.Start, b.End, template.StartTime, template.EndTime)
		}
		breakSpans = append(breakSpans, breakSpan{Start: bStart, End: bEnd})
	}

	return breakSpans, dayStart, dayEnd, startDate, endDate, nil
}

// generateDayIntervals carves a single day's candidate slots. Candidates that would
// overhang the day end are dropped, not truncated, and any overlap with a break
// window excludes the candidate entirely.
func generateDayIntervals(day time.Time, dayStart, dayEnd clockTime, durationMinutes int, breaks []breakSpan, loc *time.Location) []interval {
	duration := time.Duration(durationMinutes) * time.Minute
	windowEnd := atClock(day, dayEnd, loc)

	var intervals []interval
	for cursor := atClock(day, dayStart, loc); ; {
		candidateEnd := cursor.Add(duration)
		if candidateEnd.After(windowEnd) {
			break
		}

		excluded := false
		for _, b := range breaks {
			if overlaps(cursor, candidateEnd, atClock(day, b.Start, loc), atClock(day, b.End, loc)) {
				excluded = true
				break
			}
		}
		if !excluded {
			intervals = append(intervals, interval{Start: cursor, End: candidateEnd})
		}
		cursor = candidateEnd
	}
	return intervals
}
