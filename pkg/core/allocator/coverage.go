package allocator

import (
	"github.com/jakechorley/store-rota/pkg/core/model"
	"github.com/jakechorley/store-rota/pkg/core/storehours"
)

// shiftsForDayLength is the step function from day length to a number of shifts
func shiftsForDayLength(dayHours float64) int {
	switch {
	case dayHours <= 4:
		return 1
	case dayHours <= 8:
		return 2
	case dayHours <= 12:
		return 3
	default:
		return 4
	}
}

// shiftBounds returns the minimum and maximum number of shifts for the day.
// A configured staffing constraint wins; otherwise the minimum is 1 or 2 depending on
// the team size and the maximum follows the day length, capped at the team size.
func (e *Engine) shiftBounds(storeID string, date string, window storehours.Window, employeeCount int) (int, int) {
	var minShifts, maxShifts int

	if constraint, ok := e.config.staffingConstraintFor(storeID, model.WeekdayOf(date)); ok {
		minShifts = constraint.MinShifts
		maxShifts = constraint.MaxShifts
	} else {
		minShifts = max(1, min(2, employeeCount))
		maxShifts = min(shiftsForDayLength(window.Hours()), employeeCount)
	}

	minShifts = max(1, minShifts)
	maxShifts = max(maxShifts, minShifts)

	return minShifts, maxShifts
}

// optimalShiftCount picks the number of shifts for the day inside [minShifts, maxShifts]
// based on how many employees still have meaningful hours to work
func (e *Engine) optimalShiftCount(state *RotaState, window storehours.Window, minShifts, maxShifts int) int {
	withHours := 0
	for i := range state.Trackers {
		if state.Trackers[i].RemainingHours > e.config.MinRemainingHours {
			withHours++
		}
	}

	switch {
	case withHours >= maxShifts:
		return maxShifts
	case withHours > minShifts:
		return withHours
	default:
		return max(minShifts, min(maxShifts, shiftsForDayLength(window.Hours())))
	}
}

// buildCoveragePattern splits the open window into count slots:
//   - 1 slot: the whole window
//   - 2 slots: an opening slot ending at OpeningShiftFraction of the day and a closing slot
//     starting at ClosingShiftStartFraction, overlapping in the middle of the day
//   - 3+ slots: even shares of the day plus ShiftExtensionMinutes, each starting after
//     (1 - OverlapFraction) of a share. Slots never run past closing and the last slot
//     always reaches it.
func (e *Engine) buildCoveragePattern(date string, window storehours.Window, count int, shiftTypes []model.ShiftType) []Slot {
	open, closeMin := window.OpenMinutes, window.CloseMinutes
	dayMinutes := window.Minutes()

	type span struct {
		start, end int
		kind       model.ShiftKind
	}
	var spans []span

	switch {
	case count <= 1:
		spans = append(spans, span{open, closeMin, model.KindFullDay})

	case count == 2:
		openingEnd := open + int(float64(dayMinutes)*e.config.OpeningShiftFraction)
		closingStart := open + int(float64(dayMinutes)*e.config.ClosingShiftStartFraction)
		spans = append(spans,
			span{open, openingEnd, model.KindOpening},
			span{closingStart, closeMin, model.KindClosing},
		)

	default:
		share := float64(dayMinutes) / float64(count)
		length := int(share) + e.config.ShiftExtensionMinutes
		spacing := share * (1 - e.config.OverlapFraction)

		for i := 0; i < count; i++ {
			start := open + int(float64(i)*spacing)
			if start >= closeMin {
				break
			}
			end := min(start+length, closeMin)
			if i == count-1 {
				end = closeMin
			}

			kind := model.KindMiddle
			switch i {
			case 0:
				kind = model.KindOpening
			case count - 1:
				kind = model.KindClosing
			}
			spans = append(spans, span{start, end, kind})
		}
	}

	weekday := model.WeekdayOf(date)
	slots := make([]Slot, 0, len(spans))
	for _, sp := range spans {
		slot := Slot{
			Date:         date,
			Weekday:      weekday,
			Kind:         sp.kind,
			StartTime:    model.FormatClock(sp.start),
			EndTime:      model.FormatClock(sp.end),
			StartMinutes: sp.start,
			EndMinutes:   sp.end,
		}
		e.applyShiftType(&slot, shiftTypes)
		slots = append(slots, slot)
	}

	return slots
}

// applyShiftType links the slot to the first template of its kind and sets its break
func (e *Engine) applyShiftType(slot *Slot, shiftTypes []model.ShiftType) {
	var breakOverride *int
	for _, shiftType := range shiftTypes {
		if shiftType.Kind == slot.Kind {
			slot.ShiftTypeID = shiftType.ID
			breakOverride = shiftType.BreakMinutes
			break
		}
	}

	if slot.EndMinutes-slot.StartMinutes <= e.config.LongShiftMinutes {
		return
	}
	if breakOverride != nil {
		slot.BreakMinutes = *breakOverride
		return
	}
	slot.BreakMinutes = e.config.DefaultBreakMinutes
}
