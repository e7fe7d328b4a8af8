package slot

import (
	"medibook-service/internal/app/contracts"
	"medibook-service/internal/pkg/fhir_dto"
	"sort"
	"time"
)

// findSlotsForDuration returns every way the free slots can satisfy the required
// duration: a slot long enough on its own matches unmodified, and shorter slots are
// extended forward across strictly contiguous neighbours until the accumulated
// duration reaches the requirement. A gap between neighbours discards the attempt.
// Every start index is tried independently, so overlapping candidate runs are
// expected; the caller picks one. Results are chronological by starting slot.
func findSlotsForDuration(freeSlots []fhir_dto.Slot, requiredMinutes int) []contracts.SlotMatch {
	required := time.Duration(requiredMinutes) * time.Minute

	sorted := make([]fhir_dto.Slot, len(freeSlots))
	copy(sorted, freeSlots)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Start.Before(sorted[j].Start)
	})

	matches := make([]contracts.SlotMatch, 0)
	for i := range sorted {
		if sorted[i].Duration() >= required {
			matches = append(matches, contracts.SlotMatch{
				Start:    sorted[i].Start,
				End:      sorted[i].End,
				SlotIDs:  []string{sorted[i].ID},
				Combined: false,
			})
			continue
		}

		accumulated := sorted[i].Duration()
		ids := []string{sorted[i].ID}
		for j := i + 1; j < len(sorted); j++ {
			if !sorted[j-1].End.Equal(sorted[j].Start) {
				break
			}
			accumulated += sorted[j].Duration()
			ids = append(ids, sorted[j].ID)
			if accumulated >= required {
				matches = append(matches, contracts.SlotMatch{
					Start:    sorted[i].Start,
					End:      sorted[j].End,
					SlotIDs:  ids,
					Combined: true,
				})
				break
			}
		}
	}
	return matches
}
