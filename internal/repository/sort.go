package repository

import (
	"sort"

	"github.com/RS76448/attendencesystem/internal/model"
)

// SortEntries orders entries by day then start minute, ties broken by subject.
// The document-store backends sort in memory with it.
func SortEntries(entries []model.TimetableEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.Day != b.Day {
			return a.Day < b.Day
		}
		if a.StartMinute != b.StartMinute {
			return a.StartMinute < b.StartMinute
		}
		return a.Subject < b.Subject
	})
}
