package service

import (
	"time"

	"halaqahku_backend/internals/features/sessions/attendance/model"
)

func floorMinutes(d time.Duration) int {
	return int(d / time.Minute)
}

// pairLeave mencari join terbuka untuk sebuah leave: join terakhir dengan
// participant_session_id sama, kalau tidak ada join terbuka terakhir.
// open = indeks join yang belum berpasangan (urut kedatangan).
// Return indeks di cycles (-1 bila tidak ada) dan apakah cocok by id.
func pairLeave(cycles []model.Cycle, open []int, participantSessionID string) (idx int, pos int, matched bool) {
	if len(open) == 0 {
		return -1, -1, false
	}
	if participantSessionID != "" {
		for p := len(open) - 1; p >= 0; p-- {
			if cycles[open[p]].ParticipantSessionID == participantSessionID {
				return open[p], p, true
			}
		}
	}
	last := len(open) - 1
	return open[last], last, false
}

// openJoins me-replay log dan mengembalikan join yang belum berpasangan.
func openJoins(cycles []model.Cycle) []int {
	open := make([]int, 0, 2)
	for i, c := range cycles {
		switch c.Type {
		case model.CycleJoin:
			open = append(open, i)
		case model.CycleLeave:
			if _, pos, _ := pairLeave(cycles, open, c.ParticipantSessionID); pos >= 0 {
				open = append(open[:pos], open[pos+1:]...)
			}
		}
	}
	return open
}

// TotalDuration = jumlah durasi semua pasangan join→leave di log.
// Join tanpa leave dan leave tanpa join tidak berkontribusi.
func TotalDuration(cycles []model.Cycle) int {
	total := 0
	open := make([]int, 0, 2)
	for i, c := range cycles {
		switch c.Type {
		case model.CycleJoin:
			open = append(open, i)
		case model.CycleLeave:
			idx, pos, _ := pairLeave(cycles, open, c.ParticipantSessionID)
			if pos < 0 {
				continue
			}
			open = append(open[:pos], open[pos+1:]...)
			if d := floorMinutes(c.Timestamp.Sub(cycles[idx].Timestamp)); d > 0 {
				total += d
			}
		}
	}
	return total
}

func hasEvent(cycles []model.Cycle, t model.CycleType, eventID string) bool {
	if eventID == "" {
		return false
	}
	for _, c := range cycles {
		if c.Type == t && c.EventID == eventID {
			return true
		}
	}
	return false
}
