package pipeline

// RunStats tracks per-outcome counters and byte totals across a batch run.
type RunStats struct {
	Total            int
	Current          int
	Counts           [numOutcomes]int
	TotalInputBytes  int64
	TotalOutputBytes int64
	Interrupted      bool
}

func (s *RunStats) record(o Outcome) {
	s.Counts[o]++
}

// Count returns how many files ended in o.
func (s *RunStats) Count(o Outcome) int {
	if o < 0 || o >= numOutcomes {
		return 0
	}
	return s.Counts[o]
}

// Converted counts files that produced an MP3 by either path.
func (s *RunStats) Converted() int { return s.sum(Outcome.IsSuccess) }

// Skipped counts discovered videos that were skipped.
func (s *RunStats) Skipped() int { return s.sum(Outcome.IsSkip) }

func (s *RunStats) sum(match func(Outcome) bool) int {
	n := 0
	for o := Outcome(0); o < numOutcomes; o++ {
		if match(o) {
			n += s.Counts[o]
		}
	}
	return n
}

// Failed counts files where both conversion paths failed.
func (s *RunStats) Failed() int {
	return s.Counts[Failed]
}
