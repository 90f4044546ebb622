package core

// ClassCount is one bucket of the class distribution table.
type ClassCount struct {
	Label string
	Count int
}

// Stats accumulates counters for one run. Counters only grow while the run
// is in progress; AvgTextLength is filled in when the run finishes.
type Stats struct {
	TotalLines     int
	ProcessedLines int
	SkippedLines   int
	ErrorLines     int
	DuplicateLines int

	// AvgTextLength is the mean cleaned length of the primary field over
	// processed records.
	AvgTextLength float64

	// Classes holds per-label counts for at most MaxClasses distinct labels,
	// in first-seen order. Records whose label would need a new bucket once
	// the table is full are counted in UntrackedClasses instead.
	Classes          []ClassCount
	UntrackedClasses int

	// Delimiter and Encoding are the values the run resolved, either
	// configured or sniffed from the input.
	Delimiter byte
	Encoding  Encoding

	textLengthSum int
}

// SuccessRate returns processed lines as a percentage of total lines.
func (s Stats) SuccessRate() float64 {
	if s.TotalLines == 0 {
		return 0
	}
	return 100 * float64(s.ProcessedLines) / float64(s.TotalLines)
}

// ClassCount returns the recorded count for a label.
func (s Stats) ClassCount(label string) int {
	for _, c := range s.Classes {
		if c.Label == label {
			return c.Count
		}
	}
	return 0
}

func (s *Stats) addTextLength(n int) {
	s.textLengthSum += n
}

func (s *Stats) finalize() {
	n := s.ProcessedLines
	if n < 1 {
		n = 1
	}
	s.AvgTextLength = float64(s.textLengthSum) / float64(n)
}

func (s *Stats) recordClass(label string) {
	if label == "" {
		return
	}
	for i := range s.Classes {
		if s.Classes[i].Label == label {
			s.Classes[i].Count++
			return
		}
	}
	if len(s.Classes) >= MaxClasses {
		s.UntrackedClasses++
		return
	}
	s.Classes = append(s.Classes, ClassCount{Label: label, Count: 1})
}
