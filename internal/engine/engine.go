package engine

// SeriesEntry describes one patch for listings
type SeriesEntry struct {
	Name    string
	Applied bool
	Current bool
	Empty   bool
	Summary string
}

// Series lists the stack, applied patches first, bottom to top
func (s *Stack) Series() []SeriesEntry {
	entries := make([]SeriesEntry, 0, len(s.Applied)+len(s.Unapplied))
	current := s.CurrentPatch()
	for _, p := range s.Applied {
		entries = append(entries, SeriesEntry{
			Name:    p.Name,
			Applied: true,
			Current: p == current,
			Empty:   p.Empty,
			Summary: p.Summary(),
		})
	}
	for _, p := range s.Unapplied {
		entries = append(entries, SeriesEntry{
			Name:    p.Name,
			Empty:   p.Empty,
			Summary: p.Summary(),
		})
	}
	return entries
}
