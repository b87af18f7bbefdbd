package nav

// SectionOffset is the document offset of a section's top edge.
type SectionOffset struct {
	ID  string
	Top float64
}

// ActiveSection returns the section the reader is looking at: the last one, in document
// order, whose top edge is above the line a third of the way down the viewport. Above the
// first section the first id is returned; with no sections the result is "".
//
// The result only drives nav highlighting and never changes the route.
func ActiveSection(sections []SectionOffset, scrollY, viewportHeight float64) string {
	if len(sections) == 0 {
		return ""
	}
	if viewportHeight < 0 {
		viewportHeight = 0
	}
	line := scrollY + viewportHeight/3
	active := sections[0].ID
	for _, s := range sections {
		if s.Top <= line {
			active = s.ID
		}
	}
	return active
}
