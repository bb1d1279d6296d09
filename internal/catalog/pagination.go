package catalog

// windowSize is the maximum number of numbered page buttons, centered on
// the current page.
const windowSize = 5

// Window describes the pagination control strip for a listing: a run of
// numbered buttons plus optional first/last shortcuts with ellipsis gaps
// and prev/next arrows. It is a pure function of (current, total).
type Window struct {
	Pages       []int
	ShowFirst   bool
	LeadingGap  bool
	ShowLast    bool
	TrailingGap bool
	HasPrev     bool
	HasNext     bool
}

// Empty reports that no pagination controls should be rendered at all.
func (w Window) Empty() bool {
	return len(w.Pages) == 0
}

// PageWindow computes the control strip: up to windowSize buttons centered
// on current and clamped to [1, total], first/last buttons whenever the
// centered run misses an edge, an ellipsis when the run is not adjacent to
// that edge, and prev/next only when not already there. A single page
// renders nothing.
func PageWindow(current, total int) Window {
	if total <= 1 {
		return Window{}
	}

	if current < 1 {
		current = 1
	}
	if current > total {
		current = total
	}

	start := current - windowSize/2
	end := start + windowSize - 1

	if start < 1 {
		start = 1
		end = windowSize
	}
	if end > total {
		end = total
		start = end - windowSize + 1
		if start < 1 {
			start = 1
		}
	}

	w := Window{
		HasPrev: current > 1,
		HasNext: current < total,
	}

	for page := start; page <= end; page++ {
		w.Pages = append(w.Pages, page)
	}

	w.ShowFirst = start > 1
	w.LeadingGap = start > 2
	w.ShowLast = end < total
	w.TrailingGap = end < total-1

	return w
}
