package window

// SlidingWindow maps calendar locations onto an AdjustedWindow whose buffer
// starts at calStart, and remembers the last view it served.
type SlidingWindow struct {
	window        *AdjustedWindow
	calStart      int
	offset        int
	mostRecentLoc int
	current       []float64
}

func NewSlidingWindow(window *AdjustedWindow, calStart int, offset int) *SlidingWindow {
	return &SlidingWindow{
		window:        window,
		calStart:      calStart,
		offset:        offset,
		mostRecentLoc: -1,
		current:       nil,
	}
}

// Get returns the window ending at calendar location endLoc, inclusive.
// Repeated requests for the last served location return the cached view.
func (w *SlidingWindow) Get(endLoc int) ([]float64, error) {
	if endLoc == w.mostRecentLoc && w.current != nil {
		return w.current, nil
	}

	view, err := w.window.Seek(endLoc - w.calStart - w.offset + 1)
	if err != nil {
		return nil, err
	}

	w.current = view
	w.mostRecentLoc = endLoc

	return view, nil
}

// MostRecentLoc returns the last served calendar location, or -1 before the first Get.
func (w *SlidingWindow) MostRecentLoc() int {
	return w.mostRecentLoc
}
