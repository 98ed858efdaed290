package booking

// Interval is a half-open [Start, End) range in minutes after midnight.
type Interval struct {
	Start int
	End   int
}

func NewInterval(start, duration int) Interval {
	return Interval{Start: start, End: start + duration}
}

// Overlaps is false for intervals that only touch.
func (i Interval) Overlaps(o Interval) bool {
	return i.Start < o.End && i.End > o.Start
}

func (i Interval) Contains(minute int) bool {
	return i.Start <= minute && minute < i.End
}

// Within reports whether i fits inside the closed window w. An interval
// whose end wrapped below its start never fits.
func (i Interval) Within(w Window) bool {
	return i.Start <= i.End && i.Start >= w.Open && i.End <= w.Close
}
