package core

// EscapeResult is the outcome of evaluating one point.
// Count runs from 0 to Max; Count == Max means the orbit never escaped
// within the budget and the point is presumed to be a set member.
type EscapeResult struct {
	Count int
	Max   int
}

// Escaped reports whether the orbit diverged before the budget ran out.
func (r EscapeResult) Escaped() bool {
	return r.Count < r.Max
}

// Member reports whether the point is a presumed set member.
func (r EscapeResult) Member() bool {
	return r.Count >= r.Max
}
