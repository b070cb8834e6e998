package render

import "fmt"

// AllocationError reports that the off-surface buffer could not be obtained.
type AllocationError struct {
	Pixels int
	Err    error
}

func (e *AllocationError) Error() string {
	return fmt.Sprintf("render: cannot allocate buffer of %d pixels: %v", e.Pixels, e.Err)
}

func (e *AllocationError) Unwrap() error {
	return e.Err
}

// PresentError reports that a rendered frame could not be committed to the
// display memory. The frame is kept, so Present may be retried.
type PresentError struct {
	Err error
}

func (e *PresentError) Error() string {
	return fmt.Sprintf("render: cannot present frame: %v", e.Err)
}

func (e *PresentError) Unwrap() error {
	return e.Err
}
