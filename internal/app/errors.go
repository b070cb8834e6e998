package app

import "fmt"

// AcquisitionError reports that the display device could not be opened,
// queried or mapped. Resources acquired before the failure have already
// been released when it is returned.
type AcquisitionError struct {
	Stage  string // "open", "geometry" or "map"
	Device string
	Err    error
}

func (e *AcquisitionError) Error() string {
	return fmt.Sprintf("app: cannot %s %s: %v", e.Stage, e.Device, e.Err)
}

func (e *AcquisitionError) Unwrap() error {
	return e.Err
}
