package myerrors

import "errors"

var (
	ErrNoBusAssigned   = errors.New("driver has no assigned bus")
	ErrStudentNotOnBus = errors.New("student not found on this bus")
	ErrParentNotFound  = errors.New("parent not found")
)
