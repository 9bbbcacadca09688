package myerrors

import "errors"

var (
	ErrDriverNotFound      = errors.New("driver not found")
	ErrParentNotFound      = errors.New("parent not found")
	ErrRouteNotFound       = errors.New("route not found")
	ErrBusNotFound         = errors.New("bus not found")
	ErrPickupPointNotFound = errors.New("pickup point not found")
)
