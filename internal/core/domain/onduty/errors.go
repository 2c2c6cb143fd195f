package onduty

import "errors"

var (
	ErrNotFound     = errors.New("on-duty request not found")
	ErrNotPending   = errors.New("on-duty request is no longer pending")
	ErrInvalidDates = errors.New("end date must not be before start date")
	ErrNoCounsellor = errors.New("no counsellor assigned")
	ErrAccessDenied = errors.New("not allowed to access this on-duty request")
)
