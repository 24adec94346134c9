package service

import "errors"

// Sentinel errors returned by the governance services. Handlers map each one
// to a specific HTTP status so clients can show an actionable message.
var (
	ErrHouseNotFound       = errors.New("house not found")
	ErrEmptyContent        = errors.New("required text is empty after sanitization")
	ErrHouseInactive       = errors.New("house is no longer active")
	ErrHouseFull           = errors.New("house is at capacity")
	ErrUnauthorized        = errors.New("caller is not allowed to perform this operation")
	ErrAlreadyMember       = errors.New("wallet already holds an active membership")
	ErrNotAMember          = errors.New("caller is not an active member of this house")
	ErrActivityNotFound    = errors.New("activity not found")
	ErrActivityDecided     = errors.New("activity has already been decided")
	ErrAlreadyVoted        = errors.New("this activity already has your vote")
	ErrActivityNotApproved = errors.New("activity is not approved for completion")
	ErrAlreadyCompleted    = errors.New("activity already completed by this member")
)
