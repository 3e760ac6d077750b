package assignment

import "errors"

var (
	ErrClientNotFound      = errors.New("client not found")
	ErrAlreadyAssigned     = errors.New("client already has an assigned advisor")
	ErrNoAdvisorsAvailable = errors.New("no advisors available")
	ErrNotAssigned         = errors.New("client has no assigned advisor")
)
