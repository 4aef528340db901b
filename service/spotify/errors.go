package spotify

import "errors"

var (
	// ErrAuthentication covers missing credentials and failed token
	// exchanges. It is the only error that should reach the HTTP boundary.
	ErrAuthentication = errors.New("spotify: authentication failed")

	// ErrUpstream covers non-success responses and undecodable payloads
	// from the Web API after authentication succeeded.
	ErrUpstream = errors.New("spotify: upstream request failed")
)
