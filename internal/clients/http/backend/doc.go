// Package backend is the authenticated HTTP client for the tour-booking API.
//
// Every request passes through a small middleware chain: the access token from
// the session store is attached as a bearer credential, and a 401 on the first
// attempt triggers one cookie-bearing call to the refresh endpoint followed by
// exactly one retry. If the refresh fails the session is cleared and the
// refresh error is returned to the caller.
package backend
