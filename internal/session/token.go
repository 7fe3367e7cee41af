package session

import "sync/atomic"

// accessToken is the process-wide access token. Only this package writes it.
var accessToken atomic.Pointer[string]

// CurrentAccessToken returns the access token of the signed-in session, or ""
// when signed out.
func CurrentAccessToken() string {
	if p := accessToken.Load(); p != nil {
		return *p
	}
	return ""
}

// installAccessToken publishes tok and returns the handle needed to release
// it again.
func installAccessToken(tok string) *string {
	p := &tok
	accessToken.Store(p)
	return p
}

// releaseAccessToken clears the process-wide token only while it is still
// the one behind p, so a store never drops a token another store installed.
func releaseAccessToken(p *string) {
	if p != nil {
		accessToken.CompareAndSwap(p, nil)
	}
}
