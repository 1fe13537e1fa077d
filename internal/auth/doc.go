// Package auth acquires an authenticated Search Console HTTP client for one CLI
// invocation, reusing the stored credential when the authorization server still
// accepts it and falling back to the interactive out-of-band authorization-code flow
// otherwise.
//
// A single AcquireClient call moves through
//
//	START → CHECK_CACHE → VALID_CACHED_TOKEN → DONE
//	                    → NO_OR_INVALID_TOKEN → AWAIT_USER_CODE → EXCHANGING → DONE | FAILED
//
// without re-entering any state: there is one authorization attempt per invocation
// and the interactive step is never retried. The code prompt blocks without a
// timeout; a human is expected to be present.
package auth
