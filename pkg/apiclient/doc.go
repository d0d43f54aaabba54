// Package apiclient implements the HTTP transport shared by every
// ComunaVision admin surface. It joins paths against a single configured base
// URL, injects the bearer credential supplied by a TokenSource, normalises
// non-2xx responses into a structured *Error, and notifies an injected
// handler when the server reports an expired session (401) so the session
// owner can reset itself without the transport reaching into higher layers.
package apiclient
