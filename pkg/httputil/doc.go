// Package httputil provides HTTP utilities for package registry clients.
//
// # Retry
//
// [Retry] wraps HTTP requests with automatic retry for transient
// failures: network errors, 5xx server errors, and 429 rate limit
// responses. Wrap such errors in [RetryableError] to opt them into the
// retry loop; everything else fails fast.
//
// It uses exponential backoff (doubling delay) between attempts:
//
//	err := httputil.RetryWithBackoff(ctx, func() error {
//	    return fetch()
//	})
//
// Response caching lives in the cache package; registry clients compose
// the two.
package httputil
