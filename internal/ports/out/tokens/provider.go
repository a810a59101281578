package tokens

import "context"

// Provider obtains bearer tokens scoped to named permission sets.
//
// Caching and refresh are the provider's concern: callers request a token per
// workflow invocation and must not hold one across invocations.
type Provider interface {
	TokenForScope(ctx context.Context, scope string) (string, error)
}
