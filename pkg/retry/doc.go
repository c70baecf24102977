// Package retry re-runs provider requests that failed for transient reasons.
//
// Only typed network, rate limit and server errors are retried by default.
// Rate limits wait considerably longer than network errors:
//
//	post, err := retry.DoWithResult(ctx, func(ctx context.Context) (*Post, error) {
//		return c.fetchGraphQL(ctx, shortcode)
//	}, retry.DefaultConfig())
package retry
