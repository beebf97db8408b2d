// Package resilience groups the fault-tolerance helpers used around every
// outbound call of a digest run.
//
// The subpackages are:
//   - circuitbreaker: one breaker per model provider and per news feed
//   - retry: exponential backoff with jitter, aware of the model error taxonomy
//
// Callers compose them retry-outside, breaker-inside, so a tripped breaker
// ends the retry loop immediately:
//
//	cb := circuitbreaker.New(circuitbreaker.ClaudeAPIConfig())
//	err := retry.WithBackoff(ctx, retry.ModelAPIConfig(), func() error {
//	    _, err := circuitbreaker.Call(cb, func() (string, error) {
//	        return callProvider(ctx)
//	    })
//	    return err
//	})
package resilience
