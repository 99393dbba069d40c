// Package resilience retries backend operations with exponential backoff.
//
// Errors are classified with the hostkit error model: an *errors.AppError is
// retried only when it is marked Retryable, and context cancellation is never
// retried.
//
//	err := resilience.RetryFunc(ctx, resilience.DefaultRetryConfig(), func() error {
//	    return client.Ping(ctx)
//	})
package resilience
