package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"google.golang.org/genai"
)

const maxAttempts = 5

// Overridable in tests so backoff assertions don't take real wall time.
var (
	backoffBase = time.Second
	sleep       = func(ctx context.Context, d time.Duration) error {
		t := time.NewTimer(d)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			return nil
		}
	}
)

// Sentinel errors for model output that parsed poorly enough to be worth one
// more attempt.
var (
	errEmptyResponse    = errors.New("empty response from model")
	errMalformedOutput  = errors.New("model output is not the expected JSON shape")
	errNoCandidates     = errors.New("model returned no candidates")
	errUnknownTransient = errors.New("transient dependency failure")
)

// isRetryable declares the transient error set: rate-limited or server-side
// API failures, JSON decode failures, and structurally wrong model output.
// Everything else (bad credentials, cancelled context, caller bugs)
// propagates immediately.
func isRetryable(err error) bool {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code == 429 || apiErr.Code >= 500
	}
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
		return true
	}
	return errors.Is(err, errEmptyResponse) ||
		errors.Is(err, errMalformedOutput) ||
		errors.Is(err, errNoCandidates) ||
		errors.Is(err, errUnknownTransient)
}

// retryWithBackoff runs fn up to attempts times, sleeping 2^attempt * base
// between tries, but only for errors matched by retryable. The terminal error
// wraps the last cause with the attempt count.
func retryWithBackoff[T any](ctx context.Context, attempts int, retryable func(error) bool, fn func() (T, error)) (T, error) {
	var zero T
	var lastErr error

	for i := 0; i < attempts; i++ {
		result, err := fn()
		if err == nil {
			return result, nil
		}
		if !retryable(err) {
			return zero, err
		}
		lastErr = err
		if i == attempts-1 {
			break
		}
		wait := backoffBase * time.Duration(1<<i)
		log.Printf("attempt %d/%d failed: %v (retrying in %v)", i+1, attempts, err, wait)
		if err := sleep(ctx, wait); err != nil {
			return zero, fmt.Errorf("retry aborted: %w", err)
		}
	}
	return zero, fmt.Errorf("after %d attempts: %w", attempts, lastErr)
}
