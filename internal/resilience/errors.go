package resilience

import (
	"context"
	"errors"
	"io"
	"net"
	"syscall"
)

// StatusOverloaded is the non-standard status the Anthropic API returns
// while shedding load.
const StatusOverloaded = 529

// RetryableStatus reports whether a failed HTTP call with this status may
// succeed if repeated.
func RetryableStatus(code int) bool {
	switch code {
	case 408, 429, 500, 502, 503, 504, StatusOverloaded:
		return true
	}
	return false
}

// NetworkFailure reports whether err is a connection-level failure that
// happened before any response arrived: timeouts, resets, refused dials and
// truncated reads. Cancellation is never retryable.
func NetworkFailure(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNABORTED) ||
		errors.Is(err, io.ErrUnexpectedEOF)
}

// Classifier returns a ShouldRetry func for a client whose errors carry an
// HTTP status. status returns 0 when err has none, in which case only
// network failures are retried.
func Classifier(status func(error) int) func(error) bool {
	return func(err error) bool {
		if code := status(err); code != 0 {
			return RetryableStatus(code)
		}
		return NetworkFailure(err)
	}
}
