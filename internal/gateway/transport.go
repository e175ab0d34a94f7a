package gateway

import (
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// loggingRoundTripper logs every GitHub API call at debug level.
type loggingRoundTripper struct {
	base   http.RoundTripper
	logger *zap.SugaredLogger
}

func (rt *loggingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	if !rt.logger.Desugar().Core().Enabled(zapcore.DebugLevel) {
		return rt.base.RoundTrip(req)
	}

	start := time.Now()
	fields := []interface{}{"method", req.Method, "url", req.URL.String()}
	if auth := req.Header.Get("Authorization"); auth != "" {
		fields = append(fields, "authorization", maskAuthHeader(auth))
	}
	rt.logger.Debugw("github_api_request", fields...)

	resp, err := rt.base.RoundTrip(req)
	duration := time.Since(start)
	if err != nil {
		rt.logger.Debugw("github_api_error",
			"method", req.Method,
			"url", req.URL.String(),
			"duration_ms", duration.Milliseconds(),
			"error", err.Error(),
		)
		return nil, err
	}

	fields = []interface{}{"status_code", resp.StatusCode, "duration_ms", duration.Milliseconds()}
	if remaining := resp.Header.Get("X-RateLimit-Remaining"); remaining != "" {
		fields = append(fields, "rate_limit_remaining", remaining)
	}
	rt.logger.Debugw("github_api_response", fields...)
	return resp, nil
}

// maskAuthHeader keeps the scheme and hides the credential.
func maskAuthHeader(auth string) string {
	scheme, _, found := strings.Cut(auth, " ")
	if !found {
		return "[REDACTED]"
	}
	return scheme + " [REDACTED]"
}
