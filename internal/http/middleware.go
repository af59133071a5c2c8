package http

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rogerio-castellano/market-pulse/internal/apperr"
	"github.com/rogerio-castellano/market-pulse/internal/http/handlers"
	"github.com/sirupsen/logrus"
)

// RequestLogger logs one line per request once the response is written.
func RequestLogger(logger *logrus.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			defer func() {
				status := ww.Status()
				if status == 0 {
					status = http.StatusOK
				}

				entry := logger.WithFields(logrus.Fields{
					"method":      r.Method,
					"path":        r.URL.Path,
					"status":      status,
					"bytes":       ww.BytesWritten(),
					"duration_ms": time.Since(start).Milliseconds(),
					"ip":          clientIP(r),
					"request_id":  middleware.GetReqID(r.Context()),
				})

				switch {
				case status >= http.StatusInternalServerError:
					entry.Error("request failed")
				case status >= http.StatusBadRequest:
					entry.Warn("request rejected")
				default:
					entry.Info("request served")
				}
			}()

			next.ServeHTTP(ww, r)
		})
	}
}

// Recoverer turns a panic into a logged 500 with the uniform error body.
func Recoverer(logger *logrus.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				logger.WithFields(logrus.Fields{
					"panic": rec,
					"stack": string(debug.Stack()),
				}).Error("recovered from panic")
				handlers.WriteError(w, r, logger, apperr.Internal(fmt.Errorf("panic: %v", rec)))
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// Limiter decides whether a client may proceed right now.
type Limiter interface {
	Allow(ip string) bool
}

// Banner tracks rate-limit strikes and active bans.
type Banner interface {
	IsBanned(ctx context.Context, target string) (bool, error)
	Strike(ctx context.Context, target, route string) (bool, error)
}

// RateLimit rejects banned clients with 403 and throttled ones with 429. Each
// throttled request counts as a strike toward a ban. Ban store failures are
// logged and the request is let through.
func RateLimit(limiter Limiter, banner Banner, logger *logrus.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)

			banned, err := banner.IsBanned(r.Context(), ip)
			if err != nil {
				logger.WithError(err).Error("ban check failed")
			}
			if banned {
				handlers.WriteError(w, r, logger, apperr.New(apperr.CodeBanned, "too many requests, client temporarily banned", http.StatusForbidden, nil))
				return
			}

			if !limiter.Allow(ip) {
				if _, err := banner.Strike(r.Context(), ip, r.URL.Path); err != nil {
					logger.WithError(err).Error("failed to record strike")
				}
				handlers.WriteError(w, r, logger, apperr.New(apperr.CodeRateLimited, "rate limit exceeded", http.StatusTooManyRequests, nil))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
