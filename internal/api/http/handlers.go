package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"log/slog"

	"github.com/asaskevich/govalidator"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/jwtauth/v5"
	"github.com/jekabolt/shop-analytics/internal/auth/jwt"
	"github.com/jekabolt/shop-analytics/internal/dependency"
	"github.com/jekabolt/shop-analytics/internal/entity"
	gerr "github.com/jekabolt/shop-analytics/internal/errors"
	"github.com/jekabolt/shop-analytics/internal/metrics"
	"github.com/jekabolt/shop-analytics/internal/middleware"
	"github.com/jekabolt/shop-analytics/internal/ratelimit"
)

type domainKey struct{}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Default().Error("can't write response", slog.String("err", err.Error()))
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := gerr.HTTPStatus(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "internal error"
	}
	writeJSON(w, status, errorResponse{Error: msg})
}

// authenticator rejects requests without a valid token carrying a domain claim
// and stores that domain in the request context.
func authenticator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, claims, err := jwtauth.FromContext(r.Context())
		if err != nil || token == nil {
			writeError(w, gerr.ErrUnauthorized)
			return
		}
		domain, ok := jwt.DomainFromClaims(claims)
		if !ok {
			writeError(w, gerr.ErrUnauthorized)
			return
		}
		ctx := context.WithValue(r.Context(), domainKey{}, domain)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func domainFromContext(ctx context.Context) string {
	d, _ := ctx.Value(domainKey{}).(string)
	return d
}

func rateLimit(l *ratelimit.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := middleware.GetClientIP(r.Context())
			if !l.Allow(ip) {
				slog.Default().WarnContext(r.Context(), "rate limit exceeded",
					slog.String("ip", ip),
					slog.String("domain", domainFromContext(r.Context())),
				)
				writeError(w, gerr.ErrRateLimited)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// instrument records request count and latency per matched route.
func instrument(m *metrics.Prometheus) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			route := "unmatched"
			if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
				route = rctx.RoutePattern()
			}
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			m.ObserveHTTP(r.Method, route, strconv.Itoa(status), time.Since(start))
		})
	}
}

// parseGameServerIds accepts repeated and comma separated gameServerIds values.
func parseGameServerIds(values []string) ([]string, error) {
	var ids []string
	seen := map[string]bool{}
	for _, v := range values {
		for _, id := range strings.Split(v, ",") {
			id = strings.TrimSpace(id)
			if id == "" {
				continue
			}
			if !govalidator.IsUUID(id) {
				return nil, fmt.Errorf("%w: invalid game server id %q", gerr.ErrBadRequest, id)
			}
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}
	return ids, nil
}

func analyticsHandler(a dependency.Analytics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		q := r.URL.Query()

		ids, err := parseGameServerIds(q["gameServerIds"])
		if err != nil {
			writeError(w, err)
			return
		}
		filter := entity.AnalyticsFilter{
			DomainId:      domainFromContext(ctx),
			GameServerIds: ids,
		}

		report, err := a.GetAnalytics(ctx, filter, entity.ParsePeriod(q.Get("period")))
		if err != nil {
			slog.Default().ErrorContext(ctx, "can't get shop analytics",
				slog.String("domain", filter.DomainId),
				slog.String("err", err.Error()),
			)
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, report)
	}
}

func healthHandler(ping func(ctx context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if ping != nil {
			if err := ping(r.Context()); err != nil {
				slog.Default().ErrorContext(r.Context(), "health check failed",
					slog.String("err", err.Error()),
				)
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
