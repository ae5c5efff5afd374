package backend

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

type clientMetrics struct {
	requests        metric.Int64Counter
	retries         metric.Int64Counter
	refreshes       metric.Int64Counter
	refreshFailures metric.Int64Counter
}

func newClientMetrics(m metric.Meter) clientMetrics {
	if m == nil {
		return clientMetrics{}
	}
	requests, _ := m.Int64Counter("backend.client.requests", metric.WithDescription("Logical requests issued to the backend"))
	retries, _ := m.Int64Counter("backend.client.retries", metric.WithDescription("Requests re-issued after a token refresh"))
	refreshes, _ := m.Int64Counter("backend.client.refreshes", metric.WithDescription("Refresh calls sent to the backend"))
	failures, _ := m.Int64Counter("backend.client.refresh_failures", metric.WithDescription("Refresh calls that cleared the session"))
	return clientMetrics{requests: requests, retries: retries, refreshes: refreshes, refreshFailures: failures}
}

func (m clientMetrics) recordRequest(ctx context.Context, method string, status int) {
	if m.requests != nil {
		m.requests.Add(ctx, 1, metric.WithAttributes(
			attribute.String("http.method", method),
			attribute.Int("http.status_code", status),
		))
	}
}

func (m clientMetrics) recordRetry(ctx context.Context) {
	if m.retries != nil {
		m.retries.Add(ctx, 1)
	}
}

func (m clientMetrics) recordRefresh(ctx context.Context) {
	if m.refreshes != nil {
		m.refreshes.Add(ctx, 1)
	}
}

func (m clientMetrics) recordRefreshFailure(ctx context.Context) {
	if m.refreshFailures != nil {
		m.refreshFailures.Add(ctx, 1)
	}
}
