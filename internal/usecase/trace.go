package usecase

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/riskibarqy/prode/internal/domain/competition"
)

var usecaseTracer = otel.Tracer("prode/internal/usecase")

// startUsecaseSpan opens a child span only when the caller is already traced.
func startUsecaseSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	parent := trace.SpanFromContext(ctx)
	if name == "" || !parent.SpanContext().IsValid() {
		return ctx, trace.SpanFromContext(context.Background())
	}
	return usecaseTracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func startScopeSpan(ctx context.Context, name string, scope competition.Scope) (context.Context, trace.Span) {
	return startUsecaseSpan(ctx, name,
		attribute.Int("prode.league_id", scope.LeagueID),
		attribute.String("prode.scope", scope.Key()),
	)
}
