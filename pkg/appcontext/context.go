package appcontext

import (
	"context"

	"github.com/sirupsen/logrus"
)

type contextId int

const (
	ruleNameKeyId contextId = iota
	runIdKeyId
	resourceKeyId
	requestIdKeyId
)

func WithRequestId(ctx context.Context, requestId string) context.Context {
	return context.WithValue(ctx, requestIdKeyId, requestId)
}

func WithRunId(ctx context.Context, runId string) context.Context {
	return context.WithValue(ctx, runIdKeyId, runId)
}

func WithRuleName(ctx context.Context, rule string) context.Context {
	return context.WithValue(ctx, ruleNameKeyId, rule)
}

// WithResource stores a resource reference such as `file[/etc/logrotate.d/nginx]`.
func WithResource(ctx context.Context, resource string) context.Context {
	return context.WithValue(ctx, resourceKeyId, resource)
}

func RunIdFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}

	id, _ := ctx.Value(runIdKeyId).(string)
	return id
}

func LoggerFromContext(logger logrus.FieldLogger, ctx context.Context) logrus.FieldLogger {
	if ctx == nil {
		return logger
	}

	result := logger

	if ctxRuleName, ok := ctx.Value(ruleNameKeyId).(string); ok && ctxRuleName != "" {
		result = result.WithField("rule", ctxRuleName)
	}

	if ctxRunId, ok := ctx.Value(runIdKeyId).(string); ok && ctxRunId != "" {
		result = result.WithField("run_id", ctxRunId)
	}

	if ctxResource, ok := ctx.Value(resourceKeyId).(string); ok && ctxResource != "" {
		result = result.WithField("resource", ctxResource)
	}

	if ctxRequestId, ok := ctx.Value(requestIdKeyId).(string); ok && ctxRequestId != "" {
		result = result.WithField("request_id", ctxRequestId)
	}

	return result
}
