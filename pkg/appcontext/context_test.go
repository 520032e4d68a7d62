package appcontext

import (
	"bytes"
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestLoggerFromContext(t *testing.T) {
	buf := &bytes.Buffer{}

	logger := logrus.New()
	logger.Out = buf
	logger.SetFormatter(&logrus.JSONFormatter{})

	ctx := WithRequestId(WithResource(WithRunId(WithRuleName(context.Background(), "nginx"), "run-1"), "file[/etc/logrotate.d/nginx]"), "req-1")

	LoggerFromContext(logger, ctx).Info("hello")

	out := buf.String()
	assert.Contains(t, out, `"rule":"nginx"`)
	assert.Contains(t, out, `"run_id":"run-1"`)
	assert.Contains(t, out, `"resource":"file[/etc/logrotate.d/nginx]"`)
	assert.Contains(t, out, `"request_id":"req-1"`)
	assert.Equal(t, "run-1", RunIdFromContext(ctx))
}

func TestLoggerFromContext_Empty(t *testing.T) {
	logger := logrus.New()

	assert.Equal(t, logrus.FieldLogger(logger), LoggerFromContext(logger, nil))
	assert.Equal(t, "", RunIdFromContext(context.Background()))
}
