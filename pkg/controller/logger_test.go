package controller_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sitekit/pkg/controller"
	"sitekit/pkg/logger"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name   string
		header map[string]string
		remote string
		want   string
	}{
		{name: "forwarded chain uses first hop", header: map[string]string{"X-Forwarded-For": "1.2.3.4, 5.6.7.8"}, want: "1.2.3.4"},
		{name: "forwarded wins over real ip", header: map[string]string{"X-Forwarded-For": "1.1.1.1", "X-Real-IP": "2.2.2.2"}, want: "1.1.1.1"},
		{name: "real ip", header: map[string]string{"X-Real-IP": "9.8.7.6"}, want: "9.8.7.6"},
		{name: "remote addr", remote: "10.0.0.1:12345", want: "10.0.0.1"},
		{name: "unparseable remote passes through", remote: "not-an-addr", want: "not-an-addr"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			for k, v := range tt.header {
				req.Header.Set(k, v)
			}
			if tt.remote != "" {
				req.RemoteAddr = tt.remote
			}
			assert.Equal(t, tt.want, controller.GetClientIP(req))
		})
	}
}

func TestWithLogger(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	defer logger.Replace(zap.New(core))()

	var seenID string
	var loggerFromCtx *zap.Logger
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenID, _ = r.Context().Value(controller.RequestIDKey).(string)
		loggerFromCtx = logger.Get(r.Context())
		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write([]byte("hello"))
	})

	req := httptest.NewRequest(http.MethodPost, "/api/contact?x=1", nil)
	req.Header.Set("X-Request-Id", "abc-123")
	req.Header.Set("X-Real-IP", "7.7.7.7")
	rec := httptest.NewRecorder()
	controller.WithLogger(next).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, "abc-123", seenID)
	assert.Equal(t, "abc-123", rec.Header().Get("X-Request-Id"))
	require.NotNil(t, loggerFromCtx)

	entries := logs.FilterMessage("Access log").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "abc-123", fields[string(controller.RequestIDKey)])
	assert.Equal(t, int64(http.StatusAccepted), fields["status_code"])
	assert.Equal(t, int64(5), fields["bytes"])
	assert.Equal(t, "7.7.7.7", fields["client_ip"])
	assert.Equal(t, http.MethodPost, fields["method"])
	assert.Equal(t, "/api/contact?x=1", fields["url"])
}

func TestWithLogger_GeneratesRequestID(t *testing.T) {
	var seenID string
	next := http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seenID, _ = r.Context().Value(controller.RequestIDKey).(string)
	})

	rec := httptest.NewRecorder()
	controller.WithLogger(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil).WithContext(context.Background()))

	assert.Equal(t, http.StatusOK, rec.Code, "implicit status is recorded as 200")
	assert.NotEmpty(t, seenID)
	assert.Equal(t, seenID, rec.Header().Get("X-Request-Id"))
}

func TestRequestID(t *testing.T) {
	assert.Empty(t, controller.RequestID(context.Background()))

	var got string
	h := controller.WithLogger(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		got = controller.RequestID(r.Context())
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(controller.RequestIDHeader, "rid-1")
	h.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "rid-1", got)
}

func TestGetClientIP_IgnoresGarbageHeaders(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-For", "unknown")
	req.Header.Set("X-Real-IP", "also-bad")
	req.RemoteAddr = "10.1.1.1:443"

	assert.Equal(t, "10.1.1.1", controller.GetClientIP(req))
}
