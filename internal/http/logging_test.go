package http

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/example/course-scheduler/internal/application"
	"github.com/example/course-scheduler/internal/logging"
)

func TestHandlerLogger(t *testing.T) {
	t.Parallel()

	t.Run("prefers the context logger over the fallback", func(t *testing.T) {
		var contextBuf, fallbackBuf bytes.Buffer
		contextLogger := slog.New(slog.NewJSONHandler(&contextBuf, nil))
		fallback := slog.New(slog.NewJSONHandler(&fallbackBuf, nil))

		ctx := logging.ContextWithLogger(context.Background(), contextLogger)
		handlerLogger(ctx, fallback, "ScheduleHandler", "Create").Info("hello")

		if !strings.Contains(contextBuf.String(), "hello") {
			t.Errorf("context logger output = %s, want entry", contextBuf.String())
		}
		if fallbackBuf.Len() != 0 {
			t.Errorf("fallback logger received output: %s", fallbackBuf.String())
		}
	})

	t.Run("falls back when the context carries no logger", func(t *testing.T) {
		var buf bytes.Buffer
		fallback := slog.New(slog.NewJSONHandler(&buf, nil))

		handlerLogger(context.Background(), fallback, "RoomHandler", "Get").Info("hello")

		if !strings.Contains(buf.String(), "hello") {
			t.Errorf("fallback output = %s, want entry", buf.String())
		}
	})

	t.Run("attaches handler and operation attributes", func(t *testing.T) {
		var buf bytes.Buffer
		fallback := slog.New(slog.NewJSONHandler(&buf, nil))

		handlerLogger(context.Background(), fallback, "SectionHandler", "List", "section_id", "section-1").Info("listed")

		logged := buf.String()
		for _, want := range []string{`"handler":"SectionHandler"`, `"operation":"List"`, `"section_id":"section-1"`} {
			if !strings.Contains(logged, want) {
				t.Errorf("log output missing %s: %s", want, logged)
			}
		}
	})
}

func TestScheduleHandlerOperationLogging(t *testing.T) {
	t.Parallel()

	t.Run("successful create logs through the context logger", func(t *testing.T) {
		var buf bytes.Buffer
		contextLogger := slog.New(slog.NewJSONHandler(&buf, nil))

		service := &stubScheduleService{schedule: sampleSchedule()}
		handler := NewScheduleHandler(service, nil)

		req := httptest.NewRequest(http.MethodPost, "/schedules", strings.NewReader(validScheduleBody))
		req = req.WithContext(logging.ContextWithLogger(req.Context(), contextLogger))
		handler.Create(httptest.NewRecorder(), req)

		logged := buf.String()
		for _, want := range []string{`"handler":"ScheduleHandler"`, `"operation":"Create"`, "schedule created", `"schedule_id":"schedule-1"`} {
			if !strings.Contains(logged, want) {
				t.Errorf("log output missing %s: %s", want, logged)
			}
		}
	})

	t.Run("service failure logs the error kind", func(t *testing.T) {
		var buf bytes.Buffer
		fallback := slog.New(slog.NewJSONHandler(&buf, nil))

		service := &stubScheduleService{err: application.ErrNotFound}
		handler := NewScheduleHandler(service, fallback)

		req := httptest.NewRequest(http.MethodGet, "/schedules/schedule-1", nil)
		req = req.WithContext(ContextWithScheduleID(req.Context(), "schedule-1"))
		handler.Get(httptest.NewRecorder(), req)

		logged := buf.String()
		for _, want := range []string{`"operation":"Get"`, "schedule lookup failed", `"error_kind":"not_found"`} {
			if !strings.Contains(logged, want) {
				t.Errorf("log output missing %s: %s", want, logged)
			}
		}
	})
}
