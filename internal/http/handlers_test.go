package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/example/course-scheduler/internal/application"
	"github.com/example/course-scheduler/internal/persistence"
)

type stubScheduleService struct {
	schedule persistence.Schedule
	list     []persistence.Schedule
	warnings []application.ConflictWarning
	deleted  int
	err      error

	lastCreate application.CreateScheduleParams
	lastUpdate application.UpdateScheduleParams
	lastList   application.ListSchedulesParams
	lastDelete []string
}

func (s *stubScheduleService) CreateSchedule(ctx context.Context, params application.CreateScheduleParams) (persistence.Schedule, error) {
	s.lastCreate = params
	return s.schedule, s.err
}

func (s *stubScheduleService) UpdateSchedule(ctx context.Context, params application.UpdateScheduleParams) (persistence.Schedule, error) {
	s.lastUpdate = params
	return s.schedule, s.err
}

func (s *stubScheduleService) GetSchedule(ctx context.Context, id string) (persistence.Schedule, error) {
	return s.schedule, s.err
}

func (s *stubScheduleService) DeleteSchedules(ctx context.Context, ids []string) (int, error) {
	s.lastDelete = ids
	return s.deleted, s.err
}

func (s *stubScheduleService) ListSchedules(ctx context.Context, params application.ListSchedulesParams) ([]persistence.Schedule, []application.ConflictWarning, error) {
	s.lastList = params
	return s.list, s.warnings, s.err
}

func sampleSchedule() persistence.Schedule {
	roomID := "room-101"
	createdAt := time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)
	return persistence.Schedule{
		ID:             "schedule-1",
		SectionID:      "section-1",
		Day:            "monday",
		Start:          9 * 60,
		End:            10 * 60,
		MeetingPattern: "weekly",
		LocationType:   "in-person",
		RoomID:         &roomID,
		CreatedAt:      createdAt,
		UpdatedAt:      createdAt,
	}
}

func newScheduleRouter(service *stubScheduleService) http.Handler {
	return NewRouter(RouterConfig{Schedules: NewScheduleHandler(service, nil)})
}

const validScheduleBody = `{
	"sectionId": "section-1",
	"dayOfWeek": "monday",
	"startTime": "09:00",
	"endTime": "10:00",
	"meetingPattern": "weekly",
	"locationType": "in-person",
	"roomId": "room-101"
}`

func TestScheduleHandlers(t *testing.T) {
	t.Parallel()

	t.Run("create returns 201 with the stored schedule", func(t *testing.T) {
		t.Parallel()
		service := &stubScheduleService{schedule: sampleSchedule()}
		router := newScheduleRouter(service)

		req := httptest.NewRequest(http.MethodPost, "/schedules", strings.NewReader(validScheduleBody))
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		if recorder.Code != http.StatusCreated {
			t.Fatalf("status = %d, want 201; body %s", recorder.Code, recorder.Body.String())
		}

		var resp scheduleResponse
		if err := json.Unmarshal(recorder.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if resp.Schedule.ID != "schedule-1" {
			t.Errorf("schedule id = %q, want schedule-1", resp.Schedule.ID)
		}
		if resp.Schedule.StartTime != "09:00" || resp.Schedule.EndTime != "10:00" {
			t.Errorf("times = %q-%q, want 09:00-10:00", resp.Schedule.StartTime, resp.Schedule.EndTime)
		}
		if service.lastCreate.Input.SectionID != "section-1" {
			t.Errorf("service received section %q", service.lastCreate.Input.SectionID)
		}
	})

	t.Run("conflict maps to 409 with the fixed conflict key", func(t *testing.T) {
		t.Parallel()
		service := &stubScheduleService{err: &application.ConflictError{Message: application.ConflictMessage}}
		router := newScheduleRouter(service)

		req := httptest.NewRequest(http.MethodPost, "/schedules", strings.NewReader(validScheduleBody))
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		if recorder.Code != http.StatusConflict {
			t.Fatalf("status = %d, want 409", recorder.Code)
		}

		var resp map[string]any
		if err := json.Unmarshal(recorder.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if resp["conflict"] != "Schedule overlaps an existing booking" {
			t.Errorf(`conflict = %v, want "Schedule overlaps an existing booking"`, resp["conflict"])
		}
	})

	t.Run("malformed body maps to 400", func(t *testing.T) {
		t.Parallel()
		router := newScheduleRouter(&stubScheduleService{})

		req := httptest.NewRequest(http.MethodPost, "/schedules", strings.NewReader("{not json"))
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		if recorder.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", recorder.Code)
		}
	})

	t.Run("shape violations map to 422 with field details", func(t *testing.T) {
		t.Parallel()
		service := &stubScheduleService{}
		router := newScheduleRouter(service)

		body := `{"sectionId":"section-1","dayOfWeek":"funday","startTime":"09:00","endTime":"10:00","meetingPattern":"weekly","locationType":"in-person","roomId":"room-101"}`
		req := httptest.NewRequest(http.MethodPost, "/schedules", strings.NewReader(body))
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		if recorder.Code != http.StatusUnprocessableEntity {
			t.Fatalf("status = %d, want 422; body %s", recorder.Code, recorder.Body.String())
		}

		var resp errorResponse
		if err := json.Unmarshal(recorder.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if _, ok := resp.Errors["dayOfWeek"]; !ok {
			t.Errorf("expected dayOfWeek field error, got %v", resp.Errors)
		}
		if service.lastCreate.Input.SectionID != "" {
			t.Error("service must not be called for invalid payloads")
		}
	})

	t.Run("unparseable times map to 422", func(t *testing.T) {
		t.Parallel()
		router := newScheduleRouter(&stubScheduleService{})

		body := `{"sectionId":"section-1","dayOfWeek":"monday","startTime":"9 o'clock","endTime":"10:00","meetingPattern":"weekly","locationType":"in-person","roomId":"room-101"}`
		req := httptest.NewRequest(http.MethodPost, "/schedules", strings.NewReader(body))
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		if recorder.Code != http.StatusUnprocessableEntity {
			t.Fatalf("status = %d, want 422; body %s", recorder.Code, recorder.Body.String())
		}
	})

	t.Run("validation errors from the service map to 422", func(t *testing.T) {
		t.Parallel()
		service := &stubScheduleService{err: &application.ValidationError{FieldErrors: map[string]string{"time": "start time must be before end time"}}}
		router := newScheduleRouter(service)

		req := httptest.NewRequest(http.MethodPost, "/schedules", strings.NewReader(validScheduleBody))
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		if recorder.Code != http.StatusUnprocessableEntity {
			t.Fatalf("status = %d, want 422", recorder.Code)
		}
	})

	t.Run("missing schedules map to 404", func(t *testing.T) {
		t.Parallel()
		service := &stubScheduleService{err: application.ErrNotFound}
		router := newScheduleRouter(service)

		req := httptest.NewRequest(http.MethodGet, "/schedules/missing", nil)
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		if recorder.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want 404", recorder.Code)
		}
	})

	t.Run("unexpected errors map to 500", func(t *testing.T) {
		t.Parallel()
		service := &stubScheduleService{err: errors.New("boom")}
		router := newScheduleRouter(service)

		req := httptest.NewRequest(http.MethodGet, "/schedules/schedule-1", nil)
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		if recorder.Code != http.StatusInternalServerError {
			t.Fatalf("status = %d, want 500", recorder.Code)
		}
	})

	t.Run("update passes the path id to the service", func(t *testing.T) {
		t.Parallel()
		service := &stubScheduleService{schedule: sampleSchedule()}
		router := newScheduleRouter(service)

		req := httptest.NewRequest(http.MethodPut, "/schedules/schedule-1", strings.NewReader(validScheduleBody))
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		if recorder.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200; body %s", recorder.Code, recorder.Body.String())
		}
		if service.lastUpdate.ScheduleID != "schedule-1" {
			t.Errorf("service received id %q", service.lastUpdate.ScheduleID)
		}
	})

	t.Run("delete answers 204 and 404 for unknown ids", func(t *testing.T) {
		t.Parallel()
		service := &stubScheduleService{deleted: 1}
		router := newScheduleRouter(service)

		req := httptest.NewRequest(http.MethodDelete, "/schedules/schedule-1", nil)
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)
		if recorder.Code != http.StatusNoContent {
			t.Fatalf("status = %d, want 204", recorder.Code)
		}

		service.deleted = 0
		req = httptest.NewRequest(http.MethodDelete, "/schedules/missing", nil)
		recorder = httptest.NewRecorder()
		router.ServeHTTP(recorder, req)
		if recorder.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want 404", recorder.Code)
		}
	})

	t.Run("bulk delete reports the removed count", func(t *testing.T) {
		t.Parallel()
		service := &stubScheduleService{deleted: 2}
		router := newScheduleRouter(service)

		req := httptest.NewRequest(http.MethodDelete, "/schedules", strings.NewReader(`{"ids":["a","b","missing"]}`))
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		if recorder.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200; body %s", recorder.Code, recorder.Body.String())
		}
		var resp bulkDeleteResponse
		if err := json.Unmarshal(recorder.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if resp.Deleted != 2 {
			t.Errorf("deleted = %d, want 2", resp.Deleted)
		}
		if len(service.lastDelete) != 3 {
			t.Errorf("service received %d ids, want 3", len(service.lastDelete))
		}
	})

	t.Run("bulk delete rejects an empty id list", func(t *testing.T) {
		t.Parallel()
		router := newScheduleRouter(&stubScheduleService{})

		req := httptest.NewRequest(http.MethodDelete, "/schedules", strings.NewReader(`{"ids":[]}`))
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		if recorder.Code != http.StatusUnprocessableEntity {
			t.Fatalf("status = %d, want 422", recorder.Code)
		}
	})

	t.Run("list maps query parameters and serializes warnings", func(t *testing.T) {
		t.Parallel()
		roomID := "room-101"
		service := &stubScheduleService{
			list:     []persistence.Schedule{sampleSchedule()},
			warnings: []application.ConflictWarning{{ScheduleID: "schedule-2", Type: "room", RoomID: &roomID}},
		}
		router := newScheduleRouter(service)

		req := httptest.NewRequest(http.MethodGet, "/schedules?roomId=room-101&dayOfWeek=monday", nil)
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		if recorder.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", recorder.Code)
		}
		if service.lastList.RoomID != "room-101" || string(service.lastList.Day) != "monday" {
			t.Errorf("service received %+v", service.lastList)
		}

		var resp listSchedulesResponse
		if err := json.Unmarshal(recorder.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if len(resp.Schedules) != 1 {
			t.Fatalf("schedules = %d, want 1", len(resp.Schedules))
		}
		if len(resp.Warnings) != 1 || resp.Warnings[0].ScheduleID != "schedule-2" {
			t.Errorf("warnings = %+v", resp.Warnings)
		}
	})

	t.Run("unsupported methods answer 405", func(t *testing.T) {
		t.Parallel()
		router := newScheduleRouter(&stubScheduleService{})

		req := httptest.NewRequest(http.MethodPatch, "/schedules", nil)
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		if recorder.Code != http.StatusMethodNotAllowed {
			t.Fatalf("status = %d, want 405", recorder.Code)
		}
		if allow := recorder.Header().Get("Allow"); !strings.Contains(allow, http.MethodPost) {
			t.Errorf("Allow header = %q", allow)
		}
	})
}

type stubSectionService struct {
	section persistence.Section
	err     error
}

func (s *stubSectionService) CreateSection(ctx context.Context, input application.SectionInput) (persistence.Section, error) {
	return s.section, s.err
}

func (s *stubSectionService) GetSection(ctx context.Context, id string) (persistence.Section, error) {
	return s.section, s.err
}

func (s *stubSectionService) ListSections(ctx context.Context) ([]persistence.Section, error) {
	return []persistence.Section{s.section}, s.err
}

func TestSectionHandlers(t *testing.T) {
	t.Parallel()

	t.Run("create returns 201", func(t *testing.T) {
		t.Parallel()
		service := &stubSectionService{section: persistence.Section{ID: "section-1", CourseCode: "CS-101", Capacity: 30}}
		router := NewRouter(RouterConfig{Sections: NewSectionHandler(service, nil)})

		req := httptest.NewRequest(http.MethodPost, "/sections", strings.NewReader(`{"courseCode":"CS-101","capacity":30}`))
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		if recorder.Code != http.StatusCreated {
			t.Fatalf("status = %d, want 201; body %s", recorder.Code, recorder.Body.String())
		}
	})

	t.Run("create rejects missing capacity", func(t *testing.T) {
		t.Parallel()
		router := NewRouter(RouterConfig{Sections: NewSectionHandler(&stubSectionService{}, nil)})

		req := httptest.NewRequest(http.MethodPost, "/sections", strings.NewReader(`{"courseCode":"CS-101"}`))
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		if recorder.Code != http.StatusUnprocessableEntity {
			t.Fatalf("status = %d, want 422", recorder.Code)
		}
	})

	t.Run("get answers 404 for unknown sections", func(t *testing.T) {
		t.Parallel()
		service := &stubSectionService{err: application.ErrNotFound}
		router := NewRouter(RouterConfig{Sections: NewSectionHandler(service, nil)})

		req := httptest.NewRequest(http.MethodGet, "/sections/missing", nil)
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		if recorder.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want 404", recorder.Code)
		}
	})
}

type stubRoomService struct {
	room persistence.Room
	err  error
}

func (s *stubRoomService) CreateRoom(ctx context.Context, input application.RoomInput) (persistence.Room, error) {
	return s.room, s.err
}

func (s *stubRoomService) GetRoom(ctx context.Context, id string) (persistence.Room, error) {
	return s.room, s.err
}

func (s *stubRoomService) ListRooms(ctx context.Context) ([]persistence.Room, error) {
	return []persistence.Room{s.room}, s.err
}

func TestRoomHandlers(t *testing.T) {
	t.Parallel()

	t.Run("create returns 201", func(t *testing.T) {
		t.Parallel()
		service := &stubRoomService{room: persistence.Room{ID: "room-101", Name: "101"}}
		router := NewRouter(RouterConfig{Rooms: NewRoomHandler(service, nil)})

		req := httptest.NewRequest(http.MethodPost, "/rooms", strings.NewReader(`{"name":"101","building":"Science Hall","capacity":45}`))
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		if recorder.Code != http.StatusCreated {
			t.Fatalf("status = %d, want 201; body %s", recorder.Code, recorder.Body.String())
		}
	})

	t.Run("list returns the catalog", func(t *testing.T) {
		t.Parallel()
		service := &stubRoomService{room: persistence.Room{ID: "room-101", Name: "101"}}
		router := NewRouter(RouterConfig{Rooms: NewRoomHandler(service, nil)})

		req := httptest.NewRequest(http.MethodGet, "/rooms", nil)
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		if recorder.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", recorder.Code)
		}
		var resp listRoomsResponse
		if err := json.Unmarshal(recorder.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if len(resp.Rooms) != 1 || resp.Rooms[0].ID != "room-101" {
			t.Errorf("rooms = %+v", resp.Rooms)
		}
	})
}
