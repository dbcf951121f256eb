package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/remedyexcel/clinic-server/internal/api"
	"github.com/remedyexcel/clinic-server/internal/blog"
	"github.com/remedyexcel/clinic-server/internal/scheduling"
)

const monday = "2026-09-07"

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	svc := scheduling.NewService(scheduling.NewMemStore(), scheduling.NewMutexLocker(), nil, zap.NewNop(), "Dr. Test")
	router := api.NewRouter(api.RouterConfig{
		Scheduling: svc,
		Blog:       blog.NewMemStore(),
		Validate:   validator.New(),
		Log:        zap.NewNop(),
		Env:        "test",
		Version:    "test",
	})

	ts := httptest.NewServer(router)
	t.Cleanup(ts.Close)
	return ts
}

func doJSON(t *testing.T, method, url string, body any, out any) int {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode response: %v", err)
		}
	}
	return resp.StatusCode
}

func bookingBody(date, at, ctype string) map[string]string {
	return map[string]string{
		"patientName":      "Pat Doe",
		"patientEmail":     "pat@example.com",
		"patientPhone":     "555-0100",
		"appointmentDate":  date,
		"appointmentTime":  at,
		"consultationType": ctype,
	}
}

func TestHealthLive(t *testing.T) {
	ts := newTestServer(t)

	var resp api.LivenessResponse
	if code := doJSON(t, http.MethodGet, ts.URL+"/health/live", nil, &resp); code != http.StatusOK {
		t.Fatalf("status %d", code)
	}
	if resp.Status != "ok" {
		t.Fatalf("status %q", resp.Status)
	}
}

func TestGetAvailabilityInitializesDefault(t *testing.T) {
	ts := newTestServer(t)

	var av scheduling.WeeklyAvailability
	if code := doJSON(t, http.MethodGet, ts.URL+"/api/availability", nil, &av); code != http.StatusOK {
		t.Fatalf("status %d", code)
	}
	if len(av.Schedule) != 7 {
		t.Fatalf("expected 7 day entries, got %d", len(av.Schedule))
	}
}

func TestAvailabilityByDate(t *testing.T) {
	ts := newTestServer(t)

	var slots []scheduling.TimeWindow
	if code := doJSON(t, http.MethodGet, ts.URL+"/api/availability?date="+monday, nil, &slots); code != http.StatusOK {
		t.Fatalf("status %d", code)
	}
	if len(slots) != 6 {
		t.Fatalf("expected 6 default windows on a Monday, got %d", len(slots))
	}

	if code := doJSON(t, http.MethodGet, ts.URL+"/api/availability?date=bogus", nil, nil); code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad date, got %d", code)
	}
}

func TestReplaceAvailability(t *testing.T) {
	ts := newTestServer(t)

	av := scheduling.DefaultAvailability("Dr. Replaced")
	av.Schedule = av.Schedule[:6] // drop Sunday on purpose

	var got scheduling.WeeklyAvailability
	if code := doJSON(t, http.MethodPut, ts.URL+"/api/availability", av, &got); code != http.StatusOK {
		t.Fatalf("status %d", code)
	}
	if len(got.Schedule) != 6 || got.DoctorName != "Dr. Replaced" {
		t.Fatalf("replace was not verbatim: %+v", got)
	}

	var reread scheduling.WeeklyAvailability
	doJSON(t, http.MethodGet, ts.URL+"/api/availability", nil, &reread)
	if len(reread.Schedule) != 6 {
		t.Fatalf("expected 6 entries on reread, got %d", len(reread.Schedule))
	}
}

func TestBookAppointmentValidation(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		name string
		body map[string]string
	}{
		{"missing name", bookingBodyWithout("patientName")},
		{"missing email", bookingBodyWithout("patientEmail")},
		{"missing phone", bookingBodyWithout("patientPhone")},
		{"missing date", bookingBodyWithout("appointmentDate")},
		{"missing time", bookingBodyWithout("appointmentTime")},
		{"missing type", bookingBodyWithout("consultationType")},
		{"bad type", bookingBodyWith("consultationType", "telepathy")},
		{"bad email", bookingBodyWith("patientEmail", "not-an-email")},
		{"bad date", bookingBodyWith("appointmentDate", "07-09-2026")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if code := doJSON(t, http.MethodPost, ts.URL+"/api/appointments", tt.body, nil); code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", code)
			}
		})
	}
}

func bookingBodyWithout(field string) map[string]string {
	b := bookingBody(monday, "09:00", "offline")
	delete(b, field)
	return b
}

func bookingBodyWith(field, value string) map[string]string {
	b := bookingBody(monday, "09:00", "offline")
	b[field] = value
	return b
}

func TestBookingFlow(t *testing.T) {
	ts := newTestServer(t)

	var appt scheduling.Appointment
	code := doJSON(t, http.MethodPost, ts.URL+"/api/appointments", bookingBody(monday, "09:00", "online"), &appt)
	if code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", code)
	}
	if appt.MeetingCode == "" {
		t.Fatal("online booking missing meeting code")
	}

	// The slot is gone from availability.
	var slots []scheduling.TimeWindow
	doJSON(t, http.MethodGet, ts.URL+"/api/availability?date="+monday, nil, &slots)
	for _, s := range slots {
		if s.StartTime == "09:00" {
			t.Fatal("booked slot still offered")
		}
	}

	// A second booking for the same slot conflicts.
	if code := doJSON(t, http.MethodPost, ts.URL+"/api/appointments", bookingBody(monday, "09:00", "offline"), nil); code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", code)
	}

	// Lookup and status transition.
	var fetched scheduling.Appointment
	if code := doJSON(t, http.MethodGet, ts.URL+"/api/appointments/"+appt.ID, nil, &fetched); code != http.StatusOK {
		t.Fatalf("get: %d", code)
	}

	var updated scheduling.Appointment
	if code := doJSON(t, http.MethodPut, ts.URL+"/api/appointments/"+appt.ID, map[string]string{"status": "cancelled"}, &updated); code != http.StatusOK {
		t.Fatalf("update: %d", code)
	}
	if updated.Status != scheduling.StatusCancelled {
		t.Fatalf("expected cancelled, got %s", updated.Status)
	}

	// Cancelling reopens the slot.
	if code := doJSON(t, http.MethodPost, ts.URL+"/api/appointments", bookingBody(monday, "09:00", "offline"), nil); code != http.StatusCreated {
		t.Fatalf("expected 201 after cancel, got %d", code)
	}
}

func TestAppointmentNotFound(t *testing.T) {
	ts := newTestServer(t)

	if code := doJSON(t, http.MethodGet, ts.URL+"/api/appointments/999", nil, nil); code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", code)
	}
	if code := doJSON(t, http.MethodPut, ts.URL+"/api/appointments/999", map[string]string{"status": "cancelled"}, nil); code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", code)
	}
	if code := doJSON(t, http.MethodPut, ts.URL+"/api/appointments/999", map[string]string{"status": "archived"}, nil); code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown status, got %d", code)
	}
}

func TestBlogCRUD(t *testing.T) {
	ts := newTestServer(t)

	post := map[string]any{
		"title":    "Understanding Homeopathy",
		"excerpt":  "A natural approach to healing.",
		"content":  "<p>Like cures like.</p>",
		"author":   "Dr. Test",
		"category": "Homeopathy Basics",
		"status":   "Published",
	}

	var created blog.Post
	if code := doJSON(t, http.MethodPost, ts.URL+"/api/blog", post, &created); code != http.StatusCreated {
		t.Fatalf("create: %d", code)
	}
	if created.ID != 1 || created.Views != 0 {
		t.Fatalf("unexpected created post: %+v", created)
	}

	var posts []blog.Post
	doJSON(t, http.MethodGet, ts.URL+"/api/blog", nil, &posts)
	if len(posts) != 1 {
		t.Fatalf("expected 1 post, got %d", len(posts))
	}

	// Each read bumps the view counter.
	id := fmt.Sprint(created.ID)
	var got blog.Post
	doJSON(t, http.MethodGet, ts.URL+"/api/blog/"+id, nil, &got)
	if got.Views != 1 {
		t.Fatalf("expected 1 view, got %d", got.Views)
	}

	post["title"] = "Updated Title"
	var updated blog.Post
	if code := doJSON(t, http.MethodPut, ts.URL+"/api/blog/"+id, post, &updated); code != http.StatusOK {
		t.Fatalf("update: %d", code)
	}
	if updated.Title != "Updated Title" || updated.Views != 1 {
		t.Fatalf("update lost fields: %+v", updated)
	}

	if code := doJSON(t, http.MethodDelete, ts.URL+"/api/blog/"+id, nil, nil); code != http.StatusOK {
		t.Fatalf("delete: %d", code)
	}
	if code := doJSON(t, http.MethodGet, ts.URL+"/api/blog/"+id, nil, nil); code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", code)
	}

	if code := doJSON(t, http.MethodPost, ts.URL+"/api/blog", map[string]string{"excerpt": "no title"}, nil); code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing title, got %d", code)
	}
}
