package scheduling

import (
	"context"
	"testing"
	"time"
)

func TestFileStoreAppointmentsPersist(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	appt, err := store.CreateAppointment(ctx, &Appointment{
		PatientName:      "Pat Doe",
		PatientEmail:     "pat@example.com",
		PatientPhone:     "555-0100",
		AppointmentDate:  "2026-09-07",
		AppointmentTime:  "09:00",
		ConsultationType: ConsultationOffline,
		Status:           StatusConfirmed,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if appt.ID != "1" {
		t.Fatalf("first id should be 1, got %q", appt.ID)
	}
	if appt.CreatedAt.IsZero() {
		t.Fatal("CreatedAt not stamped")
	}

	// A fresh store over the same directory sees the data and continues the
	// id sequence.
	reopened, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	second, err := reopened.CreateAppointment(ctx, &Appointment{
		AppointmentDate: "2026-09-07",
		AppointmentTime: "10:00",
		Status:          StatusConfirmed,
	})
	if err != nil {
		t.Fatalf("create second: %v", err)
	}
	if second.ID != "2" {
		t.Fatalf("expected id 2 after reload, got %q", second.ID)
	}

	byDate, err := reopened.ListAppointmentsByDate(ctx, "2026-09-07")
	if err != nil {
		t.Fatalf("list by date: %v", err)
	}
	if len(byDate) != 2 {
		t.Fatalf("expected 2 appointments, got %d", len(byDate))
	}
}

func TestFileStoreUpdateStatus(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	ctx := context.Background()

	appt, err := store.CreateAppointment(ctx, &Appointment{
		AppointmentDate: "2026-09-07",
		AppointmentTime: "09:00",
		Status:          StatusConfirmed,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := store.UpdateAppointmentStatus(ctx, appt.ID, StatusCancelled)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Status != StatusCancelled {
		t.Fatalf("expected cancelled, got %s", updated.Status)
	}

	if _, err := store.UpdateAppointmentStatus(ctx, "42", StatusCancelled); err != ErrAppointmentNotFound {
		t.Fatalf("expected ErrAppointmentNotFound, got %v", err)
	}
}

func TestFileStoreAvailabilityRoundTrip(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	ctx := context.Background()

	if _, err := store.GetAvailability(ctx); err != ErrAvailabilityNotSet {
		t.Fatalf("expected ErrAvailabilityNotSet on empty dir, got %v", err)
	}

	av := DefaultAvailability("Dr. Test")
	av.LastUpdated = time.Now()
	if err := store.PutAvailability(ctx, av); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, err := store.GetAvailability(ctx)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.DoctorName != "Dr. Test" || len(got.Schedule) != 7 {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}

func TestFileStoreUsedCodes(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	ctx := context.Background()

	exists, err := store.CodeExists(ctx, "AAAAAAAA")
	if err != nil {
		t.Fatalf("exists: %v", err)
	}
	if exists {
		t.Fatal("code reported used before insert")
	}

	if err := store.InsertUsedCode(ctx, UsedCode{Code: "AAAAAAAA", IssuedAt: time.Now(), AppointmentID: "1"}); err != nil {
		t.Fatalf("insert: %v", err)
	}

	exists, err = store.CodeExists(ctx, "AAAAAAAA")
	if err != nil {
		t.Fatalf("exists: %v", err)
	}
	if !exists {
		t.Fatal("code not found after insert")
	}
}
