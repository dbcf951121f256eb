package scheduling

import (
	"context"
	"strconv"
	"sync"
	"time"
)

// MemStore is an in-memory Store used by tests and the seeder. It mirrors the
// file store's semantics, including max-id+1 assignment, but never touches
// disk.
type MemStore struct {
	mu           sync.Mutex
	availability *WeeklyAvailability
	appointments []Appointment
	codes        map[string]UsedCode
}

func NewMemStore() *MemStore {
	return &MemStore{codes: make(map[string]UsedCode)}
}

func (s *MemStore) GetAvailability(ctx context.Context) (*WeeklyAvailability, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.availability == nil {
		return nil, ErrAvailabilityNotSet
	}
	return cloneAvailability(s.availability), nil
}

func (s *MemStore) PutAvailability(ctx context.Context, av *WeeklyAvailability) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.availability = cloneAvailability(av)
	return nil
}

func (s *MemStore) ListAppointments(ctx context.Context) ([]Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Appointment, len(s.appointments))
	copy(out, s.appointments)
	return out, nil
}

func (s *MemStore) ListAppointmentsByDate(ctx context.Context, date string) ([]Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Appointment
	for _, a := range s.appointments {
		if a.AppointmentDate == date {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *MemStore) GetAppointmentByID(ctx context.Context, id string) (*Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.appointments {
		if a.ID == id {
			appt := a
			return &appt, nil
		}
	}
	return nil, ErrAppointmentNotFound
}

func (s *MemStore) CreateAppointment(ctx context.Context, appt *Appointment) (*Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	created := *appt
	created.ID = strconv.Itoa(nextAppointmentID(s.appointments))
	created.CreatedAt = time.Now()
	s.appointments = append(s.appointments, created)
	return &created, nil
}

func (s *MemStore) UpdateAppointmentStatus(ctx context.Context, id string, status AppointmentStatus) (*Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.appointments {
		if s.appointments[i].ID == id {
			s.appointments[i].Status = status
			appt := s.appointments[i]
			return &appt, nil
		}
	}
	return nil, ErrAppointmentNotFound
}

func (s *MemStore) CodeExists(ctx context.Context, code string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.codes[code]
	return ok, nil
}

func (s *MemStore) InsertUsedCode(ctx context.Context, uc UsedCode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.codes[uc.Code] = uc
	return nil
}

// nextAppointmentID is max(existing numeric ids, 0)+1. Non-numeric ids are
// skipped. Callers must hold the store lock.
func nextAppointmentID(appts []Appointment) int {
	max := 0
	for _, a := range appts {
		if n, err := strconv.Atoi(a.ID); err == nil && n > max {
			max = n
		}
	}
	return max + 1
}

func cloneAvailability(av *WeeklyAvailability) *WeeklyAvailability {
	out := *av
	out.Schedule = make([]DaySchedule, len(av.Schedule))
	for i, ds := range av.Schedule {
		day := ds
		day.TimeSlots = make([]TimeWindow, len(ds.TimeSlots))
		copy(day.TimeSlots, ds.TimeSlots)
		out.Schedule[i] = day
	}
	return &out
}
