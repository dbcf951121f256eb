package scheduling

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"
)

const (
	availabilityFile = "doctor-availability.json"
	appointmentsFile = "appointments.json"
	usedCodesFile    = "used-codes.json"
)

// FileStore persists each collection as a JSON document under dir. Every
// mutation rewrites the whole document, so a single mutex per store serializes
// all access; this is the single-process durability model the clinic site runs
// on.
type FileStore struct {
	mu  sync.Mutex
	dir string
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) GetAvailability(ctx context.Context) (*WeeklyAvailability, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.dir, availabilityFile)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, ErrAvailabilityNotSet
	}
	if err != nil {
		return nil, fmt.Errorf("read availability: %w", err)
	}

	var av WeeklyAvailability
	if err := json.Unmarshal(data, &av); err != nil {
		return nil, fmt.Errorf("decode availability: %w", err)
	}
	return &av, nil
}

func (s *FileStore) PutAvailability(ctx context.Context, av *WeeklyAvailability) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeJSON(availabilityFile, av)
}

func (s *FileStore) ListAppointments(ctx context.Context) ([]Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readAppointments()
}

func (s *FileStore) ListAppointmentsByDate(ctx context.Context, date string) ([]Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	appts, err := s.readAppointments()
	if err != nil {
		return nil, err
	}
	var out []Appointment
	for _, a := range appts {
		if a.AppointmentDate == date {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *FileStore) GetAppointmentByID(ctx context.Context, id string) (*Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	appts, err := s.readAppointments()
	if err != nil {
		return nil, err
	}
	for _, a := range appts {
		if a.ID == id {
			appt := a
			return &appt, nil
		}
	}
	return nil, ErrAppointmentNotFound
}

func (s *FileStore) CreateAppointment(ctx context.Context, appt *Appointment) (*Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	appts, err := s.readAppointments()
	if err != nil {
		return nil, err
	}

	created := *appt
	created.ID = strconv.Itoa(nextAppointmentID(appts))
	created.CreatedAt = time.Now()

	appts = append(appts, created)
	if err := s.writeJSON(appointmentsFile, appts); err != nil {
		return nil, err
	}
	return &created, nil
}

func (s *FileStore) UpdateAppointmentStatus(ctx context.Context, id string, status AppointmentStatus) (*Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	appts, err := s.readAppointments()
	if err != nil {
		return nil, err
	}
	for i := range appts {
		if appts[i].ID == id {
			appts[i].Status = status
			if err := s.writeJSON(appointmentsFile, appts); err != nil {
				return nil, err
			}
			appt := appts[i]
			return &appt, nil
		}
	}
	return nil, ErrAppointmentNotFound
}

func (s *FileStore) CodeExists(ctx context.Context, code string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	codes, err := s.readUsedCodes()
	if err != nil {
		return false, err
	}
	for _, uc := range codes {
		if uc.Code == code {
			return true, nil
		}
	}
	return false, nil
}

func (s *FileStore) InsertUsedCode(ctx context.Context, uc UsedCode) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	codes, err := s.readUsedCodes()
	if err != nil {
		return err
	}
	codes = append(codes, uc)
	return s.writeJSON(usedCodesFile, codes)
}

func (s *FileStore) readAppointments() ([]Appointment, error) {
	var appts []Appointment
	if err := s.readJSON(appointmentsFile, &appts); err != nil {
		return nil, err
	}
	return appts, nil
}

func (s *FileStore) readUsedCodes() ([]UsedCode, error) {
	var codes []UsedCode
	if err := s.readJSON(usedCodesFile, &codes); err != nil {
		return nil, err
	}
	return codes, nil
}

// readJSON decodes the named document into v. A missing file reads as an empty
// collection.
func (s *FileStore) readJSON(name string, v any) error {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	return nil
}

// writeJSON writes via a temp file and rename so a crash mid-write cannot
// leave a truncated document behind.
func (s *FileStore) writeJSON(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}

	path := filepath.Join(s.dir, name)
	tmp, err := os.CreateTemp(s.dir, name+".tmp-*")
	if err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}
