package scheduling

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgStore is the Postgres-backed Store. Ids come from a sequence, so they stay
// monotonic without the read-max-then-write race of the file store, and a
// partial unique index on (date, time) WHERE status <> 'cancelled' enforces
// the one-booking-per-slot invariant even if two processes race past the slot
// lock.
type PgStore struct {
	pool *pgxpool.Pool
}

func NewPgStore(pool *pgxpool.Pool) *PgStore {
	return &PgStore{pool: pool}
}

const schema = `
CREATE TABLE IF NOT EXISTS availability (
	id          TEXT PRIMARY KEY,
	doc         JSONB NOT NULL,
	updated_at  TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS appointments (
	id                BIGSERIAL PRIMARY KEY,
	patient_name      TEXT NOT NULL,
	patient_email     TEXT NOT NULL,
	patient_phone     TEXT NOT NULL,
	appointment_date  TEXT NOT NULL,
	appointment_time  TEXT NOT NULL,
	consultation_type TEXT NOT NULL,
	status            TEXT NOT NULL,
	meeting_code      TEXT NOT NULL DEFAULT '',
	created_at        TIMESTAMPTZ NOT NULL DEFAULT now(),
	notes             TEXT NOT NULL DEFAULT ''
);

CREATE UNIQUE INDEX IF NOT EXISTS uniq_active_slot
	ON appointments (appointment_date, appointment_time)
	WHERE status <> 'cancelled';

CREATE TABLE IF NOT EXISTS used_codes (
	code           TEXT PRIMARY KEY,
	issued_at      TIMESTAMPTZ NOT NULL,
	appointment_id TEXT NOT NULL
);
`

// EnsureSchema creates the tables and the active-slot unique index.
func (s *PgStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

func (s *PgStore) GetAvailability(ctx context.Context) (*WeeklyAvailability, error) {
	var doc []byte
	err := s.pool.QueryRow(ctx, `SELECT doc FROM availability WHERE id = '1'`).Scan(&doc)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrAvailabilityNotSet
	}
	if err != nil {
		return nil, fmt.Errorf("load availability: %w", err)
	}

	var av WeeklyAvailability
	if err := json.Unmarshal(doc, &av); err != nil {
		return nil, fmt.Errorf("decode availability: %w", err)
	}
	return &av, nil
}

func (s *PgStore) PutAvailability(ctx context.Context, av *WeeklyAvailability) error {
	doc, err := json.Marshal(av)
	if err != nil {
		return fmt.Errorf("encode availability: %w", err)
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO availability (id, doc, updated_at)
		VALUES ('1', $1, $2)
		ON CONFLICT (id) DO UPDATE SET doc = EXCLUDED.doc, updated_at = EXCLUDED.updated_at
	`, doc, av.LastUpdated)
	if err != nil {
		return fmt.Errorf("store availability: %w", err)
	}
	return nil
}

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment
	var id int64

	err := row.Scan(
		&id,
		&a.PatientName,
		&a.PatientEmail,
		&a.PatientPhone,
		&a.AppointmentDate,
		&a.AppointmentTime,
		&a.ConsultationType,
		&a.Status,
		&a.MeetingCode,
		&a.CreatedAt,
		&a.Notes,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAppointmentNotFound
		}
		return nil, err
	}

	a.ID = strconv.FormatInt(id, 10)
	return &a, nil
}

const appointmentColumns = `
	id, patient_name, patient_email, patient_phone,
	appointment_date, appointment_time, consultation_type,
	status, meeting_code, created_at, notes
`

func (s *PgStore) listAppointments(ctx context.Context, query string, args ...any) ([]Appointment, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Appointment
	for rows.Next() {
		appt, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *appt)
	}
	return out, rows.Err()
}

func (s *PgStore) ListAppointments(ctx context.Context) ([]Appointment, error) {
	appts, err := s.listAppointments(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	return appts, nil
}

func (s *PgStore) ListAppointmentsByDate(ctx context.Context, date string) ([]Appointment, error) {
	appts, err := s.listAppointments(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE appointment_date = $1
		ORDER BY id
	`, date)
	if err != nil {
		return nil, fmt.Errorf("list appointments for %s: %w", date, err)
	}
	return appts, nil
}

func (s *PgStore) GetAppointmentByID(ctx context.Context, id string) (*Appointment, error) {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return nil, ErrAppointmentNotFound
	}
	row := s.pool.QueryRow(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE id = $1
	`, n)
	return scanAppointment(row)
}

func (s *PgStore) CreateAppointment(ctx context.Context, appt *Appointment) (*Appointment, error) {
	created := *appt
	created.CreatedAt = time.Now()

	var id int64
	err := s.pool.QueryRow(ctx, `
		INSERT INTO appointments (
			patient_name, patient_email, patient_phone,
			appointment_date, appointment_time, consultation_type,
			status, meeting_code, created_at, notes
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`,
		created.PatientName,
		created.PatientEmail,
		created.PatientPhone,
		created.AppointmentDate,
		created.AppointmentTime,
		created.ConsultationType,
		created.Status,
		created.MeetingCode,
		created.CreatedAt,
		created.Notes,
	).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrSlotTaken
		}
		return nil, fmt.Errorf("create appointment: %w", err)
	}

	created.ID = strconv.FormatInt(id, 10)
	return &created, nil
}

func (s *PgStore) UpdateAppointmentStatus(ctx context.Context, id string, status AppointmentStatus) (*Appointment, error) {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return nil, ErrAppointmentNotFound
	}
	row := s.pool.QueryRow(ctx, `
		UPDATE appointments
		SET status = $2
		WHERE id = $1
		RETURNING `+appointmentColumns+`
	`, n, status)
	return scanAppointment(row)
}

func (s *PgStore) CodeExists(ctx context.Context, code string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM used_codes WHERE code = $1)
	`, code).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check used code: %w", err)
	}
	return exists, nil
}

func (s *PgStore) InsertUsedCode(ctx context.Context, uc UsedCode) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO used_codes (code, issued_at, appointment_id)
		VALUES ($1, $2, $3)
	`, uc.Code, uc.IssuedAt, uc.AppointmentID)
	if err != nil {
		return fmt.Errorf("record used code: %w", err)
	}
	return nil
}
