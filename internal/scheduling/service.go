package scheduling

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

var (
	ErrSlotTaken     = errors.New("slot already has an active appointment")
	ErrSlotClosed    = errors.New("slot is not offered on that date")
	ErrSlotBusy      = errors.New("slot is currently being booked, please retry")
	ErrInvalidStatus = errors.New("invalid appointment status")
	ErrBadDate       = errors.New("date must be YYYY-MM-DD")
)

// Notifier delivers booking confirmations. Both sends are fire-and-forget
// from the service's point of view: failures are logged, never propagated.
type Notifier interface {
	NotifyPatient(ctx context.Context, appt Appointment) error
	NotifyClinic(ctx context.Context, appt Appointment) error
}

// BookingRequest carries the fields of a booking submission. Required-field
// validation happens at the HTTP boundary; the service trusts the shape and
// enforces only scheduling rules.
type BookingRequest struct {
	PatientName      string
	PatientEmail     string
	PatientPhone     string
	AppointmentDate  string // YYYY-MM-DD
	AppointmentTime  string // HH:MM
	ConsultationType ConsultationType
	Notes            string
}

// Service owns the scheduling rules: projecting the weekly template onto
// dates, keeping one active booking per slot, and minting one-time meeting
// codes for online consultations.
type Service struct {
	store      Store
	locker     Locker
	codes      *CodeIssuer
	notifier   Notifier
	log        *zap.Logger
	doctorName string
}

func NewService(store Store, locker Locker, notifier Notifier, log *zap.Logger, doctorName string) *Service {
	return &Service{
		store:      store,
		locker:     locker,
		codes:      NewCodeIssuer(store),
		notifier:   notifier,
		log:        log,
		doctorName: doctorName,
	}
}

// Availability returns the weekly template, initializing and persisting the
// default on first use.
func (s *Service) Availability(ctx context.Context) (*WeeklyAvailability, error) {
	av, err := s.store.GetAvailability(ctx)
	if errors.Is(err, ErrAvailabilityNotSet) {
		av = DefaultAvailability(s.doctorName)
		if err := s.store.PutAvailability(ctx, av); err != nil {
			return nil, fmt.Errorf("persist default availability: %w", err)
		}
		return av, nil
	}
	if err != nil {
		return nil, err
	}
	return av, nil
}

// ReplaceAvailability overwrites the stored template wholesale and stamps
// LastUpdated. Submitted windows are stored as-is; malformed or overlapping
// windows are the admin's responsibility.
func (s *Service) ReplaceAvailability(ctx context.Context, av *WeeklyAvailability) (*WeeklyAvailability, error) {
	av.LastUpdated = time.Now()
	if err := s.store.PutAvailability(ctx, av); err != nil {
		return nil, err
	}
	return av, nil
}

// AvailableSlots projects the weekly template onto date and subtracts slots
// held by non-cancelled appointments. A non-working or unknown weekday yields
// an empty result, not an error.
func (s *Service) AvailableSlots(ctx context.Context, date string) ([]TimeWindow, error) {
	day, err := weekdayOf(date)
	if err != nil {
		return nil, err
	}

	av, err := s.Availability(ctx)
	if err != nil {
		return nil, err
	}

	var schedule *DaySchedule
	for i := range av.Schedule {
		if av.Schedule[i].Day == day {
			schedule = &av.Schedule[i]
			break
		}
	}
	if schedule == nil || !schedule.IsWorking {
		return []TimeWindow{}, nil
	}

	taken, err := s.takenTimes(ctx, date)
	if err != nil {
		return nil, err
	}

	open := []TimeWindow{}
	for _, slot := range schedule.TimeSlots {
		if slot.IsAvailable && !taken[slot.StartTime] {
			open = append(open, slot)
		}
	}
	return open, nil
}

// BookAppointment runs the whole booking flow inside a per-slot critical
// section: re-check the slot, mint a meeting code when the consultation is
// online, persist, record the code. Notifications go out after the lock is
// released and never affect the result.
func (s *Service) BookAppointment(ctx context.Context, req BookingRequest) (*Appointment, error) {
	if _, err := weekdayOf(req.AppointmentDate); err != nil {
		return nil, err
	}

	key := req.AppointmentDate + " " + req.AppointmentTime

	var created *Appointment
	err := s.locker.WithSlotLock(ctx, key, func(lockCtx context.Context) error {
		if err := s.checkSlotOpen(lockCtx, req.AppointmentDate, req.AppointmentTime); err != nil {
			return err
		}

		code := ""
		if req.ConsultationType == ConsultationOnline {
			var err error
			code, err = s.codes.IssueCode(lockCtx)
			if err != nil {
				return err
			}
		}

		appt, err := s.store.CreateAppointment(lockCtx, &Appointment{
			PatientName:      req.PatientName,
			PatientEmail:     req.PatientEmail,
			PatientPhone:     req.PatientPhone,
			AppointmentDate:  req.AppointmentDate,
			AppointmentTime:  req.AppointmentTime,
			ConsultationType: req.ConsultationType,
			Status:           StatusConfirmed,
			MeetingCode:      code,
			Notes:            req.Notes,
		})
		if err != nil {
			return err
		}
		created = appt

		if code != "" {
			// The booking is already durable; a ledger write failure only
			// risks a future code collision retry, so log and move on.
			if err := s.codes.MarkUsed(lockCtx, code, appt.ID); err != nil {
				s.log.Error("record used meeting code",
					zap.String("appointment_id", appt.ID),
					zap.Error(err))
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrLockNotAcquired) {
			return nil, ErrSlotBusy
		}
		return nil, err
	}

	s.notifyAsync(*created)
	return created, nil
}

func (s *Service) ListAppointments(ctx context.Context) ([]Appointment, error) {
	return s.store.ListAppointments(ctx)
}

func (s *Service) GetAppointment(ctx context.Context, id string) (*Appointment, error) {
	return s.store.GetAppointmentByID(ctx, id)
}

// UpdateStatus transitions an appointment to any known status. There is no
// state machine here: the admin moves bookings between confirmed, cancelled
// and completed freely, and cancelling frees the slot for rebooking.
func (s *Service) UpdateStatus(ctx context.Context, id string, status AppointmentStatus) (*Appointment, error) {
	if !ValidStatus(status) {
		return nil, ErrInvalidStatus
	}
	return s.store.UpdateAppointmentStatus(ctx, id, status)
}

// checkSlotOpen distinguishes a slot the template never offers (ErrSlotClosed)
// from one another patient holds (ErrSlotTaken).
func (s *Service) checkSlotOpen(ctx context.Context, date, startTime string) error {
	day, err := weekdayOf(date)
	if err != nil {
		return err
	}

	av, err := s.Availability(ctx)
	if err != nil {
		return err
	}

	offered := false
	for _, ds := range av.Schedule {
		if ds.Day != day {
			continue
		}
		if !ds.IsWorking {
			break
		}
		for _, slot := range ds.TimeSlots {
			if slot.StartTime == startTime && slot.IsAvailable {
				offered = true
				break
			}
		}
		break
	}
	if !offered {
		return ErrSlotClosed
	}

	taken, err := s.takenTimes(ctx, date)
	if err != nil {
		return err
	}
	if taken[startTime] {
		return ErrSlotTaken
	}
	return nil
}

func (s *Service) takenTimes(ctx context.Context, date string) (map[string]bool, error) {
	appts, err := s.store.ListAppointmentsByDate(ctx, date)
	if err != nil {
		return nil, err
	}
	taken := make(map[string]bool, len(appts))
	for _, a := range appts {
		if a.Status != StatusCancelled {
			taken[a.AppointmentTime] = true
		}
	}
	return taken, nil
}

func (s *Service) notifyAsync(appt Appointment) {
	if s.notifier == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := s.notifier.NotifyPatient(ctx, appt); err != nil {
			s.log.Error("send patient confirmation",
				zap.String("appointment_id", appt.ID),
				zap.Error(err))
		}
		if err := s.notifier.NotifyClinic(ctx, appt); err != nil {
			s.log.Error("send clinic notification",
				zap.String("appointment_id", appt.ID),
				zap.Error(err))
		}
	}()
}

// weekdayOf parses date as local wall-clock midnight and returns the weekday
// name. No range policing happens here; any parseable date computes a weekday.
func weekdayOf(date string) (string, error) {
	t, err := time.ParseInLocation("2006-01-02", date, time.Local)
	if err != nil {
		return "", ErrBadDate
	}
	return t.Weekday().String(), nil
}
