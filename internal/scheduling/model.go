package scheduling

import (
	"strconv"
	"time"
)

type ConsultationType string

const (
	ConsultationOnline  ConsultationType = "online"
	ConsultationOffline ConsultationType = "offline"
)

type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCancelled AppointmentStatus = "cancelled"
	StatusCompleted AppointmentStatus = "completed"
)

// ValidStatus reports whether s is one of the known appointment statuses.
func ValidStatus(s AppointmentStatus) bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

// TimeWindow is one bookable window within a working day. Times are local
// wall-clock "HH:MM" strings. IsAvailable is a manual override knob: a window
// with IsAvailable=false is never offered, booked or not.
type TimeWindow struct {
	ID          string `json:"id"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	IsAvailable bool   `json:"isAvailable"`
}

type DaySchedule struct {
	Day       string       `json:"day"`
	IsWorking bool         `json:"isWorking"`
	TimeSlots []TimeWindow `json:"timeSlots"`
}

// WeeklyAvailability is the clinic's weekly template, a global singleton.
// The schedule is replaced wholesale by the admin; it is never merged.
type WeeklyAvailability struct {
	ID          string        `json:"id"`
	DoctorName  string        `json:"doctorName"`
	Schedule    []DaySchedule `json:"schedule"`
	LastUpdated time.Time     `json:"lastUpdated"`
}

type Appointment struct {
	ID               string            `json:"id"`
	PatientName      string            `json:"patientName"`
	PatientEmail     string            `json:"patientEmail"`
	PatientPhone     string            `json:"patientPhone"`
	AppointmentDate  string            `json:"appointmentDate"` // YYYY-MM-DD
	AppointmentTime  string            `json:"appointmentTime"` // HH:MM, a window's StartTime
	ConsultationType ConsultationType  `json:"consultationType"`
	Status           AppointmentStatus `json:"status"`
	MeetingCode      string            `json:"meetingCode,omitempty"`
	CreatedAt        time.Time         `json:"createdAt"`
	Notes            string            `json:"notes,omitempty"`
}

// UsedCode records a meeting code that has been handed out. Codes are never
// recycled, even after the owning appointment is cancelled.
type UsedCode struct {
	Code          string    `json:"code"`
	IssuedAt      time.Time `json:"issuedAt"`
	AppointmentID string    `json:"appointmentId"`
}

var weekdays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// DefaultAvailability builds the template used when nothing has been persisted
// yet: weekdays working 09:00-12:00 and 14:00-17:00 in one-hour windows,
// weekends off.
func DefaultAvailability(doctorName string) *WeeklyAvailability {
	hours := [][2]string{
		{"09:00", "10:00"}, {"10:00", "11:00"}, {"11:00", "12:00"},
		{"14:00", "15:00"}, {"15:00", "16:00"}, {"16:00", "17:00"},
	}

	av := &WeeklyAvailability{
		ID:          "1",
		DoctorName:  doctorName,
		Schedule:    make([]DaySchedule, 0, len(weekdays)),
		LastUpdated: time.Now(),
	}

	next := 1
	for _, day := range weekdays {
		ds := DaySchedule{Day: day, IsWorking: day != "Saturday" && day != "Sunday", TimeSlots: []TimeWindow{}}
		if ds.IsWorking {
			for _, h := range hours {
				ds.TimeSlots = append(ds.TimeSlots, TimeWindow{
					ID:          strconv.Itoa(next),
					StartTime:   h[0],
					EndTime:     h[1],
					IsAvailable: true,
				})
				next++
			}
		}
		av.Schedule = append(av.Schedule, ds)
	}
	return av
}
