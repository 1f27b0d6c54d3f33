package domain

// User is the authenticated staff account returned by the login endpoint.
type User struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Role      *Role  `json:"role,omitempty"`
}

// Role is a staff role assignable to admin users.
type Role struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Specialization is a medical specialization assignable to doctors.
type Specialization struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ClinicTranslation holds a clinic's display fields for one locale.
type ClinicTranslation struct {
	Locale      string `json:"locale"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Address     string `json:"address,omitempty"`
}

// ClinicLocation is a physical site belonging to a clinic.
type ClinicLocation struct {
	ID        string  `json:"id,omitempty"`
	Address   string  `json:"address"`
	City      string  `json:"city,omitempty"`
	Latitude  float64 `json:"latitude,omitempty"`
	Longitude float64 `json:"longitude,omitempty"`
}

// Clinic is a clinic account with its translated display fields and sites.
type Clinic struct {
	ID           string              `json:"id"`
	Email        string              `json:"email"`
	Phone        string              `json:"phone,omitempty"`
	IsActive     bool                `json:"isActive"`
	Translations []ClinicTranslation `json:"translations,omitempty"`
	Locations    []ClinicLocation    `json:"locations,omitempty"`
	CreatedAt    string              `json:"createdAt,omitempty"`
}

// Doctor is a practitioner profile.
type Doctor struct {
	ID              string           `json:"id"`
	Email           string           `json:"email"`
	FirstName       string           `json:"firstName"`
	LastName        string           `json:"lastName"`
	Phone           string           `json:"phone,omitempty"`
	IsActive        bool             `json:"isActive"`
	Specializations []Specialization `json:"specializations,omitempty"`
	Clinics         []Clinic         `json:"clinics,omitempty"`
	PhotoURL        string           `json:"photoUrl,omitempty"`
	CreatedAt       string           `json:"createdAt,omitempty"`
}

// DoctorStats holds the dashboard counters for doctors.
type DoctorStats struct {
	Total    int `json:"total"`
	Active   int `json:"active"`
	Inactive int `json:"inactive"`
}

// DoctorSchedule is a recurring weekly availability slot.
// StartTime/EndTime are wire-formatted clock strings ("9:00 AM").
type DoctorSchedule struct {
	ID        string  `json:"id"`
	DoctorID  string  `json:"doctorId"`
	ClinicID  string  `json:"clinicId,omitempty"`
	DayOfWeek int     `json:"dayOfWeek"` // 0 = Sunday .. 6 = Saturday
	StartTime string  `json:"startTime"`
	EndTime   string  `json:"endTime"`
	IsOnline  bool    `json:"isOnline"`
	IsActive  bool    `json:"isActive"`
	Doctor    *Doctor `json:"doctor,omitempty"`
	Clinic    *Clinic `json:"clinic,omitempty"`
}

// ScheduleException is a dated override of a doctor's regular schedule
// (day off, changed hours, one-off availability).
type ScheduleException struct {
	ID          string `json:"id"`
	DoctorID    string `json:"doctorId"`
	ScheduleID  string `json:"scheduleId,omitempty"`
	Date        string `json:"date"` // YYYY-MM-DD
	StartTime   string `json:"startTime,omitempty"`
	EndTime     string `json:"endTime,omitempty"`
	IsAvailable bool   `json:"isAvailable"`
	Reason      string `json:"reason,omitempty"`
}

// Appointment statuses accepted by the status update endpoint.
const (
	AppointmentPending   = "PENDING"
	AppointmentConfirmed = "CONFIRMED"
	AppointmentCompleted = "COMPLETED"
	AppointmentCancelled = "CANCELLED"
)

// Appointment is a booked consultation between a patient and a doctor.
type Appointment struct {
	ID               string   `json:"id"`
	Date             string   `json:"date"`
	StartTime        string   `json:"startTime,omitempty"`
	EndTime          string   `json:"endTime,omitempty"`
	Status           string   `json:"status"`
	ConsultationType string   `json:"consultationType,omitempty"` // ONLINE | IN_PERSON
	PaymentStatus    string   `json:"paymentStatus,omitempty"`
	Doctor           *Doctor  `json:"doctor,omitempty"`
	Patient          *Patient `json:"patient,omitempty"`
	Clinic           *Clinic  `json:"clinic,omitempty"`
}

// AppointmentDashboard holds the appointment counters for the dashboard view.
type AppointmentDashboard struct {
	Total     int `json:"total"`
	Today     int `json:"today"`
	Upcoming  int `json:"upcoming"`
	Pending   int `json:"pending"`
	Confirmed int `json:"confirmed"`
	Completed int `json:"completed"`
	Cancelled int `json:"cancelled"`
}

// Patient is a patient record as exposed to clinic staff.
type Patient struct {
	ID          string `json:"id"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email,omitempty"`
	Phone       string `json:"phone,omitempty"`
	DateOfBirth string `json:"dateOfBirth,omitempty"`
	Gender      string `json:"gender,omitempty"`
	CreatedAt   string `json:"createdAt,omitempty"`
}

// PatientSummary holds the patient counters for the dashboard view.
type PatientSummary struct {
	Total     int `json:"total"`
	NewToday  int `json:"newToday"`
	NewWeekly int `json:"newWeekly"`
}

// UploadedFile is the result of a file upload.
type UploadedFile struct {
	URL      string `json:"url"`
	Filename string `json:"filename,omitempty"`
	Size     int64  `json:"size,omitempty"`
}

// Pagination is the server-computed paging block attached to list responses.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// Page bundles one page of results with its paging block.
type Page[T any] struct {
	Items      []T
	Pagination Pagination
}
