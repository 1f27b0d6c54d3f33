package api

import "net/url"

// ListParams are the common paging/search parameters for list reads.
// Zero values get the server defaults (page 1, 10 rows) before encoding;
// an empty search is omitted from the query string entirely.
type ListParams struct {
	Page   int
	Limit  int
	Search string
}

func (p ListParams) withDefaults() ListParams {
	if p.Page == 0 {
		p.Page = 1
	}
	if p.Limit == 0 {
		p.Limit = 10
	}
	return p
}

func (p ListParams) query() url.Values {
	p = p.withDefaults()
	return newQuery().
		SetInt("page", p.Page).
		SetInt("limit", p.Limit).
		Set("search", p.Search).
		Values()
}

// ScheduleListParams filter the doctor-schedule list.
type ScheduleListParams struct {
	Page      int
	Limit     int
	DoctorID  string
	ClinicID  string
	DayOfWeek *int // 0-6, nil = any
	IsOnline  *bool
	IsActive  *bool
}

func (p ScheduleListParams) query() url.Values {
	base := ListParams{Page: p.Page, Limit: p.Limit}.withDefaults()
	return newQuery().
		SetInt("page", base.Page).
		SetInt("limit", base.Limit).
		Set("doctorId", p.DoctorID).
		Set("clinicId", p.ClinicID).
		SetIntPtr("dayOfWeek", p.DayOfWeek).
		SetBool("isOnline", p.IsOnline).
		SetBool("isActive", p.IsActive).
		Values()
}

// AppointmentListParams filter the admin appointment list.
type AppointmentListParams struct {
	Page             int
	Limit            int
	Search           string
	TimeFilter       string // e.g. "today", "upcoming", "past"
	StartDate        string // YYYY-MM-DD
	EndDate          string // YYYY-MM-DD
	Status           string
	ConsultationType string
	PaymentStatus    string
}

func (p AppointmentListParams) query() url.Values {
	base := ListParams{Page: p.Page, Limit: p.Limit}.withDefaults()
	return newQuery().
		SetInt("page", base.Page).
		SetInt("limit", base.Limit).
		Set("search", p.Search).
		Set("timeFilter", p.TimeFilter).
		Set("startDate", p.StartDate).
		Set("endDate", p.EndDate).
		Set("status", p.Status).
		Set("consultationType", p.ConsultationType).
		Set("paymentStatus", p.PaymentStatus).
		Values()
}
