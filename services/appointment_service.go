// services/appointment_service.go
package services

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"beautystudio-backend/models"
	"beautystudio-backend/supabase"
	"beautystudio-backend/utils"
)

var (
	ErrHasInvoices         = errors.New("appointment has associated invoices")
	ErrAppointmentNotFound = errors.New("appointment not found")
)

// appointmentColumns embeds the client and service sub-records the list and
// detail views need.
const appointmentColumns = "*, clients(id,first_name,last_name,phone_number), services(id,name,price,duration_minutes)"

// AppointmentService implements the appointment workflow over the remote
// gateway: validated upserts, the delete guard against invoiced
// appointments, and the duplicate-as-draft helper.
type AppointmentService struct {
	db *supabase.Client
}

func NewAppointmentService(db *supabase.Client) *AppointmentService {
	return &AppointmentService{db: db}
}

// AppointmentDraft carries the editable fields of an appointment form.
type AppointmentDraft struct {
	ClientID        int64
	ServiceID       int64
	AppointmentDate time.Time
	DepositAmount   float64
	Notes           string
	Status          models.AppointmentStatus
}

// Validate returns a field-keyed error map; an empty map means the draft is
// acceptable. enforceFuture applies the no-past-dates rule, which holds on
// creation and whenever an edit changes the date. The returned error is a
// remote failure while checking references, not a validation outcome.
func (s *AppointmentService) Validate(ctx context.Context, draft AppointmentDraft, now time.Time, enforceFuture bool) (map[string]string, error) {
	fields := map[string]string{}

	if draft.ClientID == 0 {
		fields["client_id"] = "a client must be selected"
	} else {
		exists, err := s.rowExists(ctx, "clients", draft.ClientID)
		if err != nil {
			return nil, err
		}
		if !exists {
			fields["client_id"] = "selected client does not exist"
		}
	}

	if draft.ServiceID == 0 {
		fields["service_id"] = "a service must be selected"
	} else {
		exists, err := s.rowExists(ctx, "services", draft.ServiceID)
		if err != nil {
			return nil, err
		}
		if !exists {
			fields["service_id"] = "selected service does not exist"
		}
	}

	if draft.AppointmentDate.IsZero() {
		fields["appointment_date"] = "date and time are required"
	} else if enforceFuture && draft.AppointmentDate.Before(now) {
		fields["appointment_date"] = "date cannot be in the past"
	}

	if draft.DepositAmount < 0 {
		fields["deposit_amount"] = "deposit cannot be negative"
	}

	if draft.Status != "" && !draft.Status.Valid() {
		fields["status"] = "status must be scheduled, completed or cancelled"
	}

	return fields, nil
}

func (s *AppointmentService) rowExists(ctx context.Context, table string, id int64) (bool, error) {
	var rows []struct {
		ID int64 `json:"id"`
	}
	q := supabase.NewQuery().Columns("id").EqInt("id", id).Limit(1)
	if err := s.db.Select(ctx, table, q, &rows); err != nil {
		return false, err
	}
	return len(rows) > 0, nil
}

// Create writes a validated draft. Callers must run Validate first; the
// write itself performs no second pass.
func (s *AppointmentService) Create(ctx context.Context, draft AppointmentDraft) (*models.Appointment, error) {
	status := draft.Status
	if status == "" {
		status = models.StatusScheduled
	}
	record := models.Appointment{
		ClientID:        draft.ClientID,
		ServiceID:       draft.ServiceID,
		AppointmentDate: draft.AppointmentDate,
		DepositAmount:   draft.DepositAmount,
		Notes:           draft.Notes,
		Status:          status,
	}
	var created []models.Appointment
	if err := s.db.Insert(ctx, "appointments", record, &created); err != nil {
		return nil, err
	}
	if len(created) == 0 {
		return &record, nil
	}
	return &created[0], nil
}

// Update rewrites the editable fields of an existing appointment.
func (s *AppointmentService) Update(ctx context.Context, id int64, draft AppointmentDraft) (*models.Appointment, error) {
	fields := map[string]interface{}{
		"client_id":        draft.ClientID,
		"service_id":       draft.ServiceID,
		"appointment_date": draft.AppointmentDate,
		"deposit_amount":   draft.DepositAmount,
		"notes":            draft.Notes,
		"status":           draft.Status,
	}
	var updated []models.Appointment
	q := supabase.NewQuery().EqInt("id", id)
	if err := s.db.Update(ctx, "appointments", q, fields, &updated); err != nil {
		return nil, err
	}
	if len(updated) == 0 {
		return nil, ErrAppointmentNotFound
	}
	return &updated[0], nil
}

// Get fetches one appointment with its client and service embedded.
func (s *AppointmentService) Get(ctx context.Context, id int64) (*models.Appointment, error) {
	var rows []models.Appointment
	q := supabase.NewQuery().Columns(appointmentColumns).EqInt("id", id).Limit(1)
	if err := s.db.Select(ctx, "appointments", q, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrAppointmentNotFound
	}
	return &rows[0], nil
}

// List fetches every appointment, joined sub-records included, ordered by
// date ascending.
func (s *AppointmentService) List(ctx context.Context) ([]models.Appointment, error) {
	var rows []models.Appointment
	q := supabase.NewQuery().Columns(appointmentColumns).Order("appointment_date", true)
	if err := s.db.Select(ctx, "appointments", q, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// Delete removes an appointment unless an invoice references it. The guard
// query runs first; when any invoice exists the delete is refused and
// nothing changes.
func (s *AppointmentService) Delete(ctx context.Context, id int64) error {
	var invoices []struct {
		ID int64 `json:"id"`
	}
	guard := supabase.NewQuery().Columns("id").EqInt("appointment_id", id).Limit(1)
	if err := s.db.Select(ctx, "invoices", guard, &invoices); err != nil {
		return err
	}
	if len(invoices) > 0 {
		return ErrHasInvoices
	}

	var deleted []models.Appointment
	q := supabase.NewQuery().EqInt("id", id)
	if err := s.db.Delete(ctx, "appointments", q, &deleted); err != nil {
		return err
	}
	if len(deleted) == 0 {
		return ErrAppointmentNotFound
	}
	return nil
}

// Duplicate produces an unsaved draft of an existing appointment: same
// client, service, deposit and notes, blank date, status reset to scheduled.
// The original record is untouched.
func Duplicate(a models.Appointment) models.Appointment {
	return models.Appointment{
		ClientID:      a.ClientID,
		ServiceID:     a.ServiceID,
		DepositAmount: a.DepositAmount,
		Notes:         a.Notes,
		Status:        models.StatusScheduled,
		Client:        a.Client,
		Service:       a.Service,
	}
}

// AppointmentFilter narrows an appointment list. Zero values ("" or "all")
// leave the corresponding dimension unfiltered.
type AppointmentFilter struct {
	Search     string
	Status     string
	DateBucket string
}

// FilterAppointments applies search text, status and date-bucket filters and
// returns a new slice sorted ascending by appointment date. The input is
// never mutated.
func FilterAppointments(appointments []models.Appointment, filter AppointmentFilter, now time.Time) []models.Appointment {
	result := make([]models.Appointment, 0, len(appointments))
	search := strings.ToLower(strings.TrimSpace(filter.Search))

	for _, a := range appointments {
		if search != "" && !matchesSearch(a, search) {
			continue
		}
		if filter.Status != "" && filter.Status != "all" && string(a.Status) != filter.Status {
			continue
		}
		if !matchesDateBucket(a.AppointmentDate, filter.DateBucket, now) {
			continue
		}
		result = append(result, a)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].AppointmentDate.Before(result[j].AppointmentDate)
	})
	return result
}

func matchesSearch(a models.Appointment, search string) bool {
	if a.Client != nil && strings.Contains(strings.ToLower(a.Client.FullName()), search) {
		return true
	}
	if a.Service != nil && strings.Contains(strings.ToLower(a.Service.Name), search) {
		return true
	}
	return strings.Contains(strings.ToLower(a.Notes), search)
}

func matchesDateBucket(date time.Time, bucket string, now time.Time) bool {
	switch bucket {
	case "today":
		return utils.SameDay(date, now)
	case "tomorrow":
		return utils.SameDay(date, now.AddDate(0, 0, 1))
	case "week":
		// today through today+7, inclusive by calendar day
		start := utils.BeginningOfDay(now)
		end := utils.BeginningOfDay(now.AddDate(0, 0, 8))
		return !date.Before(start) && date.Before(end)
	case "past":
		return date.Before(now)
	default:
		return true
	}
}
