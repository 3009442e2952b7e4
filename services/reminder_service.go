// services/reminder_service.go
package services

import (
	"context"
	"fmt"
	"time"

	"beautystudio-backend/config"
	"beautystudio-backend/models"
	"beautystudio-backend/supabase"

	"github.com/robfig/cron/v3"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

// ReminderService sends an SMS the day before each scheduled appointment.
type ReminderService struct {
	db     *supabase.Client
	client *twilio.RestClient
	from   string
}

func NewReminderService(db *supabase.Client, cfg *config.Config) *ReminderService {
	return &ReminderService{
		db: db,
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: cfg.TwilioAccountSID,
			Password: cfg.TwilioAuthToken,
		}),
		from: cfg.TwilioFromNumber,
	}
}

// StartScheduler runs the daily reminder pass every morning at 8 AM.
func (s *ReminderService) StartScheduler() {
	c := cron.New()
	c.AddFunc("0 8 * * *", s.SendDailyReminders)
	c.Start()
	config.Logger.Info().Msg("reminder scheduler started")
}

// SendDailyReminders messages every client with a scheduled appointment
// tomorrow. Send failures are logged and skipped; they never interrupt the
// pass.
func (s *ReminderService) SendDailyReminders() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	tomorrow := time.Now().AddDate(0, 0, 1)
	start := time.Date(tomorrow.Year(), tomorrow.Month(), tomorrow.Day(), 0, 0, 0, 0, tomorrow.Location())
	end := start.AddDate(0, 0, 1)

	var appointments []models.Appointment
	q := supabase.NewQuery().
		Columns(appointmentColumns).
		Eq("status", string(models.StatusScheduled)).
		Gte("appointment_date", start.Format(time.RFC3339)).
		Lt("appointment_date", end.Format(time.RFC3339))
	if err := s.db.Select(ctx, "appointments", q, &appointments); err != nil {
		config.Logger.Error().Err(err).Msg("reminder pass: fetch appointments")
		return
	}

	for _, appointment := range appointments {
		if appointment.Client == nil || appointment.Client.PhoneNumber == "" {
			continue
		}
		message := BuildReminderMessage(appointment)
		params := &twilioApi.CreateMessageParams{}
		params.SetTo(appointment.Client.PhoneNumber)
		params.SetFrom(s.from)
		params.SetBody(message)

		if _, err := s.client.Api.CreateMessage(params); err != nil {
			config.Logger.Error().
				Err(err).
				Int64("appointmentId", appointment.ID).
				Msg("reminder send failed")
			continue
		}
		config.Logger.Info().
			Int64("appointmentId", appointment.ID).
			Msg("reminder sent")
	}
}

// BuildReminderMessage composes the SMS body for one appointment.
func BuildReminderMessage(a models.Appointment) string {
	name := "cliente"
	if a.Client != nil && a.Client.FirstName != "" {
		name = a.Client.FirstName
	}
	service := "tu cita"
	if a.Service != nil && a.Service.Name != "" {
		service = a.Service.Name
	}
	return fmt.Sprintf(
		"Hola %s, te recordamos tu cita de %s mañana a las %s en %s. ¡Te esperamos!",
		name, service, a.AppointmentDate.Format("15:04"), businessName,
	)
}
