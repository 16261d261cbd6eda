package email

import (
	"context"
)

type noopService struct{}

// NewNoopService returns a sender that drops all mail. Used when SMTP is
// disabled and in tests.
func NewNoopService() Service {
	return noopService{}
}

func (noopService) SendBookingConfirmation(ctx context.Context, to, patientName, date, timeOfDay, meetingLink string) error {
	return nil
}

func (noopService) SendPrescriptionNotice(ctx context.Context, to, patientName string, medicineCount int) error {
	return nil
}
