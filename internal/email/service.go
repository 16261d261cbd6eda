package email

import (
	"context"
)

// Service sends patient-facing notifications. All sends are best-effort;
// callers log failures and continue.
type Service interface {
	SendBookingConfirmation(ctx context.Context, to, patientName, date, timeOfDay, meetingLink string) error
	SendPrescriptionNotice(ctx context.Context, to, patientName string, medicineCount int) error
}
