package medication

import "github.com/Ashu0609-cyber/OMCBS-mini-project/internal/platform/apierr"

var (
	ErrMedicationNotFound  = apierr.NotFound("medication_not_found", "Medication not found.")
	ErrMedicationInUse     = apierr.Conflict("medication_in_use", "This medication is referenced by prescriptions and cannot be deleted.")
	ErrAppointmentInactive = apierr.Conflict("appointment_cancelled", "Cannot prescribe against a cancelled appointment.")
)
