package scheduling

import "github.com/Ashu0609-cyber/OMCBS-mini-project/internal/platform/apierr"

var (
	ErrAppointmentNotFound = apierr.NotFound("appointment_not_found", "Appointment not found.")
	ErrProfileRequired     = apierr.New(apierr.KindForbidden, "profile_required", "Complete your patient profile before booking.")
	ErrIDExhausted         = apierr.Conflict("custom_id_exhausted", "Could not allocate an identifier, please retry.")
	ErrTokenTaken          = apierr.Conflict("token_conflict", "Another confirmation took this token, please retry.")
	ErrStatusChanged       = apierr.Conflict("status_conflict", "The appointment status was changed by someone else, reload and retry.")
)

func doesNotExist(id string) string {
	return `Invalid pk "` + id + `" - object does not exist.`
}
