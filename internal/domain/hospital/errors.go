package hospital

import "github.com/Ashu0609-cyber/OMCBS-mini-project/internal/platform/apierr"

var (
	ErrHospitalNotFound = apierr.NotFound("hospital_not_found", "Hospital not found.")
	ErrAccountNotFound  = apierr.NotFound("account_not_found", "No hospital admin account has that id.")
	ErrAlreadyAdmin     = apierr.Conflict("already_admin", "That account already administers this hospital.")
	ErrIDExhausted      = apierr.Conflict("custom_id_exhausted", "Could not allocate an identifier, please retry.")
)
