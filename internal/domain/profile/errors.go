package profile

import "github.com/Ashu0609-cyber/OMCBS-mini-project/internal/platform/apierr"

var (
	ErrProfileExists    = apierr.Conflict("profile_exists", "A profile already exists for this account.")
	ErrProfileNotFound  = apierr.NotFound("profile_not_found", "No profile exists for this account yet.")
	ErrHospitalNotFound = apierr.NotFound("hospital_not_found", "Hospital not found.")
)
