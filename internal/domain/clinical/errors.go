package clinical

import "github.com/Ashu0609-cyber/OMCBS-mini-project/internal/platform/apierr"

var (
	ErrReportNotFound     = apierr.NotFound("report_not_found", "Medical report not found.")
	ErrArticleNotFound    = apierr.NotFound("article_not_found", "Article not found.")
	ErrProfileRequired    = apierr.New(apierr.KindForbidden, "profile_required", "Complete your doctor profile before writing articles.")
	ErrAppointmentPending = apierr.Conflict("appointment_not_active",
		"Reports can only be added to confirmed or completed appointments.")
)
