package constants

import "time"

const (
	// DefaultHTTPTimeout bounds every request issued by the Remote Client.
	DefaultHTTPTimeout = 10 * time.Second

	// DefaultLocale is used when the session does not provide one.
	DefaultLocale = "en"

	// DefaultNotificationPollInterval mirrors the account menu refresh.
	DefaultNotificationPollInterval = time.Minute

	// DefaultAccountTTL is how long a fetched account stays in storage.
	DefaultAccountTTL = 5 * time.Minute
)

// Headers set on outgoing requests.
const (
	HeaderCSRFToken      = "X-CSRFToken"
	HeaderAcceptLanguage = "Accept-Language"
	HeaderRequestID      = "X-Request-ID"
	HeaderContentType    = "Content-Type"
	HeaderAccept         = "Accept"

	CSRFCookieName  = "csrftoken"
	ContentTypeJSON = "application/json"
)

// Endpoints that do not come from a record locator.
const (
	PathAccount               = "/user/account/"
	PathNotifications         = "/user/notifications/"
	PathStudentSignatures     = "/user/student/signatures/"
	PathPreplannedInternships = "/user/student/preplanned-internships/"
)
