package admin

import "github.com/andrewwillette/willette/internal/models"

// Banner messages shown when the backend rejects an operation.
const (
	DeleteUnauthorized = "Not logged in, cannot delete URLS"
	AddUnauthorized    = "Not logged in, cannot add soundcloud Url"
	LoginFailed        = "Login Failed"
)

// BannerKind enumerates what the page banner shows.
type BannerKind int

const (
	BannerNone BannerKind = iota
	BannerUnauthorized
	BannerSuccess
)

func (k BannerKind) String() string {
	switch k {
	case BannerUnauthorized:
		return "unauthorized"
	case BannerSuccess:
		return "success"
	default:
		return "none"
	}
}

// Banner is the status line above the record list.
type Banner struct {
	Kind    BannerKind
	Message string
}

// State is everything the admin page renders.
type State struct {
	// Records is nil until a fetch returns a body, and again whenever a fetch returns JSON null.
	Records []models.SoundcloudURL
	// UnauthorizedReason is the last rejection message, "" when none.
	UnauthorizedReason string
	LoginSucceeded     bool
	// Err is the transport or parse failure of the most recent call.
	Err error
	// SaveStatus is the HTTP status of the last batch update, 0 before any.
	SaveStatus int
	KeyOfDay   string
}

// Banner derives the banner from the state. A rejection reason takes precedence over a login success.
func (s State) Banner() Banner {
	switch {
	case s.UnauthorizedReason != "":
		return Banner{Kind: BannerUnauthorized, Message: s.UnauthorizedReason}
	case s.LoginSucceeded:
		return Banner{Kind: BannerSuccess, Message: "Login Successful"}
	default:
		return Banner{Kind: BannerNone}
	}
}

// Record returns the record for url and whether it is listed.
func (s State) Record(url string) (models.SoundcloudURL, bool) {
	for _, r := range s.Records {
		if r.URL == url {
			return r, true
		}
	}
	return models.SoundcloudURL{}, false
}
