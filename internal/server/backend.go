package server

import (
	"crypto/rand"
	"encoding/json"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/andrewwillette/willette/internal/models"
	"github.com/andrewwillette/willette/internal/services"
	"github.com/andrewwillette/willette/internal/shared"
	"github.com/charmbracelet/log"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// TokenTTL is how long a token minted by [Backend] stays valid.
const TokenTTL = 24 * time.Hour

// Keys cycles through the twelve major keys, one per day.
var Keys = []string{"C", "G", "D", "A", "E", "B", "F#", "Db", "Ab", "Eb", "Bb", "F"}

// KeyForDate returns the key of the day for t's calendar date.
func KeyForDate(t time.Time) string {
	return Keys[t.YearDay()%len(Keys)]
}

// BackendOpts configures a [Backend].
type BackendOpts struct {
	Username string
	Password string
	URLs     []models.SoundcloudURL
	Now      func() time.Time
	Logger   *log.Logger
}

// Backend is an in-memory stand-in for the willette API used for local development and tests.
//
// It answers the six admin endpoints with the same statuses as the real service: 401 for a bad or missing token,
// 400 when deleting an unknown url and the login token as a JSON string.
//
// Tokens are HS256 JWTs signed with a key generated per Backend, so they do not survive a restart.
type Backend struct {
	mu           sync.Mutex
	username     string
	passwordHash []byte
	signingKey   []byte
	urls         []models.SoundcloudURL
	now          func() time.Time
	logger       *log.Logger
}

// NewBackend creates a [Backend] seeded with opts.URLs.
func NewBackend(opts BackendOpts) *Backend {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	b := &Backend{
		username:   opts.Username,
		signingKey: make([]byte, 32),
		urls:       slices.Clone(opts.URLs),
		now:        opts.Now,
		logger:     opts.Logger,
	}
	rand.Read(b.signingKey)

	if opts.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(opts.Password), bcrypt.DefaultCost)
		if err != nil {
			opts.Logger.Error("failed to hash password, logins will fail", "error", err)
		}
		b.passwordHash = hash
	}
	return b
}

// Register mounts the backend endpoints on r.
func (b *Backend) Register(r Router) {
	r.Handle(http.MethodGet, services.ListURLsEndpoint, http.HandlerFunc(b.listURLs))
	r.Handle(http.MethodGet, services.KeyOfDayEndpoint, http.HandlerFunc(b.keyOfDay))
	r.Handle(http.MethodPost, services.LoginEndpoint, http.HandlerFunc(b.login))
	r.Handle(http.MethodPut, services.AddURLEndpoint, http.HandlerFunc(b.addURL))
	r.Handle(http.MethodDelete, services.DeleteURLEndpoint, http.HandlerFunc(b.deleteURL))
	r.Handle(http.MethodPut, services.UpdateURLsEndpoint, http.HandlerFunc(b.updateURLs))
}

// NewHandler returns a router serving b behind logging and CORS middleware.
func NewHandler(b *Backend) http.Handler {
	router := NewBasicRouter()
	router.Use(LoggingMiddleware(b.logger), CORSMiddleware())
	b.Register(router)
	return router
}

// URLs returns a copy of the stored records in insertion order.
func (b *Backend) URLs() []models.SoundcloudURL {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.urls)
}

// IssueToken mints a valid token without a login round trip.
func (b *Backend) IssueToken() string {
	now := b.now()
	claims := jwt.RegisteredClaims{
		ID:        shared.GenerateID(),
		Subject:   b.username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(b.signingKey)
	if err != nil {
		b.logger.Error("failed to sign token", "error", err)
		return ""
	}
	return token
}

func (b *Backend) checkPassword(username, password string) bool {
	if b.username == "" || len(b.passwordHash) == 0 || username != b.username {
		return false
	}
	return bcrypt.CompareHashAndPassword(b.passwordHash, []byte(password)) == nil
}

// authorized reports whether the raw Authorization header carries a token this backend signed.
func (b *Backend) authorized(r *http.Request) bool {
	raw := r.Header.Get("Authorization")
	if raw == "" {
		return false
	}

	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(raw, &claims, func(token *jwt.Token) (any, error) {
		return b.signingKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(b.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		b.logger.Debug("rejected token", "error", err)
		return false
	}
	return claims.Subject == b.username
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeText(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	w.Write([]byte(msg))
}

func (b *Backend) listURLs(w http.ResponseWriter, r *http.Request) {
	urls := b.URLs()
	if urls == nil {
		urls = []models.SoundcloudURL{}
	}
	writeJSON(w, http.StatusOK, urls)
}

func (b *Backend) keyOfDay(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, KeyForDate(b.now()))
}

func (b *Backend) login(w http.ResponseWriter, r *http.Request) {
	var creds models.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeText(w, http.StatusInternalServerError, "Error decoding user credentials from request body.")
		return
	}

	if !b.checkPassword(creds.Username, creds.Password) {
		b.logger.Info("login failed", "username", creds.Username)
		writeText(w, http.StatusUnauthorized, "Login Failed.")
		return
	}
	b.logger.Info("login succeeded", "username", creds.Username)
	writeJSON(w, http.StatusOK, b.IssueToken())
}

func (b *Backend) addURL(w http.ResponseWriter, r *http.Request) {
	var body models.URLBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeText(w, http.StatusInternalServerError, "Error decoding soundcloud url from request body.")
		return
	}
	if !b.authorized(r) {
		writeText(w, http.StatusUnauthorized, "Invalid auth token is invalid.")
		return
	}

	b.mu.Lock()
	b.urls = append(b.urls, models.SoundcloudURL{URL: body.URL})
	b.mu.Unlock()

	writeText(w, http.StatusOK, "Successfuly added soundcloud URL")
}

func (b *Backend) deleteURL(w http.ResponseWriter, r *http.Request) {
	var body models.URLBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeText(w, http.StatusInternalServerError, "Error decoding soundcloud url from request body.")
		return
	}
	if !b.authorized(r) {
		writeText(w, http.StatusUnauthorized, "deleteSoundcloudUrl called unauthorized")
		return
	}

	b.mu.Lock()
	idx := slices.IndexFunc(b.urls, func(u models.SoundcloudURL) bool { return u.URL == body.URL })
	if idx >= 0 {
		b.urls = slices.Delete(b.urls, idx, idx+1)
	}
	b.mu.Unlock()

	if idx < 0 {
		writeText(w, http.StatusBadRequest, "Provided url does not exist to delete.")
		return
	}
	writeText(w, http.StatusOK, "Successfully deleted soundcloud url")
}

// updateURLs stores every uiOrder it is sent. Unknown urls are ignored and, as on the real service,
// the token is not checked.
func (b *Backend) updateURLs(w http.ResponseWriter, r *http.Request) {
	var urls []models.SoundcloudURL
	if err := json.NewDecoder(r.Body).Decode(&urls); err != nil {
		writeText(w, http.StatusBadRequest, "Error decoding soundcloud urls in update soundcloud urls.")
		return
	}

	b.mu.Lock()
	for _, u := range urls {
		for i := range b.urls {
			if b.urls[i].URL == u.URL {
				b.urls[i].UIOrder = u.UIOrder
			}
		}
	}
	b.mu.Unlock()

	writeText(w, http.StatusOK, "Sucessfully updated soundcloud url values")
}
