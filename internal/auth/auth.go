// Package auth implements credential validation and JWT-backed sessions.
package auth

import (
	"crypto/subtle"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rotisserie/eris"

	"github.com/Karthik-beta/data-app/internal/model"
)

const defaultTokenTTL = 7 * 24 * time.Hour

type user struct {
	password string
	name     string
}

// Authenticator validates credentials and issues/verifies session tokens.
// Verification is a pure function of the token bytes and the secret; no
// session state is kept server-side.
type Authenticator struct {
	secret   []byte
	users    map[string]user
	tokenTTL time.Duration
	now      func() time.Time
}

// Option configures an Authenticator.
type Option func(*Authenticator)

// WithTokenTTL overrides the default 7-day token lifetime.
func WithTokenTTL(ttl time.Duration) Option {
	return func(a *Authenticator) {
		if ttl > 0 {
			a.tokenTTL = ttl
		}
	}
}

// WithClock overrides the time source, for expiry tests.
func WithClock(now func() time.Time) Option {
	return func(a *Authenticator) {
		if now != nil {
			a.now = now
		}
	}
}

// New builds an Authenticator from a signing secret and a credential table
// in "user:pass,user2:pass2" form. Usernames are lowercased; the display
// name is the username with its first letter upper-cased.
func New(secret, users string, opts ...Option) (*Authenticator, error) {
	if secret == "" {
		return nil, eris.New("auth: signing secret is required")
	}

	a := &Authenticator{
		secret:   []byte(secret),
		users:    make(map[string]user),
		tokenTTL: defaultTokenTTL,
		now:      time.Now,
	}
	for _, pair := range strings.Split(users, ",") {
		parts := strings.SplitN(strings.TrimSpace(pair), ":", 2)
		if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
			continue
		}
		username := strings.ToLower(parts[0])
		a.users[username] = user{
			password: parts[1],
			name:     strings.ToUpper(username[:1]) + username[1:],
		}
	}
	if len(a.users) == 0 {
		return nil, eris.New("auth: no valid credentials configured")
	}

	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Validate checks a username-or-email plus password against the credential
// table. The identifier is lowercased and, when an email is supplied, the
// local part before '@' is used. Failure is uniform: callers cannot tell an
// unknown user from a wrong password.
func (a *Authenticator) Validate(usernameOrEmail, password string) (model.Session, bool) {
	username := strings.ToLower(usernameOrEmail)
	if at := strings.Index(username, "@"); at >= 0 {
		username = username[:at]
	}

	u, ok := a.users[username]
	if !ok || subtle.ConstantTimeCompare([]byte(u.password), []byte(password)) != 1 {
		return model.Session{}, false
	}
	return model.Session{Username: username, Name: u.name}, true
}

type sessionClaims struct {
	jwt.RegisteredClaims
	Username string `json:"username"`
	Name     string `json:"name"`
}

// IssueToken signs an HS256 token binding the session identity, expiring
// after the configured TTL.
func (a *Authenticator) IssueToken(s model.Session) (string, error) {
	now := a.now()
	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.tokenTTL)),
		},
		Username: s.Username,
		Name:     s.Name,
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return "", eris.Wrap(err, "auth: sign token")
	}
	return token, nil
}

// VerifyToken validates a presented token. A missing, malformed, expired, or
// badly signed token yields an error; callers treat any error as "no
// session".
func (a *Authenticator) VerifyToken(token string) (model.Session, error) {
	var claims sessionClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, eris.Errorf("auth: unexpected signing method %v", t.Header["alg"])
		}
		return a.secret, nil
	}, jwt.WithTimeFunc(a.now), jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return model.Session{}, eris.Wrap(err, "auth: parse token")
	}
	if !parsed.Valid || claims.Username == "" {
		return model.Session{}, eris.New("auth: invalid token")
	}
	return model.Session{Username: claims.Username, Name: claims.Name}, nil
}

// TokenTTL reports the configured token lifetime.
func (a *Authenticator) TokenTTL() time.Duration {
	return a.tokenTTL
}
