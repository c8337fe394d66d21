package qauth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/quatton/vitalsync/pkg/qerr"
)

const (
	DefaultStateIssuer = "vitalsync"
	StateMaxAge        = 10 * time.Minute
)

var ErrInvalidState = errors.New("invalid state token")

// StateClaims is the payload of the OAuth state parameter. Timestamp is in
// epoch milliseconds and is what the age check runs against.
type StateClaims struct {
	Nonce     string `json:"nonce"`
	Timestamp int64  `json:"ts"`
	jwt.RegisteredClaims
}

// StateSigner mints and verifies state tokens. Tokens are not stored
// anywhere; the browser holds a copy in a cookie and the callback compares
// the two.
type StateSigner struct {
	secret []byte
	issuer string
	maxAge time.Duration
	now    func() time.Time
}

type StateOption func(*StateSigner)

func WithStateIssuer(iss string) StateOption {
	return func(s *StateSigner) { s.issuer = iss }
}

func WithStateClock(now func() time.Time) StateOption {
	return func(s *StateSigner) { s.now = now }
}

func NewStateSigner(secret []byte, opts ...StateOption) *StateSigner {
	s := &StateSigner{
		secret: secret,
		issuer: DefaultStateIssuer,
		maxAge: StateMaxAge,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *StateSigner) Sign() (string, error) {
	now := s.now()
	claims := StateClaims{
		Nonce:     uuid.NewString(),
		Timestamp: now.UnixMilli(),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:   s.issuer,
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Validate checks signature, issuer and age. A token older than StateMaxAge
// is rejected even when its signature is good, which is what stops a
// captured callback URL from being replayed later.
func (s *StateSigner) Validate(state string) (*StateClaims, error) {
	parsed, err := jwt.ParseWithClaims(state, &StateClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	},
		jwt.WithIssuer(s.issuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, qerr.New(qerr.CodeInvalidState, fmt.Errorf("%w: %w", ErrInvalidState, err))
	}

	claims, ok := parsed.Claims.(*StateClaims)
	if !ok || !parsed.Valid {
		return nil, qerr.New(qerr.CodeInvalidState, ErrInvalidState)
	}

	age := s.now().Sub(time.UnixMilli(claims.Timestamp))
	if claims.Timestamp == 0 || age > s.maxAge || age < -time.Minute {
		return nil, qerr.New(qerr.CodeInvalidState, fmt.Errorf("%w: age %s", ErrInvalidState, age.Round(time.Second)))
	}
	return claims, nil
}
