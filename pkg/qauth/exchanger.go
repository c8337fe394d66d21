package qauth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/quatton/vitalsync/pkg/credentials"
	"github.com/quatton/vitalsync/pkg/qerr"
	"github.com/quatton/vitalsync/pkg/qlog"
	"github.com/quatton/vitalsync/pkg/whoop"
	"golang.org/x/oauth2"
)

const (
	DefaultBackfillDays    = 90
	DefaultBackfillTimeout = 15 * time.Minute
)

// RejectCode is the machine-readable reason a callback was refused. It is
// what ends up in the error redirect's query string.
type RejectCode string

const (
	RejectProviderError  RejectCode = "provider_error"
	RejectMissingParams  RejectCode = "missing_params"
	RejectStateMismatch  RejectCode = "state_mismatch"
	RejectInvalidState   RejectCode = "invalid_state"
	RejectExchangeFailed RejectCode = "exchange_failed"
	RejectStoreFailed    RejectCode = "store_failed"
)

// Phase is how far a callback got.
type Phase int

const (
	PhaseAwaitingCallback Phase = iota
	PhaseStateValidated
	PhaseCodeExchanged
	PhaseTokenPersisted
	PhaseBackfillTriggered
	PhaseRejected
)

func (p Phase) String() string {
	switch p {
	case PhaseAwaitingCallback:
		return "awaiting_callback"
	case PhaseStateValidated:
		return "state_validated"
	case PhaseCodeExchanged:
		return "code_exchanged"
	case PhaseTokenPersisted:
		return "token_persisted"
	case PhaseBackfillTriggered:
		return "backfill_triggered"
	case PhaseRejected:
		return "rejected"
	default:
		return "phase(" + strconv.Itoa(int(p)) + ")"
	}
}

// CallbackParams is everything the callback route receives from the browser.
type CallbackParams struct {
	Code             string
	State            string
	Error            string
	ErrorDescription string
	StateCookie      string
}

type CallbackOutcome struct {
	Phase  Phase
	Reject RejectCode
	Record *credentials.TokenRecord
}

// ProfileFetcher resolves the provider's user id for a fresh access token.
type ProfileFetcher interface {
	GetProfile(ctx context.Context, accessToken string) (*whoop.Profile, error)
}

// Backfiller pulls history for a newly connected user.
type Backfiller interface {
	Backfill(ctx context.Context, userID string, w whoop.Window) error
}

type ExchangerConfig struct {
	OAuth      *oauth2.Config
	States     *StateSigner
	Store      credentials.Store
	Profiles   ProfileFetcher
	Backfill   Backfiller
	HTTPClient *http.Client
	Logger     *qlog.Logger

	BackfillDays    int
	BackfillTimeout time.Duration
	Now             func() time.Time
}

// Exchanger runs the authorization code flow for one provider and stores the
// resulting credentials.
type Exchanger struct {
	oauth    *oauth2.Config
	states   *StateSigner
	store    credentials.Store
	profiles ProfileFetcher
	backfill Backfiller
	http     *http.Client
	logger   *qlog.Logger

	backfillDays    int
	backfillTimeout time.Duration
	now             func() time.Time

	wg sync.WaitGroup
}

func NewExchanger(cfg ExchangerConfig) *Exchanger {
	e := &Exchanger{
		oauth:           cfg.OAuth,
		states:          cfg.States,
		store:           cfg.Store,
		profiles:        cfg.Profiles,
		backfill:        cfg.Backfill,
		http:            cfg.HTTPClient,
		logger:          cfg.Logger,
		backfillDays:    cfg.BackfillDays,
		backfillTimeout: cfg.BackfillTimeout,
		now:             cfg.Now,
	}
	if e.logger == nil {
		e.logger = qlog.NewDiscard()
	}
	if e.backfillDays <= 0 {
		e.backfillDays = DefaultBackfillDays
	}
	if e.backfillTimeout <= 0 {
		e.backfillTimeout = DefaultBackfillTimeout
	}
	if e.now == nil {
		e.now = time.Now
	}
	return e
}

// BeginAuthorization mints a state token and returns it together with the
// provider authorize URL. The caller must hand the state to the browser as a
// cookie.
func (e *Exchanger) BeginAuthorization() (authURL, state string, err error) {
	state, err = e.states.Sign()
	if err != nil {
		return "", "", fmt.Errorf("failed to sign state: %w", err)
	}
	return e.oauth.AuthCodeURL(state), state, nil
}

// HandleCallback validates and completes an authorization callback. The
// outcome is always non-nil; err is non-nil exactly when the callback was
// rejected and explains why.
func (e *Exchanger) HandleCallback(ctx context.Context, p CallbackParams) (*CallbackOutcome, error) {
	reject := func(code RejectCode, err error) (*CallbackOutcome, error) {
		e.logger.Warn("oauth callback rejected", "reason", string(code), "error", err)
		return &CallbackOutcome{Phase: PhaseRejected, Reject: code}, err
	}

	if p.Error != "" {
		return reject(RejectProviderError, fmt.Errorf("provider returned %s: %s", p.Error, p.ErrorDescription))
	}
	if p.Code == "" || p.State == "" {
		return reject(RejectMissingParams, errors.New("code and state are required"))
	}
	if p.StateCookie == "" || p.StateCookie != p.State {
		return reject(RejectStateMismatch, errors.New("state does not match cookie"))
	}
	if _, err := e.states.Validate(p.State); err != nil {
		return reject(RejectInvalidState, err)
	}

	ctx = e.clientContext(ctx)
	tok, err := e.oauth.Exchange(ctx, p.Code)
	if err != nil {
		return reject(RejectExchangeFailed, qerr.New(qerr.CodeExchangeFailed, err))
	}
	profile, err := e.profiles.GetProfile(ctx, tok.AccessToken)
	if err != nil {
		return reject(RejectExchangeFailed, qerr.New(qerr.CodeExchangeFailed, fmt.Errorf("profile lookup: %w", err)))
	}

	now := e.now()
	userID := strconv.FormatInt(profile.UserID, 10)
	rec := &credentials.TokenRecord{
		UserID:       userID,
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		ExpiresAt:    expiresAtMillis(tok, now),
		CreatedAt:    now.UnixMilli(),
		UpdatedAt:    now.UnixMilli(),
	}
	if err := e.store.Put(ctx, userID, rec); err != nil {
		return reject(RejectStoreFailed, err)
	}
	e.logger.Info("oauth tokens stored", "user", userID)

	e.TriggerBackfillAsync(ctx, userID)
	return &CallbackOutcome{Phase: PhaseBackfillTriggered, Record: rec}, nil
}

// TriggerBackfillAsync starts a history backfill for userID and returns
// immediately. The backfill is detached from ctx's cancellation and its
// errors are only logged.
func (e *Exchanger) TriggerBackfillAsync(ctx context.Context, userID string) {
	if e.backfill == nil {
		return
	}
	now := e.now()
	w := whoop.Window{Start: now.AddDate(0, 0, -e.backfillDays), End: now}
	bctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), e.backfillTimeout)

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		defer cancel()
		defer func() {
			if r := recover(); r != nil {
				e.logger.Error("backfill panicked", "user", userID, "panic", r)
			}
		}()
		if err := e.backfill.Backfill(bctx, userID, w); err != nil {
			e.logger.Error("backfill failed", "user", userID, "error", err)
			return
		}
		e.logger.Info("backfill completed", "user", userID, "days", e.backfillDays)
	}()
}

// Wait blocks until every backfill started by this exchanger has returned.
func (e *Exchanger) Wait() {
	e.wg.Wait()
}

func (e *Exchanger) clientContext(ctx context.Context) context.Context {
	if e.http == nil {
		return ctx
	}
	return context.WithValue(ctx, oauth2.HTTPClient, e.http)
}

func expiresAtMillis(tok *oauth2.Token, now time.Time) int64 {
	if tok.Expiry.IsZero() {
		return now.UnixMilli()
	}
	return tok.Expiry.UnixMilli()
}
