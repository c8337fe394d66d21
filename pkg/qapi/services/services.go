package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/quatton/vitalsync/pkg/credentials"
	"github.com/quatton/vitalsync/pkg/db"
	"github.com/quatton/vitalsync/pkg/kv"
	"github.com/quatton/vitalsync/pkg/pipeline"
	"github.com/quatton/vitalsync/pkg/qapi/config"
	"github.com/quatton/vitalsync/pkg/qapi/services/apikey"
	"github.com/quatton/vitalsync/pkg/qart"
	"github.com/quatton/vitalsync/pkg/qauth"
	"github.com/quatton/vitalsync/pkg/qlog"
	"github.com/quatton/vitalsync/pkg/whoop"
	"github.com/uptrace/bun"
	"golang.org/x/oauth2"
)

// credentialPageSize is the SCAN hint used when enumerating users.
const credentialPageSize = 100

// Authorizer is the part of the OAuth flow the auth routes drive.
type Authorizer interface {
	BeginAuthorization() (authURL, state string, err error)
	HandleCallback(ctx context.Context, p qauth.CallbackParams) (*qauth.CallbackOutcome, error)
}

// Syncer is the part of the scheduler the sync routes drive.
type Syncer interface {
	SyncUser(ctx context.Context, userID string, w whoop.Window) (*pipeline.UserResult, error)
	RunBatch(ctx context.Context) (*pipeline.BatchSummary, error)
	Status() pipeline.Status
	BatchWindow() whoop.Window
}

// Redirects are where the browser lands after the OAuth callback.
type Redirects struct {
	SuccessURL string
	ErrorURL   string
	Secure     bool
}

type Services struct {
	Auth      Authorizer
	Sync      Syncer
	APIKey    *apikey.Guard
	Redirects Redirects
	Logger    *qlog.Logger

	exchanger *qauth.Exchanger
	closers   []func() error
}

// NewServices connects every backing store and assembles the pipeline.
func NewServices(ctx context.Context, cfg *config.EnvConfig, logger *qlog.Logger) (*Services, error) {
	if logger == nil {
		logger = qlog.NewDefault()
	}
	s := &Services{
		APIKey: apikey.NewGuard(cfg.APIKey, logger),
		Redirects: Redirects{
			SuccessURL: cfg.SuccessURL,
			ErrorURL:   cfg.ErrorURL,
			Secure:     !isDevConfig(cfg),
		},
		Logger: logger,
	}

	valkey, err := kv.NewValkeyStore(ctx, kv.ValkeyConfig{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	s.closers = append(s.closers, valkey.Close)

	store, err := NewCredentialStore(ctx, cfg, valkey)
	if err != nil {
		_ = s.Close()
		return nil, err
	}

	database, err := db.New(ctx, cfg.DB())
	if err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	s.closers = append(s.closers, database.Close)

	oauthCfg, err := ResolveOAuthConfig(ctx, cfg, store)
	if err != nil {
		_ = s.Close()
		return nil, err
	}

	var archive pipeline.Archiver
	if cfg.S3Endpoint != "" {
		a, err := NewArchive(ctx, cfg)
		if err != nil {
			_ = s.Close()
			return nil, err
		}
		archive = a
	}

	sched, exch := Assemble(cfg, logger, store, valkey, database, oauthCfg, archive)
	s.Sync = sched
	s.Auth = exch
	s.exchanger = exch
	return s, nil
}

// Assemble wires the pipeline components over already connected stores.
func Assemble(
	cfg *config.EnvConfig,
	logger *qlog.Logger,
	store credentials.Store,
	locks kv.Store,
	database bun.IDB,
	oauthCfg *oauth2.Config,
	archive pipeline.Archiver,
) (*pipeline.Scheduler, *qauth.Exchanger) {
	// Token and data calls share one client and its timeout.
	hc := &http.Client{Timeout: cfg.HTTPTimeout}

	client := whoop.NewClient(cfg.WhoopAPIURL,
		whoop.WithHTTPClient(hc),
		whoop.WithTimeout(cfg.HTTPTimeout),
		whoop.WithMaxPages(cfg.MaxPagesPerFetch),
	)

	sched := pipeline.NewScheduler(pipeline.SchedulerConfig{
		Provider:       whoop.Provider,
		Store:          store,
		Tokens:         qauth.NewRefresher(oauthCfg, store, qauth.WithRefreshHTTPClient(hc), qauth.WithRefreshLogger(logger)),
		Fetcher:        pipeline.NewFetcher(client, logger),
		Writer:         pipeline.NewWriter(db.NewCycleRepository(database), logger),
		Archive:        archive,
		Locks:          locks,
		Logger:         logger,
		Window:         cfg.SyncWindow(),
		InterUserDelay: cfg.InterUserDelay,
	})

	exch := qauth.NewExchanger(qauth.ExchangerConfig{
		OAuth:        oauthCfg,
		States:       qauth.NewStateSigner([]byte(cfg.StateSecret)),
		Store:        store,
		Profiles:     client,
		Backfill:     sched,
		HTTPClient:   hc,
		Logger:       logger,
		BackfillDays: cfg.BackfillDays,
	})
	return sched, exch
}

// NewCredentialStore picks the token backend named by CREDENTIAL_BACKEND.
func NewCredentialStore(ctx context.Context, cfg *config.EnvConfig, store kv.Store) (credentials.Store, error) {
	switch cfg.CredentialBackend {
	case config.CredentialBackendSecretsManager:
		sm, err := credentials.NewSecretsManagerStore(ctx, cfg.AWSSecretPrefix)
		if err != nil {
			return nil, fmt.Errorf("failed to create secrets manager store: %w", err)
		}
		return sm, nil
	default:
		return credentials.NewKVStore(store, credentialPageSize), nil
	}
}

// ResolveOAuthConfig prefers client credentials from the environment and
// falls back to the integration secret in the credential store.
func ResolveOAuthConfig(ctx context.Context, cfg *config.EnvConfig, store credentials.Store) (*oauth2.Config, error) {
	id, secret := cfg.WhoopClientID, cfg.WhoopClientSecret
	if id == "" {
		cc, err := store.GetClientCredentials(ctx, whoop.Provider)
		if err != nil {
			return nil, fmt.Errorf("no WHOOP client credentials in environment or store: %w", err)
		}
		id, secret = cc.ClientID, cc.ClientSecret
	}
	return whoop.OAuthConfig(id, secret, cfg.RedirectURL(), whoop.Endpoint), nil
}

func NewArchive(ctx context.Context, cfg *config.EnvConfig) (*qart.Archive, error) {
	s3, err := qart.NewS3Store(qart.S3Config{
		Endpoint:  cfg.S3Endpoint,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
		Bucket:    cfg.S3Bucket,
		Region:    cfg.S3Region,
		UseSSL:    cfg.S3UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create s3 store: %w", err)
	}
	if err := s3.EnsureBucket(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure bucket %s: %w", cfg.S3Bucket, err)
	}
	return qart.NewArchive(s3), nil
}

// Close waits for running backfills and releases connections.
func (s *Services) Close() error {
	if s == nil {
		return nil
	}
	if s.exchanger != nil {
		s.exchanger.Wait()
	}
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		errs = append(errs, s.closers[i]())
	}
	s.closers = nil
	return errors.Join(errs...)
}

func EmptyServices() *Services {
	return &Services{
		Auth:   nil,
		Sync:   nil,
		APIKey: apikey.NewGuard("", nil),
	}
}

func isDevConfig(cfg *config.EnvConfig) bool {
	switch cfg.Environment {
	case "development", "dev", "local", "":
		return true
	}
	return false
}
