package credentials

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"iter"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager/types"
	"github.com/aws/smithy-go"
	"github.com/quatton/vitalsync/pkg/qerr"
)

const resourceNotFoundException = "ResourceNotFoundException"

// ManagerAPI is the subset of the Secrets Manager client used here.
type ManagerAPI interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
	PutSecretValue(ctx context.Context, params *secretsmanager.PutSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.PutSecretValueOutput, error)
	CreateSecret(ctx context.Context, params *secretsmanager.CreateSecretInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.CreateSecretOutput, error)
	DeleteSecret(ctx context.Context, params *secretsmanager.DeleteSecretInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.DeleteSecretOutput, error)
	ListSecrets(ctx context.Context, params *secretsmanager.ListSecretsInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.ListSecretsOutput, error)
}

// SecretsManagerStore keeps each user's TokenRecord as one secret named
// "{prefix}tokens/{userId}".
type SecretsManagerStore struct {
	api      ManagerAPI
	prefix   string
	pageSize int32
}

// NewSecretsManagerStore loads the default AWS configuration and returns a
// store whose secret names start with prefix (e.g. "vitalsync/").
func NewSecretsManagerStore(ctx context.Context, prefix string) (*SecretsManagerStore, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return NewSecretsManagerStoreWithAPI(secretsmanager.NewFromConfig(cfg), prefix), nil
}

// NewSecretsManagerStoreWithAPI builds a store over an existing client.
func NewSecretsManagerStoreWithAPI(api ManagerAPI, prefix string) *SecretsManagerStore {
	return &SecretsManagerStore{api: api, prefix: prefix, pageSize: 100}
}

func (s *SecretsManagerStore) name(key string) string {
	return s.prefix + key
}

func (s *SecretsManagerStore) Get(ctx context.Context, userID string) (*TokenRecord, error) {
	var rec TokenRecord
	if err := s.getJSON(ctx, s.name(TokenKey(userID)), &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *SecretsManagerStore) Put(ctx context.Context, userID string, rec *TokenRecord) error {
	if rec == nil {
		return errors.New("credentials: nil token record")
	}
	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode token record: %w", err)
	}
	name := s.name(TokenKey(userID))

	_, err = s.api.PutSecretValue(ctx, &secretsmanager.PutSecretValueInput{
		SecretId:     aws.String(name),
		SecretString: aws.String(string(raw)),
	})
	if isNotFound(err) {
		_, err = s.api.CreateSecret(ctx, &secretsmanager.CreateSecretInput{
			Name:         aws.String(name),
			SecretString: aws.String(string(raw)),
		})
	}
	if err != nil {
		return qerr.New(qerr.CodeStoreUnavailable, fmt.Errorf("put %s: %w", name, err))
	}
	return nil
}

func (s *SecretsManagerStore) Delete(ctx context.Context, userID string) error {
	name := s.name(TokenKey(userID))
	_, err := s.api.DeleteSecret(ctx, &secretsmanager.DeleteSecretInput{
		SecretId:                   aws.String(name),
		ForceDeleteWithoutRecovery: aws.Bool(true),
	})
	if err != nil && !isNotFound(err) {
		return qerr.New(qerr.CodeStoreUnavailable, fmt.Errorf("delete %s: %w", name, err))
	}
	return nil
}

func (s *SecretsManagerStore) ListUserIDs(ctx context.Context) iter.Seq2[string, error] {
	namePrefix := s.name(TokenNamespace)
	return func(yield func(string, error) bool) {
		var next *string
		for {
			out, err := s.api.ListSecrets(ctx, &secretsmanager.ListSecretsInput{
				Filters: []types.Filter{{
					Key:    types.FilterNameStringTypeName,
					Values: []string{namePrefix},
				}},
				MaxResults: aws.Int32(s.pageSize),
				NextToken:  next,
			})
			if err != nil {
				yield("", qerr.New(qerr.CodeStoreUnavailable, fmt.Errorf("list secrets: %w", err)))
				return
			}
			for _, entry := range out.SecretList {
				name := aws.ToString(entry.Name)
				// The name filter is a prefix match on words, so re-check.
				if !strings.HasPrefix(name, namePrefix) {
					continue
				}
				if !yield(strings.TrimPrefix(name, namePrefix), nil) {
					return
				}
			}
			if aws.ToString(out.NextToken) == "" {
				return
			}
			next = out.NextToken
		}
	}
}

func (s *SecretsManagerStore) GetClientCredentials(ctx context.Context, provider string) (*ClientCredentials, error) {
	var creds ClientCredentials
	if err := s.getJSON(ctx, s.name(IntegrationKey(provider)), &creds); err != nil {
		return nil, err
	}
	return &creds, nil
}

func (s *SecretsManagerStore) getJSON(ctx context.Context, name string, v any) error {
	out, err := s.api.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(name),
	})
	if isNotFound(err) {
		return qerr.Newf(qerr.CodeNotFound, "%s not found", name)
	}
	if err != nil {
		return qerr.New(qerr.CodeStoreUnavailable, fmt.Errorf("get %s: %w", name, err))
	}
	if err := json.Unmarshal([]byte(aws.ToString(out.SecretString)), v); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	return nil
}

func isNotFound(err error) bool {
	var apiErr smithy.APIError
	return errors.As(err, &apiErr) && apiErr.ErrorCode() == resourceNotFoundException
}

var _ Store = (*SecretsManagerStore)(nil)
