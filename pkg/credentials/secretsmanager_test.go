package credentials

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager/types"
	"github.com/aws/smithy-go"
	"github.com/quatton/vitalsync/pkg/qerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeManager is an in-memory ManagerAPI that pages ListSecrets two at a time.
type fakeManager struct {
	mu      sync.Mutex
	secrets map[string]string
	failAll error
	lists   int
}

func newFakeManager() *fakeManager {
	return &fakeManager{secrets: make(map[string]string)}
}

func notFound() error {
	return &smithy.GenericAPIError{Code: resourceNotFoundException, Message: "not found"}
}

func (f *fakeManager) GetSecretValue(_ context.Context, in *secretsmanager.GetSecretValueInput, _ ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll != nil {
		return nil, f.failAll
	}
	v, ok := f.secrets[aws.ToString(in.SecretId)]
	if !ok {
		return nil, notFound()
	}
	return &secretsmanager.GetSecretValueOutput{SecretString: aws.String(v)}, nil
}

func (f *fakeManager) PutSecretValue(_ context.Context, in *secretsmanager.PutSecretValueInput, _ ...func(*secretsmanager.Options)) (*secretsmanager.PutSecretValueOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.secrets[aws.ToString(in.SecretId)]; !ok {
		return nil, notFound()
	}
	f.secrets[aws.ToString(in.SecretId)] = aws.ToString(in.SecretString)
	return &secretsmanager.PutSecretValueOutput{}, nil
}

func (f *fakeManager) CreateSecret(_ context.Context, in *secretsmanager.CreateSecretInput, _ ...func(*secretsmanager.Options)) (*secretsmanager.CreateSecretOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.secrets[aws.ToString(in.Name)] = aws.ToString(in.SecretString)
	return &secretsmanager.CreateSecretOutput{}, nil
}

func (f *fakeManager) DeleteSecret(_ context.Context, in *secretsmanager.DeleteSecretInput, _ ...func(*secretsmanager.Options)) (*secretsmanager.DeleteSecretOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.secrets[aws.ToString(in.SecretId)]; !ok {
		return nil, notFound()
	}
	delete(f.secrets, aws.ToString(in.SecretId))
	return &secretsmanager.DeleteSecretOutput{}, nil
}

func (f *fakeManager) ListSecrets(_ context.Context, in *secretsmanager.ListSecretsInput, _ ...func(*secretsmanager.Options)) (*secretsmanager.ListSecretsOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lists++
	if f.failAll != nil {
		return nil, f.failAll
	}

	var names []string
	for name := range f.secrets {
		if strings.HasPrefix(name, in.Filters[0].Values[0]) {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	start := 0
	if in.NextToken != nil {
		for i, n := range names {
			if n == aws.ToString(in.NextToken) {
				start = i
			}
		}
	}
	end := start + 2
	out := &secretsmanager.ListSecretsOutput{}
	if end < len(names) {
		out.NextToken = aws.String(names[end])
	} else {
		end = len(names)
	}
	for _, n := range names[start:end] {
		out.SecretList = append(out.SecretList, types.SecretListEntry{Name: aws.String(n)})
	}
	return out, nil
}

func TestSecretsManagerStoreCreateThenUpdate(t *testing.T) {
	ctx := context.Background()
	api := newFakeManager()
	store := NewSecretsManagerStoreWithAPI(api, "vitalsync/")

	_, err := store.Get(ctx, "u1")
	assert.True(t, qerr.IsCode(err, qerr.CodeNotFound))

	require.NoError(t, store.Put(ctx, "u1", &TokenRecord{UserID: "u1", AccessToken: "a"}))
	assert.Contains(t, api.secrets, "vitalsync/tokens/u1")

	require.NoError(t, store.Put(ctx, "u1", &TokenRecord{UserID: "u1", AccessToken: "b"}))
	got, err := store.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "b", got.AccessToken)

	require.NoError(t, store.Delete(ctx, "u1"))
	require.NoError(t, store.Delete(ctx, "u1"))
}

func TestSecretsManagerStoreListPaginates(t *testing.T) {
	ctx := context.Background()
	api := newFakeManager()
	store := NewSecretsManagerStoreWithAPI(api, "vitalsync/")

	for _, id := range []string{"a", "b", "c", "d", "e"} {
		require.NoError(t, store.Put(ctx, id, &TokenRecord{UserID: id}))
	}
	api.secrets["vitalsync/integrations/whoop"] = `{}`

	ids, err := CollectUserIDs(store.ListUserIDs(ctx))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, ids)
	assert.Equal(t, 3, api.lists)
}

func TestSecretsManagerStoreUnavailable(t *testing.T) {
	ctx := context.Background()
	api := newFakeManager()
	api.failAll = errors.New("dial tcp: timeout")
	store := NewSecretsManagerStoreWithAPI(api, "")

	_, err := store.Get(ctx, "u1")
	assert.True(t, qerr.IsCode(err, qerr.CodeStoreUnavailable))

	_, err = CollectUserIDs(store.ListUserIDs(ctx))
	assert.True(t, qerr.IsCode(err, qerr.CodeStoreUnavailable))
}
