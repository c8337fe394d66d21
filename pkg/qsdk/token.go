package qsdk

import (
	"errors"
	"strings"

	"github.com/zalando/go-keyring"
)

const keyringService = "vitalsync"

var ErrNoAPIKey = errors.New("no API key stored for this server")

// normalizeKey maps a base URL to its keyring entry name so that
// https://example.com/ and https://example.com share one key.
func normalizeKey(baseURL string) string {
	s := strings.TrimSpace(baseURL)
	s = strings.TrimRight(s, "/")
	return strings.ToLower(s)
}

func SaveAPIKey(baseURL, apiKey string) error {
	return keyring.Set(keyringService, normalizeKey(baseURL), apiKey)
}

// LoadAPIKey returns ErrNoAPIKey when nothing is stored for baseURL.
func LoadAPIKey(baseURL string) (string, error) {
	key, err := keyring.Get(keyringService, normalizeKey(baseURL))
	if errors.Is(err, keyring.ErrNotFound) {
		return "", ErrNoAPIKey
	}
	return key, err
}

func DeleteAPIKey(baseURL string) error {
	err := keyring.Delete(keyringService, normalizeKey(baseURL))
	if errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return err
}
