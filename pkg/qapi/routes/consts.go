package routes

import "github.com/quatton/vitalsync/pkg/qapi"

var (
	APIKeyAuth = []map[string][]string{
		{qapi.APIKeyScheme: {}},
	}
)

type Tag string

const (
	TagHealth Tag = "health"
	TagAuth   Tag = "auth"
	TagSync   Tag = "sync"
)

func (t Tag) String() string { return string(t) }

func AllTags() []string {
	return []string{
		TagHealth.String(),
		TagAuth.String(),
		TagSync.String(),
	}
}
