package api

import (
	"time"

	"github.com/vytor/matchlog/internal/services"
	"github.com/vytor/matchlog/internal/worker"
)

// Pinger reports whether a backing store answers.
type Pinger interface {
	Ping() error
}

type Server struct {
	DeckService     services.DeckService
	TagService      services.TagService
	StatsService    services.StatsService
	SettingsService services.SettingsService

	// DB and PersistPool are optional and only feed the readiness probe.
	DB          Pinger
	PersistPool *worker.Pool

	CORSOrigins    []string
	RequestTimeout time.Duration
}
