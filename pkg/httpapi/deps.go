package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/revaer/revaer/pkg/auth"
	"github.com/revaer/revaer/pkg/health"
	"github.com/revaer/revaer/pkg/torrentapi"
	"github.com/revaer/revaer/pkg/types"
)

// ConfigService is the subset of pkg/config.Facade's surface the HTTP
// surface calls into. It is a strict superset of auth.Facade and
// sse.ConfigSnapshotter, so a *config.Facade satisfies all three
// without adapter glue.
type ConfigService interface {
	Snapshot(ctx context.Context) (*types.ConfigSnapshot, error)
	ApplyChangeset(ctx context.Context, actor, reason string, cs *types.Changeset) (int64, error)
	IssueSetupToken(ctx context.Context, ttl time.Duration, issuedBy string) (string, time.Time, error)
	ConsumeSetupToken(ctx context.Context, token string) error
	ActivateMode(ctx context.Context) error
	CreateApiKey(ctx context.Context, label string, rateLimit *types.RateLimit) (*types.ApiKey, string, error)
	HasApiKeys(ctx context.Context) (bool, error)
	AuthenticateApiKey(ctx context.Context, keyID, secret string) (*types.ApiKey, error)
	RefreshApiKeyExpiry(ctx context.Context, keyID string) (time.Time, error)
	FactoryReset(ctx context.Context) error
}

// TorrentService is the subset of pkg/torrentapi.Service's surface the
// HTTP surface dispatches to.
type TorrentService interface {
	List(ctx context.Context, q torrentapi.TorrentListQuery) (torrentapi.TorrentListResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*torrentapi.TorrentDetail, error)
	Create(ctx context.Context, req torrentapi.TorrentCreateRequest) (uuid.UUID, error)
	Act(ctx context.Context, id uuid.UUID, action torrentapi.TorrentAction) error
	Select(ctx context.Context, id uuid.UUID, sel torrentapi.TorrentSelectionRequest) error
	UpdateOptions(ctx context.Context, id uuid.UUID, opts torrentapi.TorrentOptionsRequest) error
	UpdateTrackers(ctx context.Context, id uuid.UUID, trackers []string, replace bool) error
	DeleteTrackers(ctx context.Context, id uuid.UUID, trackers []string) error
	UpdateWebSeeds(ctx context.Context, id uuid.UUID, seeds torrentapi.WebSeedSet) error
	Author(ctx context.Context, req torrentapi.TorrentAuthorRequest) (*torrentapi.TorrentAuthorResponse, error)
}

// API bundles the dependencies every handler needs. Construct with New
// and mount with Router.
type API struct {
	config    ConfigService
	auth      auth.Facade
	torrents  TorrentService
	events    http.Handler
	health    *health.Aggregator
	dbChecker health.Checker
	limiters  *limiterRegistry
	idempo    *idempotencyCache
	now       func() time.Time
}

// Deps is the constructor argument bundle for New.
type Deps struct {
	Config    ConfigService
	Torrents  TorrentService
	Events    http.Handler
	Health    *health.Aggregator
	DBChecker health.Checker
}

// New builds an API over deps. Config doubles as the auth.Facade since
// ConfigService is a superset of that interface.
func New(deps Deps) *API {
	return &API{
		config:    deps.Config,
		auth:      deps.Config,
		torrents:  deps.Torrents,
		events:    deps.Events,
		health:    deps.Health,
		dbChecker: deps.DBChecker,
		limiters:  newLimiterRegistry(),
		idempo:    newIdempotencyCache(idempotencyCacheSize),
		now:       time.Now,
	}
}
