package types

import "time"

// fieldTouch names one optional field of an Update struct and whether the
// caller actually set it. touchedPaths turns a list of these into the
// dotted field paths apply_changeset diffs against the immutable-key set.
type fieldTouch struct {
	name string
	set  bool
}

func touchedPaths(prefix string, touches ...fieldTouch) []string {
	var paths []string
	for _, t := range touches {
		if t.set {
			paths = append(paths, prefix+"."+t.name)
		}
	}
	return paths
}

// ConfigSnapshot is the read model returned by the configuration facade's
// snapshot and watch operations.
type ConfigSnapshot struct {
	Revision        int64
	App             AppProfile
	Engine          EngineProfile
	EngineEffective EngineProfile
	Fs              FsPolicy
}

// TelemetryUpdate is the partial update shape for AppProfile.Telemetry.
type TelemetryUpdate struct {
	Level           *string
	Format          *string
	OtelEnabled     *bool
	OtelServiceName *string
	OtelEndpoint    *string
}

func (u *TelemetryUpdate) touchedPaths(prefix string) []string {
	if u == nil {
		return nil
	}
	return touchedPaths(prefix,
		fieldTouch{"level", u.Level != nil},
		fieldTouch{"format", u.Format != nil},
		fieldTouch{"otel_enabled", u.OtelEnabled != nil},
		fieldTouch{"otel_service_name", u.OtelServiceName != nil},
		fieldTouch{"otel_endpoint", u.OtelEndpoint != nil},
	)
}

// AppProfileUpdate is the partial update sub-changeset for AppProfile.
type AppProfileUpdate struct {
	InstanceName  *string
	AuthMode      *AuthMode
	HTTPBindHost  *string
	HTTPPort      *int
	Telemetry     *TelemetryUpdate
	LabelPolicies *[]LabelPolicy
	ImmutableKeys *[]string
}

// TouchedPaths returns the dotted field paths this update touches, for
// immutable-key diffing.
func (u *AppProfileUpdate) TouchedPaths() []string {
	if u == nil {
		return nil
	}
	paths := touchedPaths("app_profile",
		fieldTouch{"instance_name", u.InstanceName != nil},
		fieldTouch{"auth_mode", u.AuthMode != nil},
		fieldTouch{"http_bind_host", u.HTTPBindHost != nil},
		fieldTouch{"http_port", u.HTTPPort != nil},
		fieldTouch{"label_policies", u.LabelPolicies != nil},
		fieldTouch{"immutable_keys", u.ImmutableKeys != nil},
	)
	paths = append(paths, u.Telemetry.touchedPaths("app_profile.telemetry")...)
	return paths
}

// NetworkUpdate is the partial update for EngineProfile.Network.
type NetworkUpdate struct {
	ListenPort        *int
	ListenInterfaces  *[]string
	IPv6Mode          *IPv6Mode
	DHTEnabled        *bool
	DHTBootstrapNodes *[]string
	DHTRouter         *string
	Encryption        *EncryptionPolicy
	LSDEnabled        *bool
	UPnPEnabled       *bool
	NATPMPEnabled     *bool
	PEXEnabled        *bool
	AnonymousMode     *bool
	OutgoingPortMin   *int
	OutgoingPortMax   *int
	DSCP              *int
}

func (u *NetworkUpdate) touchedPaths(prefix string) []string {
	if u == nil {
		return nil
	}
	return touchedPaths(prefix,
		fieldTouch{"listen_port", u.ListenPort != nil},
		fieldTouch{"listen_interfaces", u.ListenInterfaces != nil},
		fieldTouch{"ipv6_mode", u.IPv6Mode != nil},
		fieldTouch{"dht_enabled", u.DHTEnabled != nil},
		fieldTouch{"dht_bootstrap_nodes", u.DHTBootstrapNodes != nil},
		fieldTouch{"dht_router", u.DHTRouter != nil},
		fieldTouch{"encryption", u.Encryption != nil},
		fieldTouch{"lsd_enabled", u.LSDEnabled != nil},
		fieldTouch{"upnp_enabled", u.UPnPEnabled != nil},
		fieldTouch{"natpmp_enabled", u.NATPMPEnabled != nil},
		fieldTouch{"pex_enabled", u.PEXEnabled != nil},
		fieldTouch{"anonymous_mode", u.AnonymousMode != nil},
		fieldTouch{"outgoing_port_min", u.OutgoingPortMin != nil},
		fieldTouch{"outgoing_port_max", u.OutgoingPortMax != nil},
		fieldTouch{"dscp", u.DSCP != nil},
	)
}

// LimitsUpdate is the partial update for EngineProfile.Limits.
type LimitsUpdate struct {
	MaxActive         *int
	DownloadRateLimit *int64
	UploadRateLimit   *int64
	SeedRatioLimit    *float64
	SeedTimeLimit     *time.Duration
	MaxConnections    *int
	UnchokeSlots      *int
	HalfOpenLimit     *int
	StatsInterval     *time.Duration
}

func (u *LimitsUpdate) touchedPaths(prefix string) []string {
	if u == nil {
		return nil
	}
	return touchedPaths(prefix,
		fieldTouch{"max_active", u.MaxActive != nil},
		fieldTouch{"download_rate_limit", u.DownloadRateLimit != nil},
		fieldTouch{"upload_rate_limit", u.UploadRateLimit != nil},
		fieldTouch{"seed_ratio_limit", u.SeedRatioLimit != nil},
		fieldTouch{"seed_time_limit", u.SeedTimeLimit != nil},
		fieldTouch{"max_connections", u.MaxConnections != nil},
		fieldTouch{"unchoke_slots", u.UnchokeSlots != nil},
		fieldTouch{"half_open_limit", u.HalfOpenLimit != nil},
		fieldTouch{"stats_interval", u.StatsInterval != nil},
	)
}

// BehaviorUpdate is the partial update for EngineProfile.Behavior.
type BehaviorUpdate struct {
	SequentialDefault *bool
	AutoManaged       *bool
	SuperSeeding      *bool
	Choking           *ChokingAlgorithm
}

func (u *BehaviorUpdate) touchedPaths(prefix string) []string {
	if u == nil {
		return nil
	}
	return touchedPaths(prefix,
		fieldTouch{"sequential_default", u.SequentialDefault != nil},
		fieldTouch{"auto_managed", u.AutoManaged != nil},
		fieldTouch{"super_seeding", u.SuperSeeding != nil},
		fieldTouch{"choking", u.Choking != nil},
	)
}

// StorageUpdate is the partial update for EngineProfile.Storage.
type StorageUpdate struct {
	ResumeDir     *string
	DownloadRoot  *string
	Mode          *StorageMode
	UsePartfile   *bool
	DiskIO        *DiskIOMode
	VerifyOnAdd   *bool
	CacheSize     *int64
	CacheExpiry   *time.Duration
	CoalesceReads *bool
	PoolSize      *int
}

func (u *StorageUpdate) touchedPaths(prefix string) []string {
	if u == nil {
		return nil
	}
	return touchedPaths(prefix,
		fieldTouch{"resume_dir", u.ResumeDir != nil},
		fieldTouch{"download_root", u.DownloadRoot != nil},
		fieldTouch{"mode", u.Mode != nil},
		fieldTouch{"use_partfile", u.UsePartfile != nil},
		fieldTouch{"disk_io", u.DiskIO != nil},
		fieldTouch{"verify_on_add", u.VerifyOnAdd != nil},
		fieldTouch{"cache_size", u.CacheSize != nil},
		fieldTouch{"cache_expiry", u.CacheExpiry != nil},
		fieldTouch{"coalesce_reads", u.CoalesceReads != nil},
		fieldTouch{"pool_size", u.PoolSize != nil},
	)
}

// TrackerUpdate is the partial update for EngineProfile.Tracker.
type TrackerUpdate struct {
	DefaultURLs     *[]string
	ExtraURLs       *[]string
	ReplaceExisting *bool
	UserAgent       *string
	AnnounceIP      *string
	Interface       *string
	Timeout         *time.Duration
	AnnounceToAll   *bool
	TLSCertPath     *string
	TLSKeyPath      *string
	Proxy           *TrackerProxy
	Auth            *TrackerAuth
}

func (u *TrackerUpdate) touchedPaths(prefix string) []string {
	if u == nil {
		return nil
	}
	return touchedPaths(prefix,
		fieldTouch{"default_urls", u.DefaultURLs != nil},
		fieldTouch{"extra_urls", u.ExtraURLs != nil},
		fieldTouch{"replace_existing", u.ReplaceExisting != nil},
		fieldTouch{"user_agent", u.UserAgent != nil},
		fieldTouch{"announce_ip", u.AnnounceIP != nil},
		fieldTouch{"interface", u.Interface != nil},
		fieldTouch{"timeout", u.Timeout != nil},
		fieldTouch{"announce_to_all", u.AnnounceToAll != nil},
		fieldTouch{"tls_cert_path", u.TLSCertPath != nil},
		fieldTouch{"tls_key_path", u.TLSKeyPath != nil},
		fieldTouch{"proxy", u.Proxy != nil},
		fieldTouch{"auth", u.Auth != nil},
	)
}

// AltSpeedUpdate is the partial update for EngineProfile.AltSpeed.
type AltSpeedUpdate struct {
	DownloadRateLimit *int64
	UploadRateLimit   *int64
	Schedule          *AltSpeedSchedule
}

func (u *AltSpeedUpdate) touchedPaths(prefix string) []string {
	if u == nil {
		return nil
	}
	return touchedPaths(prefix,
		fieldTouch{"download_rate_limit", u.DownloadRateLimit != nil},
		fieldTouch{"upload_rate_limit", u.UploadRateLimit != nil},
		fieldTouch{"schedule", u.Schedule != nil},
	)
}

// IPFilterUpdate is the partial update for EngineProfile.IPFilter.
type IPFilterUpdate struct {
	CIDRs        *[]string
	BlocklistURL *string
}

func (u *IPFilterUpdate) touchedPaths(prefix string) []string {
	if u == nil {
		return nil
	}
	return touchedPaths(prefix,
		fieldTouch{"cidrs", u.CIDRs != nil},
		fieldTouch{"blocklist_url", u.BlocklistURL != nil},
	)
}

// PeerClassesUpdate is the partial update for EngineProfile.PeerClasses.
type PeerClassesUpdate struct {
	Classes    *[]PeerClass
	DefaultIDs *[]int
}

func (u *PeerClassesUpdate) touchedPaths(prefix string) []string {
	if u == nil {
		return nil
	}
	return touchedPaths(prefix,
		fieldTouch{"classes", u.Classes != nil},
		fieldTouch{"default_ids", u.DefaultIDs != nil},
	)
}

// EngineProfileUpdate is the partial update sub-changeset for
// EngineProfile, decomposed by its seven sections.
type EngineProfileUpdate struct {
	Network     *NetworkUpdate
	Limits      *LimitsUpdate
	Behavior    *BehaviorUpdate
	Storage     *StorageUpdate
	Tracker     *TrackerUpdate
	AltSpeed    *AltSpeedUpdate
	IPFilter    *IPFilterUpdate
	PeerClasses *PeerClassesUpdate
}

// TouchedPaths returns the dotted field paths this update touches.
func (u *EngineProfileUpdate) TouchedPaths() []string {
	if u == nil {
		return nil
	}
	var paths []string
	paths = append(paths, u.Network.touchedPaths("engine_profile.network")...)
	paths = append(paths, u.Limits.touchedPaths("engine_profile.limits")...)
	paths = append(paths, u.Behavior.touchedPaths("engine_profile.behavior")...)
	paths = append(paths, u.Storage.touchedPaths("engine_profile.storage")...)
	paths = append(paths, u.Tracker.touchedPaths("engine_profile.tracker")...)
	paths = append(paths, u.AltSpeed.touchedPaths("engine_profile.alt_speed")...)
	paths = append(paths, u.IPFilter.touchedPaths("engine_profile.ip_filter")...)
	paths = append(paths, u.PeerClasses.touchedPaths("engine_profile.peer_classes")...)
	return paths
}

// FsPolicyUpdate is the partial update sub-changeset for FsPolicy.
type FsPolicyUpdate struct {
	LibraryRoot *string
	Extract     *bool
	Par2        *Par2Mode
	Flatten     *bool
	MoveMode    *MoveMode
	CleanupKeep *[]string
	CleanupDrop *[]string
	ChmodFile   *string
	ChmodDir    *string
	Owner       *string
	Group       *string
	Umask       *string
	AllowPaths  *[]string
}

// TouchedPaths returns the dotted field paths this update touches.
func (u *FsPolicyUpdate) TouchedPaths() []string {
	if u == nil {
		return nil
	}
	return touchedPaths("fs_policy",
		fieldTouch{"library_root", u.LibraryRoot != nil},
		fieldTouch{"extract", u.Extract != nil},
		fieldTouch{"par2", u.Par2 != nil},
		fieldTouch{"flatten", u.Flatten != nil},
		fieldTouch{"move_mode", u.MoveMode != nil},
		fieldTouch{"cleanup_keep", u.CleanupKeep != nil},
		fieldTouch{"cleanup_drop", u.CleanupDrop != nil},
		fieldTouch{"chmod_file", u.ChmodFile != nil},
		fieldTouch{"chmod_dir", u.ChmodDir != nil},
		fieldTouch{"owner", u.Owner != nil},
		fieldTouch{"group", u.Group != nil},
		fieldTouch{"umask", u.Umask != nil},
		fieldTouch{"allow_paths", u.AllowPaths != nil},
	)
}

// ApiKeyPatch is one entry of a changeset's api_keys[] list. Against an
// unknown KeyID, a non-nil Secret inserts a new key (every other field
// applies to the new row). Against an existing KeyID, Secret, ExpiresAt,
// Label, Enabled, and RateLimit each apply independently when present —
// a non-nil Secret rotates the hashed secret, a non-nil ExpiresAt bumps
// expiry, and any combination of the two plus Label/Enabled/RateLimit
// may appear in the same patch. Delete removes the key outright. The
// dedicated "refresh" operation (extend ExpiresAt only, on behalf of
// the authenticated caller) is a distinct, narrower HTTP-level API
// (see pkg/config.Facade.RefreshApiKeyExpiry) that never goes through
// this patch shape.
type ApiKeyPatch struct {
	KeyID     string
	Secret    *string
	ExpiresAt *time.Time
	Label     *string
	Enabled   *bool
	RateLimit *RateLimit
	Delete    bool
}

// SecretPatch is one entry of a changeset's secrets[] list.
type SecretPatch struct {
	Name      string
	Plaintext []byte
	Delete    bool
}

// Changeset is the partial update accepted by apply_changeset: a union
// of optional sub-updates, each independently optional.
type Changeset struct {
	AppProfile    *AppProfileUpdate
	EngineProfile *EngineProfileUpdate
	FsPolicy      *FsPolicyUpdate
	ApiKeys       []ApiKeyPatch
	Secrets       []SecretPatch
}

// IsEmpty reports whether the changeset touches nothing at all.
func (c *Changeset) IsEmpty() bool {
	if c == nil {
		return true
	}
	return c.AppProfile == nil && c.EngineProfile == nil && c.FsPolicy == nil &&
		len(c.ApiKeys) == 0 && len(c.Secrets) == 0
}
