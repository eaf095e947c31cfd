package types

import "time"

// IPv6Mode controls whether the engine listens on IPv6.
type IPv6Mode string

const (
	IPv6ModeDisabled IPv6Mode = "disabled"
	IPv6ModeEnabled  IPv6Mode = "enabled"
	IPv6ModeOnly     IPv6Mode = "only"
)

// EncryptionPolicy controls peer-wire encryption negotiation.
type EncryptionPolicy string

const (
	EncryptionDisabled EncryptionPolicy = "disabled"
	EncryptionEnabled  EncryptionPolicy = "enabled"
	EncryptionForced   EncryptionPolicy = "forced"
)

// NetworkProfile holds listening, discovery, and privacy settings.
type NetworkProfile struct {
	ListenPort        int
	ListenInterfaces  []string
	IPv6Mode          IPv6Mode
	DHTEnabled        bool
	DHTBootstrapNodes []string
	DHTRouter         string
	Encryption        EncryptionPolicy
	LSDEnabled        bool
	UPnPEnabled       bool
	NATPMPEnabled     bool
	PEXEnabled        bool
	AnonymousMode     bool
	OutgoingPortMin   *int
	OutgoingPortMax   *int
	DSCP              int
}

// LimitsProfile holds active-torrent, rate, and connection caps.
type LimitsProfile struct {
	MaxActive         int
	DownloadRateLimit int64
	UploadRateLimit   int64
	SeedRatioLimit    float64
	SeedTimeLimit     time.Duration
	MaxConnections    int
	UnchokeSlots      int
	HalfOpenLimit     int
	StatsInterval     time.Duration
}

// ChokingAlgorithm selects the peer-choking strategy.
type ChokingAlgorithm string

const (
	ChokingFixedSlots ChokingAlgorithm = "fixed_slots"
	ChokingRateBased  ChokingAlgorithm = "rate_based"
)

// BehaviorProfile holds default per-torrent behavior toggles.
type BehaviorProfile struct {
	SequentialDefault bool
	AutoManaged       bool
	SuperSeeding      bool
	Choking           ChokingAlgorithm
}

// StorageMode selects how piece data is laid out on disk.
type StorageMode string

const (
	StorageModeSparse   StorageMode = "sparse"
	StorageModeAllocate StorageMode = "allocate"
	StorageModeCompact  StorageMode = "compact"
)

// DiskIOMode selects the read/write strategy used by the disk subsystem.
type DiskIOMode string

const (
	DiskIOModeAuto    DiskIOMode = "auto"
	DiskIOModeMMap    DiskIOMode = "mmap"
	DiskIOModePread   DiskIOMode = "pread"
)

// StorageProfile holds on-disk layout and caching settings.
type StorageProfile struct {
	ResumeDir     string
	DownloadRoot  string
	Mode          StorageMode
	UsePartfile   bool
	DiskIO        DiskIOMode
	VerifyOnAdd   bool
	CacheSize     int64
	CacheExpiry   time.Duration
	CoalesceReads bool
	PoolSize      int
}

// ProxyKind selects the tracker/peer proxy protocol.
type ProxyKind string

const (
	ProxyKindHTTP   ProxyKind = "http"
	ProxyKindHTTPS  ProxyKind = "https"
	ProxyKindSocks5 ProxyKind = "socks5"
)

// TrackerProxy configures an optional upstream proxy for tracker and,
// optionally, peer traffic. Coalesced to nil when host/port are absent.
type TrackerProxy struct {
	Host          string
	Port          int
	Kind          ProxyKind
	CredentialRef string
	ProxyPeers    bool
}

// TrackerAuth configures optional tracker HTTP basic-auth credentials.
// Coalesced to nil when no credential is set.
type TrackerAuth struct {
	CredentialRef string
}

// TrackerProfile holds tracker announce and proxy/auth configuration.
type TrackerProfile struct {
	DefaultURLs     []string
	ExtraURLs       []string
	ReplaceExisting bool
	UserAgent       string
	AnnounceIP      string
	Interface       string
	Timeout         time.Duration
	AnnounceToAll   bool
	TLSCertPath     string
	TLSKeyPath      string
	Proxy           *TrackerProxy
	Auth            *TrackerAuth
}

// AltSpeedSchedule windows the alternate speed caps to specific weekdays
// and minute-of-day range. Dropped entirely (set to nil) when Weekdays is
// empty.
type AltSpeedSchedule struct {
	Weekdays     []time.Weekday
	StartMinutes int
	EndMinutes   int
}

// AltSpeedProfile holds the alternate (scheduled) rate caps.
type AltSpeedProfile struct {
	DownloadRateLimit int64
	UploadRateLimit   int64
	Schedule          *AltSpeedSchedule
}

// IPFilterProfile holds the blocklist used to reject peer connections.
type IPFilterProfile struct {
	CIDRs        []string
	BlocklistURL string
	ETag         string
	LastUpdated  time.Time
	LastError    string
}

// PeerClass defines a named priority class peers can be assigned to.
type PeerClass struct {
	ID                    int
	Label                 string
	DownloadPriority      int
	UploadPriority        int
	ConnectionLimitFactor int
	IgnoreUnchoke         bool
}

// PeerClassesProfile holds the peer-class table and its defaults.
type PeerClassesProfile struct {
	Classes    []PeerClass
	DefaultIDs []int
}

// EngineProfile is the singleton torrent-engine configuration row.
type EngineProfile struct {
	Network     NetworkProfile
	Limits      LimitsProfile
	Behavior    BehaviorProfile
	Storage     StorageProfile
	Tracker     TrackerProfile
	AltSpeed    AltSpeedProfile
	IPFilter    IPFilterProfile
	PeerClasses PeerClassesProfile
}
