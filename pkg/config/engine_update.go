package config

import (
	"github.com/revaer/revaer/pkg/revaerr"
	"github.com/revaer/revaer/pkg/types"
	"github.com/revaer/revaer/pkg/validate"
)

// applyEngineProfileUpdate folds an EngineProfileUpdate's eight
// sub-sections onto base, validating as it goes. Normalization (the
// defaulting/clamping/coalescing pass) happens separately in
// normalizeEngine, applied by the caller after this returns.
func applyEngineProfileUpdate(base types.EngineProfile, u *types.EngineProfileUpdate) (types.EngineProfile, error) {
	if u.Network != nil {
		n := base.Network
		nu := u.Network
		if nu.ListenPort != nil {
			port, err := validate.Port("engine_profile.network", "listen_port", *nu.ListenPort)
			if err != nil {
				return base, revaerr.FromValidateError(err.(*validate.Error))
			}
			n.ListenPort = port
		}
		if nu.ListenInterfaces != nil {
			n.ListenInterfaces = *nu.ListenInterfaces
		}
		if nu.IPv6Mode != nil {
			n.IPv6Mode = *nu.IPv6Mode
		}
		if nu.DHTEnabled != nil {
			n.DHTEnabled = *nu.DHTEnabled
		}
		if nu.DHTBootstrapNodes != nil {
			n.DHTBootstrapNodes = *nu.DHTBootstrapNodes
		}
		if nu.DHTRouter != nil {
			n.DHTRouter = *nu.DHTRouter
		}
		if nu.Encryption != nil {
			n.Encryption = *nu.Encryption
		}
		if nu.LSDEnabled != nil {
			n.LSDEnabled = *nu.LSDEnabled
		}
		if nu.UPnPEnabled != nil {
			n.UPnPEnabled = *nu.UPnPEnabled
		}
		if nu.NATPMPEnabled != nil {
			n.NATPMPEnabled = *nu.NATPMPEnabled
		}
		if nu.PEXEnabled != nil {
			n.PEXEnabled = *nu.PEXEnabled
		}
		if nu.AnonymousMode != nil {
			n.AnonymousMode = *nu.AnonymousMode
		}
		if nu.OutgoingPortMin != nil {
			n.OutgoingPortMin = nu.OutgoingPortMin
		}
		if nu.OutgoingPortMax != nil {
			n.OutgoingPortMax = nu.OutgoingPortMax
		}
		if nu.DSCP != nil {
			n.DSCP = *nu.DSCP
		}
		if err := validate.PortRange("engine_profile.network", n.OutgoingPortMin, n.OutgoingPortMax); err != nil {
			return base, revaerr.FromValidateError(err.(*validate.Error))
		}
		base.Network = n
	}

	if u.Limits != nil {
		l := base.Limits
		lu := u.Limits
		if lu.MaxActive != nil {
			l.MaxActive = *lu.MaxActive
		}
		if lu.DownloadRateLimit != nil {
			l.DownloadRateLimit = *lu.DownloadRateLimit
		}
		if lu.UploadRateLimit != nil {
			l.UploadRateLimit = *lu.UploadRateLimit
		}
		if lu.SeedRatioLimit != nil {
			l.SeedRatioLimit = *lu.SeedRatioLimit
		}
		if lu.SeedTimeLimit != nil {
			l.SeedTimeLimit = *lu.SeedTimeLimit
		}
		if lu.MaxConnections != nil {
			l.MaxConnections = *lu.MaxConnections
		}
		if lu.UnchokeSlots != nil {
			l.UnchokeSlots = *lu.UnchokeSlots
		}
		if lu.HalfOpenLimit != nil {
			l.HalfOpenLimit = *lu.HalfOpenLimit
		}
		if lu.StatsInterval != nil {
			l.StatsInterval = *lu.StatsInterval
		}
		base.Limits = l
	}

	if u.Behavior != nil {
		b := base.Behavior
		bu := u.Behavior
		if bu.SequentialDefault != nil {
			b.SequentialDefault = *bu.SequentialDefault
		}
		if bu.AutoManaged != nil {
			b.AutoManaged = *bu.AutoManaged
		}
		if bu.SuperSeeding != nil {
			b.SuperSeeding = *bu.SuperSeeding
		}
		if bu.Choking != nil {
			b.Choking = *bu.Choking
		}
		base.Behavior = b
	}

	if u.Storage != nil {
		s := base.Storage
		su := u.Storage
		if su.ResumeDir != nil {
			s.ResumeDir = *su.ResumeDir
		}
		if su.DownloadRoot != nil {
			s.DownloadRoot = *su.DownloadRoot
		}
		if su.Mode != nil {
			s.Mode = *su.Mode
		}
		if su.UsePartfile != nil {
			s.UsePartfile = *su.UsePartfile
		}
		if su.DiskIO != nil {
			s.DiskIO = *su.DiskIO
		}
		if su.VerifyOnAdd != nil {
			s.VerifyOnAdd = *su.VerifyOnAdd
		}
		if su.CacheSize != nil {
			s.CacheSize = *su.CacheSize
		}
		if su.CacheExpiry != nil {
			s.CacheExpiry = *su.CacheExpiry
		}
		if su.CoalesceReads != nil {
			s.CoalesceReads = *su.CoalesceReads
		}
		if su.PoolSize != nil {
			s.PoolSize = *su.PoolSize
		}
		base.Storage = s
	}

	if u.Tracker != nil {
		t := base.Tracker
		tu := u.Tracker
		if tu.DefaultURLs != nil {
			t.DefaultURLs = *tu.DefaultURLs
		}
		if tu.ExtraURLs != nil {
			t.ExtraURLs = *tu.ExtraURLs
		}
		if tu.ReplaceExisting != nil {
			t.ReplaceExisting = *tu.ReplaceExisting
		}
		if tu.UserAgent != nil {
			t.UserAgent = *tu.UserAgent
		}
		if tu.AnnounceIP != nil {
			t.AnnounceIP = *tu.AnnounceIP
		}
		if tu.Interface != nil {
			t.Interface = *tu.Interface
		}
		if tu.Timeout != nil {
			t.Timeout = *tu.Timeout
		}
		if tu.AnnounceToAll != nil {
			t.AnnounceToAll = *tu.AnnounceToAll
		}
		if tu.TLSCertPath != nil {
			t.TLSCertPath = *tu.TLSCertPath
		}
		if tu.TLSKeyPath != nil {
			t.TLSKeyPath = *tu.TLSKeyPath
		}
		if tu.Proxy != nil {
			proxy := *tu.Proxy
			if proxy.Host == "" {
				return base, &revaerr.InvalidFieldError{Section: "engine_profile.tracker", Field: "proxy.host", Reason: "proxy host must not be empty when proxy is set"}
			}
			if _, err := validate.Port("engine_profile.tracker", "proxy.port", proxy.Port); err != nil {
				return base, revaerr.FromValidateError(err.(*validate.Error))
			}
			t.Proxy = &proxy
		}
		if tu.Auth != nil {
			auth := *tu.Auth
			if auth.CredentialRef == "" {
				return base, &revaerr.InvalidFieldError{Section: "engine_profile.tracker", Field: "auth.credential_ref", Reason: "auth requires at least one non-empty credential"}
			}
			t.Auth = &auth
		}
		base.Tracker = t
	}

	if u.AltSpeed != nil {
		a := base.AltSpeed
		au := u.AltSpeed
		if au.DownloadRateLimit != nil {
			a.DownloadRateLimit = *au.DownloadRateLimit
		}
		if au.UploadRateLimit != nil {
			a.UploadRateLimit = *au.UploadRateLimit
		}
		if au.Schedule != nil {
			sched := *au.Schedule
			if len(sched.Weekdays) == 0 {
				return base, &revaerr.InvalidFieldError{Section: "engine_profile.alt_speed", Field: "schedule.weekdays", Reason: "schedule requires a non-empty weekday set"}
			}
			if sched.StartMinutes < 0 || sched.StartMinutes > 1440 || sched.EndMinutes < 0 || sched.EndMinutes > 1440 {
				return base, &revaerr.InvalidFieldError{Section: "engine_profile.alt_speed", Field: "schedule.minutes", Reason: "schedule minutes must be within 0..=1440"}
			}
			a.Schedule = &sched
		}
		base.AltSpeed = a
	}

	if u.IPFilter != nil {
		i := base.IPFilter
		iu := u.IPFilter
		if iu.CIDRs != nil {
			i.CIDRs = *iu.CIDRs
		}
		if iu.BlocklistURL != nil {
			i.BlocklistURL = *iu.BlocklistURL
		}
		base.IPFilter = i
	}

	if u.PeerClasses != nil {
		p := base.PeerClasses
		pu := u.PeerClasses
		if pu.Classes != nil {
			seen := make(map[int]bool, len(*pu.Classes))
			for _, c := range *pu.Classes {
				if c.ID < 0 || c.ID > 31 {
					return base, &revaerr.InvalidFieldError{Section: "engine_profile.peer_classes", Field: "classes.id", Reason: "peer class id must be within 0..=31"}
				}
				if seen[c.ID] {
					return base, &revaerr.InvalidFieldError{Section: "engine_profile.peer_classes", Field: "classes.id", Reason: "peer class ids must be unique"}
				}
				seen[c.ID] = true
			}
			p.Classes = *pu.Classes
		}
		if pu.DefaultIDs != nil {
			p.DefaultIDs = *pu.DefaultIDs
		}
		base.PeerClasses = p
	}

	return base, nil
}
