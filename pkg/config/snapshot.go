package config

import (
	"context"
	"sort"
	"time"

	"github.com/revaer/revaer/pkg/types"
)

// defaultListenInterfaces and defaultDHTBootstrap are the built-ins an
// empty EngineProfile.Network list defaults to during normalization.
var (
	defaultListenInterfaces = []string{"0.0.0.0", "[::]"}
	defaultDHTBootstrap     = []string{"router.bittorrent.com:6881", "dht.transmissionbt.com:6881"}
	defaultTrackerUserAgent = "revaer/1.0"
)

// weekdayOrder gives Monday..Sunday its canonical ordinal for sorting
// an AltSpeedSchedule's weekday set, per spec §4.4's "ordering weekday
// sets canonically (Mon…Sun)".
func weekdayOrder(d time.Weekday) int {
	return (int(d) + 6) % 7
}

// Snapshot reads the three configuration singletons and derives the
// normalized EngineEffective view.
func (f *Facade) Snapshot(ctx context.Context) (*types.ConfigSnapshot, error) {
	q := f.store.Q()

	app, err := q.GetAppProfile(ctx)
	if err != nil {
		return nil, err
	}
	engine, err := q.GetEngineProfile(ctx)
	if err != nil {
		return nil, err
	}
	fs, err := q.GetFsPolicy(ctx)
	if err != nil {
		return nil, err
	}
	revision, err := q.MaxRevision(ctx)
	if err != nil {
		return nil, err
	}

	effective := normalizeEngine(*engine)

	return &types.ConfigSnapshot{
		Revision:        revision,
		App:             *app,
		Engine:          *engine,
		EngineEffective: effective,
		Fs:              *fs,
	}, nil
}

// normalizeEngine derives the effective engine profile per spec §4.4:
// defaulting empty lists to built-ins, clamping priorities/connection
// factors to >= 1, canonically ordering schedule weekdays (dropping the
// schedule when empty), coalescing tracker.proxy/auth to nil when
// incomplete, and deriving the outgoing port pair only when both bounds
// are set.
func normalizeEngine(p types.EngineProfile) types.EngineProfile {
	out := p

	if len(out.Network.ListenInterfaces) == 0 {
		out.Network.ListenInterfaces = append([]string(nil), defaultListenInterfaces...)
	}
	if out.Network.DHTEnabled && len(out.Network.DHTBootstrapNodes) == 0 {
		out.Network.DHTBootstrapNodes = append([]string(nil), defaultDHTBootstrap...)
	}
	if out.Network.OutgoingPortMin == nil || out.Network.OutgoingPortMax == nil {
		out.Network.OutgoingPortMin = nil
		out.Network.OutgoingPortMax = nil
	}

	if out.Tracker.UserAgent == "" {
		out.Tracker.UserAgent = defaultTrackerUserAgent
	}
	if out.Tracker.Proxy != nil && (out.Tracker.Proxy.Host == "" || out.Tracker.Proxy.Port == 0) {
		out.Tracker.Proxy = nil
	}
	if out.Tracker.Auth != nil && out.Tracker.Auth.CredentialRef == "" {
		out.Tracker.Auth = nil
	}

	if out.AltSpeed.Schedule != nil {
		if len(out.AltSpeed.Schedule.Weekdays) == 0 {
			out.AltSpeed.Schedule = nil
		} else {
			sched := *out.AltSpeed.Schedule
			days := append([]time.Weekday(nil), sched.Weekdays...)
			sort.Slice(days, func(i, j int) bool { return weekdayOrder(days[i]) < weekdayOrder(days[j]) })
			sched.Weekdays = days
			out.AltSpeed.Schedule = &sched
		}
	}

	classes := make([]types.PeerClass, len(out.PeerClasses.Classes))
	for i, c := range out.PeerClasses.Classes {
		if c.DownloadPriority < 1 {
			c.DownloadPriority = 1
		}
		if c.UploadPriority < 1 {
			c.UploadPriority = 1
		}
		if c.ConnectionLimitFactor < 1 {
			c.ConnectionLimitFactor = 1
		}
		classes[i] = c
	}
	out.PeerClasses.Classes = classes

	return out
}
