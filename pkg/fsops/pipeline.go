package fsops

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/revaer/revaer/pkg/events"
	"github.com/revaer/revaer/pkg/health"
	"github.com/revaer/revaer/pkg/metrics"
	"github.com/revaer/revaer/pkg/types"
)

// healthComponent is the name under which the filesystem pipeline flags
// itself degraded in the shared health.Aggregator.
const healthComponent = "fsops"

// Request is one invocation of the pipeline against a completed
// torrent's payload.
type Request struct {
	TorrentID  uuid.UUID
	SourcePath string
	Policy     *types.FsPolicy
}

// Pipeline runs the twelve-step filesystem post-processing machine
// described in spec §4.7, publishing lifecycle events and toggling the
// shared health aggregator as it goes.
type Pipeline struct {
	broker *events.Broker
	health *health.Aggregator
	now    func() time.Time
}

// NewPipeline constructs a Pipeline publishing to broker and flagging
// degradation on aggregator.
func NewPipeline(broker *events.Broker, aggregator *health.Aggregator) *Pipeline {
	return &Pipeline{broker: broker, health: aggregator, now: time.Now}
}

// Run executes every pipeline step for req, resuming from the sidecar
// meta already on disk (if any) and persisting progress as it goes.
func (p *Pipeline) Run(ctx context.Context, req Request) (*types.FsOpsMeta, error) {
	meta, err := loadMeta(req.Policy.LibraryRoot, req.TorrentID)
	if err != nil {
		return nil, err
	}
	meta.PolicyID = req.Policy.ID

	if meta.Completed {
		p.broker.Publish(events.Event{
			Kind:    events.KindFsopsProgress,
			Payload: events.FsopsProgressPayload{TorrentID: req.TorrentID, Step: "resume"},
		})
		return meta, nil
	}

	p.broker.Publish(events.Event{
		Kind:    events.KindFsopsStarted,
		Payload: events.FsopsStartedPayload{TorrentID: req.TorrentID},
	})

	run := &run{pipeline: p, req: req, meta: meta}
	if err := run.execute(ctx); err != nil {
		p.health.Mark(healthComponent)
		p.broker.Publish(events.Event{
			Kind:    events.KindFsopsFailed,
			Payload: events.FsopsFailedPayload{TorrentID: req.TorrentID, Message: err.Error()},
		})
		return meta, err
	}

	p.health.Clear(healthComponent)
	p.broker.Publish(events.Event{
		Kind:    events.KindFsopsCompleted,
		Payload: events.FsopsCompletedPayload{TorrentID: req.TorrentID, ArtifactPath: meta.ArtifactPath},
	})
	return meta, nil
}

// run holds the mutable working state threaded through one Run call's
// step sequence: the source of truth is always meta, persisted to disk
// after every step transition.
type run struct {
	pipeline *Pipeline
	req      Request
	meta     *types.FsOpsMeta

	rules       *RuleSet
	stagingPath string
	workDir     string
}

func (r *run) execute(ctx context.Context) error {
	steps := []struct {
		kind types.StepKind
		fn   func(ctx context.Context) (detail string, skip bool, err error)
	}{
		{types.StepValidatePolicy, r.stepValidatePolicy},
		{types.StepAllowlist, r.stepAllowlist},
		{types.StepPrepareDirectories, r.stepPrepareDirectories},
		{types.StepCompileRules, r.stepCompileRules},
		{types.StepLocateSource, r.stepLocateSource},
		{types.StepPrepareWorkDir, r.stepPrepareWorkDir},
		{types.StepExtract, r.stepExtract},
		{types.StepFlatten, r.stepFlatten},
		{types.StepTransfer, r.stepTransfer},
		{types.StepSetPermissions, r.stepSetPermissions},
		{types.StepCleanup, r.stepCleanup},
		{types.StepFinalise, r.stepFinalise},
	}

	// Priming: later steps depend on staging_path/work_dir computed by
	// earlier ones even across a resumed run, so re-derive them from
	// whatever the sidecar already recorded before skipping ahead.
	if r.meta.StagingPath != "" {
		r.stagingPath = r.meta.StagingPath
	}
	if r.meta.WorkDir != "" {
		r.workDir = r.meta.WorkDir
	}

	for _, step := range steps {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if step.kind != types.StepFinalise && r.meta.IsStepCompleted(step.kind) {
			continue
		}

		r.record(step.kind, types.StepStarted, "")
		if err := r.persist(); err != nil {
			return err
		}
		r.pipeline.broker.Publish(events.Event{
			Kind:    events.KindFsopsProgress,
			Payload: events.FsopsProgressPayload{TorrentID: r.req.TorrentID, Step: string(step.kind)},
		})

		stepStart := time.Now()
		detail, skip, err := step.fn(ctx)
		metrics.FsopsStepDuration.WithLabelValues(string(step.kind)).Observe(time.Since(stepStart).Seconds())
		if err != nil {
			r.record(step.kind, types.StepFailed, err.Error())
			_ = r.persist()
			return fmt.Errorf("%s: %w", step.kind, err)
		}

		status := types.StepCompleted
		if skip {
			status = types.StepSkipped
		}
		r.record(step.kind, status, detail)
		if err := r.persist(); err != nil {
			return err
		}
	}
	return nil
}

func (r *run) record(kind types.StepKind, status types.StepStatus, detail string) {
	recordStep(r.meta, kind, status, detail, r.pipeline.now())
}

func (r *run) persist() error {
	return saveMeta(r.req.Policy.LibraryRoot, r.meta)
}

func (r *run) stepValidatePolicy(ctx context.Context) (string, bool, error) {
	if r.req.Policy.LibraryRoot == "" {
		return "", false, fmt.Errorf("library_root is empty")
	}
	return "", false, nil
}

func (r *run) stepAllowlist(ctx context.Context) (string, bool, error) {
	if len(r.req.Policy.AllowPaths) == 0 {
		return "", true, nil
	}
	canonical, err := canonicalPath(r.req.Policy.LibraryRoot)
	if err != nil {
		return "", false, err
	}
	for _, allowed := range r.req.Policy.AllowPaths {
		allowedCanonical, err := canonicalPath(allowed)
		if err != nil {
			continue
		}
		if canonical == allowedCanonical || strings.HasPrefix(canonical, allowedCanonical+string(filepath.Separator)) {
			return "allowed=" + allowedCanonical, false, nil
		}
	}
	return "", false, fmt.Errorf("library_root %q is not under an allowed path", r.req.Policy.LibraryRoot)
}

func (r *run) stepPrepareDirectories(ctx context.Context) (string, bool, error) {
	if err := os.MkdirAll(r.req.Policy.LibraryRoot, 0o755); err != nil {
		return "", false, fmt.Errorf("create library root: %w", err)
	}
	if err := os.MkdirAll(filepath.Join(r.req.Policy.LibraryRoot, metaDir), 0o755); err != nil {
		return "", false, fmt.Errorf("create meta directory: %w", err)
	}
	return "", false, nil
}

func (r *run) stepCompileRules(ctx context.Context) (string, bool, error) {
	include := expandSkipFluff(r.req.Policy.CleanupKeep)
	exclude := expandSkipFluff(r.req.Policy.CleanupDrop)
	rules, err := compileRules(include, exclude)
	if err != nil {
		return "", false, err
	}
	r.rules = rules
	return fmt.Sprintf("include=%d,exclude=%d", len(include), len(exclude)), false, nil
}

// expandSkipFluff replaces the @skip_fluff sentinel with its fixed
// pattern family, leaving every other entry untouched.
func expandSkipFluff(patterns []string) []string {
	out := make([]string, 0, len(patterns))
	for _, p := range patterns {
		if p == types.SkipFluffPreset {
			out = append(out, types.SkipFluffPatterns...)
			continue
		}
		out = append(out, p)
	}
	return out
}

func (r *run) stepLocateSource(ctx context.Context) (string, bool, error) {
	canonical, err := canonicalPath(r.req.SourcePath)
	if err != nil {
		return "", false, fmt.Errorf("locate source: %w", err)
	}
	if _, err := os.Stat(canonical); err != nil {
		return "", false, fmt.Errorf("locate source: %w", err)
	}
	r.meta.SourcePath = canonical
	r.stagingPath = canonical
	return canonical, false, nil
}

func (r *run) stepPrepareWorkDir(ctx context.Context) (string, bool, error) {
	workDir := filepath.Join(r.req.Policy.LibraryRoot, metaDir, "work", r.req.TorrentID.String())
	if err := os.RemoveAll(workDir); err != nil {
		return "", false, fmt.Errorf("reset work dir: %w", err)
	}
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return "", false, fmt.Errorf("create work dir: %w", err)
	}
	r.workDir = workDir
	r.meta.WorkDir = workDir
	return workDir, false, nil
}

func (r *run) stepExtract(ctx context.Context) (string, bool, error) {
	if !r.req.Policy.Extract {
		return "", true, nil
	}
	info, err := os.Stat(r.stagingPath)
	if err != nil {
		return "", false, fmt.Errorf("stat source: %w", err)
	}
	if info.IsDir() {
		return "source is a directory", true, nil
	}
	if !isZipArchive(r.stagingPath) {
		return "", false, errUnsupportedArchive
	}

	extractDir := filepath.Join(r.workDir, "extracted")
	if err := os.RemoveAll(extractDir); err != nil {
		return "", false, fmt.Errorf("reset extraction dir: %w", err)
	}
	if err := os.MkdirAll(extractDir, 0o755); err != nil {
		return "", false, fmt.Errorf("create extraction dir: %w", err)
	}
	if err := extractZip(r.stagingPath, extractDir); err != nil {
		return "", false, err
	}
	r.stagingPath = extractDir
	r.meta.StagingPath = extractDir
	return extractDir, false, nil
}

func (r *run) stepFlatten(ctx context.Context) (string, bool, error) {
	if !r.req.Policy.Flatten {
		return "", true, nil
	}
	info, err := os.Stat(r.stagingPath)
	if err != nil {
		return "", false, fmt.Errorf("stat staging: %w", err)
	}
	if !info.IsDir() {
		return "staging is not a directory", true, nil
	}

	entries, err := os.ReadDir(r.stagingPath)
	if err != nil {
		return "", false, fmt.Errorf("read staging: %w", err)
	}
	var onlyChildDir string
	childDirs := 0
	for _, e := range entries {
		if e.IsDir() {
			childDirs++
			onlyChildDir = filepath.Join(r.stagingPath, e.Name())
		}
	}
	if childDirs != 1 || len(entries) != 1 {
		return "no single child directory", true, nil
	}

	r.stagingPath = onlyChildDir
	r.meta.StagingPath = onlyChildDir
	return onlyChildDir, false, nil
}

func (r *run) stepTransfer(ctx context.Context) (string, bool, error) {
	dest := filepath.Join(r.req.Policy.LibraryRoot, artifactName(r.stagingPath, r.req.TorrentID.String()))

	if sameFile(dest, r.stagingPath) {
		r.meta.ArtifactPath = dest
		r.meta.TransferMode = r.req.Policy.MoveMode
		return dest, true, nil
	}

	if err := transfer(r.req.Policy.MoveMode, r.stagingPath, dest); err != nil {
		return "", false, err
	}
	r.meta.ArtifactPath = dest
	r.meta.TransferMode = r.req.Policy.MoveMode
	return dest, false, nil
}

// artifactName derives the library-relative destination name from the
// current staging location, not the original source: by the time
// transfer runs, Extract/Flatten may have replaced staging with an
// archive's extraction directory or its single flattened child, and
// the destination must be keyed off whatever staging looks like now.
// Falls back to the torrent id only when staging has no usable base
// name (empty, "." or a root path).
func artifactName(stagingPath, torrentID string) string {
	base := filepath.Base(stagingPath)
	if base == "" || base == "." || base == string(filepath.Separator) {
		return torrentID
	}
	return base
}

func sameFile(a, b string) bool {
	ca, errA := canonicalPath(a)
	cb, errB := canonicalPath(b)
	return errA == nil && errB == nil && ca == cb
}

func (r *run) stepSetPermissions(ctx context.Context) (string, bool, error) {
	plan, err := resolvePermissionPlan(r.req.Policy)
	if err != nil {
		return "", false, err
	}
	if !plan.active {
		return plan.detail(), true, nil
	}
	if err := plan.apply(r.meta.ArtifactPath); err != nil {
		return "", false, err
	}
	return plan.detail(), false, nil
}

func (r *run) stepCleanup(ctx context.Context) (string, bool, error) {
	removed, err := cleanupTree(r.meta.ArtifactPath, r.rules)
	if err != nil {
		return "", false, err
	}
	if removed == 0 {
		return "removed=0", true, nil
	}
	return fmt.Sprintf("removed=%d", removed), false, nil
}

func (r *run) stepFinalise(ctx context.Context) (string, bool, error) {
	if r.workDir != "" {
		if err := os.RemoveAll(r.workDir); err != nil {
			return "", false, fmt.Errorf("remove work dir: %w", err)
		}
	}
	r.meta.Completed = true
	return "", false, nil
}

// canonicalPath resolves path to an absolute, symlink-resolved form for
// prefix comparisons; a path that doesn't exist yet is cleaned and made
// absolute without symlink resolution.
func canonicalPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return filepath.Clean(abs), nil
		}
		return "", err
	}
	return resolved, nil
}
