package scenario

import (
	"context"
	"errors"
	"time"

	"github.com/bitrise-io/go-utils/retry"
	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/webshop-qa/storefront-e2e/config"
	"github.com/webshop-qa/storefront-e2e/report"
	"github.com/webshop-qa/storefront-e2e/session"
	"golang.org/x/sync/errgroup"
)

var acquireRetryWait = 3 * time.Second

var errMaxFailuresReached = errors.New("maximum failure count reached")

// Options tunes the execution of an expanded unit list.
type Options struct {
	// Workers is the number of units running concurrently. Values
	// below 1 are treated as 1.
	Workers int
	// MaxFailures aborts the run once this many units failed. 0
	// disables the threshold.
	MaxFailures int
	// InfraRetries is how many times a failed session acquisition is
	// retried before the unit is marked failed.
	InfraRetries int
}

// Orchestrator fans execution units out over a bounded worker pool,
// giving each unit an isolated browser session and recording one
// result per unit into the sink.
type Orchestrator struct {
	logger         log.Logger
	sessionManager session.Manager
	sink           report.Sink
	cfg            config.Config
	opts           Options
}

func NewOrchestrator(logger log.Logger, sessionManager session.Manager, sink report.Sink, cfg config.Config, opts Options) *Orchestrator {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	return &Orchestrator{
		logger:         logger,
		sessionManager: sessionManager,
		sink:           sink,
		cfg:            cfg,
		opts:           opts,
	}
}

// Execute runs every unit and blocks until all started units finished.
// When the failure threshold trips, in-flight units run to completion
// and not-yet-started units are recorded as skipped. A unit failure is
// recorded, not returned; the returned error reports cancellation of
// the run itself.
func (o *Orchestrator) Execute(ctx context.Context, units []ExecutionUnit) error {
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(o.opts.Workers)

	for _, unit := range units {
		unit := unit

		if groupCtx.Err() != nil {
			o.sink.Record(o.skippedResult(unit))
			continue
		}

		group.Go(func() error {
			// A unit can be submitted and waiting for a worker slot
			// when the group gets cancelled, recheck before starting.
			if groupCtx.Err() != nil {
				o.sink.Record(o.skippedResult(unit))
				return nil
			}

			result := o.runUnit(unit)
			o.sink.Record(result)

			if result.Outcome == report.OutcomeFailed && o.opts.MaxFailures > 0 && o.sink.FailedCount() >= o.opts.MaxFailures {
				return errMaxFailuresReached
			}
			return nil
		})
	}

	err := group.Wait()
	if errors.Is(err, errMaxFailuresReached) {
		o.logger.Warnf("Aborted after %d failed units, remaining units skipped", o.opts.MaxFailures)
		err = nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return err
}

func (o *Orchestrator) runUnit(unit ExecutionUnit) report.Result {
	startedAt := time.Now()
	o.logger.Infof("Running: %s", unit.Name)

	var user config.User
	if unit.UserKey != "" {
		var err error
		user, err = o.cfg.GetUser(unit.UserKey)
		if err != nil {
			return o.failedResult(unit, startedAt, err, report.ArtifactRefs{})
		}
	}

	sess, err := o.acquireSession(unit, user)
	if err != nil {
		return o.failedResult(unit, startedAt, err, report.ArtifactRefs{})
	}

	flow := &Flow{
		Session: sess,
		Logger:  o.logger,
		Config:  o.cfg,
		UserKey: unit.UserKey,
		User:    user,
		Data:    unit.Data,
	}
	runErr := unit.Scenario.Run(flow)

	var artifacts report.ArtifactRefs
	if runErr != nil {
		artifacts = o.sink.OnFailure(unit.ID, unit.Name, sess, runErr)
	}
	if releaseErr := o.sessionManager.Release(sess); releaseErr != nil {
		o.logger.Warnf("Failed to release session of %s: %s", unit.Name, releaseErr)
	}

	if runErr != nil {
		return o.failedResult(unit, startedAt, runErr, artifacts)
	}

	o.logger.Donef("Passed: %s (%s)", unit.Name, time.Since(startedAt).Round(time.Millisecond))
	return report.Result{
		UnitID:      unit.ID,
		Name:        unit.Name,
		Scenario:    unit.Scenario.Name,
		User:        unit.UserKey,
		Tags:        TagsToStrings(unit.Scenario.Tags),
		Outcome:     report.OutcomePassed,
		DurationMS:  time.Since(startedAt).Milliseconds(),
		Artifacts:   report.ArtifactRefs{},
		CompletedAt: time.Now(),
	}
}

func (o *Orchestrator) acquireSession(unit ExecutionUnit, user config.User) (*session.Session, error) {
	opts := session.Options{
		BaseTimeout:    o.cfg.Environment.Timeout(),
		TimeoutScale:   user.EffectiveTimeoutScale(),
		ViewportWidth:  o.cfg.Environment.Viewport.Width,
		ViewportHeight: o.cfg.Environment.Viewport.Height,
		Trace:          o.cfg.Reporting.TraceOnFailure,
	}
	if o.cfg.Reporting.VideoRecording {
		opts.VideoDir = o.sink.VideoDir()
	}

	var sess *session.Session
	err := retry.Times(uint(o.opts.InfraRetries)).Wait(acquireRetryWait).Try(func(attempt uint) error {
		if attempt > 0 {
			o.logger.Warnf("Retrying session acquisition for %s (attempt %d)", unit.Name, attempt+1)
		}

		var acquireErr error
		sess, acquireErr = o.sessionManager.Acquire(opts)
		return acquireErr
	})
	return sess, err
}

func (o *Orchestrator) failedResult(unit ExecutionUnit, startedAt time.Time, err error, artifacts report.ArtifactRefs) report.Result {
	kind := ClassifyFailure(err)
	o.logger.Errorf("Failed: %s (%s): %s", unit.Name, kind, err)

	return report.Result{
		UnitID:      unit.ID,
		Name:        unit.Name,
		Scenario:    unit.Scenario.Name,
		User:        unit.UserKey,
		Tags:        TagsToStrings(unit.Scenario.Tags),
		Outcome:     report.OutcomeFailed,
		FailureKind: string(kind),
		Error:       err.Error(),
		DurationMS:  time.Since(startedAt).Milliseconds(),
		Artifacts:   artifacts,
		CompletedAt: time.Now(),
	}
}

func (o *Orchestrator) skippedResult(unit ExecutionUnit) report.Result {
	return report.Result{
		UnitID:      unit.ID,
		Name:        unit.Name,
		Scenario:    unit.Scenario.Name,
		User:        unit.UserKey,
		Tags:        TagsToStrings(unit.Scenario.Tags),
		Outcome:     report.OutcomeSkipped,
		CompletedAt: time.Now(),
	}
}
