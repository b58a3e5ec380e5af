// internal/pipeline/orchestrator/orchestrator.go
package orchestrator

import (
	"context"
	"time"

	"github.com/google/uuid"

	pipeerrors "ideas-pipeline/internal/common/errors"
	"ideas-pipeline/internal/common/logger"
	"ideas-pipeline/internal/common/metrics"
	"ideas-pipeline/internal/models"
	"ideas-pipeline/internal/pipeline/normalize"
)

// State is the position of a run in the daily lifecycle.
type State string

const (
	StateFetching     State = "Fetching"
	StateSnapshotting State = "Snapshotting"
	StateAnalyzing    State = "Analyzing"
	StatePublishing   State = "Publishing"
	StateDone         State = "Done"
	StateFailed       State = "Failed"
)

// Stage interfaces. The orchestrator owns sequencing, nothing else.

type Fetcher interface {
	Fetch(ctx context.Context) ([]models.RawPost, error)
}

type SnapshotWriter interface {
	Write(records []models.RawPost) (string, error)
}

type Extractor interface {
	Extract(ctx context.Context, posts []models.NormalizedPost) ([]models.Insight, models.TokenUsage)
}

type AnalysisWriter interface {
	Write(run *models.AnalysisRun) (string, error)
}

type Publisher interface {
	Publish(ctx context.Context, dataDir string) error
}

// RunResult is the outcome of one daily run.
type RunResult struct {
	RunID         string
	State         State
	SnapshotPath  string
	AnalysisPath  string
	PostsFetched  int
	InsightsFound int
	TokenUsage    models.TokenUsage
	Duration      time.Duration
	Err           error
}

type Orchestrator struct {
	fetcher   Fetcher
	snapshots SnapshotWriter
	extractor Extractor
	analyses  AnalysisWriter
	publisher Publisher // nil disables the publish stage
	dataDir   string
	logger    logger.Logger
	errs      *pipeerrors.ErrorHandler
	now       func() time.Time
}

func New(fetcher Fetcher, snapshots SnapshotWriter, extractor Extractor, analyses AnalysisWriter, publisher Publisher, dataDir string, log logger.Logger) *Orchestrator {
	return &Orchestrator{
		fetcher:   fetcher,
		snapshots: snapshots,
		extractor: extractor,
		analyses:  analyses,
		publisher: publisher,
		dataDir:   dataDir,
		logger:    log,
		errs:      pipeerrors.NewErrorHandler(log),
		now:       time.Now,
	}
}

// Run drives one run through Fetching, Snapshotting, Analyzing and
// Publishing. Stages run strictly in order; the first fatal error stops
// the run with no rollback, leaving earlier artifacts in place. Publish
// failures are logged and do not fail the run.
func (o *Orchestrator) Run(ctx context.Context) *RunResult {
	result := &RunResult{RunID: uuid.NewString()}
	log := o.logger.With(map[string]interface{}{"runId": result.RunID})
	start := o.now()

	defer func() {
		result.Duration = o.now().Sub(start)
		log.Info("run finished", map[string]interface{}{
			"state":    string(result.State),
			"duration": result.Duration.String(),
		})
	}()

	// Fetching
	o.transition(log, result, StateFetching)
	raw, err := timed(o, "fetch", func() ([]models.RawPost, error) {
		return o.fetcher.Fetch(ctx)
	})
	if err != nil {
		return o.fail(log, result, "fetch", err)
	}
	result.PostsFetched = len(raw)

	// Snapshotting
	o.transition(log, result, StateSnapshotting)
	result.SnapshotPath, err = timed(o, "snapshot", func() (string, error) {
		return o.snapshots.Write(raw)
	})
	if err != nil {
		return o.fail(log, result, "snapshot", err)
	}

	// Analyzing
	o.transition(log, result, StateAnalyzing)
	posts := normalize.Posts(raw)
	extractStart := o.now()
	insights, usage := o.extractor.Extract(ctx, posts)
	metrics.StageDuration.WithLabelValues("extract").Observe(o.now().Sub(extractStart).Seconds())
	result.InsightsFound = len(insights)
	result.TokenUsage = usage

	result.AnalysisPath, err = timed(o, "analysis", func() (string, error) {
		return o.analyses.Write(&models.AnalysisRun{
			TotalPostsAnalyzed: len(posts),
			Insights:           insights,
			TokenUsage:         usage,
		})
	})
	if err != nil {
		return o.fail(log, result, "analysis", err)
	}

	// Publishing: best effort, never fatal.
	if o.publisher != nil {
		o.transition(log, result, StatePublishing)
		if err := o.publisher.Publish(ctx, o.dataDir); err != nil {
			perr := o.errs.HandleStageError("publish", err)
			metrics.StageFailures.WithLabelValues("publish", string(perr.Code)).Inc()
		}
	}

	result.State = StateDone
	metrics.PipelineRuns.WithLabelValues("succeeded").Inc()
	return result
}

func (o *Orchestrator) transition(log logger.Logger, result *RunResult, state State) {
	result.State = state
	log.Info("state transition", map[string]interface{}{"state": string(state)})
}

func (o *Orchestrator) fail(log logger.Logger, result *RunResult, stage string, err error) *RunResult {
	perr := o.errs.HandleStageError(stage, err)
	metrics.StageFailures.WithLabelValues(stage, string(perr.Code)).Inc()
	metrics.PipelineRuns.WithLabelValues("failed").Inc()
	result.State = StateFailed
	result.Err = perr
	return result
}

// timed wraps a stage call with its duration histogram.
func timed[T any](o *Orchestrator, stage string, fn func() (T, error)) (T, error) {
	start := o.now()
	out, err := fn()
	metrics.StageDuration.WithLabelValues(stage).Observe(o.now().Sub(start).Seconds())
	return out, err
}
