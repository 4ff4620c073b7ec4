package report

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/webshop-qa/storefront-e2e/fileremover"
	"github.com/webshop-qa/storefront-e2e/session"
)

// Outcome of one execution unit.
type Outcome string

// Possible outcomes.
const (
	OutcomePassed  Outcome = "passed"
	OutcomeFailed  Outcome = "failed"
	OutcomeSkipped Outcome = "skipped"
)

// ArtifactRefs points at the failure artifacts captured for one
// execution unit. Empty paths mean the artifact was not captured.
type ArtifactRefs struct {
	ScreenshotPath string `json:"screenshot_path,omitempty"`
	TracePath      string `json:"trace_path,omitempty"`
	VideoPath      string `json:"video_path,omitempty"`
}

// Result is the immutable outcome record of one execution unit.
type Result struct {
	UnitID      string       `json:"unit_id"`
	Name        string       `json:"name"`
	Scenario    string       `json:"scenario"`
	User        string       `json:"user,omitempty"`
	Tags        []string     `json:"tags"`
	Outcome     Outcome      `json:"outcome"`
	FailureKind string       `json:"failure_kind,omitempty"`
	Error       string       `json:"error,omitempty"`
	DurationMS  int64        `json:"duration_ms"`
	Artifacts   ArtifactRefs `json:"artifacts"`
	CompletedAt time.Time    `json:"completed_at"`
}

// CaptureOptions select which failure artifacts the sink captures.
type CaptureOptions struct {
	Screenshots bool
	Traces      bool
	Videos      bool
}

// Sink collects results and captures failure artifacts. Capture
// happens through the still-open session, before the owning execution
// unit releases it. The sink itself never fails a test: artifact and
// bookkeeping errors are logged as secondary and swallowed.
type Sink interface {
	OnFailure(unitID, unitName string, sess *session.Session, runErr error) ArtifactRefs
	Record(result Result)
	Results() []Result
	FailedCount() int
	VideoDir() string
}

type sink struct {
	logger      log.Logger
	artifactDir string
	options     CaptureOptions

	mu      sync.Mutex
	results []Result
}

// NewSink creates a Sink storing artifacts under artifactDir. Stale
// artifacts of a previous run are removed first.
func NewSink(logger log.Logger, fileRemover fileremover.FileRemover, artifactDir string, options CaptureOptions) (Sink, error) {
	for _, sub := range []string{"screenshots", "traces", "videos"} {
		if err := fileRemover.RemoveAll(filepath.Join(artifactDir, sub)); err != nil {
			return nil, fmt.Errorf("failed to clean artifact dir: %w", err)
		}
	}
	for _, sub := range []string{"screenshots", "traces", "videos"} {
		if err := os.MkdirAll(filepath.Join(artifactDir, sub), 0755); err != nil {
			return nil, fmt.Errorf("failed to create artifact dir: %w", err)
		}
	}

	return &sink{
		logger:      logger,
		artifactDir: artifactDir,
		options:     options,
	}, nil
}

// VideoDir returns the directory sessions should record into, or ""
// when video recording is disabled.
func (s *sink) VideoDir() string {
	if !s.options.Videos {
		return ""
	}
	return filepath.Join(s.artifactDir, "videos")
}

func (s *sink) OnFailure(unitID, unitName string, sess *session.Session, runErr error) ArtifactRefs {
	s.logger.Errorf("Unit %s failed: %s", unitName, runErr)

	var refs ArtifactRefs
	if sess == nil {
		return refs
	}

	if s.options.Screenshots {
		pth := filepath.Join(s.artifactDir, "screenshots", fmt.Sprintf("failure_%s_%s.png", sanitizeFilename(unitName), unitID))
		if err := sess.Screenshot(pth); err != nil {
			s.logger.Warnf("Failed to capture failure screenshot: %s", err)
		} else {
			refs.ScreenshotPath = pth
			s.logger.Printf("Failure screenshot saved: %s", pth)
		}
	}

	if s.options.Traces {
		pth := filepath.Join(s.artifactDir, "traces", fmt.Sprintf("trace_%s_%s.zip", sanitizeFilename(unitName), unitID))
		if err := sess.StopTrace(pth); err != nil {
			s.logger.Warnf("Failed to save trace: %s", err)
		} else if _, statErr := os.Stat(pth); statErr == nil {
			refs.TracePath = pth
		}
	}

	if s.options.Videos {
		pth, err := sess.VideoPath()
		if err != nil {
			s.logger.Warnf("Failed to resolve video path: %s", err)
		} else {
			refs.VideoPath = pth
		}
	}

	return refs
}

func (s *sink) Record(result Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = append(s.results, result)
}

func (s *sink) Results() []Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	results := make([]Result, len(s.results))
	copy(results, s.results)
	return results
}

func (s *sink) FailedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, result := range s.results {
		if result.Outcome == OutcomeFailed {
			count++
		}
	}
	return count
}
