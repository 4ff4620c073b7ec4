package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/google/uuid"
	version "github.com/hashicorp/go-version"
	"github.com/playwright-community/playwright-go"
)

// Browsers below these major versions predate the selectors the page
// objects rely on; a match usually means a stale driver install.
var minSupportedBrowserMajorVersion = map[string]int{
	"chromium": 100,
	"firefox":  100,
	"webkit":   15,
}

// LaunchOptions configure the per-run browser process.
type LaunchOptions struct {
	Browser   string
	Headless  bool
	SlowMo    time.Duration
	ExtraArgs []string
}

// Options configure one isolated Session.
type Options struct {
	BaseTimeout    time.Duration
	TimeoutScale   float64
	ViewportWidth  int
	ViewportHeight int
	Trace          bool
	VideoDir       string
}

func (o Options) effectiveTimeout() time.Duration {
	scale := o.TimeoutScale
	if scale <= 0 {
		scale = 1.0
	}
	return time.Duration(float64(o.BaseTimeout) * scale)
}

// Session is one isolated browser context plus its page handle. It is
// owned by exactly one execution unit from Acquire until Release.
type Session struct {
	ID string

	context playwright.BrowserContext
	page    playwright.Page
	timeout time.Duration

	tracing      bool
	traceStopped bool
}

// Page returns the live page handle.
func (s *Session) Page() playwright.Page {
	return s.page
}

// Timeout returns the interaction timeout applied to this session,
// including any per-user scaling.
func (s *Session) Timeout() time.Duration {
	return s.timeout
}

// Screenshot writes a full-page screenshot of the current page state
// to pth. The session must not be released yet.
func (s *Session) Screenshot(pth string) error {
	if s.page == nil {
		return fmt.Errorf("session %s has no open page", s.ID)
	}
	_, err := s.page.Screenshot(playwright.PageScreenshotOptions{
		Path:     playwright.String(pth),
		FullPage: playwright.Bool(true),
	})
	return err
}

// StopTrace stops tracing and writes the collected trace to pth.
// It is a no-op when the session was acquired without tracing.
func (s *Session) StopTrace(pth string) error {
	if !s.tracing || s.traceStopped {
		return nil
	}
	s.traceStopped = true
	return s.context.Tracing().Stop(pth)
}

// VideoPath returns the recording path of the session's page, if video
// recording was enabled for this session.
func (s *Session) VideoPath() (string, error) {
	if s.page == nil {
		return "", fmt.Errorf("session %s has no open page", s.ID)
	}
	video := s.page.Video()
	if video == nil {
		return "", fmt.Errorf("session %s has no video recording", s.ID)
	}
	return video.Path()
}

// Manager owns the browser process for a run and hands out isolated
// Sessions to execution units. At most one execution unit holds a
// given Session at a time; acquire/release is the only cross-unit
// synchronization point.
type Manager interface {
	Launch(opts LaunchOptions) error
	Acquire(opts Options) (*Session, error)
	Release(session *Session) error
	Close() error
	BrowserVersion() string
}

type playwrightManager struct {
	logger log.Logger

	mu      sync.Mutex
	pw      *playwright.Playwright
	browser playwright.Browser
	live    int
}

// NewManager ...
func NewManager(logger log.Logger) Manager {
	return &playwrightManager{logger: logger}
}

func (m *playwrightManager) Launch(opts LaunchOptions) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.browser != nil {
		return nil
	}

	pw, err := playwright.Run()
	if err != nil {
		return &InfrastructureError{Op: "driver start", Err: err}
	}

	browserType, err := browserTypeFor(pw, opts.Browser)
	if err != nil {
		if stopErr := pw.Stop(); stopErr != nil {
			m.logger.Warnf("Failed to stop Playwright driver: %s", stopErr)
		}
		return err
	}

	launchOptions := playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(opts.Headless),
		Args:     opts.ExtraArgs,
	}
	if opts.SlowMo > 0 {
		launchOptions.SlowMo = playwright.Float(float64(opts.SlowMo.Milliseconds()))
	}

	browser, err := browserType.Launch(launchOptions)
	if err != nil {
		if stopErr := pw.Stop(); stopErr != nil {
			m.logger.Warnf("Failed to stop Playwright driver: %s", stopErr)
		}
		return &InfrastructureError{Op: "browser launch", Err: err}
	}

	if err := validateBrowserVersion(opts.Browser, browser.Version()); err != nil {
		if closeErr := browser.Close(); closeErr != nil {
			m.logger.Warnf("Failed to close browser: %s", closeErr)
		}
		if stopErr := pw.Stop(); stopErr != nil {
			m.logger.Warnf("Failed to stop Playwright driver: %s", stopErr)
		}
		return err
	}

	m.logger.Printf("* browser: %s (%s), headless: %t", opts.Browser, browser.Version(), opts.Headless)

	m.pw = pw
	m.browser = browser
	return nil
}

func (m *playwrightManager) Acquire(opts Options) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.browser == nil {
		return nil, &InfrastructureError{Op: "session acquire", Err: fmt.Errorf("browser is not launched")}
	}

	contextOptions := playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{
			Width:  opts.ViewportWidth,
			Height: opts.ViewportHeight,
		},
	}
	if opts.VideoDir != "" {
		contextOptions.RecordVideo = &playwright.RecordVideo{Dir: opts.VideoDir}
	}

	context, err := m.browser.NewContext(contextOptions)
	if err != nil {
		return nil, &InfrastructureError{Op: "context creation", Err: err}
	}

	timeout := opts.effectiveTimeout()
	context.SetDefaultTimeout(float64(timeout.Milliseconds()))

	if opts.Trace {
		if err := context.Tracing().Start(playwright.TracingStartOptions{
			Screenshots: playwright.Bool(true),
			Snapshots:   playwright.Bool(true),
		}); err != nil {
			if closeErr := context.Close(); closeErr != nil {
				m.logger.Warnf("Failed to close browser context: %s", closeErr)
			}
			return nil, &InfrastructureError{Op: "trace start", Err: err}
		}
	}

	page, err := context.NewPage()
	if err != nil {
		if closeErr := context.Close(); closeErr != nil {
			m.logger.Warnf("Failed to close browser context: %s", closeErr)
		}
		return nil, &InfrastructureError{Op: "page creation", Err: err}
	}

	m.live++
	m.logger.Debugf("Acquired session, live sessions: %d", m.live)

	return &Session{
		ID:      uuid.NewString(),
		context: context,
		page:    page,
		timeout: timeout,
		tracing: opts.Trace,
	}, nil
}

func (m *playwrightManager) Release(session *Session) error {
	if session == nil || session.context == nil {
		return nil
	}

	// Any pending trace is discarded here; failure capture stops the
	// trace with a target path before release.
	if session.tracing && !session.traceStopped {
		session.traceStopped = true
		if err := session.context.Tracing().Stop(); err != nil {
			m.logger.Warnf("Failed to stop tracing: %s", err)
		}
	}

	err := session.context.Close()
	session.context = nil
	session.page = nil

	m.mu.Lock()
	m.live--
	m.logger.Debugf("Released session, live sessions: %d", m.live)
	m.mu.Unlock()

	if err != nil {
		return &InfrastructureError{Op: "session release", Err: err}
	}
	return nil
}

func (m *playwrightManager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.browser == nil {
		return nil
	}

	if err := m.browser.Close(); err != nil {
		m.logger.Warnf("Failed to close browser: %s", err)
	}
	m.browser = nil

	err := m.pw.Stop()
	m.pw = nil
	if err != nil {
		return &InfrastructureError{Op: "driver stop", Err: err}
	}
	return nil
}

func (m *playwrightManager) BrowserVersion() string {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.browser == nil {
		return ""
	}
	return m.browser.Version()
}

func browserTypeFor(pw *playwright.Playwright, name string) (playwright.BrowserType, error) {
	switch name {
	case "chromium":
		return pw.Chromium, nil
	case "firefox":
		return pw.Firefox, nil
	case "webkit":
		return pw.WebKit, nil
	default:
		return nil, &InfrastructureError{Op: "browser launch", Err: fmt.Errorf("unsupported browser: %s", name)}
	}
}

func validateBrowserVersion(browserName, rawVersion string) error {
	minMajor, ok := minSupportedBrowserMajorVersion[browserName]
	if !ok {
		return nil
	}

	browserVersion, err := version.NewVersion(rawVersion)
	if err != nil {
		// Version strings vary by engine; an unparsable one is not
		// worth failing the run over.
		return nil
	}

	if browserVersion.Segments()[0] < minMajor {
		return &InfrastructureError{
			Op:  "browser launch",
			Err: fmt.Errorf("browser version (%s) is older than the minimum supported major version (%d), reinstall the browser binaries", rawVersion, minMajor),
		}
	}
	return nil
}
