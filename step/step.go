package step

import (
	"context"
	"fmt"
	"time"

	"github.com/bitrise-io/go-steputils/v2/stepconf"
	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/bitrise-io/go-utils/v2/pathutil"
	"github.com/kballard/go-shellquote"
	"github.com/playwright-community/playwright-go"
	"github.com/webshop-qa/storefront-e2e/config"
	"github.com/webshop-qa/storefront-e2e/fileremover"
	"github.com/webshop-qa/storefront-e2e/report"
	"github.com/webshop-qa/storefront-e2e/scenario"
	"github.com/webshop-qa/storefront-e2e/session"
)

// Input ...
type Input struct {
	// Suite Parameters
	ConfigPath string `env:"config_path,required"`
	SuiteTags  string `env:"suite_tags"`

	// Execution Configs
	WorkerCount  int `env:"worker_count,required"`
	MaxFailures  int `env:"max_failures"`
	InfraRetries int `env:"infra_retries"`

	// Browser Configs
	ForceHeadless    bool   `env:"force_headless,opt[yes,no]"`
	ExtraBrowserArgs string `env:"extra_browser_args"`
	SlowMoMS         int    `env:"slow_mo"`

	// Debug
	Verbose bool `env:"verbose,opt[yes,no]"`

	// Output export
	ArtifactDir  string `env:"artifact_dir"`
	DeployDir    string `env:"BITRISE_DEPLOY_DIR"`
	TestAddonDir string `env:"BITRISE_TEST_RESULT_DIR"`
}

// Config ...
type Config struct {
	App config.Config

	SuiteTags []scenario.Tag

	WorkerCount  int
	MaxFailures  int
	InfraRetries int

	Headless         bool
	ExtraBrowserArgs []string
	SlowMo           time.Duration

	ArtifactDir  string
	DeployDir    string
	TestAddonDir string
}

// BrowserTestRunner ...
type BrowserTestRunner struct {
	inputParser    stepconf.InputParser
	logger         log.Logger
	sessionManager session.Manager
	exporter       report.Exporter
	fileRemover    fileremover.FileRemover
	pathProvider   pathutil.PathProvider
	pathModifier   pathutil.PathModifier
}

// NewBrowserTestRunner ...
func NewBrowserTestRunner(inputParser stepconf.InputParser, logger log.Logger, sessionManager session.Manager, exporter report.Exporter, fileRemover fileremover.FileRemover, pathProvider pathutil.PathProvider, pathModifier pathutil.PathModifier) BrowserTestRunner {
	return BrowserTestRunner{
		inputParser:    inputParser,
		logger:         logger,
		sessionManager: sessionManager,
		exporter:       exporter,
		fileRemover:    fileRemover,
		pathProvider:   pathProvider,
		pathModifier:   pathModifier,
	}
}

// ProcessConfig ...
func (r BrowserTestRunner) ProcessConfig() (Config, error) {
	var input Input
	err := r.inputParser.Parse(&input)
	if err != nil {
		return Config{}, err
	}

	stepconf.Print(input)
	r.logger.Println()

	r.logger.EnableDebugLog(input.Verbose)

	if input.WorkerCount < 1 {
		return Config{}, fmt.Errorf("invalid worker count (%d), should be at least 1", input.WorkerCount)
	}
	if input.MaxFailures < 0 {
		return Config{}, fmt.Errorf("invalid max failures (%d), should not be negative", input.MaxFailures)
	}
	if input.InfraRetries < 0 {
		return Config{}, fmt.Errorf("invalid infra retries (%d), should not be negative", input.InfraRetries)
	}
	if input.SlowMoMS < 0 {
		return Config{}, fmt.Errorf("invalid slow motion delay (%d), should not be negative", input.SlowMoMS)
	}

	configPath, err := r.pathModifier.AbsPath(input.ConfigPath)
	if err != nil {
		return Config{}, fmt.Errorf("failed to get absolute suite config path: %w", err)
	}

	appConfig, err := config.Load(configPath)
	if err != nil {
		return Config{}, fmt.Errorf("failed to load suite config (%s): %w", configPath, err)
	}

	// The verbose input and the document's logging.level both can turn
	// on debug logs, whichever asks for it.
	if appConfig.Logging.DebugLogging() {
		r.logger.EnableDebugLog(true)
	}

	extraBrowserArgs, err := shellquote.Split(input.ExtraBrowserArgs)
	if err != nil {
		return Config{}, fmt.Errorf("failed to parse extra browser args (%s): %w", input.ExtraBrowserArgs, err)
	}

	// force_headless is the CI override for suite configs authored for
	// local, headed debugging.
	headless := appConfig.Environment.Headless
	if input.ForceHeadless {
		headless = true
	}

	artifactDir := input.ArtifactDir
	if artifactDir == "" {
		artifactDir, err = r.pathProvider.CreateTempDir("storefront-e2e-artifacts")
		if err != nil {
			return Config{}, fmt.Errorf("failed to create artifact directory: %w", err)
		}
	}

	return Config{
		App: appConfig,

		SuiteTags: scenario.ParseTags(input.SuiteTags),

		WorkerCount:  input.WorkerCount,
		MaxFailures:  input.MaxFailures,
		InfraRetries: input.InfraRetries,

		Headless:         headless,
		ExtraBrowserArgs: extraBrowserArgs,
		SlowMo:           time.Duration(input.SlowMoMS) * time.Millisecond,

		ArtifactDir:  artifactDir,
		DeployDir:    input.DeployDir,
		TestAddonDir: input.TestAddonDir,
	}, nil
}

// InstallDeps downloads the Playwright driver and the configured
// browser if they are not present yet.
func (r BrowserTestRunner) InstallDeps(cfg Config) error {
	r.logger.Infof("Installing Playwright driver and the %s browser", cfg.App.Environment.Browser)

	err := playwright.Install(&playwright.RunOptions{
		Browsers: []string{cfg.App.Environment.Browser},
		Verbose:  false,
	})
	if err != nil {
		return fmt.Errorf("failed to install Playwright dependencies: %w", err)
	}

	r.logger.Println()
	return nil
}

// Result ...
type Result struct {
	Failed  bool
	Results []report.Result
	RunName string
}

// Run ...
func (r BrowserTestRunner) Run(ctx context.Context, cfg Config) (Result, error) {
	launchOpts := session.LaunchOptions{
		Browser:   cfg.App.Environment.Browser,
		Headless:  cfg.Headless,
		SlowMo:    cfg.SlowMo,
		ExtraArgs: cfg.ExtraBrowserArgs,
	}
	if err := r.sessionManager.Launch(launchOpts); err != nil {
		return Result{}, fmt.Errorf("failed to launch browser: %w", err)
	}
	defer func() {
		if err := r.sessionManager.Close(); err != nil {
			r.logger.Warnf("Failed to close browser: %s", err)
		}
	}()

	r.logger.Infof("Using %s %s", cfg.App.Environment.Browser, r.sessionManager.BrowserVersion())
	r.logger.Println()

	sink, err := report.NewSink(r.logger, r.fileRemover, cfg.ArtifactDir, report.CaptureOptions{
		Screenshots: cfg.App.Reporting.ScreenshotsOnFailure,
		Traces:      cfg.App.Reporting.TraceOnFailure,
		Videos:      cfg.App.Reporting.VideoRecording,
	})
	if err != nil {
		return Result{}, fmt.Errorf("failed to prepare artifact directory: %w", err)
	}

	units := scenario.Expand(scenario.BuiltIn(cfg.App), cfg.SuiteTags)
	if len(units) == 0 {
		r.logger.Warnf("No scenario matches the tag filter (%v), nothing to run", cfg.SuiteTags)
		return Result{RunName: runName(cfg)}, nil
	}

	r.logger.Infof("Running %d units on %d workers", len(units), cfg.WorkerCount)
	r.logger.Println()

	orchestrator := scenario.NewOrchestrator(r.logger, r.sessionManager, sink, cfg.App, scenario.Options{
		Workers:      cfg.WorkerCount,
		MaxFailures:  cfg.MaxFailures,
		InfraRetries: cfg.InfraRetries,
	})
	execErr := orchestrator.Execute(ctx, units)

	results := sink.Results()
	printSummary(r.logger, results)

	result := Result{
		Failed:  sink.FailedCount() > 0,
		Results: results,
		RunName: runName(cfg),
	}
	// An aborted run still reports what the workers got through.
	if execErr != nil {
		return result, fmt.Errorf("test run aborted: %w", execErr)
	}
	return result, nil
}

// ExportOpts ...
type ExportOpts struct {
	Failed  bool
	Results []report.Result
	RunName string

	DeployDir    string
	TestAddonDir string
}

// Export ...
func (r BrowserTestRunner) Export(opts ExportOpts) error {
	r.exporter.ExportTestRunResult(opts.Failed)

	if opts.DeployDir != "" {
		if err := r.exporter.ExportResults(opts.DeployDir, opts.Results); err != nil {
			return fmt.Errorf("failed to export results: %w", err)
		}
		if err := r.exporter.ExportArtifacts(opts.DeployDir, opts.Results); err != nil {
			r.logger.Warnf("Failed to export failure artifacts: %s", err)
		}
	}

	if opts.TestAddonDir != "" {
		if err := r.exporter.ExportTestAddon(opts.TestAddonDir, opts.RunName, opts.Results); err != nil {
			r.logger.Warnf("Failed to export test results for the addon: %s", err)
		}
	}

	return nil
}

func runName(cfg Config) string {
	return fmt.Sprintf("storefront-e2e-%s", cfg.App.Environment.Browser)
}
