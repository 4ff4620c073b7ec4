package step

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/bitrise-io/go-steputils/v2/stepconf"
	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/webshop-qa/storefront-e2e/config"
	"github.com/webshop-qa/storefront-e2e/fileremover"
	"github.com/webshop-qa/storefront-e2e/report"
	"github.com/webshop-qa/storefront-e2e/scenario"
	"github.com/webshop-qa/storefront-e2e/step/mocks"
)

const validSuiteConfig = `
environment:
  base_url: https://www.saucedemo.com
  timeout: 30000
  headless: false
  browser: chromium
users:
  standard_user:
    username: standard_user
    password: secret_sauce
  locked_out_user:
    username: locked_out_user
    password: secret_sauce
    behavior: locked
test_data:
  customer_info:
    first_name: John
    last_name: Doe
    postal_code: "12345"
  invalid_credentials:
    - username: invalid_user
      password: wrong_password
`

type stepMocks struct {
	envRepository  *mocks.Repository
	sessionManager *mocks.SessionManager
	exporter       *mocks.Exporter
	pathProvider   *mocks.PathProvider
	pathModifier   *mocks.PathModifier
}

func Test_GivenValidInputs_WhenConfigProcessed_ThenSuiteConfigLoaded(t *testing.T) {
	// Given
	configPath := writeSuiteConfig(t)
	envValues := defaultEnvValues(configPath)
	step, stepMocks := createStepAndMocks(t, envValues)

	stepMocks.pathModifier.On("AbsPath", configPath).Return(configPath, nil)

	// When
	config, err := step.ProcessConfig()

	// Then
	require.NoError(t, err)
	assert.Equal(t, "https://www.saucedemo.com", config.App.Environment.BaseURL)
	assert.Equal(t, []scenario.Tag{scenario.TagSmoke}, config.SuiteTags)
	assert.Equal(t, 4, config.WorkerCount)
	assert.Equal(t, 2, config.MaxFailures)
	assert.Equal(t, []string{"--disable-gpu", "--no-sandbox"}, config.ExtraBrowserArgs)
	assert.Equal(t, "/tmp/artifacts", config.ArtifactDir)
	assert.Equal(t, "/tmp/deploy", config.DeployDir)
}

func Test_GivenForceHeadless_WhenConfigProcessed_ThenHeadedSuiteConfigOverridden(t *testing.T) {
	// Given
	configPath := writeSuiteConfig(t)
	envValues := defaultEnvValues(configPath)
	envValues["force_headless"] = "yes"
	step, stepMocks := createStepAndMocks(t, envValues)

	stepMocks.pathModifier.On("AbsPath", configPath).Return(configPath, nil)

	// When
	config, err := step.ProcessConfig()

	// Then
	require.NoError(t, err)
	assert.False(t, config.App.Environment.Headless)
	assert.True(t, config.Headless)
}

func Test_GivenDebugLoggingInSuiteConfig_WhenConfigProcessed_ThenDebugLogsEnabled(t *testing.T) {
	// Given
	configPath := filepath.Join(t.TempDir(), "suite.yml")
	document := validSuiteConfig + "logging:\n  level: DEBUG\n"
	require.NoError(t, os.WriteFile(configPath, []byte(document), 0600))

	envValues := defaultEnvValues(configPath)
	envValues["verbose"] = "no"

	logger := &debugLogSpy{Logger: log.NewLogger()}
	step, stepMocks := createStepWithLogger(t, envValues, logger)
	stepMocks.pathModifier.On("AbsPath", configPath).Return(configPath, nil)

	// When
	_, err := step.ProcessConfig()

	// Then
	require.NoError(t, err)
	assert.True(t, logger.debugEnabled)
}

func Test_GivenInvalidWorkerCount_WhenConfigProcessed_ThenFails(t *testing.T) {
	// Given
	configPath := writeSuiteConfig(t)
	envValues := defaultEnvValues(configPath)
	envValues["worker_count"] = "0"
	step, _ := createStepAndMocks(t, envValues)

	// When
	_, err := step.ProcessConfig()

	// Then
	require.Error(t, err)
}

func Test_GivenMalformedBrowserArgs_WhenConfigProcessed_ThenFails(t *testing.T) {
	// Given
	configPath := writeSuiteConfig(t)
	envValues := defaultEnvValues(configPath)
	envValues["extra_browser_args"] = "'--unterminated"
	step, stepMocks := createStepAndMocks(t, envValues)

	stepMocks.pathModifier.On("AbsPath", configPath).Return(configPath, nil)

	// When
	_, err := step.ProcessConfig()

	// Then
	require.Error(t, err)
}

func Test_GivenNoArtifactDir_WhenConfigProcessed_ThenTempDirCreated(t *testing.T) {
	// Given
	configPath := writeSuiteConfig(t)
	envValues := defaultEnvValues(configPath)
	envValues["artifact_dir"] = ""
	step, stepMocks := createStepAndMocks(t, envValues)

	stepMocks.pathModifier.On("AbsPath", configPath).Return(configPath, nil)
	stepMocks.pathProvider.On("CreateTempDir", "storefront-e2e-artifacts").Return("/tmp/generated", nil)

	// When
	config, err := step.ProcessConfig()

	// Then
	require.NoError(t, err)
	assert.Equal(t, "/tmp/generated", config.ArtifactDir)
}

func Test_GivenBrowserLaunchFails_WhenRuns_ThenFails(t *testing.T) {
	// Given
	step, stepMocks := createStepAndMocks(t, nil)
	stepMocks.sessionManager.On("Launch", mock.Anything).Return(errors.New("driver not found"))

	config := runConfig(t)

	// When
	_, err := step.Run(context.Background(), config)

	// Then
	require.Error(t, err)
}

func Test_GivenNoUnitMatchesTagFilter_WhenRuns_ThenNothingExecuted(t *testing.T) {
	// Given
	step, stepMocks := createStepAndMocks(t, nil)
	stepMocks.sessionManager.On("Launch", mock.Anything).Return(nil)
	stepMocks.sessionManager.On("BrowserVersion").Return("140.0")
	stepMocks.sessionManager.On("Close").Return(nil)

	config := runConfig(t)
	config.SuiteTags = []scenario.Tag{"no_such_tag"}

	// When
	result, err := step.Run(context.Background(), config)

	// Then
	require.NoError(t, err)
	assert.False(t, result.Failed)
	assert.Empty(t, result.Results)
	stepMocks.sessionManager.AssertNotCalled(t, "Acquire", mock.Anything)
}

func Test_GivenCancelledRun_WhenRuns_ThenRecordedResultsReturnedWithError(t *testing.T) {
	// Given
	step, stepMocks := createStepAndMocks(t, nil)
	stepMocks.sessionManager.On("Launch", mock.Anything).Return(nil)
	stepMocks.sessionManager.On("BrowserVersion").Return("140.0")
	stepMocks.sessionManager.On("Close").Return(nil)

	config := runConfig(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// When
	result, err := step.Run(ctx, config)

	// Then
	require.Error(t, err)
	require.NotEmpty(t, result.Results)
	for _, unitResult := range result.Results {
		assert.Equal(t, report.OutcomeSkipped, unitResult.Outcome)
	}
	stepMocks.sessionManager.AssertNotCalled(t, "Acquire", mock.Anything)
}

func Test_GivenStep_WhenExports_ThenResultStatusAndReportsExported(t *testing.T) {
	// Given
	step, stepMocks := createStepAndMocks(t, nil)
	results := []report.Result{{Name: "successful_login/standard_user", Outcome: report.OutcomePassed}}

	stepMocks.exporter.On("ExportTestRunResult", false)
	stepMocks.exporter.On("ExportResults", "/tmp/deploy", results).Return(nil)
	stepMocks.exporter.On("ExportArtifacts", "/tmp/deploy", results).Return(nil)
	stepMocks.exporter.On("ExportTestAddon", "/tmp/addon", "storefront-e2e-chromium", results).Return(nil)

	// When
	err := step.Export(ExportOpts{
		Failed:       false,
		Results:      results,
		RunName:      "storefront-e2e-chromium",
		DeployDir:    "/tmp/deploy",
		TestAddonDir: "/tmp/addon",
	})

	// Then
	assert.NoError(t, err)
	stepMocks.exporter.AssertExpectations(t)
}

func Test_GivenNoExportDirs_WhenExports_ThenOnlyRunStatusExported(t *testing.T) {
	// Given
	step, stepMocks := createStepAndMocks(t, nil)

	stepMocks.exporter.On("ExportTestRunResult", true)

	// When
	err := step.Export(ExportOpts{Failed: true})

	// Then
	assert.NoError(t, err)
	stepMocks.exporter.AssertNotCalled(t, "ExportResults", mock.Anything, mock.Anything)
	stepMocks.exporter.AssertNotCalled(t, "ExportTestAddon", mock.Anything, mock.Anything, mock.Anything)
}

// Helpers

func defaultEnvValues(configPath string) map[string]string {
	return map[string]string{
		"config_path":        configPath,
		"suite_tags":         "smoke",
		"worker_count":       "4",
		"max_failures":       "2",
		"infra_retries":      "1",
		"force_headless":     "no",
		"extra_browser_args": "--disable-gpu --no-sandbox",
		"verbose":            "no",
		"artifact_dir":       "/tmp/artifacts",
		"BITRISE_DEPLOY_DIR": "/tmp/deploy",
	}
}

func writeSuiteConfig(t *testing.T) string {
	t.Helper()

	pth := filepath.Join(t.TempDir(), "suite.yml")
	require.NoError(t, os.WriteFile(pth, []byte(validSuiteConfig), 0600))
	return pth
}

func runConfig(t *testing.T) Config {
	t.Helper()

	appConfig, err := config.Parse([]byte(validSuiteConfig))
	require.NoError(t, err)

	return Config{
		App:         appConfig,
		WorkerCount: 1,
		ArtifactDir: t.TempDir(),
	}
}

// debugLogSpy remembers the last debug log setting passed to the
// wrapped logger.
type debugLogSpy struct {
	log.Logger
	debugEnabled bool
}

func (s *debugLogSpy) EnableDebugLog(enable bool) {
	s.debugEnabled = enable
	s.Logger.EnableDebugLog(enable)
}

func createStepAndMocks(t *testing.T, envValues map[string]string) (BrowserTestRunner, stepMocks) {
	return createStepWithLogger(t, envValues, log.NewLogger())
}

func createStepWithLogger(t *testing.T, envValues map[string]string, logger log.Logger) (BrowserTestRunner, stepMocks) {
	envRepository := mocks.NewRepository(t)

	if envValues != nil {
		call := envRepository.On("Get", mock.Anything)
		call.RunFn = func(arguments mock.Arguments) {
			key := arguments[0].(string)
			call.ReturnArguments = mock.Arguments{envValues[key]}
		}
	}

	inputParser := stepconf.NewInputParser(envRepository)
	sessionManager := mocks.NewSessionManager(t)
	exporter := mocks.NewExporter(t)
	pathProvider := mocks.NewPathProvider(t)
	pathModifier := mocks.NewPathModifier(t)

	step := NewBrowserTestRunner(inputParser, logger, sessionManager, exporter, fileremover.NewFileRemover(), pathProvider, pathModifier)
	mocks := stepMocks{
		envRepository:  envRepository,
		sessionManager: sessionManager,
		exporter:       exporter,
		pathProvider:   pathProvider,
		pathModifier:   pathModifier,
	}

	return step, mocks
}
