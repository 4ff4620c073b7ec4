package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bitrise-io/go-steputils/v2/export"
	v1command "github.com/bitrise-io/go-utils/command"
	"github.com/bitrise-io/go-utils/v2/env"
	"github.com/bitrise-io/go-utils/v2/log"
)

// Output env vars consumed by the report-rendering steps downstream.
const (
	testRunResultEnvKey = "STOREFRONT_E2E_TEST_RESULT"
	resultsPathEnvKey   = "STOREFRONT_E2E_RESULTS_PATH"
	artifactsZipEnvKey  = "STOREFRONT_E2E_ARTIFACTS_ZIP_PATH"
)

// Exporter publishes the run's results and artifacts for the external
// report renderers: a structured results.json plus env vars in the
// deploy dir, and a per-unit addon directory for the rich report.
type Exporter interface {
	ExportTestRunResult(failed bool)
	ExportResults(deployDir string, results []Result) error
	ExportArtifacts(deployDir string, results []Result) error
	ExportTestAddon(addonDir, runName string, results []Result) error
}

type exporter struct {
	envRepository  env.Repository
	logger         log.Logger
	outputExporter export.Exporter
}

// NewExporter ...
func NewExporter(envRepository env.Repository, logger log.Logger, outputExporter export.Exporter) Exporter {
	return &exporter{
		envRepository:  envRepository,
		logger:         logger,
		outputExporter: outputExporter,
	}
}

func (e exporter) ExportTestRunResult(failed bool) {
	status := "succeeded"
	if failed {
		status = "failed"
	}
	if err := e.envRepository.Set(testRunResultEnvKey, status); err != nil {
		e.logger.Warnf("Failed to export: %s: %s", testRunResultEnvKey, err)
	}
}

func (e exporter) ExportResults(deployDir string, results []Result) error {
	if err := os.MkdirAll(deployDir, 0755); err != nil {
		return fmt.Errorf("failed to create deploy dir (%s): %w", deployDir, err)
	}

	content, err := json.MarshalIndent(resultDocument{Results: results}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode results: %w", err)
	}

	pth := filepath.Join(deployDir, "results.json")
	if err := os.WriteFile(pth, content, 0644); err != nil {
		return fmt.Errorf("failed to write results file: %w", err)
	}

	if err := e.envRepository.Set(resultsPathEnvKey, pth); err != nil {
		e.logger.Warnf("Failed to export: %s: %s", resultsPathEnvKey, err)
	}
	e.logger.Donef("Results are available at: %s", pth)
	return nil
}

func (e exporter) ExportArtifacts(deployDir string, results []Result) error {
	paths := collectArtifactPaths(results)
	if len(paths) == 0 {
		e.logger.Printf("No failure artifacts to export")
		return nil
	}

	zipPath := filepath.Join(deployDir, "failure-artifacts.zip")
	if err := e.outputExporter.ExportOutputFilesZip(artifactsZipEnvKey, paths, zipPath); err != nil {
		return fmt.Errorf("failed to export failure artifacts: %w", err)
	}
	e.logger.Donef("The zipped failure artifacts are available at: %s", zipPath)
	return nil
}

func (e exporter) ExportTestAddon(addonDir, runName string, results []Result) error {
	runDir := filepath.Join(addonDir, sanitizeFilename(runName))
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return fmt.Errorf("failed to create addon dir (%s): %w", runDir, err)
	}

	for _, result := range results {
		unitDir := filepath.Join(runDir, sanitizeFilename(result.Name))
		if err := os.MkdirAll(unitDir, 0755); err != nil {
			return fmt.Errorf("failed to create addon unit dir (%s): %w", unitDir, err)
		}

		if err := saveUnitMetadata(unitDir, result); err != nil {
			return err
		}

		for _, artifact := range []string{result.Artifacts.ScreenshotPath, result.Artifacts.TracePath} {
			if artifact == "" {
				continue
			}
			if err := v1command.CopyFile(artifact, filepath.Join(unitDir, filepath.Base(artifact))); err != nil {
				e.logger.Warnf("Failed to copy artifact (%s) to the addon dir: %s", artifact, err)
			}
		}
	}

	return nil
}

type resultDocument struct {
	Results []Result `json:"results"`
}

func saveUnitMetadata(outputDir string, result Result) error {
	type unitMetadata struct {
		Name    string   `json:"test-name"`
		Outcome Outcome  `json:"outcome"`
		Tags    []string `json:"tags"`
	}

	content, err := json.Marshal(unitMetadata{
		Name:    result.Name,
		Outcome: result.Outcome,
		Tags:    result.Tags,
	})
	if err != nil {
		return fmt.Errorf("could not encode unit metadata: %w", err)
	}
	if err := os.WriteFile(filepath.Join(outputDir, "test-info.json"), content, 0600); err != nil {
		return fmt.Errorf("failed to write unit metadata: %w", err)
	}
	return nil
}

func collectArtifactPaths(results []Result) []string {
	var paths []string
	for _, result := range results {
		for _, pth := range []string{result.Artifacts.ScreenshotPath, result.Artifacts.TracePath, result.Artifacts.VideoPath} {
			if pth != "" {
				paths = append(paths, pth)
			}
		}
	}
	return paths
}
