package step

import (
	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/webshop-qa/storefront-e2e/report"
)

func printSummary(logger log.Logger, results []report.Result) {
	counts := map[report.Outcome]int{}
	for _, result := range results {
		counts[result.Outcome]++
	}

	logger.Println()
	logger.Infof("Test run summary")
	logger.Printf("* total: %d, passed: %d, failed: %d, skipped: %d",
		len(results), counts[report.OutcomePassed], counts[report.OutcomeFailed], counts[report.OutcomeSkipped])

	if counts[report.OutcomeFailed] == 0 {
		logger.Donef("All executed units passed.")
		return
	}

	logger.Println()
	logger.Errorf("Failed units:")
	for _, result := range results {
		if result.Outcome != report.OutcomeFailed {
			continue
		}
		logger.Errorf("* %s (%s): %s", result.Name, result.FailureKind, result.Error)
		if result.Artifacts.ScreenshotPath != "" {
			logger.Printf("  screenshot: %s", result.Artifacts.ScreenshotPath)
		}
		if result.Artifacts.TracePath != "" {
			logger.Printf("  trace: %s", result.Artifacts.TracePath)
		}
		if result.Artifacts.VideoPath != "" {
			logger.Printf("  video: %s", result.Artifacts.VideoPath)
		}
	}
}
