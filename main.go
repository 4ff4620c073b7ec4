package main

import (
	"context"
	"os"

	"github.com/bitrise-io/go-steputils/v2/export"
	"github.com/bitrise-io/go-steputils/v2/stepconf"
	"github.com/bitrise-io/go-utils/v2/command"
	"github.com/bitrise-io/go-utils/v2/env"
	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/bitrise-io/go-utils/v2/pathutil"
	"github.com/webshop-qa/storefront-e2e/fileremover"
	"github.com/webshop-qa/storefront-e2e/report"
	"github.com/webshop-qa/storefront-e2e/session"
	"github.com/webshop-qa/storefront-e2e/step"
)

func main() {
	os.Exit(run())
}

func run() int {
	logger := log.NewLogger()
	runner := createRunner(logger)

	config, err := runner.ProcessConfig()
	if err != nil {
		logger.Errorf("Failed to process inputs: %s", err)
		return 1
	}

	if err := runner.InstallDeps(config); err != nil {
		logger.Errorf("Failed to install dependencies: %s", err)
		return 1
	}

	result, runErr := runner.Run(context.Background(), config)
	if runErr != nil {
		logger.Errorf("Test run could not complete: %s", runErr)
	}

	exportErr := runner.Export(step.ExportOpts{
		Failed:       runErr != nil || result.Failed,
		Results:      result.Results,
		RunName:      result.RunName,
		DeployDir:    config.DeployDir,
		TestAddonDir: config.TestAddonDir,
	})
	if exportErr != nil {
		logger.Errorf("Failed to export outputs: %s", exportErr)
	}

	if runErr != nil || exportErr != nil || result.Failed {
		return 1
	}
	return 0
}

func createRunner(logger log.Logger) step.BrowserTestRunner {
	envRepository := env.NewRepository()
	inputParser := stepconf.NewInputParser(envRepository)
	commandFactory := command.NewFactory(envRepository)
	outputExporter := export.NewExporter(commandFactory)
	exporter := report.NewExporter(envRepository, logger, outputExporter)
	sessionManager := session.NewManager(logger)
	pathProvider := pathutil.NewPathProvider()
	pathModifier := pathutil.NewPathModifier()

	return step.NewBrowserTestRunner(inputParser, logger, sessionManager, exporter, fileremover.NewFileRemover(), pathProvider, pathModifier)
}
