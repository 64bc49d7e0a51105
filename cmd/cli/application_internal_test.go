package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const (
	testEntryDirectoryNameConstant = "2024-01-15-example"
	expectedSummaryConstant        = "RSS feed generated: feed.rss\n  - 1 experiment(s)\n  - 0 READTHEM.md update(s)\n"
)

func prepareIsolatedEnvironment(testInstance *testing.T) string {
	testInstance.Helper()
	repositoryRoot := testInstance.TempDir()
	testInstance.Setenv("XDG_CONFIG_HOME", testInstance.TempDir())
	testInstance.Setenv("GIT_CEILING_DIRECTORIES", filepath.Dir(repositoryRoot))

	entryDirectory := filepath.Join(repositoryRoot, "experiments", testEntryDirectoryNameConstant)
	require.NoError(testInstance, os.MkdirAll(entryDirectory, 0o755))
	require.NoError(testInstance, os.WriteFile(filepath.Join(entryDirectory, "README.md"), []byte("Hello world"), 0o644))
	return repositoryRoot
}

func runApplication(testInstance *testing.T, arguments ...string) (string, error) {
	testInstance.Helper()
	application := NewApplication()
	outputBuffer := &bytes.Buffer{}
	application.rootCommand.SetOut(outputBuffer)
	application.rootCommand.SetErr(&bytes.Buffer{})
	application.rootCommand.SetArgs(arguments)
	executionError := application.Execute()
	return outputBuffer.String(), executionError
}

func TestApplicationGeneratesFeedAndPrintsSummary(testInstance *testing.T) {
	repositoryRoot := prepareIsolatedEnvironment(testInstance)

	output, executionError := runApplication(testInstance, "--root", repositoryRoot, "--log-level", "error")
	require.NoError(testInstance, executionError)
	require.Equal(testInstance, expectedSummaryConstant, output)

	document, readError := os.ReadFile(filepath.Join(repositoryRoot, "feed.rss"))
	require.NoError(testInstance, readError)
	require.True(testInstance, strings.HasPrefix(string(document), `<?xml version="1.0" encoding="UTF-8"?>`))
	require.Contains(testInstance, string(document), "<title>New Experiment: Example</title>")
	require.Contains(testInstance, string(document), "<link>https://github.com/tonyandrewmeyer/charming-with-claude/tree/main/experiments/2024-01-15-example</link>")
}

func TestApplicationHonorsOutputFlagAndEnvironment(testInstance *testing.T) {
	repositoryRoot := prepareIsolatedEnvironment(testInstance)
	testInstance.Setenv("REPOFEED_FEED_TITLE", "Environment Title")

	output, executionError := runApplication(testInstance, "--root", repositoryRoot, "--output", "updates.xml", "--log-level", "error")
	require.NoError(testInstance, executionError)
	require.Contains(testInstance, output, "RSS feed generated: updates.xml\n")

	document, readError := os.ReadFile(filepath.Join(repositoryRoot, "updates.xml"))
	require.NoError(testInstance, readError)
	require.Contains(testInstance, string(document), "    <title>Environment Title</title>")
}

func TestApplicationReadsConfigurationFile(testInstance *testing.T) {
	repositoryRoot := prepareIsolatedEnvironment(testInstance)
	configurationPath := filepath.Join(testInstance.TempDir(), "config.yaml")
	configurationContent := "common:\n  log_level: error\nfeed:\n  repository_url: https://github.com/owner/site\n  link: https://owner.example.com\n  tracked_file: LINKS.md\n"
	require.NoError(testInstance, os.WriteFile(configurationPath, []byte(configurationContent), 0o644))

	output, executionError := runApplication(testInstance, "--config", configurationPath, "--root", repositoryRoot)
	require.NoError(testInstance, executionError)
	require.Contains(testInstance, output, "  - 0 LINKS.md update(s)\n")

	document, readError := os.ReadFile(filepath.Join(repositoryRoot, "feed.rss"))
	require.NoError(testInstance, readError)
	require.Contains(testInstance, string(document), "    <link>https://owner.example.com</link>")
	require.Contains(testInstance, string(document), "https://github.com/owner/site/tree/main/experiments/2024-01-15-example")
}

func TestApplicationRejectsInvalidSettings(testInstance *testing.T) {
	repositoryRoot := prepareIsolatedEnvironment(testInstance)

	_, logLevelError := runApplication(testInstance, "--root", repositoryRoot, "--log-level", "verbose")
	require.ErrorContains(testInstance, logLevelError, "unsupported log level")

	_, outputError := runApplication(testInstance, "--root", repositoryRoot, "--output", "../escape.rss", "--log-level", "error")
	require.ErrorContains(testInstance, outputError, "output_file")

	_, argumentError := runApplication(testInstance, "unexpected")
	require.Error(testInstance, argumentError)
}

func TestApplicationVersionFlagPrintsVersionAndExits(testInstance *testing.T) {
	application := NewApplication()
	application.versionResolver = func(context.Context) string {
		return "v1.2.3"
	}
	exitCode := -1
	application.exitFunction = func(code int) {
		exitCode = code
	}

	outputBuffer := &bytes.Buffer{}
	application.rootCommand.SetOut(outputBuffer)
	application.rootCommand.SetArgs([]string{"--version"})

	require.NoError(testInstance, application.Execute())
	require.Equal(testInstance, "repofeed version: v1.2.3\n", outputBuffer.String())
	require.Equal(testInstance, 0, exitCode)
}

func TestApplicationFailsWithoutRepositoryURLOrOrigin(testInstance *testing.T) {
	repositoryRoot := prepareIsolatedEnvironment(testInstance)
	testInstance.Setenv("REPOFEED_FEED_REPOSITORY_URL", " ")

	_, executionError := runApplication(testInstance, "--root", repositoryRoot, "--log-level", "error")
	require.ErrorContains(testInstance, executionError, "unable to resolve repository url")
}
