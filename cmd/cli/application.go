package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/temirov/repofeed/internal/execshell"
	"github.com/temirov/repofeed/internal/generator"
	"github.com/temirov/repofeed/internal/gitlog"
	"github.com/temirov/repofeed/internal/ui"
	"github.com/temirov/repofeed/internal/utils"
	pathutils "github.com/temirov/repofeed/internal/utils/path"
)

const (
	applicationNameConstant                 = "repofeed"
	applicationShortDescriptionConstant     = "Generate an RSS feed from dated entries and reading list history"
	applicationLongDescriptionConstant      = "repofeed scans the entries directory of a repository and the git history of its tracked reading list, then writes an RSS 2.0 feed into the repository root."
	configFileFlagNameConstant              = "config"
	configFileFlagUsageConstant             = "Optional path to a configuration file (YAML or JSON)."
	logLevelFlagNameConstant                = "log-level"
	logLevelFlagUsageConstant               = "Override the configured log level."
	logFormatFlagNameConstant               = "log-format"
	logFormatFlagUsageConstant              = "Override the configured log format (structured or console)."
	rootFlagNameConstant                    = "root"
	rootFlagUsageConstant                   = "Repository root to scan; ~ expands to the home directory."
	outputFlagNameConstant                  = "output"
	outputFlagUsageConstant                 = "Output file name relative to the repository root."
	versionFlagNameConstant                 = "version"
	versionFlagUsageConstant                = "Print the repofeed version and exit."
	commonConfigurationKeyConstant          = "common"
	commonLogLevelConfigKeyConstant         = commonConfigurationKeyConstant + ".log_level"
	commonLogFormatConfigKeyConstant        = commonConfigurationKeyConstant + ".log_format"
	feedConfigurationKeyConstant            = "feed"
	environmentPrefixConstant               = "REPOFEED"
	configurationNameConstant               = "config"
	configurationTypeConstant               = "yaml"
	configurationDirectoryNameConstant      = "repofeed"
	defaultConfigurationSearchPathConstant  = "."
	configurationInitializedMessageConstant = "configuration initialized"
	environmentFilesLoadedMessageConstant   = "environment files loaded"
	configurationLogLevelFieldConstant      = "log_level"
	configurationLogFormatFieldConstant     = "log_format"
	configurationFileFieldConstant          = "config_file"
	environmentFilesFieldConstant           = "environment_files"
	repositoryRootFieldConstant             = "repository_root"
	repositoryURLFieldConstant              = "repository_url"
	configurationLoadErrorTemplateConstant  = "unable to load configuration: %w"
	environmentLoadErrorTemplateConstant    = "unable to load environment file: %w"
	loggerCreationErrorTemplateConstant     = "unable to create logger: %w"
	loggerSyncErrorTemplateConstant         = "unable to flush logger: %w"
	repositoryRootErrorTemplateConstant     = "unable to resolve repository root: %w"
	repositoryURLErrorTemplateConstant      = "unable to resolve repository url: %w"
	executorCreationErrorTemplateConstant   = "unable to create git executor: %w"
	serviceCreationErrorTemplateConstant    = "unable to configure feed generation: %w"
	generationErrorTemplateConstant         = "feed generation failed: %w"
	loggerNotInitializedMessageConstant     = "logger not initialized"
	repositoryURLResolvedMessageConstant    = "repository url derived from origin remote"
	summaryGeneratedTemplateConstant        = "RSS feed generated: %s\n"
	summaryEntryCountTemplateConstant       = "  - %d experiment(s)\n"
	summaryHistoryCountTemplateConstant     = "  - %d %s update(s)\n"
	versionOutputTemplateConstant           = "%s version: %s\n"
	developmentVersionConstant              = "(devel)"
)

// ApplicationConfiguration describes the persisted configuration for the CLI entrypoint.
type ApplicationConfiguration struct {
	Common ApplicationCommonConfiguration `mapstructure:"common"`
	Feed   generator.Configuration        `mapstructure:"feed"`
}

// ApplicationCommonConfiguration stores logging configuration.
type ApplicationCommonConfiguration struct {
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
}

// Application wires the Cobra root command, configuration loader, and structured logger.
type Application struct {
	rootCommand           *cobra.Command
	configurationLoader   *utils.ConfigurationLoader
	environmentLoader     *utils.EnvironmentFileLoader
	loggerFactory         *utils.LoggerFactory
	rootResolver          *pathutils.RootResolver
	commandRunner         execshell.CommandRunner
	logger                *zap.Logger
	configuration         ApplicationConfiguration
	configurationMetadata utils.LoadedConfiguration
	configurationFilePath string
	logLevelFlagValue     string
	logFormatFlagValue    string
	rootFlagValue         string
	outputFlagValue       string
	versionFlagValue      bool
	versionResolver       func(context.Context) string
	exitFunction          func(int)
}

// NewApplication assembles a fully wired CLI application instance.
func NewApplication() *Application {
	configurationLoader := utils.NewConfigurationLoader(
		configurationNameConstant,
		configurationTypeConstant,
		environmentPrefixConstant,
		configurationSearchPaths(),
	)
	embeddedConfiguration, embeddedConfigurationType := EmbeddedDefaultConfiguration()
	configurationLoader.SetEmbeddedConfiguration(embeddedConfiguration, embeddedConfigurationType)

	application := &Application{
		configurationLoader: configurationLoader,
		environmentLoader:   utils.NewEnvironmentFileLoader(utils.DefaultEnvironmentFileNameConstant, []string{defaultConfigurationSearchPathConstant}),
		loggerFactory:       utils.NewLoggerFactory(),
		rootResolver:        pathutils.NewRootResolver(),
		commandRunner:       execshell.NewOSCommandRunner(),
		logger:              zap.NewNop(),
		versionResolver:     resolveBuildVersion,
		exitFunction:        os.Exit,
	}

	cobraCommand := &cobra.Command{
		Use:           applicationNameConstant,
		Short:         applicationShortDescriptionConstant,
		Long:          applicationLongDescriptionConstant,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(command *cobra.Command, arguments []string) error {
			if application.versionFlagValue {
				application.printVersion(command)
				return nil
			}
			return application.initializeConfiguration(command)
		},
		RunE: func(command *cobra.Command, arguments []string) error {
			return application.runRootCommand(command)
		},
	}

	cobraCommand.SetContext(context.Background())
	cobraCommand.PersistentFlags().StringVar(&application.configurationFilePath, configFileFlagNameConstant, "", configFileFlagUsageConstant)
	cobraCommand.PersistentFlags().StringVar(&application.logLevelFlagValue, logLevelFlagNameConstant, "", logLevelFlagUsageConstant)
	cobraCommand.PersistentFlags().StringVar(&application.logFormatFlagValue, logFormatFlagNameConstant, "", logFormatFlagUsageConstant)
	cobraCommand.PersistentFlags().StringVar(&application.rootFlagValue, rootFlagNameConstant, "", rootFlagUsageConstant)
	cobraCommand.PersistentFlags().StringVar(&application.outputFlagValue, outputFlagNameConstant, "", outputFlagUsageConstant)
	cobraCommand.Flags().BoolVar(&application.versionFlagValue, versionFlagNameConstant, false, versionFlagUsageConstant)

	application.rootCommand = cobraCommand

	return application
}

// Execute runs the root command and ensures logger flushing.
func (application *Application) Execute() error {
	executionError := application.rootCommand.Execute()
	if syncError := application.flushLogger(); syncError != nil {
		return fmt.Errorf(loggerSyncErrorTemplateConstant, syncError)
	}
	return executionError
}

// Execute builds a fresh application instance and executes the root command.
func Execute() error {
	return NewApplication().Execute()
}

func configurationSearchPaths() []string {
	searchPaths := []string{defaultConfigurationSearchPathConstant}
	if userConfigurationDirectory, directoryError := os.UserConfigDir(); directoryError == nil {
		searchPaths = append(searchPaths, filepath.Join(userConfigurationDirectory, configurationDirectoryNameConstant))
	}
	return searchPaths
}

func (application *Application) initializeConfiguration(command *cobra.Command) error {
	loadedEnvironmentFiles, environmentError := application.environmentLoader.Load()
	if environmentError != nil {
		return fmt.Errorf(environmentLoadErrorTemplateConstant, environmentError)
	}

	defaultValues := map[string]any{
		commonLogLevelConfigKeyConstant:  string(utils.LogLevelInfo),
		commonLogFormatConfigKeyConstant: string(utils.LogFormatStructured),
	}
	for configurationKey, configurationValue := range generator.DefaultConfigurationValues(feedConfigurationKeyConstant) {
		defaultValues[configurationKey] = configurationValue
	}

	loadedConfiguration, loadError := application.configurationLoader.LoadConfiguration(application.configurationFilePath, defaultValues, &application.configuration)
	if loadError != nil {
		return fmt.Errorf(configurationLoadErrorTemplateConstant, loadError)
	}

	application.configurationMetadata = loadedConfiguration

	if application.persistentFlagChanged(command, logLevelFlagNameConstant) {
		application.configuration.Common.LogLevel = application.logLevelFlagValue
	}
	if application.persistentFlagChanged(command, logFormatFlagNameConstant) {
		application.configuration.Common.LogFormat = application.logFormatFlagValue
	}
	if application.persistentFlagChanged(command, rootFlagNameConstant) {
		application.configuration.Feed.RepositoryRoot = application.rootFlagValue
	}
	if application.persistentFlagChanged(command, outputFlagNameConstant) {
		application.configuration.Feed.OutputFile = application.outputFlagValue
	}

	logger, loggerCreationError := application.loggerFactory.CreateLogger(
		utils.LogLevel(application.configuration.Common.LogLevel),
		utils.LogFormat(application.configuration.Common.LogFormat),
	)
	if loggerCreationError != nil {
		return fmt.Errorf(loggerCreationErrorTemplateConstant, loggerCreationError)
	}

	application.logger = logger

	if len(loadedEnvironmentFiles) > 0 {
		application.logger.Debug(environmentFilesLoadedMessageConstant, zap.Strings(environmentFilesFieldConstant, loadedEnvironmentFiles))
	}
	application.logger.Info(
		configurationInitializedMessageConstant,
		zap.String(configurationLogLevelFieldConstant, application.configuration.Common.LogLevel),
		zap.String(configurationLogFormatFieldConstant, application.configuration.Common.LogFormat),
		zap.String(configurationFileFieldConstant, application.configurationMetadata.ConfigFileUsed),
	)

	return nil
}

func (application *Application) humanReadableLoggingEnabled() bool {
	logFormatValue := strings.TrimSpace(application.configuration.Common.LogFormat)
	return strings.EqualFold(logFormatValue, string(utils.LogFormatConsole))
}

func (application *Application) runRootCommand(command *cobra.Command) error {
	if application.versionFlagValue {
		return nil
	}
	if application.logger == nil {
		return errors.New(loggerNotInitializedMessageConstant)
	}

	executionContext := command.Context()
	feedConfiguration := application.configuration.Feed.Sanitize()
	if validationError := feedConfiguration.Validate(); validationError != nil {
		return validationError
	}

	repositoryRoot, rootError := application.rootResolver.Resolve(feedConfiguration.RepositoryRoot)
	if rootError != nil {
		return fmt.Errorf(repositoryRootErrorTemplateConstant, rootError)
	}

	var observers []execshell.CommandEventObserver
	if application.humanReadableLoggingEnabled() {
		observers = append(observers, ui.NewConsoleCommandEventLogger(application.logger))
	}
	shellExecutor, executorError := execshell.NewShellExecutor(application.logger, application.commandRunner, observers...)
	if executorError != nil {
		return fmt.Errorf(executorCreationErrorTemplateConstant, executorError)
	}

	if len(feedConfiguration.RepositoryURL) == 0 {
		gitClient, gitClientError := gitlog.NewClient(shellExecutor)
		if gitClientError != nil {
			return fmt.Errorf(executorCreationErrorTemplateConstant, gitClientError)
		}
		resolvedURL, resolveError := generator.ResolveRepositoryURL(executionContext, gitClient, repositoryRoot, feedConfiguration.RepositoryURL)
		if resolveError != nil {
			return fmt.Errorf(repositoryURLErrorTemplateConstant, resolveError)
		}
		feedConfiguration.RepositoryURL = resolvedURL
		application.logger.Info(repositoryURLResolvedMessageConstant,
			zap.String(repositoryRootFieldConstant, repositoryRoot),
			zap.String(repositoryURLFieldConstant, resolvedURL),
		)
	}

	service, serviceError := generator.NewConfiguredService(generator.PipelineDependencies{
		Logger:      application.logger,
		GitExecutor: shellExecutor,
	}, feedConfiguration)
	if serviceError != nil {
		return fmt.Errorf(serviceCreationErrorTemplateConstant, serviceError)
	}

	result, generationError := service.Generate(executionContext, feedConfiguration.GenerationOptions(repositoryRoot))
	if generationError != nil {
		return fmt.Errorf(generationErrorTemplateConstant, generationError)
	}

	outputWriter := command.OutOrStdout()
	fmt.Fprintf(outputWriter, summaryGeneratedTemplateConstant, feedConfiguration.OutputFile)
	fmt.Fprintf(outputWriter, summaryEntryCountTemplateConstant, result.EntryCount)
	fmt.Fprintf(outputWriter, summaryHistoryCountTemplateConstant, result.HistoryCount, feedConfiguration.TrackedFile)

	return nil
}

func (application *Application) printVersion(command *cobra.Command) {
	fmt.Fprintf(command.OutOrStdout(), versionOutputTemplateConstant, applicationNameConstant, application.versionResolver(command.Context()))
	application.exitFunction(0)
}

func resolveBuildVersion(context.Context) string {
	buildInformation, available := debug.ReadBuildInfo()
	if !available || len(strings.TrimSpace(buildInformation.Main.Version)) == 0 {
		return developmentVersionConstant
	}
	return buildInformation.Main.Version
}

func (application *Application) flushLogger() error {
	if application.logger == nil {
		return nil
	}

	syncError := application.logger.Sync()
	switch {
	case syncError == nil:
		return nil
	case errors.Is(syncError, syscall.ENOTSUP):
		return nil
	case errors.Is(syncError, syscall.EINVAL):
		return nil
	default:
		return syncError
	}
}

func (application *Application) persistentFlagChanged(command *cobra.Command, flagName string) bool {
	if command == nil {
		return false
	}

	flagSetsToInspect := []*pflag.FlagSet{
		command.PersistentFlags(),
		command.InheritedFlags(),
	}

	rootCommand := command.Root()
	if rootCommand != nil {
		flagSetsToInspect = append(flagSetsToInspect, rootCommand.PersistentFlags())
	}

	for _, flagSet := range flagSetsToInspect {
		if flagSet == nil {
			continue
		}

		if flagSet.Changed(flagName) {
			return true
		}
	}

	return false
}
