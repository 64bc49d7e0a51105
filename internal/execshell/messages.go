package execshell

import (
	"fmt"
	"strings"
)

type messageStage int

const (
	messageStageStart messageStage = iota
	messageStageSuccess
	messageStageFailure
	messageStageExecutionFailure
)

const (
	genericStartTemplateConstant            = "Running %s"
	genericSuccessTemplateConstant          = "Completed %s"
	genericFailureTemplateConstant          = "%s failed with exit code %d%s"
	genericExecutionFailureTemplateConstant = "%s failed: %s"
	commandLabelTemplateConstant            = "%s%s"
	workingDirectorySuffixTemplateConstant  = " (in %s)"
	commandArgumentsJoinSeparatorConstant   = " "
	standardErrorSuffixTemplateConstant     = ": %s"
	unknownFailureMessageConstant           = "unknown error"
	emptyStringConstant                     = ""
	defaultWorkingDirectoryLabelConstant    = "current directory"
	fallbackUnknownValueLabelConstant       = "unknown"
	pathSpecSeparatorConstant               = "--"
	flagPrefixConstant                      = "-"
)

const (
	gitLogSubcommandNameConstant          = "log"
	gitShowSubcommandNameConstant         = "show"
	gitRemoteSubcommandNameConstant       = "remote"
	gitRemoteGetURLSubcommandNameConstant = "get-url"
	gitSingleRevisionFlagConstant         = "-1"
)

const (
	gitLastCommitStartTemplateConstant              = "Looking up the last commit touching %s in %s"
	gitLastCommitSuccessTemplateConstant            = "Looked up the last commit touching %s in %s"
	gitLastCommitFailureTemplateConstant            = "Failed to look up the last commit touching %s in %s (exit code %d%s)"
	gitLastCommitExecutionFailureTemplateConstant   = "Unable to look up the last commit touching %s in %s: %s"
	gitHistoryStartTemplateConstant                 = "Listing revisions of %s in %s"
	gitHistorySuccessTemplateConstant               = "Listed revisions of %s in %s"
	gitHistoryFailureTemplateConstant               = "Failed to list revisions of %s in %s (exit code %d%s)"
	gitHistoryExecutionFailureTemplateConstant      = "Unable to list revisions of %s in %s: %s"
	gitDiffStartTemplateConstant                    = "Reading the diff of %s at %s in %s"
	gitDiffSuccessTemplateConstant                  = "Read the diff of %s at %s in %s"
	gitDiffFailureTemplateConstant                  = "Failed to read the diff of %s at %s in %s (exit code %d%s)"
	gitDiffExecutionFailureTemplateConstant         = "Unable to read the diff of %s at %s in %s: %s"
	gitRemoteLookupStartTemplateConstant            = "Checking %s remote for %s"
	gitRemoteLookupSuccessTemplateConstant          = "Checked %s remote for %s"
	gitRemoteLookupFailureTemplateConstant          = "Failed to read %s remote for %s (exit code %d%s)"
	gitRemoteLookupExecutionFailureTemplateConstant = "Unable to read %s remote for %s: %s"
)

// CommandMessageFormatter builds human-readable messages for command lifecycle events.
type CommandMessageFormatter struct{}

// BuildStartedMessage formats the message describing a command about to run.
func (formatter CommandMessageFormatter) BuildStartedMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageStart)
}

// BuildSuccessMessage formats the message describing a completed command with a zero exit code.
func (formatter CommandMessageFormatter) BuildSuccessMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageSuccess)
}

// BuildFailureMessage formats the message describing a command that returned a non-zero exit code.
func (formatter CommandMessageFormatter) BuildFailureMessage(command ShellCommand, result ExecutionResult) string {
	return formatter.buildMessage(command, result, nil, messageStageFailure)
}

// BuildExecutionFailureMessage formats the message describing an unexpected execution failure.
func (formatter CommandMessageFormatter) BuildExecutionFailureMessage(command ShellCommand, failure error) string {
	return formatter.buildMessage(command, ExecutionResult{}, failure, messageStageExecutionFailure)
}

func (formatter CommandMessageFormatter) buildMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	if command.Name != CommandGit || len(command.Details.Arguments) == 0 {
		return formatter.buildGenericMessage(command, result, failure, stage)
	}

	subcommand := strings.TrimSpace(command.Details.Arguments[0])
	switch subcommand {
	case gitLogSubcommandNameConstant:
		return formatter.describeGitLogMessage(command, result, failure, stage)
	case gitShowSubcommandNameConstant:
		return formatter.describeGitShowMessage(command, result, failure, stage)
	case gitRemoteSubcommandNameConstant:
		return formatter.describeGitRemoteMessage(command, result, failure, stage)
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeGitLogMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	arguments := command.Details.Arguments
	workingDirectory := formatter.describeWorkingDirectory(command)
	pathSpec := formatter.ensureValue(formatter.extractPathSpec(arguments))

	if containsArgument(arguments, gitSingleRevisionFlagConstant) {
		return formatter.selectStageMessage(stage, result, failure,
			gitLastCommitStartTemplateConstant,
			gitLastCommitSuccessTemplateConstant,
			gitLastCommitFailureTemplateConstant,
			gitLastCommitExecutionFailureTemplateConstant,
			pathSpec, workingDirectory,
		)
	}

	return formatter.selectStageMessage(stage, result, failure,
		gitHistoryStartTemplateConstant,
		gitHistorySuccessTemplateConstant,
		gitHistoryFailureTemplateConstant,
		gitHistoryExecutionFailureTemplateConstant,
		pathSpec, workingDirectory,
	)
}

func (formatter CommandMessageFormatter) describeGitShowMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	arguments := command.Details.Arguments
	pathSpec := formatter.ensureValue(formatter.extractPathSpec(arguments))
	revision := formatter.ensureValue(formatter.extractFirstNonFlagArgument(arguments[1:]))

	return formatter.selectStageMessage(stage, result, failure,
		gitDiffStartTemplateConstant,
		gitDiffSuccessTemplateConstant,
		gitDiffFailureTemplateConstant,
		gitDiffExecutionFailureTemplateConstant,
		pathSpec, revision, formatter.describeWorkingDirectory(command),
	)
}

func (formatter CommandMessageFormatter) describeGitRemoteMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	arguments := command.Details.Arguments
	if len(arguments) < 2 || strings.TrimSpace(arguments[1]) != gitRemoteGetURLSubcommandNameConstant {
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
	remoteName := formatter.ensureValue(formatter.argumentAtIndex(arguments, 2))

	return formatter.selectStageMessage(stage, result, failure,
		gitRemoteLookupStartTemplateConstant,
		gitRemoteLookupSuccessTemplateConstant,
		gitRemoteLookupFailureTemplateConstant,
		gitRemoteLookupExecutionFailureTemplateConstant,
		remoteName, formatter.describeWorkingDirectory(command),
	)
}

// selectStageMessage appends the exit code and stderr suffix for failures, or the failure text for execution failures.
func (formatter CommandMessageFormatter) selectStageMessage(stage messageStage, result ExecutionResult, failure error, startTemplate string, successTemplate string, failureTemplate string, executionFailureTemplate string, values ...any) string {
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(startTemplate, values...)
	case messageStageSuccess:
		return fmt.Sprintf(successTemplate, values...)
	case messageStageFailure:
		failureValues := append(append([]any{}, values...), result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
		return fmt.Sprintf(failureTemplate, failureValues...)
	case messageStageExecutionFailure:
		executionFailureValues := append(append([]any{}, values...), formatter.describeFailure(failure))
		return fmt.Sprintf(executionFailureTemplate, executionFailureValues...)
	default:
		return emptyStringConstant
	}
}

func (formatter CommandMessageFormatter) buildGenericMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	commandLabel := formatter.formatCommandLabel(command)
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(genericStartTemplateConstant, commandLabel)
	case messageStageSuccess:
		return fmt.Sprintf(genericSuccessTemplateConstant, commandLabel)
	case messageStageFailure:
		return fmt.Sprintf(genericFailureTemplateConstant, commandLabel, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(genericExecutionFailureTemplateConstant, commandLabel, formatter.describeFailure(failure))
	default:
		return emptyStringConstant
	}
}

func (formatter CommandMessageFormatter) formatCommandLabel(command ShellCommand) string {
	commandLabel := string(command.Name)
	if len(command.Details.Arguments) > 0 {
		commandLabel = fmt.Sprintf("%s %s", commandLabel, strings.Join(command.Details.Arguments, commandArgumentsJoinSeparatorConstant))
	}
	workingDirectorySuffix := formatter.formatWorkingDirectorySuffix(command)
	return fmt.Sprintf(commandLabelTemplateConstant, commandLabel, workingDirectorySuffix)
}

func (formatter CommandMessageFormatter) formatWorkingDirectorySuffix(command ShellCommand) string {
	trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(trimmedWorkingDirectory) == 0 {
		return emptyStringConstant
	}
	return fmt.Sprintf(workingDirectorySuffixTemplateConstant, trimmedWorkingDirectory)
}

func (formatter CommandMessageFormatter) formatStandardErrorSuffix(standardError string) string {
	trimmedStandardError := formatter.trimmedStandardError(standardError)
	if len(trimmedStandardError) == 0 {
		return emptyStringConstant
	}
	return fmt.Sprintf(standardErrorSuffixTemplateConstant, trimmedStandardError)
}

func (formatter CommandMessageFormatter) trimmedStandardError(standardError string) string {
	return strings.TrimSpace(standardError)
}

func (formatter CommandMessageFormatter) describeWorkingDirectory(command ShellCommand) string {
	trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(trimmedWorkingDirectory) == 0 {
		return defaultWorkingDirectoryLabelConstant
	}
	return trimmedWorkingDirectory
}

func (formatter CommandMessageFormatter) describeFailure(failure error) string {
	if failure == nil {
		return unknownFailureMessageConstant
	}
	return failure.Error()
}

func containsArgument(arguments []string, value string) bool {
	for _, argument := range arguments {
		if strings.TrimSpace(argument) == value {
			return true
		}
	}
	return false
}

func (formatter CommandMessageFormatter) argumentAtIndex(arguments []string, index int) string {
	if index < 0 || index >= len(arguments) {
		return emptyStringConstant
	}
	return strings.TrimSpace(arguments[index])
}

func (formatter CommandMessageFormatter) ensureValue(value string) string {
	trimmedValue := strings.TrimSpace(value)
	if len(trimmedValue) == 0 {
		return fallbackUnknownValueLabelConstant
	}
	return trimmedValue
}

// extractPathSpec joins everything after the "--" separator.
func (formatter CommandMessageFormatter) extractPathSpec(arguments []string) string {
	for argumentIndex, argument := range arguments {
		if strings.TrimSpace(argument) != pathSpecSeparatorConstant {
			continue
		}
		return strings.Join(arguments[argumentIndex+1:], commandArgumentsJoinSeparatorConstant)
	}
	return emptyStringConstant
}

func (formatter CommandMessageFormatter) extractFirstNonFlagArgument(arguments []string) string {
	for _, argument := range arguments {
		trimmedArgument := strings.TrimSpace(argument)
		if trimmedArgument == pathSpecSeparatorConstant {
			return emptyStringConstant
		}
		if len(trimmedArgument) == 0 || strings.HasPrefix(trimmedArgument, flagPrefixConstant) {
			continue
		}
		return trimmedArgument
	}
	return emptyStringConstant
}
