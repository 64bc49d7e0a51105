package gitlog

import (
	"context"
	"errors"
	"path/filepath"
	"strings"

	"github.com/temirov/repofeed/internal/execshell"
)

const (
	gitLogSubcommandConstant                    = "log"
	gitShowSubcommandConstant                   = "show"
	gitRemoteSubcommandConstant                 = "remote"
	gitRemoteGetURLSubcommandConstant           = "get-url"
	gitSingleRevisionFlagConstant               = "-1"
	gitStrictISODateFlagConstant                = "--date=iso-strict"
	gitEmptyFormatFlagConstant                  = "--format="
	gitNoColorFlagConstant                      = "--no-color"
	gitPathSpecSeparatorConstant                = "--"
	defaultRemoteNameConstant                   = "origin"
	lastCommitFormatFlagConstant                = "--format=%an|%ae|%ad"
	revisionFormatFlagConstant                  = "--format=%H|%an|%ae|%ad|%s"
	fieldSeparatorConstant                      = "|"
	lineSeparatorConstant                       = "\n"
	lastCommitFieldCountConstant                = 3
	revisionFieldCountConstant                  = 5
	gitTerminalPromptEnvironmentNameConstant    = "GIT_TERMINAL_PROMPT"
	gitTerminalPromptEnvironmentDisableConstant = "0"
	gitExecutorMissingMessageConstant           = "git executor not configured"
	revisionRequiredMessageConstant             = "revision must be provided"
	pathRequiredMessageConstant                 = "path must be provided"
)

// ErrGitExecutorNotConfigured indicates the client was constructed without an executor.
var ErrGitExecutorNotConfigured = errors.New(gitExecutorMissingMessageConstant)

// ErrRevisionRequired indicates an empty revision identifier was supplied.
var ErrRevisionRequired = errors.New(revisionRequiredMessageConstant)

// ErrPathRequired indicates an empty path was supplied.
var ErrPathRequired = errors.New(pathRequiredMessageConstant)

// GitExecutor exposes the subset of shell execution used by the client.
type GitExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// Commit describes the authorship of a single commit.
type Commit struct {
	AuthorName  string
	AuthorEmail string
	// Timestamp is the author date in strict ISO-8601 form, e.g. 2024-01-15T10:20:30+01:00.
	Timestamp string
}

// Revision describes one commit touching a tracked file.
type Revision struct {
	Identifier  string
	AuthorName  string
	AuthorEmail string
	Timestamp   string
	Subject     string
}

// Client runs git queries relative to an explicit repository root.
type Client struct {
	executor GitExecutor
}

// NewClient constructs a Client around the provided executor.
func NewClient(executor GitExecutor) (*Client, error) {
	if executor == nil {
		return nil, ErrGitExecutorNotConfigured
	}
	return &Client{executor: executor}, nil
}

// LastCommit returns the most recent commit touching path. The boolean is false when git
// reports no commit or its output does not split into exactly three fields.
func (client *Client) LastCommit(executionContext context.Context, repositoryRoot string, path string) (Commit, bool, error) {
	pathSpec, pathError := normalizePathSpec(path)
	if pathError != nil {
		return Commit{}, false, pathError
	}

	standardOutput, executionError := client.execute(executionContext, repositoryRoot,
		gitLogSubcommandConstant,
		gitSingleRevisionFlagConstant,
		lastCommitFormatFlagConstant,
		gitStrictISODateFlagConstant,
		gitPathSpecSeparatorConstant,
		pathSpec,
	)
	if executionError != nil {
		return Commit{}, false, executionError
	}

	trimmedOutput := strings.TrimSpace(standardOutput)
	if len(trimmedOutput) == 0 {
		return Commit{}, false, nil
	}

	fields := strings.Split(trimmedOutput, fieldSeparatorConstant)
	if len(fields) != lastCommitFieldCountConstant {
		return Commit{}, false, nil
	}

	return Commit{AuthorName: fields[0], AuthorEmail: fields[1], Timestamp: fields[2]}, true, nil
}

// FileRevisions lists every revision touching file, newest first. Lines that do not carry all five fields are skipped.
func (client *Client) FileRevisions(executionContext context.Context, repositoryRoot string, file string) ([]Revision, error) {
	pathSpec, pathError := normalizePathSpec(file)
	if pathError != nil {
		return nil, pathError
	}

	standardOutput, executionError := client.execute(executionContext, repositoryRoot,
		gitLogSubcommandConstant,
		revisionFormatFlagConstant,
		gitStrictISODateFlagConstant,
		gitPathSpecSeparatorConstant,
		pathSpec,
	)
	if executionError != nil {
		return nil, executionError
	}

	var revisions []Revision
	for _, line := range strings.Split(strings.TrimSpace(standardOutput), lineSeparatorConstant) {
		if len(line) == 0 {
			continue
		}
		fields := strings.SplitN(line, fieldSeparatorConstant, revisionFieldCountConstant)
		if len(fields) != revisionFieldCountConstant {
			continue
		}
		revisions = append(revisions, Revision{
			Identifier:  fields[0],
			AuthorName:  fields[1],
			AuthorEmail: fields[2],
			Timestamp:   fields[3],
			Subject:     fields[4],
		})
	}

	return revisions, nil
}

// FileDiff returns the textual diff of file introduced by revision, without the commit header.
func (client *Client) FileDiff(executionContext context.Context, repositoryRoot string, revision string, file string) (string, error) {
	trimmedRevision := strings.TrimSpace(revision)
	if len(trimmedRevision) == 0 {
		return "", ErrRevisionRequired
	}
	pathSpec, pathError := normalizePathSpec(file)
	if pathError != nil {
		return "", pathError
	}

	return client.execute(executionContext, repositoryRoot,
		gitShowSubcommandConstant,
		gitEmptyFormatFlagConstant,
		gitNoColorFlagConstant,
		trimmedRevision,
		gitPathSpecSeparatorConstant,
		pathSpec,
	)
}

// RemoteURL returns the configured URL of the named remote; an empty name means origin.
func (client *Client) RemoteURL(executionContext context.Context, repositoryRoot string, remoteName string) (string, error) {
	trimmedRemoteName := strings.TrimSpace(remoteName)
	if len(trimmedRemoteName) == 0 {
		trimmedRemoteName = defaultRemoteNameConstant
	}

	standardOutput, executionError := client.execute(executionContext, repositoryRoot,
		gitRemoteSubcommandConstant,
		gitRemoteGetURLSubcommandConstant,
		trimmedRemoteName,
	)
	if executionError != nil {
		return "", executionError
	}
	return strings.TrimSpace(standardOutput), nil
}

func (client *Client) execute(executionContext context.Context, repositoryRoot string, arguments ...string) (string, error) {
	executionResult, executionError := client.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        arguments,
		WorkingDirectory: repositoryRoot,
		EnvironmentVariables: map[string]string{
			gitTerminalPromptEnvironmentNameConstant: gitTerminalPromptEnvironmentDisableConstant,
		},
	})
	if executionError != nil {
		return "", executionError
	}
	return executionResult.StandardOutput, nil
}

func normalizePathSpec(path string) (string, error) {
	trimmedPath := strings.TrimSpace(path)
	if len(trimmedPath) == 0 {
		return "", ErrPathRequired
	}
	return filepath.ToSlash(trimmedPath), nil
}
