package generator

import (
	"fmt"
	"path/filepath"
	"strings"
)

const (
	configurationKeySeparatorConstant            = "."
	repositoryRootKeyConstant                    = "repository_root"
	repositoryURLKeyConstant                     = "repository_url"
	defaultBranchKeyConstant                     = "default_branch"
	entriesDirectoryKeyConstant                  = "entries_directory"
	entryDocumentKeyConstant                     = "entry_document"
	trackedFileKeyConstant                       = "tracked_file"
	outputFileKeyConstant                        = "output_file"
	titleKeyConstant                             = "title"
	linkKeyConstant                              = "link"
	descriptionKeyConstant                       = "description"
	selfURLKeyConstant                           = "self_url"
	fallbackAuthorKeyConstant                    = "fallback_author"
	fallbackEmailKeyConstant                     = "fallback_email"
	defaultRepositoryRootConstant                = "."
	defaultRepositoryURLConstant                 = "https://github.com/tonyandrewmeyer/charming-with-claude"
	defaultBranchConstant                        = "main"
	defaultEntriesDirectoryConstant              = "experiments"
	defaultEntryDocumentConstant                 = "README.md"
	defaultTrackedFileConstant                   = "READTHEM.md"
	defaultOutputFileConstant                    = "feed.rss"
	defaultTitleConstant                         = "Charming with Claude - Updates"
	defaultDescriptionConstant                   = "Updates from the Charming with Claude repository: new experiments and reading list additions"
	defaultSelfURLConstant                       = "https://tonyandrewmeyer.github.io/charming-with-claude/feed.rss"
	defaultFallbackAuthorConstant                = "Unknown"
	defaultFallbackEmailConstant                 = "unknown@example.com"
	requiredConfigurationValueMessageConstant    = "value must be provided"
	invalidConfigurationErrorTemplateConstant    = "invalid feed configuration %s: %s"
	repositoryURLTrailingSeparatorConstant       = "/"
	outputFileOutsideRootMessageConstant         = "must name a file inside the repository root"
	parentDirectoryReferenceConstant             = ".."
	entriesDirectoryOutsideRootMessageConstant   = "must name a directory inside the repository root"
	configurationPathSeparatorCharactersConstant = `/\`
)

// InvalidConfigurationError describes a configuration value that cannot drive generation.
type InvalidConfigurationError struct {
	FieldName string
	Message   string
}

// Error describes the invalid value.
func (configurationError InvalidConfigurationError) Error() string {
	return fmt.Sprintf(invalidConfigurationErrorTemplateConstant, configurationError.FieldName, configurationError.Message)
}

// Configuration captures the persisted feed settings.
type Configuration struct {
	RepositoryRoot   string `mapstructure:"repository_root"`
	RepositoryURL    string `mapstructure:"repository_url"`
	DefaultBranch    string `mapstructure:"default_branch"`
	EntriesDirectory string `mapstructure:"entries_directory"`
	EntryDocument    string `mapstructure:"entry_document"`
	TrackedFile      string `mapstructure:"tracked_file"`
	OutputFile       string `mapstructure:"output_file"`
	Title            string `mapstructure:"title"`
	Link             string `mapstructure:"link"`
	Description      string `mapstructure:"description"`
	SelfURL          string `mapstructure:"self_url"`
	FallbackAuthor   string `mapstructure:"fallback_author"`
	FallbackEmail    string `mapstructure:"fallback_email"`
}

// DefaultConfiguration returns the settings used when nothing is configured.
func DefaultConfiguration() Configuration {
	return Configuration{
		RepositoryRoot:   defaultRepositoryRootConstant,
		RepositoryURL:    defaultRepositoryURLConstant,
		DefaultBranch:    defaultBranchConstant,
		EntriesDirectory: defaultEntriesDirectoryConstant,
		EntryDocument:    defaultEntryDocumentConstant,
		TrackedFile:      defaultTrackedFileConstant,
		OutputFile:       defaultOutputFileConstant,
		Title:            defaultTitleConstant,
		Link:             "",
		Description:      defaultDescriptionConstant,
		SelfURL:          defaultSelfURLConstant,
		FallbackAuthor:   defaultFallbackAuthorConstant,
		FallbackEmail:    defaultFallbackEmailConstant,
	}
}

// DefaultConfigurationValues exposes DefaultConfiguration as configuration keys nested under rootKey.
func DefaultConfigurationValues(rootKey string) map[string]any {
	defaults := DefaultConfiguration()
	return map[string]any{
		rootKey + configurationKeySeparatorConstant + repositoryRootKeyConstant:   defaults.RepositoryRoot,
		rootKey + configurationKeySeparatorConstant + repositoryURLKeyConstant:    defaults.RepositoryURL,
		rootKey + configurationKeySeparatorConstant + defaultBranchKeyConstant:    defaults.DefaultBranch,
		rootKey + configurationKeySeparatorConstant + entriesDirectoryKeyConstant: defaults.EntriesDirectory,
		rootKey + configurationKeySeparatorConstant + entryDocumentKeyConstant:    defaults.EntryDocument,
		rootKey + configurationKeySeparatorConstant + trackedFileKeyConstant:      defaults.TrackedFile,
		rootKey + configurationKeySeparatorConstant + outputFileKeyConstant:       defaults.OutputFile,
		rootKey + configurationKeySeparatorConstant + titleKeyConstant:            defaults.Title,
		rootKey + configurationKeySeparatorConstant + linkKeyConstant:             defaults.Link,
		rootKey + configurationKeySeparatorConstant + descriptionKeyConstant:      defaults.Description,
		rootKey + configurationKeySeparatorConstant + selfURLKeyConstant:          defaults.SelfURL,
		rootKey + configurationKeySeparatorConstant + fallbackAuthorKeyConstant:   defaults.FallbackAuthor,
		rootKey + configurationKeySeparatorConstant + fallbackEmailKeyConstant:    defaults.FallbackEmail,
	}
}

// Sanitize trims every value and strips trailing separators from the repository URL.
func (configuration Configuration) Sanitize() Configuration {
	sanitized := configuration
	sanitized.RepositoryRoot = strings.TrimSpace(configuration.RepositoryRoot)
	sanitized.RepositoryURL = strings.TrimRight(strings.TrimSpace(configuration.RepositoryURL), repositoryURLTrailingSeparatorConstant)
	sanitized.DefaultBranch = strings.TrimSpace(configuration.DefaultBranch)
	sanitized.EntriesDirectory = strings.Trim(strings.TrimSpace(configuration.EntriesDirectory), configurationPathSeparatorCharactersConstant)
	sanitized.EntryDocument = strings.TrimSpace(configuration.EntryDocument)
	sanitized.TrackedFile = strings.TrimSpace(configuration.TrackedFile)
	sanitized.OutputFile = strings.TrimSpace(configuration.OutputFile)
	sanitized.Title = strings.TrimSpace(configuration.Title)
	sanitized.Link = strings.TrimSpace(configuration.Link)
	sanitized.Description = strings.TrimSpace(configuration.Description)
	sanitized.SelfURL = strings.TrimSpace(configuration.SelfURL)
	sanitized.FallbackAuthor = strings.TrimSpace(configuration.FallbackAuthor)
	sanitized.FallbackEmail = strings.TrimSpace(configuration.FallbackEmail)
	return sanitized
}

// Validate reports the first value that cannot drive generation. The repository URL is checked separately
// because it may still be derived from the origin remote.
func (configuration Configuration) Validate() error {
	requiredValues := []struct {
		fieldName string
		value     string
	}{
		{fieldName: defaultBranchKeyConstant, value: configuration.DefaultBranch},
		{fieldName: entriesDirectoryKeyConstant, value: configuration.EntriesDirectory},
		{fieldName: entryDocumentKeyConstant, value: configuration.EntryDocument},
		{fieldName: trackedFileKeyConstant, value: configuration.TrackedFile},
		{fieldName: outputFileKeyConstant, value: configuration.OutputFile},
		{fieldName: titleKeyConstant, value: configuration.Title},
	}
	for _, requiredValue := range requiredValues {
		if len(requiredValue.value) == 0 {
			return InvalidConfigurationError{FieldName: requiredValue.fieldName, Message: requiredConfigurationValueMessageConstant}
		}
	}

	if escapesRoot(configuration.EntriesDirectory) {
		return InvalidConfigurationError{FieldName: entriesDirectoryKeyConstant, Message: entriesDirectoryOutsideRootMessageConstant}
	}
	if escapesRoot(configuration.OutputFile) {
		return InvalidConfigurationError{FieldName: outputFileKeyConstant, Message: outputFileOutsideRootMessageConstant}
	}

	return nil
}

// ChannelLink returns the configured channel link, or the repository URL when none is set.
func (configuration Configuration) ChannelLink() string {
	if len(configuration.Link) > 0 {
		return configuration.Link
	}
	return configuration.RepositoryURL
}

func escapesRoot(relativePath string) bool {
	if filepath.IsAbs(relativePath) || filepath.VolumeName(relativePath) != "" {
		return true
	}
	for _, segment := range strings.FieldsFunc(relativePath, isPathSeparator) {
		if segment == parentDirectoryReferenceConstant {
			return true
		}
	}
	return false
}

func isPathSeparator(character rune) bool {
	return strings.ContainsRune(configurationPathSeparatorCharactersConstant, character)
}
