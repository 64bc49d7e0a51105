package feed

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/repofeed/internal/filesystem"
)

const (
	outputFilePermissions             = fs.FileMode(0o644)
	outputFileRequiredMessageConstant = "output file must be provided"
	writeFeedErrorTemplateConstant    = "unable to write feed %s: %w"
	feedWrittenMessageConstant        = "Wrote feed"
	outputPathFieldNameConstant       = "output_path"
)

// ErrOutputFileRequired indicates an empty output file name was supplied.
var ErrOutputFileRequired = errors.New(outputFileRequiredMessageConstant)

// Writer persists rendered documents beneath a repository root.
type Writer struct {
	logger     *zap.Logger
	fileSystem filesystem.FileSystem
}

// NewWriter constructs a Writer; nil collaborators fall back to a no-op logger and the OS filesystem.
func NewWriter(logger *zap.Logger, fileSystem filesystem.FileSystem) *Writer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Writer{logger: logger, fileSystem: filesystem.Resolve(fileSystem)}
}

// Write stores document verbatim at outputFile relative to repositoryRoot, replacing any previous
// content, and returns the path written.
func (writer *Writer) Write(repositoryRoot string, outputFile string, document string) (string, error) {
	trimmedOutputFile := strings.TrimSpace(outputFile)
	if len(trimmedOutputFile) == 0 {
		return "", ErrOutputFileRequired
	}

	outputPath := filepath.Join(repositoryRoot, trimmedOutputFile)

	if writeError := writer.fileSystem.WriteFile(outputPath, []byte(document), outputFilePermissions); writeError != nil {
		return "", fmt.Errorf(writeFeedErrorTemplateConstant, outputPath, writeError)
	}

	writer.logger.Debug(feedWrittenMessageConstant,
		zap.String(outputPathFieldNameConstant, outputPath),
		zap.Int(outputLengthFieldNameConstant, len(document)),
	)
	return outputPath, nil
}
