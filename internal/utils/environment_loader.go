package utils

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

const (
	// DefaultEnvironmentFileNameConstant names the dotenv file read when no other name is configured.
	DefaultEnvironmentFileNameConstant       = ".env"
	environmentFileLoadErrorTemplateConstant = "failed to load environment file %s: %w"
)

// EnvironmentFileLoader reads dotenv files so configuration overrides can live next to the repository.
type EnvironmentFileLoader struct {
	searchDirectories []string
	fileName          string
}

// NewEnvironmentFileLoader creates a loader that looks for fileName in each search directory.
func NewEnvironmentFileLoader(fileName string, searchDirectories []string) *EnvironmentFileLoader {
	trimmedFileName := strings.TrimSpace(fileName)
	if len(trimmedFileName) == 0 {
		trimmedFileName = DefaultEnvironmentFileNameConstant
	}

	duplicatedDirectories := make([]string, len(searchDirectories))
	copy(duplicatedDirectories, searchDirectories)

	return &EnvironmentFileLoader{searchDirectories: duplicatedDirectories, fileName: trimmedFileName}
}

// Load applies every existing dotenv file. Variables already present in the process environment keep their values.
// It returns the paths that were loaded.
func (loader *EnvironmentFileLoader) Load() ([]string, error) {
	if loader == nil {
		return nil, nil
	}

	var loadedPaths []string
	for _, searchDirectory := range loader.searchDirectories {
		candidatePath := filepath.Join(searchDirectory, loader.fileName)
		loadError := godotenv.Load(candidatePath)
		if loadError == nil {
			loadedPaths = append(loadedPaths, candidatePath)
			continue
		}
		if errors.Is(loadError, fs.ErrNotExist) {
			continue
		}
		return loadedPaths, fmt.Errorf(environmentFileLoadErrorTemplateConstant, candidatePath, loadError)
	}

	return loadedPaths, nil
}
