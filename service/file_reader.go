package service

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/codepulse/codepulse/domain"
)

// FileReaderImpl implements the FileReader interface
type FileReaderImpl struct{}

// NewFileReader creates a new file reader service
func NewFileReader() *FileReaderImpl {
	return &FileReaderImpl{}
}

// CollectPythonFiles finds all Python files under the given paths
func (f *FileReaderImpl) CollectPythonFiles(paths []string, recursive bool, includePatterns, excludePatterns []string) ([]string, error) {
	var files []string

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, domain.NewFileNotFoundError(path, err)
		}

		if info.IsDir() {
			dirFiles, err := f.collectFromDirectory(path, recursive, includePatterns, excludePatterns)
			if err != nil {
				return nil, err
			}
			files = append(files, dirFiles...)
		} else {
			if f.IsValidPythonFile(path) && f.shouldIncludeFile(path, includePatterns, excludePatterns) {
				files = append(files, path)
			}
		}
	}

	return files, nil
}

// ReadFile reads the content of a file
func (f *FileReaderImpl) ReadFile(path string) ([]byte, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, domain.NewFileNotFoundError(path, err)
	}
	return content, nil
}

// IsValidPythonFile checks if a file is a Python source file
func (f *FileReaderImpl) IsValidPythonFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".py" || ext == ".pyi"
}

// ValidatePaths checks that all provided paths exist and are accessible
func (f *FileReaderImpl) ValidatePaths(paths []string) error {
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			if os.IsNotExist(err) {
				return domain.NewFileNotFoundError(path, err)
			}
			return domain.NewInvalidInputError(fmt.Sprintf("cannot access path: %s", path), err)
		}
	}
	return nil
}

// collectFromDirectory walks a directory collecting Python files
func (f *FileReaderImpl) collectFromDirectory(dirPath string, recursive bool, includePatterns, excludePatterns []string) ([]string, error) {
	var files []string

	walkFunc := func(path string, info os.FileInfo, err error) error {
		if err != nil {
			// Unreadable entries are skipped, not fatal
			return nil
		}

		if info.IsDir() && !recursive && path != dirPath {
			return filepath.SkipDir
		}

		// Hidden files and directories are never scanned
		if strings.HasPrefix(info.Name(), ".") && path != dirPath {
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if info.IsDir() && f.shouldSkipDirectory(info.Name()) {
			return filepath.SkipDir
		}

		if !info.IsDir() && f.IsValidPythonFile(path) {
			if f.shouldIncludeFile(path, includePatterns, excludePatterns) {
				files = append(files, path)
			}
		}

		return nil
	}

	if err := filepath.Walk(dirPath, walkFunc); err != nil {
		return nil, fmt.Errorf("failed to walk directory %s: %w", dirPath, err)
	}

	return files, nil
}

// shouldIncludeFile checks a path against include and exclude globs.
// Patterns support ** via doublestar and match either the full path or
// the base name.
func (f *FileReaderImpl) shouldIncludeFile(path string, includePatterns, excludePatterns []string) bool {
	normalized := filepath.ToSlash(path)

	for _, pattern := range excludePatterns {
		if matched, _ := doublestar.Match(pattern, normalized); matched {
			return false
		}
		if matched, _ := doublestar.Match(pattern, filepath.Base(path)); matched {
			return false
		}
	}

	if len(includePatterns) == 0 {
		return true
	}

	for _, pattern := range includePatterns {
		if matched, _ := doublestar.Match(pattern, normalized); matched {
			return true
		}
		if matched, _ := doublestar.Match(pattern, filepath.Base(path)); matched {
			return true
		}
	}

	return false
}

// shouldSkipDirectory checks if a directory should be skipped entirely
func (f *FileReaderImpl) shouldSkipDirectory(dirName string) bool {
	skipDirs := []string{
		"__pycache__",
		"node_modules",
		"venv",
		"env",
		"build",
		"dist",
		"*.egg-info",
	}

	dirLower := strings.ToLower(dirName)
	for _, skipDir := range skipDirs {
		if matched, _ := filepath.Match(skipDir, dirLower); matched {
			return true
		}
	}

	return false
}
