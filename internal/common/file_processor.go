package common

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"atscore/internal/errors"
	"atscore/internal/utils"
)

// FileProcessor handles common file operations
type FileProcessor struct {
	logger *errors.Logger
}

// NewFileProcessor creates a new file processor instance
func NewFileProcessor(logger *errors.Logger) *FileProcessor {
	return &FileProcessor{logger: logger}
}

// ReadFile reads content from a file with proper error handling
func (fp *FileProcessor) ReadFile(filename string) (string, error) {
	file, err := os.Open(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.NewIOError(errors.ErrCodeFileNotFound,
				fmt.Sprintf("File not found: %s", filename), err)
		}
		return "", errors.NewIOError(errors.ErrCodeFileNotReadable,
			fmt.Sprintf("Cannot read file: %s", filename), err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			fp.logger.Warn("Failed to close file", "filename", filename, "error", err)
		}
	}()

	content, err := io.ReadAll(file)
	if err != nil {
		return "", errors.NewIOError(errors.ErrCodeFileNotReadable,
			fmt.Sprintf("Failed to read file content: %s", filename), err)
	}

	return string(content), nil
}

// WriteFile writes content to a file with directory creation
func (fp *FileProcessor) WriteFile(filename, content string) error {
	dir := filepath.Dir(filename)
	if dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return errors.NewIOError("DIRECTORY_CREATE_FAILED",
				fmt.Sprintf("Cannot create directory: %s", dir), err)
		}
	}

	if err := os.WriteFile(filename, []byte(content), 0600); err != nil {
		return errors.NewIOError("FILE_WRITE_FAILED",
			fmt.Sprintf("Cannot write file: %s", filename), err)
	}

	return nil
}

// ReadJobDescription reads a job description file. Only text files are
// accepted; the description is embedded verbatim in prompts.
func (fp *FileProcessor) ReadJobDescription(filename string) (string, error) {
	if _, err := utils.ValidateInputFile(filename); err != nil {
		return "", errors.NewValidationError("INVALID_INPUT_FILE",
			fmt.Sprintf("Invalid job description file %s", filename), err)
	}
	if !utils.IsTextFile(filename) {
		fp.logger.Warn("Job description may not be a text file", "filename", filename)
	}
	return fp.ReadFile(filename)
}

// ValidateResumeFile checks the resume path before analysis and logs its size
func (fp *FileProcessor) ValidateResumeFile(filename string) error {
	info, err := utils.ValidateInputFile(filename)
	if err != nil {
		return errors.NewValidationError("INVALID_INPUT_FILE",
			fmt.Sprintf("Invalid resume file %s", filename), err)
	}
	fp.logger.Debug("Resume file accepted",
		"filename", filename,
		"extension", utils.GetFileExtension(filename),
		"size", utils.FormatFileSize(info.Size()))
	return nil
}

// ValidateOutputFile validates output file path
func (fp *FileProcessor) ValidateOutputFile(filename string) error {
	if filename == "" {
		return nil // stdout is valid
	}

	if err := utils.ValidateOutputFile(filename); err != nil {
		return errors.NewValidationError("INVALID_OUTPUT_FILE",
			fmt.Sprintf("Invalid output file: %s", filename), err)
	}

	return nil
}
