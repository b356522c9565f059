package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// LoadedPrompts holds the content of prompts loaded from files
type LoadedPrompts struct {
	SystemPrompt string
	UserPrompt   string
}

// PromptStore keeps the file-backed prompts and can reload them while the
// process runs. Reads return a copy.
type PromptStore struct {
	mu         sync.RWMutex
	systemFile string
	userFile   string
	loaded     LoadedPrompts
}

// NewPromptStore creates a store for the prompt files named in cfg and loads
// them once.
func NewPromptStore(cfg PromptConfig) (*PromptStore, error) {
	s := &PromptStore{
		systemFile: cfg.SystemPromptFile,
		userFile:   cfg.UserPromptFile,
	}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Get returns the currently loaded prompts
func (s *PromptStore) Get() LoadedPrompts {
	if s == nil {
		return LoadedPrompts{}
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// Files returns the configured prompt file paths
func (s *PromptStore) Files() []string {
	if s == nil {
		return nil
	}
	var files []string
	if s.systemFile != "" {
		files = append(files, s.systemFile)
	}
	if s.userFile != "" {
		files = append(files, s.userFile)
	}
	return files
}

// Reload reads the prompt files again. On error the previously loaded
// prompts stay in place.
func (s *PromptStore) Reload() error {
	var next LoadedPrompts

	if s.systemFile != "" {
		content, err := loadPromptFromFile(s.systemFile, "system")
		if err != nil {
			return err
		}
		next.SystemPrompt = content
	}

	if s.userFile != "" {
		content, err := loadPromptFromFile(s.userFile, "user")
		if err != nil {
			return err
		}
		next.UserPrompt = content
	}

	s.mu.Lock()
	s.loaded = next
	s.mu.Unlock()

	logPromptLoadingSummary(next)
	return nil
}

// loadPromptFromFile loads a prompt from a file with proper error handling and logging
func loadPromptFromFile(filePath, promptType string) (string, error) {
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to resolve absolute path for %s prompt file '%s': %w", promptType, filePath, err)
	}

	if _, err := os.Stat(absPath); os.IsNotExist(err) {
		return "", fmt.Errorf("%s prompt file not found: %s", promptType, absPath)
	}

	content, err := os.ReadFile(absPath)
	if err != nil {
		return "", fmt.Errorf("failed to read %s prompt file '%s': %w", promptType, absPath, err)
	}

	trimmedContent := strings.TrimSpace(string(content))
	if trimmedContent == "" {
		return "", fmt.Errorf("%s prompt file '%s' is empty", promptType, absPath)
	}

	log.Printf("[CONFIG] Successfully loaded %s prompt from file: %s (%d characters)",
		promptType, absPath, len(trimmedContent))

	return trimmedContent, nil
}

// validatePromptFiles validates that prompt files exist before loading
func (c *Config) validatePromptFiles() error {
	var validationErrors []string

	validateFile := func(filePath, promptType string) {
		if filePath == "" {
			return
		}

		absPath, err := filepath.Abs(filePath)
		if err != nil {
			validationErrors = append(validationErrors, fmt.Sprintf("invalid path for %s prompt: %s", promptType, filePath))
			return
		}

		if _, err := os.Stat(absPath); os.IsNotExist(err) {
			validationErrors = append(validationErrors, fmt.Sprintf("%s prompt file not found: %s", promptType, absPath))
		}
	}

	validateFile(c.AI.CustomPrompts.SystemPromptFile, "system")
	validateFile(c.AI.CustomPrompts.UserPromptFile, "user")

	if len(validationErrors) > 0 {
		return fmt.Errorf("prompt file validation failed:\n%s", strings.Join(validationErrors, "\n"))
	}

	return nil
}

func logPromptLoadingSummary(p LoadedPrompts) {
	count := 0
	if p.SystemPrompt != "" {
		count++
	}
	if p.UserPrompt != "" {
		count++
	}
	if count == 0 {
		log.Println("[CONFIG] No custom prompt files loaded - using config or built-in defaults")
		return
	}
	log.Printf("[CONFIG] Total custom prompts loaded from files: %d", count)
}
