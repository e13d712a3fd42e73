package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/chriserin/ftl/internal/interaction"
	"github.com/chriserin/ftl/internal/logger"
	"github.com/chriserin/ftl/internal/messages"
)

const (
	FeatureExt     = ".ft"
	InteractionExt = ".hcl"
)

// FindFeatureFiles returns the .ft files under paths, sorted.
func FindFeatureFiles(paths ...string) ([]string, error) {
	return findFiles(FeatureExt, paths)
}

// FindInteractionFiles returns the .hcl files under paths, sorted.
func FindInteractionFiles(paths ...string) ([]string, error) {
	return findFiles(InteractionExt, paths)
}

// findFiles collects files with ext from a mix of file and directory paths.
// Missing paths are skipped.
func findFiles(ext string, paths []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string

	add := func(path string) {
		clean := filepath.Clean(path)
		if !seen[clean] {
			seen[clean] = true
			files = append(files, clean)
		}
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			if os.IsNotExist(err) {
				logger.Debug("skipping missing path", "path", path)
				continue
			}
			return nil, fmt.Errorf("reading path %s: %w", path, err)
		}

		if !info.IsDir() {
			if filepath.Ext(path) == ext {
				add(path)
			}
			continue
		}

		err = filepath.Walk(path, func(p string, fi os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if !fi.IsDir() && filepath.Ext(p) == ext {
				add(p)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walking %s: %w", path, err)
		}
	}

	sort.Strings(files)
	return files, nil
}

// LoadInteractions reads every interaction file under paths.
func LoadInteractions(paths ...string) ([]*interaction.File, []messages.CompilerMessage, error) {
	names, err := FindInteractionFiles(paths...)
	if err != nil {
		return nil, nil, err
	}

	var files []*interaction.File
	var msgs []messages.CompilerMessage
	for _, name := range names {
		f, fileMsgs, err := ReadInteractionFile(name)
		if err != nil {
			return nil, nil, err
		}
		files = append(files, f)
		msgs = append(msgs, fileMsgs...)
	}
	return files, msgs, nil
}
