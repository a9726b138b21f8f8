// Package testutils holds small helpers shared by tests across packages.
package testutils

import (
	"os"
	"path/filepath"
	"testing"

	"gopkg.in/yaml.v3"

	"declutter/pkg/types"

	"github.com/stretchr/testify/require"
)

// CreateTestFilesWithContent creates test files with specific content
func CreateTestFilesWithContent(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644)
		require.NoError(t, err)
	}
}

// CreateTestFilesWithDefault creates a small mixed set of test files
func CreateTestFilesWithDefault(t *testing.T, dir string) {
	files := map[string]string{
		"test1.txt": "test content 1",
		"test2.txt": "test content 2",
		"test3.jpg": "image content",
	}
	CreateTestFilesWithContent(t, dir, files)
}

// WriteRuleSet marshals a rule set to a YAML file and returns its path
func WriteRuleSet(t *testing.T, dir string, rules []types.Rule) string {
	t.Helper()
	data, err := yaml.Marshal(types.RulesFile{Rules: rules})
	require.NoError(t, err)
	path := filepath.Join(dir, "rules.yaml")
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

// StripANSI removes ANSI escape sequences from a string
func StripANSI(str string) string {
	var result []rune
	inEscape := false
	for _, r := range str {
		if r == '\x1b' {
			inEscape = true
			continue
		}
		if inEscape {
			if (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') {
				inEscape = false
			}
			continue
		}
		result = append(result, r)
	}
	return string(result)
}
