package types

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileInfo represents analyzed file information
type FileInfo struct {
	Path        string            `json:"path"`
	ContentType string            `json:"type"`
	Size        int64             `json:"size"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// Name returns the base name of the file
func (f *FileInfo) Name() string {
	return filepath.Base(f.Path)
}

// Stem returns the base name without its extension
func (f *FileInfo) Stem() string {
	name := f.Name()
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// ToJSON converts FileInfo to JSON string
func (f *FileInfo) ToJSON() string {
	jsonBytes, _ := json.Marshal(f)
	return string(jsonBytes)
}

// String returns a human-readable representation
func (f *FileInfo) String() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("File: %s\n", f.Path))
	sb.WriteString(fmt.Sprintf("Type: %s\n", f.ContentType))
	sb.WriteString(fmt.Sprintf("Size: %d bytes\n", f.Size))
	if len(f.Metadata) > 0 {
		sb.WriteString(fmt.Sprintf("Metadata: %d fields\n", len(f.Metadata)))
	}
	return sb.String()
}

// IsSymlink checks if the file is a symbolic link
func (f *FileInfo) IsSymlink() bool {
	info, err := os.Lstat(f.Path)
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeSymlink != 0
}
