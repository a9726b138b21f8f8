package organize

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"

	"declutter/internal/analysis"
	serr "declutter/internal/errors"
	log "declutter/internal/log"
	"declutter/internal/template"
	"declutter/pkg/types"
)

// Executor performs one filesystem action for one file. In dry-run
// mode it computes the same destinations but performs zero I/O, so a
// dry-run result is structurally identical to a real one.
type Executor struct {
	analysis   *analysis.Engine
	sourceRoot string
	dryRun     bool
}

// NewExecutor creates an executor rooted at sourceRoot
func NewExecutor(engine *analysis.Engine, sourceRoot string, dryRun bool) *Executor {
	return &Executor{analysis: engine, sourceRoot: sourceRoot, dryRun: dryRun}
}

// Execute dispatches a single action against the file at path and
// returns the file's resulting path. Deletions return an empty path.
func (x *Executor) Execute(path string, action types.Action) (string, error) {
	switch action.Type {
	case types.MoveAction:
		return x.move(path, action)
	case types.CopyAction:
		return x.copy(path, action)
	case types.RenameAction:
		return x.rename(path, action)
	case types.DeleteAction:
		return x.delete(path, action)
	case types.ExecuteAction:
		return x.command(path, action)
	case types.SkipAction:
		return path, nil
	default:
		return "", serr.NewFileError(fmt.Sprintf("unsupported action type: %s", action.Type), path, serr.InvalidOperation, nil)
	}
}

// destination computes where a Move/Copy action places the file. The
// action's "to" may be ~-relative, relative (resolved against the
// source root), or absolute, and may carry {year}/{month}/{day}
// tokens. With preserve_structure the file keeps its path relative to
// the source root under the new base; otherwise only the base name is
// appended.
func (x *Executor) destination(path string, action types.Action) string {
	base := expandHome(action.To)
	base = template.ExpandDateTokens(base, time.Now())
	if !filepath.IsAbs(base) {
		base = filepath.Join(x.sourceRoot, base)
	}

	if action.PreserveStructure {
		if rel, err := filepath.Rel(x.sourceRoot, path); err == nil && !strings.HasPrefix(rel, "..") {
			return filepath.Join(base, rel)
		}
	}
	return filepath.Join(base, filepath.Base(path))
}

func (x *Executor) move(path string, action types.Action) (string, error) {
	dest := x.destination(path, action)
	if x.dryRun {
		log.Debug("Would move %s -> %s", path, dest)
		return dest, nil
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return "", serr.NewFileError("failed to create destination directory", dest, serr.FileCreateFailed, err)
	}
	if err := os.Rename(path, dest); err != nil {
		return "", serr.NewFileError("failed to move file", path, serr.FileOperationFailed, err)
	}
	log.Debug("Moved %s -> %s", path, dest)
	return dest, nil
}

func (x *Executor) copy(path string, action types.Action) (string, error) {
	dest := x.destination(path, action)
	if x.dryRun {
		log.Debug("Would copy %s -> %s", path, dest)
		return dest, nil
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return "", serr.NewFileError("failed to create destination directory", dest, serr.FileCreateFailed, err)
	}
	if err := copyFile(path, dest); err != nil {
		return "", serr.NewFileError("failed to copy file", path, serr.FileOperationFailed, err)
	}
	log.Debug("Copied %s -> %s", path, dest)
	return dest, nil
}

// rename expands the action's template with the file's own metadata
// and changes only the name component.
func (x *Executor) rename(path string, action types.Action) (string, error) {
	meta, err := x.analysis.Metadata(path)
	if err != nil {
		// Template expansion is total; fall back to an empty mapping
		meta = map[string]string{}
	}
	newName := template.Expand(action.To, path, meta)
	dest := filepath.Join(filepath.Dir(path), newName)

	if x.dryRun {
		log.Debug("Would rename %s -> %s", path, dest)
		return dest, nil
	}
	if err := os.Rename(path, dest); err != nil {
		return "", serr.NewFileError("failed to rename file", path, serr.FileOperationFailed, err)
	}
	return dest, nil
}

func (x *Executor) delete(path string, action types.Action) (string, error) {
	if x.dryRun {
		log.Debug("Would delete %s (trash=%v)", path, action.Trash)
		return "", nil
	}

	if action.Trash {
		if err := moveToTrash(path); err != nil {
			return "", serr.NewFileError("failed to move to trash", path, serr.TrashFailed, err)
		}
		return "", nil
	}
	if err := os.Remove(path); err != nil {
		return "", serr.NewFileError("failed to delete file", path, serr.FileOperationFailed, err)
	}
	return "", nil
}

// command runs an external command with the action's arguments plus
// the file path appended as the final argument.
func (x *Executor) command(path string, action types.Action) (string, error) {
	args := append(append([]string{}, action.Args...), path)
	if x.dryRun {
		log.Debug("Would execute %s %v", action.Command, args)
		return path, nil
	}

	cmd := exec.Command(action.Command, args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		log.LogWithFields(log.F("command", action.Command), log.F("output", string(out))).Debugf("command failed: %v", err)
		return "", serr.NewFileError(fmt.Sprintf("command %q failed", action.Command), path, serr.CommandFailed, err)
	}
	return path, nil
}

// copyFile copies a regular file's contents, preserving nothing but
// the bytes.
func copyFile(src, dest string) error {
	srcFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer srcFile.Close()

	destFile, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer destFile.Close()

	_, err = io.Copy(destFile, srcFile)
	return err
}

// moveToTrash performs an XDG trash move: the file goes under
// Trash/files with a .trashinfo record alongside it.
func moveToTrash(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	trashDir := filepath.Join(xdg.DataHome, "Trash")
	filesDir := filepath.Join(trashDir, "files")
	infoDir := filepath.Join(trashDir, "info")
	if err := os.MkdirAll(filesDir, 0755); err != nil {
		return err
	}
	if err := os.MkdirAll(infoDir, 0755); err != nil {
		return err
	}

	name := uniqueTrashName(filesDir, filepath.Base(path))
	info := fmt.Sprintf("[Trash Info]\nPath=%s\nDeletionDate=%s\n", abs, time.Now().Format("2006-01-02T15:04:05"))
	if err := os.WriteFile(filepath.Join(infoDir, name+".trashinfo"), []byte(info), 0644); err != nil {
		return err
	}
	return os.Rename(path, filepath.Join(filesDir, name))
}

// uniqueTrashName avoids clobbering an earlier trashed file of the
// same name by adding a timestamp suffix.
func uniqueTrashName(filesDir, name string) string {
	if _, err := os.Stat(filepath.Join(filesDir, name)); os.IsNotExist(err) {
		return name
	}
	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)
	return base + time.Now().Format("_20060102_150405") + ext
}

// expandHome resolves a leading ~ against the user's home directory
func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return path
}
