package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	// Test creating a new error
	err := New("test error")
	assert.NotNil(t, err)
	assert.Equal(t, "test error", err.Error())

	// Test creating a new formatted error
	err = Newf("formatted %s", "error")
	assert.NotNil(t, err)
	assert.Equal(t, "formatted error", err.Error())

	// Check that the error is an ApplicationError
	var appErr *ApplicationError
	assert.True(t, As(err, &appErr))
	assert.Equal(t, "formatted error", appErr.Error())
	assert.Equal(t, Unknown, appErr.Kind())
}

func TestWrapping(t *testing.T) {
	// Test wrapping an error
	origErr := New("original error")
	wrappedErr := Wrap(origErr, "wrapped")
	assert.NotNil(t, wrappedErr)
	assert.Equal(t, "wrapped: original error", wrappedErr.Error())

	// Test unwrapping
	unwrappedErr := Unwrap(wrappedErr)
	assert.Equal(t, origErr, unwrappedErr)

	// Test wrapped formatted error
	wrappedFormatted := Wrapf(origErr, "formatted %s", "wrapper")
	assert.NotNil(t, wrappedFormatted)
	assert.Equal(t, "formatted wrapper: original error", wrappedFormatted.Error())

	// Test wrapping nil returns nil
	assert.Nil(t, Wrap(nil, "wrapper"))
	assert.Nil(t, Wrapf(nil, "formatted %s", "wrapper"))

	// Test deeper wrapping
	deepWrapped := Wrap(wrappedErr, "deeper")
	assert.Equal(t, "deeper: wrapped: original error", deepWrapped.Error())

	// Test Is function
	assert.True(t, Is(wrappedErr, origErr))
	assert.True(t, Is(deepWrapped, origErr))
}

func TestFileError(t *testing.T) {
	// Test creating a file error
	fileErr := NewFileError("cannot access", "/path/to/file", FileAccessDenied, nil)
	assert.NotNil(t, fileErr)
	assert.Equal(t, "cannot access: /path/to/file", fileErr.Error())
	assert.Equal(t, "/path/to/file", fileErr.Path())
	assert.Equal(t, FileAccessDenied, fileErr.Kind())

	// Test with wrapped error
	origErr := fmt.Errorf("permission denied")
	fileErr = NewFileError("cannot access", "/path/to/file", FileAccessDenied, origErr)
	assert.Equal(t, "cannot access: /path/to/file: permission denied", fileErr.Error())
	assert.Equal(t, origErr, Unwrap(fileErr))

	// Test predefined errors
	assert.Equal(t, "file not found", ErrFileNotFound.Error())
	assert.Equal(t, FileNotFound, ErrFileNotFound.Kind())

	// Test IsFileNotFound predicate
	notFoundErr := NewFileError("file not found", "/missing/file", FileNotFound, nil)
	assert.True(t, IsFileNotFound(notFoundErr))
	assert.False(t, IsFileNotFound(fileErr)) // This is FileAccessDenied

	// Test IsFileAccessDenied predicate
	assert.True(t, IsFileAccessDenied(fileErr))
	assert.False(t, IsFileAccessDenied(notFoundErr))

	// Test As for FileError
	var fe *FileError
	assert.True(t, As(fileErr, &fe))
	assert.Equal(t, "/path/to/file", fe.Path())
}

func TestExecutorErrorKinds(t *testing.T) {
	trashErr := NewFileError("failed to move to trash", "/path/to/file", TrashFailed, fmt.Errorf("no trash dir"))
	assert.True(t, IsTrashFailed(trashErr))
	assert.False(t, IsCommandFailed(trashErr))
	assert.Equal(t, "failed to move to trash: /path/to/file: no trash dir", trashErr.Error())

	cmdErr := NewFileError("command failed", "/path/to/file", CommandFailed, fmt.Errorf("exit status 2"))
	assert.True(t, IsCommandFailed(cmdErr))
	assert.False(t, IsTrashFailed(cmdErr))
}

func TestConfigError(t *testing.T) {
	// Test creating a config error
	configErr := NewConfigError("invalid value", "workers", InvalidConfig, nil)
	assert.NotNil(t, configErr)
	assert.Equal(t, "invalid value: workers", configErr.Error())
	assert.Equal(t, "workers", configErr.Param())
	assert.Equal(t, InvalidConfig, configErr.Kind())

	// Test with wrapped error
	origErr := fmt.Errorf("value out of range")
	configErr = NewConfigError("invalid value", "workers", InvalidConfig, origErr)
	assert.Equal(t, "invalid value: workers: value out of range", configErr.Error())

	// Test IsInvalidConfig predicate
	assert.True(t, IsInvalidConfig(configErr))
}

func TestRuleError(t *testing.T) {
	// Test creating a rule error
	ruleErr := NewRuleError("missing destination", "archive-pdfs", InvalidRule, nil)
	assert.NotNil(t, ruleErr)
	assert.Equal(t, "missing destination: archive-pdfs", ruleErr.Error())
	assert.Equal(t, "archive-pdfs", ruleErr.RuleID())
	assert.Equal(t, InvalidRule, ruleErr.Kind())
	assert.True(t, IsInvalidRule(ruleErr))

	// Test duplicate rule predicate
	dupErr := NewRuleError("duplicate rule id", "archive-pdfs", DuplicateRule, nil)
	assert.True(t, IsDuplicateRule(dupErr))
	assert.False(t, IsInvalidRule(dupErr))
}
