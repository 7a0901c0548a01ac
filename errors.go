package hxbind

import (
	"errors"
	"fmt"

	"github.com/pthm/hxbind/lib/dom"
	"github.com/pthm/hxbind/lib/encoding"
	"github.com/pthm/hxbind/lib/script"
	"github.com/pthm/hxbind/lib/template"
)

// Sentinel errors for interpreter operations.
var (
	ErrSchemaFrozen         = errors.New("hxbind: schema is frozen")
	ErrDuplicateInstruction = errors.New("hxbind: instruction already defined")
	ErrDuplicateAttribute   = errors.New("hxbind: marker attribute already in use")
	ErrBadSelector          = errors.New("hxbind: invalid target selector")
	ErrTemplateNotFound     = errors.New("hxbind: template not found")
	ErrNoParent             = errors.New("hxbind: target has no parent")
	ErrNotCallable          = errors.New("hxbind: value is not callable")
	ErrScript               = errors.New("hxbind: script failed")
	ErrBadContent           = errors.New("hxbind: invalid content reference")
	ErrSnapshotInvalid      = errors.New("hxbind: template snapshot invalid")
)

// IsScriptError checks if err came from user code in an exec or call
// instruction.
func IsScriptError(err error) bool {
	return errors.Is(err, ErrScript) || errors.Is(err, ErrNotCallable)
}

// IsNotFound checks if err is a missing template.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrTemplateNotFound)
}

// wrapLibError maps errors of the lib packages onto hxbind sentinels while
// keeping the original in the chain.
func wrapLibError(err error) error {
	if err == nil {
		return nil
	}
	var sentinel error
	switch {
	case errors.Is(err, dom.ErrBadSelector):
		sentinel = ErrBadSelector
	case errors.Is(err, dom.ErrNoParent):
		sentinel = ErrNoParent
	case errors.Is(err, template.ErrNotFound):
		sentinel = ErrTemplateNotFound
	case errors.Is(err, script.ErrNotCallable):
		sentinel = ErrNotCallable
	case errors.Is(err, script.ErrScript):
		sentinel = ErrScript
	case errors.Is(err, encoding.ErrInvalidFormat),
		errors.Is(err, encoding.ErrSignatureInvalid),
		errors.Is(err, encoding.ErrDecryptFailed),
		errors.Is(err, template.ErrBadVersion):
		sentinel = ErrSnapshotInvalid
	default:
		return err
	}
	return fmt.Errorf("%w: %w", sentinel, err)
}
