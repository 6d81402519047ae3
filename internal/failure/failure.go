package failure

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Kind is the category of a failure. Fetch and config failures stop the run;
// rewrite and write failures are recovered where they happen.
type Kind string

const (
	KindFetch   Kind = "fetch"
	KindRewrite Kind = "rewrite"
	KindWrite   Kind = "write"
	KindConfig  Kind = "config"
)

// Error holds context about a failure.
type Error struct {
	Kind    Kind
	Message string
	Context map[string]string
	Cause   error
}

func (e *Error) Error() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("[%s] %s", e.Kind, e.Message))

	if len(e.Context) > 0 {
		keys := make([]string, 0, len(e.Context))
		for k := range e.Context {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, fmt.Sprintf("%s=%q", k, e.Context[k]))
		}
		sb.WriteString(" | context: {")
		sb.WriteString(strings.Join(parts, ", "))
		sb.WriteString("}")
	}

	if e.Cause != nil {
		sb.WriteString(fmt.Sprintf(" | cause: %v", e.Cause))
	}
	return sb.String()
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether err (or anything it wraps) is a failure of the given kind.
func Is(err error, kind Kind) bool {
	var fe *Error
	if !errors.As(err, &fe) {
		return false
	}
	return fe.Kind == kind
}

// NewFetch returns an error for a page that could not be retrieved.
func NewFetch(pageID string, cause error) *Error {
	return &Error{
		Kind:    KindFetch,
		Message: "could not fetch confluence page",
		Context: map[string]string{"page_id": pageID},
		Cause:   cause,
	}
}

// NewRewrite returns an error for a fragment the rewriter could not handle.
func NewRewrite(rewriter string, cause error) *Error {
	return &Error{
		Kind:    KindRewrite,
		Message: "rewrite failed, original text kept",
		Context: map[string]string{"rewriter": rewriter},
		Cause:   cause,
	}
}

// NewWrite returns an error for an output file that could not be written.
func NewWrite(path string, cause error) *Error {
	return &Error{
		Kind:    KindWrite,
		Message: "could not write output file",
		Context: map[string]string{"path": path},
		Cause:   cause,
	}
}

// NewConfig returns an error for invalid or incomplete settings.
func NewConfig(message string) *Error {
	return &Error{Kind: KindConfig, Message: message}
}
