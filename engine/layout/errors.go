package layout

import (
	"fmt"
	"strings"
)

// ErrorKind categorizes layout resolution errors.
// An ErrorKind is itself an error so it can be used as an errors.Is target.
type ErrorKind uint8

const (
	// ErrUnrecognizedResourceKind indicates a reflection record with a top-level category outside the known set.
	ErrUnrecognizedResourceKind ErrorKind = iota

	// ErrDuplicateBindingInShader indicates one shader declaring two resources at the same set and binding.
	ErrDuplicateBindingInShader

	// ErrDuplicateStageAtLocation indicates two shaders of the same stage binding the same set and binding in one pipeline.
	ErrDuplicateStageAtLocation

	// ErrTypeMismatchAtLocation indicates shaders in one pipeline disagreeing on the resource type at a set and binding.
	ErrTypeMismatchAtLocation

	// ErrCountMismatchAtLocation indicates shaders in one pipeline disagreeing on the array count at a set and binding.
	ErrCountMismatchAtLocation

	// ErrUnresolvedArraySize indicates an array binding whose size is not a compile-time literal, under the strict policy.
	ErrUnresolvedArraySize

	// ErrUnknownShader indicates a pipeline referencing a shader key that was never supplied.
	ErrUnknownShader

	// ErrEmptyPipeline indicates a pipeline with no shaders.
	ErrEmptyPipeline

	// ErrDuplicatePipeline indicates two pipelines sharing one name.
	ErrDuplicatePipeline
)

// String returns a human-readable error kind name.
func (k ErrorKind) String() string {
	switch k {
	case ErrUnrecognizedResourceKind:
		return "UnrecognizedResourceKind"
	case ErrDuplicateBindingInShader:
		return "DuplicateBindingInShader"
	case ErrDuplicateStageAtLocation:
		return "DuplicateStageAtLocation"
	case ErrTypeMismatchAtLocation:
		return "TypeMismatchAtLocation"
	case ErrCountMismatchAtLocation:
		return "CountMismatchAtLocation"
	case ErrUnresolvedArraySize:
		return "UnresolvedArraySize"
	case ErrUnknownShader:
		return "UnknownShader"
	case ErrEmptyPipeline:
		return "EmptyPipeline"
	case ErrDuplicatePipeline:
		return "DuplicatePipeline"
	default:
		return "Unknown"
	}
}

// Error implements the error interface.
func (k ErrorKind) Error() string {
	return "layout: " + k.String()
}

// Error is a single layout resolution error. Fields that do not apply to the kind are left zero.
type Error struct {
	// Kind categorizes the error.
	Kind ErrorKind

	// Pipeline names the pipeline the error was found in, empty for per-shader errors.
	Pipeline string

	// Shaders names the offending shaders. Location conflicts name both sides in order.
	Shaders []string

	// Set and Binding locate the conflict.
	Set     uint32
	Binding uint32

	// Values holds the conflicting values for the two shaders (stage, kind, type or count).
	// A type mismatch carries the kind names when the kinds differ and the type names otherwise.
	Values []string

	// Keys holds the unrecognized reflection keys, sorted.
	Keys []string
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch e.Kind {
	case ErrUnrecognizedResourceKind:
		return fmt.Sprintf("layout: shader %s: unrecognized resource kinds: %s", e.shader(0), strings.Join(e.Keys, ", "))
	case ErrDuplicateBindingInShader:
		return fmt.Sprintf("layout: shader %s: more than one resource at set %d, binding %d", e.shader(0), e.Set, e.Binding)
	case ErrUnresolvedArraySize:
		return fmt.Sprintf("layout: shader %s: array size at set %d, binding %d is not a compile-time literal", e.shader(0), e.Set, e.Binding)
	case ErrDuplicateStageAtLocation:
		return fmt.Sprintf("layout: pipeline %s: %s and %s are both %s shaders binding set %d, binding %d",
			e.Pipeline, e.shader(0), e.shader(1), e.value(0), e.Set, e.Binding)
	case ErrTypeMismatchAtLocation:
		return fmt.Sprintf("layout: pipeline %s: type mismatch at set %d, binding %d: %s declares %s, %s declares %s",
			e.Pipeline, e.Set, e.Binding, e.shader(0), e.value(0), e.shader(1), e.value(1))
	case ErrCountMismatchAtLocation:
		return fmt.Sprintf("layout: pipeline %s: count mismatch at set %d, binding %d: %s declares %s, %s declares %s",
			e.Pipeline, e.Set, e.Binding, e.shader(0), e.value(0), e.shader(1), e.value(1))
	case ErrUnknownShader:
		return fmt.Sprintf("layout: pipeline %s: unknown shader %s", e.Pipeline, e.shader(0))
	case ErrEmptyPipeline:
		return fmt.Sprintf("layout: pipeline %s has no shaders", e.Pipeline)
	case ErrDuplicatePipeline:
		return fmt.Sprintf("layout: pipeline %s is declared more than once", e.Pipeline)
	default:
		return fmt.Sprintf("layout: %s", e.Kind)
	}
}

// Is reports whether target is this error's kind.
func (e *Error) Is(target error) bool {
	k, ok := target.(ErrorKind)
	return ok && k == e.Kind
}

func (e *Error) shader(i int) string {
	if i < len(e.Shaders) {
		return e.Shaders[i]
	}
	return "?"
}

func (e *Error) value(i int) string {
	if i < len(e.Values) {
		return e.Values[i]
	}
	return "?"
}

// Errors is a batch of layout errors reported together.
type Errors []*Error

// Error implements the error interface, one error per line.
func (es Errors) Error() string {
	lines := make([]string, len(es))
	for i, e := range es {
		lines[i] = e.Error()
	}
	return strings.Join(lines, "\n")
}

// Unwrap exposes every error in the batch to errors.Is and errors.As.
func (es Errors) Unwrap() []error {
	out := make([]error, len(es))
	for i, e := range es {
		out[i] = e
	}
	return out
}

// Kinds returns the kind of each error, in order.
func (es Errors) Kinds() []ErrorKind {
	out := make([]ErrorKind, len(es))
	for i, e := range es {
		out[i] = e.Kind
	}
	return out
}

// asError returns es as an error, or a nil interface when the batch is empty.
func (es Errors) asError() error {
	if len(es) == 0 {
		return nil
	}
	return es
}

// WarningKind categorizes non-fatal findings.
type WarningKind uint8

const (
	// WarnUnsupportedResource indicates a recognized resource kind that is not turned into bindings.
	WarnUnsupportedResource WarningKind = iota

	// WarnUnresolvedArraySize indicates an array binding whose size could not be resolved and was taken as 1.
	WarnUnresolvedArraySize
)

// String returns a human-readable warning kind name.
func (k WarningKind) String() string {
	switch k {
	case WarnUnsupportedResource:
		return "UnsupportedResource"
	case WarnUnresolvedArraySize:
		return "UnresolvedArraySize"
	default:
		return "Unknown"
	}
}

// Warning is a non-fatal finding about one shader.
type Warning struct {
	Kind    WarningKind
	Shader  string
	Message string
}

// String renders the warning for logs.
func (w Warning) String() string {
	return fmt.Sprintf("%s: shader %s: %s", w.Kind, w.Shader, w.Message)
}
