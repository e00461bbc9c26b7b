// Package translator defines the text-translation client used by the merge
// engine and implements it against a signed HTTP translation service.
package translator

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/faustlauncher/locsync/policy"
)

// ---------------------------------------------------------------------------
// Client contract
// ---------------------------------------------------------------------------

// Client translates text. Implementations never panic on remote failures:
// every network, timeout or service error comes back as a failed Result.
type Client interface {
	Translate(ctx context.Context, text string, dir Direction) Result
}

// Func adapts a plain function to the Client interface.
type Func func(ctx context.Context, text string, dir Direction) Result

// Translate calls f.
func (f Func) Translate(ctx context.Context, text string, dir Direction) Result {
	return f(ctx, text, dir)
}

// Result is either a translated string or a failure.
type Result struct {
	Text string
	Err  error
}

// Ok returns a successful result.
func Ok(text string) Result { return Result{Text: text} }

// Fail returns a failed result. A nil error is replaced by ErrUnknown so the
// result can never be mistaken for a success.
func Fail(err error) Result {
	if err == nil {
		err = ErrUnknown
	}
	return Result{Err: err}
}

// OK reports whether the translation succeeded.
func (r Result) OK() bool { return r.Err == nil }

// Failure sentinels.
var (
	ErrUnknown     = errors.New("translation failed")
	ErrEmptyText   = errors.New("empty text")
	ErrEmptyResult = errors.New("empty translation result")
	ErrTimeout     = errors.New("request timed out")
)

// ---------------------------------------------------------------------------
// Directions and detection
// ---------------------------------------------------------------------------

// Direction selects the language pair of a call.
type Direction int

const (
	// AutoToTarget detects the input language and translates into the target language.
	AutoToTarget Direction = iota
	// TargetToSource translates target-language text back into the source language.
	TargetToSource
	// SourceToTarget translates source-language text into the target language.
	SourceToTarget
)

var directionNames = map[Direction]string{
	AutoToTarget:   "auto_to_zh",
	TargetToSource: "zh_to_en",
	SourceToTarget: "en_to_zh",
}

// String returns the command-line name of the direction.
func (d Direction) String() string {
	if name, ok := directionNames[d]; ok {
		return name
	}
	return fmt.Sprintf("direction(%d)", int(d))
}

// ParseDirection parses a command-line direction name.
func ParseDirection(s string) (Direction, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return AutoToTarget, nil
	}
	for d, name := range directionNames {
		if name == s {
			return d, nil
		}
	}
	return 0, fmt.Errorf("unsupported direction %q (valid: auto_to_zh, zh_to_en, en_to_zh)", s)
}

// Language is the outcome of script detection.
type Language int

const (
	LangUnknown Language = iota
	LangSource
	LangTarget
)

// Detect classifies text by script: target-language ideographs win, then
// any alphabetic character means source language.
func Detect(text string) Language {
	switch {
	case policy.HasIdeograph(text):
		return LangTarget
	case policy.HasLetter(text):
		return LangSource
	default:
		return LangUnknown
	}
}
