package contracts

import (
	"fmt"
	"time"
)

// Stage identifies the pipeline stage where an error occurred.
type Stage string

const (
	StageFetch      Stage = "fetch"
	StageValidate   Stage = "validate"
	StageIndicators Stage = "indicators"
	StageSurge      Stage = "surge"
	StageScore      Stage = "score"
)

// DataIntegrityError reports a malformed input bar. Not recoverable,
// aborts analysis of that symbol.
type DataIntegrityError struct {
	Symbol string
	Date   time.Time
	Reason string
}

func (e *DataIntegrityError) Error() string {
	if e.Date.IsZero() {
		return fmt.Sprintf("data integrity violation for %s: %s", e.Symbol, e.Reason)
	}
	return fmt.Sprintf("data integrity violation for %s at %s: %s",
		e.Symbol, e.Date.Format("2006-01-02"), e.Reason)
}

// InsufficientDataError reports a series too short for even the
// shortest indicator. Aborts that symbol only.
type InsufficientDataError struct {
	Symbol  string
	Bars    int
	MinBars int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient data for %s: %d bars, need at least %d",
		e.Symbol, e.Bars, e.MinBars)
}

// DataUnavailableError reports a collaborator fetch failure or timeout.
// Aborts that symbol only.
type DataUnavailableError struct {
	Symbol string
	Stage  Stage
	Err    error
}

func (e *DataUnavailableError) Error() string {
	return fmt.Sprintf("data unavailable for %s (stage %s): %v", e.Symbol, e.Stage, e.Err)
}

func (e *DataUnavailableError) Unwrap() error { return e.Err }

// ConfigurationError reports an invalid threshold, window or weight.
// Fatal at startup of an analysis call, never silently defaulted.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration %s: %s", e.Field, e.Reason)
}

// InsufficientSymbolsError reports a comparison with fewer than two
// usable symbols.
type InsufficientSymbolsError struct {
	Provided int
	Usable   int
}

func (e *InsufficientSymbolsError) Error() string {
	return fmt.Sprintf("comparison needs at least 2 symbols: %d provided, %d usable",
		e.Provided, e.Usable)
}

// SymbolFailure is the tagged failure variant collected during batch
// and comparison runs. Per-symbol failures never cross task boundaries
// as errors; they are recorded here instead.
type SymbolFailure struct {
	Symbol string `json:"symbol"`
	Name   string `json:"name,omitempty"`
	Stage  Stage  `json:"stage"`
	Reason string `json:"reason"`
}

// BatchFailureError reports a batch where zero symbols succeeded.
type BatchFailureError struct {
	Preset   string
	Failures []SymbolFailure
}

func (e *BatchFailureError) Error() string {
	return fmt.Sprintf("batch %q failed: all %d symbols failed", e.Preset, len(e.Failures))
}
