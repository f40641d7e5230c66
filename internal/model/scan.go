package model

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidCriteria is returned by ScanCriteria.Validate.
var ErrInvalidCriteria = errors.New("invalid scan criteria")

// MinConsecutiveDays is the smallest streak that still has two day-over-day transitions.
const MinConsecutiveDays = 2

// ScanCriteria configures one scan.
type ScanCriteria struct {
	MinTurnover       float64 `json:"min_turnover"`       // IDR, close x volume
	GainThresholdPct  float64 `json:"gain_threshold_pct"` // per-day minimum gain
	ConsecutiveDays   int     `json:"consecutive_days"`
	IncludeIndicators bool    `json:"include_indicators"`
}

// Validate checks the criteria invariants.
func (c ScanCriteria) Validate() error {
	if c.ConsecutiveDays < MinConsecutiveDays {
		return fmt.Errorf("%w: consecutive_days must be >= %d, got %d", ErrInvalidCriteria, MinConsecutiveDays, c.ConsecutiveDays)
	}
	if c.GainThresholdPct < 0 {
		return fmt.Errorf("%w: gain_threshold_pct must not be negative", ErrInvalidCriteria)
	}
	if c.MinTurnover < 0 {
		return fmt.Errorf("%w: min_turnover must not be negative", ErrInvalidCriteria)
	}
	return nil
}

// Indicators holds optional technical readings. A nil field means "not available".
type Indicators struct {
	RSI14          *float64 `json:"rsi_14"`
	SMA20          *float64 `json:"sma_20"`
	EMA20          *float64 `json:"ema_20"`
	VolumeTrendPct *float64 `json:"volume_trend_pct"`
}

// DayGain is one day-over-day change. Offset 1 is the most recent session.
type DayGain struct {
	Label  string  `json:"label"`
	Offset int     `json:"offset"`
	Pct    float64 `json:"pct"`
}

// ScanResultRow is one ticker that met every criterion.
type ScanResultRow struct {
	Ticker     Ticker      `json:"ticker"`
	Code       string      `json:"code"`
	Name       string      `json:"name"`
	LastClose  float64     `json:"last_close"`
	Turnover   float64     `json:"turnover"`
	Gains      []DayGain   `json:"gains"` // most recent first
	Indicators *Indicators `json:"indicators,omitempty"`
}

// ScanFailure records a ticker whose history could not be fetched or evaluated.
type ScanFailure struct {
	Ticker Ticker `json:"ticker"`
	Error  string `json:"error"`
}

// ScanOutcome is the result of one batch run.
type ScanOutcome struct {
	RunID      string          `json:"run_id"`
	StartedAt  time.Time       `json:"started_at"`
	FinishedAt time.Time       `json:"finished_at"`
	Criteria   ScanCriteria    `json:"criteria"`
	Scanned    int             `json:"scanned"`
	Total      int             `json:"total"`
	Rows       []ScanResultRow `json:"rows"`
	Failures   []ScanFailure   `json:"failures"`
}

// Duration reports how long the run took.
func (o *ScanOutcome) Duration() time.Duration {
	return o.FinishedAt.Sub(o.StartedAt)
}
