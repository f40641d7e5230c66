package screener

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"IDXScreener/internal/model"
)

const (
	DefaultPauseEvery    = 50
	DefaultPauseDuration = time.Second
)

// ProgressFunc is called after each ticker with the number processed so far.
type ProgressFunc func(done, total int, ticker model.Ticker)

// Evaluator is the per-ticker rule the Scanner drives. *Engine implements it.
type Evaluator interface {
	Evaluate(ctx context.Context, ticker model.Ticker, c model.ScanCriteria, names model.NameMap) (*model.ScanResultRow, error)
}

// Scanner runs an Evaluator over a universe sequentially, pausing between batches.
type Scanner struct {
	eval          Evaluator
	PauseEvery    int
	PauseDuration time.Duration
	Progress      ProgressFunc

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// NewScanner creates a Scanner with the default batch pause.
func NewScanner(eval Evaluator) *Scanner {
	return &Scanner{
		eval:          eval,
		PauseEvery:    DefaultPauseEvery,
		PauseDuration: DefaultPauseDuration,
		now:           time.Now,
		sleep:         sleepCtx,
	}
}

// Scan evaluates every ticker in input order. Per-ticker errors are collected as
// failures. When ctx is cancelled the partial outcome is returned with ctx's error.
func (s *Scanner) Scan(ctx context.Context, tickers []model.Ticker, c model.ScanCriteria, names model.NameMap) (*model.ScanOutcome, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	out := &model.ScanOutcome{
		RunID:     uuid.NewString(),
		StartedAt: s.now(),
		Criteria:  c,
		Total:     len(tickers),
		Rows:      []model.ScanResultRow{},
		Failures:  []model.ScanFailure{},
	}
	logger := log.With().Str("run_id", out.RunID).Logger()
	logger.Info().Int("tickers", len(tickers)).Interface("criteria", c).Msg("scan started")

	finish := func(err error) (*model.ScanOutcome, error) {
		out.FinishedAt = s.now()
		ev := logger.Info()
		if err != nil {
			ev = logger.Warn().Err(err)
		}
		ev.Int("scanned", out.Scanned).
			Int("matches", len(out.Rows)).
			Int("failures", len(out.Failures)).
			Dur("took", out.Duration()).
			Msg("scan finished")
		return out, err
	}

	for i, ticker := range tickers {
		if err := ctx.Err(); err != nil {
			return finish(err)
		}

		row, err := s.evaluate(ctx, ticker, c, names)
		switch {
		case err != nil && ctx.Err() != nil:
			return finish(ctx.Err())
		case err != nil:
			logger.Debug().Err(err).Str("ticker", string(ticker)).Msg("ticker failed")
			out.Failures = append(out.Failures, model.ScanFailure{Ticker: ticker, Error: err.Error()})
		case row != nil:
			logger.Debug().Str("ticker", string(ticker)).Float64("turnover", row.Turnover).Msg("match")
			out.Rows = append(out.Rows, *row)
		}
		out.Scanned++

		if s.Progress != nil {
			s.Progress(i+1, len(tickers), ticker)
		}

		if s.PauseEvery > 0 && (i+1)%s.PauseEvery == 0 && i+1 < len(tickers) {
			if err := s.sleep(ctx, s.PauseDuration); err != nil {
				return finish(err)
			}
		}
	}
	return finish(nil)
}

func (s *Scanner) evaluate(ctx context.Context, ticker model.Ticker, c model.ScanCriteria, names model.NameMap) (row *model.ScanResultRow, err error) {
	defer func() {
		if r := recover(); r != nil {
			row, err = nil, fmt.Errorf("panic evaluating %s: %v", ticker, r)
		}
	}()
	return s.eval.Evaluate(ctx, ticker, c, names)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
