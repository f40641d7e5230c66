package scheduler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"IDXScreener/internal/model"
	"IDXScreener/internal/notifier"
	"IDXScreener/internal/universe"
)

// DefaultScanCron runs a scan every five minutes.
const DefaultScanCron = "0 */5 * * * *"

// ErrScanInProgress is returned by RunNow while another scan is running.
var ErrScanInProgress = errors.New("scan already in progress")

// Resolver supplies the ticker universe.
type Resolver interface {
	Resolve(ctx context.Context, mode universe.Mode, manual *universe.ManualInput) universe.Universe
	Refresh()
}

// Scanner runs one batch scan.
type Scanner interface {
	Scan(ctx context.Context, tickers []model.Ticker, c model.ScanCriteria, names model.NameMap) (*model.ScanOutcome, error)
}

// Reporter delivers formatted messages. *notifier.TelegramNotifier implements it.
type Reporter interface {
	SendLong(ctx context.Context, text string, maxRetries int) error
}

// Scheduler repeats scans on a cron schedule and answers bot commands.
type Scheduler struct {
	Cron     *cron.Cron
	Resolver Resolver
	Scanner  Scanner
	Reporter Reporter // nil disables notifications
	Mode     universe.Mode
	Manual   *universe.ManualInput
	Criteria model.ScanCriteria
	State    *RunState
	Ctx      context.Context

	// OnScan, when set, receives every completed outcome, including partial ones.
	OnScan func(u universe.Universe, out *model.ScanOutcome)
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, r Resolver, sc Scanner, rep Reporter, mode universe.Mode, c model.ScanCriteria) *Scheduler {
	logger := cronLogger{}
	return &Scheduler{
		Cron: cron.New(
			cron.WithSeconds(),
			cron.WithLocation(time.FixedZone("WIB", 7*60*60)),
			cron.WithLogger(logger),
			cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
		),
		Resolver: r,
		Scanner:  sc,
		Reporter: rep,
		Mode:     mode,
		Criteria: c,
		State:    &RunState{},
		Ctx:      ctx,
	}
}

// Register schedules the repeating scan.
func (s *Scheduler) Register(spec string) error {
	if spec == "" {
		spec = DefaultScanCron
	}
	if _, err := s.Cron.AddFunc(spec, s.scanTask); err != nil {
		return fmt.Errorf("register scan task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Info().Msg("scheduler started")
}

// Stop stops the cron scheduler and waits for a running scan to return.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Info().Msg("scheduler stopped")
}

// Next returns the next scheduled run, or the zero time when nothing is scheduled.
func (s *Scheduler) Next() time.Time {
	entries := s.Cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}

// RunNow resolves the universe and scans it. Only one scan runs at a time.
func (s *Scheduler) RunNow(ctx context.Context) (*model.ScanOutcome, error) {
	if !s.State.begin() {
		return nil, ErrScanInProgress
	}
	var out *model.ScanOutcome
	defer func() { s.State.end(out) }()

	u := s.Resolver.Resolve(ctx, s.Mode, s.Manual)
	log.Info().
		Str("source", u.Source).
		Int("tickers", len(u.Tickers)).
		Msg("universe resolved")

	out, err := s.Scanner.Scan(ctx, u.Tickers, s.Criteria, u.Names)
	if out != nil && s.OnScan != nil {
		s.OnScan(u, out)
	}
	return out, err
}

func (s *Scheduler) scanTask() {
	log.Info().Msg("running scheduled scan")
	out, err := s.RunNow(s.Ctx)
	if err != nil {
		if errors.Is(err, ErrScanInProgress) {
			log.Warn().Msg("previous scan still running, skipping")
			return
		}
		log.Error().Err(err).Msg("scheduled scan failed")
		if out == nil {
			s.trySend(fmt.Sprintf("❌ Scan gagal: %v", err))
			return
		}
	}
	s.trySend(notifier.FormatScanReport(out))
}

// HandleCommand processes a bot command and returns a reply.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	fields := strings.Fields(strings.ToLower(command))
	if len(fields) == 0 {
		return notifier.FormatHelp()
	}
	cmd := fields[0]
	if i := strings.Index(cmd, "@"); i > 0 {
		cmd = cmd[:i]
	}
	switch cmd {
	case "/scan":
		out, err := s.RunNow(ctx)
		if errors.Is(err, ErrScanInProgress) {
			return "⏳ Scan sedang berjalan, coba lagi nanti."
		}
		if out == nil {
			return fmt.Sprintf("❌ Scan gagal: %v", err)
		}
		return notifier.FormatScanReport(out)
	case "/last":
		at, out, ok := s.State.Last()
		if !ok {
			return "Belum ada scan."
		}
		return fmt.Sprintf("🕒 Scan terakhir: %s\n\n%s",
			at.In(time.FixedZone("WIB", 7*60*60)).Format("15:04:05"), notifier.FormatScanReport(out))
	case "/refresh":
		s.Resolver.Refresh()
		return notifier.FormatUniverse(s.Resolver.Resolve(ctx, s.Mode, s.Manual))
	default:
		return notifier.FormatHelp()
	}
}

func (s *Scheduler) trySend(text string) {
	if s.Reporter == nil {
		return
	}
	if err := s.Reporter.SendLong(s.Ctx, text, 3); err != nil {
		log.Error().Err(err).Msg("send notification failed")
	}
}

// cronLogger routes cron's own logging through zerolog.
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	log.Debug().Fields(keysAndValues).Msg("cron: " + msg)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	log.Error().Err(err).Fields(keysAndValues).Msg("cron: " + msg)
}
