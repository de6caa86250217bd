package scheduler

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"StrideCoach/internal/delivery"
	"StrideCoach/internal/model"
	"StrideCoach/internal/notifier"
)

// maxParallelRuns bounds how many profiles are processed at once.
const maxParallelRuns = 4

// Runner produces a tip for one profile.
type Runner interface {
	Run(ctx context.Context, in *model.OrchestratorInput) model.OrchestratorOutput
}

// Profiles lists and finds profile snapshots.
type Profiles interface {
	Collect(ctx context.Context) ([]model.OrchestratorInput, error)
	Find(ctx context.Context, id string) (*model.OrchestratorInput, error)
}

// Sender delivers a formatted message.
type Sender interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// Scheduler manages the cron task and chat commands.
type Scheduler struct {
	Cron       *cron.Cron
	Profiles   Profiles
	Runner     Runner
	Notifier   Sender
	Ledger     *delivery.Ledger
	MaxRetries int
	Ctx        context.Context
	logger     *zap.Logger
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, profiles Profiles, runner Runner, sender Sender, ledger *delivery.Ledger, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		Cron:       cron.New(cron.WithSeconds()),
		Profiles:   profiles,
		Runner:     runner,
		Notifier:   sender,
		Ledger:     ledger,
		MaxRetries: 3,
		Ctx:        ctx,
		logger:     logger.Named("scheduler"),
	}
}

// RegisterAll registers the daily tip task.
func (s *Scheduler) RegisterAll(dailyCron string) error {
	if _, err := s.Cron.AddFunc(dailyCron, s.dailyTask); err != nil {
		return fmt.Errorf("register daily task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.logger.Info("scheduler started")
}

// Stop stops the cron scheduler and waits for a running task to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.logger.Info("scheduler stopped")
}

// RunDailyNow executes the daily task immediately (for manual trigger / RUN_ON_START).
func (s *Scheduler) RunDailyNow() {
	s.dailyTask()
}

func (s *Scheduler) dailyTask() {
	s.logger.Info("running daily task")
	profiles, err := s.Profiles.Collect(s.Ctx)
	if err != nil {
		s.logger.Error("daily collect", zap.Error(err))
		s.trySend(fmt.Sprintf("❌ Daily tips skipped, profiles unavailable: %v", err))
		return
	}

	var (
		mu     sync.Mutex
		sent   int
		failed int
	)
	levels := map[model.FallbackLevel]int{}
	eg, ctx := errgroup.WithContext(s.Ctx)
	eg.SetLimit(maxParallelRuns)
	for i := range profiles {
		in := &profiles[i]
		if !s.Ledger.Due(in.ProfileID) {
			s.logger.Debug("profile not due", zap.String("profile_id", in.ProfileID))
			continue
		}
		eg.Go(func() error {
			out := s.Runner.Run(ctx, in)
			err := s.Notifier.SendWithRetry(ctx, notifier.FormatTip(in.Name, out), s.MaxRetries)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failed++
				s.logger.Error("send tip", zap.String("profile_id", in.ProfileID), zap.Error(err))
				return nil
			}
			sent++
			levels[out.Processing.FallbackLevel]++
			s.Ledger.MarkSent(in.ProfileID, out)
			return nil
		})
	}
	_ = eg.Wait()

	s.logger.Info("daily task finished", zap.Int("sent", sent), zap.Int("failed", failed))
	if sent+failed > 1 {
		s.trySend(notifier.FormatRunSummary(sent, failed, levels))
	}
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return helpText
	}
	arg := ""
	if len(fields) > 1 {
		arg = fields[1]
	}

	switch strings.ToLower(fields[0]) {
	case "/tip":
		return s.tipCommand(ctx, arg)
	case "/profiles":
		profiles, err := s.Profiles.Collect(ctx)
		if err != nil {
			return fmt.Sprintf("❌ %v", err)
		}
		return notifier.FormatProfiles(profiles)
	case "/status":
		if arg == "" {
			return "Usage: /status &lt;profile&gt;"
		}
		return notifier.FormatDelivery(arg, s.Ledger.Get(arg))
	case "/pause", "/resume":
		if arg == "" {
			return "Usage: " + fields[0] + " &lt;profile&gt;"
		}
		if _, err := s.Profiles.Find(ctx, arg); err != nil {
			return fmt.Sprintf("❌ %v", err)
		}
		paused := strings.EqualFold(fields[0], "/pause")
		s.Ledger.SetPaused(arg, paused)
		if paused {
			return "⏸ Scheduled tips paused for " + arg
		}
		return "▶️ Scheduled tips resumed for " + arg
	case "/run":
		s.dailyTask()
		return ""
	default:
		return helpText
	}
}

const helpText = "Commands:\n" +
	"• /tip &lt;profile&gt; - a tip right now\n" +
	"• /profiles - known profiles\n" +
	"• /status &lt;profile&gt; - delivery status\n" +
	"• /pause &lt;profile&gt;, /resume &lt;profile&gt;\n" +
	"• /run - run the daily tips now"

func (s *Scheduler) tipCommand(ctx context.Context, id string) string {
	var in *model.OrchestratorInput
	if id == "" {
		profiles, err := s.Profiles.Collect(ctx)
		if err != nil {
			return fmt.Sprintf("❌ %v", err)
		}
		if len(profiles) != 1 {
			return "Usage: /tip &lt;profile&gt;"
		}
		in = &profiles[0]
	} else {
		var err error
		if in, err = s.Profiles.Find(ctx, id); err != nil {
			return fmt.Sprintf("❌ %v", err)
		}
	}

	out := s.Runner.Run(ctx, in)
	s.Ledger.MarkSent(in.ProfileID, out)
	return notifier.FormatTip(in.Name, out)
}

func (s *Scheduler) trySend(text string) {
	if err := s.Notifier.SendWithRetry(s.Ctx, text, s.MaxRetries); err != nil {
		s.logger.Error("send notification", zap.Error(err))
	}
}
