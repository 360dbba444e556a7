package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/aquacheck/internal/chatbot"
	"github.com/abhisek/aquacheck/internal/config"
	"github.com/abhisek/aquacheck/internal/history"
	"github.com/abhisek/aquacheck/internal/llm"
	"github.com/abhisek/aquacheck/internal/logging"
	"github.com/abhisek/aquacheck/internal/potability"
	"github.com/abhisek/aquacheck/internal/speech"
	"github.com/abhisek/aquacheck/internal/store"
)

// loadConfig reads the config file and environment, then applies the
// persistent flags on top.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if p, _ := cmd.Flags().GetString("db"); p != "" {
		cfg.DBPath = p
	}
	if p, _ := cmd.Flags().GetString("data"); p != "" {
		cfg.DataPath = p
	}
	if p, _ := cmd.Flags().GetString("log-file"); p != "" {
		cfg.Log.File = p
	}
	if mute, _ := cmd.Flags().GetBool("mute"); mute {
		cfg.Speech.Mute = true
	}
	return cfg, nil
}

// resolveDBPath returns the database path using --db / config first,
// then AQUACHECK_DB, then the default XDG path.
func resolveDBPath(cfg *config.Config) (string, error) {
	if cfg.DBPath != "" {
		return cfg.DBPath, store.EnsureDir(cfg.DBPath)
	}
	return store.DefaultDBPath()
}

func openStore(cfg *config.Config) (*store.Store, error) {
	dbPath, err := resolveDBPath(cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return s, nil
}

// services is everything an assessment or chat surface needs.
type services struct {
	cfg      *config.Config
	logger   *zap.Logger
	model    *potability.Model
	pipeline *potability.Pipeline
	bot      *chatbot.Bot
	recorder *history.Recorder
	store    *store.Store

	announcer speech.Announcer
	engine    string
	queue     *speech.Queue
}

type setupOptions struct {
	console      bool // log to stderr as well
	speech       bool
	needModel    bool
	needBot      bool
	warnOnStderr bool
}

// setup builds services for a command. Training failures are fatal;
// history and AI failures only disable those features.
func setup(cmd *cobra.Command, opts setupOptions) (*services, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(logging.Options{
		File:    cfg.Log.File,
		Level:   cfg.Log.Level,
		Console: opts.console,
	})
	if err != nil {
		return nil, err
	}

	svc := &services{cfg: cfg, logger: logger, announcer: speech.Silent{}}

	if opts.needModel {
		model, err := potability.TrainFile(ctx, cfg.DataPath, cfg.Model)
		if err != nil {
			return nil, fmt.Errorf("train model from %s: %w", cfg.DataPath, err)
		}
		r := model.Report
		logger.Info("model trained",
			zap.String("data", cfg.DataPath),
			zap.Int("rows", r.Rows),
			zap.Int("train_rows", r.TrainRows),
			zap.Int("test_rows", r.TestRows),
			zap.Int("trees", r.Trees),
			zap.Float64("accuracy", r.Accuracy),
			zap.Duration("took", r.Duration))
		svc.model = model
		svc.pipeline = model.Pipeline()
	}

	st, err := openStore(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "warning:", err)
		fmt.Fprintln(os.Stderr, "History will not be recorded.")
		logger.Warn("history disabled", zap.Error(err))
	} else {
		svc.store = st
	}

	var repo store.EventRepo
	if svc.store != nil {
		repo = svc.store.EventRepo()
	}
	svc.recorder = history.NewRecorder(repo, logger)
	if opts.warnOnStderr {
		svc.recorder.Warnings = os.Stderr
	}

	if opts.needBot {
		svc.bot = chatbot.NewBot(chatbot.DefaultResponder(), newExplainer(ctx, cfg, repo, logger), logger)
	}

	if opts.speech && !cfg.Speech.Mute {
		speaker, err := speech.DetectCommand(exec.LookPath, cfg.Speech.Engine)
		if err != nil {
			logger.Info("speech disabled", zap.Error(err))
		} else {
			svc.queue = speech.NewQueue(speaker, logger)
			svc.announcer = svc.queue
			svc.engine = speaker.Name()
		}
	}

	return svc, nil
}

// newExplainer returns nil when no LLM provider is configured.
func newExplainer(ctx context.Context, cfg *config.Config, repo store.EventRepo, logger *zap.Logger) *chatbot.Explainer {
	llmCfg, err := llm.Resolve(cfg.LLM)
	if err != nil {
		if !errors.Is(err, llm.ErrNotConfigured) {
			logger.Warn("llm config", zap.Error(err))
		}
		return nil
	}

	var sink llm.EventSink
	if repo != nil {
		sink = repo
	}
	provider, err := llm.NewProvider(ctx, llmCfg, sink, logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, "LLM provider not configured:", err)
		fmt.Fprintln(os.Stderr, "/ask answers will be unavailable.")
		return nil
	}
	return chatbot.NewExplainer(provider, chatbot.DefaultExplainerConfig())
}

// Close drains pending speech, closes the store and flushes logs.
func (s *services) Close() {
	if s.queue != nil {
		s.queue.Close()
	}
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			s.logger.Warn("close store", zap.Error(err))
		}
	}
	_ = s.logger.Sync()
}

// status is the header summary shown by the TUI.
func (s *services) status() string {
	voice := "voice: off"
	if s.engine != "" {
		voice = "voice: " + s.engine
	}
	if s.model == nil {
		return voice
	}
	return fmt.Sprintf("%s   model %.1f%%", voice, s.model.Report.Accuracy*100)
}
