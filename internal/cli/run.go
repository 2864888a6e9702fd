package cli

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/milk9111/bulletml/config"
	"github.com/milk9111/bulletml/game"
	"github.com/spf13/cobra"
)

// maxUnboundedFrames caps a run that waits for the pattern to finish.
const maxUnboundedFrames = 100000

// RunOptions holds flags for the run command.
type RunOptions struct {
	ConfigPath string
	Frames     int
	Rank       float64
	Seed       uint64
	Scene      string
	Loop       bool
	Positions  bool
	Watch      bool
	FPS        int
}

// RunSummary is the final record of a run.
type RunSummary struct {
	Frames      int  `json:"frames"`
	Spawned     int  `json:"spawned"`
	Vanished    int  `json:"vanished"`
	Expired     int  `json:"expired"`
	OutOfBounds int  `json:"out_of_bounds"`
	Dropped     int  `json:"dropped"`
	Bullets     int  `json:"bullets"`
	Done        bool `json:"done"`
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{}

	cmd := &cobra.Command{
		Use:   "run <pattern>",
		Short: "Run a pattern headless and report each frame",
		Long: `Run builds the configured scene, attaches the pattern to its emitters
and steps the simulation, printing one line per frame and a summary.

With --frames 0 the run stops once every script has finished and the last
bullet has left the arena.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(cmd, rootOpts, opts, args[0])
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "simulation config file (YAML)")
	cmd.Flags().IntVarP(&opts.Frames, "frames", "n", 0, "frames to run (0 runs until done)")
	cmd.Flags().Float64Var(&opts.Rank, "rank", 0, "difficulty rank in [0, 1]")
	cmd.Flags().Uint64Var(&opts.Seed, "seed", 0, "random seed")
	cmd.Flags().StringVar(&opts.Scene, "scene", "", "scene to build")
	cmd.Flags().BoolVar(&opts.Loop, "loop", false, "restart emitter patterns when they finish")
	cmd.Flags().BoolVar(&opts.Positions, "positions", false, "include bullet and emitter positions")
	cmd.Flags().BoolVarP(&opts.Watch, "watch", "w", false, "reload --config when it changes")
	cmd.Flags().IntVar(&opts.FPS, "fps", 0, "frames per second (0 runs unthrottled)")

	return cmd
}

func runRun(cmd *cobra.Command, rootOpts *RootOptions, opts *RunOptions, name string) error {
	formatter := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		_ = formatter.Error(ErrCodeConfig, err.Error(), nil)
		return WrapExitError(ExitCommandError, "load config", err)
	}
	flags := cmd.Flags()
	if flags.Changed("frames") {
		cfg.Frames = opts.Frames
	}
	if flags.Changed("rank") {
		cfg.Rank = opts.Rank
	}
	if flags.Changed("seed") {
		cfg.Seed = opts.Seed
	}
	if flags.Changed("scene") {
		cfg.Scene = opts.Scene
	}
	if flags.Changed("loop") {
		cfg.Loop = opts.Loop
	}
	if opts.Watch && opts.ConfigPath == "" {
		return WrapExitError(ExitCommandError, "--watch needs --config", nil)
	}

	tree, err := loadPattern(name)
	if err != nil {
		_ = formatter.Error(errorCode(err), err.Error(), errorList(err))
		return WrapExitError(ExitFailure, "load pattern", err)
	}

	g, err := game.New(cfg, tree)
	if err != nil {
		_ = formatter.Error(ErrCodeConfig, err.Error(), nil)
		return WrapExitError(ExitCommandError, "build game", err)
	}

	var updates <-chan config.Config
	var watchErrs <-chan error
	if opts.Watch {
		watcher, err := config.Watch(opts.ConfigPath)
		if err != nil {
			return WrapExitError(ExitCommandError, "watch config", err)
		}
		defer watcher.Close()
		updates, watchErrs = watcher.Updates, watcher.Errors
	}

	var tick <-chan time.Time
	if opts.FPS > 0 {
		ticker := time.NewTicker(time.Second / time.Duration(opts.FPS))
		defer ticker.Stop()
		tick = ticker.C
	}

	ctx := cmd.Context()
	limit := cfg.Frames
	summary := RunSummary{}
	for limit == 0 || g.FrameIndex() < limit {
		if ctx != nil {
			select {
			case <-ctx.Done():
				return WrapExitError(ExitFailure, "run interrupted", ctx.Err())
			default:
			}
		}
		select {
		case next := <-updates:
			// Scene, seed and loop need a rebuild; frame count and rank flags keep
			// whatever the command line asked for.
			if flags.Changed("rank") {
				next.Rank = opts.Rank
			}
			g.Apply(next)
			slog.Info("run: config applied", "rank", next.Rank, "time_speed", next.TimeSpeed)
		case err := <-watchErrs:
			slog.Warn("run: config reload rejected", "error", err)
		default:
		}
		if tick != nil {
			<-tick
		}

		var f game.Frame
		if opts.Positions {
			f = g.Snapshot()
		} else {
			f = g.Update()
		}
		summary.add(f)
		if err := formatter.Line(f, frameText(f)); err != nil {
			return err
		}

		if limit == 0 && (g.Done() || g.FrameIndex() >= maxUnboundedFrames) {
			break
		}
	}

	summary.Frames = g.FrameIndex()
	summary.Dropped = g.Dropped()
	summary.Done = g.Done()
	return formatter.Success(summary, summary.text())
}

func (s *RunSummary) add(f game.Frame) {
	s.Spawned += f.Spawned
	s.Vanished += f.Vanished
	s.Expired += f.Expired
	s.OutOfBounds += f.OutOfBounds
	s.Bullets = f.Bullets
}

func (s RunSummary) text() string {
	return fmt.Sprintf("total frames=%d spawned=%d vanished=%d expired=%d out=%d dropped=%d bullets=%d done=%t",
		s.Frames, s.Spawned, s.Vanished, s.Expired, s.OutOfBounds, s.Dropped, s.Bullets, s.Done)
}

func frameText(f game.Frame) string {
	var b strings.Builder
	fmt.Fprintf(&b, "frame=%d bullets=%d spawned=%d vanished=%d expired=%d out=%d done=%d",
		f.Index, f.Bullets, f.Spawned, f.Vanished, f.Expired, f.OutOfBounds, f.ScriptsDone)
	for _, e := range f.Emitters {
		fmt.Fprintf(&b, "\n  emitter %s at (%.2f, %.2f) dir=%.1f finished=%t", e.Name, e.Position.X, e.Position.Y, e.Direction, e.Finished)
	}
	for _, p := range f.Positions {
		fmt.Fprintf(&b, "\n  bullet (%.2f, %.2f)", p.X, p.Y)
	}
	return b.String()
}
