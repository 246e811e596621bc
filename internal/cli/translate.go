package cli

import (
	"context"
	"errors"
	"fmt"

	"logalizer/internal/driver"
	"logalizer/internal/execute"
	"logalizer/internal/filewalker"
	"logalizer/internal/graph"
	"logalizer/internal/history"
	"logalizer/internal/ruleset"
	"logalizer/internal/worker"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

type translateOptions struct {
	configPath string
	files      []string
	enable     []string
	disable    []string
	noExec     bool
	keepInput  bool
	graph      bool
}

func translateCmd(a *app) *cobra.Command {
	opts := &translateOptions{}
	cmd := &cobra.Command{
		Use:   "translate [paths...]",
		Short: "Translate trace files using a rule set",
		Long: `Translates each trace file with the rule set given by --config.
Directories are searched for .log, .txt and .trace files, skipping the
translation and backup files of earlier runs. Every file is written to its
configured translation file, and the input is trimmed of deleted lines
unless --keep-input is given. Inputs whose translation or backup paths
collide are rejected before anything is written.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.configPath == "" {
				opts.configPath = a.cfg.RuleSetPath
			}
			return runTranslate(a, opts, append(opts.files, args...))
		},
	}

	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "Rule set file (JSON or YAML); defaults to LOGALIZER_CONFIG")
	cmd.Flags().StringSliceVarP(&opts.files, "file", "f", nil, "Trace file to translate (repeatable)")
	cmd.Flags().StringSliceVar(&opts.enable, "enable", nil, "Only keep translations of these categories")
	cmd.Flags().StringSliceVar(&opts.disable, "disable", nil, "Skip translations of these categories")
	cmd.Flags().BoolVar(&opts.noExec, "no-exec", false, "Do not run the configured execute commands")
	cmd.Flags().BoolVar(&opts.keepInput, "keep-input", false, "Leave input files unmodified")
	cmd.Flags().BoolVar(&opts.graph, "graph", false, "Publish translated sequences to Neo4j")

	return cmd
}

// runTranslate handles the `translate` command.
func runTranslate(a *app, opts *translateOptions, inputs []string) error {
	if len(inputs) == 0 {
		return errors.New("no input files given")
	}

	ctx, cancel := setupContext()
	defer cancel()

	rs, err := ruleset.Load(opts.configPath, ruleset.Options{Enable: opts.enable, Disable: opts.disable})
	if err != nil {
		return err
	}

	found, err := filewalker.NewWalker().Resolve(inputs)
	if err != nil {
		return err
	}
	files, err := planInputs(rs, found)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return errors.New("no trace files found")
	}

	out, err := openSinks(ctx, a, opts.graph)
	if err != nil {
		return err
	}
	defer out.close(ctx)

	driverOpts := driver.Options{KeepInput: opts.keepInput}
	if !opts.noExec {
		driverOpts.Runner = execute.NewRunner()
	}

	log.Info().Int("files", len(files)).Int("workers", a.cfg.WorkerCount).Msg("Starting translation")

	pool := worker.NewPool[string, *driver.Result](a.cfg.WorkerCount,
		func(ctx context.Context, file string) (*driver.Result, error) {
			res, err := driver.TranslateFile(ctx, rs, file, driverOpts)
			out.record(ctx, res, err)
			return res, err
		},
	)
	results := pool.Execute(ctx, files)

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}

	log.Info().Int("files", len(files)).Int("failed", failed).Msg("Translation complete")
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(files))
	}
	return nil
}

// sinks are the optional destinations of runs.
type sinks struct {
	store     *history.Store
	closeDB   func()
	publisher *graph.Publisher
	closeNeo  func(context.Context)
}

func openSinks(ctx context.Context, a *app, publish bool) (*sinks, error) {
	s := &sinks{}
	if a.cfg.HistoryEnabled() {
		store, err := history.Open(ctx, a.cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		if err := store.EnsureSchema(ctx); err != nil {
			store.Close()
			return nil, err
		}
		s.store, s.closeDB = store, store.Close
	}

	if publish {
		if !a.cfg.GraphEnabled() {
			s.close(ctx)
			return nil, errors.New("--graph requires NEO4J_URI")
		}
		drv, err := graph.Connect(ctx, a.cfg.Neo4jURI, a.cfg.Neo4jUser, a.cfg.Neo4jPassword)
		if err != nil {
			s.close(ctx)
			return nil, err
		}
		s.closeNeo = func(ctx context.Context) { drv.Close(ctx) }
		s.publisher = graph.NewPublisher(drv)
		if err := s.publisher.EnsureSchema(ctx); err != nil {
			s.close(ctx)
			return nil, fmt.Errorf("ensure graph schema: %w", err)
		}
	}
	return s, nil
}

// record forwards a run to the configured sinks. Every run is recorded in
// history; only runs that wrote a translation are published. Sink failures
// are logged only.
func (s *sinks) record(ctx context.Context, res *driver.Result, runErr error) {
	if s.store != nil {
		if err := s.store.Record(ctx, res, runErr); err != nil {
			log.Warn().Err(err).Msg("Failed to record run history")
		}
	}
	if s.publisher != nil && res.Translated {
		if _, err := s.publisher.Publish(ctx, res.RunID.String(), res.Paths.Input, res.Lines); err != nil {
			log.Warn().Err(err).Msg("Failed to publish sequence")
		}
	}
}

func (s *sinks) close(ctx context.Context) {
	if s.closeDB != nil {
		s.closeDB()
	}
	if s.closeNeo != nil {
		s.closeNeo(ctx)
	}
}
