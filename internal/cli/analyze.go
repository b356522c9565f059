package cli

import (
	"fmt"
	"slices"
	"strings"

	"atscore/internal/analyzer"
	"atscore/internal/common"
	"atscore/internal/errors"
	"atscore/internal/formatters"
	"atscore/internal/types"
	"atscore/internal/watch"

	"github.com/spf13/cobra"
)

type analyzeOptions struct {
	common.CommandConfig
	Mode    string
	Job     string
	JobFile string
	NoAI    bool
	Watch   bool
}

var analyzeConfig analyzeOptions

var analyzeCmd = &cobra.Command{
	Use:   "analyze [resume-file]",
	Short: "Score a resume for ATS compatibility",
	Long: `Analyze a resume and report how well an applicant tracking system can read it.

The analysis includes:
- Section, contact and keyword extraction
- Layout, font and content scores with a letter grade
- Job description match when --job or --job-file is given
- Feedback, strengths, weaknesses and recommendations
- Optional AI refinement of score and feedback

Supported resume formats: .txt, .md and .docx. PDF is not supported.`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := getConfigFromContext(cmd.Context())
		if err != nil {
			return err
		}
		if analyzeConfig.Job != "" && analyzeConfig.JobFile != "" {
			return fmt.Errorf("--job and --job-file are mutually exclusive")
		}
		// Apply default format if not specified
		if analyzeConfig.OutputFormat == "" {
			analyzeConfig.OutputFormat = cfg.App.DefaultFormat
		}
		return common.ValidateOutputFormat(analyzeConfig.OutputFormat, cfg.App.SupportedFormats)
	},
	RunE: runAnalyze,
}

func init() {
	flags := analyzeCmd.Flags()
	flags.StringVar(&analyzeConfig.Mode, "mode", "", "Analysis mode: general or job-specific (default: job-specific when a job is given)")
	flags.StringVar(&analyzeConfig.Job, "job", "", "Job description text")
	flags.StringVar(&analyzeConfig.JobFile, "job-file", "", "Path to a job description file")
	flags.StringVarP(&analyzeConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	flags.StringVar(&analyzeConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")
	flags.BoolVar(&analyzeConfig.NoAI, "no-ai", false, "Skip AI enrichment and report the heuristic result")
	flags.BoolVar(&analyzeConfig.Watch, "watch", false, "Re-run the analysis whenever the resume or job file changes")

	_ = analyzeCmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cfg, err := getConfigFromContext(cmd.Context())
		if err != nil {
			return []string{}, cobra.ShellCompDirectiveError
		}
		registered := formatters.GlobalRegistry.GetSupportedFormats()
		var formats []string
		for _, f := range cfg.App.SupportedFormats {
			if slices.Contains(registered, f) {
				formats = append(formats, f)
			}
		}
		return formats, cobra.ShellCompDirectiveNoFileComp
	})
	_ = analyzeCmd.RegisterFlagCompletionFunc("mode", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{types.ModeGeneral, types.ModeJobSpecific}, cobra.ShellCompDirectiveNoFileComp
	})
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg, err := getConfigFromContext(ctx)
	if err != nil {
		return err
	}
	logger, err := getLoggerFromContext(ctx)
	if err != nil {
		return err
	}
	opts := analyzeConfig
	resumePath := args[0]
	files := common.NewFileProcessor(logger)

	if err := files.ValidateResumeFile(resumePath); err != nil {
		return err
	}

	pipeline, closePipeline, err := analyzer.Setup(ctx, cfg, analyzer.SetupOptions{DisableAI: opts.NoAI}, getMetricsFromContext(ctx), logger)
	if err != nil {
		return fmt.Errorf("failed to set up analyzer: %w", err)
	}
	defer func() {
		if err := closePipeline(); err != nil {
			logger.LogError(err, "Failed to release analyzer resources")
		}
	}()

	// The job file is read on every run so --watch picks up edits to it
	buildRequest := func() (types.AnalysisRequest, error) {
		job := opts.Job
		if opts.JobFile != "" {
			content, err := files.ReadJobDescription(opts.JobFile)
			if err != nil {
				return types.AnalysisRequest{}, err
			}
			job = content
		}
		job = strings.TrimSpace(job)

		mode, err := common.ResolveMode(opts.Mode, job != "", cfg.Analysis.DefaultMode)
		if err != nil {
			return types.AnalysisRequest{}, errors.NewValidationError(errors.ErrCodeInvalidRequest, err.Error(), err)
		}
		return types.AnalysisRequest{FilePath: resumePath, Mode: mode, JobDescription: job}, nil
	}

	run := func() error {
		req, err := buildRequest()
		if err != nil {
			return err
		}
		return common.RunAnalysis(ctx, logger, opts.CommandConfig, pipeline, req)
	}

	if !opts.Watch {
		if err := run(); err != nil {
			return fmt.Errorf("failed to analyze resume: %w", err)
		}
		return nil
	}

	return watchAndRun(cmd, run, resumePath, opts.JobFile, logger)
}

// watchAndRun runs once, then again after every change until interrupted
func watchAndRun(cmd *cobra.Command, run func() error, resumePath, jobFile string, logger *errors.Logger) error {
	if err := run(); err != nil {
		logger.LogError(err, "Analysis failed, waiting for changes")
	}

	watcher, err := watch.New([]string{resumePath, jobFile}, 0, func() {
		logger.Info("Change detected, re-running analysis", "file", resumePath)
		if err := run(); err != nil {
			logger.LogError(err, "Analysis failed, waiting for changes")
		}
	}, logger)
	if err != nil {
		return err
	}
	if err := watcher.Start(); err != nil {
		return err
	}
	defer func() { _ = watcher.Stop() }()

	logger.Info("Watching for changes, press Ctrl+C to stop", "files", watcher.Files())
	<-cmd.Context().Done()
	return nil
}
