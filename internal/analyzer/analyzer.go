// Package analyzer runs one resume through the full pipeline: validation,
// staging, decoding, heuristic scoring, optional AI enrichment and caching.
package analyzer

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"atscore/internal/ai"
	"atscore/internal/cache"
	"atscore/internal/errors"
	"atscore/internal/extractor"
	"atscore/internal/feedback"
	"atscore/internal/jobmatch"
	"atscore/internal/observability"
	"atscore/internal/scoring"
	"atscore/internal/types"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

const defaultAITimeout = 60 * time.Second

// Options wires an Analyzer. Zero values pick sensible defaults: all
// built-in decoders, the fallback strategy, no cache and no AI.
type Options struct {
	Decoder     Decoder
	Strategy    scoring.Strategy
	Cache       *cache.Cache
	Adapter     *ai.Adapter
	AITimeout   time.Duration
	TempDir     string
	MaxFileSize int64
	Metrics     *observability.Metrics
	Logger      *errors.Logger
}

// Analyzer is safe for concurrent use
type Analyzer struct {
	decoder     Decoder
	strategy    scoring.Strategy
	cache       *cache.Cache
	adapter     *ai.Adapter
	aiTimeout   time.Duration
	tempDir     string
	maxFileSize int64
	validate    *validator.Validate
	metrics     *observability.Metrics
	logger      *errors.Logger
}

// New creates an Analyzer from opts
func New(opts Options) *Analyzer {
	a := &Analyzer{
		decoder:     opts.Decoder,
		strategy:    opts.Strategy,
		cache:       opts.Cache,
		adapter:     opts.Adapter,
		aiTimeout:   opts.AITimeout,
		tempDir:     opts.TempDir,
		maxFileSize: opts.MaxFileSize,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
		metrics:     opts.Metrics,
		logger:      opts.Logger,
	}
	if a.decoder == nil {
		a.decoder = NewDecoderSet()
	}
	if a.strategy == nil {
		a.strategy = scoring.Fallback{}
	}
	if a.aiTimeout <= 0 {
		a.aiTimeout = defaultAITimeout
	}
	return a
}

// FailureResponse is the response shape for a request that produced no result
func FailureResponse(err error) *types.AnalysisResponse {
	msg := err.Error()
	if appErr, ok := errors.AsAppError(err); ok {
		msg = appErr.Message
	}
	return &types.AnalysisResponse{Success: false, Error: msg}
}

// Analyze scores the resume at req.FilePath. On failure the returned
// response carries only Success=false and the error message.
func (a *Analyzer) Analyze(ctx context.Context, req types.AnalysisRequest) (*types.AnalysisResponse, error) {
	start := time.Now()
	requestID := uuid.NewString()
	logger := a.logger.With("request_id", requestID, "mode", req.Mode)

	resp, err := a.analyze(ctx, req, logger)
	if err != nil {
		logger.LogError(err, "Analysis failed", "file", filepath.Base(req.FilePath))
		a.metrics.RecordAnalysis(ctx, req.Mode, a.strategy.Name(), false, false, false, time.Since(start))
		return FailureResponse(err), err
	}

	resp.RequestID = requestID
	a.metrics.RecordAnalysis(ctx, req.Mode, resp.ScoringScheme, resp.AIEnhanced, resp.Cached, true, time.Since(start))
	logger.Info("Analysis completed",
		"score", resp.Score,
		"grade", resp.Grade,
		"scheme", resp.ScoringScheme,
		"ai_enhanced", resp.AIEnhanced,
		"cached", resp.Cached,
		"duration_ms", time.Since(start).Milliseconds())
	return resp, nil
}

func (a *Analyzer) analyze(ctx context.Context, req types.AnalysisRequest, logger *errors.Logger) (*types.AnalysisResponse, error) {
	// a blank description counts as missing
	req.JobDescription = strings.TrimSpace(req.JobDescription)
	if err := a.validateRequest(req); err != nil {
		return nil, err
	}

	dir, err := os.MkdirTemp(a.tempDir, "atscore-*")
	if err != nil {
		return nil, errors.NewIOError(errors.ErrCodeFileNotReadable, "Cannot create staging directory", err)
	}
	defer func() {
		if err := os.RemoveAll(dir); err != nil {
			logger.Warn("Failed to remove staging directory", "dir", dir, "error", err)
		}
	}()

	staged, err := a.stage(req.FilePath, dir)
	if err != nil {
		return nil, err
	}

	doc, err := a.decoder.Extract(ctx, staged)
	if err != nil {
		if errors.HasCode(err, errors.ErrCodeDecodeFailed) {
			return nil, err
		}
		return nil, errors.NewIOError(errors.ErrCodeDecodeFailed,
			fmt.Sprintf("Cannot decode %s", filepath.Base(req.FilePath)), err)
	}
	logger.Debug("Resume decoded",
		"pages", doc.PageCount,
		"chars", len(doc.RawText),
		"tables", doc.HasTables,
		"images", doc.HasImages)

	jobDescription := ""
	if req.Mode == types.ModeJobSpecific {
		jobDescription = req.JobDescription
	}
	variant := cache.VariantHeuristic
	if a.adapter.Enabled() {
		variant = cache.VariantAI
	}
	key := cache.VariantKey(cache.Fingerprint(doc.RawText, req.Mode, jobDescription), variant)

	result, cached, err := a.cache.GetOrCompute(ctx, key, func(ctx context.Context) (*types.AnalysisResult, bool, error) {
		return a.compute(ctx, doc, req.Mode, jobDescription, logger)
	})
	if err != nil {
		return nil, err
	}

	return &types.AnalysisResponse{
		Success:        true,
		AnalysisMode:   req.Mode,
		Cached:         cached,
		AnalysisResult: result,
	}, nil
}

func (a *Analyzer) validateRequest(req types.AnalysisRequest) error {
	err := a.validate.Struct(req)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if stderrors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return errors.NewValidationError(errors.ErrCodeInvalidRequest,
			fmt.Sprintf("Invalid request: %s failed %s", fe.Field(), fe.Tag()), err).
			WithContext("field", fe.Field())
	}
	return errors.NewValidationError(errors.ErrCodeInvalidRequest, "Invalid request", err)
}

// stage copies the upload into dir so decoders never touch the caller's file
func (a *Analyzer) stage(src, dir string) (string, error) {
	in, err := os.Open(src)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.NewIOError(errors.ErrCodeFileNotFound,
				fmt.Sprintf("File not found: %s", src), err)
		}
		return "", errors.NewIOError(errors.ErrCodeFileNotReadable,
			fmt.Sprintf("Cannot read file: %s", src), err)
	}
	defer func() { _ = in.Close() }()

	info, err := in.Stat()
	if err != nil {
		return "", errors.NewIOError(errors.ErrCodeFileNotReadable,
			fmt.Sprintf("Cannot read file: %s", src), err)
	}
	if info.IsDir() {
		return "", errors.NewValidationError(errors.ErrCodeInvalidRequest,
			fmt.Sprintf("Path is a directory, not a file: %s", src), nil)
	}
	if a.maxFileSize > 0 && info.Size() > a.maxFileSize {
		return "", errors.NewValidationError(errors.ErrCodeInvalidRequest,
			fmt.Sprintf("File is larger than %d bytes: %s", a.maxFileSize, src), nil)
	}

	dst := filepath.Join(dir, "resume"+strings.ToLower(filepath.Ext(src)))
	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0600)
	if err != nil {
		return "", errors.NewIOError(errors.ErrCodeFileNotReadable, "Cannot stage upload", err)
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return "", errors.NewIOError(errors.ErrCodeFileNotReadable, "Cannot stage upload", err)
	}
	if err := out.Close(); err != nil {
		return "", errors.NewIOError(errors.ErrCodeFileNotReadable, "Cannot stage upload", err)
	}
	return dst, nil
}

// compute runs the heuristic pipeline and then the optional enrichment.
// store is false when an enabled AI fell back, so a later call can retry.
func (a *Analyzer) compute(ctx context.Context, doc *types.ExtractedDocument, mode, jobDescription string, logger *errors.Logger) (*types.AnalysisResult, bool, error) {
	result := a.heuristic(doc, mode, jobDescription)

	aiCtx, cancel := context.WithTimeout(ctx, a.aiTimeout)
	defer cancel()

	outcome := a.adapter.Enrich(aiCtx, ai.PromptInput{
		ResumeText:     doc.RawText,
		JobDescription: jobDescription,
		Mode:           mode,
		Heuristic:      result,
	})

	switch o := outcome.(type) {
	case ai.Enriched:
		applyEnrichment(result, o.Analysis)
		if o.Usage != nil {
			logger.Info("AI token usage",
				"input_tokens", o.Usage.InputTokens,
				"output_tokens", o.Usage.OutputTokens,
				"total_tokens", o.Usage.TotalTokens)
		}
		return result, true, nil
	case ai.Heuristic:
		if !a.adapter.Enabled() {
			return result, true, nil
		}
		reason := "unknown"
		if appErr, ok := errors.AsAppError(o.Reason); ok {
			reason = appErr.Code
		}
		a.metrics.RecordAIFallback(ctx, reason)
		logger.Warn("Using heuristic result", "state", o.State.String(), "reason", reason)
		return result, false, nil
	default:
		return nil, false, errors.NewInternalError("UNKNOWN_OUTCOME",
			fmt.Sprintf("unexpected enrichment outcome %T", outcome), nil)
	}
}

// heuristic computes the deterministic result
func (a *Analyzer) heuristic(doc *types.ExtractedDocument, mode, jobDescription string) *types.AnalysisResult {
	ex := extractor.Extract(doc.RawText)
	card := a.strategy.Score(doc, ex)

	var match *types.JobMatchResult
	if mode == types.ModeJobSpecific {
		m := jobmatch.Compare(doc.RawText, jobDescription)
		match = &m
	}

	report := feedback.Generate(feedback.Input{
		Extraction: ex,
		Layout:     card.Layout,
		Content:    card.Content,
		JobMatch:   match,
	})

	return &types.AnalysisResult{
		Sections:        ex.Sections,
		ContactInfo:     ex.Contact,
		Keywords:        ex.Keywords,
		Experience:      ex.Experience,
		Education:       ex.Education,
		Skills:          ex.Skills,
		Breakdown:       card.Breakdown,
		Layout:          card.Layout,
		Content:         card.Content,
		Score:           card.Score,
		Grade:           card.Grade,
		ScoringScheme:   card.Scheme,
		Feedback:        report.Feedback,
		Strengths:       report.Strengths,
		Weaknesses:      report.Weaknesses,
		Recommendations: report.Recommendations,
		JobMatch:        match,
	}
}

// applyEnrichment lets the model's verdict supersede score, grade and
// advice. Breakdown, flags and job-match figures stay heuristic.
func applyEnrichment(result *types.AnalysisResult, analysis ai.Analysis) {
	result.Score = analysis.Score
	result.Grade = analysis.Grade
	result.Feedback = analysis.Feedback
	if len(analysis.Strengths) > 0 {
		result.Strengths = analysis.Strengths
	}
	if len(analysis.Weaknesses) > 0 {
		result.Weaknesses = analysis.Weaknesses
	}
	if len(analysis.Recommendations) > 0 {
		result.Recommendations = analysis.Recommendations
	}
	result.AISummary = analysis.Summary
	result.AIEnhanced = true
}
