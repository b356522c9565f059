package common

import (
	"context"

	"atscore/internal/errors"
	"atscore/internal/types"
)

// Analyzer is the part of the analysis pipeline the commands need
type Analyzer interface {
	Analyze(ctx context.Context, req types.AnalysisRequest) (*types.AnalysisResponse, error)
}

// RunAnalysis analyzes one resume and writes the formatted response. A
// failed analysis is still written, then its error is returned.
func RunAnalysis(
	ctx context.Context,
	logger *errors.Logger,
	cmdConfig CommandConfig,
	analyzer Analyzer,
	req types.AnalysisRequest,
) error {
	fileProcessor := NewFileProcessor(logger)
	outputHandler := NewOutputHandler(logger)

	if err := fileProcessor.ValidateOutputFile(cmdConfig.OutputFile); err != nil {
		return err
	}

	logger.Info("Starting resume analysis",
		"file", req.FilePath,
		"mode", req.Mode,
		"job_chars", len(req.JobDescription),
		"output_format", cmdConfig.OutputFormat)

	resp, analyzeErr := analyzer.Analyze(ctx, req)
	if resp == nil {
		return analyzeErr
	}

	if err := outputHandler.HandleOutput(resp, cmdConfig); err != nil {
		return err
	}
	return analyzeErr
}
