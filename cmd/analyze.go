package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/resume-matcher/internal/docextract"
	"github.com/spigell/resume-matcher/internal/pipeline"
)

// errFailedResult makes the command exit non-zero after printing a failure result.
var errFailedResult = errors.New("pipeline returned a failure result")

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze a resume against a job description and print the result as JSON",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return analyze(cmd)
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringP("resume", "r", "", "path to the resume (pdf, docx or txt)")
	analyzeCmd.Flags().StringP("job-description", "J", "", "path to the job description text, '-' reads stdin")
	analyzeCmd.Flags().BoolP("interview", "i", false, "add interview insights from web search")

	analyzeCmd.MarkFlagRequired("resume")
	analyzeCmd.MarkFlagRequired("job-description")

	viper.BindPFlag("interview.enabled", analyzeCmd.Flags().Lookup("interview"))
}

func analyze(cmd *cobra.Command) error {
	ctx := cmd.Context()
	logger, config := setup()

	resumePath, _ := cmd.Flags().GetString("resume")
	jdPath, _ := cmd.Flags().GetString("job-description")

	resume, err := readResume(resumePath)
	if err != nil {
		logger.Error("reading resume", zap.Error(err), zap.String("path", resumePath))
		return err
	}

	jobDescription, err := readJobDescription(jdPath, cmd.InOrStdin())
	if err != nil {
		logger.Error("reading job description", zap.Error(err), zap.String("path", jdPath))
		return err
	}

	orchestrator, err := newOrchestrator(ctx, config, config.Interview.Enabled, logger)
	if err != nil {
		logger.Error("preparing the pipeline", zap.Error(err))
		return err
	}

	res := orchestrator.Run(ctx, resume, jobDescription)

	out, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))

	if !res.OK() {
		logger.Warn("analysis did not succeed",
			zap.String("state", string(res.State)),
			zap.Int("status", res.StatusCode()),
		)
		return errFailedResult
	}

	return nil
}

func readResume(path string) (string, error) {
	if !docextract.Allowed(path) {
		return "", fmt.Errorf("%w: %s", docextract.ErrUnsupportedFormat, filepath.Ext(path))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	return docextract.Extract(filepath.Base(path), data)
}

func readJobDescription(path string, stdin io.Reader) (string, error) {
	var (
		data []byte
		err  error
	)

	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", err
	}

	text := strings.TrimSpace(string(data))
	if text == "" {
		return "", errors.New("job description is empty")
	}

	return text, nil
}

// ExitCode maps the command error to the process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errFailedResult):
		return 2
	default:
		return 1
	}
}

// resultStatus is shared by the interactive form for its summary line.
func resultStatus(res pipeline.Result) string {
	if res.OK() {
		return "succeeded"
	}
	return fmt.Sprintf("failed (%s)", res.Failure.Kind)
}
