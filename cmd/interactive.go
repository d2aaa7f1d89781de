package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/resume-matcher/internal/docextract"
	"github.com/spigell/resume-matcher/internal/pipeline"
)

const (
	PromptYes      = "Yes"
	PromptNo       = "No"
	PromptAnother  = "Analyze another resume"
	PromptExit     = "Exit"
	sectionDivider = "----------------------------------------"
)

var interactiveCmd = &cobra.Command{
	Use:   "interactive",
	Short: "Fill in the resume and job description in an interactive form",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return interactive(cmd)
	},
}

func init() {
	rootCmd.AddCommand(interactiveCmd)
}

func interactive(cmd *cobra.Command) error {
	ctx := cmd.Context()
	logger, config := setup()

	for {
		resumePrompt := promptui.Prompt{
			Label:    "Path to your resume (pdf, docx, txt)",
			Validate: validateResumePath,
		}
		resumePath, err := resumePrompt.Run()
		if err != nil {
			return promptErr(err)
		}

		jdPrompt := promptui.Prompt{
			Label:    "Path to the job description text file",
			Validate: validateFile,
		}
		jdPath, err := jdPrompt.Run()
		if err != nil {
			return promptErr(err)
		}

		interviewEnabled := config.Interview.Enabled
		interviewPrompt := promptui.Select{
			Label: "Include interview insights from web search?",
			Items: []string{PromptNo, PromptYes},
		}
		if interviewEnabled {
			interviewPrompt.Items = []string{PromptYes, PromptNo}
		}
		_, answer, err := interviewPrompt.Run()
		if err != nil {
			return promptErr(err)
		}
		interviewEnabled = answer == PromptYes

		resume, err := readResume(strings.TrimSpace(resumePath))
		if err != nil {
			logger.Error("reading resume", zap.Error(err))
			fmt.Fprintln(cmd.OutOrStdout(), formError(err))
			continue
		}

		jobDescription, err := readJobDescription(strings.TrimSpace(jdPath), nil)
		if err != nil {
			logger.Error("reading job description", zap.Error(err))
			fmt.Fprintln(cmd.OutOrStdout(), formError(err))
			continue
		}

		orchestrator, err := newOrchestrator(ctx, config, interviewEnabled, logger)
		if err != nil {
			logger.Error("preparing the pipeline", zap.Error(err))
			return err
		}

		logger.Info("analyzing", zap.Bool("interview", interviewEnabled))
		res := orchestrator.Run(ctx, resume, jobDescription)
		logger.Info("analysis finished", zap.String("result", resultStatus(res)))

		renderResult(cmd.OutOrStdout(), res)

		next := promptui.Select{
			Label: "What next?",
			Items: []string{PromptAnother, PromptExit},
		}
		_, action, err := next.Run()
		if err != nil {
			return promptErr(err)
		}
		if action == PromptExit {
			return nil
		}
	}
}

func validateFile(input string) error {
	info, err := os.Stat(strings.TrimSpace(input))
	if err != nil {
		return errors.New("file does not exist")
	}
	if info.IsDir() {
		return errors.New("path is a directory")
	}
	return nil
}

func validateResumePath(input string) error {
	if !docextract.Allowed(input) {
		return errors.New("unsupported file format")
	}
	return validateFile(input)
}

// promptErr treats ^C and ^D as a normal exit.
func promptErr(err error) error {
	if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
		return nil
	}
	return err
}

func formError(err error) string {
	return fmt.Sprintf("Error: %v", err)
}

type section struct {
	title string
	body  string
}

// renderResult prints the result as labelled sections.
func renderResult(w io.Writer, res pipeline.Result) {
	if !res.OK() {
		fmt.Fprintf(w, "Error: %s\n", res.Failure.Message)
		for _, d := range res.Failure.Details {
			fmt.Fprintf(w, "  - %s\n", d)
		}
		return
	}

	s := res.Success
	sections := []section{
		{title: "Compatibility Evaluation", body: s.Analysis.CompatibilityEvaluation},
		{title: "Improvement Suggestions", body: s.Analysis.Suggestions},
		{title: "Example Resume Bullet Points", body: s.Analysis.BulletPoints},
	}
	if s.Extended {
		title := "Interview Insights"
		if s.Entities.CompanyName != "" {
			title = fmt.Sprintf("Interview Insights: %s, %s", s.Entities.CompanyName, s.Entities.JobTitle)
		}
		body := s.InterviewInsights
		if body == "" {
			body = "Interview insights are not available for this job description."
		}
		sections = append(sections, section{title: title, body: body})
	}

	for _, sec := range sections {
		fmt.Fprintf(w, "%s\n%s\n%s\n\n", sec.title, sectionDivider, sec.body)
	}
}
