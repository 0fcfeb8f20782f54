package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"alfredoptarigan/excel-interviewer/internal/config"
	"alfredoptarigan/excel-interviewer/internal/repositories"
	"alfredoptarigan/excel-interviewer/internal/services"
)

var (
	questionCount int
	bankPath      string
	reportOut     string
)

var rootCmd = &cobra.Command{
	Use:   "practice",
	Short: "Run one Excel interview in the terminal",
	Long: `Ask a sampled set of Excel questions on the terminal, score each
answer with the configured evaluator and print the summary at the end.
Answers end with an empty line.`,
	RunE: runPractice,
}

func init() {
	rootCmd.Flags().IntVarP(&questionCount, "questions", "n", 0, "questions to ask (defaults to QUESTIONS_PER_SESSION)")
	rootCmd.Flags().StringVar(&bankPath, "bank", "", "YAML question bank (defaults to QUESTION_BANK_PATH or the built-in bank)")
	rootCmd.Flags().StringVarP(&reportOut, "report", "o", "", "write the PDF report to this file")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runPractice(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	if questionCount > 0 {
		cfg.Interview.QuestionsPerSession = questionCount
	}
	if bankPath != "" {
		cfg.Interview.QuestionBankPath = bankPath
	}

	questions, err := services.LoadQuestionBank(cfg.Interview.QuestionBankPath)
	if err != nil {
		return err
	}

	llmClient, err := services.NewLLMClientFromConfig(cfg)
	if err != nil {
		return err
	}

	interviewService, err := services.NewInterviewService(
		repositories.NewMemoryRecordRepository(),
		services.NewEvaluatorService(llmClient, services.EvaluatorOptionsFromConfig(cfg)),
		nil,
		questions,
		cfg.Interview.QuestionsPerSession,
	)
	if err != nil {
		return err
	}

	// Evaluator logs would interleave with the prompts.
	log.SetOutput(io.Discard)

	summary, err := runSession(cmd.Context(), interviewService, bufio.NewReader(cmd.InOrStdin()), cmd.OutOrStdout())
	if err != nil {
		return err
	}

	printSummary(cmd.OutOrStdout(), summary)

	if reportOut != "" {
		data, err := services.NewReportService().RenderPDF(summary)
		if err != nil {
			return err
		}
		if err := os.WriteFile(reportOut, data, 0644); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "\nReport written to %s\n", reportOut)
	}

	return nil
}

func runSession(ctx context.Context, svc services.InterviewService, in *bufio.Reader, out io.Writer) (*services.Summary, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	session, err := svc.Start(ctx, uuid.Nil)
	if err != nil {
		return nil, err
	}

	for {
		index, question, err := svc.CurrentQuestion(session.ID)
		if err != nil {
			return nil, err
		}

		fmt.Fprintf(out, "\nQuestion %d/%d: %s\n> ", index+1, session.Total(), question)
		answer, err := readAnswer(in)
		if err != nil {
			return nil, err
		}
		if strings.TrimSpace(answer) == "" {
			fmt.Fprintln(out, "Please type an answer.")
			continue
		}

		fmt.Fprintln(out, "Evaluating...")
		transition, err := svc.SubmitAnswer(ctx, session.ID, index, answer)
		if err != nil {
			return nil, err
		}
		if transition.Completed {
			return transition.Summary, nil
		}
	}
}

// readAnswer reads lines until an empty line or EOF.
func readAnswer(in *bufio.Reader) (string, error) {
	var lines []string
	for {
		line, err := in.ReadString('\n')
		line = strings.TrimRight(line, "\r\n")
		if line != "" {
			lines = append(lines, line)
		}
		if err == io.EOF {
			if len(lines) == 0 {
				return "", fmt.Errorf("input closed before the interview finished")
			}
			return strings.Join(lines, "\n"), nil
		}
		if err != nil {
			return "", err
		}
		if line == "" {
			return strings.Join(lines, "\n"), nil
		}
	}
}

func printSummary(out io.Writer, summary *services.Summary) {
	fmt.Fprintln(out, "\n"+strings.Repeat("=", 60))
	fmt.Fprintf(out, "Overall Score: %s/10\n", services.FormatScore(summary.OverallScore))
	fmt.Fprintln(out, strings.Repeat("=", 60))

	for i, rec := range summary.Records {
		fmt.Fprintf(out, "\n%d. %s\n", i+1, rec.Question)
		fmt.Fprintf(out, "   Score: %d/10\n", rec.Score)
		fmt.Fprintf(out, "   Feedback: %s\n", rec.Feedback)
	}
}
