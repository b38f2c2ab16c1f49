package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

// NewGradingCmd создаёт группу команд для управления грейдингами.
func NewGradingCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "grading",
		Short: "Manage gradings",
	}

	cmd.AddCommand(
		newGradingListCmd(clientFn, outputFn),
		newGradingStartCmd(clientFn, outputFn),
		newGradingShowCmd(clientFn, outputFn),
		newGradingReportCmd(clientFn, outputFn),
	)

	return cmd
}

func newGradingListCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var submissionID string
	var status string
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List gradings",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			gradings, err := client.ListGradings(ListGradingsOpts{
				SubmissionID: submissionID,
				Status:       status,
				Limit:        limit,
			})
			if err != nil {
				return err
			}

			headers := []string{"ID", "SUBMISSION_ID", "VERSION", "SCENARIO", "STATUS", "CREATED"}
			rows := make([][]string, len(gradings))
			for i, g := range gradings {
				rows[i] = []string{g.ID, g.SubmissionID, strconv.Itoa(g.Version), g.Scenario, g.Status, g.CreatedAt}
			}

			out.Print(headers, rows, gradings)
			return nil
		},
	}

	cmd.Flags().StringVar(&submissionID, "submission-id", "", "Filter by submission ID")
	cmd.Flags().StringVar(&status, "status", "", "Filter by status (PENDING, RUNNING, GRADED, ERRORED)")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of results")

	return cmd
}

func newGradingStartCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var version int
	var scenario string

	cmd := &cobra.Command{
		Use:   "start SUBMISSION_ID",
		Short: "Start a new grading",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			req := CreateGradingRequest{
				Scenario: scenario,
			}

			if cmd.Flags().Changed("version") {
				req.Version = &version
			}

			grading, err := client.CreateGrading(args[0], req)
			if err != nil {
				return err
			}

			out.Success(fmt.Sprintf("Grading started: %s", grading.ID))
			out.Print(
				[]string{"ID", "SUBMISSION_ID", "VERSION", "SCENARIO", "STATUS", "CREATED"},
				[][]string{{grading.ID, grading.SubmissionID, strconv.Itoa(grading.Version), grading.Scenario, grading.Status, grading.CreatedAt}},
				grading,
			)
			return nil
		},
	}

	cmd.Flags().IntVar(&version, "version", 0, "Submission version (latest if not specified)")
	cmd.Flags().StringVar(&scenario, "scenario", "", "Scenario name (baseline if not specified)")

	return cmd
}

func newGradingShowCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show grading details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			grading, err := client.GetGrading(args[0])
			if err != nil {
				return err
			}

			out.Print(
				[]string{"ID", "SUBMISSION_ID", "VERSION", "SCENARIO", "STATUS", "ERROR", "CREATED"},
				[][]string{{grading.ID, grading.SubmissionID, strconv.Itoa(grading.Version), grading.Scenario, grading.Status, grading.Error, grading.CreatedAt}},
				grading,
			)
			return nil
		},
	}
}

func newGradingReportCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "report GRADING_ID",
		Short: "Show the grading report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			report, err := client.GetGradingReport(args[0])
			if err != nil {
				return err
			}

			headers := []string{"CHECK", "STATUS", "DETAILS"}
			rows := make([][]string, len(report.Checks))
			for i, c := range report.Checks {
				rows[i] = []string{c.Name, c.Status, c.Details}
			}

			out.Print(headers, rows, report)
			return nil
		},
	}
}
