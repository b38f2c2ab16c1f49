package cli

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/shaiso/Biome/internal/submission"
)

// NewSubmissionCmd создаёт группу команд для управления сабмишенами.
func NewSubmissionCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "submission",
		Short: "Manage submissions",
	}

	cmd.AddCommand(
		newSubmissionListCmd(clientFn, outputFn),
		newSubmissionCreateCmd(clientFn, outputFn),
		newSubmissionShowCmd(clientFn, outputFn),
		newSubmissionUpdateCmd(clientFn, outputFn),
		newSubmissionDeleteCmd(clientFn, outputFn),
		newSubmissionVersionsCmd(clientFn, outputFn),
		newSubmissionSubmitCmd(clientFn, outputFn),
	)

	return cmd
}

func newSubmissionListCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var assignment, student string
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List submissions",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			subs, err := client.ListSubmissions(ListSubmissionsOpts{
				Assignment: assignment,
				Student:    student,
				Limit:      limit,
			})
			if err != nil {
				return err
			}

			headers := []string{"ID", "STUDENT", "ASSIGNMENT", "ACTIVE", "CREATED"}
			rows := make([][]string, len(subs))
			for i, s := range subs {
				rows[i] = []string{s.ID, s.Student, s.Assignment, strconv.FormatBool(s.IsActive), s.CreatedAt}
			}

			out.Print(headers, rows, subs)
			return nil
		},
	}

	cmd.Flags().StringVar(&assignment, "assignment", "", "Filter by assignment")
	cmd.Flags().StringVar(&student, "student", "", "Filter by student")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of results")

	return cmd
}

func newSubmissionCreateCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var student, assignment string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new submission",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			sub, err := client.CreateSubmission(student, assignment)
			if err != nil {
				return err
			}

			out.Success(fmt.Sprintf("Submission created: %s", sub.ID))
			out.Print(
				[]string{"ID", "STUDENT", "ASSIGNMENT", "ACTIVE", "CREATED"},
				[][]string{{sub.ID, sub.Student, sub.Assignment, strconv.FormatBool(sub.IsActive), sub.CreatedAt}},
				sub,
			)
			return nil
		},
	}

	cmd.Flags().StringVar(&student, "student", "", "Student identifier (required)")
	cmd.Flags().StringVar(&assignment, "assignment", "", "Assignment name (required)")
	cmd.MarkFlagRequired("student")
	cmd.MarkFlagRequired("assignment")

	return cmd
}

func newSubmissionShowCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show submission details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			sub, err := client.GetSubmission(args[0])
			if err != nil {
				return err
			}

			out.Print(
				[]string{"ID", "STUDENT", "ASSIGNMENT", "ACTIVE", "CREATED"},
				[][]string{{sub.ID, sub.Student, sub.Assignment, strconv.FormatBool(sub.IsActive), sub.CreatedAt}},
				sub,
			)
			return nil
		},
	}
}

func newSubmissionUpdateCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var student string
	var active string

	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Update a submission",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			req := UpdateSubmissionRequest{}
			if cmd.Flags().Changed("student") {
				req.Student = &student
			}
			if cmd.Flags().Changed("active") {
				b, err := strconv.ParseBool(active)
				if err != nil {
					return fmt.Errorf("invalid value for --active: %s", active)
				}
				req.IsActive = &b
			}

			sub, err := client.UpdateSubmission(args[0], req)
			if err != nil {
				return err
			}

			out.Success("Submission updated")
			out.Print(
				[]string{"ID", "STUDENT", "ASSIGNMENT", "ACTIVE", "CREATED"},
				[][]string{{sub.ID, sub.Student, sub.Assignment, strconv.FormatBool(sub.IsActive), sub.CreatedAt}},
				sub,
			)
			return nil
		},
	}

	cmd.Flags().StringVar(&student, "student", "", "New student identifier")
	cmd.Flags().StringVar(&active, "active", "", "Set active status (true/false)")

	return cmd
}

func newSubmissionDeleteCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a submission",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			if err := client.DeleteSubmission(args[0]); err != nil {
				return err
			}

			out.Success(fmt.Sprintf("Submission deleted: %s", args[0]))
			return nil
		},
	}
}

func newSubmissionVersionsCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "versions SUBMISSION_ID",
		Short: "List submission versions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			versions, err := client.ListVersions(args[0])
			if err != nil {
				return err
			}

			headers := []string{"SUBMISSION_ID", "VERSION", "CREATED"}
			rows := make([][]string, len(versions))
			for i, v := range versions {
				rows[i] = []string{v.SubmissionID, strconv.Itoa(v.Version), v.CreatedAt}
			}

			out.Print(headers, rows, versions)
			return nil
		},
	}
}

func newSubmissionSubmitCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var manifestFile string

	cmd := &cobra.Command{
		Use:   "submit SUBMISSION_ID",
		Short: "Submit a new version from manifest file (JSON or YAML)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			// Парсим и валидируем локально; YAML конвертируется в JSON
			// перед отправкой — API принимает только JSON
			manifest, err := submission.Load(manifestFile)
			if err != nil {
				return err
			}
			payload, err := json.Marshal(manifest)
			if err != nil {
				return fmt.Errorf("failed to encode manifest: %w", err)
			}

			version, err := client.SubmitVersion(args[0], payload)
			if err != nil {
				return err
			}

			out.Success(fmt.Sprintf("Version %d submitted for submission %s", version.Version, version.SubmissionID))
			out.Print(
				[]string{"SUBMISSION_ID", "VERSION", "CREATED"},
				[][]string{{version.SubmissionID, strconv.Itoa(version.Version), version.CreatedAt}},
				version,
			)
			return nil
		},
	}

	cmd.Flags().StringVar(&manifestFile, "manifest", "", "Path to manifest file (required)")
	cmd.MarkFlagRequired("manifest")

	return cmd
}
