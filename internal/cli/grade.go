package cli

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/shaiso/Biome/internal/domain"
	"github.com/shaiso/Biome/internal/ecosim"
	"github.com/shaiso/Biome/internal/grader"
	"github.com/shaiso/Biome/internal/submission"
)

// NewGradeCmd создаёт команду локального грейдинга: манифест
// проверяется прямо в процессе CLI, без API и базы. Удобно студентам
// для самопроверки перед сабмитом.
func NewGradeCmd(outputFn func() *Output) *cobra.Command {
	var example bool
	var showVars bool

	cmd := &cobra.Command{
		Use:   "grade [MANIFEST_FILE]",
		Short: "Grade a manifest locally against the baseline scenario",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := outputFn()

			if example {
				return printExample(out)
			}

			if len(args) != 1 {
				return fmt.Errorf("manifest file is required (or use --example)")
			}

			manifest, err := submission.Load(args[0])
			if err != nil {
				return err
			}

			g := grader.New(grader.Config{})
			report := g.Grade(cmd.Context(), manifest, ecosim.BaselineScenario())

			printReport(out, report, showVars)

			if !report.Passed() {
				return fmt.Errorf("grading failed")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&example, "example", false, "Print the reference manifest and exit")
	cmd.Flags().BoolVar(&showVars, "vars", false, "Print computed variables")

	return cmd
}

func printExample(out *Output) error {
	manifest := ecosim.ReferenceManifest()
	data, err := submission.Encode(&manifest, submission.FormatJSON)
	if err != nil {
		return err
	}
	out.Raw(data)
	return nil
}

func printReport(out *Output, report *domain.Report, showVars bool) {
	headers := []string{"CHECK", "STATUS", "DETAILS"}
	rows := make([][]string, len(report.Checks))
	for i, c := range report.Checks {
		rows[i] = []string{c.Name, string(c.Status), c.Details}
	}
	out.Print(headers, rows, report)

	if showVars && report.Variables != nil {
		names := make([]string, 0, len(report.Variables))
		for name := range report.Variables {
			names = append(names, name)
		}
		sort.Strings(names)

		varRows := make([][]string, len(names))
		for i, name := range names {
			varRows[i] = []string{name, strconv.FormatFloat(report.Variables[name], 'g', -1, 64)}
		}
		out.Print([]string{"VARIABLE", "VALUE"}, varRows, report.Variables)
	}

	if report.Passed() {
		out.Success("All checks passed")
	}
}
