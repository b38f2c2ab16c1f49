// Biome CLI — инструмент командной строки для управления
// сабмишенами, грейдингами и расписаниями через HTTP API.
//
// Использование:
//
//	biome [--api-url URL] [--json] <command> <subcommand> [flags]
//
// Команды:
//
//	submission  Управление сабмишенами
//	grading     Управление грейдингами
//	schedule    Управление расписаниями регрейдов
//	grade       Локальная проверка манифеста (без API)
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shaiso/Biome/internal/cli"
)

// version задаётся через ldflags при сборке.
var version = "dev"

func main() {
	var apiURL string
	var jsonOutput bool

	rootCmd := &cobra.Command{
		Use:           "biome",
		Short:         "Biome CLI — ecosystem simulation grading tool",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "http://localhost:8080", "API server URL")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")

	clientFn := func() *cli.Client { return cli.NewClient(apiURL) }
	outputFn := func() *cli.Output { return cli.NewOutput(jsonOutput) }

	rootCmd.AddCommand(
		cli.NewSubmissionCmd(clientFn, outputFn),
		cli.NewGradingCmd(clientFn, outputFn),
		cli.NewScheduleCmd(clientFn, outputFn),
		cli.NewGradeCmd(outputFn),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
