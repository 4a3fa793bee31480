// Command recommend triggers recommendation runs from the shell.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Generate competency-based recommendations for courses and vacancies",
	Long: `Runs the recommendation engine for one course or vacancy against every candidate profile.

Entities with declared competency requirements are matched strictly (all requirements met).
Entities without declared requirements have requirements inferred from their text and
match profiles meeting any inferred requirement.`,
	SilenceUsage: true,
}

func main() {
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
