package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"skill-bridge/internal/app"
	"skill-bridge/internal/config"
	"skill-bridge/internal/logger"
	"skill-bridge/internal/usecase"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	runMode    string
	runJSON    bool
	runVerbose bool
	runDryRun  bool
)

var courseCommand = &cobra.Command{
	Use:   "course <course-id>",
	Short: "Recommend a course to qualifying profiles",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRecommend(cmd, args[0], kindCourse)
	},
}

var vacancyCommand = &cobra.Command{
	Use:   "vacancy <vacancy-id>",
	Short: "Recommend a vacancy to qualifying profiles",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRecommend(cmd, args[0], kindVacancy)
	},
}

type entityKind int

const (
	kindCourse entityKind = iota
	kindVacancy
)

func init() {
	rootCmd.PersistentFlags().StringVar(&runMode, "mode", "", "append or skip_existing (default from RECOMMENDATION_MODE)")
	rootCmd.PersistentFlags().BoolVar(&runJSON, "json", false, "Print the run as JSON")
	rootCmd.PersistentFlags().BoolVarP(&runVerbose, "verbose", "v", false, "Debug logging")
	rootCmd.PersistentFlags().BoolVar(&runDryRun, "dry-run", false, "List profiles meeting declared requirements without persisting")

	rootCmd.AddCommand(courseCommand, vacancyCommand)
}

func runRecommend(cmd *cobra.Command, rawID string, kind entityKind) error {
	id, err := uuid.Parse(rawID)
	if err != nil {
		return fmt.Errorf("invalid id %q: %w", rawID, err)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if runMode != "" {
		if _, err := usecase.ParseMode(runMode); err != nil {
			return err
		}
		cfg.Matching.Mode = runMode
	}

	log, err := logger.New(cfg.Log.JSON, cfg.Log.Debug || runVerbose)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	c, err := app.NewContainer(ctx, cfg, log, nil)
	if err != nil {
		return fmt.Errorf("init container: %w", err)
	}
	defer func() { _ = c.Close() }()

	out := cmd.OutOrStdout()

	if runDryRun {
		var ids []uuid.UUID
		if kind == kindCourse {
			ids, err = c.Trigger.MatchCourse(ctx, id)
		} else {
			ids, err = c.Trigger.MatchVacancy(ctx, id)
		}
		if err != nil {
			return err
		}
		return printMatches(out, ids)
	}

	var run usecase.RecommendationRun
	if kind == kindCourse {
		run, err = c.Trigger.RecommendCourseByID(ctx, id)
	} else {
		run, err = c.Trigger.RecommendVacancyByID(ctx, id)
	}
	if err != nil {
		return err
	}
	return printRun(out, run)
}

type runSummary struct {
	EntityKind   string      `json:"entity_kind"`
	EntityID     uuid.UUID   `json:"entity_id"`
	Path         string      `json:"path"`
	Policy       string      `json:"policy"`
	Requirements int         `json:"requirements"`
	Qualified    int         `json:"qualified"`
	Skipped      int         `json:"skipped"`
	Persisted    []uuid.UUID `json:"persisted_profile_ids"`
}

func summarize(run usecase.RecommendationRun) runSummary {
	ids := make([]uuid.UUID, 0, len(run.Recommendations))
	for _, r := range run.Recommendations {
		ids = append(ids, r.ProfileID)
	}
	return runSummary{
		EntityKind:   string(run.Target.Kind),
		EntityID:     run.Target.ID,
		Path:         string(run.Path),
		Policy:       run.Policy.String(),
		Requirements: len(run.Requirements),
		Qualified:    len(run.Qualified),
		Skipped:      run.Skipped,
		Persisted:    ids,
	}
}

func printRun(w io.Writer, run usecase.RecommendationRun) error {
	s := summarize(run)
	if runJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(s)
	}

	fmt.Fprintf(w, "%s %s\n", s.EntityKind, s.EntityID)
	fmt.Fprintf(w, "  path:         %s (%s)\n", s.Path, s.Policy)
	fmt.Fprintf(w, "  requirements: %d\n", s.Requirements)
	fmt.Fprintf(w, "  qualified:    %d\n", s.Qualified)
	if s.Skipped > 0 {
		fmt.Fprintf(w, "  skipped:      %d\n", s.Skipped)
	}
	fmt.Fprintf(w, "  persisted:    %d\n", len(s.Persisted))
	for _, id := range s.Persisted {
		fmt.Fprintf(w, "    - %s\n", id)
	}
	return nil
}

func printMatches(w io.Writer, ids []uuid.UUID) error {
	if runJSON {
		return json.NewEncoder(w).Encode(ids)
	}
	fmt.Fprintf(w, "%d profile(s) meet every declared requirement\n", len(ids))
	for _, id := range ids {
		fmt.Fprintf(w, "  - %s\n", id)
	}
	return nil
}
