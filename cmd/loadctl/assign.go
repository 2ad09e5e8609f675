package main

import (
	"context"
	"fmt"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/noah-isme/faculty-loading-api/internal/dto"
)

var (
	termFlag    string
	meetingFlag string
	allFlag     bool
)

var autoAssignCmd = &cobra.Command{
	Use:   "auto-assign",
	Short: "Assigns every open class meeting of a term",
	Long: `Runs the same automatic assignment as POST /terms/:termId/auto-assign.
The term must be in SCHEDULING and no other run may hold its lock.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		result, err := a.scheduler().AutoAssign(ctx, termFlag)
		if err != nil {
			return err
		}
		a.logger.Info("auto assignment finished",
			zap.String("term_id", result.TermID),
			zap.Int("assigned", result.Assigned),
			zap.Int("skipped", len(result.Skipped)),
			zap.Int64("duration_ms", result.DurationMs),
		)
		cmd.Printf("assigned %d of %d class meetings in %dms\n", result.Assigned, result.Considered, result.DurationMs)
		for _, skipped := range result.Skipped {
			cmd.Printf("  skipped %s: %s\n", skipped.ClassMeetingID, skipped.Reason)
		}
		return nil
	},
}

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Ranks faculty members for one class meeting",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		result, err := a.scheduler().Recommend(cmd.Context(), termFlag, meetingFlag, dto.RecommendationQuery{All: allFlag})
		if err != nil {
			return err
		}
		printCandidates(cmd, result.Candidates)
		return nil
	},
}

func printCandidates(cmd *cobra.Command, candidates []dto.CandidateView) {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tRANK\tLOAD\tSCORE\tNOTES")
	for _, c := range candidates {
		notes := strings.Join(c.Errors, "; ")
		if c.Eligible {
			notes = strings.Join(append(append([]string{}, c.Pros...), c.Cons...), "; ")
		}
		fmt.Fprintf(w, "%s\t%s\t%d (%s)\t%.1f\t%s\n", c.Name, c.Rank, c.AssignmentCount, c.LoadStatus, c.Score, notes)
	}
	w.Flush()
}

func init() {
	rootCmd.AddCommand(autoAssignCmd)
	rootCmd.AddCommand(recommendCmd)

	autoAssignCmd.Flags().StringVar(&termFlag, "term", "", "term ID")
	autoAssignCmd.MarkFlagRequired("term") //nolint:errcheck

	recommendCmd.Flags().StringVar(&termFlag, "term", "", "term ID")
	recommendCmd.Flags().StringVar(&meetingFlag, "meeting", "", "class meeting ID")
	recommendCmd.Flags().BoolVar(&allFlag, "all", false, "include part-time and adjunct members while full-time members are underloaded")
	recommendCmd.MarkFlagRequired("term")    //nolint:errcheck
	recommendCmd.MarkFlagRequired("meeting") //nolint:errcheck
}
