package commands

import (
	"fmt"
	"strconv"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/hulquest/ansibullbot/internal/github"
	"github.com/hulquest/ansibullbot/internal/history"
)

var (
	scanWorkers int
	scanPulls   bool
)

// scanCmd warms the history cache for a set of issues. Histories are isolated
// per issue and cache writes are atomic renames, so building them in parallel
// is safe.
var scanCmd = &cobra.Command{
	Use:   "scan [issue numbers...]",
	Short: "Build and cache the history for one or more issues",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		numbers := make([]int, 0, len(args))
		for _, arg := range args {
			n, err := strconv.Atoi(arg)
			if err != nil {
				return fmt.Errorf("invalid issue number %q", arg)
			}
			numbers = append(numbers, n)
		}

		var g errgroup.Group
		g.SetLimit(scanWorkers)

		var mu sync.Mutex
		built := 0

		for _, number := range numbers {
			number := number
			g.Go(func() error {
				issue, err := github.FetchIssue(apiClient, cfg.Repo, number)
				if err != nil {
					return fmt.Errorf("issue %d: %w", number, err)
				}
				wrapper, err := history.New(issue, history.Options{
					UseCache:     true,
					CacheDir:     cfg.CacheDir,
					ExcludeUsers: cfg.ExcludeUsers,
				})
				if err != nil {
					return fmt.Errorf("issue %d: %w", number, err)
				}

				if scanPulls {
					commits, err := issue.Commits()
					if err != nil {
						return fmt.Errorf("issue %d: %w", number, err)
					}
					wrapper.History().MergeCommits(commits)

					reviews, err := issue.Reviews()
					if err != nil {
						return fmt.Errorf("issue %d: %w", number, err)
					}
					if err := wrapper.History().MergeReviews(reviews); err != nil {
						return fmt.Errorf("issue %d: %w", number, err)
					}
				}

				log.Info().
					Int("issue", number).
					Int("events", wrapper.History().Len()).
					Msg("History built")

				mu.Lock()
				built++
				mu.Unlock()
				return nil
			})
		}

		if err := g.Wait(); err != nil {
			return err
		}

		log.Info().Int("issues", built).Msg("Scan complete")
		return nil
	},
}

func init() {
	scanCmd.Flags().IntVar(&scanWorkers, "workers", 4, "maximum concurrent history builds")
	scanCmd.Flags().BoolVar(&scanPulls, "pulls", false, "also merge pull request commits and reviews")
	rootCmd.AddCommand(scanCmd)
}
