package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/shijra-api/internal/client/hints"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	apiURL       string
	treeID       string
	individualID string
	openPanel    bool
	reviewID     string
	fetchTimeout time.Duration
	verbose      bool
)

var rootCmd = &cobra.Command{
	Use:   "hints",
	Short: "Show ancestor match hints for an individual",
	Long: `Fetch match candidates for one individual in a family tree and print
the hint panel as the web widget would render it.

The badge counts unseen candidates. --open marks them seen, --review hands a
candidate to the navigation handler and closes the panel.`,
	SilenceUsage: true,
	RunE:         runHints,
}

func init() {
	rootCmd.Flags().StringVar(&apiURL, "api", envOr("SHIJRA_API_URL", "http://localhost:3000"), "base URL of the API")
	rootCmd.Flags().StringVar(&treeID, "tree", "", "tree ID (required)")
	rootCmd.Flags().StringVar(&individualID, "individual", hints.DefaultIndividualID, "individual in view")
	rootCmd.Flags().BoolVar(&openPanel, "open", false, "open the panel after loading")
	rootCmd.Flags().StringVar(&reviewID, "review", "", "review the match with this hint ID")
	rootCmd.Flags().DurationVar(&fetchTimeout, "timeout", 10*time.Second, "fetch timeout")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log fetch errors to stderr")
	_ = rootCmd.MarkFlagRequired("tree")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runHints(cmd *cobra.Command, _ []string) error {
	log := zap.NewNop()
	if verbose {
		l, err := zap.NewDevelopment()
		if err != nil {
			return err
		}
		log = l
		defer func() { _ = log.Sync() }()
	}

	out := cmd.OutOrStdout()
	fetcher := hints.NewHTTPFetcher(apiURL, &http.Client{Timeout: fetchTimeout})
	w := hints.New(fetcher,
		hints.WithLogger(log),
		hints.WithNavigator(func(n hints.Navigation) { printNavigation(out, n) }),
	)
	defer w.Stop()

	ctx, cancel := context.WithTimeout(cmd.Context(), fetchTimeout)
	defer cancel()

	w.SetContext(ctx, treeID, individualID)
	if err := w.Wait(ctx); err != nil {
		return fmt.Errorf("waiting for hints: %w", err)
	}

	if openPanel || reviewID != "" {
		w.Open()
	}
	render(out, w.Snapshot())

	if reviewID != "" {
		w.ReviewMatch(reviewID)
	}
	return nil
}

func render(out io.Writer, s hints.Snapshot) {
	panel := "closed"
	if s.Open {
		panel = "open"
	}
	fmt.Fprintf(out, "Tree %s / individual %s  [%s, panel %s, badge %d]\n",
		s.TreeID, s.IndividualID, s.State, panel, s.BadgeCount)
	if s.Copy != "" {
		fmt.Fprintln(out, s.Copy)
		return
	}
	for _, h := range s.Hints {
		fmt.Fprintf(out, "  %-2s %3d%%  %-8s %s", h.Glyph, h.ConfidenceLevel, h.ColorBand, h.SuggestedName)
		if h.SourceTreeName != "" {
			fmt.Fprintf(out, " (%s)", h.SourceTreeName)
		}
		fmt.Fprintf(out, "  id=%s\n", h.ID)
		if len(h.MatchedOn) > 0 {
			fmt.Fprintf(out, "       matched on: %v\n", []string(h.MatchedOn))
		}
	}
}

func printNavigation(out io.Writer, n hints.Navigation) {
	switch n.Kind {
	case hints.NavReviewMatch:
		fmt.Fprintf(out, "-> review match %s\n", n.HintID)
	case hints.NavViewAll:
		fmt.Fprintln(out, "-> view all hints")
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
