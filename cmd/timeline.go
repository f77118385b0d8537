package cmd

import (
	"fmt"

	"github.com/gkj-pamulang/panitia/internal/content"

	"github.com/spf13/cobra"
)

var flagWidth int

var timelineCmd = &cobra.Command{
	Use:   "timeline",
	Short: "Calling process stages, committee and candidate profile",
	RunE:  runTimeline,
}

func init() {
	timelineCmd.Flags().IntVar(&flagWidth, "width", 80, "Wrap width for rendered text")
	rootCmd.AddCommand(timelineCmd)
}

func runTimeline(_ *cobra.Command, _ []string) error {
	e, err := setup()
	if err != nil {
		return err
	}

	term, err := content.NewTerminal(flagWidth, e.cfg.Appearance.MarkdownStyle)
	if err != nil {
		return err
	}

	ds := e.loader.Dataset()
	for _, src := range []string{
		content.TimelineMarkdown(ds),
		content.CommitteeMarkdown(ds),
		content.CandidateMarkdown(ds),
	} {
		out, err := term.Render(src)
		if err != nil {
			return err
		}
		fmt.Print(out)
	}
	return nil
}
