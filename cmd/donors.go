package cmd

import (
	"fmt"

	"github.com/gkj-pamulang/panitia/internal/cli"
	"github.com/gkj-pamulang/panitia/internal/model"
	"github.com/gkj-pamulang/panitia/internal/pipeline"

	"github.com/spf13/cobra"
)

var flagRegion string

var donorsCmd = &cobra.Command{
	Use:     "donors",
	Aliases: []string{"donatur"},
	Short:   "Donor payment status by region",
	RunE:    runDonors,
}

func init() {
	donorsCmd.Flags().StringVarP(&flagRegion, "region", "r", "", "Only show this region (wilayah)")
	rootCmd.AddCommand(donorsCmd)
}

func runDonors(_ *cobra.Command, _ []string) error {
	_, snap, err := loadSnapshot()
	if err != nil {
		return err
	}
	v := snap.Donors
	sum := v.Summary
	if flagRegion != "" {
		sum = pipeline.SummarizeDonors(pipeline.FilterDonorsByRegion(v.Donors, flagRegion))
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("STATUS DONATUR"))
	fmt.Println(cli.RenderBanner(v.Meta))
	fmt.Println()

	if sum.Counts.Total == 0 {
		fmt.Println("  Belum ada data donatur.")
		fmt.Println()
		return nil
	}

	c := sum.Counts
	fmt.Printf("  Total %s  ·  Lunas %s (%s)  ·  Belum %s (%s)\n",
		cli.FormatNumber(int64(c.Total)),
		cli.FormatNumber(int64(c.Paid)), cli.FormatPercent(c.PaidPercent()),
		cli.FormatNumber(int64(c.Unpaid)), cli.FormatPercent(c.UnpaidPercent()),
	)
	if c.Unknown > 0 {
		fmt.Printf("  %d donatur dengan status tidak dikenal\n", c.Unknown)
	}
	fmt.Println()

	regionRows := make([][]string, 0, len(sum.Regions))
	for _, r := range sum.Regions {
		regionRows = append(regionRows, []string{
			r.Region,
			cli.FormatNumber(int64(r.Counts.Total)),
			cli.FormatNumber(int64(r.Counts.Paid)),
			cli.FormatNumber(int64(r.Counts.Unpaid)),
			cli.FormatPercent(r.Counts.PaidPercent()),
		})
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Per Wilayah",
		Headers: []string{"Wilayah", "Donatur", "Lunas", "Belum", "% Lunas"},
		Rows:    regionRows,
	}))
	fmt.Println()

	for _, r := range sum.Regions {
		rows := make([][]string, 0, len(r.Donors))
		for _, d := range r.Donors {
			rows = append(rows, []string{d.Name, donorStatusLabel(d)})
		}
		fmt.Print(cli.RenderTable(cli.Table{
			Title:   r.Region,
			Headers: []string{"Nama", "Status"},
			Rows:    rows,
		}))
		fmt.Println()
	}
	return nil
}

func donorStatusLabel(d model.DonorEntry) string {
	switch d.Status {
	case model.StatusPaid:
		return "LUNAS"
	case model.StatusUnpaid:
		return "BELUM"
	default:
		return "? " + d.RawStatus
	}
}
