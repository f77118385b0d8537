package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gkj-pamulang/panitia/internal/cli"
	"github.com/gkj-pamulang/panitia/internal/pager"

	"github.com/spf13/cobra"
)

var (
	flagSearch   string
	flagPage     int
	flagPageSize string
)

var pledgesCmd = &cobra.Command{
	Use:     "pledges",
	Aliases: []string{"janji-iman"},
	Short:   "Janji Iman faith pledges and their payments",
	RunE:    runPledges,
}

func init() {
	pledgesCmd.Flags().StringVarP(&flagSearch, "search", "s", "", "Filter by donor name")
	pledgesCmd.Flags().IntVar(&flagPage, "page", 1, "Page number")
	pledgesCmd.Flags().StringVar(&flagPageSize, "page-size", "10", "Rows per page (5, 10, 50, 100 or all)")
	rootCmd.AddCommand(pledgesCmd)
}

func runPledges(_ *cobra.Command, _ []string) error {
	size, err := pager.ParseSize(flagPageSize)
	if err != nil {
		return err
	}

	e, snap, err := loadSnapshot()
	if err != nil {
		return err
	}

	v := snap.Pledges
	if flagSearch != "" {
		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()
		v = e.loader.SearchPledges(ctx, v, flagSearch)
	}
	sum := v.Summary

	fmt.Println()
	fmt.Println(cli.RenderTitle("JANJI IMAN"))
	fmt.Println(cli.RenderBanner(v.Meta))
	fmt.Println()

	if len(v.Pledges) == 0 {
		if flagSearch != "" {
			fmt.Printf("  Tidak ada donatur yang cocok dengan %q.\n\n", flagSearch)
		} else {
			fmt.Println("  Belum ada data janji iman.")
			fmt.Println()
		}
		return nil
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Ringkasan", "Nilai"},
		Rows: [][]string{
			{"Donatur", cli.FormatNumber(int64(sum.Donors))},
			{"Total Janji", cli.FormatRupiah(sum.Pledged)},
			{"Terbayar", cli.FormatRupiah(sum.Paid)},
			{"Sisa", cli.FormatRupiah(sum.Remaining)},
			cli.Separator,
			{"Lunas", cli.FormatNumber(int64(sum.Fully))},
			{"Sebagian", cli.FormatNumber(int64(sum.Partially))},
		},
	}))
	fmt.Printf("  %s\n\n", cli.RenderProgress(sum.PaidPct, 30))

	page := pager.Paginate(len(v.Pledges), size, flagPage)
	rows := make([][]string, 0, page.End-page.Start)
	for i, p := range v.Pledges[page.Start:page.End] {
		rows = append(rows, []string{
			fmt.Sprintf("%d", page.Start+i+1),
			p.Name,
			cli.FormatRupiah(p.Pledged),
			cli.FormatRupiah(p.Paid),
			cli.FormatRupiah(p.Remaining()),
			p.State().Label(),
			p.Channel.Label(),
		})
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Headers:  []string{"#", "Nama", "Janji", "Terbayar", "Sisa", "Status", "Via"},
		Rows:     rows,
		LeftCols: 2,
	}))

	from, to, of := page.Showing()
	fmt.Printf("  Menampilkan %d-%d dari %d  ·  halaman %d/%d\n\n", from, to, of, page.Number, page.Pages)
	return nil
}
