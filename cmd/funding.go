package cmd

import (
	"fmt"

	"github.com/gkj-pamulang/panitia/internal/cli"

	"github.com/spf13/cobra"
)

var fundingCmd = &cobra.Command{
	Use:     "funding",
	Aliases: []string{"dana"},
	Short:   "Planned costs against planned and realized income",
	RunE:    runFunding,
}

func init() {
	rootCmd.AddCommand(fundingCmd)
}

func runFunding(_ *cobra.Command, _ []string) error {
	_, snap, err := loadSnapshot()
	if err != nil {
		return err
	}
	v := snap.Funding
	sum := v.Summary

	fmt.Println()
	fmt.Println(cli.RenderTitle("RENCANA ANGGARAN PEMANGGILAN"))
	fmt.Println(cli.RenderBanner(v.Meta))
	fmt.Println()

	costRows := make([][]string, 0, len(sum.Costs)+2)
	for _, c := range sum.Costs {
		costRows = append(costRows, []string{c.Category, cli.FormatRupiah(c.Amount)})
	}
	costRows = append(costRows, cli.Separator, []string{"Total Biaya", cli.FormatRupiah(sum.TotalCosts)})
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Rincian Biaya",
		Headers: []string{"Kebutuhan", "Jumlah"},
		Rows:    costRows,
	}))
	fmt.Println()

	headers := []string{"Sumber Dana", "Target", "Porsi"}
	if sum.HasRealized {
		headers = append(headers, "Realisasi", "%")
	}
	incomeRows := make([][]string, 0, len(sum.Income)+2)
	for _, c := range sum.Income {
		row := []string{c.Category, cli.FormatRupiah(c.Target), cli.FormatPercent(c.SharePct)}
		if sum.HasRealized {
			row = append(row, cli.FormatRupiah(c.Realized), cli.FormatPercent(c.RealizedPct))
		}
		incomeRows = append(incomeRows, row)
	}
	total := []string{"Total Pemasukan", cli.FormatRupiah(sum.TotalIncome), ""}
	if sum.HasRealized {
		total = append(total, cli.FormatRupiah(sum.TotalRealized), cli.FormatPercent(sum.RealizedPct))
	}
	incomeRows = append(incomeRows, cli.Separator, total)
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Rencana Pemasukan",
		Headers: headers,
		Rows:    incomeRows,
	}))
	fmt.Println()

	balance := cli.FormatRupiah(sum.Balance)
	if sum.Shortfall() {
		balance += "  (kurang)"
	}
	fmt.Printf("  Selisih:   %s\n", balance)
	fmt.Printf("  Cakupan:   %s\n", cli.RenderProgress(sum.CoveragePct, 30))
	if sum.HasRealized {
		fmt.Printf("  Terkumpul: %s\n", cli.RenderProgress(sum.RealizedPct, 30))
	}
	fmt.Println()
	return nil
}
