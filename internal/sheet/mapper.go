package sheet

import (
	"github.com/gkj-pamulang/panitia/internal/currency"
	"github.com/gkj-pamulang/panitia/internal/model"
)

// Result is the outcome of mapping one sheet.
type Result[T any] struct {
	Records []T
	Dropped int // rows discarded for an empty name or non-positive amount
	Short   int // rows shorter than the schema, padded in lenient mode
}

// Mapper turns field arrays into records. A strict Mapper rejects the
// whole sheet on the first row that does not match the schema.
type Mapper struct {
	Strict bool
}

func mapRows[T any](m Mapper, s Schema, rows [][]string, conv func([]string) (T, bool)) (Result[T], error) {
	res := Result[T]{Records: make([]T, 0, len(rows))}
	for i, row := range rows {
		row, short, err := s.check(row, i, m.Strict)
		if err != nil {
			return Result[T]{}, err
		}
		if short {
			res.Short++
		}
		rec, ok := conv(row)
		if !ok {
			res.Dropped++
			continue
		}
		res.Records = append(res.Records, rec)
	}
	return res, nil
}

// Donors maps donor sheet rows laid out as s, normally DonorSchema.
// Rows with an empty name are dropped.
func (m Mapper) Donors(s Schema, rows [][]string) (Result[model.DonorEntry], error) {
	return mapRows(m, s, rows, func(row []string) (model.DonorEntry, bool) {
		d := model.DonorEntry{
			Name:      cell(row, 0),
			Region:    cell(row, 1),
			RawStatus: cell(row, 2),
		}
		d.Status = model.ParseDonorStatus(d.RawStatus)
		return d, d.Name != ""
	})
}

// Pledges maps Janji Iman rows laid out as s, normally PledgeSchema.
// Rows with an empty name or a non-positive pledged amount are dropped.
func (m Mapper) Pledges(s Schema, rows [][]string) (Result[model.PledgeEntry], error) {
	return mapRows(m, s, rows, func(row []string) (model.PledgeEntry, bool) {
		p := model.PledgeEntry{
			Name:    cell(row, 0),
			Pledged: currency.Parse(cell(row, 1)),
			Paid:    currency.Parse(cell(row, 2)),
			Channel: model.ParseChannel(cell(row, 3)),
		}
		return p, p.Name != "" && p.Pledged > 0
	})
}

// Income maps income/realization rows laid out as s, normally
// IncomeSchema. Rows with an empty category or a non-positive target are
// dropped.
func (m Mapper) Income(s Schema, rows [][]string) (Result[model.IncomeLine], error) {
	return mapRows(m, s, rows, func(row []string) (model.IncomeLine, bool) {
		l := model.IncomeLine{
			Category:    cell(row, 0),
			Target:      currency.Parse(cell(row, 1)),
			Realized:    currency.Parse(cell(row, 2)),
			HasRealized: true,
		}
		return l, l.Category != "" && l.Target > 0
	})
}
