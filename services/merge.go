package services

import "flats-scraper/models"

// Merge joins the listing and price tables on key, keeping every row of both.
// Listing rows come first, in order, each followed by its price matches;
// price rows without a listing follow in price order. Columns present on both
// sides take the listing's value, except on price-only rows.
func Merge(listing, prices *models.Table, key string) *models.Table {
	cols := append([]string{}, listing.Columns...)
	for _, c := range prices.Columns {
		if !listing.HasColumn(c) {
			cols = append(cols, c)
		}
	}
	out := models.NewTable(cols...)

	byKey := make(map[string][]int)
	for i, r := range prices.Rows {
		if k := r[key]; !k.IsNull() {
			byKey[k.String()] = append(byKey[k.String()], i)
		}
	}

	matched := make([]bool, prices.Len())
	for _, l := range listing.Rows {
		var matches []int
		if k := l[key]; !k.IsNull() {
			matches = byKey[k.String()]
		}
		if len(matches) == 0 {
			out.Append(joinRow(cols, l, nil))
			continue
		}
		for _, idx := range matches {
			matched[idx] = true
			out.Append(joinRow(cols, l, prices.Rows[idx]))
		}
	}

	for i, p := range prices.Rows {
		if !matched[i] {
			out.Append(joinRow(cols, nil, p))
		}
	}
	return out
}

func joinRow(cols []string, left, right models.Row) models.Row {
	row := make(models.Row, len(cols))
	for _, c := range cols {
		if v, ok := left[c]; ok {
			row[c] = v
			continue
		}
		row[c] = right[c]
	}
	return row
}
