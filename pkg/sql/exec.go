package sql

import (
	"sort"
	"strings"

	"github.com/exportiq/insight-engine/pkg/jsonutil"
	"github.com/exportiq/insight-engine/pkg/models"
)

// Apply runs a parsed statement against a collection's rows. The input
// slice is never mutated; projection and filtering produce copies.
//
// An unsupported WHERE clause keeps every row. Sorting is ascending by
// default, numeric when both sides coerce to numbers, and falls back to
// string comparison otherwise. LIMIT truncates post-sort.
func Apply(stmt *Statement, rows []models.Record) []models.Record {
	out := make([]models.Record, len(rows))
	copy(out, rows)

	if stmt.Where != nil && stmt.Where.Supported {
		out = filterEqual(out, stmt.Where.Column, stmt.Where.Value)
	}

	if stmt.OrderBy != nil {
		col, desc := stmt.OrderBy.Column, stmt.OrderBy.Desc
		sort.SliceStable(out, func(i, j int) bool {
			less := valueLess(out[i][col], out[j][col])
			if desc {
				return valueLess(out[j][col], out[i][col])
			}
			return less
		})
	}

	if stmt.Limit >= 0 && len(out) > stmt.Limit {
		out = out[:stmt.Limit]
	}

	if !stmt.Star {
		projected := make([]models.Record, len(out))
		for i, row := range out {
			p := make(models.Record, len(stmt.Columns))
			for _, c := range stmt.Columns {
				if v, ok := row[c]; ok {
					p[c] = v
				}
			}
			projected[i] = p
		}
		out = projected
	}

	return out
}

func filterEqual(rows []models.Record, column, value string) []models.Record {
	var kept []models.Record
	for _, row := range rows {
		v, ok := row[column]
		if !ok {
			continue
		}
		if fa, aok := jsonutil.FlexibleNumber(v); aok {
			if fb, bok := jsonutil.FlexibleNumber(value); bok && fa == fb {
				kept = append(kept, row)
			}
			continue
		}
		if strings.EqualFold(jsonutil.FlexibleString(v), value) {
			kept = append(kept, row)
		}
	}
	return kept
}

// valueLess orders two record values: numerically when both coerce,
// lexically otherwise. Missing values sort first.
func valueLess(a, b any) bool {
	fa, aok := jsonutil.FlexibleNumber(a)
	fb, bok := jsonutil.FlexibleNumber(b)
	if aok && bok {
		return fa < fb
	}
	return jsonutil.FlexibleString(a) < jsonutil.FlexibleString(b)
}
