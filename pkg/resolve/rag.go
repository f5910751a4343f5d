package resolve

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/exportiq/insight-engine/pkg/jsonutil"
	"github.com/exportiq/insight-engine/pkg/models"
)

// minTermLength filters out short stop-words before scoring.
const minTermLength = 3

// searchRecords is the naive relevance fallback: every non-system
// record is stringified into a haystack (nested list items included)
// and scored by how many query terms it contains as substrings. Tables
// are scanned in parallel; the merged result is deterministic.
func (r *Resolver) searchRecords(text string) ([]models.Record, string, error) {
	var terms []string
	for _, t := range strings.Fields(strings.ToLower(text)) {
		if len(t) > minTermLength {
			terms = append(terms, t)
		}
	}
	if len(terms) == 0 {
		return nil, "Search for: (no usable terms)", nil
	}

	var (
		mu      sync.Mutex
		matches []models.Record
	)
	g := new(errgroup.Group)
	for _, table := range r.store.Tables() {
		if r.catalog.IsSystemTable(table) {
			continue
		}
		g.Go(func() error {
			var local []models.Record
			for _, row := range r.store.GetAll(table) {
				score := scoreRecord(row, terms)
				if score == 0 {
					continue
				}
				match := summarizeLists(row)
				match["_source"] = table
				match["_relevance"] = score
				local = append(local, match)
			}
			mu.Lock()
			matches = append(matches, local...)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, "", fmt.Errorf("failed to scan records: %w", err)
	}

	// Deterministic order regardless of scan interleaving.
	sort.SliceStable(matches, func(i, j int) bool {
		si, _ := matches[i]["_relevance"].(int)
		sj, _ := matches[j]["_relevance"].(int)
		if si != sj {
			return si > sj
		}
		return jsonutil.FlexibleString(matches[i]["_source"]) < jsonutil.FlexibleString(matches[j]["_source"])
	})
	if len(matches) > ragResultLimit {
		matches = matches[:ragResultLimit]
	}

	return matches, "Search for: " + strings.Join(terms, ", "), nil
}

// scoreRecord counts how many query terms occur in the record's
// stringified values, including values inside nested list items.
func scoreRecord(row models.Record, terms []string) int {
	var sb strings.Builder
	for _, v := range row {
		writeValue(&sb, v)
	}
	haystack := strings.ToLower(sb.String())

	score := 0
	for _, term := range terms {
		if strings.Contains(haystack, term) {
			score++
		}
	}
	return score
}

func writeValue(sb *strings.Builder, v any) {
	switch val := v.(type) {
	case []any:
		for _, el := range val {
			writeValue(sb, el)
		}
	case map[string]any:
		for _, el := range val {
			writeValue(sb, el)
		}
	default:
		sb.WriteString(jsonutil.FlexibleString(val))
		sb.WriteByte(' ')
	}
}

// summarizeLists copies a record, replacing list-valued fields with a
// compact "[N items]" marker.
func summarizeLists(row models.Record) models.Record {
	out := make(models.Record, len(row))
	for k, v := range row {
		if list, ok := v.([]any); ok {
			out[k] = fmt.Sprintf("[%d items]", len(list))
			continue
		}
		out[k] = v
	}
	return out
}
