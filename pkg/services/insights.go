package services

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/exportiq/insight-engine/pkg/jsonutil"
	"github.com/exportiq/insight-engine/pkg/models"
)

// insightValueColumns are probed in order for the numeric series.
var insightValueColumns = []string{"amount", "total", "totals", "quantity", "value", "sales", "revenue"}

// insightLabelColumns are probed in order for the entity name.
var insightLabelColumns = []string{"project_name", "reference_name", "customer", "item", "name", "title"}

// ExtractInsights derives short rule-based observations from a result
// set: the top entry, the average, and the value spread. Returns nil
// when no numeric column is found.
func ExtractInsights(rows []models.Record) []string {
	if len(rows) == 0 {
		return nil
	}

	valueCol := firstPresent(rows[0], insightValueColumns)
	if valueCol == "" {
		return nil
	}
	labelCol := firstPresent(rows[0], insightLabelColumns)

	var (
		sum, min, max float64
		topLabel      string
		count         int
	)
	for _, row := range rows {
		v, ok := jsonutil.FlexibleNumber(row[valueCol])
		if !ok {
			continue
		}
		if count == 0 || v > max {
			max = v
			if labelCol != "" {
				topLabel = jsonutil.FlexibleString(row[labelCol])
			}
		}
		if count == 0 || v < min {
			min = v
		}
		sum += v
		count++
	}
	if count == 0 {
		return nil
	}

	var insights []string
	if topLabel != "" {
		insights = append(insights, fmt.Sprintf("Top performer: %s with %s %s",
			topLabel, humanize.Commaf(max), humanizeField(valueCol)))
	} else {
		insights = append(insights, fmt.Sprintf("Highest %s: %s",
			humanizeField(valueCol), humanize.Commaf(max)))
	}
	insights = append(insights, fmt.Sprintf("Average %s: %s across %d records",
		humanizeField(valueCol), humanize.Commaf(sum/float64(count)), count))
	if count > 1 && max != min {
		insights = append(insights, fmt.Sprintf("Range: %s to %s",
			humanize.Commaf(min), humanize.Commaf(max)))
	}
	return insights
}

func firstPresent(row models.Record, candidates []string) string {
	for _, c := range candidates {
		if _, ok := row[c]; ok {
			return c
		}
	}
	return ""
}

func humanizeField(col string) string {
	return strings.ReplaceAll(col, "_", " ")
}
