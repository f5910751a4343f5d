package resolve

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/exportiq/insight-engine/pkg/models"
)

var numberPattern = regexp.MustCompile(`\d+(?:\.\d+)?`)

// calcOp is one step of the operator cascade, checked in fixed priority
// order against the query text.
type calcOp struct {
	keywords []string
	symbol   string
	apply    func(a, b float64) float64
}

var calcOps = []calcOp{
	{[]string{"add", "plus", "sum", "+"}, "+", func(a, b float64) float64 { return a + b }},
	{[]string{"subtract", "minus", "-"}, "-", func(a, b float64) float64 { return a - b }},
	{[]string{"multiply", "times", "*", "x"}, "*", func(a, b float64) float64 { return a * b }},
	{[]string{"divide", "/"}, "/", func(a, b float64) float64 {
		if b == 0 {
			return 0 // division by zero yields 0, never an error
		}
		return a / b
	}},
}

// calculate extracts the first two numbers from the text and applies
// the operator whose keyword appears first in the cascade. "percent of"
// computes (a/100)*b.
func (r *Resolver) calculate(text string) ([]models.Record, string, error) {
	numbers := numberPattern.FindAllString(text, 2)
	if len(numbers) < 2 {
		return nil, "Unable to parse calculation", nil
	}

	a, errA := strconv.ParseFloat(numbers[0], 64)
	b, errB := strconv.ParseFloat(numbers[1], 64)
	if errA != nil || errB != nil {
		return nil, "Unable to parse calculation", nil
	}

	lower := strings.ToLower(text)

	for _, op := range calcOps {
		for _, kw := range op.keywords {
			if strings.Contains(lower, kw) {
				expr := fmt.Sprintf("%s %s %s", formatOperand(a), op.symbol, formatOperand(b))
				return []models.Record{{"expression": expr, "result": op.apply(a, b)}}, expr, nil
			}
		}
	}

	if strings.Contains(lower, "percent") || strings.Contains(text, "%") {
		expr := fmt.Sprintf("%s%% of %s", formatOperand(a), formatOperand(b))
		return []models.Record{{"expression": expr, "result": (a / 100) * b}}, expr, nil
	}

	return nil, "Unable to parse calculation", nil
}

// formatOperand renders numbers the way they appear in expressions:
// whole numbers keep one decimal place.
func formatOperand(n float64) string {
	if n == float64(int64(n)) {
		return strconv.FormatFloat(n, 'f', 1, 64)
	}
	return strconv.FormatFloat(n, 'f', -1, 64)
}
