package tags

import (
	"slices"
	"strconv"
	"strings"
)

// EvaluationPrefix starts the tags the server sets for each intermediate evaluation of
// an internship, e.g. "intermediate.2:approved". Step 0 is the final evaluation.
const EvaluationPrefix = "intermediate."

// Evaluation statuses.
const (
	EvaluationApproved    = "approved"
	EvaluationNotApproved = "not_approved"
	EvaluationPending     = "pending"
)

type EvaluationStep struct {
	Number int
	Status string
	Icon   string
	// Color is empty for an unknown status.
	Color string
}

var evaluationColors = map[string]string{
	EvaluationApproved:    "dark",
	EvaluationNotApproved: "orange-8",
	EvaluationPending:     "grey-4",
}

// EvaluationSteps reads the evaluation tags of list in step order, with the final
// step last. Tags whose step is not a number are skipped. It never returns nil.
func EvaluationSteps(list []string) []EvaluationStep {
	steps := []EvaluationStep{}
	for _, tag := range list {
		rest, ok := strings.CutPrefix(tag, EvaluationPrefix)
		if !ok {
			continue
		}
		number, status, _ := strings.Cut(rest, ":")
		status, _, _ = strings.Cut(status, ":")
		n, err := strconv.Atoi(number)
		if err != nil {
			continue
		}

		icon := "filter_" + number
		if n == 0 {
			icon = "library_add_check"
		}
		steps = append(steps, EvaluationStep{
			Number: n,
			Status: status,
			Icon:   icon,
			Color:  evaluationColors[status],
		})
	}

	slices.SortStableFunc(steps, func(a, b EvaluationStep) int {
		switch {
		case a.Number == b.Number:
			return 0
		case a.Number == 0:
			return 1
		case b.Number == 0:
			return -1
		default:
			return a.Number - b.Number
		}
	})
	return steps
}
