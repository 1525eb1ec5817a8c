package clarifysdk

import (
	"context"
	"fmt"
)

// AnswerSource produces the answer for one question. RunSession calls it
// once per question, in question order. Returning an error aborts the run.
//
// Implementations range from canned lookups (AnswersFromMap) to prompting a
// human; the context carries the run's cancellation.
type AnswerSource func(ctx context.Context, q Question) (string, error)

// AnswersFromMap answers questions from a map keyed by question id.
// A question whose id is not in the map aborts the run with an error.
func AnswersFromMap(answers map[string]string) AnswerSource {
	return func(_ context.Context, q Question) (string, error) {
		answer, ok := answers[q.ID]
		if !ok {
			return "", fmt.Errorf("no answer for question %q", q.ID)
		}

		return answer, nil
	}
}

// AnswersFromSlice answers questions positionally: the first question gets
// answers[0], the second answers[1], and so on. Running out of answers
// aborts the run with an error.
func AnswersFromSlice(answers []string) AnswerSource {
	next := 0

	return func(_ context.Context, q Question) (string, error) {
		if next >= len(answers) {
			return "", fmt.Errorf("no answer at position %d for question %q", next, q.ID)
		}

		answer := answers[next]
		next++

		return answer, nil
	}
}

// FirstOption answers every question with its first option.
// Useful for non-interactive runs where any valid answer will do.
func FirstOption() AnswerSource {
	return func(_ context.Context, q Question) (string, error) {
		if len(q.Options) == 0 {
			return "", fmt.Errorf("question %q has no options", q.ID)
		}

		return q.Options[0], nil
	}
}
