package grading

import (
	"encoding/json"
	"math"
	"sort"
	"strings"

	"github.com/examgate/examgate-backend/internal/model"
)

// Verdict is the tri-state outcome of evaluating one answer.
type Verdict int

const (
	// NotAutoGradable marks paragraph/photo questions: excluded from the
	// automatic totals entirely, points enter via manual grades only.
	NotAutoGradable Verdict = iota
	Incorrect
	Correct
)

// Evaluate scores a single student answer against the question's
// canonical answer. A missing or null answer to a gradable question is
// always Incorrect, never ungraded.
func Evaluate(q *model.Question, answer json.RawMessage) Verdict {
	switch q.QuestionType {
	case model.QuestionTypeParagraph, model.QuestionTypePhotoUpload:
		return NotAutoGradable
	case model.QuestionTypeTrueFalse:
		return evaluateTrueFalse(q.CorrectAnswers, answer)
	case model.QuestionTypeSingleChoice:
		return evaluateSingleChoice(q.CorrectAnswers, answer)
	case model.QuestionTypeMultipleChoice, model.QuestionTypeMultiSelect:
		return evaluateChoiceSet(q.CorrectAnswers, answer)
	default:
		return Incorrect
	}
}

func evaluateTrueFalse(keyRaw, answerRaw json.RawMessage) Verdict {
	want, ok := decodeBool(keyRaw)
	if !ok {
		return Incorrect
	}
	got, ok := decodeBool(answerRaw)
	if !ok {
		return Incorrect
	}
	if got == want {
		return Correct
	}
	return Incorrect
}

func evaluateSingleChoice(keyRaw, answerRaw json.RawMessage) Verdict {
	want, ok := decodeString(keyRaw)
	if !ok || want == "" {
		return Incorrect
	}
	got, ok := decodeString(answerRaw)
	if !ok || got == "" {
		return Incorrect
	}
	if got == want {
		return Correct
	}
	return Incorrect
}

func evaluateChoiceSet(keyRaw, answerRaw json.RawMessage) Verdict {
	want, ok := decodeStringSet(keyRaw)
	if !ok || len(want) == 0 {
		return Incorrect
	}
	got, ok := decodeStringSet(answerRaw)
	if !ok || len(got) == 0 {
		return Incorrect
	}
	if equalSet(got, want) {
		return Correct
	}
	return Incorrect
}

// ─── Value decoding ─────────────────────────────────────────────────
//
// Answer blobs are heterogeneous: canonical answers and client payloads
// may wrap the real value in a single-element array, and booleans may
// arrive as "true"/"false" strings. The decoders below normalize all
// tolerated shapes.

func decodeBool(raw json.RawMessage) (bool, bool) {
	raw = unwrapSingle(raw)
	// Unmarshal into a bool leaves the zero value untouched on a JSON
	// null, which would make null match a false key. Reject it here.
	if len(raw) == 0 || string(raw) == "null" {
		return false, false
	}

	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return b, true
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		switch strings.TrimSpace(strings.ToLower(s)) {
		case "true":
			return true, true
		case "false":
			return false, true
		}
	}

	return false, false
}

func decodeString(raw json.RawMessage) (string, bool) {
	raw = unwrapSingle(raw)
	if len(raw) == 0 {
		return "", false
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return strings.TrimSpace(s), true
}

// decodeStringSet normalizes to a sorted, deduplicated string slice, so
// reordering and duplicates never affect correctness.
func decodeStringSet(raw json.RawMessage) ([]string, bool) {
	if len(raw) == 0 {
		return nil, false
	}

	var list []string
	if err := json.Unmarshal(raw, &list); err != nil {
		// A bare string counts as a one-element set.
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, false
		}
		list = []string{s}
	}

	set := make(map[string]struct{}, len(list))
	for _, v := range list {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		set[v] = struct{}{}
	}

	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out, true
}

// unwrapSingle peels a single-element JSON array wrapper, e.g. ["true"].
func unwrapSingle(raw json.RawMessage) json.RawMessage {
	if len(raw) == 0 {
		return raw
	}
	var arr []json.RawMessage
	if err := json.Unmarshal(raw, &arr); err != nil {
		return raw
	}
	if len(arr) == 1 {
		return arr[0]
	}
	return raw
}

func equalSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// ─── Result summary ─────────────────────────────────────────────────

// Outcome carries everything the result row needs; the caller owns
// persistence and timestamps.
type Outcome struct {
	TotalQuestions       int
	CorrectCount         int
	ScorePercentage      float64
	AutoPoints           float64
	ManualPoints         float64
	MaxPoints            float64
	FinalScorePercentage float64
}

// Summarize grades every question of an exam against an attempt's answer
// map and merges manual grades. TotalQuestions and CorrectCount cover
// gradable types only; MaxPoints covers all questions including
// manual-only ones. Manual awards are clamped to the question's worth.
func Summarize(questions []model.Question, answers model.AnswerMap, manual []model.ManualGrade) Outcome {
	var out Outcome

	pointsByQuestion := make(map[string]float64, len(questions))
	for i := range questions {
		q := &questions[i]
		pointsByQuestion[q.ID.String()] = q.Points
		out.MaxPoints += q.Points

		switch Evaluate(q, answers[q.ID.String()]) {
		case NotAutoGradable:
			continue
		case Correct:
			out.TotalQuestions++
			out.CorrectCount++
			out.AutoPoints += q.Points
		case Incorrect:
			out.TotalQuestions++
		}
	}

	for _, mg := range manual {
		max, ok := pointsByQuestion[mg.QuestionID.String()]
		if !ok {
			continue // grade for a question no longer on the exam
		}
		out.ManualPoints += math.Min(mg.AwardedPoints, max)
	}

	if out.TotalQuestions > 0 {
		out.ScorePercentage = round2(float64(out.CorrectCount) / float64(out.TotalQuestions) * 100)
	}
	if out.MaxPoints > 0 {
		out.FinalScorePercentage = round2((out.AutoPoints + out.ManualPoints) / out.MaxPoints * 100)
	}

	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
