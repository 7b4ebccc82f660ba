package grading

import (
	"encoding/json"
	"testing"

	"github.com/examgate/examgate-backend/internal/model"
	"github.com/google/uuid"
)

func question(t model.QuestionType, key string, points float64) *model.Question {
	q := &model.Question{
		ID:           uuid.New(),
		QuestionType: t,
		Points:       points,
	}
	if key != "" {
		q.CorrectAnswers = json.RawMessage(key)
	}
	return q
}

func TestEvaluate_TrueFalse(t *testing.T) {
	tests := []struct {
		name   string
		key    string
		answer string
		want   Verdict
	}{
		{name: "bool key bool answer correct", key: `true`, answer: `true`, want: Correct},
		{name: "bool key bool answer wrong", key: `true`, answer: `false`, want: Incorrect},
		{name: "string key", key: `"false"`, answer: `false`, want: Correct},
		{name: "array wrapped string key", key: `["true"]`, answer: `true`, want: Correct},
		{name: "array wrapped key wrong answer", key: `["true"]`, answer: `false`, want: Incorrect},
		{name: "string answer tolerated", key: `true`, answer: `"true"`, want: Correct},
		{name: "missing answer is incorrect not ungraded", key: `true`, answer: ``, want: Incorrect},
		{name: "null answer is incorrect", key: `true`, answer: `null`, want: Incorrect},
		{name: "null answer does not match false key", key: `false`, answer: `null`, want: Incorrect},
		{name: "null answer does not match string false key", key: `"false"`, answer: `null`, want: Incorrect},
		{name: "array wrapped null answer with false key", key: `["false"]`, answer: `[null]`, want: Incorrect},
		{name: "missing answer with false key", key: `false`, answer: ``, want: Incorrect},
		{name: "garbage answer is incorrect", key: `true`, answer: `{"x":1}`, want: Incorrect},
		{name: "unparseable key is incorrect", key: `"maybe"`, answer: `true`, want: Incorrect},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			q := question(model.QuestionTypeTrueFalse, tc.key, 1)
			var ans json.RawMessage
			if tc.answer != "" {
				ans = json.RawMessage(tc.answer)
			}
			if got := Evaluate(q, ans); got != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestEvaluate_SingleChoice(t *testing.T) {
	tests := []struct {
		name   string
		key    string
		answer string
		want   Verdict
	}{
		{name: "exact match", key: `"B"`, answer: `"B"`, want: Correct},
		{name: "wrong option", key: `"B"`, answer: `"A"`, want: Incorrect},
		{name: "array wrapped key", key: `["B"]`, answer: `"B"`, want: Correct},
		{name: "array wrapped answer", key: `"B"`, answer: `["B"]`, want: Correct},
		{name: "unanswered", key: `"B"`, answer: ``, want: Incorrect},
		{name: "empty string", key: `"B"`, answer: `""`, want: Incorrect},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			q := question(model.QuestionTypeSingleChoice, tc.key, 1)
			var ans json.RawMessage
			if tc.answer != "" {
				ans = json.RawMessage(tc.answer)
			}
			if got := Evaluate(q, ans); got != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestEvaluate_ChoiceSet(t *testing.T) {
	tests := []struct {
		name   string
		qtype  model.QuestionType
		key    string
		answer string
		want   Verdict
	}{
		{name: "order independent", qtype: model.QuestionTypeMultipleChoice, key: `["A","B"]`, answer: `["B","A"]`, want: Correct},
		{name: "extra element wrong", qtype: model.QuestionTypeMultipleChoice, key: `["A","B"]`, answer: `["A","B","C"]`, want: Incorrect},
		{name: "missing element wrong", qtype: model.QuestionTypeMultiSelect, key: `["A","B"]`, answer: `["A"]`, want: Incorrect},
		{name: "duplicates ignored", qtype: model.QuestionTypeMultiSelect, key: `["A","B"]`, answer: `["A","A","B"]`, want: Correct},
		{name: "unanswered", qtype: model.QuestionTypeMultipleChoice, key: `["A","B"]`, answer: ``, want: Incorrect},
		{name: "empty selection", qtype: model.QuestionTypeMultipleChoice, key: `["A","B"]`, answer: `[]`, want: Incorrect},
		{name: "bare string as one-element set", qtype: model.QuestionTypeMultiSelect, key: `["A"]`, answer: `"A"`, want: Correct},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			q := question(tc.qtype, tc.key, 1)
			var ans json.RawMessage
			if tc.answer != "" {
				ans = json.RawMessage(tc.answer)
			}
			if got := Evaluate(q, ans); got != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestEvaluate_ManualTypesNotAutoGradable(t *testing.T) {
	for _, qt := range []model.QuestionType{model.QuestionTypeParagraph, model.QuestionTypePhotoUpload} {
		q := question(qt, "", 2)
		if got := Evaluate(q, json.RawMessage(`"an essay"`)); got != NotAutoGradable {
			t.Fatalf("%s: expected NotAutoGradable, got %v", qt, got)
		}
	}
}

func TestSummarize_MixedAutoAndManual(t *testing.T) {
	// Two auto questions worth 1 point each (one answered correctly) and
	// one paragraph worth 2, manually graded 1.5.
	q1 := question(model.QuestionTypeSingleChoice, `"A"`, 1)
	q2 := question(model.QuestionTypeTrueFalse, `true`, 1)
	q3 := question(model.QuestionTypeParagraph, "", 2)

	answers := model.AnswerMap{
		q1.ID.String(): json.RawMessage(`"A"`),
		q2.ID.String(): json.RawMessage(`false`),
		q3.ID.String(): json.RawMessage(`"long answer"`),
	}
	manual := []model.ManualGrade{
		{QuestionID: q3.ID, AwardedPoints: 1.5},
	}

	got := Summarize([]model.Question{*q1, *q2, *q3}, answers, manual)

	if got.TotalQuestions != 2 {
		t.Fatalf("total questions: expected 2, got %d", got.TotalQuestions)
	}
	if got.CorrectCount != 1 {
		t.Fatalf("correct count: expected 1, got %d", got.CorrectCount)
	}
	if got.ScorePercentage != 50 {
		t.Fatalf("score: expected 50, got %v", got.ScorePercentage)
	}
	if got.AutoPoints != 1 {
		t.Fatalf("auto points: expected 1, got %v", got.AutoPoints)
	}
	if got.ManualPoints != 1.5 {
		t.Fatalf("manual points: expected 1.5, got %v", got.ManualPoints)
	}
	if got.MaxPoints != 4 {
		t.Fatalf("max points: expected 4, got %v", got.MaxPoints)
	}
	if got.FinalScorePercentage != 62.5 {
		t.Fatalf("final score: expected 62.5, got %v", got.FinalScorePercentage)
	}
}

func TestSummarize_ManualPointsClamped(t *testing.T) {
	q := question(model.QuestionTypeParagraph, "", 2)
	manual := []model.ManualGrade{
		{QuestionID: q.ID, AwardedPoints: 99},
	}

	got := Summarize([]model.Question{*q}, model.AnswerMap{}, manual)

	if got.ManualPoints != 2 {
		t.Fatalf("expected manual points clamped to 2, got %v", got.ManualPoints)
	}
	if got.FinalScorePercentage != 100 {
		t.Fatalf("expected final 100, got %v", got.FinalScorePercentage)
	}
}

func TestSummarize_ManualGradeForUnknownQuestionSkipped(t *testing.T) {
	q := question(model.QuestionTypeSingleChoice, `"A"`, 1)
	manual := []model.ManualGrade{
		{QuestionID: uuid.New(), AwardedPoints: 5},
	}

	got := Summarize([]model.Question{*q}, model.AnswerMap{}, manual)

	if got.ManualPoints != 0 {
		t.Fatalf("expected unknown-question grade skipped, got %v", got.ManualPoints)
	}
}

func TestSummarize_EmptyExam(t *testing.T) {
	got := Summarize(nil, model.AnswerMap{}, nil)

	if got.ScorePercentage != 0 || got.FinalScorePercentage != 0 {
		t.Fatalf("expected zero percentages on empty exam, got %v / %v",
			got.ScorePercentage, got.FinalScorePercentage)
	}
}

func TestSummarize_Idempotent(t *testing.T) {
	q1 := question(model.QuestionTypeMultipleChoice, `["A","B"]`, 3)
	answers := model.AnswerMap{q1.ID.String(): json.RawMessage(`["B","A"]`)}

	first := Summarize([]model.Question{*q1}, answers, nil)
	second := Summarize([]model.Question{*q1}, answers, nil)

	if first != second {
		t.Fatalf("expected identical outcomes, got %+v vs %+v", first, second)
	}
	if first.ScorePercentage != 100 {
		t.Fatalf("expected 100, got %v", first.ScorePercentage)
	}
}

func TestSummarize_Rounding(t *testing.T) {
	// 1 of 3 correct → 33.333...% must round to 33.33.
	qs := []model.Question{
		*question(model.QuestionTypeSingleChoice, `"A"`, 1),
		*question(model.QuestionTypeSingleChoice, `"B"`, 1),
		*question(model.QuestionTypeSingleChoice, `"C"`, 1),
	}
	answers := model.AnswerMap{qs[0].ID.String(): json.RawMessage(`"A"`)}

	got := Summarize(qs, answers, nil)

	if got.ScorePercentage != 33.33 {
		t.Fatalf("expected 33.33, got %v", got.ScorePercentage)
	}
	if got.FinalScorePercentage != 33.33 {
		t.Fatalf("expected final 33.33, got %v", got.FinalScorePercentage)
	}
}
