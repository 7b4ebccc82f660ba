package service

import (
	"errors"
	"testing"
	"time"

	"github.com/examgate/examgate-backend/internal/model"
)

func timePtr(t time.Time) *time.Time { return &t }

func TestCheckExamOpen(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		exam    model.Exam
		wantErr error
	}{
		{
			name:    "published without window",
			exam:    model.Exam{Status: model.ExamStatusPublished},
			wantErr: nil,
		},
		{
			name:    "draft rejected",
			exam:    model.Exam{Status: model.ExamStatusDraft},
			wantErr: ErrExamNotPublished,
		},
		{
			name:    "archived rejected",
			exam:    model.Exam{Status: model.ExamStatusArchived},
			wantErr: ErrExamNotPublished,
		},
		{
			name: "before start",
			exam: model.Exam{
				Status:    model.ExamStatusPublished,
				StartTime: timePtr(now.Add(time.Hour)),
			},
			wantErr: ErrExamNotStarted,
		},
		{
			name: "after end",
			exam: model.Exam{
				Status:  model.ExamStatusPublished,
				EndTime: timePtr(now.Add(-time.Minute)),
			},
			wantErr: ErrExamEnded,
		},
		{
			name: "inside window",
			exam: model.Exam{
				Status:    model.ExamStatusPublished,
				StartTime: timePtr(now.Add(-time.Hour)),
				EndTime:   timePtr(now.Add(time.Hour)),
			},
			wantErr: nil,
		},
		{
			name: "exactly at start is open",
			exam: model.Exam{
				Status:    model.ExamStatusPublished,
				StartTime: timePtr(now),
			},
			wantErr: nil,
		},
		{
			name: "exactly at end is open",
			exam: model.Exam{
				Status:  model.ExamStatusPublished,
				EndTime: timePtr(now),
			},
			wantErr: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkExamOpen(&tt.exam, now)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("checkExamOpen() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewSeed(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 32; i++ {
		seed, err := newSeed()
		if err != nil {
			t.Fatalf("newSeed() error: %v", err)
		}
		if len(seed) != 32 {
			t.Fatalf("seed length = %d, want 32 hex chars", len(seed))
		}
		if _, dup := seen[seed]; dup {
			t.Fatalf("duplicate seed %q", seed)
		}
		seen[seed] = struct{}{}
	}
}
