package accesscode

import (
	"errors"
	"strings"
	"testing"
)

func TestNew_RejectsBadConfig(t *testing.T) {
	if _, err := New("", 2, 4); !errors.Is(err, ErrEmptyAlphabet) {
		t.Fatalf("expected ErrEmptyAlphabet, got %v", err)
	}
	if _, err := New("ABC", 0, 4); !errors.Is(err, ErrBadShape) {
		t.Fatalf("expected ErrBadShape, got %v", err)
	}
	if _, err := New("ABC", 2, 0); !errors.Is(err, ErrBadShape) {
		t.Fatalf("expected ErrBadShape, got %v", err)
	}
}

func TestGenerate_MatchesOwnValidation(t *testing.T) {
	g, err := New("23456789ABCDEFGHJKMNPQRSTUVWXYZ", 2, 4)
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	for i := 0; i < 50; i++ {
		code, err := g.Generate()
		if err != nil {
			t.Fatalf("generate: %v", err)
		}
		if _, err := g.Validate(code); err != nil {
			t.Fatalf("generated code %q failed validation: %v", code, err)
		}
		if len(strings.Split(code, "-")) != 2 {
			t.Fatalf("expected 2 groups, got %q", code)
		}
	}
}

func TestValidate(t *testing.T) {
	g, err := New("ABC123", 2, 3)
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	tests := []struct {
		name    string
		code    string
		want    string
		wantErr error
	}{
		{name: "valid", code: "ABC-123", want: "ABC-123"},
		{name: "lowercase normalized", code: "abc-123", want: "ABC-123"},
		{name: "surrounding whitespace", code: "  ABC-123 ", want: "ABC-123"},
		{name: "wrong group count", code: "ABC", wantErr: ErrInvalidCode},
		{name: "wrong group length", code: "AB-123", wantErr: ErrInvalidCode},
		{name: "outside alphabet", code: "XYZ-123", wantErr: ErrInvalidCharset},
		{name: "empty", code: "", wantErr: ErrInvalidCode},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := g.Validate(tc.code)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("expected %v, got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestNew_DeduplicatesAlphabet(t *testing.T) {
	g, err := New("AABBCC", 1, 2)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if _, err := g.Validate("AB"); err != nil {
		t.Fatalf("expected AB valid, got %v", err)
	}
}
