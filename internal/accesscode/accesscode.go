package accesscode

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
)

// Generator produces and validates student access codes shaped as
// Groups groups of GroupLen characters from Alphabet, joined by dashes
// (e.g. "K7F2-9XQD" for 2 groups of 4).
type Generator struct {
	alphabet string
	groups   int
	groupLen int
	idx      map[rune]struct{}
}

var (
	ErrEmptyAlphabet  = errors.New("alphabet must not be empty")
	ErrBadShape       = errors.New("groups and group length must be positive")
	ErrInvalidCode    = errors.New("code does not match the expected format")
	ErrInvalidCharset = errors.New("code contains characters outside the alphabet")
)

// New builds a Generator. The alphabet is deduplicated and uppercased;
// validation is case-insensitive.
func New(alphabet string, groups, groupLen int) (*Generator, error) {
	if alphabet == "" {
		return nil, ErrEmptyAlphabet
	}
	if groups < 1 || groupLen < 1 {
		return nil, ErrBadShape
	}

	idx := make(map[rune]struct{})
	var uniq []rune
	for _, r := range strings.ToUpper(alphabet) {
		if _, seen := idx[r]; seen {
			continue
		}
		idx[r] = struct{}{}
		uniq = append(uniq, r)
	}

	return &Generator{
		alphabet: string(uniq),
		groups:   groups,
		groupLen: groupLen,
		idx:      idx,
	}, nil
}

// Generate returns a fresh random code using crypto/rand.
func (g *Generator) Generate() (string, error) {
	runes := []rune(g.alphabet)
	max := big.NewInt(int64(len(runes)))

	parts := make([]string, g.groups)
	for i := 0; i < g.groups; i++ {
		var sb strings.Builder
		for j := 0; j < g.groupLen; j++ {
			n, err := rand.Int(rand.Reader, max)
			if err != nil {
				return "", fmt.Errorf("random: %w", err)
			}
			sb.WriteRune(runes[n.Int64()])
		}
		parts[i] = sb.String()
	}

	return strings.Join(parts, "-"), nil
}

// Normalize uppercases and strips surrounding whitespace so codes typed
// by hand compare equal to generated ones.
func Normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Validate checks a code against the configured shape and alphabet.
// It returns the normalized form on success.
func (g *Generator) Validate(code string) (string, error) {
	code = Normalize(code)
	if code == "" {
		return "", ErrInvalidCode
	}

	parts := strings.Split(code, "-")
	if len(parts) != g.groups {
		return "", ErrInvalidCode
	}
	for _, p := range parts {
		if len([]rune(p)) != g.groupLen {
			return "", ErrInvalidCode
		}
		for _, r := range p {
			if _, ok := g.idx[r]; !ok {
				return "", ErrInvalidCharset
			}
		}
	}

	return code, nil
}
