package usecase

import (
	"testing"

	"github.com/google/uuid"
)

func TestParseSkillsInput_KeepsValidEntries(t *testing.T) {
	a := uuid.New()
	b := uuid.New()
	raw := map[string]string{
		a.String(): "2.5",
		b.String(): " 0 ",
	}

	parsed := ParseSkillsInput(raw, nil)
	if len(parsed) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(parsed))
	}
	years := map[uuid.UUID]float64{}
	for _, p := range parsed {
		years[p.SkillID] = p.Years
	}
	if years[a] != 2.5 {
		t.Fatalf("skill %s: years %v, want 2.5", a, years[a])
	}
	if years[b] != 0 {
		t.Fatalf("skill %s: years %v, want 0", b, years[b])
	}
}

func TestParseSkillsInput_DropsMalformedEntries(t *testing.T) {
	valid := uuid.New()
	raw := map[string]string{
		"not-a-uuid":     "3",
		"":               "1",
		uuid.NewString(): "three",
		uuid.NewString(): "-1",
		uuid.NewString(): "",
		valid.String():   "4",
	}

	parsed := ParseSkillsInput(raw, nil)
	if len(parsed) != 1 {
		t.Fatalf("expected only the valid entry to survive, got %d", len(parsed))
	}
	if parsed[0].SkillID != valid || parsed[0].Years != 4 {
		t.Fatalf("unexpected entry %+v", parsed[0])
	}
}

func TestParseSkillsInput_AcceptsUppercaseHex(t *testing.T) {
	id := uuid.New()
	upper := map[string]string{}
	for k, v := range map[string]string{id.String(): "1"} {
		upper[toUpperASCII(k)] = v
	}

	parsed := ParseSkillsInput(upper, nil)
	if len(parsed) != 1 || parsed[0].SkillID != id {
		t.Fatalf("uppercase uuid key rejected: %+v", parsed)
	}
}

func toUpperASCII(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'a' && c <= 'z' {
			b[i] = c - 32
		}
	}
	return string(b)
}

func TestParseSkillsInput_EmptyInput(t *testing.T) {
	if got := ParseSkillsInput(nil, nil); len(got) != 0 {
		t.Fatalf("expected no entries, got %+v", got)
	}
	if got := ParseSkillsInput(map[string]string{}, nil); len(got) != 0 {
		t.Fatalf("expected no entries, got %+v", got)
	}
}
