package policy

import (
	"errors"
	"testing"
)

func TestParseDocumentBasic(t *testing.T) {
	doc := "# Policy\n\n" +
		"[SND-501] An undisclosed material discrepancy is **SNAD**.\n\n" +
		"[SND-502] A subjective complaint is not SNAD.\n"

	clauses, err := parseDocument(LanguageEN, doc)
	if err != nil {
		t.Fatalf("parseDocument: %v", err)
	}
	if len(clauses) != 2 {
		t.Fatalf("expected 2 clauses, got %d", len(clauses))
	}
	if clauses[0].Anchor != "SND-501" || clauses[0].Category != CategorySnadCriterion {
		t.Fatalf("unexpected first clause: %+v", clauses[0])
	}
	if clauses[0].Text != "An undisclosed material discrepancy is SNAD." {
		t.Fatalf("markdown not stripped: %q", clauses[0].Text)
	}
	if clauses[0].Language != LanguageEN {
		t.Fatalf("language not recorded: %+v", clauses[0])
	}
}

func TestParseDocumentNumericRange(t *testing.T) {
	doc := "[EVD-701..704] Listing text, unboxing video, chat log, logistics receipt."

	clauses, err := parseDocument(LanguageEN, doc)
	if err != nil {
		t.Fatalf("parseDocument: %v", err)
	}
	if len(clauses) != 4 {
		t.Fatalf("expected 4 expanded clauses, got %d", len(clauses))
	}
	want := []string{"EVD-701", "EVD-702", "EVD-703", "EVD-704"}
	for i, anchor := range want {
		if clauses[i].Anchor != anchor {
			t.Fatalf("clause %d: expected %s, got %s", i, anchor, clauses[i].Anchor)
		}
	}
}

func TestParseDocumentLetterRange(t *testing.T) {
	doc := "[FEE-A..C] Fee allocation tiers."

	clauses, err := parseDocument(LanguageEN, doc)
	if err != nil {
		t.Fatalf("parseDocument: %v", err)
	}
	if len(clauses) != 3 {
		t.Fatalf("expected 3 clauses, got %d", len(clauses))
	}
	if clauses[0].Anchor != "FEE-A" || clauses[2].Anchor != "FEE-C" {
		t.Fatalf("unexpected expansion: %+v", clauses)
	}
}

func TestParseDocumentFirstDeclarationWins(t *testing.T) {
	doc := "[SND-501] The clause body.\n\n" +
		"Appendix index: [SND-501] see above."

	clauses, err := parseDocument(LanguageEN, doc)
	if err != nil {
		t.Fatalf("parseDocument: %v", err)
	}
	if len(clauses) != 1 {
		t.Fatalf("expected deduplicated clause, got %d", len(clauses))
	}
	if clauses[0].Text != "The clause body." {
		t.Fatalf("appendix overrode the clause body: %q", clauses[0].Text)
	}
}

func TestParseDocumentUnknownPrefix(t *testing.T) {
	_, err := parseDocument(LanguageEN, "[XYZ-001] Unknown category.")
	if !errors.Is(err, ErrUnknownCategory) {
		t.Fatalf("expected ErrUnknownCategory, got %v", err)
	}
}

func TestExpandRangeInverted(t *testing.T) {
	if _, err := expandRange("503", "501"); err == nil {
		t.Fatalf("expected error for inverted range")
	}
}

func TestExpandRangeBareCode(t *testing.T) {
	codes, err := expandRange("501", "")
	if err != nil {
		t.Fatalf("expandRange: %v", err)
	}
	if len(codes) != 1 || codes[0] != "501" {
		t.Fatalf("expected bare code, got %v", codes)
	}
}
