package policy

import (
	"fmt"
	"sort"
)

// Snapshot is an immutable view of the loaded policy catalog. Evaluations
// hold a *Snapshot for their whole lifetime; a policy reload publishes a new
// snapshot instead of mutating this one.
type Snapshot struct {
	clauses map[Language]map[string]Clause
	docs    map[Language]string
}

func newSnapshot(docs map[Language]string) (*Snapshot, error) {
	s := &Snapshot{
		clauses: make(map[Language]map[string]Clause, len(docs)),
		docs:    make(map[Language]string, len(docs)),
	}
	for lang, doc := range docs {
		parsed, err := parseDocument(lang, doc)
		if err != nil {
			return nil, fmt.Errorf("policy document %s: %w", lang, err)
		}
		byAnchor := make(map[string]Clause, len(parsed))
		for _, clause := range parsed {
			byAnchor[clause.Anchor] = clause
		}
		s.clauses[lang] = byAnchor
		s.docs[lang] = doc
	}
	return s, nil
}

// Get returns the clause for an anchor in the given language.
func (s *Snapshot) Get(lang Language, anchor string) (Clause, error) {
	byAnchor, ok := s.clauses[lang]
	if !ok {
		return Clause{}, ErrUnknownLanguage
	}
	clause, ok := byAnchor[anchor]
	if !ok {
		return Clause{}, fmt.Errorf("%w: %s", ErrUnknownAnchor, anchor)
	}
	return clause, nil
}

// ByCategory lists the clauses of one category, sorted by anchor.
func (s *Snapshot) ByCategory(lang Language, category Category) []Clause {
	byAnchor, ok := s.clauses[lang]
	if !ok {
		return nil
	}
	var out []Clause
	for _, clause := range byAnchor {
		if clause.Category == category {
			out = append(out, clause)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Anchor < out[j].Anchor })
	return out
}

// Document returns the raw localized policy text.
func (s *Snapshot) Document(lang Language) (string, error) {
	doc, ok := s.docs[lang]
	if !ok {
		return "", ErrUnknownLanguage
	}
	return doc, nil
}

// Languages lists the loaded document languages.
func (s *Snapshot) Languages() []Language {
	langs := make([]Language, 0, len(s.docs))
	for lang := range s.docs {
		langs = append(langs, lang)
	}
	sort.Slice(langs, func(i, j int) bool { return langs[i] < langs[j] })
	return langs
}

// Validate checks that every required anchor resolves in every loaded
// language. A miss means the decision engine would emit dangling citations,
// so startup must fail.
func (s *Snapshot) Validate(required []string) error {
	for lang := range s.clauses {
		for _, anchor := range required {
			if _, err := s.Get(lang, anchor); err != nil {
				return fmt.Errorf("language %s: %w", lang, err)
			}
		}
	}
	return nil
}
