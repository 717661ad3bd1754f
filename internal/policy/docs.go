package policy

import "embed"

//go:embed docs/*.md
var embeddedDocs embed.FS

// Load parses the embedded policy documents into an immutable Snapshot.
func Load() (*Snapshot, error) {
	zh, err := embeddedDocs.ReadFile("docs/policy_zh.md")
	if err != nil {
		return nil, err
	}
	en, err := embeddedDocs.ReadFile("docs/policy_en.md")
	if err != nil {
		return nil, err
	}
	return newSnapshot(map[Language]string{
		LanguageZH: string(zh),
		LanguageEN: string(en),
	})
}
