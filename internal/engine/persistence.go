package engine

import (
	"encoding/json"
	"fmt"
)

// stateFormatVersion is bumped when the persisted layout changes
const stateFormatVersion = 1

// stateDocument is the persisted form of a Stack
type stateDocument struct {
	Version   int                     `json:"version"`
	Base      string                  `json:"base"`
	Applied   []string                `json:"applied"`
	Unapplied []string                `json:"unapplied"`
	Patches   map[string]*patchRecord `json:"patches"`
	Undo      *UndoEntry              `json:"undo,omitempty"`
}

// patchRecord is the per-patch metadata record
type patchRecord struct {
	Commit string     `json:"commit"`
	Log    []LogEntry `json:"log,omitempty"`
}

func encodeState(s *Stack) ([]byte, error) {
	doc := stateDocument{
		Version:   stateFormatVersion,
		Base:      s.Base,
		Applied:   make([]string, 0, len(s.Applied)),
		Unapplied: make([]string, 0, len(s.Unapplied)),
		Patches:   make(map[string]*patchRecord, len(s.Applied)+len(s.Unapplied)),
		Undo:      s.Undo,
	}
	for _, p := range s.Applied {
		doc.Applied = append(doc.Applied, p.Name)
		doc.Patches[p.Name] = &patchRecord{Commit: p.Commit, Log: p.Log}
	}
	for _, p := range s.Unapplied {
		doc.Unapplied = append(doc.Unapplied, p.Name)
		doc.Patches[p.Name] = &patchRecord{Commit: p.Commit, Log: p.Log}
	}

	data, err := json.MarshalIndent(&doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal stack state: %w", err)
	}
	return data, nil
}

func decodeState(data []byte) (*stateDocument, error) {
	var doc stateDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal stack state: %w", err)
	}
	if doc.Version > stateFormatVersion {
		return nil, fmt.Errorf("stack state version %d is newer than supported version %d", doc.Version, stateFormatVersion)
	}
	if doc.Patches == nil {
		doc.Patches = make(map[string]*patchRecord)
	}

	seen := make(map[string]bool, len(doc.Applied)+len(doc.Unapplied))
	for _, name := range append(append([]string{}, doc.Applied...), doc.Unapplied...) {
		if seen[name] {
			return nil, fmt.Errorf("corrupt stack state: patch %q listed twice", name)
		}
		seen[name] = true
		if doc.Patches[name] == nil {
			return nil, fmt.Errorf("corrupt stack state: no record for patch %q", name)
		}
	}
	return &doc, nil
}
