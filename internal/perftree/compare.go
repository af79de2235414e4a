package perftree

import (
	"fmt"
	"strings"

	"pavecraft/internal/network"
)

type DiffKind string

const (
	DiffCount   DiffKind = "count"
	DiffAdded   DiffKind = "added"
	DiffRemoved DiffKind = "removed"
	DiffChanged DiffKind = "changed"
)

type Difference struct {
	Kind      DiffKind `json:"kind"`
	Signature string   `json:"signature,omitempty"`
	Detail    string   `json:"detail"`
}

type Result struct {
	Match       bool         `json:"match"`
	Differences []Difference `json:"differences"`
}

// Compare reports whether current and snapshot have the same shape: the
// same number of entries and the same multiset of signatures.
func Compare(current, snapshot []network.Performance) Result {
	differences := make([]Difference, 0)
	if len(current) != len(snapshot) {
		differences = append(differences, Difference{
			Kind:   DiffCount,
			Detail: fmt.Sprintf("performance count differs (current: %d, snapshot: %d)", len(current), len(snapshot)),
		})
	}

	currentSigs := Signatures(current)
	snapshotSigs := Signatures(snapshot)

	remaining := make(map[string]int, len(currentSigs))
	for _, sig := range currentSigs {
		remaining[sig.Key()]++
	}
	var removed []Signature
	for _, sig := range snapshotSigs {
		if remaining[sig.Key()] > 0 {
			remaining[sig.Key()]--
			continue
		}
		removed = append(removed, sig)
	}
	var added []Signature
	for _, sig := range currentSigs {
		if remaining[sig.Key()] > 0 {
			remaining[sig.Key()]--
			added = append(added, sig)
		}
	}

	addedAt := make(map[string][]int)
	for i, sig := range added {
		addedAt[sig.place()] = append(addedAt[sig.place()], i)
	}
	paired := make(map[int]bool)
	for _, old := range removed {
		if idx := addedAt[old.place()]; len(idx) > 0 {
			now := added[idx[0]]
			addedAt[old.place()] = idx[1:]
			paired[idx[0]] = true
			differences = append(differences, Difference{
				Kind:      DiffChanged,
				Signature: old.String(),
				Detail:    describeChange(old, now),
			})
			continue
		}
		differences = append(differences, Difference{
			Kind:      DiffRemoved,
			Signature: old.String(),
			Detail:    "performance no longer present: " + old.String(),
		})
	}
	for i, sig := range added {
		if paired[i] {
			continue
		}
		differences = append(differences, Difference{
			Kind:      DiffAdded,
			Signature: sig.String(),
			Detail:    "performance added: " + sig.String(),
		})
	}

	return Result{Match: len(differences) == 0, Differences: differences}
}

func describeChange(old, now Signature) string {
	var parts []string
	if old.Level != now.Level {
		parts = append(parts, fmt.Sprintf("level %d → %d", old.Level, now.Level))
	}
	if old.unit() != now.unit() {
		parts = append(parts, fmt.Sprintf("unit %s → %s", old.unit(), now.unit()))
	}
	if old.Leaf != now.Leaf {
		parts = append(parts, fmt.Sprintf("leaf %t → %t", old.Leaf, now.Leaf))
	}
	name := strings.Join(append(append([]string{}, old.Path...), old.Name), " > ")
	return fmt.Sprintf("performance %s changed: %s", name, strings.Join(parts, ", "))
}

// Editable reports whether data recorded against snapshot can still be
// edited under the current catalog.
func Editable(current, snapshot []network.Performance) bool {
	return Compare(current, snapshot).Match
}

// MismatchMessage explains why a design is locked, or returns "" when the
// trees match.
func MismatchMessage(current, snapshot []network.Performance) string {
	result := Compare(current, snapshot)
	if result.Match {
		return ""
	}
	var b strings.Builder
	b.WriteString("The performance tree changed after this design was created, so it cannot be edited.\n\nChanges:\n")
	for _, d := range result.Differences {
		b.WriteString("• ")
		b.WriteString(d.Detail)
		b.WriteString("\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}
