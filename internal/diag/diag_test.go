package diag

import "testing"

func TestList(t *testing.T) {
	var list List
	list.Add(Errorf(CodeLabelMissing, "node %d has no label", 2))
	list.Add(Warnf(CodeEdgesEmpty, "no edges").WithNode("Speed"))
	list.Add(Infof(CodeWeightRounded, "rounded").WithEdge("Drag", "Speed"))

	if list.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", list.Len())
	}
	if !list.HasErrors() {
		t.Fatalf("expected HasErrors")
	}
	if got := list.Errors(); len(got) != 1 || got[0].Message != "node 2 has no label" {
		t.Fatalf("Errors() = %+v", got)
	}
	if got := list.Warnings(); len(got) != 1 || got[0].NodeLabel != "Speed" {
		t.Fatalf("Warnings() = %+v", got)
	}
	if got := list.Infos(); len(got) != 1 || got[0].EdgeLabels != "Drag → Speed" {
		t.Fatalf("Infos() = %+v", got)
	}

	all := list.All()
	all[0].Message = "changed"
	if list.All()[0].Message == "changed" {
		t.Fatalf("All() must return a copy")
	}
	if !HasCode(all, CodeEdgesEmpty) || HasCode(all, CodeParseFailed) {
		t.Fatalf("HasCode mismatch")
	}
}

func TestList_ZeroValue(t *testing.T) {
	var list List
	if list.HasErrors() {
		t.Fatalf("empty list has no errors")
	}
	if got := list.Errors(); got == nil || len(got) != 0 {
		t.Fatalf("Errors() on empty list = %#v, want empty slice", got)
	}
}

func TestDiagnosticString(t *testing.T) {
	tests := []struct {
		d    Diagnostic
		want string
	}{
		{Errorf(CodeInputEmpty, "input is empty"), "error: input is empty (input_empty)"},
		{Warnf(CodeLabelDuplicate, "duplicate").WithNode("Drag"), "warning: Drag: duplicate (label_duplicate)"},
		{Errorf(CodePaveViolation, "bad").WithNode("Drag").WithEdge("Drag", "Wind"), "error: Drag → Wind: bad (pave_violation)"},
	}
	for _, tt := range tests {
		if got := tt.d.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
