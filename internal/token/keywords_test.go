package token

import "testing"

func TestLookupKeyword(t *testing.T) {
	tests := []struct {
		in   string
		want Kind
		ok   bool
	}{
		{"self", KwSelf, true},
		{"Self", KwSelfType, true},
		{"init", KwInit, true},
		{"SELF", Invalid, false},
		{"`self`", Invalid, false},
		{"Type", Invalid, false},
	}
	for _, tt := range tests {
		got, ok := LookupKeyword(tt.in)
		if ok != tt.ok || (ok && got != tt.want) {
			t.Errorf("LookupKeyword(%q) = %v,%v; want %v,%v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestKindHelpers(t *testing.T) {
	if !KwNil.IsKeyword() || Ident.IsKeyword() || IntLit.IsKeyword() {
		t.Errorf("IsKeyword misclassifies kinds")
	}
	tok := Token{Kind: KwSelf, Text: "self"}
	if !tok.IsName() {
		t.Errorf("self must be usable as a member name")
	}
	if KwSelf.String() != "self" || Dot.String() != "." {
		t.Errorf("unexpected kind names: %s %s", KwSelf, Dot)
	}
}
