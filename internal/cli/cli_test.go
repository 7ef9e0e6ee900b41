package cli

import (
	"testing"

	"github.com/echo-go/uiauto/internal/matching/orchestrator"
)

func TestParseHWND(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    uintptr
		wantErr bool
	}{
		{name: "empty", in: "", want: 0},
		{name: "hex with prefix", in: "0x1a2b", want: 0x1a2b},
		{name: "hex without prefix", in: "1a2b", want: 0x1a2b},
		{name: "invalid", in: "not-hex", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := parseHWND(tc.in)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("parseHWND(%q) expected an error, got nil", tc.in)
				}

				return
			}

			if err != nil {
				t.Fatalf("parseHWND(%q) error = %v", tc.in, err)
			}

			if got != tc.want {
				t.Fatalf("parseHWND(%q) = %#x, want %#x", tc.in, got, tc.want)
			}
		})
	}
}

func TestBuildCriteria(t *testing.T) {
	criteria, err := buildCriteria("button", "Save", []string{"name_like=Sav", "enabled=true"})
	if err != nil {
		t.Fatalf("buildCriteria() error = %v", err)
	}

	want := map[string]any{
		"role":      "button",
		"name":      "Save",
		"name_like": "Sav",
		"enabled":   "true",
	}

	if len(criteria) != len(want) {
		t.Fatalf("buildCriteria() = %v, want %v", criteria, want)
	}

	for k, v := range want {
		if criteria[k] != v {
			t.Fatalf("buildCriteria()[%q] = %v, want %v", k, criteria[k], v)
		}
	}
}

func TestBuildCriteria_RejectsMalformedPredicate(t *testing.T) {
	if _, err := buildCriteria("", "", []string{"no-equals-sign"}); err == nil {
		t.Fatal("buildCriteria() expected an error for a predicate without '='")
	}
}

func TestParseStrategies(t *testing.T) {
	got := parseStrategies(nil, []string{"template", "multiscale"})
	want := []orchestrator.Strategy{orchestrator.StrategyTemplate, orchestrator.StrategyMultiScale}

	if len(got) != len(want) {
		t.Fatalf("parseStrategies() = %v, want %v", got, want)
	}

	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("parseStrategies()[%d] = %v, want %v", i, got[i], want[i])
		}
	}

	got = parseStrategies([]string{"keypoint"}, []string{"template"})
	if len(got) != 1 || got[0] != orchestrator.StrategyKeypoint {
		t.Fatalf("parseStrategies() flag override = %v, want [keypoint]", got)
	}
}
