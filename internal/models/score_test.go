package models_test

import (
	"encoding/json"
	"testing"

	"github.com/complianceops/scorecard/internal/models"
)

// ── ScoreCount wire format ────────────────────────────────────────────────────

func TestScoreCount_UnmarshalNumber(t *testing.T) {
	var count models.ScoreCount
	if err := json.Unmarshal([]byte(`7`), &count); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count.IsSentinel() {
		t.Error("numeric value must not be a sentinel")
	}
	if count.Value() != 7 {
		t.Errorf("Value() = %d; want 7", count.Value())
	}
	if count.String() != "7" {
		t.Errorf("String() = %q; want %q", count.String(), "7")
	}
}

func TestScoreCount_UnmarshalSentinels(t *testing.T) {
	tests := []struct {
		raw  string
		want models.Sentinel
	}{
		{`"DNC"`, models.SentinelDNC},
		{`"N/A"`, models.SentinelNA},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			var count models.ScoreCount
			if err := json.Unmarshal([]byte(tt.raw), &count); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !count.IsSentinel() {
				t.Fatal("sentinel string must mark the count as sentinel")
			}
			if count.Value() != 0 {
				t.Errorf("Value() = %d; sentinels must count as 0", count.Value())
			}
			if count.String() != string(tt.want) {
				t.Errorf("String() = %q; want %q", count.String(), tt.want)
			}
		})
	}
}

func TestScoreCount_UnmarshalRejectsBadInput(t *testing.T) {
	for _, raw := range []string{`"bogus"`, `-1`, `true`, `{"n":1}`} {
		var count models.ScoreCount
		if err := json.Unmarshal([]byte(raw), &count); err == nil {
			t.Errorf("input %s must be rejected at the boundary", raw)
		}
	}
}

func TestScoreCount_MarshalMirrorsWireFormat(t *testing.T) {
	num, err := json.Marshal(models.ScoreCount{NumFailing: 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(num) != `3` {
		t.Errorf("got %s; want 3", num)
	}

	sentinel, err := json.Marshal(models.ScoreCount{Sentinel: models.SentinelNA})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(sentinel) != `"N/A"` {
		t.Errorf("got %s; want \"N/A\"", sentinel)
	}
}

func TestSeverityScore_UnmarshalFromWire(t *testing.T) {
	var sev models.SeverityScore
	raw := `{"numFailing": "DNC", "numResources": 12}`
	if err := json.Unmarshal([]byte(raw), &sev); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !sev.NumFailing.IsSentinel() || sev.NumResources != 12 {
		t.Errorf("unexpected result: %+v", sev)
	}
}
