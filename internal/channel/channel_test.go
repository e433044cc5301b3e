package channel

import "testing"

func TestDirectIDIsOrderIndependent(t *testing.T) {
	if DirectID(5, 3) != "dm_3_5" || DirectID(3, 5) != "dm_3_5" {
		t.Fatalf("unexpected ids: %s %s", DirectID(5, 3), DirectID(3, 5))
	}
}

func TestParseDirect(t *testing.T) {
	tests := []struct {
		id     string
		a, b   uint
		wantOK bool
	}{
		{"dm_3_5", 3, 5, true},
		{"dm_10_2", 10, 2, true},
		{"dm_3", 0, 0, false},
		{"dm_3_5_7", 0, 0, false},
		{"dm_x_5", 0, 0, false},
		{"general", 0, 0, false},
		{"xx_3_5", 0, 0, false},
		{"dm_-1_5", 0, 0, false},
	}
	for _, tc := range tests {
		a, b, ok := ParseDirect(tc.id)
		if ok != tc.wantOK || a != tc.a || b != tc.b {
			t.Errorf("ParseDirect(%q) = (%d, %d, %v), want (%d, %d, %v)", tc.id, a, b, ok, tc.a, tc.b, tc.wantOK)
		}
	}
}

func TestCounterpart(t *testing.T) {
	if other, ok := Counterpart("dm_3_5", 3); !ok || other != 5 {
		t.Fatalf("expected 5, got %d (ok=%v)", other, ok)
	}
	if other, ok := Counterpart("dm_3_5", 5); !ok || other != 3 {
		t.Fatalf("expected 3, got %d (ok=%v)", other, ok)
	}
	if _, ok := Counterpart("dm_3_5", 7); ok {
		t.Fatalf("expected non-participant to fail")
	}
	if _, ok := Counterpart("general", 3); ok {
		t.Fatalf("expected general channel to fail")
	}
}

func TestNormalize(t *testing.T) {
	if Normalize("  ") != General {
		t.Fatalf("expected general for blank id")
	}
	if Normalize("dm_1_2") != "dm_1_2" {
		t.Fatalf("expected id to be preserved")
	}
	if !IsDirect("dm_1_2") || IsDirect(General) {
		t.Fatalf("unexpected IsDirect result")
	}
}
