package msgstore

import "testing"

func TestIsMessageStart(t *testing.T) {
	tests := []struct {
		name string
		text string
		want bool
	}{
		{"standard", "Hello\n1,ALICE\n2,BOB\nDate : 01/02/20 03:04:05 PM\nbody", true},
		{"arrow", "Hello\n10,ALICE\n22,BOB\nDate ->01/02/20 03:04:05 PM\n", true},
		{"date without stamp", "Hello\n1,A\n2,B\nDate:\n", true},
		{"three lines", "Hello\n1,A\n2,B", false},
		{"to not numeric", "Hello\nALICE\n2,BOB\nDate : x\n", false},
		{"from not numeric", "Hello\n1,ALICE\nBOB,2\nDate : x\n", false},
		{"number without comma", "Hello\n1 ALICE\n2,BOB\nDate : x\n", false},
		{"no date token", "Hello\n1,A\n2,B\nWhen : 01/02/20\n", false},
		{"date no separator", "Hello\n1,A\n2,B\nDate 01/02/20\n", false},
		{"date on wrong line", "Hello\n1,A\n2,B\nbody\nDate : 01/02/20\n", false},
		{"empty", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsMessageStart(tt.text); got != tt.want {
				t.Errorf("IsMessageStart(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestParseEnvelope(t *testing.T) {
	env, ok := ParseEnvelope("Swap meet \n12,JOHN DOE\n3, SYSOP\nDate : 01/02/20 03:04:05 PM\nbody")
	if !ok {
		t.Fatal("ParseEnvelope rejected a valid header")
	}
	want := Envelope{Subject: "Swap meet", ToID: 12, To: "JOHN DOE", FromID: 3, From: "SYSOP"}
	if env != want {
		t.Errorf("ParseEnvelope = %+v, want %+v", env, want)
	}
	if _, ok := ParseEnvelope("just a fragment"); ok {
		t.Error("ParseEnvelope accepted a fragment")
	}
}
