package core

import "testing"

func TestParseSentinelChannelID(t *testing.T) {
	cases := []struct {
		id     string
		userID int64
		ok     bool
	}{
		{"-42", 42, true},
		{"-7", 7, true},
		{"-bogus", 0, false},
		{"-", 0, false},
		{"-0", 0, false},
		{"--5", 0, false},
		{"42", 0, false},
		{"J1", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		userID, ok := ParseSentinelChannelID(tc.id)
		if ok != tc.ok || userID != tc.userID {
			t.Errorf("ParseSentinelChannelID(%q) = (%d, %v), want (%d, %v)", tc.id, userID, ok, tc.userID, tc.ok)
		}
	}
}

func TestSentinelChannelIDRoundTrip(t *testing.T) {
	id := SentinelChannelID(1337)
	if id != "-1337" {
		t.Fatalf("unexpected sentinel id %q", id)
	}
	if !IsSentinelChannelID(id) {
		t.Fatal("sentinel id not recognized")
	}
	userID, ok := ParseSentinelChannelID(id)
	if !ok || userID != 1337 {
		t.Fatalf("round trip failed: (%d, %v)", userID, ok)
	}
}
