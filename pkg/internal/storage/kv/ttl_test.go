package kv

import (
	"testing"
	"time"
)

func TestSealRoundTrip(t *testing.T) {
	now := time.Unix(1700000000, 0)

	b := seal([]byte("payload"), time.Minute, now)

	v, live, err := unseal(b, now.Add(59*time.Second))
	if err != nil || !live || string(v) != "payload" {
		t.Fatalf("unseal before deadline = %q, %v, %v", v, live, err)
	}

	if _, live, _ := unseal(b, now.Add(time.Minute)); live {
		t.Errorf("value still live at deadline")
	}
}

func TestUnsealPlainAndCorrupt(t *testing.T) {
	now := time.Now()

	if got := seal([]byte("x"), 0, now); string(got) != "x" {
		t.Errorf("zero ttl wrapped the value: %q", got)
	}

	v, live, err := unseal([]byte("plain"), now)
	if err != nil || !live || string(v) != "plain" {
		t.Errorf("plain value = %q, %v, %v", v, live, err)
	}

	if _, _, err := unseal(append([]byte(nil), sealMagic...), now); err == nil {
		t.Errorf("expected error for truncated header")
	}
}
