package jwt

import (
	"testing"
	"time"
)

// FuzzParse feeds arbitrary strings to Parse. Nothing may panic and only
// tokens this manager signed may be accepted.
func FuzzParse(f *testing.F) {
	m, err := NewManager(Config{Secret: testSecret, TTL: 5 * time.Minute})
	if err != nil {
		f.Fatal(err)
	}
	valid, err := m.Issue("fuzz@example.com")
	if err != nil {
		f.Fatal(err)
	}

	f.Add(valid.Value)
	f.Add("")
	f.Add("a.b.c")
	f.Add("eyJhbGciOiJub25lIn0.eyJzdWIiOiJ4In0.")
	f.Add(valid.Value + "x")

	f.Fuzz(func(t *testing.T, token string) {
		claims, err := m.Parse(token)
		if err == nil && claims.Email() == "" {
			t.Fatal("accepted token without subject")
		}
	})
}
