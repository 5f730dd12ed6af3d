package keyx

import (
	"testing"
)

func TestLookupUnknownSchemeReturnsNil(t *testing.T) {
	registry := NewRegistry(StaticKeySource{})

	// Absence, not an error: peers may advertise schemes from later
	// protocol revisions.
	if factory := registry.Lookup(Scheme("POST_QUANTUM")); factory != nil {
		t.Errorf("Lookup unknown = %v; want nil", factory)
	}
}

func TestLookupAllRegisteredSchemes(t *testing.T) {
	registry := NewRegistry(StaticKeySource{})
	for _, scheme := range []Scheme{
		SchemeAsymmetricWrapped,
		SchemeDiffieHellman,
		SchemeJWELadder,
		SchemeJWKLadder,
		SchemeSymmetricWrapped,
	} {
		factory := registry.Lookup(scheme)
		if factory == nil {
			t.Errorf("Lookup(%s) = nil", scheme)
			continue
		}
		if factory.Scheme() != scheme {
			t.Errorf("factory scheme = %s; want %s", factory.Scheme(), scheme)
		}
	}
}

func TestParseScheme(t *testing.T) {
	if scheme, ok := ParseScheme("DIFFIE_HELLMAN"); !ok || scheme != SchemeDiffieHellman {
		t.Errorf("ParseScheme(DIFFIE_HELLMAN) = %v, %v", scheme, ok)
	}
	if _, ok := ParseScheme("diffie_hellman"); ok {
		t.Error("scheme names are case sensitive")
	}
	if _, ok := ParseScheme(""); ok {
		t.Error("empty scheme name recognized")
	}
}

func TestSchemesSorted(t *testing.T) {
	registry := NewRegistry(StaticKeySource{})
	schemes := registry.Schemes()
	if len(schemes) != 5 {
		t.Fatalf("len(Schemes()) = %d; want 5", len(schemes))
	}
	for i := 1; i < len(schemes); i++ {
		if schemes[i-1] >= schemes[i] {
			t.Errorf("schemes not sorted: %v", schemes)
			break
		}
	}
}

func TestStaticKeySource(t *testing.T) {
	source := StaticKeySource{
		PreSharedKeys: map[string][]byte{"kek": {1, 2, 3}},
	}

	key, err := source.PreSharedKey("kek")
	if err != nil || len(key) != 3 {
		t.Errorf("PreSharedKey(kek) = %v, %v", key, err)
	}
	if _, err := source.PreSharedKey("missing"); err == nil {
		t.Error("missing pre-shared key did not error")
	}
	if _, err := source.LadderStorageKey(); err == nil {
		t.Error("unset storage key did not error")
	}
}
