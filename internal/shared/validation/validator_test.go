package validation

import "testing"

func TestIsBeninPhone(t *testing.T) {
	cases := map[string]bool{
		"+22997000000":     true,
		"+229 97 00 00 00": true,
		"+2290197000000":   true,
		"97000000":         false,
		"+22897000000":     false,
		"+2299700":         false,
		"+229970000000000": false,
	}
	for phone, want := range cases {
		if got := IsBeninPhone(phone); got != want {
			t.Fatalf("IsBeninPhone(%q) = %v, want %v", phone, got, want)
		}
	}
}

func TestValidatorMessages(t *testing.T) {
	type req struct {
		Phone  string   `json:"telephone_passager" validate:"required,bjphone"`
		Places int      `json:"nb_places" validate:"min=1,max=10"`
		Slots  []string `json:"horaires" validate:"dive,hhmm"`
	}

	err := New().Struct(req{Phone: "12345", Places: 11, Slots: []string{"25:00"}})
	if err == nil {
		t.Fatal("expected validation errors")
	}
	msgs := Messages(err)
	if msgs["telephone_passager"] == "" || msgs["nb_places"] == "" {
		t.Fatalf("expected json field names in %v", msgs)
	}
	if msgs["horaires[0]"] == "" {
		t.Fatalf("expected horaire slot error in %v", msgs)
	}
}
