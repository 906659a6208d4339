package validation

import (
	"encoding/json"
	"testing"

	"github.com/go-playground/validator/v10"
)

type registerPayload struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,pwd"`
	Name     string `json:"name" validate:"displayname"`
}

type favoritePayload struct {
	CoinID string `uri:"coinID" validate:"required,coinid"`
}

func newValidator() *validator.Validate {
	v := validator.New()
	Register(v)
	return v
}

func TestToDetailsUsesJSONNames(t *testing.T) {
	err := newValidator().Struct(registerPayload{Email: "nope", Password: "123"})
	details := ToDetails(err)
	if details["email"] != "must be a valid email" {
		t.Errorf("email detail = %q", details["email"])
	}
	if details["password"] != "must be between 6 and 128 characters" {
		t.Errorf("password detail = %q", details["password"])
	}
	if _, ok := details["name"]; ok {
		t.Errorf("name should be valid: %v", details)
	}
}

func TestCoinIDValidation(t *testing.T) {
	v := newValidator()
	for _, ok := range []string{"bitcoin", "usd-coin", "wrapped-bitcoin", "0x0"} {
		if err := v.Struct(favoritePayload{CoinID: ok}); err != nil {
			t.Errorf("%q rejected: %v", ok, err)
		}
	}
	for _, bad := range []string{"Bitcoin", "../etc", "a b", "-lead"} {
		err := v.Struct(favoritePayload{CoinID: bad})
		if err == nil {
			t.Errorf("%q accepted", bad)
			continue
		}
		if got := ToDetails(err)["coinID"]; got != "must be a valid coin id" {
			t.Errorf("detail for %q = %q", bad, got)
		}
	}
}

func TestToDetailsInvalidJSON(t *testing.T) {
	var dst map[string]any
	err := json.Unmarshal([]byte("{"), &dst)
	if err == nil {
		t.Fatal("expected syntax error")
	}
	if got := ToDetails(err)["payload"]; got != "invalid json" {
		t.Errorf("payload detail = %q", got)
	}
	if ToDetails(nil) != nil {
		t.Error("nil error should give nil details")
	}
}
