package validator

import (
	"testing"

	"github.com/go-playground/validator/v10"
)

func TestIsSlug(t *testing.T) {
	v := validator.New()
	if err := v.RegisterValidation("slug", IsSlug); err != nil {
		t.Fatalf("register validation: %v", err)
	}

	valid := []string{"infra", "it-team", "team-42", "a1"}
	for _, s := range valid {
		if err := v.Var(s, "slug"); err != nil {
			t.Errorf("%q should be a valid slug: %v", s, err)
		}
	}

	invalid := []string{"", "a", "-infra", "infra-", "IT-Team", "team_42", "a b"}
	for _, s := range invalid {
		if err := v.Var(s, "slug"); err == nil {
			t.Errorf("%q should be rejected", s)
		}
	}
}
