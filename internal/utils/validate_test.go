package utils

import "testing"

type signupInput struct {
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"required,min=7,max=15"`
	Password string `json:"password" validate:"required,min=6,max=64"`
}

func TestValidateStructValid(t *testing.T) {
	input := signupInput{
		Email:    "customer@example.com",
		Phone:    "998901234567",
		Password: "secret123",
	}

	if errs := ValidateStruct(input); errs != nil {
		t.Fatalf("expected no field errors, got %v", errs)
	}
}

func TestValidateStructFieldErrors(t *testing.T) {
	input := signupInput{
		Email:    "not-an-email",
		Phone:    "123",
		Password: "",
	}

	errs := ValidateStruct(input)
	if len(errs) != 3 {
		t.Fatalf("expected 3 field errors, got %d: %v", len(errs), errs)
	}

	// Field names come from the json tags, not the Go field names.
	seen := map[string]string{}
	for _, fe := range errs {
		seen[fe.Field] = fe.Message
	}
	for _, field := range []string{"email", "phone", "password"} {
		if _, ok := seen[field]; !ok {
			t.Errorf("missing field error for %q, got %v", field, seen)
		}
	}

	if msg := seen["password"]; msg != "is required" {
		t.Errorf("password message = %q, want %q", msg, "is required")
	}
	if msg := seen["email"]; msg != "must be a valid email address" {
		t.Errorf("email message = %q, want %q", msg, "must be a valid email address")
	}
	if msg := seen["phone"]; msg != "must be at least 7 characters" {
		t.Errorf("phone message = %q, want %q", msg, "must be at least 7 characters")
	}
}

func TestValidateStructOmitempty(t *testing.T) {
	type profileInput struct {
		FirstName string `json:"first_name" validate:"omitempty,max=64"`
	}

	if errs := ValidateStruct(profileInput{}); errs != nil {
		t.Fatalf("expected empty optional field to pass, got %v", errs)
	}
}
