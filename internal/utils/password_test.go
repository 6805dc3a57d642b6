package utils

import "testing"

func TestGenerateSalt(t *testing.T) {
	first, err := GenerateSalt()
	if err != nil {
		t.Fatalf("GenerateSalt returned error: %v", err)
	}
	if first == "" {
		t.Fatal("expected a non-empty salt")
	}

	second, err := GenerateSalt()
	if err != nil {
		t.Fatalf("GenerateSalt returned error: %v", err)
	}
	if first == second {
		t.Error("expected two generated salts to differ")
	}
}

func TestGeneratePassword(t *testing.T) {
	salt, err := GenerateSalt()
	if err != nil {
		t.Fatalf("GenerateSalt returned error: %v", err)
	}

	hash, err := GeneratePassword("secret123", salt)
	if err != nil {
		t.Fatalf("GeneratePassword returned error: %v", err)
	}
	if hash == "" {
		t.Fatal("expected a non-empty hash")
	}
	if hash == "secret123" {
		t.Fatal("hash must not equal the plain password")
	}

	again, err := GeneratePassword("secret123", salt)
	if err != nil {
		t.Fatalf("GeneratePassword returned error: %v", err)
	}
	if hash != again {
		t.Error("same password and salt should produce the same hash")
	}

	otherSalt, err := GenerateSalt()
	if err != nil {
		t.Fatalf("GenerateSalt returned error: %v", err)
	}
	rehash, err := GeneratePassword("secret123", otherSalt)
	if err != nil {
		t.Fatalf("GeneratePassword returned error: %v", err)
	}
	if hash == rehash {
		t.Error("different salts should produce different hashes")
	}
}

func TestValidatePassword(t *testing.T) {
	salt, err := GenerateSalt()
	if err != nil {
		t.Fatalf("GenerateSalt returned error: %v", err)
	}
	hash, err := GeneratePassword("secret123", salt)
	if err != nil {
		t.Fatalf("GeneratePassword returned error: %v", err)
	}

	t.Run("correct password", func(t *testing.T) {
		if !ValidatePassword("secret123", hash, salt) {
			t.Error("expected the correct password to validate")
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		if ValidatePassword("secret124", hash, salt) {
			t.Error("expected a wrong password to fail validation")
		}
	})

	t.Run("wrong salt", func(t *testing.T) {
		otherSalt, err := GenerateSalt()
		if err != nil {
			t.Fatalf("GenerateSalt returned error: %v", err)
		}
		if ValidatePassword("secret123", hash, otherSalt) {
			t.Error("expected validation under a different salt to fail")
		}
	})

	t.Run("malformed stored values", func(t *testing.T) {
		if ValidatePassword("secret123", "%%%not-base64%%%", salt) {
			t.Error("expected a malformed hash to fail validation")
		}
		if ValidatePassword("secret123", hash, "%%%not-base64%%%") {
			t.Error("expected a malformed salt to fail validation")
		}
	})
}
