package errors

import (
	"errors"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeNoImages, "no images found in %s", "data/cover_art")

	if err.Code != ErrCodeNoImages {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeNoImages)
	}

	if err.Message != "no images found in data/cover_art" {
		t.Errorf("Message = %v, want %v", err.Message, "no images found in data/cover_art")
	}

	expected := "NO_IMAGES: no images found in data/cover_art"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeImageDecode, cause, "decode cover.jpg")

	if err.Code != ErrCodeImageDecode {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeImageDecode)
	}

	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}

	// Test Unwrap
	unwrapped := errors.Unwrap(err)
	if unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}

	// Test errors.Is with wrapped error
	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
}

func TestIs(t *testing.T) {
	err := New(ErrCodeFontNotFound, "font not found")

	if !Is(err, ErrCodeFontNotFound) {
		t.Error("Is(err, ErrCodeFontNotFound) = false, want true")
	}

	if Is(err, ErrCodeNoImages) {
		t.Error("Is(err, ErrCodeNoImages) = true, want false")
	}

	// Non-structured errors have no code
	if Is(errors.New("plain"), ErrCodeFontNotFound) {
		t.Error("Is(plain, ErrCodeFontNotFound) = true, want false")
	}
}

func TestGetCode(t *testing.T) {
	err := New(ErrCodeInsufficientSpace, "image area is empty")
	if got := GetCode(err); got != ErrCodeInsufficientSpace {
		t.Errorf("GetCode() = %v, want %v", got, ErrCodeInsufficientSpace)
	}

	if got := GetCode(errors.New("plain")); got != "" {
		t.Errorf("GetCode(plain) = %v, want empty", got)
	}
}

func TestUserMessage(t *testing.T) {
	err := New(ErrCodeInvalidColor, "cannot parse %q as hex color", "#GGHHII")
	want := `cannot parse "#GGHHII" as hex color`
	if got := UserMessage(err); got != want {
		t.Errorf("UserMessage() = %v, want %v", got, want)
	}

	plain := errors.New("plain error")
	if got := UserMessage(plain); got != "plain error" {
		t.Errorf("UserMessage(plain) = %v, want %v", got, "plain error")
	}
}

func TestIsConfiguration(t *testing.T) {
	tests := []struct {
		code Code
		want bool
	}{
		{ErrCodeInvalidConfig, true},
		{ErrCodeFontNotFound, true},
		{ErrCodeInvalidColor, true},
		{ErrCodeInsufficientSpace, true},
		{ErrCodeNoImages, false},
		{ErrCodeImageDecode, false},
		{ErrCodeIO, false},
	}

	for _, tt := range tests {
		err := New(tt.code, "test")
		if got := IsConfiguration(err); got != tt.want {
			t.Errorf("IsConfiguration(%s) = %v, want %v", tt.code, got, tt.want)
		}
	}

	if IsConfiguration(errors.New("plain")) {
		t.Error("IsConfiguration(plain) = true, want false")
	}
}

func TestRateLimitedError(t *testing.T) {
	err := &RateLimitedError{RetryAfter: 30}
	if err.Error() != "rate limited: retry after 30 seconds" {
		t.Errorf("Error() = %v", err.Error())
	}

	noRetry := &RateLimitedError{}
	if noRetry.Error() != "rate limited" {
		t.Errorf("Error() = %v", noRetry.Error())
	}

	if err.Code() != ErrCodeRateLimited {
		t.Errorf("Code() = %v, want %v", err.Code(), ErrCodeRateLimited)
	}
}
