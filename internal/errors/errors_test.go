package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"replayrng/domain/core"
)

func TestFromDomain_Codes(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		code   string
		status int
	}{
		{"range", core.NewRangeError(10, 5, false), CodeInvalidRange, http.StatusBadRequest},
		{"state", core.NewStateError(56, 3), CodeInvalidState, http.StatusBadRequest},
		{"restore", core.NewRestoreError(-1), CodeInvalidInput, http.StatusBadRequest},
		{"not found", core.ErrSessionNotFound, CodeNotFound, http.StatusNotFound},
		{"determinism", core.ErrNonDeterministic, CodeDeterminism, http.StatusInternalServerError},
		{"too far", RestoreTooFar(100, 10), CodeRestoreTooFar, http.StatusUnprocessableEntity},
		{"other", fmt.Errorf("boom"), CodeInternalError, http.StatusInternalServerError},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			mapped := FromDomain(tc.err)
			if got := GetCode(mapped); got != tc.code {
				t.Errorf("Expected code %s, got %s", tc.code, got)
			}
			if got := HTTPStatus(tc.err); got != tc.status {
				t.Errorf("Expected status %d, got %d", tc.status, got)
			}
		})
	}
}

func TestNotFound_KeepsDomainCause(t *testing.T) {
	err := NotFound("session", "abc")

	if GetCode(err) != CodeNotFound {
		t.Errorf("Expected code %s, got %s", CodeNotFound, GetCode(err))
	}
	if !core.IsNotFoundError(err) {
		t.Error("Expected NotFound to match core.ErrNotFound")
	}
	if HTTPStatus(err) != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", HTTPStatus(err))
	}
}

func TestFromDomain_UnknownErrorIsInternal(t *testing.T) {
	cause := fmt.Errorf("disk on fire")
	err := FromDomain(cause)

	if GetCode(err) != CodeInternalError {
		t.Errorf("Expected code %s, got %s", CodeInternalError, GetCode(err))
	}
	if !stderrors.Is(err, cause) {
		t.Error("Expected internal error to wrap its cause")
	}
}

func TestWrap_PreservesCodeAndCause(t *testing.T) {
	base := FromDomain(core.NewRangeError(1, 0, false))
	wrapped := Wrap(base, "drawing value")

	if GetCode(wrapped) != CodeInvalidRange {
		t.Errorf("Expected code to survive wrapping, got %s", GetCode(wrapped))
	}
	if !stderrors.Is(wrapped, core.ErrInvalidRange) {
		t.Error("Expected wrapped error to still match ErrInvalidRange")
	}
	if Wrap(nil, "x") != nil {
		t.Error("Wrap(nil) must return nil")
	}
}
