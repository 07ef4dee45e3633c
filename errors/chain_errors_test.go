package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"wipeforge/jsonx"
)

func TestChainErrorCarriesCode(t *testing.T) {
	err := NewError(ErrCodeEmptyChain, ErrMsgEmptyChain)
	var chainErr *ChainError
	if !stderrors.As(err, &chainErr) {
		t.Fatal("Expected *ChainError")
	}
	if chainErr.Code != ErrCodeEmptyChain {
		t.Errorf("Expected code %s, got %s", ErrCodeEmptyChain, chainErr.Code)
	}
}

func TestSentinelMatchingByCode(t *testing.T) {
	err := NewError(ErrCodeSerialization, "payload contains a channel")
	if !stderrors.Is(err, ErrSerialization) {
		t.Error("Errors with the same code must match the sentinel")
	}
	if stderrors.Is(err, ErrEmptyChain) {
		t.Error("Different codes must not match")
	}
}

func TestWrappedSentinelStillMatches(t *testing.T) {
	err := fmt.Errorf("append failed: %w", ErrSerialization)
	if !stderrors.Is(err, ErrSerialization) {
		t.Error("Wrapped sentinel must still match")
	}
}

func TestErrorMessageIsJSON(t *testing.T) {
	err := NewError(ErrCodeRecordNotFound, ErrMsgRecordNotFound)
	var decoded ChainError
	if jerr := jsonx.Unmarshal([]byte(err.Error()), &decoded); jerr != nil {
		t.Fatalf("Error() should render JSON: %v", jerr)
	}
	if decoded.Code != ErrCodeRecordNotFound {
		t.Errorf("Expected code in JSON, got %s", decoded.Code)
	}
}
