package errors

import (
	"fmt"
	"testing"
)

func TestABCIInfo(t *testing.T) {
	cases := map[string]struct {
		err      error
		debug    bool
		wantCode uint32
		wantLog  string
	}{
		"plain registered error": {
			err:      ErrNotFound,
			wantLog:  "not found",
			wantCode: ErrNotFound.code,
		},
		"wrapped registered error": {
			err:      Wrap(Wrap(ErrNotFound, "foo"), "bar"),
			wantLog:  "bar: foo: not found",
			wantCode: ErrNotFound.code,
		},
		"nil is empty message": {
			err:      nil,
			wantLog:  "",
			wantCode: 0,
		},
		"nil registered error is not an error": {
			err:      (*Error)(nil),
			wantLog:  "",
			wantCode: 0,
		},
		"stdlib is generic message": {
			err:      fmt.Errorf("cannot read file"),
			wantLog:  "internal error",
			wantCode: 1,
		},
		"stdlib returns error message in debug mode": {
			err:      fmt.Errorf("cannot read file"),
			debug:    true,
			wantLog:  "cannot read file",
			wantCode: 1,
		},
		"wrapped stdlib is only a generic message": {
			err:      Wrap(fmt.Errorf("cannot read file"), "wrapped"),
			wantLog:  "internal error",
			wantCode: 1,
		},
		"multi error reports the first code": {
			err:      Append(ErrAmount, ErrCurrency),
			wantLog:  Append(ErrAmount, ErrCurrency).Error(),
			wantCode: ErrAmount.code,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			code, log := ABCIInfo(tc.err, tc.debug)
			if code != tc.wantCode {
				t.Errorf("want %d code, got %d", tc.wantCode, code)
			}
			if log != tc.wantLog {
				t.Errorf("want %q log, got %q", tc.wantLog, log)
			}
		})
	}
}

func TestABCIErrorResurrectsRegisteredCode(t *testing.T) {
	code, log := ABCIInfo(Wrap(ErrUnauthorized, "bad signature"), false)
	err := ABCIError(code, log)
	if !ErrUnauthorized.Is(err) {
		t.Fatalf("want unauthorized, got %+v", err)
	}

	if err := ABCIError(987654, "mystery"); err == nil || err.Error() != "code 987654: mystery" {
		t.Fatalf("unexpected error for unknown code: %v", err)
	}
}

func TestRedact(t *testing.T) {
	if err := Redact(ErrPanic, false); ErrPanic.Is(err) {
		t.Error("reduct must not pass through panic error")
	}
	if err := Redact(ErrPanic, true); !ErrPanic.Is(err) {
		t.Error("reduct should pass through panic error in debug mode")
	}
	if err := Redact(ErrUnauthorized, false); !ErrUnauthorized.Is(err) {
		t.Error("reduct should pass through registered error")
	}
	if err := Redact(fmt.Errorf("stdlib"), false); err.Error() != "internal error" {
		t.Errorf("stdlib error must be redacted, got %q", err)
	}
}
