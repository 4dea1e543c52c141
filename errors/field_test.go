package errors

import (
	"testing"
)

func TestFieldErrors(t *testing.T) {
	cases := map[string]struct {
		err       error
		fieldName string
		want      []*Error
	}{
		"nil error": {
			err:       nil,
			fieldName: "Owners",
			want:      nil,
		},
		"single field error": {
			err:       Field("Owners", ErrEmpty, "at least one required"),
			fieldName: "Owners",
			want:      []*Error{ErrEmpty},
		},
		"field error for another field": {
			err:       Field("Required", ErrInput, "too big"),
			fieldName: "Owners",
			want:      nil,
		},
		"appended field errors": {
			err: Append(
				Field("Owners.1", ErrDuplicate, "seen before"),
				Field("Required", ErrInput, "too big"),
				Field("Owners.1", ErrInput, "wrong size"),
			),
			fieldName: "Owners.1",
			want:      []*Error{ErrDuplicate, ErrInput},
		},
		"wrapped field error": {
			err:       Wrap(AppendField(nil, "Ticker", ErrCurrency), "config"),
			fieldName: "Ticker",
			want:      []*Error{ErrCurrency},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			got := FieldErrors(tc.err, tc.fieldName)
			if len(got) != len(tc.want) {
				t.Fatalf("want %d errors, got %d: %v", len(tc.want), len(got), got)
			}
			for i, want := range tc.want {
				if !want.Is(got[i]) {
					t.Errorf("error %d: want %q, got %q", i, want, got[i])
				}
			}
		})
	}
}

func TestAppend(t *testing.T) {
	if err := Append(nil, nil); err != nil {
		t.Fatalf("want nil, got %v", err)
	}
	if err := Append(nil, ErrEmpty); err != ErrEmpty {
		t.Fatalf("single error must not be wrapped, got %#v", err)
	}
	err := Append(Append(ErrEmpty, ErrInput), ErrAmount)
	u, ok := err.(unpacker)
	if !ok {
		t.Fatalf("want a collection, got %T", err)
	}
	if n := len(u.Unpack()); n != 3 {
		t.Fatalf("want flattened collection of 3, got %d", n)
	}
}
