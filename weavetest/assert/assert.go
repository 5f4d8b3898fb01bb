/*
Package assert holds the few test assertions that understand stakeweave
errors. Every assertion stops the test on failure.
*/
package assert

import (
	"reflect"
	"testing"

	"github.com/iov-one/stakeweave/errors"
)

// Tester is the part of testing.TB the assertions use.
type Tester interface {
	Helper()
	Fatal(...interface{})
	Fatalf(string, ...interface{})
}

// Nil fails unless value is nil or a typed nil. Errors are printed with %+v
// so that their stack trace is visible.
func Nil(t Tester, value interface{}) {
	t.Helper()
	if value == nil {
		return
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Ptr, reflect.Slice:
		if rv.IsNil() {
			return
		}
	}
	t.Fatalf("want a nil value, got %+v", value)
}

func Equal(t Tester, want, got interface{}) {
	t.Helper()
	if reflect.DeepEqual(want, got) {
		return
	}
	t.Fatalf("values not equal\nwant %T %v\n got %T %v", want, want, got, got)
}

func Panics(t Tester, fn func()) {
	t.Helper()
	panicked := func() (p bool) {
		defer func() { p = recover() != nil }()
		fn()
		return false
	}()
	if !panicked {
		t.Fatal("panic expected")
	}
}

// IsErr fails unless got is want or wraps it.
func IsErr(t testing.TB, want, got error) {
	t.Helper()
	if kind, ok := want.(interface{ Is(error) bool }); ok && kind.Is(got) {
		return
	}
	if want != got {
		t.Fatalf("want %q, got %+v", want, got)
	}
}

// FieldError fails unless err holds exactly one error of kind want for the
// named field. A nil want asserts that the field has no error at all.
func FieldError(t testing.TB, err error, field string, want *errors.Error) {
	t.Helper()
	found := errors.FieldErrors(err, field)
	if want == nil {
		if len(found) > 0 {
			t.Fatalf("want no %q error, got %v", field, found)
		}
		return
	}
	if len(found) != 1 {
		for i, e := range found {
			t.Logf("%q error %d: %v", field, i, e)
		}
		t.Fatalf("want one %q error, got %d", field, len(found))
		return
	}
	if !want.Is(found[0]) {
		t.Fatalf("%q: want %q, got %q", field, want, found[0])
	}
}
