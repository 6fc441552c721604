package errors

import (
	goerrors "errors"
	"reflect"
	"strings"
)

// Classify maps an error to a stable lowercase label for metric tags and
// notification payloads. The innermost wrapped error carries the most signal,
// so the chain is unwrapped fully before the type name is taken.
func Classify(err error) string {
	if err == nil {
		return ""
	}

	for {
		inner := goerrors.Unwrap(err)
		if inner == nil {
			break
		}
		err = inner
	}

	t := reflect.TypeOf(err)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil {
		return "unknown"
	}

	label := strings.ToLower(t.String())
	label = strings.ReplaceAll(label, "*", "")
	label = strings.ReplaceAll(label, ".", "_")
	if label == "" {
		return "unknown"
	}
	return label
}
