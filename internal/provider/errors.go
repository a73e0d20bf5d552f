package provider

import "fmt"

// RowParseError reports one record that failed field coercion. It is never
// fatal to a batch.
type RowParseError struct {
	Source string
	Key    string
	Err    error
}

func (e *RowParseError) Error() string {
	return fmt.Sprintf("%s: parse row %q: %v", e.Source, e.Key, e.Err)
}

func (e *RowParseError) Unwrap() error { return e.Err }

// UnknownEntityError reports a lookup key with no known mapping, such as a
// team code missing from a slug table.
type UnknownEntityError struct {
	Kind string
	Key  string
}

func (e *UnknownEntityError) Error() string {
	return fmt.Sprintf("unknown %s %q", e.Kind, e.Key)
}
