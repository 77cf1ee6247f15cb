package events

import "reflect"

// ExtractTableID returns the TableID field of an event struct, or of the struct an
// event pointer points to. Events without one yield an empty string.
func ExtractTableID(event Event) string {
	val := reflect.ValueOf(event)
	if val.Kind() == reflect.Ptr {
		if val.IsNil() {
			return ""
		}
		val = val.Elem()
	}
	if val.Kind() != reflect.Struct {
		return ""
	}

	field := val.FieldByName("TableID")
	if !field.IsValid() || field.Kind() != reflect.String {
		return ""
	}
	return field.String()
}
