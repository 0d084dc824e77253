package config

import "reflect"

// diffEvent compares two configs field by field. Both must be pointers to
// the same struct type; anything else yields an event without keys.
func diffEvent(old, new any) Event {
	evt := Event{OldConfig: old, NewConfig: new}
	if old == nil || new == nil {
		return evt
	}

	oldVal := reflect.Indirect(reflect.ValueOf(old))
	newVal := reflect.Indirect(reflect.ValueOf(new))
	if oldVal.Kind() != reflect.Struct || oldVal.Type() != newVal.Type() {
		return evt
	}

	for i := 0; i < oldVal.NumField(); i++ {
		if !reflect.DeepEqual(oldVal.Field(i).Interface(), newVal.Field(i).Interface()) {
			evt.ChangedKeys = append(evt.ChangedKeys, oldVal.Type().Field(i).Name)
		}
	}
	return evt
}
