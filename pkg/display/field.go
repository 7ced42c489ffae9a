package display

import "sync"

// Field is a single-line text input. It is safe for concurrent use.
type Field struct {
	mutex sync.RWMutex
	value string
}

// NewField creates a field holding the given value.
func NewField(value string) *Field {
	return &Field{value: value}
}

// Value returns the current content of the field.
func (f *Field) Value() string {
	f.mutex.RLock()
	defer f.mutex.RUnlock()

	return f.value
}

// Set replaces the content of the field.
func (f *Field) Set(value string) {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	f.value = value
}

// Clear empties the field.
func (f *Field) Clear() {
	f.Set("")
}
