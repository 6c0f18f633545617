package session

import "unicode/utf8"

// ClipboardEvent is a browser event the password field refuses
type ClipboardEvent string

const (
	EventPaste       ClipboardEvent = "paste"
	EventCopy        ClipboardEvent = "copy"
	EventCut         ClipboardEvent = "cut"
	EventContextMenu ClipboardEvent = "contextmenu"
)

// PasswordField holds the value of the password input and applies the
// typing-only rules: a change that inserts more than one character at once
// is discarded, and clipboard events are blocked. This deters
// shoulder-surfing and pasting; it does not stop scripted submission.
type PasswordField struct {
	value string
}

// Value returns the current contents
func (f *PasswordField) Value() string {
	return f.value
}

// Change applies an input event carrying the field's new contents.
// It returns false and keeps the old value when the change looks like a paste.
func (f *PasswordField) Change(next string) bool {
	if utf8.RuneCountInString(next)-utf8.RuneCountInString(f.value) > 1 {
		return false
	}
	f.value = next
	return true
}

// Allow reports whether a clipboard or context-menu event may proceed
func (f *PasswordField) Allow(event ClipboardEvent) bool {
	switch event {
	case EventPaste, EventCopy, EventCut, EventContextMenu:
		return false
	}
	return true
}

// Clear empties the field
func (f *PasswordField) Clear() {
	f.value = ""
}
