package entities

// TagEventKind represents the kind of event produced by a document tag stream
type TagEventKind int

const (
	EnterTag TagEventKind = iota
	ExitTag
	TextContent
)

// String method for TagEventKind enum
func (k TagEventKind) String() string {
	switch k {
	case EnterTag:
		return "EnterTag"
	case ExitTag:
		return "ExitTag"
	case TextContent:
		return "TextContent"
	default:
		return "Unknown"
	}
}

// TagEvent is one event of a pre-tokenized document.
// Name is set for EnterTag and ExitTag, Text for TextContent.
type TagEvent struct {
	Kind TagEventKind
	Name string
	Text []byte
}

// Enter builds an EnterTag event
func Enter(name string) TagEvent {
	return TagEvent{Kind: EnterTag, Name: name}
}

// Exit builds an ExitTag event
func Exit(name string) TagEvent {
	return TagEvent{Kind: ExitTag, Name: name}
}

// Text builds a TextContent event
func Text(content string) TagEvent {
	return TagEvent{Kind: TextContent, Text: []byte(content)}
}
