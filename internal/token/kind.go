package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token (e.g. an unterminated value).
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF

	// Text is a top-level run that is neither a record nor a '%' comment.
	Text
	// Comment is one or more consecutive lines starting with '%'.
	Comment
	// At starts a record.
	At

	// Ident is an entry type, field name or bare value (number, macro).
	Ident
	// Key is a citation key.
	Key
	// Braced is a {…} value with balanced braces.
	Braced
	// Quoted is a "…" value.
	Quoted

	LBrace // {
	RBrace // }
	LParen // (
	RParen // )
	Comma  // ,
	Assign // =
	Hash   // #
)

var kindNames = [...]string{
	Invalid: "Invalid",
	EOF:     "EOF",
	Text:    "Text",
	Comment: "Comment",
	At:      "At",
	Ident:   "Ident",
	Key:     "Key",
	Braced:  "Braced",
	Quoted:  "Quoted",
	LBrace:  "LBrace",
	RBrace:  "RBrace",
	LParen:  "LParen",
	RParen:  "RParen",
	Comma:   "Comma",
	Assign:  "Assign",
	Hash:    "Hash",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "Kind(?)"
}
