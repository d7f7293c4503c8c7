package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Разбор: запись не распознана и сохранена как RawSpan
	ParseInfo              Code = 1000
	ParseMissingType       Code = 1001
	ParseMissingOpen       Code = 1002
	ParseUnterminatedEntry Code = 1003
	ParseUnterminatedValue Code = 1004
	ParseExpectFieldName   Code = 1005
	ParseExpectEquals      Code = 1006
	ParseExpectValue       Code = 1007
	ParseExpectSeparator   Code = 1008
	ParseDuplicateField    Code = 1009
	ParseBadKey            Code = 1010
	ParseUnterminatedBlock Code = 1011

	// Форматирование
	FmtInfo              Code = 2000
	FmtDelimiterConflict Code = 2001
	FmtRoundTripFailed   Code = 2002

	// Порядок и дубликаты
	OrdInfo         Code = 3000
	OrdDuplicateKey Code = 3001
	OrdCommentedOut Code = 3002

	// Конфигурация
	CfgInfo          Code = 4000
	CfgInvalid       Code = 4001
	CfgUnknownOption Code = 4002

	// Ошибки I/O
	IOLoadFileError  Code = 5001
	IOWriteFileError Code = 5002
)

var codeDescription = map[Code]string{
	UnknownCode:            "Unknown error",
	ParseInfo:              "Parse information",
	ParseMissingType:       "Missing entry type after '@'",
	ParseMissingOpen:       "Missing '{' or '(' after entry type",
	ParseUnterminatedEntry: "Unterminated entry",
	ParseUnterminatedValue: "Unterminated field value",
	ParseExpectFieldName:   "Expected field name",
	ParseExpectEquals:      "Expected '=' after field name",
	ParseExpectValue:       "Expected field value",
	ParseExpectSeparator:   "Expected ',' or closing delimiter",
	ParseDuplicateField:    "Duplicate field in entry",
	ParseBadKey:            "Malformed citation key",
	ParseUnterminatedBlock: "Unterminated @comment/@preamble/@string block",
	FmtInfo:                "Formatting information",
	FmtDelimiterConflict:   "Value kept its original delimiter",
	FmtRoundTripFailed:     "Formatted output failed the round-trip check",
	OrdInfo:                "Ordering information",
	OrdDuplicateKey:        "Duplicate citation key",
	OrdCommentedOut:        "Duplicate entry commented out",
	CfgInfo:                "Configuration information",
	CfgInvalid:             "Invalid configuration",
	CfgUnknownOption:       "Unknown configuration value",
	IOLoadFileError:        "Cannot read file",
	IOWriteFileError:       "Cannot write file",
}

// ID returns the stable short identifier, e.g. BIB1003.
func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 4000:
		return fmt.Sprintf("BIB%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("CFG%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("IO%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
