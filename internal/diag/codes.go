package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Лексические
	LexInfo                     Code = 1000
	LexUnknownChar              Code = 1001
	LexUnterminatedString       Code = 1002
	LexUnterminatedBlockComment Code = 1003
	LexBadNumber                Code = 1004
	LexTokenTooLong             Code = 1005
	LexUnterminatedChar         Code = 1006
	LexUnclosedDelimiter        Code = 1007
	LexUnexpectedCloser         Code = 1008

	// Имена тестов
	NamInfo            Code = 2000
	NamExpectedName    Code = 2001
	NamBadLiteral      Code = 2002
	NamAssertionAsName Code = 2003
	NamMiscasedAsName  Code = 2004
	NamSemicolonAsName Code = 2005
	NamEmptyName       Code = 2006
	NamUnusableName    Code = 2007
	NamDuplicateName   Code = 2008

	// Грамматика
	GrmInfo               Code = 3000
	GrmMissingAssertion   Code = 3001
	GrmUnknownModifier    Code = 3002
	GrmMiscasedModifier   Code = 3003
	GrmTruncatedModifier  Code = 3004
	GrmNestedTestInAssert Code = 3005

	// Оборванные конструкции
	TrnInfo       Code = 4000
	TrnEndOfGroup Code = 4001
	TrnEndOfInput Code = 4002

	// Семантика утверждений
	SemInfo              Code = 5000
	SemEmptyLeftOperand  Code = 5001
	SemEmptyRightOperand Code = 5002

	// Ввод-вывод и проект
	IOInfo          Code = 6000
	IOLoadFileError Code = 6001
	IOWriteError    Code = 6002
	IOCacheError    Code = 6003
	IOBadManifest   Code = 6004

	ObsInfo     Code = 7000
	ObsTimings  Code = 7001
	ObsCacheHit Code = 7002
)

var (
	codeDescription = map[Code]string{
		UnknownCode:                 "Unknown error",
		LexInfo:                     "Lexical information",
		LexUnknownChar:              "Unknown character",
		LexUnterminatedString:       "Unterminated string literal",
		LexUnterminatedBlockComment: "Unterminated block comment",
		LexBadNumber:                "Bad number literal",
		LexTokenTooLong:             "Token too long",
		LexUnterminatedChar:         "Unterminated character literal",
		LexUnclosedDelimiter:        "Unclosed delimiter",
		LexUnexpectedCloser:         "Unexpected closing delimiter",
		NamInfo:                     "Naming information",
		NamExpectedName:             "Expected a test name",
		NamBadLiteral:               "Malformed test name literal",
		NamAssertionAsName:          "Assertion used where a test name was expected",
		NamMiscasedAsName:           "Badly cased assertion used where a test name was expected",
		NamSemicolonAsName:          "Semicolon used where a test name was expected",
		NamEmptyName:                "Empty test name",
		NamUnusableName:             "Test name has no identifier characters",
		NamDuplicateName:            "Duplicate test function name",
		GrmInfo:                     "Grammar information",
		GrmMissingAssertion:         "Missing assertion or test body",
		GrmUnknownModifier:          "Unknown assertion type",
		GrmMiscasedModifier:         "Assertion type is not lowercase",
		GrmTruncatedModifier:        "Missing assertion type",
		GrmNestedTestInAssert:       "Test definition nested inside an assertion",
		TrnInfo:                     "Structure information",
		TrnEndOfGroup:               "Construct cut off by end of group",
		TrnEndOfInput:               "Construct cut off by end of input",
		SemInfo:                     "Assertion information",
		SemEmptyLeftOperand:         "Empty left operand",
		SemEmptyRightOperand:        "Empty right operand",
		IOInfo:                      "I/O information",
		IOLoadFileError:             "I/O load file error",
		IOWriteError:                "I/O write error",
		IOCacheError:                "Cache error",
		IOBadManifest:               "Invalid spoke.toml",
		ObsInfo:                     "Observability information",
		ObsTimings:                  "Pipeline timings",
		ObsCacheHit:                 "Cached output reused",
	}
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("NAM%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("GRM%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("TRN%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("SEM%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 7000 && ic < 8000:
		return fmt.Sprintf("OBS%04d", ic)
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
