// Package fuzztests houses Go fuzz harnesses for the spoke pipeline
// (source -> lexer -> token tree -> parser -> render). They guard against
// panics, hangs and broken span or naming invariants on arbitrary input.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.
package fuzztests
