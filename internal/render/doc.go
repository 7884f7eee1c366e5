// Package render prints an assembled suite as host-language source.
//
// Назначение: диагностики как compile_error!/комментарии, затем модуль с
// поднятой преамбулой и одной функцией на тест.
// Не делает: разбора, IO.
// Зависимости: internal/suite, internal/token, internal/diag.
package render
