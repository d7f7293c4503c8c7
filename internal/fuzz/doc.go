// Package fuzztests houses Go fuzz harnesses for the .bib pipeline
// (source -> lexer -> parser -> engine). They guard against panics, hangs
// and broken structural invariants on arbitrary input.
//
// Назначение: загружать байты в FileSet и прогонять их через лексер, парсер
// и операции движка.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.
package fuzztests
