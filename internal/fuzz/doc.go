// Package fuzztests houses Go fuzz harnesses for the template front end
// (source -> markup -> irgen -> passes). They guard against panics, hangs
// and broken tree invariants on arbitrary input.
//
// Назначение: загрузить байты в FileSet и прогнать их через парсер разметки,
// сканер выражений и генератор IR.
//
// Зависимости: internal/source, internal/markup, internal/expr,
// internal/driver, internal/testkit.
package fuzztests
