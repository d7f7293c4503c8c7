// Package format renders a bib.Database back to text under a StyleSpec.
//
// Назначение: сериализация записей (отступ, разделители значений, регистр
// типа, завершающая запятая, выравнивание '='). Узлы, не являющиеся
// записями, и нетронутые записи при тождественном стиле копируются дословно.
// Не делает: разбора, сортировки и IO.
// Зависимости: internal/bib, internal/diag, golang.org/x/text/cases.
package format
