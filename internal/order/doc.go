// Package order builds the entry comparator used for sorting and applies it
// to a Database.
//
// Назначение: приоритет типов, ключи сортировки (поля, "key", "type",
// суффикс "-desc"), числовое сравнение, стабилизация по SourceOrder.
// Сортировка переставляет записи только между позициями, где стояли записи:
// комментарии, преамбулы, макросы и сырой текст остаются на месте.
package order
