// Package sqlgen compiles analytics query requests into SQL.
//
// Five clause synthesizers (SELECT, WHERE, JOIN, GROUP BY, ORDER BY)
// each consume the request plus the schema catalog; the compiler
// concatenates them in fixed order and owns LIMIT. The synthesizers
// stay mutually consistent by construction: column qualification always
// goes through schema.SubjectSchema.Qualify, and SELECT and GROUP BY
// derive dimension expressions from the same helper, so the GROUP BY
// text is character-for-character equal to the SELECT text.
//
// Values are bound as ? parameters, never interpolated; the store
// rebinds placeholders for the active driver.
package sqlgen
