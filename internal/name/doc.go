// Package name turns free-form test titles into unique, valid function names.
//
// Every Name is minted by a Factory. Factories form a tree: Name.MakeFactory
// returns a child factory titled by that name, so a name minted deep inside
// nested bodies knows its whole ancestor chain. FunctionName joins the
// sanitized title of every ancestor; FullName joins the raw titles for
// humans.
//
// Sanitization keeps identifier characters, turns whitespace runs into a
// single underscore and spells out punctuation (`==` becomes
// `equals_equals`, `[]` becomes `brackets`). Segments longer than
// MaxSegment runes are cut and suffixed with the name's index among its
// siblings, so truncated siblings still differ.
package name
