// Package bibstrip removes fields from BibTeX entries and writes the entries
// back, optionally sorted by citation key.
//
// The parser is line based and tracks brace depth only; it does not
// validate the grammar below. A field value ends on the line where its
// braces balance, so a value with unbalanced braces swallows the lines that
// follow it.
package bibstrip

// BNF of the accepted subset
// Database     ::= (Junk '@' Entry)*
// Entry        ::= Record
//               |  Comment                              -- skipped
//               |  String                               -- skipped
//               |  Preamble                             -- skipped
// Record       ::= Type '{' Key ',' \n Field* '}'
// Type         ::= Name
// Key          ::= Name
// Field        ::= Name '=' Value ','? \n
// Name         ::= [^\s=]*                              -- multi-word names dropped
// Value        ::= .*                                   -- may span lines while '{' is open
