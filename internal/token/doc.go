// Package token defines lexical token kinds for .bib files.
// Invariants:
//   - Token.Text is a slice of the original source (no copies).
//   - Token.Span matches Text exactly.
//   - Top-level scanning yields only Text, Comment, At and EOF; everything
//     else appears between an entry's opening and closing delimiters.
//   - Braced and Quoted tokens include their outer delimiters.
package token
