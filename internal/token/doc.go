// Package token defines the token model consumed by the parser.
// Invariants:
//   - Token.Text is exactly the source text of a leaf token.
//   - Punct tokens are one character; Joint marks a punct immediately
//     followed by another punct (so `==` is two Joint-linked tokens).
//   - Group tokens own their Inner tokens; Span covers opener to closer.
//   - Comments and whitespace live in Leading trivia, never in the stream.
package token
