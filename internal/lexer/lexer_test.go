package lexer_test

import (
	"fmt"
	"strings"
	"testing"

	"bibfmt/internal/lexer"
	"bibfmt/internal/source"
	"bibfmt/internal/token"
)

// makeTestLexer создаёт лексер для тестовой строки
func makeTestLexer(input string) *lexer.Lexer {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.bib", []byte(input))
	return lexer.New(fs.Get(fileID))
}

// collectTop собирает токены верхнего уровня до EOF, пропуская тела записей
// через RestOfLine, чтобы не зациклиться на '@'.
func collectTop(lx *lexer.Lexer) []token.Token {
	tokens := make([]token.Token, 0)
	for {
		tok := lx.NextTop()
		tokens = append(tokens, tok)
		if tok.Kind == token.EOF {
			return tokens
		}
		if tok.Kind == token.At {
			tokens = append(tokens, lx.RestOfLine())
		}
	}
}

// collectEntry собирает структурные токены до EOF
func collectEntry(lx *lexer.Lexer) []token.Token {
	tokens := make([]token.Token, 0)
	for {
		tok := lx.Next()
		if tok.Kind == token.EOF {
			return tokens
		}
		tokens = append(tokens, tok)
	}
}

func tokensToString(tokens []token.Token) string {
	parts := make([]string, len(tokens))
	for i, tok := range tokens {
		parts[i] = fmt.Sprintf("%v(%q)", tok.Kind, tok.Text)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func TestTopLevelTokens(t *testing.T) {
	input := "junk line\n% one\n  % two\n@book{x}\ntail"
	got := tokensToString(collectTop(makeTestLexer(input)))
	want := `[Text("junk line\n"), Comment("% one\n  % two\n"), At("@"), Text("book{x}"), Text("\ntail"), EOF("")]`
	if got != want {
		t.Fatalf("tokens:\n got %s\nwant %s", got, want)
	}
}

func TestPercentMidLineIsText(t *testing.T) {
	lx := makeTestLexer("a % not a comment\n")
	tok := lx.NextTop()
	if tok.Kind != token.Text || tok.Text != "a % not a comment\n" {
		t.Fatalf("got %v(%q)", tok.Kind, tok.Text)
	}
}

func TestEntryStructuralTokens(t *testing.T) {
	lx := makeTestLexer(" article { , = # ) ( } ;")
	tokens := collectEntry(lx)
	want := []token.Kind{
		token.Ident, token.LBrace, token.Comma, token.Assign, token.Hash,
		token.RParen, token.LParen, token.RBrace, token.Ident,
	}
	if len(tokens) != len(want) {
		t.Fatalf("got %s", tokensToString(tokens))
	}
	for i, k := range want {
		if tokens[i].Kind != k {
			t.Errorf("token %d: got %v, want %v", i, tokens[i].Kind, k)
		}
	}
}

func TestPeekDoesNotConsume(t *testing.T) {
	lx := makeTestLexer("title = x")
	if p := lx.Peek(); p.Kind != token.Ident || p.Text != "title" {
		t.Fatalf("Peek = %v(%q)", p.Kind, p.Text)
	}
	if n := lx.Next(); n.Text != "title" {
		t.Fatalf("Next after Peek = %q", n.Text)
	}
	if n := lx.Next(); n.Kind != token.Assign {
		t.Fatalf("expected Assign, got %v", n.Kind)
	}
}

func TestNextValue(t *testing.T) {
	tests := []struct {
		input string
		kind  token.Kind
		text  string
	}{
		{"{plain}", token.Braced, "{plain}"},
		{"  {a {nested} b}, next", token.Braced, "{a {nested} b}"},
		{"{x = y, z}", token.Braced, "{x = y, z}"},
		{`"quoted"`, token.Quoted, `"quoted"`},
		{`"with {"} brace"`, token.Quoted, `"with {"} brace"`},
		{`"esc \" quote" tail`, token.Quoted, `"esc \" quote"`},
		{`"a, b = c"`, token.Quoted, `"a, b = c"`},
		{`"stray } brace"`, token.Quoted, `"stray } brace"`},
		{"2003,", token.Ident, "2003"},
		{"jan # ", token.Ident, "jan"},
		{"{open", token.Invalid, "{open"},
		{`"open`, token.Invalid, `"open`},
		{"}", token.RBrace, "}"},
	}
	for _, tt := range tests {
		tok := makeTestLexer(tt.input).NextValue()
		if tok.Kind != tt.kind || tok.Text != tt.text {
			t.Errorf("NextValue(%q) = %v(%q), want %v(%q)", tt.input, tok.Kind, tok.Text, tt.kind, tt.text)
		}
	}
}

func TestNextValueAfterPeek(t *testing.T) {
	lx := makeTestLexer(" {v}")
	if p := lx.Peek(); p.Kind != token.LBrace {
		t.Fatalf("Peek = %v", p.Kind)
	}
	if v := lx.NextValue(); v.Kind != token.Braced || v.Text != "{v}" {
		t.Fatalf("NextValue = %v(%q)", v.Kind, v.Text)
	}
}

func TestScanKey(t *testing.T) {
	tests := []struct {
		input  string
		closer byte
		text   string
	}{
		{" lamport1994latex,", '}', "lamport1994latex"},
		{"a:b/c-d}", '}', "a:b/c-d"},
		{"key)", ')', "key"},
		{"f(x),", '}', "f(x)"},
		{",", '}', ""},
	}
	for _, tt := range tests {
		tok := makeTestLexer(tt.input).ScanKey(tt.closer)
		if tok.Kind != token.Key || tok.Text != tt.text {
			t.Errorf("ScanKey(%q) = %v(%q), want Key(%q)", tt.input, tok.Kind, tok.Text, tt.text)
		}
	}
}

func TestScanBlock(t *testing.T) {
	tests := []struct {
		input string
		kind  token.Kind
		text  string
	}{
		{"{ anything } tail", token.Braced, "{ anything }"},
		{`("a" # "(b")`, token.Braced, `("a" # "(b")`},
		{"( {)} )", token.Braced, "( {)} )"},
		{"(open", token.Invalid, "(open"},
		{"no opener", token.Invalid, ""},
	}
	for _, tt := range tests {
		tok := makeTestLexer(tt.input).ScanBlock()
		if tok.Kind != tt.kind || tok.Text != tt.text {
			t.Errorf("ScanBlock(%q) = %v(%q), want %v(%q)", tt.input, tok.Kind, tok.Text, tt.kind, tt.text)
		}
	}
}

func TestSkipToNextRecord(t *testing.T) {
	input := "@broken{ x = {\nmore @inline\n  @book{ok}"
	lx := makeTestLexer(input)
	lx.Reset(1)
	lx.SkipToNextRecord()
	off := lx.Offset()
	if want := uint32(strings.Index(input, "  @book")); off != want {
		t.Fatalf("offset = %d, want %d", off, want)
	}

	lx = makeTestLexer("@broken{ never closed")
	lx.Reset(1)
	lx.SkipToNextRecord()
	if lx.NextTop().Kind != token.EOF {
		t.Fatal("expected EOF after skipping to end")
	}
}
