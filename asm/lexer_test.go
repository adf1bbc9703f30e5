package asm

import "testing"

func TestLexClassifiesEachTokenKind(t *testing.T) {
	tokens, err := Lex("loop: add R1,R2,R3 ; comment", 1)
	if err != nil {
		t.Fatal(err)
	}
	want := []TokenKind{TokLabel, TokInstruction, TokRegister, TokComma, TokRegister, TokComma, TokRegister}
	if len(tokens) != len(want) {
		t.Fatalf("got %d tokens, want %d: %+v", len(tokens), len(want), tokens)
	}
	for i, k := range want {
		if tokens[i].Kind != k {
			t.Errorf("token %d kind = %v, want %v", i, tokens[i].Kind, k)
		}
	}
	if tokens[0].Lexeme != "loop" {
		t.Errorf("label lexeme = %q, want %q (colon stripped)", tokens[0].Lexeme, "loop")
	}
}

func TestLexBracketSyntaxWithAndWithoutComma(t *testing.T) {
	cases := []struct {
		src  string
		want []TokenKind
	}{
		{"ld [R1,R2] R3", []TokenKind{TokInstruction, TokLBracket, TokRegister, TokComma, TokRegister, TokRBracket, TokRegister}},
		{"ld [R1 R2] R3", []TokenKind{TokInstruction, TokLBracket, TokRegister, TokRegister, TokRBracket, TokRegister}},
	}
	for _, c := range cases {
		src, want := c.src, c.want
		tokens, err := Lex(src, 1)
		if err != nil {
			t.Fatal(err)
		}
		if len(tokens) != len(want) {
			t.Fatalf("%q: got %d tokens, want %d: %+v", src, len(tokens), len(want), tokens)
		}
	}
}

func TestLexTruncatesExcessTokens(t *testing.T) {
	src := ""
	for i := 0; i < 40; i++ {
		src += "R1 "
	}
	tokens, err := Lex(src, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(tokens) != maxTokensPerLine {
		t.Errorf("got %d tokens, want truncation at %d", len(tokens), maxTokensPerLine)
	}
}

func TestLexRejectsOverlongLine(t *testing.T) {
	src := make([]byte, maxLineLength+1)
	for i := range src {
		src[i] = 'a'
	}
	_, err := Lex(string(src), 1)
	if err == nil {
		t.Fatal("expected LineTooLong error")
	}
}

func TestLexImmediateForms(t *testing.T) {
	cases := map[string]bool{
		"0x1A":  true,
		"-5":    true,
		"1234":  true,
		"R5":    false,
		"foo":   false,
		"ready": false,
	}
	for lexeme, want := range cases {
		got := isImmediateLexeme(lexeme)
		if got != want {
			t.Errorf("isImmediateLexeme(%q) = %v, want %v", lexeme, got, want)
		}
	}
}
