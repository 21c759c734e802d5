// Package shaderlang expands #include directives in GLSL sources.
package shaderlang

import (
	"bytes"
	"path"
	"strings"

	"github.com/pkg/errors"
	"github.com/timtadh/lexmachine"
	"github.com/timtadh/lexmachine/machines"

	"github.com/mogaika/sharpscene/assets"
)

const (
	TOKEN_INCLUDE = iota
	TOKEN_COMMENT
	TOKEN_HASH
	TOKEN_NEWLINE
	TOKEN_TEXT
)

// MaxIncludeDepth bounds nesting independently of cycle detection.
const MaxIncludeDepth = 32

var lexer *lexmachine.Lexer

func init() {
	lexer = lexmachine.NewLexer()
	lexer.Add([]byte(`#[ \t]*include[ \t]*"[^"\n]*"`), getToken(TOKEN_INCLUDE))
	lexer.Add([]byte(`//[^\n]*`), getToken(TOKEN_COMMENT))
	lexer.Add([]byte(`/\*([^*]|\r|\n|(\*+([^*/]|\r|\n)))*\*+/`), getToken(TOKEN_COMMENT))
	lexer.Add([]byte(`#`), getToken(TOKEN_HASH))
	lexer.Add([]byte(`\n`), getToken(TOKEN_NEWLINE))
	lexer.Add([]byte(`[^\n#/]+`), getToken(TOKEN_TEXT))
	lexer.Add([]byte(`/`), getToken(TOKEN_TEXT))
	if err := lexer.Compile(); err != nil {
		panic(err)
	}
}

func getToken(tokenType int) lexmachine.Action {
	return func(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
		return s.Token(tokenType, string(m.Bytes), m), nil
	}
}

// IncludeError reports the include chain that led to a failure.
type IncludeError struct {
	Chain []string
	Err   error
}

func (e *IncludeError) Error() string {
	return "include " + strings.Join(e.Chain, " -> ") + ": " + e.Err.Error()
}

func (e *IncludeError) Unwrap() error { return e.Err }

var ErrIncludeCycle = errors.New("include cycle")

// Preprocess reads name from src and recursively replaces every
// `#include "path"` with the referenced file. Paths are relative to the
// directory of the including file.
func Preprocess(name string, src assets.Source) (string, error) {
	var out bytes.Buffer
	if err := expand(&out, assets.Clean(name), src, nil); err != nil {
		return "", err
	}
	return out.String(), nil
}

// Expand runs the preprocessor over an in-memory source whose includes resolve
// relative to dir.
func Expand(text, dir string, src assets.Source) (string, error) {
	var out bytes.Buffer
	if err := expandText(&out, []byte(text), path.Join(dir, "<inline>"), src, nil); err != nil {
		return "", err
	}
	return out.String(), nil
}

func expand(out *bytes.Buffer, name string, src assets.Source, chain []string) error {
	for _, prev := range chain {
		if prev == name {
			return &IncludeError{Chain: append(chain, name), Err: ErrIncludeCycle}
		}
	}
	chain = append(chain, name)
	if len(chain) > MaxIncludeDepth {
		return &IncludeError{Chain: chain, Err: errors.Errorf("nesting deeper than %d", MaxIncludeDepth)}
	}

	text, err := src.ReadFile(name)
	if err != nil {
		return &IncludeError{Chain: chain, Err: err}
	}
	return expandText(out, text, name, src, chain)
}

func expandText(out *bytes.Buffer, text []byte, name string, src assets.Source, chain []string) error {
	scanner, err := lexer.Scanner(text)
	if err != nil {
		return errors.Wrapf(err, "Failed to create lexer scanner")
	}

	for itok, err, eos := scanner.Next(); !eos; itok, err, eos = scanner.Next() {
		if err != nil {
			return errors.Wrapf(err, "Failed to parse token in %q", name)
		}
		tok := itok.(*lexmachine.Token)

		switch tok.Type {
		case TOKEN_INCLUDE:
			lexeme := string(tok.Lexeme)
			target := lexeme[strings.IndexByte(lexeme, '"')+1 : len(lexeme)-1]
			if target == "" {
				return errors.Errorf("empty include on line %v of %q", tok.StartLine, name)
			}
			resolved := assets.Clean(path.Join(path.Dir(name), target))
			if err := expand(out, resolved, src, chain); err != nil {
				return err
			}
			if out.Len() != 0 && out.Bytes()[out.Len()-1] != '\n' {
				out.WriteByte('\n')
			}
		default:
			out.Write(tok.Lexeme)
		}
	}
	return nil
}
