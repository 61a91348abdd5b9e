// Package jsonish decodes JSON that was pasted out of JavaScript source:
// values wrapped in a variable declaration, followed by a semicolon and
// annotated with line or block comments.
//
//	// brands we stock
//	const catalog = {
//	  "Nike": ["Red", "Black"], /* core range */
//	};
//
// Comments and trailing commas are handled by HuJSON standardization.
package jsonish

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"

	"github.com/tailscale/hujson"
)

var (
	// declaration matches leading comments and a const/let/var declaration
	// up to its "=". The comments are kept in $1.
	declaration = regexp.MustCompile(`^((?:\s+|//[^\n]*|/\*[\s\S]*?\*/)*)(?:export\s+)?(?:const|let|var)\s+[\w$]+\s*=`)

	// terminator matches the final semicolon and any comments after it.
	terminator = regexp.MustCompile(`;(?:\s+|//[^\n]*|/\*[\s\S]*?\*/)*$`)
)

// Decode unmarshals data into v. Plain JSON is tried first; when it does
// not parse, the JavaScript wrapping is stripped and decoding is retried.
func Decode(data []byte, v any) error {
	err := json.Unmarshal(data, v)
	if err == nil {
		return nil
	}
	var syntaxErr *json.SyntaxError
	if !errors.As(err, &syntaxErr) {
		return err
	}

	std, err := Strip(data)
	if err != nil {
		return fmt.Errorf("invalid JavaScript JSON format: %w", err)
	}
	if err := json.Unmarshal(std, v); err != nil {
		return fmt.Errorf("invalid JavaScript JSON format: %w", err)
	}
	return nil
}

// Strip removes a leading const/let/var declaration and a trailing
// semicolon, then standardizes the rest to plain JSON, dropping comments
// and trailing commas.
func Strip(src []byte) ([]byte, error) {
	out := declaration.ReplaceAll(src, []byte("$1"))
	out = terminator.ReplaceAll(out, nil)
	std, err := hujson.Standardize(out)
	if err != nil {
		return nil, err
	}
	return bytes.TrimSpace(std), nil
}
