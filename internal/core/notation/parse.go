// Package notation parses dice expressions and builds typed expression trees.
//
// Parsing happens in two pure steps. Parse turns text into syntax structs
// with participle; Build rewrites those structs into an Expression of
// dice.Spec values and arithmetic nodes. Neither step rolls anything.
package notation

import (
	"errors"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"

	apperrors "github.com/louisbranch/rollplayer/internal/errors"
)

// Syntax is a parsed request before building.
type Syntax struct {
	Groups []SyntaxGroup

	// lead is the whitespace trimmed before parsing; participle positions
	// are shifted by it to point into the original request.
	lead int
}

// SyntaxGroup pairs one group's source text with its parse tree.
type SyntaxGroup struct {
	Text string
	// Offset is the byte position of the group in the original request.
	Offset int
	Sum    *Sum
}

// Parse parses text into groups. Leading and trailing whitespace is ignored;
// inner whitespace separates groups, of which there may be at most MaxGroups.
func Parse(text string) (*Syntax, error) {
	trimmed := strings.TrimSpace(text)
	lead := len(text) - len(strings.TrimLeft(text, " \t\r\n"))

	root, err := parser.ParseString("", trimmed)
	if err != nil {
		return nil, syntaxError(err, lead)
	}
	if len(root.Groups) > MaxGroups {
		return nil, apperrors.WithMetadata(apperrors.CodeRollTooManyGroups, "too many dice groups", map[string]string{
			"Limit": strconv.Itoa(MaxGroups),
			"Count": strconv.Itoa(len(root.Groups)),
		})
	}

	fields := strings.Fields(trimmed)
	if len(fields) != len(root.Groups) {
		return nil, apperrors.New(apperrors.CodeRollInternal, "group count does not match whitespace fields")
	}

	syntax := &Syntax{Groups: make([]SyntaxGroup, len(root.Groups)), lead: lead}
	cursor := 0
	for i, sum := range root.Groups {
		at := strings.Index(trimmed[cursor:], fields[i]) + cursor
		cursor = at + len(fields[i])
		syntax.Groups[i] = SyntaxGroup{
			Text:   fields[i],
			Offset: lead + at,
			Sum:    sum,
		}
	}
	return syntax, nil
}

// ParseAndBuild parses and builds text in one call.
func ParseAndBuild(text string) (Expression, error) {
	syntax, err := Parse(text)
	if err != nil {
		return Expression{}, err
	}
	return Build(syntax)
}

func syntaxError(err error, lead int) error {
	var perr participle.Error
	if errors.As(err, &perr) {
		pos := perr.Position()
		return apperrors.WrapWithMetadata(apperrors.CodeRollSyntax, err.Error(), map[string]string{
			"Offset": strconv.Itoa(lead + pos.Offset),
			"Detail": perr.Message(),
		}, err)
	}
	return apperrors.WrapWithMetadata(apperrors.CodeRollSyntax, err.Error(), map[string]string{
		"Offset": strconv.Itoa(lead),
		"Detail": err.Error(),
	}, err)
}
