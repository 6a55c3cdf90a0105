package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/strandhq/formula/pkg/types"
)

// Parser implements a recursive descent parser for formulas.
// Operator precedence is handled with Pratt's "Top Down Operator
// Precedence" (precedence climbing) algorithm.
type Parser struct {
	lexer   *Lexer
	current Token
	prev    Token
}

// NewParser creates a new parser for the given input string.
func NewParser(input string) *Parser {
	p := &Parser{
		lexer: NewLexer(input),
	}

	// Read the first token
	p.advance()

	return p
}

// Parse parses the entire formula and returns the ParsedFormula.
func (p *Parser) Parse() (*types.ParsedFormula, error) {
	if p.current.Type == TokenEOF {
		return nil, p.error("Empty formula")
	}

	node, err := p.parseExpression(0)
	if err != nil {
		return nil, err
	}

	if p.current.Type != TokenEOF {
		return nil, p.error(fmt.Sprintf("Unexpected token after expression: %q", p.current.Value))
	}

	deps, mentions := collectReferences(node)
	return types.NewParsedFormula(node, p.lexer.input, deps, mentions), nil
}

// Operator precedence table (binding power).
// Higher values bind more tightly. Comparison operators share one tier
// and are left-associative, as are the additive and multiplicative tiers.
var precedence = map[TokenType]int{
	TokenEqual:        10, // = ==
	TokenNotEqual:     10, // != <>
	TokenLess:         10, // <
	TokenLessEqual:    10, // <=
	TokenGreater:      10, // >
	TokenGreaterEqual: 10, // >=
	TokenPlus:         20, // +
	TokenMinus:        20, // -
	TokenMult:         30, // *
	TokenDiv:          30, // /
	TokenMod:          30, // %
	TokenDot:          80, // . (member access)
	TokenParenOpen:    80, // ( (call)
}

// unaryPrecedence is the binding power of prefix minus: tighter than
// the multiplicative tier, looser than postfix member access and calls.
const unaryPrecedence = 40

// getPrecedence returns the precedence of a token type.
func (p *Parser) getPrecedence(tt TokenType) int {
	if prec, ok := precedence[tt]; ok {
		return prec
	}
	return 0
}

// advance moves to the next token.
func (p *Parser) advance() {
	p.prev = p.current
	p.current = p.lexer.Next()
}

// expect checks that the current token matches the expected type and advances.
func (p *Parser) expect(tt TokenType, message string) error {
	if p.current.Type != tt {
		return p.error(message)
	}
	p.advance()
	return nil
}

// error creates a parse error at the current token.
func (p *Parser) error(message string) error {
	return types.NewError(types.ErrParse, message, p.current.Position).WithToken(p.current.Value)
}

// parseExpression parses an expression with operator precedence.
// rbp is the right binding power (minimum precedence).
func (p *Parser) parseExpression(rbp int) (*types.Node, error) {
	// Parse prefix expression (nud - null denotation)
	left, err := p.parsePrefix()
	if err != nil {
		return nil, err
	}

	// Parse infix expressions while precedence allows (led - left denotation)
	for rbp < p.getPrecedence(p.current.Type) {
		left, err = p.parseInfix(left)
		if err != nil {
			return nil, err
		}
	}

	return left, nil
}

// parsePrefix parses a prefix expression (nud - null denotation).
// These are expressions that don't require a left-hand side.
func (p *Parser) parsePrefix() (*types.Node, error) {
	token := p.current

	switch token.Type {
	case TokenNumber:
		return p.parseNumber()
	case TokenString:
		return p.parseString()
	case TokenIdent:
		return p.parseIdentifier()
	case TokenMention:
		return p.parseMention()
	case TokenMinus:
		return p.parseUnaryMinus()
	case TokenParenOpen:
		return p.parseGrouping()
	default:
		return nil, p.error(fmt.Sprintf("Unexpected token: %q", token.Value))
	}
}

// parseInfix parses an infix or postfix expression (led - left denotation).
// These are expressions that require a left-hand side.
func (p *Parser) parseInfix(left *types.Node) (*types.Node, error) {
	token := p.current

	switch token.Type {
	case TokenDot:
		return p.parseMember(left)
	case TokenParenOpen:
		return p.parseCall(left)
	case TokenPlus, TokenMinus, TokenMult, TokenDiv, TokenMod,
		TokenEqual, TokenNotEqual, TokenLess, TokenLessEqual,
		TokenGreater, TokenGreaterEqual:
		return p.parseBinaryOp(left)
	default:
		return nil, p.error(fmt.Sprintf("Unexpected infix token: %q", token.Value))
	}
}

// parseNumber parses a numeric literal.
func (p *Parser) parseNumber() (*types.Node, error) {
	num, err := strconv.ParseFloat(p.current.Value, 64)
	if err != nil {
		return nil, p.error(fmt.Sprintf("Invalid number literal: %q", p.current.Value))
	}

	node := types.NewNode(types.NodeNumber, p.current.Position)
	node.Value = p.current.Value
	node.NumValue = num
	p.advance()
	return node, nil
}

// parseString parses a string literal, resolving backslash escapes.
func (p *Parser) parseString() (*types.Node, error) {
	node := types.NewNode(types.NodeString, p.current.Position)
	node.Value = unescape(p.current.Value)
	p.advance()
	return node, nil
}

// unescape resolves backslash escape sequences in a raw string literal.
// A backslash quotes the following character; \n and \t produce their
// usual control characters.
func unescape(raw string) string {
	if !strings.ContainsRune(raw, '\\') {
		return raw
	}

	var b strings.Builder
	b.Grow(len(raw))
	escaped := false
	for _, r := range raw {
		if escaped {
			switch r {
			case 'n':
				b.WriteRune('\n')
			case 't':
				b.WriteRune('\t')
			default:
				b.WriteRune(r)
			}
			escaped = false
			continue
		}
		if r == '\\' {
			escaped = true
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// parseIdentifier parses a bare identifier (an unresolved field reference).
func (p *Parser) parseIdentifier() (*types.Node, error) {
	node := types.NewNode(types.NodeIdentifier, p.current.Position)
	node.Value = p.current.Value
	p.advance()
	return node, nil
}

// parseMention parses a mention reference. The node value is the entity
// name without the "@" sigil.
func (p *Parser) parseMention() (*types.Node, error) {
	node := types.NewNode(types.NodeMention, p.current.Position)
	node.Value = strings.TrimPrefix(p.current.Value, "@")
	p.advance()
	return node, nil
}

// parseUnaryMinus parses numeric negation.
func (p *Parser) parseUnaryMinus() (*types.Node, error) {
	node := types.NewNode(types.NodeUnary, p.current.Position)
	node.Value = p.current.Value
	p.advance()

	operand, err := p.parseExpression(unaryPrecedence)
	if err != nil {
		return nil, err
	}

	node.RHS = operand
	return node, nil
}

// parseGrouping parses a parenthesized expression.
func (p *Parser) parseGrouping() (*types.Node, error) {
	p.advance() // consume '('

	node, err := p.parseExpression(0)
	if err != nil {
		return nil, err
	}

	if err := p.expect(TokenParenClose, "Unmatched parenthesis"); err != nil {
		return nil, err
	}

	return node, nil
}

// parseMember parses a dotted property access on a primary expression.
// Chains (a.b.c) build up left-nested member nodes.
func (p *Parser) parseMember(left *types.Node) (*types.Node, error) {
	node := types.NewNode(types.NodeMember, p.current.Position)
	p.advance() // consume '.'

	if p.current.Type != TokenIdent {
		return nil, p.error("Expected property name after '.'")
	}

	node.LHS = left
	node.Value = p.current.Value
	p.advance()
	return node, nil
}

// parseCall parses a function call. Only an identifier immediately
// followed by "(" is a call; the identifier becomes the function name
// instead of a field reference.
func (p *Parser) parseCall(left *types.Node) (*types.Node, error) {
	if left.Kind != types.NodeIdentifier {
		return nil, p.error("Only a function name can be called")
	}

	node := types.NewNode(types.NodeCall, left.Position)
	node.Value = left.Value
	p.advance() // consume '('

	// Empty argument lists are valid, e.g. Now()
	if p.current.Type == TokenParenClose {
		p.advance()
		return node, nil
	}

	for {
		arg, err := p.parseExpression(0)
		if err != nil {
			return nil, err
		}
		node.Arguments = append(node.Arguments, arg)

		if p.current.Type != TokenComma {
			break
		}
		p.advance() // consume ','
	}

	if err := p.expect(TokenParenClose, "Unmatched parenthesis in argument list"); err != nil {
		return nil, err
	}

	return node, nil
}

// parseBinaryOp parses a left-associative binary operator.
func (p *Parser) parseBinaryOp(left *types.Node) (*types.Node, error) {
	token := p.current
	node := types.NewNode(types.NodeBinary, token.Position)
	node.Value = token.Value
	p.advance()

	// Left associativity: the right operand binds at this operator's
	// own precedence, so equal-precedence operators group leftward.
	right, err := p.parseExpression(p.getPrecedence(token.Type))
	if err != nil {
		return nil, err
	}

	node.LHS = left
	node.RHS = right
	return node, nil
}
