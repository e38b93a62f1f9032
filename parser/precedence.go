package parser

import "github.com/cloudcmds/minijoe/internal/token"

// Binary operator sets, one per precedence level from loosest to tightest.
// Each level is parsed by its own method and builds a left-associative chain.
var (
	equalityOps = map[token.Type]bool{
		token.EQ:        true,
		token.NOT_EQ:    true,
		token.EQ_STRICT: true,
		token.NE_STRICT: true,
	}
	relationalOps = map[token.Type]bool{
		token.LT:         true,
		token.GT:         true,
		token.LT_EQUALS:  true,
		token.GT_EQUALS:  true,
		token.INSTANCEOF: true,
		token.IN:         true,
	}
	shiftOps = map[token.Type]bool{
		token.LT_LT:    true,
		token.GT_GT:    true,
		token.GT_GT_GT: true,
	}
	additiveOps = map[token.Type]bool{
		token.PLUS:  true,
		token.MINUS: true,
	}
	multiplicativeOps = map[token.Type]bool{
		token.ASTERISK: true,
		token.SLASH:    true,
		token.MOD:      true,
	}
)

// compoundAssignOps maps each compound assignment token to its binary
// operator.
var compoundAssignOps = map[token.Type]string{
	token.PLUS_EQUALS:      "+",
	token.MINUS_EQUALS:     "-",
	token.ASTERISK_EQUALS:  "*",
	token.SLASH_EQUALS:     "/",
	token.MOD_EQUALS:       "%",
	token.LT_LT_EQUALS:     "<<",
	token.GT_GT_EQUALS:     ">>",
	token.GT_GT_GT_EQUALS:  ">>>",
	token.AMPERSAND_EQUALS: "&",
	token.PIPE_EQUALS:      "|",
	token.CARET_EQUALS:     "^",
}

// unaryOps are the prefix operators other than "++" and "--".
var unaryOps = map[token.Type]bool{
	token.BANG:   true,
	token.TILDE:  true,
	token.MINUS:  true,
	token.PLUS:   true,
	token.TYPEOF: true,
	token.VOID:   true,
	token.DELETE: true,
}
