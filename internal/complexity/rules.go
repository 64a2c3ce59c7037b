package complexity

import (
	"path/filepath"
	"regexp"
	"strings"
)

// bucket identifies which per-language rule table applies to a file.
type bucket int

const (
	bucketOther bucket = iota
	bucketJS
	bucketPython
	bucketJava
)

func bucketFor(path string) bucket {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".js", ".jsx", ".ts", ".tsx", ".mjs", ".cjs":
		return bucketJS
	case ".py":
		return bucketPython
	case ".java":
		return bucketJava
	default:
		return bucketOther
	}
}

// rules holds the pattern sets for one language bucket. The complexity
// score is a raw count of keyword token occurrences, not a control-flow
// cyclomatic number; downstream severity thresholds were tuned against this
// cruder metric, so the tables must not be "improved".
type rules struct {
	functions []*regexp.Regexp
	classes   []*regexp.Regexp
	keywords  []*regexp.Regexp // word-boundary keyword tokens
	operators []string         // literal substrings counted verbatim
}

var jsRules = rules{
	functions: []*regexp.Regexp{
		// Named function declarations.
		regexp.MustCompile(`\bfunction\s+\w+\s*\(`),
		// const/let/var assignments of arrow or function expressions.
		regexp.MustCompile(`\b(?:const|let|var)\s+\w+\s*=\s*(?:async\s+)?(?:function\b|\([^)]*\)\s*=>|\w+\s*=>)`),
		// Object-method shorthand.
		regexp.MustCompile(`(?m)^\s*(?:async\s+)?\w+\s*\([^)]*\)\s*\{`),
	},
	classes: []*regexp.Regexp{
		regexp.MustCompile(`\bclass\s+\w+`),
		regexp.MustCompile(`\binterface\s+\w+`),
	},
	keywords:  wordPatterns("if", "else", "for", "while", "switch", "case", "catch"),
	operators: []string{"?", "&&", "||"},
}

var pythonRules = rules{
	functions: []*regexp.Regexp{
		regexp.MustCompile(`(?m)^\s*def\s+\w+`),
	},
	classes: []*regexp.Regexp{
		regexp.MustCompile(`(?m)^\s*class\s+\w+`),
	},
	keywords: wordPatterns("if", "elif", "else", "for", "while", "except", "and", "or"),
}

var javaRules = rules{
	functions: []*regexp.Regexp{
		// Visibility-modified method signatures.
		regexp.MustCompile(`\b(?:public|private|protected)\s+(?:static\s+)?[\w<>\[\],\s]+\s+\w+\s*\(`),
	},
	classes: []*regexp.Regexp{
		regexp.MustCompile(`\bclass\s+\w+`),
		regexp.MustCompile(`\binterface\s+\w+`),
	},
	keywords:  wordPatterns("if", "else", "for", "while", "switch", "case", "catch"),
	operators: []string{"?", "&&", "||"},
}

func rulesFor(b bucket) *rules {
	switch b {
	case bucketJS:
		return &jsRules
	case bucketPython:
		return &pythonRules
	case bucketJava:
		return &javaRules
	default:
		return nil
	}
}

func wordPatterns(words ...string) []*regexp.Regexp {
	patterns := make([]*regexp.Regexp, 0, len(words))
	for _, w := range words {
		patterns = append(patterns, regexp.MustCompile(`\b`+regexp.QuoteMeta(w)+`\b`))
	}
	return patterns
}
