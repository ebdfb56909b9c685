// Package postprocess strips the chatter LLM backends wrap around a
// translation so only the translated text remains.
package postprocess

import (
	"regexp"
	"strings"
)

type step func(string) string

var steps = []step{
	removeThinkingBlocks,
	removeInstructionEchoes,
	removeQuoteWrapping,
}

// Clean applies every cleanup step in order and returns the trimmed text.
func Clean(text string) string {
	for _, s := range steps {
		text = s(text)
	}
	return strings.TrimSpace(text)
}

// RE2 has no backreferences, so every tag pair is spelled out.
var thinkingBlockRe = regexp.MustCompile(
	`(?is)<thinking>.*?</thinking>|<think>.*?</think>|<reasoning>.*?</reasoning>`,
)

// An opened block without its closing tag means the model was cut off.
var truncatedThinkingRe = regexp.MustCompile(
	`(?is)(?:<thinking>|<think>|<reasoning>).*$`,
)

func removeThinkingBlocks(text string) string {
	text = thinkingBlockRe.ReplaceAllString(text, "")
	text = truncatedThinkingRe.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

// Anchored at the start and ending in a colon, so real content that merely
// mentions a translation is left alone. A courtesy word may precede it.
var echoRe = regexp.MustCompile(
	`(?i)^(?:(?:certainly|sure|of course)[,.!]?\s*)?` +
		`(?:here(?:'s| is)(?: the| your)? (?:translated )?(?:translation|text)|(?:the )?(?:translation|translated text))` +
		`(?: in [a-z]+)?\s*:`,
)

func removeInstructionEchoes(text string) string {
	loc := echoRe.FindStringIndex(text)
	if loc == nil {
		return text
	}
	rest := strings.TrimSpace(text[loc[1]:])
	if rest == "" {
		return text
	}
	return rest
}

var quotePairs = map[rune]rune{
	'"':      '"',
	'\'':     '\'',
	'\u00AB': '\u00BB', // « »
	'\u201C': '\u201D', // “ ”
	'\u2018': '\u2019', // ‘ ’
}

// removeQuoteWrapping strips one matching pair of outer quotes.
func removeQuoteWrapping(text string) string {
	runes := []rune(strings.TrimSpace(text))
	n := len(runes)
	if n < 2 {
		return text
	}
	if closing, ok := quotePairs[runes[0]]; ok && runes[n-1] == closing {
		return strings.TrimSpace(string(runes[1 : n-1]))
	}
	return text
}
