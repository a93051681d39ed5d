package wizard

import (
	"regexp"
	"strings"
)

// Base58 alphabet as used by Solana addresses; mint addresses decode from
// 32-44 characters.
var (
	tokenPathPattern = regexp.MustCompile(`/token/([1-9A-HJ-NP-Za-km-z]{32,44})`)
	bareMintPattern  = regexp.MustCompile(`^[1-9A-HJ-NP-Za-km-z]{32,44}$`)
)

// ExtractMintReference recognizes a direct on-chain asset reference in free
// text: an explorer URL carrying a /token/<address> path segment, or a
// standalone base58 token of mint-address length. Text that starts with
// "http" is never treated as a raw address. A miss is a normal negative
// result, not an error.
func ExtractMintReference(text string) (string, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", false
	}
	if m := tokenPathPattern.FindStringSubmatch(text); m != nil {
		return m[1], true
	}
	for _, field := range strings.Fields(text) {
		field = strings.Trim(field, ".,;:!?()[]<>\"'")
		if strings.HasPrefix(field, "http") {
			continue
		}
		if bareMintPattern.MatchString(field) {
			return field, true
		}
	}
	return "", false
}
