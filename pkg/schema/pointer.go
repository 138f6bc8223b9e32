package schema

import "strings"

// RootPointer identifies the root node of a document.
const RootPointer = "#"

// IsLocalRef reports whether ref is a same-document JSON pointer fragment.
// Absolute URIs (with or without a fragment) are not local and are never
// followed during traversal.
func IsLocalRef(ref string) bool {
	return strings.HasPrefix(ref, "#")
}

// ParsePointer splits a "#/a/b" style pointer into its unescaped reference
// tokens. Returns ok=false for values that are not local JSON pointers
// (absolute URIs, bare anchors like "#foo", malformed escapes).
func ParsePointer(ptr string) ([]string, bool) {
	if !IsLocalRef(ptr) {
		return nil, false
	}
	rest := ptr[1:]
	if rest == "" {
		return nil, true // the root
	}
	if !strings.HasPrefix(rest, "/") {
		return nil, false // plain-name fragment, not a pointer
	}
	raw := strings.Split(rest[1:], "/")
	tokens := make([]string, len(raw))
	for i, tok := range raw {
		t, ok := unescapeToken(tok)
		if !ok {
			return nil, false
		}
		tokens[i] = t
	}
	return tokens, true
}

// JoinPointer builds the canonical pointer string for a token path.
// JoinPointer(ParsePointer(p)) normalizes any valid local pointer.
func JoinPointer(tokens []string) string {
	if len(tokens) == 0 {
		return RootPointer
	}
	var b strings.Builder
	b.WriteString(RootPointer)
	for _, tok := range tokens {
		b.WriteByte('/')
		b.WriteString(escapeToken(tok))
	}
	return b.String()
}

// ChildPointer extends a canonical pointer with one more token.
func ChildPointer(base, token string) string {
	if base == RootPointer {
		return RootPointer + "/" + escapeToken(token)
	}
	return base + "/" + escapeToken(token)
}

// escapeToken applies RFC 6901 escaping ("~" -> "~0", "/" -> "~1").
func escapeToken(tok string) string {
	tok = strings.ReplaceAll(tok, "~", "~0")
	return strings.ReplaceAll(tok, "/", "~1")
}

// unescapeToken reverses RFC 6901 escaping. A "~" followed by anything other
// than "0" or "1" is malformed.
func unescapeToken(tok string) (string, bool) {
	if !strings.Contains(tok, "~") {
		return tok, true
	}
	var b strings.Builder
	for i := 0; i < len(tok); i++ {
		if tok[i] != '~' {
			b.WriteByte(tok[i])
			continue
		}
		if i+1 >= len(tok) {
			return "", false
		}
		i++
		switch tok[i] {
		case '0':
			b.WriteByte('~')
		case '1':
			b.WriteByte('/')
		default:
			return "", false
		}
	}
	return b.String(), true
}
