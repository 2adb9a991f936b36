package naming

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// pathMarkers are the path-template characters removed from route segments.
const pathMarkers = "{}?"

// Capitalize upper-cases the first character and leaves the rest untouched.
// Example: "userName" -> "UserName"
// Example: "id" -> "Id"
func Capitalize(s string) string {
	if s == "" {
		return ""
	}
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	// A Caser is stateful, so one is built per call. It handles special
	// casings such as "ß" -> "SS" that unicode.ToUpper cannot.
	return cases.Upper(language.Und).String(string(r)) + s[size:]
}

// StripPathMarkers removes the '{', '}' and '?' characters used by path
// parameters and optional segments.
// Example: "{id}" -> "id"
func StripPathMarkers(s string) string {
	if !strings.ContainsAny(s, pathMarkers) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if strings.ContainsRune(pathMarkers, r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// HyphenToCamel removes every hyphen that precedes a word character and
// upper-cases that character, in a single left-to-right pass. In a run of
// hyphens only the last one is consumed.
// Example: "user-profile" -> "userProfile"
// Example: "a--b" -> "a-B"
func HyphenToCamel(s string) string {
	if !strings.Contains(s, "-") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '-' && i+1 < len(s) && isWordByte(s[i+1]) {
			b.WriteByte(byte(unicode.ToUpper(rune(s[i+1]))))
			i++
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

func isWordByte(c byte) bool {
	return c == '_' || (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// FormatPath converts a raw route segment into a namespace identifier:
// path markers are stripped, the first character is upper-cased and
// hyphenated words are joined in camel case.
// Example: "{id}" -> "Id"
// Example: "user-profile" -> "UserProfile"
func FormatPath(segment string) string {
	return HyphenToCamel(Capitalize(StripPathMarkers(segment)))
}

// ToPascalCase converts a string to PascalCase.
// Separators (underscore, hyphen, dot, slash, space) trigger capitalization of the next letter.
// Example: "user_profile" -> "UserProfile"
// Example: "api-client" -> "ApiClient"
func ToPascalCase(s string) string {
	if s == "" {
		return ""
	}

	var result strings.Builder
	capitalizeNext := true

	for _, r := range s {
		if r == '_' || r == '-' || r == '.' || r == '/' || r == ' ' {
			capitalizeNext = true
			continue
		}
		if capitalizeNext {
			result.WriteRune(unicode.ToUpper(r))
			capitalizeNext = false
		} else {
			result.WriteRune(r)
		}
	}

	return result.String()
}

// SafeIdentifier turns an arbitrary schema title into a TypeScript type name.
// Characters that cannot appear in an identifier act as word separators, and
// a leading digit is prefixed with an underscore.
// Example: "pet.Category" -> "PetCategory"
// Example: "2fa codes" -> "_2faCodes"
func SafeIdentifier(s string) string {
	var b strings.Builder
	capitalizeNext := true
	for _, r := range s {
		if !isIdentRune(r) {
			capitalizeNext = true
			continue
		}
		if capitalizeNext {
			b.WriteRune(unicode.ToUpper(r))
			capitalizeNext = false
		} else {
			b.WriteRune(r)
		}
	}
	out := b.String()
	if out == "" {
		return "NoName"
	}
	if r, _ := utf8.DecodeRuneInString(out); unicode.IsDigit(r) {
		out = "_" + out
	}
	return out
}

// IsIdentifier reports whether s can be used unquoted as a TypeScript
// identifier or property name.
func IsIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if i == 0 && unicode.IsDigit(r) {
			return false
		}
		if !isIdentRune(r) {
			return false
		}
	}
	return true
}

func isIdentRune(r rune) bool {
	return r == '_' || r == '$' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
