package dto

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

var javaKeywords = map[string]struct{}{
	"abstract": {}, "assert": {}, "boolean": {}, "break": {}, "byte": {}, "case": {},
	"catch": {}, "char": {}, "class": {}, "const": {}, "continue": {}, "default": {},
	"do": {}, "double": {}, "else": {}, "enum": {}, "extends": {}, "final": {},
	"finally": {}, "float": {}, "for": {}, "goto": {}, "if": {}, "implements": {},
	"import": {}, "instanceof": {}, "int": {}, "interface": {}, "long": {}, "native": {},
	"new": {}, "package": {}, "private": {}, "protected": {}, "public": {}, "return": {},
	"short": {}, "static": {}, "strictfp": {}, "super": {}, "switch": {}, "synchronized": {},
	"this": {}, "throw": {}, "throws": {}, "transient": {}, "try": {}, "void": {},
	"volatile": {}, "while": {}, "true": {}, "false": {}, "null": {}, "var": {},
	"record": {}, "yield": {},
}

// memberSuffixes are stripped from model type names to name DTO members.
var memberSuffixes = []string{"Field", "Button", "Column"}

// derivedName turns a model type name into a DTO member name: NameField
// becomes Name, PersonsTableField becomes PersonsTable.
func derivedName(simple string) string {
	for _, suffix := range memberSuffixes {
		if trimmed := strings.TrimSuffix(simple, suffix); trimmed != simple && trimmed != "" {
			return trimmed
		}
	}
	return simple
}

// javaIdentifier appends an underscore to Java keywords.
func javaIdentifier(name string) string {
	if _, ok := javaKeywords[name]; ok {
		return name + "_"
	}
	return name
}

func upperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 || unicode.IsUpper(r) {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

func lowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 || unicode.IsLower(r) {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}

// rowTypeName names the row class of a table DTO.
func rowTypeName(tableDto string) string {
	base := strings.TrimSuffix(tableDto, "PageData")
	if base == "" {
		base = tableDto
	}
	return base + "RowData"
}
