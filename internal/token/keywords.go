package token

import "golang.org/x/text/unicode/norm"

var keywords = map[string]Kind{
	"self":  KwSelf,
	"Self":  KwSelfType,
	"super": KwSuper,
	"init":  KwInit,
	"try":   KwTry,
	"await": KwAwait,
	"as":    KwAs,
	"is":    KwIs,
	"in":    KwIn,
	"any":   KwAny,
	"some":  KwSome,
	"true":  KwTrue,
	"false": KwFalse,
	"nil":   KwNil,
}

// LookupKeyword возвращает тип и bool если это ключевое слово.
// Сравнение идёт по NFC-форме: идентификаторы в разных нормализациях
// считаются одним и тем же словом, Text токена при этом не меняется.
func LookupKeyword(ident string) (Kind, bool) {
	if k, ok := keywords[ident]; ok {
		return k, true
	}
	if norm.NFC.IsNormalString(ident) {
		return Invalid, false
	}
	k, ok := keywords[norm.NFC.String(ident)]
	return k, ok
}

// IsKeyword reports whether k is one of the keyword kinds.
func (k Kind) IsKeyword() bool {
	return k >= KwSelf && k <= KwNil
}
