package i18n

import "strings"

// Translator retrieves localized messages for error codes.
// data provides optional parameters that are substituted into "{name}"
// placeholders of the message (for example "min" or "path").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

var dictionaries = map[string]map[string]string{
	"en": {
		"required":           "missing field",
		"invalid_type":       "value must be {expected}",
		"too_small":          "value must be at least {min}",
		"too_big":            "value must be at most {max}",
		"too_short":          "value must be at least {min} characters long",
		"too_long":           "value must be at most {max} characters long",
		"too_few_items":      "array must have at least {min} items",
		"too_many_items":     "array must have at most {max} items",
		"pattern":            "value does not match pattern {pattern}",
		"invalid_format":     "value is not a valid {format}",
		"not_exist":          "{path} does not exist",
		"not_file":           "{path} is not a file",
		"not_dir":            "{path} is not a directory",
		"unknown_type":       "unknown type {type}",
		"missing_constraint": "no {constraint} specified",
		"invalid_constraint": "invalid {constraint}: {reason}",
		"missing_key":        "missing key {key} in schema",
		"invalid_node":       "unsupported schema node {node}",
	},
	"ja": {
		"required":           "必須フィールドがありません",
		"invalid_type":       "値は {expected} である必要があります",
		"too_small":          "値は {min} 以上である必要があります",
		"too_big":            "値は {max} 以下である必要があります",
		"too_short":          "{min} 文字以上である必要があります",
		"too_long":           "{max} 文字以下である必要があります",
		"too_few_items":      "配列の要素数は {min} 以上である必要があります",
		"too_many_items":     "配列の要素数は {max} 以下である必要があります",
		"pattern":            "パターン {pattern} に一致しません",
		"invalid_format":     "{format} の形式が不正です",
		"not_exist":          "{path} が存在しません",
		"not_file":           "{path} はファイルではありません",
		"not_dir":            "{path} はディレクトリではありません",
		"unknown_type":       "未知の型 {type} です",
		"missing_constraint": "{constraint} の指定が必要です",
		"invalid_constraint": "{constraint} が不正です: {reason}",
		"missing_key":        "スキーマにキー {key} がありません",
		"invalid_node":       "未対応のスキーマノード {node} です",
	},
}

func (t dictTranslator) Message(code string, data map[string]string) string {
	msg, ok := dictionaries[t.lang][code]
	if !ok {
		msg, ok = dictionaries["en"][code]
	}
	if !ok {
		return code
	}
	return expand(msg, data)
}

// expand replaces "{name}" placeholders with values from data. Unknown
// placeholders are left untouched.
func expand(msg string, data map[string]string) string {
	if len(data) == 0 || !strings.Contains(msg, "{") {
		return msg
	}
	pairs := make([]string, 0, len(data)*2)
	for k, v := range data {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(msg)
}

var currentTranslator Translator = dictTranslator{lang: "en"}

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if _, ok := dictionaries[lang]; !ok {
		lang = "en"
	}
	currentTranslator = dictTranslator{lang: lang}
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version).
func SetTranslator(tr Translator) {
	if tr == nil {
		currentTranslator = dictTranslator{lang: "en"}
		return
	}
	currentTranslator = tr
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string { return currentTranslator.Message(code, data) }
