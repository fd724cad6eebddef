package api

import (
	"net/http"

	"golang.org/x/text/language"

	"github.com/law-makers/linkfill/internal/engine"
)

type messageKey int

const (
	msgInvalidURL messageKey = iota
	msgFetchFailed
	msgBadRequest
	msgRateLimited
	msgInternal
)

var supportedLanguages = []language.Tag{
	language.English, // first entry is the fallback
	language.Polish,
}

var languageMatcher = language.NewMatcher(supportedLanguages)

var messages = map[language.Tag]map[messageKey]string{
	language.English: {
		msgInvalidURL:  "This link cannot be read. Paste the full product page address starting with http:// or https://.",
		msgFetchFailed: "The shop page could not be downloaded. Check the link or fill in the details manually.",
		msgBadRequest:  "The request body is not valid JSON.",
		msgRateLimited: "Too many requests. Try again in a moment.",
		msgInternal:    "Something went wrong on our side.",
	},
	language.Polish: {
		msgInvalidURL:  "Nie można odczytać tego linku. Wklej pełny adres strony produktu zaczynający się od http:// lub https://.",
		msgFetchFailed: "Nie udało się pobrać strony sklepu. Sprawdź link lub uzupełnij dane ręcznie.",
		msgBadRequest:  "Treść żądania nie jest poprawnym JSON-em.",
		msgRateLimited: "Zbyt wiele zapytań. Spróbuj ponownie za chwilę.",
		msgInternal:    "Wystąpił błąd po naszej stronie.",
	},
}

// negotiateLanguage picks a supported language from the Accept-Language header
func negotiateLanguage(r *http.Request) language.Tag {
	tags, _, err := language.ParseAcceptLanguage(r.Header.Get("Accept-Language"))
	if err != nil || len(tags) == 0 {
		return supportedLanguages[0]
	}
	_, idx, _ := languageMatcher.Match(tags...)
	return supportedLanguages[idx]
}

// localize returns the message for key in the caller's language
func localize(r *http.Request, key messageKey) string {
	return messages[negotiateLanguage(r)][key]
}

// messageFor maps a scrape error onto the user-facing message key
func messageFor(err error) messageKey {
	switch engine.CodeOf(err) {
	case engine.ErrCodeInvalidURL:
		return msgInvalidURL
	case engine.ErrCodeFetchFailed, engine.ErrCodeTimeout:
		return msgFetchFailed
	default:
		return msgInternal
	}
}
