package domain

// supportedLanguages maps requested display languages to the target
// languages the suggestion pipeline understands.
var supportedLanguages = map[string]string{
	"English":    "English",
	"Japanese":   "Japanese",
	"Vietnamese": "Vietnamese",
	"Spanish":    "Spanish",
	"French":     "French",
	"German":     "German",
	"Chinese":    "Chinese",
	"Korean":     "Korean",
}

// MapLanguage resolves a requested language to a supported target language,
// falling back to English when unmapped.
func MapLanguage(requested string) string {
	if lang, ok := supportedLanguages[requested]; ok {
		return lang
	}
	return "English"
}

// DefaultChatSamples are the canned follow-up questions served when no
// history is available or the suggestion pipeline yields nothing usable.
var DefaultChatSamples = []string{
	"Summarise the key points of my documents",
	"What topics do my documents cover?",
	"Find contradictions between my documents",
}
