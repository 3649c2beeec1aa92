package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

type Phrase struct {
	Text    string `json:"text"`
	Script  string `json:"script"`
	Meaning string `json:"meaning"`
}

type PhraseGuide struct {
	Code     string   `json:"code"`
	Language string   `json:"language"`
	Phrases  []Phrase `json:"phrases"`
}

var phrasebook = map[string]PhraseGuide{
	"en": {Code: "en", Language: "English", Phrases: []Phrase{
		{"Hello", "Hello", "Friendly greeting"},
		{"Thank you", "Thank you", "Show appreciation"},
		{"Excuse me", "Excuse me", "Politely get attention"},
	}},
	"hi": {Code: "hi", Language: "Hindi", Phrases: []Phrase{
		{"Namaste", "नमस्ते", "Hello / Greetings"},
		{"Dhanyavaad", "धन्यवाद", "Thank you"},
		{"Kripya", "कृपया", "Please"},
	}},
	"ja": {Code: "ja", Language: "Japanese", Phrases: []Phrase{
		{"Konnichiwa", "こんにちは", "Good day / Hello"},
		{"Arigatou gozaimasu", "ありがとうございます", "Thank you"},
		{"Sumimasen", "すみません", "Excuse me / Sorry"},
	}},
	"ar": {Code: "ar", Language: "Arabic", Phrases: []Phrase{
		{"Marhaba", "مرحبا", "Hello"},
		{"Shukran", "شكرا", "Thank you"},
		{"Min fadlak", "من فضلك", "Please"},
	}},
	"es": {Code: "es", Language: "Spanish", Phrases: []Phrase{
		{"Hola", "Hola", "Hello"},
		{"Gracias", "Gracias", "Thank you"},
		{"Por favor", "Por favor", "Please"},
	}},
	"fr": {Code: "fr", Language: "French", Phrases: []Phrase{
		{"Bonjour", "Bonjour", "Hello / Good day"},
		{"Merci", "Merci", "Thank you"},
		{"S'il vous plaît", "S'il vous plaît", "Please"},
	}},
	"it": {Code: "it", Language: "Italian", Phrases: []Phrase{
		{"Ciao", "Ciao", "Hello"},
		{"Grazie", "Grazie", "Thank you"},
		{"Per favore", "Per favore", "Please"},
	}},
	"de": {Code: "de", Language: "German", Phrases: []Phrase{
		{"Hallo", "Hallo", "Hello"},
		{"Danke", "Danke", "Thank you"},
		{"Bitte", "Bitte", "Please"},
	}},
	"tr": {Code: "tr", Language: "Turkish", Phrases: []Phrase{
		{"Merhaba", "Merhaba", "Hello"},
		{"Teşekkürler", "Teşekkürler", "Thank you"},
		{"Lütfen", "Lütfen", "Please"},
	}},
}

// PhraseGuideHandler serves a starter phrasebook for the destination
// language; unknown languages fall back to English.
func PhraseGuideHandler(c *gin.Context) {
	lang := strings.ToLower(c.Param("lang"))
	guide, ok := phrasebook[lang]
	if !ok {
		guide = phrasebook["en"]
	}
	c.JSON(http.StatusOK, guide)
}
