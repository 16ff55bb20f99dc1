// Package lang detects the language of user messages.
package lang

import "github.com/abadojack/whatlanggo"

// iso3ToShort maps ISO 639-3 detection output to the short codes used
// throughout the service. Unmapped languages fall back to English.
var iso3ToShort = map[string]string{
	"eng": "en",
	"hin": "hi",
	"spa": "es",
	"fra": "fr",
	"deu": "de",
	"ben": "bn",
	"urd": "ur",
	"tam": "ta",
	"tel": "te",
	"guj": "gu",
	"kan": "kn",
	"mal": "ml",
	"pan": "pa",
}

// Detector identifies the language of a text snippet. Detection never
// fails: anything unrecognized or too short comes back as "en".
type Detector struct{}

// NewDetector creates a language detector.
func NewDetector() *Detector {
	return &Detector{}
}

// Detect returns the short language code for text.
func (d *Detector) Detect(text string) string {
	if text == "" {
		return "en"
	}
	info := whatlanggo.Detect(text)
	code, ok := iso3ToShort[whatlanggo.LangToString(info.Lang)]
	if !ok {
		return "en"
	}
	return code
}
