package types

// TranscribeRequest carries optional per-recording overrides for a
// re-transcription. Empty fields fall back to the configured defaults.
type TranscribeRequest struct {
	Model    string `json:"model"`
	Language string `json:"language"`
}

// ValidModels are the whisper model names accepted as overrides
var ValidModels = map[string]bool{
	"tiny":           true,
	"base":           true,
	"small":          true,
	"medium":         true,
	"large-v3-turbo": true,
}

// ValidLanguages are the language hints accepted as overrides.
// "auto" requests engine-side detection.
var ValidLanguages = map[string]bool{
	"auto":  true,
	"en":    true,
	"fr":    true,
	"fr-CA": true,
	"es":    true,
	"de":    true,
	"it":    true,
	"pt":    true,
	"ru":    true,
	"ja":    true,
	"ko":    true,
	"zh":    true,
}
