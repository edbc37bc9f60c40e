package gemini

// ParsedTransaction is the structured result of reading a trading-app
// screenshot. Asset carries the raw label as it appeared on screen;
// canonicalization is the normalizer's job, not the vision model's.
type ParsedTransaction struct {
	SourceApp  string  `json:"source_app"`
	Asset      string  `json:"asset"`
	Side       string  `json:"side"`
	Amount     float64 `json:"amount"`
	Price      float64 `json:"price"`
	TotalTHB   float64 `json:"total_thb"`
	Date       string  `json:"date"`
	Confidence string  `json:"confidence"`
}

// generateContent request/response wire types

type generateRequest struct {
	Contents         []content         `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inline_data,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"` // base64
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}
