package models

// ProviderResponse is the uniform result of one provider call: the generated
// text plus the provider-reported (or estimated) token count.
type ProviderResponse struct {
	Text   string `json:"text"`
	Tokens int    `json:"tokens"`
}
