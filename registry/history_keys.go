package registry

// HistoryField pairs a chat-service history field with the provider key
// whose messages it stores.
type HistoryField struct {
	Field    string
	Provider string
}

var historyFields = []HistoryField{
	{Field: "openai_messages", Provider: "OpenAI"},
	{Field: "google_messages", Provider: "Google"},
	{Field: "groq_messages", Provider: "Groq"},
	{Field: "meta_messages", Provider: "Meta"},
	{Field: "deepseek_messages", Provider: "DeepSeek"},
	{Field: "alibaba_messages", Provider: "Alibaba"},
	{Field: "anthropic_messages", Provider: "Anthropic"},
}

// HistoryFields returns the known history fields in a fixed order.
func HistoryFields() []HistoryField {
	out := make([]HistoryField, len(historyFields))
	copy(out, historyFields)
	return out
}
