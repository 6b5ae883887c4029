// Package openai is the outbound adapter for OpenAI-compatible chat
// completion APIs (OpenAI, Azure OpenAI deployments behind a gateway,
// vLLM, Ollama). DTOs mirror the provider's wire format and never leave
// this package.
package openai

// ChatRequestDTO is the body of POST /v1/chat/completions.
type ChatRequestDTO struct {
	Model          string             `json:"model"`
	Messages       []MessageDTO       `json:"messages"`
	Temperature    *float64           `json:"temperature,omitempty"`
	ResponseFormat *ResponseFormatDTO `json:"response_format,omitempty"`
}

// MessageDTO is one chat message. Content is either a string or a list of
// ContentPartDTO.
type MessageDTO struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

// ContentPartDTO is one part of a multimodal user message.
type ContentPartDTO struct {
	Type     string       `json:"type"`
	Text     string       `json:"text,omitempty"`
	ImageURL *ImageURLDTO `json:"image_url,omitempty"`
	File     *FileDTO     `json:"file,omitempty"`
}

// ImageURLDTO carries an image as a data URL.
type ImageURLDTO struct {
	URL    string `json:"url"`
	Detail string `json:"detail,omitempty"`
}

// FileDTO carries a non-image file (PDF) as a data URL.
type FileDTO struct {
	FileName string `json:"filename,omitempty"`
	FileData string `json:"file_data"`
}

// ResponseFormatDTO requests structured output.
type ResponseFormatDTO struct {
	Type       string         `json:"type"`
	JSONSchema *JSONSchemaDTO `json:"json_schema,omitempty"`
}

// JSONSchemaDTO names and carries the requested schema.
type JSONSchemaDTO struct {
	Name   string         `json:"name"`
	Schema map[string]any `json:"schema"`
	Strict bool           `json:"strict"`
}

// ChatResponseDTO is the response of POST /v1/chat/completions.
type ChatResponseDTO struct {
	ID      string      `json:"id"`
	Model   string      `json:"model"`
	Choices []ChoiceDTO `json:"choices"`
	Usage   UsageDTO    `json:"usage"`
}

// ChoiceDTO is one completion candidate.
type ChoiceDTO struct {
	Index        int                `json:"index"`
	Message      ResponseMessageDTO `json:"message"`
	FinishReason string             `json:"finish_reason"`
}

// ResponseMessageDTO is the assistant message of a choice.
type ResponseMessageDTO struct {
	Role    string `json:"role"`
	Content string `json:"content"`
	Refusal string `json:"refusal,omitempty"`
}

// UsageDTO counts tokens.
type UsageDTO struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}
