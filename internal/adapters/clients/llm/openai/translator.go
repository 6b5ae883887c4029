package openai

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/arkus-mindteams/Notary-sub000/internal/domain"
	"github.com/arkus-mindteams/Notary-sub000/internal/ports"
)

// ToChatRequest translates a completion request into the provider body.
// Images are sent as data URLs; PDFs as file parts.
func ToChatRequest(model string, req ports.CompletionRequest) ChatRequestDTO {
	zero := 0.0
	dto := ChatRequestDTO{
		Model:       model,
		Temperature: &zero,
	}
	if req.System != "" {
		dto.Messages = append(dto.Messages, MessageDTO{Role: "system", Content: req.System})
	}

	if len(req.Image) == 0 {
		dto.Messages = append(dto.Messages, MessageDTO{Role: "user", Content: req.Text})
	} else {
		parts := make([]ContentPartDTO, 0, 2)
		if req.Text != "" {
			parts = append(parts, ContentPartDTO{Type: "text", Text: req.Text})
		}
		dataURL := "data:" + req.ImageMIME + ";base64," + base64.StdEncoding.EncodeToString(req.Image)
		if strings.HasPrefix(req.ImageMIME, "image/") {
			parts = append(parts, ContentPartDTO{Type: "image_url", ImageURL: &ImageURLDTO{URL: dataURL, Detail: "high"}})
		} else {
			parts = append(parts, ContentPartDTO{Type: "file", File: &FileDTO{FileName: "document", FileData: dataURL}})
		}
		dto.Messages = append(dto.Messages, MessageDTO{Role: "user", Content: parts})
	}

	if req.Schema != nil {
		name := req.Operation
		if name == "" {
			name = "answer"
		}
		dto.ResponseFormat = &ResponseFormatDTO{
			Type:       "json_schema",
			JSONSchema: &JSONSchemaDTO{Name: name, Schema: req.Schema},
		}
	}
	return dto
}

// ToCompletionResponse translates the provider response. An empty or
// refused answer, or one that is not valid JSON when a schema was
// requested, is reported as domain.ErrUnavailable. Usage is returned even
// then.
func ToCompletionResponse(dto ChatResponseDTO, wantJSON bool) (*ports.CompletionResponse, error) {
	out := &ports.CompletionResponse{Usage: ToUsage(dto.Usage)}
	if len(dto.Choices) == 0 {
		return out, fmt.Errorf("no choices returned: %w", domain.ErrUnavailable)
	}

	msg := dto.Choices[0].Message
	if msg.Refusal != "" {
		return out, fmt.Errorf("model refused: %s: %w", msg.Refusal, domain.ErrUnavailable)
	}
	text := strings.TrimSpace(msg.Content)
	if text == "" {
		return out, fmt.Errorf("empty answer (finish reason %q): %w", dto.Choices[0].FinishReason, domain.ErrUnavailable)
	}
	out.Text = text

	if wantJSON {
		if !json.Valid([]byte(text)) {
			return out, fmt.Errorf("answer is not valid JSON: %w", domain.ErrUnavailable)
		}
		out.JSON = json.RawMessage(text)
	}
	return out, nil
}

// ToUsage translates token counts. Every response is one call.
func ToUsage(u UsageDTO) ports.Usage {
	return ports.Usage{InputTokens: u.PromptTokens, OutputTokens: u.CompletionTokens, Calls: 1}
}
