package assist

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

type testOutput struct {
	Name string `json:"name"`
	Age  int    `json:"age"`
}

func TestNewClient(t *testing.T) {
	t.Run("valid config", func(t *testing.T) {
		config := &Config{
			APIKey:       "test-key",
			BaseURL:      "https://api.test.com",
			DefaultModel: "test-model",
		}

		client, err := NewClient(config)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if client == nil {
			t.Fatal("expected client, got nil")
		}
		if client.config.Timeout != 30*time.Second {
			t.Errorf("expected default timeout 30s, got %v", client.config.Timeout)
		}
		if client.config.MaxRetries != 3 {
			t.Errorf("expected default max retries 3, got %d", client.config.MaxRetries)
		}
	})

	t.Run("missing API key", func(t *testing.T) {
		config := &Config{
			BaseURL:      "https://api.test.com",
			DefaultModel: "test-model",
		}
		if _, err := NewClient(config); err == nil {
			t.Fatal("expected error, got nil")
		}
	})

	t.Run("missing base URL", func(t *testing.T) {
		config := &Config{
			APIKey:       "test-key",
			DefaultModel: "test-model",
		}
		if _, err := NewClient(config); err == nil {
			t.Fatal("expected error, got nil")
		}
	})
}

func TestCleanMarkdownCodeBlocks(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "plain JSON",
			input:    `{"name": "John", "age": 30}`,
			expected: `{"name": "John", "age": 30}`,
		},
		{
			name:     "JSON with json wrapper",
			input:    "```json\n{\"name\": \"John\", \"age\": 30}\n```",
			expected: `{"name": "John", "age": 30}`,
		},
		{
			name:     "JSON with bare wrapper",
			input:    "```\n{\"name\": \"John\", \"age\": 30}\n```",
			expected: `{"name": "John", "age": 30}`,
		},
		{
			name:     "whitespace only",
			input:    "  \n  {\"name\": \"John\", \"age\": 30}  \n  ",
			expected: `{"name": "John", "age": 30}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cleanMarkdownCodeBlocks(tt.input); got != tt.expected {
				t.Errorf("got %q, want %q", got, tt.expected)
			}
		})
	}
}

func chatResponse(content string) string {
	body, _ := json.Marshal(map[string]any{
		"choices": []map[string]any{
			{"message": map[string]string{"content": content}},
		},
	})
	return string(body)
}

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(&Config{
		APIKey:       "test-key",
		BaseURL:      server.URL,
		DefaultModel: "test-model",
	})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client
}

func TestGenerateStructured(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, chatResponse(`{"name": "Ada", "age": 36}`))
		})

		out, err := GenerateStructured[testOutput](client, context.Background(), "", "prompt", nil)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if out.Name != "Ada" || out.Age != 36 {
			t.Errorf("unexpected output: %+v", out)
		}
	})

	t.Run("retries on invalid JSON then succeeds", func(t *testing.T) {
		calls := 0
		client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
			calls++
			if calls == 1 {
				fmt.Fprint(w, chatResponse("not json"))
				return
			}
			fmt.Fprint(w, chatResponse(`{"name": "Ada", "age": 36}`))
		})

		out, err := GenerateStructured[testOutput](client, context.Background(), "", "prompt", nil)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if calls != 2 {
			t.Errorf("expected 2 calls, got %d", calls)
		}
		if out.Name != "Ada" {
			t.Errorf("unexpected output: %+v", out)
		}
	})

	t.Run("retries on validation failure with feedback", func(t *testing.T) {
		calls := 0
		client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
			calls++
			fmt.Fprint(w, chatResponse(fmt.Sprintf(`{"name": "Ada", "age": %d}`, calls)))
		})

		validate := func(o *testOutput) error {
			if o.Age < 2 {
				return fmt.Errorf("age too low")
			}
			return nil
		}

		out, err := GenerateStructured[testOutput](client, context.Background(), "", "prompt", validate)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if out.Age != 2 {
			t.Errorf("expected age 2 after retry, got %d", out.Age)
		}
	})

	t.Run("API errors do not retry", func(t *testing.T) {
		calls := 0
		client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
			calls++
			http.Error(w, "rate limited", http.StatusTooManyRequests)
		})

		_, err := GenerateStructured[testOutput](client, context.Background(), "", "prompt", nil)
		if err == nil {
			t.Fatal("expected error, got nil")
		}
		if calls != 1 {
			t.Errorf("expected 1 call, got %d", calls)
		}
		assistErr, ok := err.(*AssistError)
		if !ok || assistErr.Type != ErrorTypeAPI {
			t.Errorf("expected API error, got %v", err)
		}
	})

	t.Run("exhausts retries", func(t *testing.T) {
		client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, chatResponse("never json"))
		})

		_, err := GenerateStructured[testOutput](client, context.Background(), "", "prompt", nil)
		if err == nil {
			t.Fatal("expected error, got nil")
		}
	})
}
