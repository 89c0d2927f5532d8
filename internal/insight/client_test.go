package insight_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alessandro-lagamba/yachai-server/internal/insight"
	"github.com/alessandro-lagamba/yachai-server/internal/provider/resilience"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *insight.Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return insight.NewClient(insight.ClientConfig{
		BaseURL: server.URL,
		APIKey:  "test-key",
		HTTP: resilience.NewClient(resilience.ClientConfig{
			Name:       "insight-test",
			MaxRetries: 1,
		}),
		Logger: zerolog.Nop(),
	})
}

func completion(content string) map[string]interface{} {
	return map[string]interface{}{
		"choices": []map[string]interface{}{
			{"message": map[string]string{"role": "assistant", "content": content}},
		},
	}
}

func TestClient_Chat_ReturnsCompletion(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(completion("Ciao! Come posso aiutarti?"))
	})

	reply, err := client.Chat(context.Background(), []insight.Message{
		{Role: "user", Content: "ciao"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Ciao! Come posso aiutarti?", reply)
}

func TestClient_Chat_EmptyCompletion(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"choices": []interface{}{}})
	})

	_, err := client.Chat(context.Background(), []insight.Message{{Role: "user", Content: "ciao"}})
	assert.ErrorIs(t, err, insight.ErrEmptyCompletion)
}

func TestClient_AnalyzeJournal_ParsesReflection(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		body := "```json\n" +
			`{"summary":"Giornata faticosa ma produttiva.","themes":["lavoro","sonno"],"suggestion":"Vai a letto prima stasera."}` +
			"\n```"
		json.NewEncoder(w).Encode(completion(body))
	})

	mood := 40.0
	reflection, err := client.AnalyzeJournal(context.Background(), "Oggi è stata dura.", &mood)
	require.NoError(t, err)

	assert.Equal(t, "Giornata faticosa ma produttiva.", reflection.Summary)
	assert.Equal(t, []string{"lavoro", "sonno"}, reflection.Themes)
	assert.NotEmpty(t, reflection.Suggestion)
}

func TestClient_AnalyzeJournal_FallsBackToPlainText(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(completion("Sembra una giornata intensa, prenditi una pausa."))
	})

	reflection, err := client.AnalyzeJournal(context.Background(), "Tutto di corsa oggi.", nil)
	require.NoError(t, err)
	assert.Equal(t, "Sembra una giornata intensa, prenditi una pausa.", reflection.Summary)
}

func TestClient_Chat_ProviderError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"error": map[string]string{"message": "invalid model", "type": "invalid_request_error"},
		})
	})

	_, err := client.Chat(context.Background(), []insight.Message{{Role: "user", Content: "ciao"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "400")
}
