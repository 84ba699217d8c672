package translate

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"recipe-finder/internal/infrastructure/config"
	"recipe-finder/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	common.Logger = zap.NewNop()
	os.Exit(m.Run())
}

func newTestTranslator(baseURL string, enabled bool) *Translator {
	return NewTranslator(&config.TranslatorConfig{
		Enabled:    enabled,
		TargetLang: "pl",
		BaseURL:    baseURL,
		Timeout:    5 * time.Second,
	})
}

func TestTranslate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/get", r.URL.Path)
		assert.Equal(t, "banana", r.URL.Query().Get("q"))
		assert.Equal(t, "en|pl", r.URL.Query().Get("langpair"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"responseData":{"translatedText":"banan"},"responseStatus":200}`))
	}))
	defer server.Close()

	translator := newTestTranslator(server.URL, true)
	got, err := translator.Translate(context.Background(), "banana")

	require.NoError(t, err)
	assert.Equal(t, "banan", got)
}

func TestTranslateList(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "banana,strawberry", r.URL.Query().Get("q"))
		_, _ = w.Write([]byte(`{"responseData":{"translatedText":"banan, truskawka"},"responseStatus":200}`))
	}))
	defer server.Close()

	translator := newTestTranslator(server.URL, true)
	got, err := translator.TranslateList(context.Background(), []string{"banana", "strawberry"})

	require.NoError(t, err)
	assert.Equal(t, []string{"banan", "truskawka"}, got)
}

func TestTranslateListCountMismatchFallsBack(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"responseData":{"translatedText":"jedno slowo"},"responseStatus":200}`))
	}))
	defer server.Close()

	translator := newTestTranslator(server.URL, true)
	words := []string{"banana", "strawberry"}
	got, err := translator.TranslateList(context.Background(), words)

	require.NoError(t, err)
	assert.Equal(t, words, got)
}

func TestTranslateDisabledPassthrough(t *testing.T) {
	translator := newTestTranslator("http://127.0.0.1:1", false)

	single, err := translator.Translate(context.Background(), "banana")
	require.NoError(t, err)
	assert.Equal(t, "banana", single)

	list, err := translator.TranslateList(context.Background(), []string{"banana", "egg"})
	require.NoError(t, err)
	assert.Equal(t, []string{"banana", "egg"}, list)
}

func TestTranslateServiceError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"responseData":{"translatedText":"MYMEMORY WARNING"},"responseStatus":429}`))
	}))
	defer server.Close()

	translator := newTestTranslator(server.URL, true)
	_, err := translator.Translate(context.Background(), "banana")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "translation request failed")
}
