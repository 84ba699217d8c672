package translate

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"recipe-finder/internal/infrastructure/config"
	"recipe-finder/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// Translator MyMemory 翻譯服務客戶端。
// 停用時所有操作原樣返回輸入，報告退化為單語。
type Translator struct {
	config *config.TranslatorConfig
	client *resty.Client
}

// translationResponse MyMemory API 響應結構
type translationResponse struct {
	ResponseData struct {
		TranslatedText string `json:"translatedText"`
	} `json:"responseData"`
	ResponseStatus int `json:"responseStatus"`
}

// NewTranslator 創建翻譯服務
func NewTranslator(cfg *config.TranslatorConfig) *Translator {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout)

	return &Translator{
		config: cfg,
		client: client,
	}
}

// Translate 翻譯單一字串到目標語言
func (t *Translator) Translate(ctx context.Context, text string) (string, error) {
	if !t.config.Enabled || text == "" {
		return text, nil
	}

	resp, err := t.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"q":        text,
			"langpair": fmt.Sprintf("en|%s", t.config.TargetLang),
		}).
		Get("/get")

	if err != nil {
		return "", fmt.Errorf("translation request failed: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return "", fmt.Errorf("translation request failed: unexpected status %d", resp.StatusCode())
	}

	var result translationResponse
	if err := common.ParseJSONBytes(resp.Body(), &result); err != nil {
		return "", fmt.Errorf("translation request failed: %w", err)
	}
	if result.ResponseStatus != http.StatusOK {
		return "", fmt.Errorf("translation request failed: service status %d", result.ResponseStatus)
	}

	return result.ResponseData.TranslatedText, nil
}

// TranslateList 翻譯字串列表：以逗號合併為單次請求後再拆回，
// 與輸入形式一一對應。拆分結果數量不符時退回原文。
func (t *Translator) TranslateList(ctx context.Context, words []string) ([]string, error) {
	if !t.config.Enabled || len(words) == 0 {
		return words, nil
	}

	translated, err := t.Translate(ctx, strings.Join(words, ","))
	if err != nil {
		return nil, err
	}

	parts := strings.Split(translated, ",")
	if len(parts) != len(words) {
		common.LogWarn("翻譯結果數量不符，退回原文",
			zap.Int("expected", len(words)),
			zap.Int("got", len(parts)),
		)
		return words, nil
	}

	for i, part := range parts {
		parts[i] = strings.TrimSpace(part)
	}
	return parts, nil
}
