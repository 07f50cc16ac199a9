package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, ProviderGemini, config.Provider)
	assert.Equal(t, "gemini-2.5-flash-lite", config.GetModel(TierLite))
	assert.Equal(t, "gemini-2.5-flash", config.GetModel(TierStandard))
	assert.Equal(t, "gemini-2.5-pro", config.GetModel(TierAdvanced))
	assert.Equal(t, "imagen-3.0-generate-002", config.GetImageModel())
}

func TestGetModel_Fallback(t *testing.T) {
	config := &Config{
		Provider: ProviderGemini,
		Models: map[ModelTier]string{
			TierLite: "fallback-model",
		},
	}

	// Unknown tier should fallback to TierStandard, then TierLite
	assert.Equal(t, "fallback-model", config.GetModel("unknown"))
}

func TestGetModel_EmptyConfig(t *testing.T) {
	config := &Config{
		Provider: ProviderGemini,
		Models:   map[ModelTier]string{},
	}

	assert.Equal(t, "", config.GetModel(TierAdvanced))
	assert.Equal(t, DefaultImageModel, config.GetImageModel())
}

func TestWithModel(t *testing.T) {
	config := DefaultConfig()
	newConfig := config.WithModel(TierAdvanced, "custom-model")

	// Original should be unchanged
	assert.Equal(t, "gemini-2.5-pro", config.GetModel(TierAdvanced))

	// New config should have custom model
	assert.Equal(t, "custom-model", newConfig.GetModel(TierAdvanced))

	// Other tiers should be copied
	assert.Equal(t, "gemini-2.5-flash-lite", newConfig.GetModel(TierLite))
	assert.Equal(t, config.ImageModel, newConfig.ImageModel)
}

func TestWithImageModel(t *testing.T) {
	config := DefaultConfig()
	newConfig := config.WithImageModel("imagen-4.0-generate-001")

	assert.Equal(t, DefaultImageModel, config.GetImageModel())
	assert.Equal(t, "imagen-4.0-generate-001", newConfig.GetImageModel())
	assert.Equal(t, config.GetModel(TierStandard), newConfig.GetModel(TierStandard))
}

func TestModelTierConstants(t *testing.T) {
	assert.Equal(t, ModelTier("lite"), TierLite)
	assert.Equal(t, ModelTier("standard"), TierStandard)
	assert.Equal(t, ModelTier("advanced"), TierAdvanced)
}

func TestParseModelTier(t *testing.T) {
	tests := []struct {
		name    string
		want    ModelTier
		wantErr bool
	}{
		{"", TierStandard, false},
		{"lite", TierLite, false},
		{"standard", TierStandard, false},
		{"advanced", TierAdvanced, false},
		{"turbo", "", true},
	}

	for _, tt := range tests {
		got, err := ParseModelTier(tt.name)
		if tt.wantErr {
			assert.Error(t, err, tt.name)
			continue
		}
		assert.NoError(t, err, tt.name)
		assert.Equal(t, tt.want, got)
	}
}
