package localization

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"go.uber.org/zap"
)

const fallbackLang = "en"

type Localizer struct {
	messages map[string]map[string]string
}

// NewLocalizer loads every locales/<lang>.json file from dir.
func NewLocalizer(dir fs.FS, logger *zap.Logger) (*Localizer, error) {
	messages := make(map[string]map[string]string)

	files, err := fs.ReadDir(dir, "locales")
	if err != nil {
		return nil, fmt.Errorf("failed to read locales directory: %w", err)
	}

	for _, file := range files {
		if path.Ext(file.Name()) != ".json" {
			continue
		}
		lang := strings.TrimSuffix(file.Name(), ".json")
		content, err := fs.ReadFile(dir, path.Join("locales", file.Name()))
		if err != nil {
			logger.Warn("failed to read locale file", zap.String("file", file.Name()), zap.Error(err))
			continue
		}

		var langMessages map[string]string
		if err := json.Unmarshal(content, &langMessages); err != nil {
			logger.Warn("failed to parse locale file", zap.String("file", file.Name()), zap.Error(err))
			continue
		}
		messages[lang] = langMessages
		logger.Info("loaded language", zap.String("lang", lang), zap.Int("messages", len(langMessages)))
	}
	if _, ok := messages[fallbackLang]; !ok {
		return nil, fmt.Errorf("fallback locale %q is missing", fallbackLang)
	}

	return &Localizer{messages: messages}, nil
}

// GetMessage returns the message for key in lang, falling back to English and
// finally to the key itself.
func (l *Localizer) GetMessage(lang, key string) string {
	if langMessages, ok := l.messages[lang]; ok {
		if message, ok := langMessages[key]; ok {
			return message
		}
	}

	if message, ok := l.messages[fallbackLang][key]; ok {
		return message
	}

	return key
}
