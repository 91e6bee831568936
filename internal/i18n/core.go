package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/amoylab/casedesk/internal/common/cnst"
	"github.com/gin-gonic/gin"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed locales/*.toml
var embeddedLocales embed.FS

var (
	translatorMu sync.RWMutex
	translator   *I18n
	defaultLang  = cnst.LangDefault
)

// supported languages, first entry is the fallback of the matcher
var supportedTags = []language.Tag{language.English, language.Spanish}

// SetDefaultLanguage sets the language used when a request expresses no preference
func SetDefaultLanguage(lang string) {
	defaultLang = normalizeLang(lang)
}

// InitTranslator builds the global translator from the embedded bundles and,
// when dir is not empty, the *.toml files found there (overriding embedded messages).
func InitTranslator(dir string) error {
	t := NewI18n(language.English)
	if err := t.LoadEmbedded(); err != nil {
		return err
	}
	if dir != "" {
		if err := t.LoadTranslations(dir); err != nil {
			return err
		}
	}

	translatorMu.Lock()
	translator = t
	translatorMu.Unlock()
	return nil
}

// GetTranslator returns the global translator, initialising it from the embedded bundles on first use
func GetTranslator() *I18n {
	translatorMu.RLock()
	t := translator
	translatorMu.RUnlock()
	if t != nil {
		return t
	}
	_ = InitTranslator("")

	translatorMu.RLock()
	defer translatorMu.RUnlock()
	return translator
}

// I18n manages internationalization and translations
type I18n struct {
	bundle      *i18n.Bundle
	defaultLang language.Tag
}

// NewI18n creates a new I18n instance with the specified default language
func NewI18n(defaultLang language.Tag) *I18n {
	bundle := i18n.NewBundle(defaultLang)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	return &I18n{
		bundle:      bundle,
		defaultLang: defaultLang,
	}
}

// LoadEmbedded loads the bundles compiled into the binary
func (i *I18n) LoadEmbedded() error {
	entries, err := fs.ReadDir(embeddedLocales, "locales")
	if err != nil {
		return err
	}
	for _, e := range entries {
		if _, err := i.bundle.LoadMessageFileFS(embeddedLocales, path.Join("locales", e.Name())); err != nil {
			return fmt.Errorf("failed to load embedded translations %s: %w", e.Name(), err)
		}
	}
	return nil
}

// LoadTranslations loads translation files from the specified directory
func (i *I18n) LoadTranslations(translationsDir string) error {
	files, err := os.ReadDir(translationsDir)
	if err != nil {
		return fmt.Errorf("failed to read translations directory: %w", err)
	}

	for _, file := range files {
		if file.IsDir() || !strings.HasSuffix(file.Name(), ".toml") {
			continue
		}
		if _, err := i.bundle.LoadMessageFile(filepath.Join(translationsDir, file.Name())); err != nil {
			return fmt.Errorf("failed to load translations %s: %w", file.Name(), err)
		}
	}
	return nil
}

// Translate returns a localized string for the given message ID and language
func (i *I18n) Translate(msgID string, lang string, templateData map[string]any) string {
	localizer := i18n.NewLocalizer(i.bundle, lang, i.defaultLang.String())

	lc := &i18n.LocalizeConfig{MessageID: msgID}
	if len(templateData) > 0 {
		lc.TemplateData = templateData
	}

	msg, err := localizer.Localize(lc)
	if err != nil {
		return msgID
	}
	return msg
}

// LanguageFromRequest extracts the language preference from X-Lang, then Accept-Language
func LanguageFromRequest(r *http.Request) string {
	if lang := r.Header.Get(cnst.XLang); lang != "" {
		return normalizeLang(lang)
	}

	if accept := r.Header.Get("Accept-Language"); accept != "" {
		tags, _, err := language.ParseAcceptLanguage(accept)
		if err == nil && len(tags) > 0 {
			matcher := language.NewMatcher(supportedTags)
			_, idx, conf := matcher.Match(tags...)
			if conf != language.No {
				base, _ := supportedTags[idx].Base()
				return base.String()
			}
		}
	}

	return defaultLang
}

// normalizeLang reduces a language tag to a supported base language
func normalizeLang(lang string) string {
	tag, err := language.Parse(lang)
	if err != nil {
		return defaultLang
	}
	base, _ := tag.Base()
	for _, supported := range supportedTags {
		if b, _ := supported.Base(); b == base {
			return base.String()
		}
	}
	return defaultLang
}

func langFromContext(c *gin.Context) string {
	if c == nil {
		return defaultLang
	}
	if lang, ok := c.Get(cnst.XLang); ok {
		if s, ok := lang.(string); ok && s != "" {
			return s
		}
	}
	if c.Request != nil {
		return LanguageFromRequest(c.Request)
	}
	return defaultLang
}

// TranslateMessage translates a message ID using the context's language preference
func TranslateMessage(c *gin.Context, msgID string, data map[string]any) string {
	if t := GetTranslator(); t != nil {
		return t.Translate(msgID, langFromContext(c), data)
	}
	return msgID
}
