package cnst

const (
	LangEN      = "en"
	LangES      = "es"
	LangDefault = LangEN
)

const (
	// XLang is the header (and gin context key) carrying the preferred language
	XLang = "X-Lang"
	// CtxKeyTranslator is the context key of the translator
	CtxKeyTranslator = "translator"
)
