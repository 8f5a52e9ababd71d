package utils

// Server-side labels for the wizard steps and the few messages the API returns.

var translations = map[string]map[string]string{
	"en": {
		"health.ok":                    "ok",
		"step.landing":                 "Welcome",
		"step.payment-configuration":   "Payment Configuration",
		"step.redirect-links-received": "Redirect Links",
		"step.live-links-generation":   "Live Links",
		"step.screener-configuration":  "Screener Configuration",
		"step.participant-selection":   "Participant Selection",
		"step.flow-review":             "Review",
		"step.flow-active":             "Flow Active",
		"progress.label":               "Step %d of %d",
	},
	"zh": {
		"health.ok":                    "好的",
		"step.landing":                 "欢迎",
		"step.payment-configuration":   "付费配置",
		"step.redirect-links-received": "跳转链接",
		"step.live-links-generation":   "正式链接",
		"step.screener-configuration":  "筛选问卷配置",
		"step.participant-selection":   "参与者选择",
		"step.flow-review":             "审核",
		"step.flow-active":             "流程已启用",
		"progress.label":               "第 %d 步，共 %d 步",
	},
}

// SupportedLocales lists the locales T knows, default first.
var SupportedLocales = []string{"en", "zh"}

// T returns the translated string for key in locale; falls back to English.
func T(locale, key string) string {
	if m, ok := translations[locale]; ok {
		if v, ok := m[key]; ok {
			return v
		}
	}
	if m, ok := translations["en"]; ok {
		if v, ok := m[key]; ok {
			return v
		}
	}
	return key
}
