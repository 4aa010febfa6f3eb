// Package i18n translates UI strings into English and Kiswahili.
package i18n

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var localeFS embed.FS

type (
	localizerCtxKey struct{}
	langCtxKey      struct{}
)

// fallbackLang is used for strings missing from the active locale.
const fallbackLang = "en"

var bundle *i18n.Bundle

// Supported lists the UI languages with a locale file.
var Supported = []string{"en", "sw"}

// IsSupported reports whether lang has a locale file.
func IsSupported(lang string) bool {
	return slices.Contains(Supported, lang)
}

// Init loads every supported locale with lang as the bundle default.
func Init(lang string) error {
	if !IsSupported(lang) {
		return fmt.Errorf("unsupported language %q (want one of %v)", lang, Supported)
	}
	tag, err := language.Parse(lang)
	if err != nil {
		return fmt.Errorf("parse language %q: %w", lang, err)
	}

	b := i18n.NewBundle(tag)
	b.RegisterUnmarshalFunc("json", json.Unmarshal)
	for _, l := range Supported {
		file := "locales/" + l + ".json"
		data, err := localeFS.ReadFile(file)
		if err != nil {
			return fmt.Errorf("read locale %s: %w", file, err)
		}
		if _, err := b.ParseMessageFileBytes(data, l+".json"); err != nil {
			return fmt.Errorf("parse locale %s: %w", file, err)
		}
		slog.Debug("loaded locale", "lang", l)
	}
	bundle = b
	return nil
}

// NewLocalizer creates a localizer for lang that falls back to English.
func NewLocalizer(lang string) *i18n.Localizer {
	return i18n.NewLocalizer(bundle, lang, fallbackLang)
}

// WithLocalizer stores a localizer in the context.
func WithLocalizer(ctx context.Context, loc *i18n.Localizer) context.Context {
	return context.WithValue(ctx, localizerCtxKey{}, loc)
}

// WithLang stores the active UI language in the context.
func WithLang(ctx context.Context, lang string) context.Context {
	return context.WithValue(ctx, langCtxKey{}, lang)
}

// Lang returns the active UI language, English when unset.
func Lang(ctx context.Context) string {
	if l, ok := ctx.Value(langCtxKey{}).(string); ok && l != "" {
		return l
	}
	return fallbackLang
}

func localize(ctx context.Context, cfg *i18n.LocalizeConfig) string {
	loc, ok := ctx.Value(localizerCtxKey{}).(*i18n.Localizer)
	if !ok {
		loc = NewLocalizer(Lang(ctx))
	}
	s, err := loc.Localize(cfg)
	if err != nil {
		slog.Warn("missing translation", "id", cfg.MessageID, "lang", Lang(ctx), "error", err)
		return cfg.MessageID
	}
	return s
}

// T translates a message by ID. Unknown IDs come back unchanged.
func T(ctx context.Context, msgID string) string {
	return localize(ctx, &i18n.LocalizeConfig{MessageID: msgID})
}

// Td translates a message by ID with template data.
func Td(ctx context.Context, msgID string, data map[string]any) string {
	return localize(ctx, &i18n.LocalizeConfig{MessageID: msgID, TemplateData: data})
}

// Tp translates a pluralized message; the template sees the count as .Count.
func Tp(ctx context.Context, msgID string, count int) string {
	return localize(ctx, &i18n.LocalizeConfig{
		MessageID:    msgID,
		PluralCount:  count,
		TemplateData: map[string]any{"Count": count},
	})
}
