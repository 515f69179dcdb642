package localization

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pitabwire/util"
	"golang.org/x/text/language"

	"github.com/pitabwire/addins/config"
	"github.com/pitabwire/addins/manifest"
	"github.com/pitabwire/addins/resolver"
)

// Package properties read by BundleFactory.
const (
	PropertyTranslationsFolder = "translations_folder"
	PropertyLanguages          = "languages"
	PropertyDefaultLanguage    = "default_language"
)

var _ resolver.Factory = BundleFactory{}

// BundleFactory creates bundle backed localizers for packages. Its zero value
// is ready to use so that it can be named by a localizer reference.
//
// Settings come from the package properties first and from the
// ConfigurationLocalization in the context second.
type BundleFactory struct{}

// CreateLocalizer loads the package translations into a new Manager.
func (BundleFactory) CreateLocalizer(ctx context.Context, pkg *manifest.Package) (resolver.Localizer, error) {
	cfg := config.FromContext[config.ConfigurationLocalization](ctx)

	folder := pkg.Property(PropertyTranslationsFolder)
	if folder == "" && cfg != nil {
		folder = cfg.TranslationsFolder()
	}
	if folder == "" {
		folder = defaultTranslationsFolder
	}
	if !filepath.IsAbs(folder) && pkg.Dir != "" {
		folder = filepath.Join(pkg.Dir, folder)
	}

	languages := splitLanguages(pkg.Property(PropertyLanguages))
	if len(languages) == 0 && cfg != nil {
		languages = cfg.TranslationLanguages()
	}

	defaultLanguage := pkg.Property(PropertyDefaultLanguage)
	if defaultLanguage == "" && cfg != nil {
		defaultLanguage = cfg.DefaultLanguage()
	}
	defaultTag := language.English
	if defaultLanguage != "" {
		tag, err := language.Parse(defaultLanguage)
		if err != nil {
			return nil, fmt.Errorf("default language %q: %w", defaultLanguage, err)
		}
		defaultTag = tag
	}

	for _, lang := range languages {
		if _, err := language.Parse(lang); err != nil {
			return nil, fmt.Errorf("translation language %q: %w", lang, err)
		}
	}

	util.Log(ctx).
		WithField("package", pkg.ID).
		WithField("folder", folder).
		WithField("languages", languages).
		Debug("loading package translations")

	return newManager(defaultTag, folder, languages...)
}

func splitLanguages(value string) []string {
	var languages []string
	for _, lang := range strings.Split(value, ",") {
		if lang = strings.TrimSpace(lang); lang != "" {
			languages = append(languages, lang)
		}
	}
	return languages
}
