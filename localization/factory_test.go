package localization_test

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/pitabwire/addins/config"
	"github.com/pitabwire/addins/localization"
	"github.com/pitabwire/addins/localizer"
	"github.com/pitabwire/addins/manifest"
	"github.com/pitabwire/addins/resolver"
)

type FactoryTestSuite struct {
	suite.Suite
}

func TestFactorySuite(t *testing.T) {
	suite.Run(t, &FactoryTestSuite{})
}

func (s *FactoryTestSuite) TestPropertiesRelativeToPackageDir() {
	ctx := context.Background()
	pkg := manifest.New("editor", "1.0.0")
	pkg.Dir = filepath.Join("test_data", "addin")
	pkg.Properties[localization.PropertyTranslationsFolder] = "i18n"
	pkg.Properties[localization.PropertyLanguages] = " en , sw "

	loc, err := localization.BundleFactory{}.CreateLocalizer(ctx, pkg)
	s.Require().NoError(err)

	vars := map[string]any{"File": "notes.txt"}
	s.Equal("Save notes.txt", loc.TranslateWithMap(ctx, "en", "SaveFile", vars))
	s.Equal("Hifadhi notes.txt", loc.TranslateWithMap(ctx, "sw", "SaveFile", vars))
}

func (s *FactoryTestSuite) TestConfigurationDefaults() {
	ctx := config.ToContext(context.Background(), &config.ConfigurationDefault{
		TranslationsFolderPath:  "test_data",
		TranslationLanguageTags: []string{"en", "sw"},
		DefaultLanguageTag:      "sw",
	})
	pkg := manifest.New("core", "")

	loc, err := localization.BundleFactory{}.CreateLocalizer(ctx, pkg)
	s.Require().NoError(err)

	// An unknown language falls back to the configured default.
	s.Equal("Habari Zawadi", loc.TranslateWithMap(ctx, "fr", "Greeting", map[string]any{"Name": "Zawadi"}))
}

func (s *FactoryTestSuite) TestInvalidLanguages() {
	ctx := context.Background()

	pkg := manifest.New("core", "")
	pkg.Properties[localization.PropertyTranslationsFolder] = "test_data"
	pkg.Properties[localization.PropertyDefaultLanguage] = "not a tag!"
	_, err := localization.BundleFactory{}.CreateLocalizer(ctx, pkg)
	s.Require().Error(err)

	pkg = manifest.New("core", "")
	pkg.Properties[localization.PropertyTranslationsFolder] = "test_data"
	pkg.Properties[localization.PropertyLanguages] = "en,???"
	_, err = localization.BundleFactory{}.CreateLocalizer(ctx, pkg)
	s.Require().Error(err)
}

// TestResolveManifests loads declarations from disk, resolves the deferred
// factory type and reuses the published localizer through a shared id.
func (s *FactoryTestSuite) TestResolveManifests() {
	ctx := context.Background()

	registry := resolver.NewRegistry()
	resolver.Register[localization.BundleFactory](registry)
	res := resolver.New(resolver.WithRegistry(registry))

	editor, err := manifest.Load(filepath.Join("test_data", "addin", "addin.toml"))
	s.Require().NoError(err)

	ref := editor.Localizer()
	s.Equal(localizer.ModeType, ref.Mode())
	_, loaded := ref.Type()
	s.False(loaded)

	loc, err := res.Resolve(ctx, editor)
	s.Require().NoError(err)
	s.Equal("Hifadhi a.txt", loc.TranslateWithMap(ctx, "sw", "SaveFile", map[string]any{"File": "a.txt"}))

	spellcheck, err := manifest.Load(filepath.Join("test_data", "addin", "spellcheck.yaml"))
	s.Require().NoError(err)

	shared, err := res.Resolve(ctx, spellcheck)
	s.Require().NoError(err)
	s.Same(loc, shared)
}

func (s *FactoryTestSuite) TestResolveUnregisteredDeferredType() {
	editor, err := manifest.Load(filepath.Join("test_data", "addin", "addin.toml"))
	s.Require().NoError(err)

	_, err = resolver.New().Resolve(context.Background(), editor)
	s.Require().ErrorIs(err, resolver.ErrTypeNotFound)

	// Loading the type in process makes the registry unnecessary.
	editor.UpdateLocalizer(func(ref *localizer.Reference) {
		ref.SetType(reflect.TypeFor[localization.BundleFactory]())
	})

	loc, err := resolver.New().Resolve(context.Background(), editor)
	s.Require().NoError(err)
	s.Equal("Save b.txt", loc.TranslateWithMap(context.Background(), "en", "SaveFile", map[string]any{"File": "b.txt"}))
}
