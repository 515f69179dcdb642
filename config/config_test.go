package config

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type ConfigSuite struct {
	suite.Suite
}

func TestConfigSuite(t *testing.T) {
	suite.Run(t, new(ConfigSuite))
}

func (s *ConfigSuite) TestContextHelpersAndKeyString() {
	ctx := context.Background()
	cfg := &ConfigurationDefault{TranslationsFolderPath: "i18n"}

	s.Equal("addins/config/configurationKey", ctxKeyConfiguration.String())

	ctx = ToContext(ctx, cfg)
	fromCtx := FromContext[ConfigurationLocalization](ctx)
	s.Require().NotNil(fromCtx)
	s.Equal("i18n", fromCtx.TranslationsFolder())

	missing := FromContext[*ConfigurationDefault](context.Background())
	s.Nil(missing)
}

func (s *ConfigSuite) TestFromEnvAndFillEnv() {
	type envCfg struct {
		Value string `env:"ADDINS_TEST_VALUE"`
	}

	s.T().Setenv("ADDINS_TEST_VALUE", "abc")

	fromEnv, err := FromEnv[envCfg]()
	s.Require().NoError(err)
	s.Equal("abc", fromEnv.Value)

	var target envCfg
	s.Require().NoError(FillEnv(&target))
	s.Equal("abc", target.Value)
}

func (s *ConfigSuite) TestDefaults() {
	cfg, err := FromEnv[ConfigurationDefault]()
	s.Require().NoError(err)

	s.Equal("info", cfg.LoggingLevel())
	s.False(cfg.LoggingLevelIsDebug())
	s.True(cfg.LoggingColored())
	s.Equal("localization", cfg.TranslationsFolder())
	s.Equal([]string{"en"}, cfg.TranslationLanguages())
	s.Equal("en", cfg.DefaultLanguage())
}

func (s *ConfigSuite) TestLocalizationFromEnv() {
	s.T().Setenv("TRANSLATIONS_FOLDER", "/srv/i18n")
	s.T().Setenv("TRANSLATION_LANGUAGES", "en,sw,fr")
	s.T().Setenv("DEFAULT_LANGUAGE", "sw")
	s.T().Setenv("LOG_LEVEL", "debug")

	cfg, err := FromEnv[ConfigurationDefault]()
	s.Require().NoError(err)

	s.Equal("/srv/i18n", cfg.TranslationsFolder())
	s.Equal([]string{"en", "sw", "fr"}, cfg.TranslationLanguages())
	s.Equal("sw", cfg.DefaultLanguage())
	s.True(cfg.LoggingLevelIsDebug())
}

func (s *ConfigSuite) TestLoggingGetters() {
	cfg := &ConfigurationDefault{
		LogLevel:          "trace",
		LogTimeFormat:     time.RFC3339,
		LogColored:        false,
		LogShowStackTrace: true,
	}

	s.Equal("trace", cfg.LoggingLevel())
	s.Equal(time.RFC3339, cfg.LoggingTimeFormat())
	s.False(cfg.LoggingColored())
	s.True(cfg.LoggingShowStackTrace())
	s.True(cfg.LoggingLevelIsDebug())
}
