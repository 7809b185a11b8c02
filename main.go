package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	configFile    string
	postsOverride int
	debugMode     bool
)

var rootCmd = &cobra.Command{
	Use:   "seoracle",
	Short: "SEO content generator for WordPress",
	Long: `Generates SEO-optimized articles from a keyword list using a
generative text API and publishes them to a WordPress site.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		log := newLogger(debugMode)

		settings, err := LoadSettings(configFile)
		if err != nil {
			return err
		}
		if postsOverride > 0 {
			settings.Content.PostsPerRun = postsOverride
		}

		text, err := newTextGenerator(settings)
		if err != nil {
			return err
		}

		var images *ImageGenerator
		if settings.Content.GenerateImages {
			images, err = NewImageGenerator(NewOpenAIClient(settings.OpenAI), settings.Content.ImagesTempDir, log)
			if err != nil {
				return err
			}
		}

		wp := NewWordPressClient(settings.WordPress.SiteURL, settings.WordPress.Username, settings.WordPress.AppPassword, log)

		generator := NewSEOContentGenerator(settings, text, images, wp, log)
		results, err := generator.Run()
		if err != nil {
			return err
		}

		published := 0
		for _, result := range results {
			if result.Status == StatusSuccess {
				published++
			}
		}
		log.WithFields(logrus.Fields{
			"attempted": len(results),
			"published": published,
			"failed":    len(results) - published,
		}).Info("run summary")
		return nil
	},
}

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Interactively create settings.yaml and the keywords file",
	RunE: func(cmd *cobra.Command, args []string) error {
		return newSetupWizard(os.Stdin, os.Stdout).Run(configFile)
	},
}

func newTextGenerator(settings *Settings) (TextGenerator, error) {
	switch settings.Provider {
	case "anthropic":
		return NewAnthropicClient(settings.Anthropic), nil
	case "openai":
		return NewOpenAIClient(settings.OpenAI), nil
	default:
		return nil, &ConfigError{Reason: fmt.Sprintf("unknown provider %q", settings.Provider)}
	}
}

func newLogger(debug bool) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stdout)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	switch {
	case debug:
		log.SetLevel(logrus.DebugLevel)
	case os.Getenv("LOG_LEVEL") == "DEBUG":
		log.SetLevel(logrus.DebugLevel)
	case os.Getenv("LOG_LEVEL") == "WARN":
		log.SetLevel(logrus.WarnLevel)
	default:
		log.SetLevel(logrus.InfoLevel)
	}
	return log
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", defaultSettingsFile, "Path to the settings file")
	rootCmd.Flags().IntVar(&postsOverride, "posts", 0, "Number of posts to generate this run")
	rootCmd.Flags().BoolVar(&debugMode, "debug", false, "Enable debug logging")
	rootCmd.AddCommand(setupCmd)
}

func main() {
	// Credentials may live in a local .env file.
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
