package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"FitCoach_V0.1/internal/coach"
	"FitCoach_V0.1/internal/domain"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

type servicesLoader func(logLevel string) (coach.Services, error)

func rootCmd(load servicesLoader) *cobra.Command {
	var (
		logLevel string
		svc      coach.Services
	)

	cmd := &cobra.Command{
		Use:   appName,
		Short: "AI fitness coach operator tool",
		Long: `fitcoach generates 7-day workout and diet plans, motivation quotes,
exercise and meal images, and spoken plan summaries from the command line.

Provider credentials are read from the environment (or .env), exactly as the
API server reads them.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			var err error
			svc, err = load(logLevel)
			return err
		},
	}
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	cmd.AddCommand(
		planCmd(&svc),
		quoteCmd(&svc),
		imageCmd(&svc),
		speakCmd(&svc),
		&cobra.Command{
			Use:   "version",
			Short: "Print version information",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", appName, Version)
			},
		},
	)
	return cmd
}

func planCmd(svc *coach.Services) *cobra.Command {
	var profilePath, format string

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Generate a 7-day plan for a profile file",
		RunE: func(cmd *cobra.Command, args []string) error {
			profile, err := readProfile(profilePath)
			if err != nil {
				return err
			}
			profile = profile.Sanitized()
			if err := profile.Validate(); err != nil {
				return err
			}

			plan := svc.Plans.GeneratePlan(cmd.Context(), profile)
			return writeFormatted(cmd, plan, format)
		},
	}
	cmd.Flags().StringVarP(&profilePath, "profile", "p", "", "Profile file (JSON or YAML)")
	cmd.Flags().StringVarP(&format, "format", "f", "json", "Output format (json, yaml)")
	_ = cmd.MarkFlagRequired("profile")
	return cmd
}

func quoteCmd(svc *coach.Services) *cobra.Command {
	return &cobra.Command{
		Use:   "quote",
		Short: "Print a motivation quote",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), svc.Plans.GenerateMotivationQuote(cmd.Context()))
			return nil
		},
	}
}

func imageCmd(svc *coach.Services) *cobra.Command {
	var kind string

	cmd := &cobra.Command{
		Use:   "image NAME",
		Short: "Resolve an image URL for an exercise or meal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			k := domain.ImageKind(kind)
			if !k.Valid() {
				return fmt.Errorf(`--type must be "exercise" or "meal", got %q`, kind)
			}
			res := svc.Images.GenerateImage(cmd.Context(), args[0], k)
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", res.Model, res.ImageURL)
			return nil
		},
	}
	cmd.Flags().StringVarP(&kind, "type", "t", string(domain.KindExercise), "Item type (exercise, meal)")
	return cmd
}

func speakCmd(svc *coach.Services) *cobra.Command {
	var text, out string

	cmd := &cobra.Command{
		Use:   "speak",
		Short: "Synthesize text to an MP3 file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(text) == "" {
				return errors.New("--text is required")
			}
			audio, err := svc.Speech.GenerateSpeech(cmd.Context(), text, svc.SpeechKey)
			if err != nil {
				return err
			}
			if err := os.WriteFile(out, audio, 0o644); err != nil {
				return fmt.Errorf("failed to write audio: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d bytes to %s\n", len(audio), out)
			return nil
		},
	}
	cmd.Flags().StringVar(&text, "text", "", "Text to speak")
	cmd.Flags().StringVarP(&out, "out", "o", "plan.mp3", "Output file")
	return cmd
}

func readProfile(path string) (domain.UserProfile, error) {
	var profile domain.UserProfile

	data, err := os.ReadFile(path)
	if err != nil {
		return profile, fmt.Errorf("failed to read profile: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &profile)
	default:
		err = json.Unmarshal(data, &profile)
	}
	if err != nil {
		return profile, fmt.Errorf("failed to parse profile %s: %w", path, err)
	}
	return profile, nil
}

func writeFormatted(cmd *cobra.Command, v any, format string) error {
	w := cmd.OutOrStdout()
	switch strings.ToLower(format) {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(v)
	default:
		return fmt.Errorf("unknown format %q (want json or yaml)", format)
	}
}
