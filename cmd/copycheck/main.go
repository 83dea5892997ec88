// Command copycheck runs the copyright pre-check pipeline from the command
// line: against a local file, or against a source URL via the platform
// content-ID check. Exits non-zero when the verdict is "failed", so it can
// gate upload pipelines.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	copycheck "github.com/anatolykoptev/go-copycheck"
	"github.com/spf13/cobra"
)

// Set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
)

var rootCtx = context.Background()

var (
	flagMIME       string
	flagRecord     string
	flagCMSURL     string
	flagCMSToken   string
	flagCollection string
	flagJSON       bool
)

var rootCmd = &cobra.Command{
	Use:   "copycheck",
	Short: "Copyright pre-check for uploaded course material",
	Long: `copycheck combines heuristic signals (filename patterns, file size,
media duration, embedded rights metadata, source-host reputation, platform
content-ID lookups) into a single copyright verdict for course uploads.`,
	SilenceUsage: true,
}

var fileCmd = &cobra.Command{
	Use:   "file <path>",
	Short: "Check a local file and print the verdict",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		st, err := os.Stat(args[0])
		if err != nil {
			return err
		}

		cfg := buildConfig()
		res, err := cfg.Check(rootCtx, copycheck.CheckRequest{
			Provider: copycheck.ProviderAutomated,
			File: &copycheck.FileUpload{
				Name:     filepath.Base(args[0]),
				Size:     st.Size(),
				Modified: st.ModTime(),
				MIMEType: flagMIME,
				Data:     data,
			},
		})
		if err != nil {
			return err
		}
		return report(cfg, res)
	},
}

var urlCmd = &cobra.Command{
	Use:   "url <url>",
	Short: "Check a source URL via the platform content-ID service",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		cfg := buildConfig()
		res, err := cfg.Check(rootCtx, copycheck.CheckRequest{
			Provider:  copycheck.ProviderPlatformMatch,
			SourceURL: args[0],
		})
		if err != nil {
			return err
		}
		return report(cfg, res)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Printf("copycheck %s (%s)\n", version, commit)
	},
}

func buildConfig() *copycheck.Config {
	cfg := &copycheck.Config{
		ContentCollection: flagCollection,
	}
	if flagCMSURL != "" {
		cfg.CMS = &copycheck.CMSClient{
			BaseURL: flagCMSURL,
			Token:   flagCMSToken,
			Timeout: 15 * time.Second,
		}
	}
	return cfg
}

// report prints the verdict, persists it when a CMS record was named, and
// maps a failed verdict to a non-zero exit.
func report(cfg *copycheck.Config, res *copycheck.CheckResult) error {
	if flagJSON {
		out, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
	} else {
		fmt.Printf("status: %s\n", res.Status)
		for _, v := range res.Violations {
			fmt.Printf("violation: %s (confidence %.2f) %s\n", v.Type, v.Confidence, v.Message)
		}
		for _, w := range res.Warnings {
			fmt.Printf("warning: %s [%s] %s\n", w.Type, w.Severity, w.Message)
		}
		if res.Fingerprint != "" {
			fmt.Printf("fingerprint: %s\n", res.Fingerprint)
		}
	}

	if flagRecord != "" {
		if err := cfg.PersistResult(rootCtx, flagRecord, res); err != nil {
			return err
		}
		slog.Info("verdict persisted", "record", flagRecord, "status", res.Status.String())
	}

	if res.Status == copycheck.StatusFailed {
		os.Exit(1)
	}
	return nil
}

func main() {
	rootCmd.PersistentFlags().StringVar(&flagCMSURL, "cms-url", os.Getenv("COPYCHECK_CMS_URL"), "base URL of the CMS")
	rootCmd.PersistentFlags().StringVar(&flagCMSToken, "cms-token", os.Getenv("COPYCHECK_CMS_TOKEN"), "CMS API token")
	rootCmd.PersistentFlags().StringVar(&flagCollection, "collection", "course-materials", "CMS collection of the checked record")
	rootCmd.PersistentFlags().StringVar(&flagRecord, "record", "", "documentId of the record to persist the verdict onto")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "print the full result as JSON")
	fileCmd.Flags().StringVar(&flagMIME, "mime", "application/octet-stream", "MIME type of the file")

	rootCmd.AddCommand(fileCmd, urlCmd, versionCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
