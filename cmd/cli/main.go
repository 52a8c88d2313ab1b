package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"clinicsetup/adapters/excel"
	"clinicsetup/adapters/llm"
	"clinicsetup/app"
	"clinicsetup/domain/sheet"
	"clinicsetup/internal"
	"clinicsetup/internal/config"
	"clinicsetup/internal/container"
	"clinicsetup/internal/domains"
	"clinicsetup/internal/extraction"
)

func main() {
	var logLevel string

	rootCmd := &cobra.Command{
		Use:          "clinicsetup-cli",
		Short:        "Inspect and import clinic setup spreadsheets",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level: error|warn|info|debug|trace")

	logger := func() *internal.Logger {
		return internal.NewLoggerTo(os.Stderr, internal.ParseLogLevel(logLevel), "text")
	}

	rootCmd.AddCommand(
		newDomainsCmd(),
		newHeadersCmd(logger),
		newPreviewCmd(logger),
		newImportCmd(logger),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newDomainsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "domains",
		Short: "List import domains and the collections they feed",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, name := range domains.Names() {
				d, _ := domains.Lookup(name)
				fmt.Fprintf(out, "%-12s -> %s\n", name, strings.Join(d.Collections(), ", "))
			}
			return nil
		},
	}
}

func newHeadersCmd(logger func() *internal.Logger) *cobra.Command {
	var domainName string

	cmd := &cobra.Command{
		Use:   "headers [file]",
		Short: "Show the located header row and kept rows per sheet",
		Long: `Locate the header row of every sheet the domain reads and report the
rows that survive blank-row filtering.

Example: clinicsetup-cli headers inventory.xlsx --domain inventory`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			preview, err := runPreview(logger(), domainName, args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, t := range preview.Tables {
				fmt.Fprintf(out, "sheet %q: header at row %d, %d data rows\n", t.Kind, t.HeaderIndex+1, len(t.Rows))
				fmt.Fprintf(out, "  header: %s\n", rowText(t.Header))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&domainName, "domain", "", "Import domain (see `domains`)")
	_ = cmd.MarkFlagRequired("domain")
	return cmd
}

func newPreviewCmd(logger func() *internal.Logger) *cobra.Command {
	var domainName string

	cmd := &cobra.Command{
		Use:   "preview [file]",
		Short: "Print the extraction request an import would send",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			preview, err := runPreview(logger(), domainName, args[0])
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), preview)
		},
	}
	cmd.Flags().StringVar(&domainName, "domain", "", "Import domain (see `domains`)")
	_ = cmd.MarkFlagRequired("domain")
	return cmd
}

func newImportCmd(logger func() *internal.Logger) *cobra.Command {
	var (
		domainName   string
		existingPath string
		responsePath string
	)

	cmd := &cobra.Command{
		Use:   "import [file]",
		Short: "Run a full import and print the merged collections",
		Long: `Run the import pipeline against a fresh session and print the merged
collections as JSON.

Without --response the OpenAI extractor is used and OPENAI_API_KEY must be set.

Example:
  clinicsetup-cli import memberships.xlsx --domain memberships \
    --existing current.json --response canned.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(".env")
			if err != nil {
				return err
			}

			opts := []container.Option{container.WithLogger(logger())}
			if responsePath != "" {
				static, err := llm.NewStaticExtractorFromFile(responsePath)
				if err != nil {
					return err
				}
				opts = append(opts, container.WithExtractor(static))
			}
			c, err := container.New(cfg, opts...)
			if err != nil {
				return err
			}
			defer c.Shutdown(cmd.Context())

			snap := c.SessionService.Create()
			if existingPath != "" {
				if err := seedSession(c.SessionService, snap.ID, existingPath); err != nil {
					return err
				}
			}

			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", args[0], err)
			}
			result, err := c.ImportService.Import(cmd.Context(), app.ImportRequest{
				SessionID: snap.ID,
				Domain:    domainName,
				Filename:  filepath.Base(args[0]),
				Data:      data,
				Progress: func(phase string) {
					c.Logger.Info("[CLI] %s", phase)
				},
			})
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), result)
		},
	}
	cmd.Flags().StringVar(&domainName, "domain", "", "Import domain (see `domains`)")
	cmd.Flags().StringVar(&existingPath, "existing", "", "JSON object of collection name to records to merge into")
	cmd.Flags().StringVar(&responsePath, "response", "", "Canned extraction response to use instead of OpenAI")
	_ = cmd.MarkFlagRequired("domain")
	return cmd
}

func runPreview(logger *internal.Logger, domainName, path string) (*app.PreviewResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	service := app.NewImportService(nil, excel.NewWorkbookReader(logger), nil, nil,
		extraction.NewPromptManager(os.Getenv("PROMPTS_DIR")), app.ImportConfig{}, logger)
	return service.Preview(domainName, filepath.Base(path), data)
}

func seedSession(sessions *app.SessionService, id, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	var existing map[string][]any
	if err := json.Unmarshal(raw, &existing); err != nil {
		return fmt.Errorf("%s must be a JSON object of record arrays: %w", path, err)
	}
	for collection, records := range existing {
		if _, err := sessions.ReplaceCollection(id, collection, records); err != nil {
			return err
		}
	}
	return nil
}

func rowText(row sheet.Row) string {
	cells := make([]string, len(row))
	for i, c := range row {
		cells[i] = sheet.CellText(c)
	}
	return strings.Join(cells, " | ")
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
