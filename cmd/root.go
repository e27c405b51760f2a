/*
Copyright © 2025 Dmitry Mozzherin <dmozzherin@gmail.com>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/gnames/gn"
	"github.com/gnames/geopephub/internal/iofs"
	"github.com/gnames/geopephub/internal/iologger"
	app "github.com/gnames/geopephub/pkg"
	"github.com/gnames/geopephub/pkg/config"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	homeDir string
	opts    []config.Option
	cfg     *config.Config
	logger  = slog.New(slog.DiscardHandler)
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = getRootCmd()

// getRootCmd builds the command tree.
// Extracted as a function to facilitate testing.
func getRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Version: fmt.Sprintf("version: %s\nbuild:   %s", app.Version, app.Build),
		Use:     "geopephub",
		Short:   "geopephub uploads GEO series to the PEPhub catalog",
		Long: `geopephub finds GEO series published in a time window, converts
their metadata into projects and writes them to the PEPhub catalog.

Work is organized in upload cycles. A cycle covers one window of one
target namespace (geo or bedbase) and keeps the status of every
accession, so interrupted or failed work can be finished later by
the checker.

Typical schedule:
  geopephub run-queuer --target geo --period 1
  geopephub run-uploader --target geo
  geopephub run-checker --target geo --period 1 --cycle-count 3

Configuration precedence (highest to lowest):
  1. CLI flags
  2. Environment variables (GEOPEPHUB_*)
  3. Config file (~/.config/geopephub/config.yaml)
  4. Built-in defaults`,
		PersistentPreRunE: bootstrap,
		SilenceErrors:     true,
		SilenceUsage:      true,
	}

	// Remove the automatic "geopephub version" prefix
	cmd.SetVersionTemplate("{{.Version}}\n")

	// Override version flag to use -V (consistent with other gn projects)
	cmd.Flags().BoolP("version", "V", false, "version for geopephub")

	cmd.AddCommand(
		getCreateCmd(),
		getMigrateCmd(),
		getOptimizeCmd(),
		getRunQueuerCmd(),
		getRunUploaderCmd(),
		getRunCheckerCmd(),
		getCheckByDateCmd(),
		getRunOneCmd(),
		getStatusCmd(),
		getStatsCmd(),
	)
	return cmd
}

func bootstrap(cmd *cobra.Command, args []string) error {
	var err error
	homeDir, err = os.UserHomeDir()
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if err = iofs.EnsureDirs(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if err = iofs.EnsureConfigFile(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	var cfgViper *config.Config
	if cfgViper, err = initConfig(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	cfg = config.New()
	opts = cfgViper.ToOptions()
	cfg.Update(opts)

	// Set HomeDir after config is loaded
	cfg.Update([]config.Option{config.OptHomeDir(homeDir)})

	l, err := iologger.New(config.LogDir(homeDir), cfg.Log, true)
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}
	logger = iologger.WithRunID(l, uuid.NewString()).
		With("command", cmd.Name())

	logger.Info("Configuration loaded",
		"version", app.Version,
		"config_file", config.ConfigFilePath(homeDir),
	)

	return nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func initConfig(home string) (*config.Config, error) {
	var err error
	cfgPath := config.ConfigFilePath(home)
	v := viper.New()
	v.SetConfigFile(cfgPath)

	initEnvVars(v)

	if err = v.ReadInConfig(); err != nil {
		return nil, iofs.ReadFileError(cfgPath, err)
	}

	var res config.Config
	if err = v.Unmarshal(&res); err != nil {
		return nil, iofs.ReadFileError(cfgPath, err)
	}

	return &res, nil
}

func initEnvVars(v *viper.Viper) {
	// We set them manually so we can see clearly which env variables are allowed.
	// These match the fields included in config.ToOptions() - i.e., persistent
	// configuration that can be stored in config.yaml.
	v.SetEnvPrefix("GEOPEPHUB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Database configuration
	v.BindEnv("database.host", "GEOPEPHUB_DATABASE_HOST")
	v.BindEnv("database.port", "GEOPEPHUB_DATABASE_PORT")
	v.BindEnv("database.user", "GEOPEPHUB_DATABASE_USER")
	v.BindEnv("database.password", "GEOPEPHUB_DATABASE_PASSWORD")
	v.BindEnv("database.database", "GEOPEPHUB_DATABASE_DATABASE")
	v.BindEnv("database.ssl_mode", "GEOPEPHUB_DATABASE_SSL_MODE")

	// GEO configuration
	v.BindEnv("geo.eutils_url", "GEOPEPHUB_GEO_EUTILS_URL")
	v.BindEnv("geo.api_key", "GEOPEPHUB_GEO_API_KEY")
	v.BindEnv("geo.email", "GEOPEPHUB_GEO_EMAIL")
	v.BindEnv("geo.requests_per_second", "GEOPEPHUB_GEO_REQUESTS_PER_SECOND")
	v.BindEnv("geo.discovery", "GEOPEPHUB_GEO_DISCOVERY")
	v.BindEnv("geo.geometadb_path", "GEOPEPHUB_GEO_GEOMETADB_PATH")
	v.BindEnv("geo.retmax", "GEOPEPHUB_GEO_RETMAX")

	// Fetch configuration
	v.BindEnv("fetch.timeout", "GEOPEPHUB_FETCH_TIMEOUT")
	v.BindEnv("fetch.soft_url", "GEOPEPHUB_FETCH_SOFT_URL")

	// Catalog configuration
	v.BindEnv("catalog.pep_schema", "GEOPEPHUB_CATALOG_PEP_SCHEMA")
	v.BindEnv("catalog.private", "GEOPEPHUB_CATALOG_PRIVATE")

	// Metrics configuration
	v.BindEnv("metrics.pushgateway_url", "GEOPEPHUB_METRICS_PUSHGATEWAY_URL")
	v.BindEnv("metrics.job", "GEOPEPHUB_METRICS_JOB")

	// Log configuration
	v.BindEnv("log.level", "GEOPEPHUB_LOG_LEVEL")
	v.BindEnv("log.format", "GEOPEPHUB_LOG_FORMAT")
	v.BindEnv("log.destination", "GEOPEPHUB_LOG_DESTINATION")

	v.AutomaticEnv()
}
