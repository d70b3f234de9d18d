package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"syscall"

	"github.com/fivetwenty-io/opencorp/internal/constants"
	"github.com/fivetwenty-io/opencorp/pkg/opencorp"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"
)

// Config is the persisted CLI configuration.
type Config struct {
	APIURL     string `json:"api_url,omitempty"     yaml:"api_url,omitempty"`
	Token      string `json:"token,omitempty"       yaml:"token,omitempty"`
	APIVersion string `json:"api_version,omitempty" yaml:"api_version,omitempty"`
	Output     string `json:"output,omitempty"      yaml:"output,omitempty"`
	Retries    int    `json:"retries,omitempty"     yaml:"retries,omitempty"`
	Cache      string `json:"cache,omitempty"       yaml:"cache,omitempty"`
	NATSURL    string `json:"nats_url,omitempty"    yaml:"nats_url,omitempty"`
}

// NewConfigCommand creates the config command group.
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage CLI configuration",
		Long:  "View and modify the opencorp CLI configuration",
	}

	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigSetCommand())
	cmd.AddCommand(newConfigUnsetCommand())
	cmd.AddCommand(newConfigSetTokenCommand())

	return cmd
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Long:  "Display the merged configuration from flags, config file and environment",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := outputFormat()
			if err != nil {
				return err
			}

			config := loadConfig()
			if config.Token != "" {
				config.Token = Masked
			}

			if format != constants.FormatTable {
				return encode(cmd.OutOrStdout(), format, config)
			}

			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.Header("Property", "Value")
			_ = table.Append("Config File", valueOrNA(viper.ConfigFileUsed()))
			_ = table.Append("API URL", valueOrNA(config.APIURL))
			_ = table.Append("API Version", valueOrNA(config.APIVersion))
			_ = table.Append("Token", valueOrNA(config.Token))
			_ = table.Append("Output", valueOrNA(config.Output))
			_ = table.Append("Retries", strconv.Itoa(config.Retries))
			_ = table.Append("Cache", valueOrNA(config.Cache))
			_ = table.Append("NATS URL", valueOrNA(config.NATSURL))

			if err := table.Render(); err != nil {
				return fmt.Errorf("failed to render table: %w", err)
			}

			return nil
		},
	}
}

func newConfigSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Set a configuration value",
		Long: `Set a configuration value. Keys: api_url, token, api_version, output,
retries, cache, nats_url.`,
		Args: cobra.ExactArgs(2), //nolint:mnd
		RunE: func(cmd *cobra.Command, args []string) error {
			return updateConfig(cmd, "set", args[0], args[1])
		},
	}
}

func newConfigUnsetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "unset KEY",
		Short: "Remove a configuration value",
		Long:  "Reset a configuration value to its default",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return updateConfig(cmd, "unset", args[0], "")
		},
	}
}

func newConfigSetTokenCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set-token [TOKEN]",
		Short: "Store the API token",
		Long:  "Store the API token in the config file. Prompts without echo when TOKEN is omitted.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var token string

			if len(args) == 1 {
				token = args[0]
			} else {
				stdin := int(syscall.Stdin)
				if !term.IsTerminal(stdin) {
					return constants.ErrNonInteractiveNoToken
				}

				_, _ = fmt.Fprint(cmd.ErrOrStderr(), "API token: ")

				secret, err := term.ReadPassword(stdin)
				_, _ = fmt.Fprintln(cmd.ErrOrStderr())

				if err != nil {
					return fmt.Errorf("failed to read token: %w", err)
				}

				token = string(secret)
			}

			if token == "" {
				return constants.ErrTokenRequired
			}

			return updateConfig(cmd, "set", KeyToken, token)
		},
	}
}

func loadConfig() *Config {
	return &Config{
		APIURL:     viper.GetString(KeyAPIURL),
		Token:      viper.GetString(KeyToken),
		APIVersion: viper.GetString(KeyAPIVersion),
		Output:     viper.GetString(KeyOutput),
		Retries:    viper.GetInt(KeyRetries),
		Cache:      viper.GetString(KeyCache),
		NATSURL:    viper.GetString(KeyNATSURL),
	}
}

func updateConfig(cmd *cobra.Command, action, key, value string) error {
	config := loadConfig()

	if err := setConfigValue(config, key, value); err != nil {
		return err
	}

	if err := saveConfigStruct(config); err != nil {
		return err
	}

	viper.Set(key, value)

	display := value
	if key == KeyToken && value != "" {
		display = Masked
	}

	if action == "unset" {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Unset %s\n", key)
	} else {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s\n", key, display)
	}

	return nil
}

// setConfigValue validates and applies one key. An empty value resets it.
func setConfigValue(config *Config, key, value string) error {
	switch key {
	case KeyAPIURL:
		config.APIURL = value
	case KeyToken:
		config.Token = value
	case KeyAPIVersion:
		if value != "" {
			if _, err := opencorp.NewVersionRegistry().Lookup(value); err != nil {
				return err
			}
		}

		config.APIVersion = value
	case KeyOutput:
		switch value {
		case "", constants.FormatTable, constants.FormatJSON, constants.FormatYAML:
		default:
			return fmt.Errorf("%w: %s", constants.ErrInvalidOutputFormat, value)
		}

		config.Output = value
	case KeyRetries:
		retries := 0

		if value != "" {
			parsed, err := strconv.Atoi(value)
			if err != nil || parsed < 0 {
				return fmt.Errorf("%w: retries must be a non-negative integer", constants.ErrInvalidConfigValue)
			}

			retries = parsed
		}

		config.Retries = retries
	case KeyCache:
		switch opencorp.CacheType(value) {
		case "", opencorp.CacheTypeNone, opencorp.CacheTypeMemory, opencorp.CacheTypeNATS:
		default:
			return fmt.Errorf("%w: %s", opencorp.ErrUnsupportedCacheType, value)
		}

		config.Cache = value
	case KeyNATSURL:
		config.NATSURL = value
	default:
		return fmt.Errorf("%w: %s", constants.ErrUnknownConfigKey, key)
	}

	return nil
}

func saveConfigStruct(config *Config) error {
	configFile := viper.ConfigFileUsed()
	if configFile == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get user home directory: %w", err)
		}

		configDir := filepath.Join(home, constants.ConfigDirName)

		err = os.MkdirAll(configDir, constants.ConfigDirPerm)
		if err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}

		configFile = filepath.Join(configDir, constants.ConfigFileName+"."+constants.ConfigFileType)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	err = os.WriteFile(configFile, data, constants.ConfigFilePerm)
	if err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

func valueOrNA(value string) string {
	if value == "" {
		return NotAvailable
	}

	return value
}
