package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/drgo/bibstrip"
)

// config keys and the flags that override them
var configFlags = map[string]string{
	"remove_fields": "remove-fields",
	"no_sort":       "no-sort",
	"indent":        "indent",
}

// bindConfig wires flags, BIBSTRIP_* environment variables and defaults
// into v. Flags take precedence over the environment, which takes
// precedence over the config file.
func bindConfig(v *viper.Viper, flags *pflag.FlagSet) {
	def := bibstrip.DefaultConfig()
	v.SetDefault("remove_fields", bibstrip.DefaultRemoveFields)
	v.SetDefault("no_sort", def.NoSort)
	v.SetDefault("indent", def.Indent)
	for key, name := range configFlags {
		if f := flags.Lookup(name); f != nil {
			_ = v.BindPFlag(key, f)
		}
	}
	v.SetEnvPrefix("bibstrip")
	v.AutomaticEnv()
}

// loadConfig reads the config file, if any, and returns the effective
// configuration. A missing default config file is not an error; a missing
// file named with --config is.
func loadConfig(v *viper.Viper, cfgFile string) (bibstrip.Config, error) {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.SetConfigName(".bibstrip")
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return bibstrip.Config{}, fmt.Errorf("unable to read config: %w", err)
		}
	}
	return bibstrip.Config{
		RemoveFields: fieldList(v.Get("remove_fields")),
		NoSort:       v.GetBool("no_sort"),
		Indent:       v.GetString("indent"),
	}, nil
}

// fieldList accepts either a comma-separated string (flags, environment)
// or a YAML sequence (config file).
func fieldList(val any) []string {
	switch val := val.(type) {
	case nil:
		return nil
	case string:
		return bibstrip.ParseFieldList(val).Names()
	case []string:
		return bibstrip.NewFieldSet(val...).Names()
	case []any:
		names := make([]string, 0, len(val))
		for _, name := range val {
			names = append(names, fmt.Sprint(name))
		}
		return bibstrip.NewFieldSet(names...).Names()
	default:
		return bibstrip.ParseFieldList(fmt.Sprint(val)).Names()
	}
}

func newConfigCmd(v *viper.Viper, opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(v, opts.cfgFile)
			if err != nil {
				return err
			}
			if used := v.ConfigFileUsed(); used != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "# %s\n", used)
			}
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(cfg); err != nil {
				return err
			}
			return enc.Close()
		},
	}
}
