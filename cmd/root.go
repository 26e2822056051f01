/*
 * Nuts co-sign
 * Copyright (C) 2020. Nuts community
 *
 * This program is free software: you can redistribute it and/or modify
 * it under the terms of the GNU General Public License as published by
 * the Free Software Foundation, either version 3 of the License, or
 * (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License
 * along with this program.  If not, see <https://www.gnu.org/licenses/>.
 */

package cmd

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/nuts-foundation/nuts-cosign/engine"
	"github.com/nuts-foundation/nuts-cosign/logging"
	"github.com/nuts-foundation/nuts-cosign/pkg"
)

const envPrefix = "COSIGN"

const (
	confConfigFile = "configfile"
	confVerbosity  = "verbosity"
)

var e = engine.NewCoSignEngine()
var rootCmd = e.Cmd

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	v := viper.New()
	setupRoot(rootCmd, e, v)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func setupRoot(root *cobra.Command, e *engine.Engine, v *viper.Viper) {
	flags := root.PersistentFlags()
	flags.AddFlagSet(e.FlagSet)
	flags.String(confConfigFile, "", "path to a yaml, json or toml config file")
	flags.String(confVerbosity, "info", "log level (trace, debug, info, warn, error)")

	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(v, cmd.Flags(), e.Config); err != nil {
			return err
		}
		level, err := logrus.ParseLevel(v.GetString(confVerbosity))
		if err != nil {
			return errors.Wrapf(err, "invalid %s", confVerbosity)
		}
		logrus.SetLevel(level)
		return nil
	}
	root.AddCommand(configCmd(v))
}

// loadConfig fills target from, in order of precedence, flags, COSIGN_ environment variables, the config file and the flag defaults.
func loadConfig(v *viper.Viper, flags *pflag.FlagSet, target interface{}) error {
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(flags); err != nil {
		return errors.Wrap(err, "unable to bind flags")
	}

	if configFile := v.GetString(confConfigFile); configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return errors.Wrapf(err, "unable to read config file %s", configFile)
		}
		logging.Log().Infof("loaded config from %s", configFile)
	}

	if err := v.Unmarshal(target); err != nil {
		return errors.Wrap(err, "unable to parse configuration")
	}
	return nil
}

func configCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Prints the current config",
		Run: func(cmd *cobra.Command, args []string) {
			printConfig(v, cmd.OutOrStdout())
		},
	}
}

// printConfig prints all settings, secrets are masked
func printConfig(v *viper.Viper, out io.Writer) {
	keys := v.AllKeys()
	sort.Strings(keys)
	for _, key := range keys {
		value := fmt.Sprintf("%v", v.Get(key))
		if strings.EqualFold(key, pkg.ConfTokenSecret) && value != "" {
			value = "********"
		}
		fmt.Fprintf(out, "%s: %s\n", key, value)
	}
}
