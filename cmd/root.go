/*
 Licensed under the Apache License, Version 2.0 (the "License");
 you may not use this file except in compliance with the License.
 You may obtain a copy of the License at

     https://www.apache.org/licenses/LICENSE-2.0

 Unless required by applicable law or agreed to in writing, software
 distributed under the License is distributed on an "AS IS" BASIS,
 WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 See the License for the specific language governing permissions and
 limitations under the License.
*/


package cmd

import (
	"fmt"
	"io"

	"github.com/pkg/profile"
	"github.com/spf13/cobra"

	"jinr.ru/greenlab/go-marx/cmd/agent"
	"jinr.ru/greenlab/go-marx/cmd/completion"
	"jinr.ru/greenlab/go-marx/cmd/config"
	"jinr.ru/greenlab/go-marx/cmd/control"
	"jinr.ru/greenlab/go-marx/cmd/marx"
	"jinr.ru/greenlab/go-marx/cmd/pattern"
	"jinr.ru/greenlab/go-marx/cmd/reg"
	"jinr.ru/greenlab/go-marx/cmd/replay"
	pkgconfig "jinr.ru/greenlab/go-marx/pkg/config"
	"jinr.ru/greenlab/go-marx/pkg/log"
)

const (
	LogLevelOptionName = "log-level"
	ConfigOptionName   = "config"
	ProfileOptionName  = "profile"
)

func NewRootCommand(out io.Writer) *cobra.Command {
	var logLevel, configPath, profileMode string
	var prof interface{ Stop() }
	// subcommands share the config, it is loaded once flags are parsed
	cfg := pkgconfig.NewDefaultConfig()
	cmd := &cobra.Command{
		Use:          "go-marx",
		Short:        "Tool to program Marx generator pulse timing",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if configPath != "" {
				*cfg = *pkgconfig.NewConfig(configPath)
			}
			if err := cfg.Load(); err != nil {
				return err
			}
			if logLevel != "" {
				cfg.LogLevel = logLevel
			}
			if err := log.SetLevel(cfg.LogLevel); err != nil {
				return err
			}
			log.Init(cmd.ErrOrStderr(), cfg.LogLevel)

			switch profileMode {
			case "":
			case "cpu":
				prof = profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.Quiet)
			case "mem":
				prof = profile.Start(profile.MemProfile, profile.ProfilePath("."), profile.Quiet)
			default:
				return fmt.Errorf("Wrong profile mode %q. Must be one of: cpu, mem", profileMode)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if prof != nil {
				prof.Stop()
			}
		},
	}
	cmd.SetOut(out)
	cmd.AddCommand(config.NewCommand(cfg))
	cmd.AddCommand(control.NewCommand(cfg))
	cmd.AddCommand(marx.NewCommand(cfg))
	cmd.AddCommand(reg.NewCommand(cfg))
	cmd.AddCommand(pattern.NewCommand(cfg))
	cmd.AddCommand(replay.NewCommand(cfg))
	cmd.AddCommand(agent.NewCommand(cfg))
	cmd.AddCommand(completion.NewCommand())
	cmd.PersistentFlags().StringVar(&logLevel, LogLevelOptionName, "", fmt.Sprintf("Log level. %s", log.HelpLevels))
	cmd.PersistentFlags().StringVar(&configPath, ConfigOptionName, "", fmt.Sprintf("Config file. Default %s", pkgconfig.DefaultConfigPath()))
	cmd.PersistentFlags().StringVar(&profileMode, ProfileOptionName, "", "Write cpu or mem profile to the current directory")
	return cmd
}
