package cli

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/healguard/pkg/cli/config"
	"github.com/urfave/cli/v3"
)

var (
	validateOK = color.New(color.FgGreen).SprintFunc()
	validateNG = color.New(color.FgRed).SprintFunc()
)

func cmdValidate() *cli.Command {
	var appCfg config.AppConfig

	return &cli.Command{
		Name:    "validate",
		Aliases: []string{"v"},
		Usage:   "Validate the configuration file",
		Flags:   appCfg.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			if appCfg.Path() == "" {
				return goerr.New("--config is required for validation")
			}

			if err := appCfg.Configure(); err != nil {
				fmt.Printf("%s %s\n", validateNG("NG"), appCfg.Path())
				return goerr.Wrap(err, "configuration validation failed")
			}

			fmt.Printf("%s %s\n", validateOK("OK"), appCfg.Path())
			fmt.Printf("  timezone:            %s\n", appCfg.Timezone)
			fmt.Printf("  history_limit:       %d\n", appCfg.HistoryLimit)
			fmt.Printf("  notification_limit:  %d\n", appCfg.NotificationLimit)
			fmt.Printf("  dedup_retention:     %s\n", appCfg.DedupRetention())
			fmt.Printf("  hardware_poll:       %s\n", appCfg.HardwarePollInterval())
			return nil
		},
	}
}
