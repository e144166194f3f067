package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/mynaparrot/voice-insights/helpers"
	"github.com/mynaparrot/voice-insights/pkg/config"
	"github.com/mynaparrot/voice-insights/pkg/console"
	"github.com/mynaparrot/voice-insights/pkg/factory"
	"github.com/mynaparrot/voice-insights/pkg/media"
	"github.com/mynaparrot/voice-insights/pkg/services/db"
	"github.com/mynaparrot/voice-insights/pkg/services/insights"
	"github.com/mynaparrot/voice-insights/version"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"
)

func main() {
	cli.VersionPrinter = func(c *cli.Command) {
		fmt.Printf("%s\n", c.Version)
	}

	app := &cli.Command{
		Name:        "voice-insights",
		Usage:       "Speech to text with sentiment, key phrase and entity analysis",
		ArgsUsage:   "[file.wav]",
		Description: "without a file argument will listen on the default microphone",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Usage:       "Configuration file",
				DefaultText: "config.yaml",
				Value:       "config.yaml",
			},
		},
		Action: runSession,
		Commands: []*cli.Command{
			{
				Name:      "history",
				Usage:     "List recorded sessions or show the utterances of one",
				ArgsUsage: "[session-id]",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Number of sessions to list",
						Value: 20,
					},
				},
				Action: showHistory,
			},
		},
		Version: version.Version,
	}
	err := app.Run(context.Background(), os.Args)
	if err != nil {
		logrus.Fatalln(err)
	}
}

func runSession(ctx context.Context, c *cli.Command) error {
	renderer := insightsservice.NewRenderer(os.Stdout)

	appCnf, err := helpers.ReadYamlConfigFile(c.String("config"))
	if err != nil {
		return startupError(renderer, config.MissingConfigMessage(err), err)
	}
	// set this config for global usage
	if _, err = config.New(appCnf); err != nil {
		return startupError(renderer, config.MissingConfigMessage(err), err)
	}

	src, err := media.ResolveSource(c.Args().First())
	if err != nil {
		return startupError(renderer, media.UserMessage(err), err)
	}

	// logger and database
	if err = helpers.PrepareApp(ctx, appCnf); err != nil {
		return startupError(renderer, err.Error(), err)
	}
	// defer close connections
	defer helpers.HandleCloseConnections(appCnf)

	appFactory, err := factory.NewAppFactory(appCnf, renderer)
	if err != nil {
		return err
	}
	defer appFactory.Shutdown()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	if src.IsMicrophone() {
		var cancel context.CancelFunc
		ctx, cancel = context.WithCancel(ctx)
		defer cancel()

		go func() {
			// stdin without input keeps listening until a signal arrives
			if err := console.WaitForQuit(ctx, os.Stdin); err == nil {
				cancel()
			}
		}()
	}

	summary, err := appFactory.Runner.Run(ctx, src)
	if err != nil {
		return err
	}
	appCnf.Logger.WithFields(logrus.Fields{
		"audioId":    summary.AudioID,
		"utterances": summary.Utterances,
		"duration":   summary.Duration.String(),
	}).Infoln("session stored")

	return nil
}

func showHistory(ctx context.Context, c *cli.Command) error {
	appCnf, err := helpers.ReadYamlConfigFile(c.String("config"))
	if err != nil {
		return err
	}
	// credentials are not needed to read the store
	config.ApplyDefaults(appCnf)

	if err = helpers.PrepareApp(ctx, appCnf); err != nil {
		return err
	}
	defer helpers.HandleCloseConnections(appCnf)

	store := dbservice.New(appCnf.DB, appCnf.Logger)
	renderer := insightsservice.NewRenderer(os.Stdout)

	if c.Args().Len() == 0 {
		return renderer.ListSessions(store, c.Int("limit"))
	}

	id, err := strconv.ParseUint(c.Args().First(), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid session id %q", c.Args().First())
	}
	return renderer.ShowSession(store, id)
}

// startupError shows msg, waits for the user and hands err back so the
// process exits non-zero.
func startupError(renderer *insightsservice.Renderer, msg string, err error) error {
	renderer.Error(msg)
	console.PressEnterToExit(os.Stdin, os.Stdout, config.PressEnterToExitMsg)
	return err
}
