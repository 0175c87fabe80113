package main

import (
	"os"

	"AveBuf/pkg/utils"
	"AveBuf/pkg/version"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var logger = utils.GetLogger("avebuf")

func main() {
	cli.VersionFlag = &cli.BoolFlag{
		Name: "version", Aliases: []string{"V"},
		Usage: "print only the version",
	}
	app := &cli.App{
		Name:                 "avebuf",
		Usage:                "persistent chunked buffer toolbox",
		Version:              version.Version(),
		EnableBashCompletion: true,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"debug", "v"},
				Usage:   "enable debug log",
			},
			&cli.BoolFlag{
				Name:    "quiet",
				Aliases: []string{"q"},
				Usage:   "only warning and errors",
			},
			&cli.BoolFlag{
				Name:  "trace",
				Usage: "enable trace log",
			},
			&cli.StringFlag{
				Name:  "log",
				Usage: "path of log file when running in background",
			},
		},
		Commands: []*cli.Command{
			scanFlags(),
			packFlags(),
		},
	}
	if err := app.Run(os.Args); err != nil {
		logger.Fatalf("%s", err)
	}
}

func setLoggerLevel(c *cli.Context) {
	if c.Bool("trace") {
		utils.SetLogLevel(logrus.TraceLevel)
	} else if c.Bool("verbose") {
		utils.SetLogLevel(logrus.DebugLevel)
	} else if c.Bool("quiet") {
		utils.SetLogLevel(logrus.WarnLevel)
	}
	if f := c.String("log"); f != "" {
		utils.SetOutFile(f)
	}
}
