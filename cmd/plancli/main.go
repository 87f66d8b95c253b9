package main

import (
	"fmt"
	"os"

	"github.com/lightninglabs/htlcplan/build"
	"github.com/urfave/cli"
)

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "[plancli] %v\n", err)
	os.Exit(1)
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "plancli"
	app.Version = build.Version() + " commit=" + build.Commit
	app.Usage = "inspect the inputs and outputs of htlcplan"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name: "network, n",
			Usage: "The network payment requests are decoded " +
				"for, e.g. mainnet, testnet, etc.",
			Value: "mainnet",
		},
	}
	app.Commands = []cli.Command{
		decodeTLVCommand,
		decodePayReqCommand,
		feeCommand,
	}

	return app
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fatal(err)
	}
}
