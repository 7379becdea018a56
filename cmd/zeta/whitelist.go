package main

import (
	"fmt"
	"net/http"

	"github.com/urfave/cli/v2"
)

var whitelist = cli.Command{
	Name:  "whitelist",
	Usage: "whitelist an agent",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "agent",
			Usage: "the agent address to whitelist",
			Value: "",
		},
	},
	Action: whitelistAction,
}

func whitelistAction(ctx *cli.Context) error {
	_, err := request(http.MethodPost, "/v1/registry/whitelist", map[string]string{
		"agent": ctx.String("agent"),
	})
	if err != nil {
		return err
	}

	fmt.Println("agent is whitelisted")
	return nil
}
