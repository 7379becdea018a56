package main

import (
	"fmt"
	"net/http"

	"github.com/urfave/cli/v2"
)

var unlist = cli.Command{
	Name:  "unlist",
	Usage: "remove an agent from the whitelist",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "agent",
			Usage: "the agent address to unlist",
			Value: "",
		},
	},
	Action: unlistAction,
}

func unlistAction(ctx *cli.Context) error {
	_, err := request(http.MethodPost, "/v1/registry/unlist", map[string]string{
		"agent": ctx.String("agent"),
	})
	if err != nil {
		return err
	}

	fmt.Println("agent is unlisted")
	return nil
}
