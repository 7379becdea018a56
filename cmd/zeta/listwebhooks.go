package main

import (
	"fmt"
	"net/http"

	"github.com/urfave/cli/v2"
)

var listwebhooks = cli.Command{
	Name:  "listwebhooks",
	Usage: "list the webhooks registered for an event type",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "action",
			Usage: "the event type the webhooks are registered for",
			Value: "",
		},
	},
	Action: listWebhooksAction,
}

func listWebhooksAction(ctx *cli.Context) error {
	route := fmt.Sprintf("/v1/subscriptions/%s", ctx.String("action"))
	resp, err := request(http.MethodGet, route, nil)
	if err != nil {
		return err
	}

	printRespJSON(resp)
	return nil
}
