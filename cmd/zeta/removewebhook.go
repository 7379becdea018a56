package main

import (
	"fmt"
	"net/http"

	"github.com/urfave/cli/v2"
)

var removewebhook = cli.Command{
	Name:  "removewebhook",
	Usage: "remove a registered webhook",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "action",
			Usage: "the event type the webhook is registered for",
			Value: "",
		},
		&cli.StringFlag{
			Name:  "id",
			Usage: "the id of the webhook to remove",
			Value: "",
		},
	},
	Action: removeWebhookAction,
}

func removeWebhookAction(ctx *cli.Context) error {
	route := fmt.Sprintf(
		"/v1/subscriptions/%s/%s", ctx.String("action"), ctx.String("id"),
	)
	if _, err := request(http.MethodDelete, route, nil); err != nil {
		return err
	}

	fmt.Println("webhook is removed")
	return nil
}
