package main

import (
	"net/http"

	"github.com/urfave/cli/v2"
)

var addwebhook = cli.Command{
	Name:  "addwebhook",
	Usage: "register a webhook for an event type",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "action",
			Usage: "the event type to be notified about, use '*' for all events",
			Value: "",
		},
		&cli.StringFlag{
			Name:  "endpoint",
			Usage: "the endpoint of the webhook",
			Value: "",
		},
		&cli.StringFlag{
			Name:  "secret",
			Usage: "the secret to secure notifications sent to the webhook",
			Value: "",
		},
	},
	Action: addWebhookAction,
}

func addWebhookAction(ctx *cli.Context) error {
	resp, err := request(http.MethodPost, "/v1/subscriptions", map[string]string{
		"topic":    ctx.String("action"),
		"endpoint": ctx.String("endpoint"),
		"secret":   ctx.String("secret"),
	})
	if err != nil {
		return err
	}

	printRespJSON(resp)
	return nil
}
