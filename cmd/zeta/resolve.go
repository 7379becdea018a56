package main

import (
	"fmt"
	"net/http"

	"github.com/urfave/cli/v2"
)

var resolve = cli.Command{
	Name:  "resolve",
	Usage: "resolve the dispute of an order",
	Flags: []cli.Flag{
		&cli.Uint64Flag{
			Name:  "order",
			Usage: "the order id",
			Value: 0,
		},
	},
	Action: resolveAction,
}

func resolveAction(ctx *cli.Context) error {
	route := fmt.Sprintf("/v1/disputes/%d/resolve", ctx.Uint64("order"))
	resp, err := request(http.MethodPost, route, struct{}{})
	if err != nil {
		return err
	}

	printRespJSON(resp)
	return nil
}
