package main

import (
	"fmt"
	"net/http"

	"github.com/urfave/cli/v2"
)

var release = cli.Command{
	Name:  "release",
	Usage: "release the holdback of a completed order",
	Flags: []cli.Flag{
		&cli.Uint64Flag{
			Name:  "order",
			Usage: "the order id",
			Value: 0,
		},
	},
	Action: releaseAction,
}

func releaseAction(ctx *cli.Context) error {
	route := fmt.Sprintf("/v1/vault/release/%d", ctx.Uint64("order"))
	resp, err := request(http.MethodPost, route, struct{}{})
	if err != nil {
		return err
	}

	printRespJSON(resp)
	return nil
}
