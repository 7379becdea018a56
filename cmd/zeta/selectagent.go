package main

import (
	"fmt"
	"net/http"

	"github.com/urfave/cli/v2"
)

var selectagent = cli.Command{
	Name:  "select",
	Usage: "run the quote selection for an order",
	Flags: []cli.Flag{
		&cli.Uint64Flag{
			Name:  "order",
			Usage: "the order id",
			Value: 0,
		},
	},
	Action: selectAgentAction,
}

func selectAgentAction(ctx *cli.Context) error {
	route := fmt.Sprintf("/v1/orders/%d/select", ctx.Uint64("order"))
	resp, err := request(http.MethodPost, route, struct{}{})
	if err != nil {
		return err
	}

	printRespJSON(resp)
	return nil
}
