package main

import (
	"net/http"

	"github.com/urfave/cli/v2"
)

var listorders = cli.Command{
	Name:   "listorders",
	Usage:  "list all orders",
	Action: listOrdersAction,
}

func listOrdersAction(ctx *cli.Context) error {
	resp, err := request(http.MethodGet, "/v1/orders", nil)
	if err != nil {
		return err
	}

	printRespJSON(resp)
	return nil
}
