package main

import (
	"net/http"

	"github.com/urfave/cli/v2"
)

var listagents = cli.Command{
	Name:   "listagents",
	Usage:  "list all registered agents",
	Action: listAgentsAction,
}

func listAgentsAction(ctx *cli.Context) error {
	resp, err := request(http.MethodGet, "/v1/registry/agents", nil)
	if err != nil {
		return err
	}

	printRespJSON(resp)
	return nil
}
