package main

import (
	"fmt"
	"net/http"

	"github.com/urfave/cli/v2"
)

var ban = cli.Command{
	Name:  "ban",
	Usage: "ban or unban a user or agent address",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "address",
			Usage: "the address to ban or unban",
			Value: "",
		},
		&cli.BoolFlag{
			Name:  "agent",
			Usage: "whether the address is an agent",
		},
		&cli.BoolFlag{
			Name:  "unban",
			Usage: "lift the ban instead of setting it",
		},
	},
	Action: banAction,
}

func banAction(ctx *cli.Context) error {
	route := "/v1/policy/ban/user"
	if ctx.Bool("agent") {
		route = "/v1/policy/ban/agent"
	}

	banned := !ctx.Bool("unban")
	_, err := request(http.MethodPost, route, map[string]interface{}{
		"address": ctx.String("address"),
		"banned":  banned,
	})
	if err != nil {
		return err
	}

	if banned {
		fmt.Println("address is banned")
	} else {
		fmt.Println("address is unbanned")
	}
	return nil
}
