package main

import (
	"fmt"
	"net/http"

	"github.com/urfave/cli/v2"
)

var setrisk = cli.Command{
	Name:  "risk",
	Usage: "set the risk score of an agent",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "agent",
			Usage: "the agent address",
			Value: "",
		},
		&cli.UintFlag{
			Name:  "bps",
			Usage: "the risk score in basis points",
			Value: 0,
		},
	},
	Action: setRiskAction,
}

func setRiskAction(ctx *cli.Context) error {
	_, err := request(http.MethodPost, "/v1/registry/risk", map[string]interface{}{
		"agent":    ctx.String("agent"),
		"risk_bps": ctx.Uint("bps"),
	})
	if err != nil {
		return err
	}

	fmt.Println("risk score updated")
	return nil
}
