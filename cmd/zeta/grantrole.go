package main

import (
	"fmt"
	"net/http"

	"github.com/urfave/cli/v2"
)

var grantrole = cli.Command{
	Name:  "grantrole",
	Usage: "grant a role to an identity",
	Flags: []cli.Flag{
		&cli.IntFlag{
			Name:  "role",
			Usage: "the role code: 0 admin, 1 policy, 2 operator, 3 listing",
			Value: 0,
		},
		&cli.StringFlag{
			Name:  "identity",
			Usage: "the identity receiving the role",
			Value: "",
		},
	},
	Action: grantRoleAction,
}

func grantRoleAction(ctx *cli.Context) error {
	_, err := request(http.MethodPost, "/v1/policy/roles/grant", map[string]interface{}{
		"role":     ctx.Int("role"),
		"identity": ctx.String("identity"),
	})
	if err != nil {
		return err
	}

	fmt.Println("role granted")
	return nil
}
