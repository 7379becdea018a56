package main

import (
	"fmt"
	"net/http"

	"github.com/urfave/cli/v2"
)

var pause = cli.Command{
	Name:   "pause",
	Usage:  "pause the protocol",
	Action: pauseAction,
}

var unpause = cli.Command{
	Name:   "unpause",
	Usage:  "unpause the protocol",
	Action: unpauseAction,
}

func pauseAction(ctx *cli.Context) error {
	if _, err := request(http.MethodPost, "/v1/policy/pause", struct{}{}); err != nil {
		return err
	}

	fmt.Println("protocol is paused")
	return nil
}

func unpauseAction(ctx *cli.Context) error {
	if _, err := request(http.MethodPost, "/v1/policy/unpause", struct{}{}); err != nil {
		return err
	}

	fmt.Println("protocol is unpaused")
	return nil
}
