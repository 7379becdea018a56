package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/urfave/cli/v2"
)

var (
	zetaDataDir = defaultDataDir()
	statePath   = path.Join(zetaDataDir, "state.json")

	httpClient = &http.Client{Timeout: 30 * time.Second}
)

func main() {
	app := cli.NewApp()

	app.Version = "0.0.1"
	app.Name = "zeta operator CLI"
	app.Usage = "Command line interface for zetad daemon operators"
	app.Commands = append(
		app.Commands,
		&config,
		&whitelist,
		&unlist,
		&setrisk,
		&grantrole,
		&pause,
		&unpause,
		&ban,
		&listagents,
		&listorders,
		&selectagent,
		&release,
		&resolve,
		&addwebhook,
		&removewebhook,
		&listwebhooks,
	)

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "[zeta] error:", err)
		os.Exit(1)
	}
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".zeta-operator"
	}
	return filepath.Join(home, ".zeta-operator")
}

func getState() (map[string]string, error) {
	data := map[string]string{}

	file, err := os.ReadFile(statePath)
	if err != nil {
		return nil, errors.New("get config state error: try 'config init'")
	}
	json.Unmarshal(file, &data)

	return data, nil
}

func setState(data map[string]string) error {
	if _, err := os.Stat(zetaDataDir); os.IsNotExist(err) {
		os.Mkdir(zetaDataDir, os.ModeDir|0755)
	}

	currentData, _ := getState()
	if currentData == nil {
		currentData = map[string]string{}
	}
	for k, v := range data {
		currentData[k] = v
	}

	jsonString, err := json.Marshal(currentData)
	if err != nil {
		return err
	}
	if err := os.WriteFile(statePath, jsonString, 0644); err != nil {
		return fmt.Errorf("writing to file: %w", err)
	}

	return nil
}

// request performs an authenticated call against the daemon and returns the
// decoded response body.
func request(method, route string, body interface{}) (interface{}, error) {
	state, err := getState()
	if err != nil {
		return nil, err
	}
	rpcserver, ok := state["rpcserver"]
	if !ok {
		return nil, errors.New("set the daemon address with `config init`")
	}

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequest(method, rpcserver+route, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if token := state["token"]; token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rs, err := httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer rs.Body.Close()

	var decoded interface{}
	if err := json.NewDecoder(rs.Body).Decode(&decoded); err != nil && err != io.EOF {
		return nil, err
	}
	if rs.StatusCode >= 400 {
		if m, ok := decoded.(map[string]interface{}); ok {
			if msg, ok := m["error"].(string); ok {
				return nil, errors.New(msg)
			}
		}
		return nil, fmt.Errorf("daemon returned status %d", rs.StatusCode)
	}
	return decoded, nil
}

func printRespJSON(resp interface{}) {
	jsonStr, err := json.MarshalIndent(resp, "", "\t")
	if err != nil {
		fmt.Println("unable to decode response: ", err)
		return
	}

	fmt.Println(string(jsonStr))
}
