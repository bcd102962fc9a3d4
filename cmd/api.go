package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/solvex/internal/shared"
)

// APIGet makes a direct GET request and prints the JSON response.
func (r *Runner) APIGet(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("path")
	if path == "" {
		return fmt.Errorf("%w: path is required", shared.ErrMissingArgument)
	}

	r.logger.Info("GET request", "path", path)

	var raw json.RawMessage
	if err := r.api.Client.Do(ctx, http.MethodGet, path, nil, &raw); err != nil {
		return err
	}

	if !cmd.Bool("pretty") {
		return r.writePlain("%s\n", raw)
	}

	var data any
	if err := json.Unmarshal(raw, &data); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrMalformedResponse, err)
	}
	return r.writeJSON(data, true)
}
